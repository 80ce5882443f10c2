package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home.html", "site.html", "about.html", "contact.html", "error.html"}

// renderer holds one parsed template set per page, each sharing layout.html.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(dir *domain.Directory) (*renderer, error) {
	funcs := template.FuncMap{
		"formatDateTime": domain.FormatDateTime,
		"stationName":    dir.Name,
		"levelClass":     levelClass,
		"levelLabel":     levelLabel,
		"classify":       func(r domain.Reading, t domain.ThresholdSet) domain.AlertLevel { return domain.ClassifyReading(r, t) },
		"oneDecimal":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &renderer{pages: pages}, nil
}

// render executes a page into a buffer first so template errors never leave
// a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func levelClass(l domain.AlertLevel) string {
	return "level-" + string(l)
}

func levelLabel(l domain.AlertLevel) string {
	if l == "" {
		return "Normal"
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}
