package domain

import (
	"strings"
	"time"
)

// DisplayTimeLayout renders timestamps as "January 02, 2006 at 03:04 PM".
const DisplayTimeLayout = "January 02, 2006 at 03:04 PM"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatDateTime renders an ISO-8601 timestamp for display. Unparsable input is
// returned unchanged.
func FormatDateTime(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DisplayTimeLayout)
		}
	}
	return s
}
