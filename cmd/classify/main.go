// Command classify runs the dashboard classification over a saved weather API
// response without starting the server. It prints the aggregate metrics as
// JSON followed by one row per station.
//
// Usage:
//
//	go run ./cmd/classify -input readings.json
//	go run ./cmd/classify -sample
//	go run ./cmd/classify -input readings.json -env -format json
//
// With -env, stations and thresholds come from the same environment variables
// the server reads; otherwise the built-in defaults are used.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/couchcryptid/flood-alert-dashboard/internal/adapter/weatherapi"
	"github.com/couchcryptid/flood-alert-dashboard/internal/config"
	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
)

type options struct {
	input  string
	sample bool
	useEnv bool
	format string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "", "path to a weather API response (JSON)")
	flag.BoolVar(&opts.sample, "sample", false, "classify the built-in five-station sample instead of a file")
	flag.BoolVar(&opts.useEnv, "env", false, "load stations and thresholds from the environment")
	flag.StringVar(&opts.format, "format", "table", "output format: table or json")
	flag.Parse()

	if opts.input == "" && !opts.sample {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, "classify:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) error {
	thresholds := domain.DefaultThresholds()
	stations := domain.DefaultStations()
	if opts.useEnv {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		thresholds, stations = cfg.Thresholds, cfg.Stations
	}
	dir, err := domain.NewDirectory(stations)
	if err != nil {
		return err
	}

	readings, err := loadReadings(opts)
	if err != nil {
		return err
	}
	snap := domain.NewSnapshot(readings, thresholds, dir)

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Metrics  domain.DashboardMetrics `json:"metrics"`
			Stations []domain.StationStatus  `json:"stations"`
		}{snap.Metrics, domain.StationStatuses(snap.Stations, thresholds, dir)})
	case "table":
		return writeTable(out, snap, thresholds, dir)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

func loadReadings(opts options) ([]domain.Reading, error) {
	if opts.sample {
		return domain.SampleReadings(), nil
	}
	body, err := os.ReadFile(opts.input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	raws, err := weatherapi.DecodePayload(body)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, errors.New("input contains no readings")
	}
	return domain.ParseReadings(raws), nil
}

func writeTable(out io.Writer, snap domain.Snapshot, t domain.ThresholdSet, dir *domain.Directory) error {
	m := snap.Metrics
	fmt.Fprintf(out, "highest alert: %s (%d)\n", m.HighestAlertLevel, m.HighestAlertCount)
	fmt.Fprintf(out, "counts: critical=%d warning=%d alert=%d advisory=%d\n",
		m.CriticalCount, m.WarningCount, m.AlertCount, m.AdvisoryCount)
	fmt.Fprintf(out, "rainfall: %s (%s, avg %.1f mm/h)\n", m.RainfallForecast.Level, m.RainfallForecast.Warning, m.AverageRainfall)
	fmt.Fprintf(out, "sensors online: %d/%d\n\n", m.OnlineSensors, m.TotalSensors)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATION\tLEVEL\tWATER\tRAIN\tWIND\tUPDATED")
	for _, st := range domain.StationStatuses(snap.Stations, t, dir) {
		if !st.Online {
			fmt.Fprintf(tw, "%s\t%s\toffline\t-\t-\t-\t-\n", st.Station.ID, st.Station.Name)
			continue
		}
		r := st.Reading
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
			st.Station.ID, st.Station.Name, st.Level,
			r.WaterLevel, r.HourlyRain, r.WindSpeed, domain.FormatDateTime(r.Timestamp))
	}
	return tw.Flush()
}
