// Package sqlite archives fetched readings so station history outlives the
// upstream API's rolling window.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	snapshot_id TEXT NOT NULL,
	station_id TEXT NOT NULL,
	water_level REAL NOT NULL,
	hourly_rain REAL NOT NULL,
	wind_speed REAL NOT NULL,
	temperature REAL NOT NULL,
	humidity REAL NOT NULL,
	reading_time TEXT NOT NULL,
	fetched_at DATETIME NOT NULL,
	UNIQUE(station_id, reading_time)
);
CREATE INDEX IF NOT EXISTS idx_readings_station_time ON readings(station_id, reading_time DESC);`

// ErrDisabled is returned by a nil *Archive.
var ErrDisabled = errors.New("reading archive is disabled")

// Archive stores readings in SQLite. It implements dashboard.Publisher.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database file and schema if needed.
func Open(path string, logger *slog.Logger) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// SQLite serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}

	logger.Info("reading archive opened", "path", path)
	return &Archive{db: db, logger: logger}, nil
}

// Name identifies the archive in publisher logs and metrics.
func (a *Archive) Name() string { return "archive" }

// Close closes the database.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Publish stores every reading in the snapshot. Readings already archived for
// the same station and timestamp are left untouched.
func (a *Archive) Publish(ctx context.Context, snap domain.Snapshot) error {
	if a == nil {
		return ErrDisabled
	}
	if len(snap.Readings) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO readings(snapshot_id, station_id, water_level, hourly_rain, wind_speed,
			temperature, humidity, reading_time, fetched_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(station_id, reading_time) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := snap.FetchedAt.UTC()
	var inserted int64
	for _, r := range snap.Readings {
		if r.StationID == "" {
			continue
		}
		ts := r.Timestamp
		if ts == "" {
			ts = fetchedAt.Format(time.RFC3339)
		}
		res, err := stmt.ExecContext(ctx,
			snap.ID, r.StationID, r.WaterLevel, r.HourlyRain, r.WindSpeed,
			r.Temperature, r.Humidity, ts, fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("insert reading for %s at %s: %w", r.StationID, ts, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit readings: %w", err)
	}
	a.logger.Debug("readings archived", "snapshot_id", snap.ID, "inserted", inserted)
	return nil
}

// History returns up to limit archived readings for a station, newest first.
func (a *Archive) History(ctx context.Context, stationID string, limit int) ([]domain.Reading, error) {
	if a == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT station_id, water_level, hourly_rain, wind_speed, temperature, humidity, reading_time
		FROM readings
		WHERE station_id = ?
		ORDER BY reading_time DESC
		LIMIT ?`, stationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Reading, 0)
	for rows.Next() {
		var r domain.Reading
		if err := rows.Scan(&r.StationID, &r.WaterLevel, &r.HourlyRain, &r.WindSpeed,
			&r.Temperature, &r.Humidity, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// Count returns the number of archived readings.
func (a *Archive) Count(ctx context.Context) (int, error) {
	if a == nil {
		return 0, ErrDisabled
	}
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count readings: %w", err)
	}
	return n, nil
}
