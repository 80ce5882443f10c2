package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/config"
	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every snapshot event.
const (
	HeaderHighestAlertLevel = "highest_alert_level"
	HeaderFetchedAt         = "fetched_at"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes dashboard snapshots to a Kafka topic.
// It implements dashboard.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// SnapshotEvent is the JSON value of a snapshot message.
type SnapshotEvent struct {
	ID        string                  `json:"id"`
	FetchedAt time.Time               `json:"fetched_at"`
	Metrics   domain.DashboardMetrics `json:"metrics"`
	Readings  []domain.Reading        `json:"readings"` // latest per station
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the writer in publisher logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Publish serializes a snapshot and writes it as a single message keyed by
// snapshot id.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snap.ID, err)
	}
	w.logger.Debug("snapshot published", "snapshot_id", snap.ID, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	event := SnapshotEvent{
		ID:        snap.ID,
		FetchedAt: snap.FetchedAt,
		Metrics:   snap.Metrics,
		Readings:  snap.Stations,
	}
	if event.Readings == nil {
		event.Readings = []domain.Reading{}
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderHighestAlertLevel, Value: []byte(snap.Metrics.HighestAlertLevel)},
			{Key: HeaderFetchedAt, Value: []byte(snap.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
