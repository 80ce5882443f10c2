package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
)

// ErrUnexpectedStatus is returned when the API answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("weather api: unexpected status")

// maxBodyBytes bounds the response read; the API returns a few hundred records.
const maxBodyBytes = 8 << 20

// Fetcher returns the current readings, newest first.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Reading, error)
}

// Client fetches sensor readings from the APAW weather API.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a weather API client with a per-request timeout.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch performs one GET against the API and parses the payload. A body that is
// neither {"data": [...]} nor a bare array yields no readings and no error.
func (c *Client) Fetch(ctx context.Context) ([]domain.Reading, error) {
	start := time.Now()
	raws, err := c.doRequest(ctx)
	c.metrics.APIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.APIRequests.WithLabelValues("success").Inc()

	readings := domain.ParseReadings(raws)
	c.logger.Debug("weather api fetched", "readings", len(readings), "duration", time.Since(start))
	return readings, nil
}

func (c *Client) doRequest(ctx context.Context) ([]domain.RawReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return DecodePayload(body)
}

// DecodePayload accepts the two shapes the API has been seen to return:
// an envelope {"data": [...]} or a bare array. Any other valid JSON value
// yields an empty list. Array elements that are not objects are skipped.
func DecodePayload(body []byte) ([]domain.RawReading, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var items []any
	switch v := payload.(type) {
	case map[string]any:
		items, _ = v["data"].([]any)
	case []any:
		items = v
	}

	out := make([]domain.RawReading, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, domain.RawReading(obj))
		}
	}
	return out, nil
}
