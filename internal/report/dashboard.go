package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Record is the payload the dashboard accepts at /api/file-history.
type Record struct {
	Filename   string    `json:"filename"`
	MediaType  string    `json:"mediaType"`
	Language   string    `json:"language"`
	Status     string    `json:"status"`
	TargetPath string    `json:"targetPath"`
	SizeBytes  int64     `json:"sizeBytes"`
	Timestamp  time.Time `json:"timestamp"`
}

// Dashboard posts processed file records to the dashboard service.
type Dashboard struct {
	baseURL    string
	httpClient *http.Client
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) DashboardOption {
	return func(d *Dashboard) {
		d.httpClient = hc
	}
}

// NewDashboard creates a client for the dashboard at baseURL.
func NewDashboard(baseURL string, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Push sends one record. Callers treat failures as non-fatal; the
// dashboard is a convenience, not a system of record.
func (d *Dashboard) Push(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	url := d.baseURL + "/api/file-history"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dashboard returned status %d", resp.StatusCode)
	}
	return nil
}
