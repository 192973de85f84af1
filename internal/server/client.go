package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/reviewnag/internal/models"
)

// Client talks to a running daemon. CLI commands that change reminder state
// go through it so the daemon stays the only writer of live chains.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(listen string) *Client {
	base := listen
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", c.BaseURL, err)
	}
	defer res.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("unexpected response from daemon (status %d): %w", res.StatusCode, err)
	}
	if !envelope.Success {
		return &StatusError{Code: res.StatusCode, Message: envelope.Error}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode daemon response: %w", err)
		}
	}
	return nil
}

// StatusError is a failed API call.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("daemon returned %d: %s", e.Code, e.Message)
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &h)
	return h, err
}

func (c *Client) Settings(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := c.do(ctx, http.MethodGet, "/api/settings", nil, &s)
	return s, err
}

// UpdateSettings replaces the daemon's settings and returns what it saved.
func (c *Client) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	var saved models.Settings
	err := c.do(ctx, http.MethodPut, "/api/settings", s, &saved)
	return saved, err
}

func (c *Client) Acknowledge(ctx context.Context, tag string) error {
	return c.do(ctx, http.MethodPost, "/api/reminders/"+url.PathEscape(tag)+"/ack", nil, nil)
}

func (c *Client) Snooze(ctx context.Context, tag string, minutes int) error {
	return c.do(ctx, http.MethodPost, "/api/reminders/"+url.PathEscape(tag)+"/snooze", SnoozeRequest{Minutes: minutes}, nil)
}

func (c *Client) Schedule(ctx context.Context, item models.Item) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	err := c.do(ctx, http.MethodPost, "/api/items/schedule", item, &entries)
	return entries, err
}

func (c *Client) Today(ctx context.Context, items []models.Item) (int, error) {
	var res TodayResult
	err := c.do(ctx, http.MethodPost, "/api/items/today", items, &res)
	return res.Armed, err
}

func (c *Client) Check(ctx context.Context) (CheckResult, error) {
	var res CheckResult
	err := c.do(ctx, http.MethodPost, "/api/check", nil, &res)
	return res, err
}

func (c *Client) Welcome(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/presentation/welcome", nil, nil)
}

func (c *Client) Pending(ctx context.Context) ([]PendingWake, error) {
	var wakes []PendingWake
	err := c.do(ctx, http.MethodGet, "/api/reminders/pending", nil, &wakes)
	return wakes, err
}
