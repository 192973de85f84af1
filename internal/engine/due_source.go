package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/reviewnag/internal/models"
)

// DueSource reports how many items are waiting for review.
type DueSource interface {
	Pending(ctx context.Context) (models.DueReport, error)
}

// DueSourceFunc adapts a function to DueSource.
type DueSourceFunc func(ctx context.Context) (models.DueReport, error)

func (f DueSourceFunc) Pending(ctx context.Context) (models.DueReport, error) {
	return f(ctx)
}

const pendingReviewsPath = "/api/pending-reviews"

// HTTPDueSource queries GET {BaseURL}/api/pending-reviews.
type HTTPDueSource struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPDueSource(baseURL, token string) *HTTPDueSource {
	return &HTTPDueSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPDueSource) Pending(ctx context.Context) (models.DueReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+pendingReviewsPath, nil)
	if err != nil {
		return models.DueReport{}, fmt.Errorf("failed to build due-items request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return models.DueReport{}, fmt.Errorf("failed to query due items: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return models.DueReport{}, fmt.Errorf("due-items source returned status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var report models.DueReport
	if err := json.NewDecoder(res.Body).Decode(&report); err != nil {
		return models.DueReport{}, fmt.Errorf("failed to decode due items: %w", err)
	}
	if report.Count < 0 {
		return models.DueReport{}, fmt.Errorf("due-items source returned negative count %d", report.Count)
	}
	return report, nil
}
