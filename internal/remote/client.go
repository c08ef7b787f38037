package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"feedcheck/internal/logger"
	"feedcheck/internal/models"
	"feedcheck/internal/validation"
)

// Client calls an external feed-validation API and adapts its response to the
// engine's ValidationResult. It satisfies validation.RemoteValidator.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

type validateRequest struct {
	FeedID  string              `json:"feed_id"`
	Records []models.FeedRecord `json:"records"`
}

// Validate submits the feed for remote validation. The caller's context
// bounds the call; cancellation and timeouts surface as a
// RemoteValidationError for the engine to fall back on.
func (c *Client) Validate(ctx context.Context, feedID string, records []models.FeedRecord) (*models.ValidationResult, error) {
	payload, err := json.Marshal(validateRequest{FeedID: feedID, Records: records})
	if err != nil {
		return nil, &validation.RemoteValidationError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	url := fmt.Sprintf("%s/v1/feeds/validate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &validation.RemoteValidationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &validation.RemoteValidationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &validation.RemoteValidationError{Err: fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))}
	}

	var result models.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &validation.RemoteValidationError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return &result, nil
}
