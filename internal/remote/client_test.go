package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedcheck/internal/logger"
	"feedcheck/internal/models"
	"feedcheck/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Validate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/feeds/validate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			FeedID  string              `json:"feed_id"`
			Records []models.FeedRecord `json:"records"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "feed-1", req.FeedID)

		json.NewEncoder(w).Encode(models.ValidationResult{
			TotalItems:     len(req.Records),
			ValidItemCount: len(req.Records),
			Issues: []models.Issue{
				{RowIndex: 1, OfferID: "P1", Field: "image_link", Type: models.IssueTypeWarning, Message: "Image resolution too low"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", logger.New("error"))

	result, err := client.Validate(context.Background(), "feed-1", []models.FeedRecord{{"id": "P1"}})
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "image_link", result.Issues[0].Field)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", logger.New("error"))

	_, err := client.Validate(context.Background(), "feed-1", []models.FeedRecord{{"id": "P1"}})
	require.Error(t, err)
	var remoteErr *validation.RemoteValidationError
	assert.ErrorAs(t, err, &remoteErr)
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", logger.New("error"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Validate(ctx, "feed-1", []models.FeedRecord{{"id": "P1"}})
	var remoteErr *validation.RemoteValidationError
	assert.ErrorAs(t, err, &remoteErr)
}
