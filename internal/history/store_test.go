package history

import (
	"context"
	"testing"
	"time"

	"feedcheck/internal/database"
	"feedcheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.New("sqlite://" + t.TempDir() + "/history.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGormStore(db.DB)
}

func sampleResult(feedID string) *models.ValidationResult {
	return &models.ValidationResult{
		FeedID:         feedID,
		TotalItems:     3,
		ValidItemCount: 2,
		Issues: []models.Issue{
			{RowIndex: 2, OfferID: "P2", Field: "price", Type: models.IssueTypeFormat, Message: "price must be an amount with a currency code, e.g. 19.99 USD"},
			{RowIndex: 3, OfferID: "P3", Field: "gtin", Type: models.IssueTypeOptimization, Message: "Consider adding recommended field: gtin"},
		},
	}
}

func TestGormStore_SaveAndFetch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, NewEntry(sampleResult("feed-1")))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entry, err := store.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "feed-1", entry.FeedID)
	assert.Equal(t, 3, entry.TotalProducts)
	assert.Equal(t, 2, entry.ValidProducts)
	require.Len(t, entry.Issues, 2)
	assert.Equal(t, "price", entry.Issues[0].Field)
	assert.Equal(t, 1, entry.Summary[models.IssueTypeFormat])
	assert.Equal(t, 1, entry.Summary[models.IssueTypeOptimization])
	assert.False(t, entry.Timestamp.IsZero())
}

func TestGormStore_FetchNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Fetch(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_LoadRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, feed := range []string{"feed-a", "feed-b", "feed-c"} {
		entry := NewEntry(sampleResult(feed))
		entry.Timestamp = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		_, err := store.Save(ctx, entry)
		require.NoError(t, err)
	}

	entries, err := store.LoadRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "feed-c", entries[0].FeedID, "most recent first")
	assert.Equal(t, "feed-b", entries[1].FeedID)
}

func TestNewEntry(t *testing.T) {
	entry := NewEntry(sampleResult("feed-1"))

	assert.Equal(t, "feed-1", entry.FeedID)
	assert.Equal(t, 3, entry.TotalProducts)
	assert.Equal(t, 2, entry.ValidProducts)
	assert.Len(t, entry.Issues, 2)
}
