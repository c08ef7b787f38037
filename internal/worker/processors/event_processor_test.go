package processors

import (
	"context"
	"errors"
	"testing"

	"feedcheck/internal/customrules"
	"feedcheck/internal/history"
	"feedcheck/internal/logger"
	"feedcheck/internal/metrics"
	"feedcheck/internal/models"
	"feedcheck/internal/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	saved   []*models.HistoryEntry
	saveErr error
}

func (f *fakeStore) Save(ctx context.Context, entry *models.HistoryEntry) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, entry)
	return "entry-1", nil
}

func (f *fakeStore) LoadRecent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeStore) Fetch(ctx context.Context, id string) (*models.HistoryEntry, error) {
	return nil, history.ErrNotFound
}

func newTestProcessor(store history.Store) *EventProcessor {
	log := logger.New("error")
	engine := validation.NewEngine(validation.DefaultRuleSet(), nil, 0, log)
	collector := metrics.NewCollector(prometheus.NewRegistry())
	return NewEventProcessor(engine, customrules.New(log), nil, store, collector, log)
}

func TestProcess_ValidationEvent(t *testing.T) {
	store := &fakeStore{}
	ep := newTestProcessor(store)

	err := ep.Process(context.Background(), Event{
		Type:    EventFeedValidationRequested,
		FeedID:  "feed-1",
		Records: []models.FeedRecord{{"id": "P1"}},
	})

	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "feed-1", store.saved[0].FeedID)
	assert.Equal(t, 1, store.saved[0].TotalProducts)
	assert.NotEmpty(t, store.saved[0].Issues)
}

func TestProcess_SaveFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("database unavailable")}
	ep := newTestProcessor(store)

	err := ep.Process(context.Background(), Event{
		Type:    EventFeedValidationRequested,
		FeedID:  "feed-1",
		Records: []models.FeedRecord{{"id": "P1"}},
	})

	assert.NoError(t, err, "a failed history save must not fail the event")
}

func TestProcess_MissingFeedID(t *testing.T) {
	ep := newTestProcessor(&fakeStore{})

	err := ep.Process(context.Background(), Event{Type: EventFeedValidationRequested})
	assert.Error(t, err)
}

func TestProcess_IgnoresUnknownEventTypes(t *testing.T) {
	store := &fakeStore{}
	ep := newTestProcessor(store)

	err := ep.Process(context.Background(), Event{Type: "product.updated"})
	require.NoError(t, err)
	assert.Empty(t, store.saved)
}
