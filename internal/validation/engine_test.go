package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"feedcheck/internal/logger"
	"feedcheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	result *models.ValidationResult
	err    error
	calls  int
}

func (f *fakeRemote) Validate(ctx context.Context, feedID string, records []models.FeedRecord) (*models.ValidationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

func TestEngine_EmptyFeed(t *testing.T) {
	engine := NewEngine(DefaultRuleSet(), nil, 0, testLogger())

	result := engine.ValidateFeed(context.Background(), "feed-1", nil)

	assert.Equal(t, 0, result.TotalItems)
	assert.Equal(t, 0, result.ValidItemCount)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.IssueTypeError, result.Issues[0].Type)
	assert.Equal(t, models.FeedLevelRow, result.Issues[0].RowIndex)
}

func TestEngine_RowIndexesAreOneBased(t *testing.T) {
	engine := NewEngine(DefaultRuleSet(), nil, 0, testLogger())
	records := []models.FeedRecord{
		{"id": "P1"},
		{"id": "P2"},
	}

	result := engine.ValidateFeed(context.Background(), "feed-1", records)

	for _, issue := range result.Issues {
		assert.GreaterOrEqual(t, issue.RowIndex, 1)
		assert.LessOrEqual(t, issue.RowIndex, 2)
	}
}

// validItemCount + records with at least one blocking issue == totalItems.
func TestEngine_ValidCountInvariant(t *testing.T) {
	engine := NewEngine(DefaultRuleSet(), nil, 0, testLogger())

	good := testRecord()
	bad := testRecord()
	bad["id"] = "P2"
	bad["price"] = "no currency"
	missing := models.FeedRecord{"id": "P3"}

	result := engine.ValidateFeed(context.Background(), "feed-1", []models.FeedRecord{good, bad, missing})

	assert.Equal(t, 3, result.TotalItems)
	assert.Equal(t, 1, result.ValidItemCount)

	blockingRows := make(map[int]bool)
	for _, issue := range result.Issues {
		if issue.Type.Blocking() {
			blockingRows[issue.RowIndex] = true
		}
	}
	assert.Equal(t, result.TotalItems, result.ValidItemCount+len(blockingRows))
}

// The short-title scenario: every other field valid, title below the minimum.
func TestEngine_ShortTitleScenario(t *testing.T) {
	rules, err := NewRuleSet(map[string]FieldRule{
		"id":           {MaxLength: 50},
		"title":        {MinLength: 20, MaxLength: 150, Validator: "content"},
		"description":  {MinLength: 90},
		"link":         {Validator: "url"},
		"image_link":   {Validator: "url"},
		"price":        {Validator: "price"},
		"availability": {Enum: []string{"in_stock", "out_of_stock", "preorder", "backorder"}, Validator: "availability"},
		"condition":    {Enum: []string{"new", "used", "refurbished"}, Validator: "condition"},
		"brand":        {MaxLength: 70},
	}, nil)
	require.NoError(t, err)
	engine := NewEngine(rules, nil, 0, testLogger())

	record := models.FeedRecord{
		"id":           "P1",
		"title":        "Short",
		"description":  strings.Repeat("x", 100),
		"price":        "19.99 USD",
		"link":         "https://e.com",
		"image_link":   "https://e.com/i.jpg",
		"availability": "in_stock",
		"brand":        "B",
		"condition":    "new",
	}

	result := engine.ValidateFeed(context.Background(), "feed-1", []models.FeedRecord{record})

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, "title", issue.Field)
	assert.Equal(t, models.IssueTypeFormat, issue.Type)
	assert.Equal(t, 0, result.ValidItemCount, "format issues block validity")
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultRuleSet(), nil, 0, testLogger())
	records := []models.FeedRecord{testRecord(), {"id": "P2", "price": "broken"}}

	first := engine.ValidateFeed(context.Background(), "feed-1", records)
	second := engine.ValidateFeed(context.Background(), "feed-1", records)

	assert.Equal(t, first, second)
}

func TestEngine_RemoteMergeDeduplicates(t *testing.T) {
	local := testRecord()
	delete(local, "brand")

	remote := &fakeRemote{
		result: &models.ValidationResult{
			Issues: []models.Issue{
				// duplicate of the local missing-brand issue
				{RowIndex: 1, OfferID: "P1", Field: "brand", Type: models.IssueTypeError, Message: "Missing required field: brand"},
				// genuinely new remote finding
				{RowIndex: 1, OfferID: "P1", Field: "image_link", Type: models.IssueTypeWarning, Message: "Image resolution too low"},
			},
		},
	}
	engine := NewEngine(DefaultRuleSet(), remote, 0, testLogger())

	result := engine.ValidateFeed(context.Background(), "feed-1", []models.FeedRecord{local})

	assert.Equal(t, 1, remote.calls)

	var brandIssues, remoteFindings int
	for _, issue := range result.Issues {
		if issue.Field == "brand" && issue.Type == models.IssueTypeError {
			brandIssues++
		}
		if issue.Message == "Image resolution too low" {
			remoteFindings++
		}
	}
	assert.Equal(t, 1, brandIssues, "identical (row, field, message) not duplicated")
	assert.Equal(t, 1, remoteFindings)
}

func TestEngine_RemoteFailureFallsBackToLocal(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}
	engine := NewEngine(DefaultRuleSet(), remote, 0, testLogger())

	result := engine.ValidateFeed(context.Background(), "feed-1", []models.FeedRecord{testRecord()})

	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, 1, result.ValidItemCount, "local result stands")

	var warned bool
	for _, issue := range result.Issues {
		if issue.RowIndex == models.FeedLevelRow && issue.Type == models.IssueTypeWarning {
			warned = true
		}
	}
	assert.True(t, warned, "remote failure surfaces as a feed-level warning")
}
