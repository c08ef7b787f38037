package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueTypeBlocking(t *testing.T) {
	assert.True(t, IssueTypeError.Blocking())
	assert.True(t, IssueTypeFormat.Blocking())
	assert.False(t, IssueTypeWarning.Blocking())
	assert.False(t, IssueTypeOptimization.Blocking())
}

func TestValidationResultSummary(t *testing.T) {
	result := &ValidationResult{
		Issues: []Issue{
			{Type: IssueTypeError},
			{Type: IssueTypeError},
			{Type: IssueTypeFormat},
			{Type: IssueTypeOptimization},
		},
	}

	summary := result.Summary()
	assert.Equal(t, 2, summary[IssueTypeError])
	assert.Equal(t, 1, summary[IssueTypeFormat])
	assert.Equal(t, 1, summary[IssueTypeOptimization])
	assert.Equal(t, 0, summary[IssueTypeWarning])
}

func TestFeedRecordAccessors(t *testing.T) {
	record := FeedRecord{"id": "P1", "title": "A product"}

	assert.Equal(t, "P1", record.OfferID())
	assert.Equal(t, "A product", record.Get("title"))
	assert.Equal(t, "", record.Get("missing"))
}
