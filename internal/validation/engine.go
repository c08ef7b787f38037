package validation

import (
	"context"
	"fmt"
	"time"

	"feedcheck/internal/logger"
	"feedcheck/internal/models"
)

// RemoteValidator is an optional second-opinion validator, typically the
// merchant platform's own API. It may fail or time out; the engine then falls
// back to local-only results.
type RemoteValidator interface {
	Validate(ctx context.Context, feedID string, records []models.FeedRecord) (*models.ValidationResult, error)
}

// Engine runs the row validator over a whole feed and aggregates the issues
// into a ValidationResult. Each run builds a fresh result; the engine itself
// holds no per-feed state.
type Engine struct {
	rules         *RuleSet
	row           *RowValidator
	remote        RemoteValidator
	remoteTimeout time.Duration
	logger        *logger.Logger
}

// NewEngine builds an engine over an explicit rule set. remote may be nil for
// local-only validation.
func NewEngine(rules *RuleSet, remote RemoteValidator, remoteTimeout time.Duration, log *logger.Logger) *Engine {
	return &Engine{
		rules:         rules,
		row:           NewRowValidator(rules),
		remote:        remote,
		remoteTimeout: remoteTimeout,
		logger:        log,
	}
}

// Rules exposes the engine's rule set so the issue tracker can share the same
// length policy instead of hard-coding its own.
func (e *Engine) Rules() *RuleSet {
	return e.rules
}

// ValidateFeed validates every record in input order, assigning 1-based row
// indexes. An empty feed yields a single feed-level error issue rather than an
// error return, so callers render it like any other issue. A record counts as
// valid when it produced no error or format issues; optimization hints never
// disqualify a record.
func (e *Engine) ValidateFeed(ctx context.Context, feedID string, records []models.FeedRecord) *models.ValidationResult {
	result := &models.ValidationResult{
		FeedID: feedID,
		Issues: []models.Issue{},
	}

	if len(records) == 0 {
		result.Issues = append(result.Issues, models.Issue{
			RowIndex: models.FeedLevelRow,
			Type:     models.IssueTypeError,
			Message:  ErrEmptyFeed.Error(),
		})
		return result
	}

	result.TotalItems = len(records)

	for i, record := range records {
		rowIndex := i + 1
		rowResult, err := e.validateRow(record, rowIndex)
		if err != nil {
			// One bad record must not abort the feed.
			e.logger.Error("Row %d failed validation unexpectedly: %v", rowIndex, err)
			result.Issues = append(result.Issues, models.Issue{
				RowIndex: rowIndex,
				OfferID:  record.OfferID(),
				Type:     models.IssueTypeError,
				Message:  fmt.Sprintf("Internal validation failure: %v", err),
			})
			continue
		}

		result.Issues = append(result.Issues, rowResult.Required...)
		result.Issues = append(result.Issues, rowResult.Format...)
		result.Issues = append(result.Issues, rowResult.Recommendations...)

		if !rowResult.Blocking() {
			result.ValidItemCount++
		}
	}

	if e.remote != nil {
		e.mergeRemote(ctx, feedID, records, result)
	}

	return result
}

func (e *Engine) validateRow(record models.FeedRecord, rowIndex int) (result RowResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.row.Validate(record, rowIndex), nil
}

// mergeRemote appends remote issues that are not already reported locally for
// the same (row, field, message). Remote failure downgrades to a feed-level
// warning; the local result stands.
func (e *Engine) mergeRemote(ctx context.Context, feedID string, records []models.FeedRecord, result *models.ValidationResult) {
	if e.remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.remoteTimeout)
		defer cancel()
	}

	remoteResult, err := e.remote.Validate(ctx, feedID, records)
	if err != nil {
		e.logger.Error("Remote validation failed, using local results only: %v", err)
		result.Issues = append(result.Issues, models.Issue{
			RowIndex: models.FeedLevelRow,
			Type:     models.IssueTypeWarning,
			Message:  "Remote validation unavailable, showing local results only",
		})
		return
	}

	seen := make(map[string]bool, len(result.Issues))
	for _, issue := range result.Issues {
		seen[issueKey(issue)] = true
	}

	for _, issue := range remoteResult.Issues {
		if seen[issueKey(issue)] {
			continue
		}
		result.Issues = append(result.Issues, issue)
	}
}

func issueKey(issue models.Issue) string {
	return fmt.Sprintf("%d\x00%s\x00%s", issue.RowIndex, issue.Field, issue.Message)
}
