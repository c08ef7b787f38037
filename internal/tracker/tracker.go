package tracker

import (
	"fmt"
	"strings"

	"feedcheck/internal/logger"
	"feedcheck/internal/models"
	"feedcheck/internal/validation"
)

// LiveFieldReader supplies the current, possibly user-edited, value of a
// field. The tracker never trusts a caller's claim that a field was fixed; it
// always re-reads and re-checks the content.
type LiveFieldReader interface {
	FieldContent(offerID, field string) string
}

// Tracker maintains the offer-ID to row-index mapping for the active
// validation result of each feed and reconciles live edits against it without
// a full re-run.
//
// The tracker does no internal locking: callers must serialize edits and fix
// reports against the same feed (single writer at a time).
type Tracker struct {
	rules    *validation.RuleSet
	logger   *logger.Logger
	results  map[string]*models.ValidationResult
	rowIndex map[string]map[string]int
}

func New(rules *validation.RuleSet, log *logger.Logger) *Tracker {
	return &Tracker{
		rules:    rules,
		logger:   log,
		results:  make(map[string]*models.ValidationResult),
		rowIndex: make(map[string]map[string]int),
	}
}

// Track adopts a fresh validation result as the active one for its feed and
// rebuilds the offer-ID row-index map from it. On duplicate offer IDs the
// first mapping wins; later ones are logged and ignored. Issues without an
// offer ID or row index (feed-level issues) are skipped.
func (t *Tracker) Track(result *models.ValidationResult) {
	index := make(map[string]int)

	for _, issue := range result.Issues {
		if issue.OfferID == "" || issue.RowIndex == models.FeedLevelRow {
			t.logger.Debug("Skipping issue without fix-tracking identity: row=%d field=%s", issue.RowIndex, issue.Field)
			continue
		}
		if existing, ok := index[issue.OfferID]; ok {
			if existing != issue.RowIndex {
				t.logger.Error("Duplicate offer ID %s at rows %d and %d, keeping row %d", issue.OfferID, existing, issue.RowIndex, existing)
			}
			continue
		}
		index[issue.OfferID] = issue.RowIndex
	}

	t.results[result.FeedID] = result
	t.rowIndex[result.FeedID] = index
}

// RowIndex returns the row index recorded for an offer in the feed's active
// validation run.
func (t *Tracker) RowIndex(feedID, offerID string) (int, bool) {
	index, ok := t.rowIndex[feedID]
	if !ok {
		return 0, false
	}
	row, ok := index[offerID]
	return row, ok
}

// Result returns the active validation result for a feed, or nil when none is
// tracked.
func (t *Tracker) Result(feedID string) *models.ValidationResult {
	return t.results[feedID]
}

// Reconcile recomputes field validity for a batch of live edits using the
// same length policy as full validation. Issues whose field is now valid are
// removed from the active result; fields that became invalid and had no issue
// yet get a new one. Returns the issues added and removed.
func (t *Tracker) Reconcile(feedID string, edits []models.FieldEdit) (added, removed []models.Issue) {
	result, ok := t.results[feedID]
	if !ok {
		t.logger.Error("Reconcile: no tracked result for feed %s", feedID)
		return nil, nil
	}

	for _, edit := range edits {
		valid, message := t.checkLength(edit.Field, edit.Content)

		if valid {
			removed = append(removed, t.removeIssues(result, edit.OfferID, edit.Field)...)
			continue
		}

		if t.hasIssue(result, edit.OfferID, edit.Field) {
			continue
		}

		row, _ := t.RowIndex(feedID, edit.OfferID)
		issue := models.Issue{
			RowIndex: row,
			OfferID:  edit.OfferID,
			Field:    edit.Field,
			Type:     models.IssueTypeFormat,
			Message:  message,
			Value:    edit.Content,
		}
		result.Issues = append(result.Issues, issue)
		added = append(added, issue)
	}

	return added, removed
}

// MarkFixed verifies that the live content for (offerID, field) now satisfies
// the field's length bounds and, only then, removes the matching issues from
// the feed's active result. Returns false without changes when the content
// still violates the bounds, when the offer has no row-index mapping, or when
// there is no matching issue to resolve.
func (t *Tracker) MarkFixed(feedID, offerID, field string, reader LiveFieldReader) bool {
	result, ok := t.results[feedID]
	if !ok {
		t.logger.Error("MarkFixed: no tracked result for feed %s", feedID)
		return false
	}
	if _, ok := t.RowIndex(feedID, offerID); !ok {
		t.logger.Error("MarkFixed: no row index for offer %s", offerID)
		return false
	}

	content := reader.FieldContent(offerID, field)
	if valid, _ := t.checkLength(field, content); !valid {
		return false
	}

	return len(t.removeIssues(result, offerID, field)) > 0
}

// checkLength applies the rule set's min/max bounds for the field. Fields
// without length bounds are always considered valid here; reconciliation only
// covers the length policy.
func (t *Tracker) checkLength(field, content string) (bool, string) {
	rule, ok := t.rules.Rule(field)
	if !ok {
		return true, ""
	}

	length := len(strings.TrimSpace(content))
	if rule.MinLength > 0 && length < rule.MinLength {
		return false, fmt.Sprintf("%s is too short: %d characters (minimum %d)", field, length, rule.MinLength)
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		return false, fmt.Sprintf("%s is too long: %d characters (maximum %d)", field, length, rule.MaxLength)
	}
	return true, ""
}

func (t *Tracker) hasIssue(result *models.ValidationResult, offerID, field string) bool {
	for _, issue := range result.Issues {
		if issue.OfferID == offerID && issue.Field == field {
			return true
		}
	}
	return false
}

// removeIssues deletes every issue for (offerID, field) from the result in
// place, preserving the order of the remaining issues.
func (t *Tracker) removeIssues(result *models.ValidationResult, offerID, field string) []models.Issue {
	var removed []models.Issue
	kept := result.Issues[:0]
	for _, issue := range result.Issues {
		if issue.OfferID == offerID && issue.Field == field {
			removed = append(removed, issue)
			continue
		}
		kept = append(kept, issue)
	}
	result.Issues = kept
	return removed
}
