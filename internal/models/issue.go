package models

// FeedLevelRow marks issues that apply to the feed as a whole rather than a
// single row. Row indexes assigned during validation are 1-based.
const FeedLevelRow = 0

type Issue struct {
	RowIndex int       `json:"row_index"`
	OfferID  string    `json:"offer_id"`
	Field    string    `json:"field,omitempty"`
	Type     IssueType `json:"type"`
	Message  string    `json:"message"`
	Value    string    `json:"value,omitempty"`
}

type IssueType string

const (
	IssueTypeError        IssueType = "error"
	IssueTypeWarning      IssueType = "warning"
	IssueTypeFormat       IssueType = "format"
	IssueTypeOptimization IssueType = "optimization"
)

// Blocking reports whether an issue of this type disqualifies a record from
// the valid-item count. Recommendation-only issues never block.
func (t IssueType) Blocking() bool {
	return t == IssueTypeError || t == IssueTypeFormat
}