package models

// FeedRecord is one product row, keyed by attribute name. The engine only
// reads records; ownership stays with the caller.
type FeedRecord map[string]string

// Get returns the value for a field, or "" when absent.
func (r FeedRecord) Get(field string) string {
	return r[field]
}

// OfferID returns the record's stable identifier.
func (r FeedRecord) OfferID() string {
	return r["id"]
}

type ValidationResult struct {
	FeedID         string  `json:"feed_id"`
	TotalItems     int     `json:"total_items"`
	ValidItemCount int     `json:"valid_item_count"`
	Issues         []Issue `json:"issues"`
}

// Summary returns issue counts keyed by issue type.
func (vr *ValidationResult) Summary() map[IssueType]int {
	summary := make(map[IssueType]int)
	for _, issue := range vr.Issues {
		summary[issue.Type]++
	}
	return summary
}

type FieldEdit struct {
	OfferID string `json:"offer_id"`
	Field   string `json:"field"`
	Content string `json:"content"`
}
