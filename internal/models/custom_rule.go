package models

type CustomRuleType string

const (
	CustomRuleLength         CustomRuleType = "length"
	CustomRulePattern        CustomRuleType = "pattern"
	CustomRuleRequiredWords  CustomRuleType = "required_words"
	CustomRuleForbiddenWords CustomRuleType = "forbidden_words"
)

// CustomRule is a user-defined rule applied after the built-in rule set.
// Rules are evaluated in ascending priority order.
type CustomRule struct {
	ID        string         `json:"id"`
	Field     string         `json:"field"`
	Type      CustomRuleType `json:"type"`
	MinLength int            `json:"min_length,omitempty"`
	MaxLength int            `json:"max_length,omitempty"`
	Pattern   string         `json:"pattern,omitempty"`
	Words     []string       `json:"words,omitempty"`
	Priority  int            `json:"priority"`
	Enabled   bool           `json:"enabled"`
}
