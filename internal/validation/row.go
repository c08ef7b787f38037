package validation

import (
	"fmt"
	"strings"

	"feedcheck/internal/models"
)

// RowResult groups the issues found in a single record. Required issues carry
// the error type, format violations the format type (except content-type
// mismatches, which are warnings), and missing recommended fields the
// optimization type.
type RowResult struct {
	Required        []models.Issue
	Format          []models.Issue
	Recommendations []models.Issue
}

func (r RowResult) Blocking() bool {
	for _, issue := range r.Required {
		if issue.Type.Blocking() {
			return true
		}
	}
	for _, issue := range r.Format {
		if issue.Type.Blocking() {
			return true
		}
	}
	return false
}

// RowValidator checks one feed record against a rule set. It is stateless:
// the same record and rule set always produce the same result.
type RowValidator struct {
	rules *RuleSet
}

func NewRowValidator(rules *RuleSet) *RowValidator {
	return &RowValidator{rules: rules}
}

// Validate evaluates every rule against the record. A missing required field
// produces exactly one required issue and skips format checks for that field;
// a present field may accumulate several format issues (e.g. both too short
// and wrong pattern). Recommended fields are only checked for presence.
func (v *RowValidator) Validate(record models.FeedRecord, rowIndex int) RowResult {
	var result RowResult
	offerID := record.OfferID()

	for _, field := range v.rules.RequiredFields() {
		rule, _ := v.rules.Rule(field)
		value := strings.TrimSpace(record.Get(field))

		if value == "" {
			result.Required = append(result.Required, models.Issue{
				RowIndex: rowIndex,
				OfferID:  offerID,
				Field:    field,
				Type:     models.IssueTypeError,
				Message:  fmt.Sprintf("Missing required field: %s", field),
			})
			continue
		}

		result.Format = append(result.Format, v.checkFormat(rule, field, value, offerID, rowIndex)...)
	}

	for _, field := range v.rules.RecommendedFields() {
		value := strings.TrimSpace(record.Get(field))
		if value == "" {
			result.Recommendations = append(result.Recommendations, models.Issue{
				RowIndex: rowIndex,
				OfferID:  offerID,
				Field:    field,
				Type:     models.IssueTypeOptimization,
				Message:  fmt.Sprintf("Consider adding recommended field: %s", field),
			})
		}
	}

	return result
}

func (v *RowValidator) checkFormat(rule FieldRule, field, value, offerID string, rowIndex int) []models.Issue {
	var issues []models.Issue

	add := func(issueType models.IssueType, message string) {
		issues = append(issues, models.Issue{
			RowIndex: rowIndex,
			OfferID:  offerID,
			Field:    field,
			Type:     issueType,
			Message:  message,
			Value:    value,
		})
	}

	if rule.MinLength > 0 && len(value) < rule.MinLength {
		add(models.IssueTypeFormat, fmt.Sprintf("%s is too short: %d characters (minimum %d)", field, len(value), rule.MinLength))
	}
	if rule.MaxLength > 0 && len(value) > rule.MaxLength {
		add(models.IssueTypeFormat, fmt.Sprintf("%s is too long: %d characters (maximum %d)", field, len(value), rule.MaxLength))
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		add(models.IssueTypeFormat, fmt.Sprintf("%s does not match the expected format", field))
	}

	if len(rule.Enum) > 0 && rule.Validator == "" {
		if !containsFold(rule.Enum, value) {
			add(models.IssueTypeFormat, fmt.Sprintf("%s must be one of: %s", field, strings.Join(rule.Enum, ", ")))
		}
	}

	if rule.Validator != "" {
		check := fieldValidators[rule.Validator]
		if res := check(value, rule); !res.Valid {
			switch rule.Validator {
			case "content":
				add(models.IssueTypeWarning, fmt.Sprintf("%s looks like a URL, expected descriptive text", field))
			case "url":
				add(models.IssueTypeFormat, fmt.Sprintf("%s is not a valid URL (accepted schemes: %s)", field, strings.Join(urlSchemes(rule), ", ")))
			case "price":
				add(models.IssueTypeFormat, fmt.Sprintf("%s must be an amount with a currency code, e.g. 19.99 USD", field))
			case "gtin":
				add(models.IssueTypeFormat, fmt.Sprintf("%s must be 8, 12, 13 or 14 digits", field))
			default:
				if len(rule.Enum) > 0 {
					add(models.IssueTypeFormat, fmt.Sprintf("%s must be one of: %s", field, strings.Join(rule.Enum, ", ")))
				} else {
					add(models.IssueTypeFormat, fmt.Sprintf("%s has an invalid value", field))
				}
			}
		}
	}

	return issues
}

func urlSchemes(rule FieldRule) []string {
	if len(rule.Schemes) > 0 {
		return rule.Schemes
	}
	return []string{"http", "https"}
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
