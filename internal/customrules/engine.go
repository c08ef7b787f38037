package customrules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"feedcheck/internal/logger"
	"feedcheck/internal/models"
)

// Engine applies user-defined rules on top of the built-in rule set. It is an
// extension seam: with no rules configured it does nothing, and a broken rule
// never blocks core validation.
type Engine struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Apply evaluates the enabled rules against every record, in ascending
// priority order, and returns the resulting issues. Row indexes are assigned
// 1-based in record order, matching the core engine.
func (e *Engine) Apply(records []models.FeedRecord, rules []models.CustomRule) []models.Issue {
	if len(records) == 0 || len(rules) == 0 {
		return nil
	}

	active := make([]models.CustomRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Enabled {
			active = append(active, rule)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})

	var issues []models.Issue
	for i, record := range records {
		rowIndex := i + 1
		for _, rule := range active {
			if issue, ok := e.applyRule(rule, record, rowIndex); ok {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func (e *Engine) applyRule(rule models.CustomRule, record models.FeedRecord, rowIndex int) (models.Issue, bool) {
	value := strings.TrimSpace(record.Get(rule.Field))
	if value == "" {
		return models.Issue{}, false
	}

	var message string

	switch rule.Type {
	case models.CustomRuleLength:
		if rule.MinLength > 0 && len(value) < rule.MinLength {
			message = fmt.Sprintf("%s is shorter than the custom minimum of %d characters", rule.Field, rule.MinLength)
		} else if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			message = fmt.Sprintf("%s is longer than the custom maximum of %d characters", rule.Field, rule.MaxLength)
		}
	case models.CustomRulePattern:
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			e.logger.Error("Skipping custom rule %s: invalid pattern %q: %v", rule.ID, rule.Pattern, err)
			return models.Issue{}, false
		}
		if !re.MatchString(value) {
			message = fmt.Sprintf("%s does not match the custom pattern", rule.Field)
		}
	case models.CustomRuleRequiredWords:
		for _, word := range rule.Words {
			if !strings.Contains(strings.ToLower(value), strings.ToLower(word)) {
				message = fmt.Sprintf("%s must contain %q", rule.Field, word)
				break
			}
		}
	case models.CustomRuleForbiddenWords:
		for _, word := range rule.Words {
			if strings.Contains(strings.ToLower(value), strings.ToLower(word)) {
				message = fmt.Sprintf("%s must not contain %q", rule.Field, word)
				break
			}
		}
	default:
		e.logger.Error("Skipping custom rule %s: unknown type %q", rule.ID, rule.Type)
		return models.Issue{}, false
	}

	if message == "" {
		return models.Issue{}, false
	}

	return models.Issue{
		RowIndex: rowIndex,
		OfferID:  record.OfferID(),
		Field:    rule.Field,
		Type:     models.IssueTypeWarning,
		Message:  message,
		Value:    value,
	}, true
}
