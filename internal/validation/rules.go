package validation

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldRule describes the constraints for a single feed attribute.
type FieldRule struct {
	Required    bool
	MinLength   int
	MaxLength   int
	Pattern     *regexp.Regexp
	Enum        []string
	Schemes     []string // accepted URL schemes, for URL-typed fields
	Validator   string   // named field validator, see fields.go
	Description string
}

// RuleSet holds the per-field rules, split into required and recommended
// groups. Required-field absence is an error; recommended-field absence is an
// optimization hint and never blocks validity. RuleSet values are built once
// at startup and treated as immutable afterwards.
type RuleSet struct {
	required    map[string]FieldRule
	recommended map[string]FieldRule
}

func NewRuleSet(required, recommended map[string]FieldRule) (*RuleSet, error) {
	rs := &RuleSet{
		required:    make(map[string]FieldRule, len(required)),
		recommended: make(map[string]FieldRule, len(recommended)),
	}

	for field, rule := range required {
		rule.Required = true
		if err := checkRule(field, rule); err != nil {
			return nil, err
		}
		rs.required[field] = rule
	}

	for field, rule := range recommended {
		if _, dup := rs.required[field]; dup {
			return nil, &RuleConfigurationError{Field: field, Reason: "listed as both required and recommended"}
		}
		rule.Required = false
		if err := checkRule(field, rule); err != nil {
			return nil, err
		}
		rs.recommended[field] = rule
	}

	return rs, nil
}

func checkRule(field string, rule FieldRule) error {
	if field == "" {
		return &RuleConfigurationError{Field: field, Reason: "empty field name"}
	}
	if rule.MinLength < 0 || rule.MaxLength < 0 {
		return &RuleConfigurationError{Field: field, Reason: "negative length bound"}
	}
	if rule.MaxLength > 0 && rule.MinLength > rule.MaxLength {
		return &RuleConfigurationError{Field: field, Reason: fmt.Sprintf("min length %d exceeds max length %d", rule.MinLength, rule.MaxLength)}
	}
	if rule.Validator != "" {
		if _, ok := fieldValidators[rule.Validator]; !ok {
			return &RuleConfigurationError{Field: field, Reason: fmt.Sprintf("unknown validator %q", rule.Validator)}
		}
	}
	for _, scheme := range rule.Schemes {
		if scheme != "http" && scheme != "https" {
			return &RuleConfigurationError{Field: field, Reason: fmt.Sprintf("unsupported URL scheme %q", scheme)}
		}
	}
	return nil
}

// Rule looks up the rule for a field across both groups.
func (rs *RuleSet) Rule(field string) (FieldRule, bool) {
	if rule, ok := rs.required[field]; ok {
		return rule, true
	}
	rule, ok := rs.recommended[field]
	return rule, ok
}

func (rs *RuleSet) RequiredFields() []string {
	return sortedKeys(rs.required)
}

func (rs *RuleSet) RecommendedFields() []string {
	return sortedKeys(rs.recommended)
}

func sortedKeys(rules map[string]FieldRule) []string {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// DefaultRuleSet returns the basic Google Merchant Center attribute rules.
// Title and description length bounds live here and nowhere else; the issue
// tracker resolves them through the same rule set.
func DefaultRuleSet() *RuleSet {
	required := map[string]FieldRule{
		"id": {
			MaxLength:   50,
			Description: "Unique product identifier",
		},
		"title": {
			MinLength:   30,
			MaxLength:   150,
			Validator:   "content",
			Description: "Product title",
		},
		"description": {
			MinLength:   90,
			MaxLength:   5000,
			Validator:   "content",
			Description: "Product description",
		},
		"link": {
			Validator:   "url",
			Schemes:     []string{"http", "https"},
			Description: "Product landing page URL",
		},
		"image_link": {
			Validator:   "url",
			Schemes:     []string{"http", "https"},
			Description: "Main product image URL",
		},
		"price": {
			Validator:   "price",
			Description: "Price with ISO 4217 currency, e.g. 19.99 USD",
		},
		"availability": {
			Enum:        []string{"in_stock", "out_of_stock", "preorder", "backorder"},
			Validator:   "availability",
			Description: "Stock availability",
		},
		"condition": {
			Enum:        []string{"new", "used", "refurbished"},
			Validator:   "condition",
			Description: "Product condition",
		},
		"brand": {
			MaxLength:   70,
			Description: "Brand name",
		},
	}

	recommended := map[string]FieldRule{
		"gtin": {
			Validator:   "gtin",
			Description: "Global Trade Item Number (8, 12, 13 or 14 digits)",
		},
		"mpn": {
			MaxLength:   70,
			Description: "Manufacturer part number",
		},
		"google_product_category": {
			Description: "Google product taxonomy category",
		},
		"product_type": {
			MaxLength:   750,
			Description: "Merchant-defined product category",
		},
		"sale_price": {
			Validator:   "price",
			Description: "Discounted price with currency",
		},
		"item_group_id": {
			MaxLength:   50,
			Description: "Shared identifier for product variants",
		},
		"color": {
			MaxLength:   100,
			Description: "Product color",
		},
		"size": {
			MaxLength:   100,
			Description: "Product size",
		},
	}

	rs, err := NewRuleSet(required, recommended)
	if err != nil {
		// Built-in rules are checked by tests; a failure here is a bug.
		panic(err)
	}
	return rs
}

type ruleOverride struct {
	MinLength *int     `yaml:"min_length"`
	MaxLength *int     `yaml:"max_length"`
	Pattern   *string  `yaml:"pattern"`
	Schemes   []string `yaml:"schemes"`
}

type rulesFile struct {
	Fields map[string]ruleOverride `yaml:"fields"`
}

// LoadOverrides applies per-field overrides from a YAML file onto a copy of
// the rule set. This is how deployments pin stricter policies, e.g. https-only
// link validation. Unknown fields or malformed patterns are configuration
// errors and abort startup.
func LoadOverrides(rs *RuleSet, path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	required := make(map[string]FieldRule, len(rs.required))
	for field, rule := range rs.required {
		required[field] = rule
	}
	recommended := make(map[string]FieldRule, len(rs.recommended))
	for field, rule := range rs.recommended {
		recommended[field] = rule
	}

	for field, override := range file.Fields {
		rule, inRequired := required[field]
		if !inRequired {
			var ok bool
			rule, ok = recommended[field]
			if !ok {
				return nil, &RuleConfigurationError{Field: field, Reason: "override for unknown field"}
			}
		}

		if override.MinLength != nil {
			rule.MinLength = *override.MinLength
		}
		if override.MaxLength != nil {
			rule.MaxLength = *override.MaxLength
		}
		if override.Pattern != nil {
			re, err := regexp.Compile(*override.Pattern)
			if err != nil {
				return nil, &RuleConfigurationError{Field: field, Reason: fmt.Sprintf("invalid pattern: %v", err)}
			}
			rule.Pattern = re
		}
		if len(override.Schemes) > 0 {
			rule.Schemes = make([]string, len(override.Schemes))
			for i, s := range override.Schemes {
				rule.Schemes[i] = strings.ToLower(s)
			}
		}

		if inRequired {
			required[field] = rule
		} else {
			recommended[field] = rule
		}
	}

	return NewRuleSet(required, recommended)
}
