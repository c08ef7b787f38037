package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// FieldResult is the outcome of a single field validator. Normalized carries
// the canonical form of the value when the validator repairs it (e.g. GTIN
// scientific notation, availability spelling).
type FieldResult struct {
	Valid      bool
	Normalized string
}

// validatorFunc is a pure function; validators never mutate the record and
// never keep state between calls.
type validatorFunc func(value string, rule FieldRule) FieldResult

// fieldValidators is the registry of named validators referenced by
// FieldRule.Validator. The map is populated once and never written to after
// package init.
var fieldValidators = map[string]validatorFunc{
	"price":        func(v string, _ FieldRule) FieldResult { return ValidatePrice(v) },
	"url":          func(v string, r FieldRule) FieldResult { return ValidateURL(v, r.Schemes) },
	"gtin":         func(v string, _ FieldRule) FieldResult { return ValidateGTIN(v) },
	"availability": func(v string, _ FieldRule) FieldResult { return ValidateAvailability(v) },
	"condition":    func(v string, _ FieldRule) FieldResult { return ValidateCondition(v) },
	"content":      func(v string, _ FieldRule) FieldResult { return validateContent(v) },
}

var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?\s?[A-Z]{3}$`)

// ValidatePrice accepts an amount followed by a 3-letter ISO currency code,
// e.g. "449.56 USD". A bare amount without currency is rejected.
func ValidatePrice(value string) FieldResult {
	value = strings.TrimSpace(value)
	return FieldResult{Valid: priceRe.MatchString(value), Normalized: value}
}

// ValidateURL requires an absolute URL with a host and one of the accepted
// schemes. An empty scheme list falls back to http or https.
func ValidateURL(value string, schemes []string) FieldResult {
	value = strings.TrimSpace(value)
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return FieldResult{Valid: false}
	}

	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme {
			return FieldResult{Valid: true, Normalized: value}
		}
	}
	return FieldResult{Valid: false}
}

var (
	gtinDigitsRe   = regexp.MustCompile(`^\d+$`)
	gtinSciNotaRe  = regexp.MustCompile(`^(\d+)(?:\.(\d+))?[eE]\+?(\d+)$`)
	gtinLengthsSet = map[int]bool{8: true, 12: true, 13: true, 14: true}
)

// ValidateGTIN accepts 8, 12, 13 or 14 digit identifiers. Spreadsheet exports
// commonly mangle GTINs into scientific notation ("8.85176E+12"); those are
// accepted when they expand to a valid digit count, with the expansion
// reported as the normalized value.
func ValidateGTIN(value string) FieldResult {
	value = strings.TrimSpace(value)

	if gtinDigitsRe.MatchString(value) {
		return FieldResult{Valid: gtinLengthsSet[len(value)], Normalized: value}
	}

	if fixed, ok := FixGTIN(value); ok {
		return FieldResult{Valid: true, Normalized: fixed}
	}
	return FieldResult{Valid: false}
}

// FixGTIN expands a scientific-notation GTIN to its canonical zero-padded
// digit string. The expansion is done on the digit text, not through float
// parsing, so no precision is lost. Returns false when the value is not
// scientific notation or does not expand to a valid GTIN length.
func FixGTIN(value string) (string, bool) {
	m := gtinSciNotaRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return "", false
	}

	intPart, frac := m[1], m[2]
	exp := 0
	for _, c := range m[3] {
		exp = exp*10 + int(c-'0')
	}

	// exp shifts the decimal point right; anything still fractional after the
	// shift cannot be a GTIN.
	if exp < len(frac) || exp > 20 {
		return "", false
	}

	digits := intPart + frac + strings.Repeat("0", exp-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if !gtinLengthsSet[len(digits)] {
		return "", false
	}
	return digits, true
}

// ValidateAvailability accepts the four availability states case-insensitively,
// treating spaces and underscores as equivalent ("in stock" == "IN_STOCK").
func ValidateAvailability(value string) FieldResult {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "_")
	switch normalized {
	case "in_stock", "out_of_stock", "preorder", "backorder":
		return FieldResult{Valid: true, Normalized: normalized}
	}
	return FieldResult{Valid: false}
}

// ValidateCondition accepts new/used/refurbished case-insensitively.
func ValidateCondition(value string) FieldResult {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "new", "used", "refurbished":
		return FieldResult{Valid: true, Normalized: normalized}
	}
	return FieldResult{Valid: false}
}

var schemePrefixRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// LooksLikeURL reports whether a text value is actually a URL, which in a
// title or description field is a content-type mismatch.
func LooksLikeURL(value string) bool {
	value = strings.TrimSpace(value)
	return schemePrefixRe.MatchString(value) || strings.Contains(value, "://")
}

func validateContent(value string) FieldResult {
	if LooksLikeURL(value) {
		return FieldResult{Valid: false}
	}
	return FieldResult{Valid: true, Normalized: value}
}
