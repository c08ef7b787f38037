package validation

import "fmt"

// ErrEmptyFeed is reported inside the ValidationResult as a feed-level issue
// rather than returned, so callers render it like any other issue.
var ErrEmptyFeed = fmt.Errorf("feed contains no records")

// RuleConfigurationError means the rule set itself is invalid. Rules are
// static configuration, so this is fatal at startup.
type RuleConfigurationError struct {
	Field  string
	Reason string
}

func (e *RuleConfigurationError) Error() string {
	return fmt.Sprintf("invalid rule for field %q: %s", e.Field, e.Reason)
}

// RemoteValidationError wraps a remote validator failure. The engine recovers
// by falling back to local-only results.
type RemoteValidationError struct {
	Err error
}

func (e *RemoteValidationError) Error() string {
	return fmt.Sprintf("remote validation failed: %v", e.Err)
}

func (e *RemoteValidationError) Unwrap() error {
	return e.Err
}
