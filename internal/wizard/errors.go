package wizard

import (
	"fmt"

	"github.com/aidanlsb/turbowiz/internal/clause"
	"github.com/aidanlsb/turbowiz/internal/condition"
)

// ErrorKind classifies why a query could not be generated.
type ErrorKind string

const (
	ParseFailure              ErrorKind = "parse_failure"
	UnknownConnective         ErrorKind = "unknown_connective"
	UnknownConditionKind      ErrorKind = "unknown_condition_kind"
	UnknownMetaKind           ErrorKind = "unknown_meta_kind"
	FreeFormResolutionFailure ErrorKind = "free_form_resolution_failure"
	UnknownBounds             ErrorKind = "unknown_bounds"
	InvalidOptions            ErrorKind = "invalid_options"
)

func (k ErrorKind) String() string { return string(k) }

// Error is returned for every failed build. No partial query accompanies it.
type Error struct {
	Kind ErrorKind
	// Condition is the offending condition, if any.
	Condition *condition.Condition
	// Connective describes the offending tree node for UnknownConnective.
	Connective string
	// Bounds is set for UnknownBounds.
	Bounds condition.Bounds
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ParseFailure:
		return fmt.Sprintf("parse search: %v", e.Err)
	case UnknownConnective:
		if e.Connective != "" {
			return fmt.Sprintf("unsupported boolean operator %q: %v", e.Connective, e.Err)
		}
		return fmt.Sprintf("malformed condition tree: %v", e.Err)
	case UnknownConditionKind, UnknownMetaKind:
		return fmt.Sprintf("compile %s: %v", describeCondition(e.Condition), e.Err)
	case FreeFormResolutionFailure:
		return fmt.Sprintf("resolve %s: %v", describeCondition(e.Condition), e.Err)
	case UnknownBounds:
		return fmt.Sprintf("unknown bounds condition %q", e.Bounds)
	case InvalidOptions:
		return fmt.Sprintf("invalid options: %v", e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func describeCondition(c *condition.Condition) string {
	if c == nil {
		return "condition"
	}
	if text := clause.Render(*c); text != "" {
		return fmt.Sprintf("condition %q", text)
	}
	return fmt.Sprintf("%q condition", c.Kind)
}
