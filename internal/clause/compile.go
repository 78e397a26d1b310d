// Package clause compiles single wizard conditions into Overpass QL filter
// clauses and renders them back as human-readable text for comments.
package clause

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/aidanlsb/turbowiz/internal/condition"
)

var (
	// ErrUnknownKind reports a condition kind the compiler has no clause for.
	// This includes "type" and "free form", which never reach the compiler
	// in a well-formed pipeline.
	ErrUnknownKind = errors.New("unknown condition kind")

	// ErrUnknownMeta reports a meta condition with an unsupported meta kind.
	ErrUnknownMeta = errors.New("unknown meta condition")
)

// relativeDate matches durations such as "-1 hours" or "3days" that
// overpass turbo resolves through its {{date:...}} shortcut.
var relativeDate = regexp.MustCompile(`^-?\d+ ?(seconds?|minutes?|hours?|days?|weeks?|months?|years?)?$`)

// IsRelativeDate reports whether v is a relative duration rather than an
// absolute timestamp.
func IsRelativeDate(v string) bool {
	return relativeDate.MatchString(v)
}

// Rewrite applies the special cases that change a condition's effective
// kind before compilation, and returns the rewritten condition along with
// the key text to embed (already escaped, or a literal regex for rewritten
// empty keys). c itself is not modified.
//
// In order:
//   - substr becomes an unanchored like of the regex-escaped value.
//   - eq/neq against an empty value become like/notlike "^$"; the query
//     language has no operator for "equals the empty string".
//   - an empty key means "any key": key, eq and like become likelike with
//     key regex "^$" (see drolbr/Overpass-API#53).
func Rewrite(c condition.Condition) (condition.Condition, string) {
	key := Escape(c.Key)
	val := Escape(c.Value)

	if c.Kind == condition.KindSubstr {
		c.Kind = condition.KindLike
		c.Regex = condition.Regex{Pattern: EscapeRegex(c.Value)}
	}

	if val == "" {
		switch c.Kind {
		case condition.KindEq:
			c.Kind = condition.KindLike
			c.Regex = condition.Regex{Pattern: "^$"}
		case condition.KindNeq:
			c.Kind = condition.KindNotLike
			c.Regex = condition.Regex{Pattern: "^$"}
		}
	}

	if key == "" {
		switch c.Kind {
		case condition.KindKey:
			c.Kind = condition.KindLikeLike
			key = "^$"
			c.Regex = condition.Regex{Pattern: ".*"}
		case condition.KindEq:
			c.Kind = condition.KindLikeLike
			key = "^$"
			c.Regex = condition.Regex{Pattern: "^" + EscapeRegex(c.Value) + "$"}
		case condition.KindLike:
			c.Kind = condition.KindLikeLike
			key = "^$"
		}
	}

	return c, key
}

// Compile returns the filter clause for c, e.g. ["amenity"="cafe"].
func Compile(c condition.Condition) (string, error) {
	c, key := Rewrite(c)
	val := Escape(c.Value)

	switch c.Kind {
	case condition.KindKey:
		return `["` + key + `"]`, nil
	case condition.KindNoKey:
		return `["` + key + `"!~".*"]`, nil
	case condition.KindEq:
		return `["` + key + `"="` + val + `"]`, nil
	case condition.KindNeq:
		return `["` + key + `"!="` + val + `"]`, nil
	case condition.KindLike:
		return `["` + key + `"~` + regexOperand(c.Regex) + `]`, nil
	case condition.KindLikeLike:
		return `[~"` + key + `"~` + regexOperand(c.Regex) + `]`, nil
	case condition.KindNotLike:
		return `["` + key + `"!~` + regexOperand(c.Regex) + `]`, nil
	case condition.KindMeta:
		return compileMeta(c, val)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
}

func regexOperand(re condition.Regex) string {
	s := `"` + Escape(re.Pattern) + `"`
	if re.CaseInsensitive() {
		s += ",i"
	}
	return s
}

func compileMeta(c condition.Condition, val string) (string, error) {
	switch c.Meta {
	case condition.MetaID:
		return "(" + val + ")", nil
	case condition.MetaNewer:
		if IsRelativeDate(c.Value) {
			return `(newer:"{{date:` + val + `}}")`, nil
		}
		return `(newer:"` + val + `")`, nil
	case condition.MetaUser:
		return `(user:"` + val + `")`, nil
	case condition.MetaUID:
		return "(uid:" + val + ")", nil
	default:
		return "", fmt.Errorf("%w: meta/%s", ErrUnknownMeta, c.Meta)
	}
}
