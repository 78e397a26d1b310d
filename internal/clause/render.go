package clause

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/turbowiz/internal/condition"
)

var simpleWord = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func quote(s string) string {
	if simpleWord.MatchString(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func quoteRegex(re condition.Regex) string {
	if simpleWord.MatchString(re.Pattern) && re.Modifier == "" {
		return re.Pattern
	}
	return "/" + strings.ReplaceAll(re.Pattern, "/", `\/`) + "/" + re.Modifier
}

// Render returns a wizard-syntax rendering of c for use in comments, such
// as amenity=cafe or name~/Star/i. It never fails: conditions with no
// textual form (type, unknown kinds) render as the empty string.
func Render(c condition.Condition) string {
	var s string
	switch c.Kind {
	case condition.KindKey:
		s = quote(c.Key) + "=*"
	case condition.KindNoKey:
		s = quote(c.Key) + "!=*"
	case condition.KindEq:
		s = quote(c.Key) + "=" + quote(c.Value)
	case condition.KindNeq:
		s = quote(c.Key) + "!=" + quote(c.Value)
	case condition.KindLike:
		s = quote(c.Key) + "~" + quoteRegex(c.Regex)
	case condition.KindLikeLike:
		s = "~" + quote(c.Key) + "~" + quoteRegex(c.Regex)
	case condition.KindNotLike:
		s = quote(c.Key) + "!~" + quoteRegex(c.Regex)
	case condition.KindSubstr:
		s = quote(c.Key) + ":" + quote(c.Value)
	case condition.KindMeta:
		switch c.Meta {
		case condition.MetaID, condition.MetaNewer, condition.MetaUser, condition.MetaUID:
			s = string(c.Meta) + ":" + quote(c.Value)
		default:
			return ""
		}
	case condition.KindFreeForm:
		s = quote(c.Free)
	default:
		return ""
	}
	return QuoteComment(s)
}
