package clause

import "strings"

// literalEscaper escapes a string for use inside an Overpass QL
// double-quoted literal. Tabs and newlines are escaped for readability of
// the generated query.
var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\t", `\t`,
	"\n", `\n`,
)

// Escape escapes s for embedding in a double-quoted query literal.
func Escape(s string) string {
	return literalEscaper.Replace(s)
}

// EscapeRegex escapes the regex metacharacters ( ) [ { * + . $ ^ \ | ?
// so that s matches literally. ']' and '}' are left alone; they are only
// special after an opening bracket.
func EscapeRegex(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '(', ')', '[', '{', '*', '+', '.', '$', '^', '\\', '|', '?':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// commentEscaper keeps a string from terminating a /* */ block or a //
// line comment early.
var commentEscaper = strings.NewReplacer(
	"*/", "[…]",
	"\n", `\n`,
)

// QuoteComment makes s safe to embed in a query comment.
func QuoteComment(s string) string {
	return commentEscaper.Replace(s)
}
