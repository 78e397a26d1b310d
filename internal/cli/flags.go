package cli

import (
	"strconv"

	"github.com/aidanlsb/turbowiz/internal/wizard"
)

// commentValue is a pflag.Value that accepts a boolean or a header text:
//
//	--comment, --comment=false, --comment="Cafes near the office"
type commentValue struct {
	comment *wizard.Comment
}

func newCommentValue(c *wizard.Comment) *commentValue {
	return &commentValue{comment: c}
}

func (v *commentValue) String() string {
	if v.comment == nil {
		return ""
	}
	if v.comment.Text != "" {
		return v.comment.Text
	}
	return strconv.FormatBool(v.comment.Enabled)
}

func (v *commentValue) Set(s string) error {
	if b, err := strconv.ParseBool(s); err == nil {
		*v.comment = wizard.Comment{Enabled: b}
		return nil
	}
	*v.comment = wizard.Comment{Enabled: true, Text: s}
	return nil
}

func (v *commentValue) Type() string {
	return "bool|text"
}
