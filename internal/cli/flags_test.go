package cli

import (
	"testing"

	"github.com/aidanlsb/turbowiz/internal/wizard"
)

func TestCommentValue(t *testing.T) {
	tests := []struct {
		in   string
		want wizard.Comment
		str  string
	}{
		{"true", wizard.Comment{Enabled: true}, "true"},
		{"false", wizard.Comment{}, "false"},
		{"0", wizard.Comment{}, "false"},
		{"Cafes near the office", wizard.Comment{Enabled: true, Text: "Cafes near the office"}, "Cafes near the office"},
	}
	for _, tt := range tests {
		var c wizard.Comment
		v := newCommentValue(&c)
		if err := v.Set(tt.in); err != nil {
			t.Fatalf("Set(%q) error = %v", tt.in, err)
		}
		if c != tt.want {
			t.Errorf("Set(%q) = %+v, want %+v", tt.in, c, tt.want)
		}
		if got := v.String(); got != tt.str {
			t.Errorf("String() after Set(%q) = %q, want %q", tt.in, got, tt.str)
		}
	}
}

func TestCommentFlagWithoutValue(t *testing.T) {
	setupCLITest(t, "[wizard]\ncomment = false\n")
	if err := loadRuntime(); err != nil {
		t.Fatalf("loadRuntime: %v", err)
	}
	if compileOptions(compileCmd).Comment.On() {
		t.Fatal("config should disable comments")
	}

	if err := compileCmd.Flags().Parse([]string{"--comment"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if opts := compileOptions(compileCmd); !opts.Comment.On() {
		t.Error("bare --comment should enable comments")
	}
}
