package ui

import (
	"strings"
	"testing"
)

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable(3)
	tbl.AddRow("Cafe", "amenity=cafe", "point, vertex, area")
	tbl.AddRow("Drinking Water", "amenity=drinking_water")
	tbl.AddRow("x", "y", "z", "dropped")

	want := "Cafe            amenity=cafe            point, vertex, area\n" +
		"Drinking Water  amenity=drinking_water  \n" +
		"x               y                       z\n"
	if got := tbl.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewTable(2).String(); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestRenderTableIncludesCells(t *testing.T) {
	out := RenderTable(NewDisplayContextWithWidth(80),
		[]string{"NAME", "TAGS"},
		[][]string{{"Cafe", "amenity=cafe"}, {"Park", "leisure=park"}},
	)
	for _, want := range []string{"NAME", "TAGS", "Cafe", "amenity=cafe", "leisure=park"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if RenderTable(NewDisplayContextWithWidth(80), []string{"A"}, nil) != "" {
		t.Error("expected empty output for no rows")
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"coffee, coffee shop, tea house", 20, "coffee, coffee..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
