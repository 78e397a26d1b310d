package guide

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadSyntax(t *testing.T) {
	t.Parallel()

	g, err := LoadSyntax()
	if err != nil {
		t.Fatalf("LoadSyntax() error = %v", err)
	}
	if g.Title != "Search syntax" {
		t.Errorf("Title = %q, want %q", g.Title, "Search syntax")
	}
	if !strings.Contains(g.Intro, "Overpass QL") {
		t.Errorf("Intro = %q, want mention of Overpass QL", g.Intro)
	}

	want := []string{"conditions", "regular-expressions", "combining", "presets", "where-to-search", "output"}
	got := g.IDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for _, s := range g.Sections {
		if !strings.HasPrefix(s.Content, "## "+s.Title+"\n") {
			t.Errorf("section %q content starts %q", s.ID, firstLine(s.Content))
		}
		if strings.Contains(s.Content, "\n## ") {
			t.Errorf("section %q runs into the next section", s.ID)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	content := []byte("# Title\n\nIntro text.\n\n## First Part\n\nOne.\n\n### Detail\n\nNested.\n\n```\n## not a heading\n```\n\n## Second `code` part\n\nTwo.\n")
	g, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.Title != "Title" {
		t.Errorf("Title = %q", g.Title)
	}
	if g.Intro != "Intro text." {
		t.Errorf("Intro = %q", g.Intro)
	}
	if len(g.Sections) != 2 {
		t.Fatalf("got %d sections, want 2: %v", len(g.Sections), g.IDs())
	}

	first := g.Sections[0]
	if first.ID != "first-part" {
		t.Errorf("first ID = %q", first.ID)
	}
	for _, s := range []string{"### Detail", "Nested.", "## not a heading"} {
		if !strings.Contains(first.Content, s) {
			t.Errorf("first section missing %q:\n%s", s, first.Content)
		}
	}

	second := g.Sections[1]
	if second.Title != "Second code part" || second.ID != "second-code-part" {
		t.Errorf("second = %q / %q", second.Title, second.ID)
	}
	if second.Content != "## Second `code` part\n\nTwo.\n" {
		t.Errorf("second content = %q", second.Content)
	}
}

func TestParseWithoutTitle(t *testing.T) {
	t.Parallel()

	g, err := Parse([]byte("Some notes.\n\n## Only\n\nBody.\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.Title != "" {
		t.Errorf("Title = %q, want empty", g.Title)
	}
	if g.Intro != "Some notes." {
		t.Errorf("Intro = %q", g.Intro)
	}
	if len(g.Sections) != 1 || g.Sections[0].ID != "only" {
		t.Errorf("sections = %v", g.IDs())
	}
}

func TestSectionLookup(t *testing.T) {
	t.Parallel()

	g, err := LoadSyntax()
	if err != nil {
		t.Fatalf("LoadSyntax() error = %v", err)
	}

	tests := []struct {
		name   string
		wantID string
		found  bool
	}{
		{"presets", "presets", true},
		{"Where to search", "where-to-search", true},
		{"REGULAR EXPRESSIONS", "regular-expressions", true},
		{"where-to-search", "where-to-search", true},
		{"nothing", "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, ok := g.Section(tt.name)
			if ok != tt.found {
				t.Fatalf("Section(%q) found = %v, want %v", tt.name, ok, tt.found)
			}
			if s.ID != tt.wantID {
				t.Errorf("Section(%q).ID = %q, want %q", tt.name, s.ID, tt.wantID)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	if _, err := load(fstest.MapFS{}, "guide/missing.md"); err == nil {
		t.Fatal("expected error for missing guide")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
