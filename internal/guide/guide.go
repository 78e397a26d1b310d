// Package guide splits the bundled Markdown syntax guide into sections.
package guide

import (
	"fmt"
	"io/fs"
	"strings"

	goslug "github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/turbowiz/docs"
)

// Section is a level-two part of a guide, heading included.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"-"`
}

// Guide is a parsed Markdown document.
type Guide struct {
	Title    string
	Intro    string
	Sections []Section
	Content  string
}

// LoadSyntax loads the embedded search syntax guide.
func LoadSyntax() (*Guide, error) {
	return load(docs.FS, docs.SyntaxGuidePath)
}

func load(fsys fs.FS, name string) (*Guide, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read guide %s: %w", name, err)
	}
	return Parse(content)
}

type heading struct {
	level int
	title string
	start int // byte offset of the heading line
}

// Parse splits content at its level-one and level-two headings. Headings
// inside code blocks are ignored.
func Parse(content []byte) (*Guide, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var headings []heading
	if err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > 2 || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		title := headingText(h, content)
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		headings = append(headings, heading{
			level: h.Level,
			title: title,
			start: lineStart(content, h.Lines().At(0).Start),
		})
		return ast.WalkSkipChildren, nil
	}); err != nil {
		return nil, err
	}

	g := &Guide{Content: string(content)}
	introStart, introEnd := 0, len(content)
	for i, h := range headings {
		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		switch h.level {
		case 1:
			if g.Title == "" && len(g.Sections) == 0 {
				g.Title = h.title
				introStart = lineEnd(content, h.start)
			}
		case 2:
			if len(g.Sections) == 0 {
				introEnd = h.start
			}
			g.Sections = append(g.Sections, Section{
				ID:      goslug.Make(h.title),
				Title:   h.title,
				Content: strings.TrimSpace(string(content[h.start:end])) + "\n",
			})
		}
	}
	if introStart < introEnd {
		g.Intro = strings.TrimSpace(string(content[introStart:introEnd]))
	}
	return g, nil
}

// Section finds a section by ID or title, ignoring case and punctuation.
func (g *Guide) Section(name string) (Section, bool) {
	id := goslug.Make(name)
	for _, s := range g.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// IDs returns the section IDs in document order.
func (g *Guide) IDs() []string {
	ids := make([]string, len(g.Sections))
	for i, s := range g.Sections {
		ids[i] = s.ID
	}
	return ids
}

func headingText(h *ast.Heading, content []byte) string {
	var sb strings.Builder
	for child := h.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(content))
		case *ast.CodeSpan:
			for gc := c.FirstChild(); gc != nil; gc = gc.NextSibling() {
				if t, ok := gc.(*ast.Text); ok {
					sb.Write(t.Segment.Value(content))
				}
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// lineStart returns the offset of the first byte of the line holding offset.
func lineStart(content []byte, offset int) int {
	for offset > 0 && content[offset-1] != '\n' {
		offset--
	}
	return offset
}

// lineEnd returns the offset just past the newline ending the line at offset.
func lineEnd(content []byte, offset int) int {
	for offset < len(content) && content[offset] != '\n' {
		offset++
	}
	if offset < len(content) {
		offset++
	}
	return offset
}
