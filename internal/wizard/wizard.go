// Package wizard generates Overpass QL queries from wizard searches.
//
// A search such as
//
//	amenity=drinking_water in Vienna
//
// is parsed into a condition tree, normalized into an OR of AND-groups and
// assembled into a complete query with one statement per element type and
// group.
package wizard

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/turbowiz/internal/condition"
	"github.com/aidanlsb/turbowiz/internal/normalize"
	"github.com/aidanlsb/turbowiz/internal/search"
)

// Parser turns a search string into a condition tree.
type Parser interface {
	Parse(input string) (*condition.ParsedQuery, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(string) (*condition.ParsedQuery, error)

func (f ParserFunc) Parse(s string) (*condition.ParsedQuery, error) { return f(s) }

// Wizard compiles searches. It holds no mutable state and is safe for
// concurrent use when its parser and resolver are.
type Wizard struct {
	Parser    Parser
	Assembler *Assembler
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithParser replaces the default search parser.
func WithParser(p Parser) Option {
	return func(w *Wizard) { w.Parser = p }
}

// New creates a wizard that expands free-form phrases with resolver. A nil
// resolver makes every free-form search fail.
func New(resolver Resolver, opts ...Option) *Wizard {
	w := &Wizard{
		Parser:    ParserFunc(search.Parse),
		Assembler: &Assembler{Resolver: resolver},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Compile parses input and builds its query.
func (w *Wizard) Compile(input string, opts Options) (string, error) {
	parsed, err := w.Parser.Parse(input)
	if err != nil {
		return "", &Error{Kind: ParseFailure, Err: err}
	}
	return w.Build(parsed, input, opts)
}

// Build assembles the query for an already parsed search. input is only
// used for the comment header.
func (w *Wizard) Build(parsed *condition.ParsedQuery, input string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", &Error{Kind: InvalidOptions, Err: err}
	}
	if parsed == nil || parsed.Expr == nil {
		return "", &Error{Kind: ParseFailure, Err: errors.New("empty condition tree")}
	}
	if parsed.Bounds.NeedsArea() && parsed.Area == "" {
		return "", &Error{Kind: ParseFailure, Err: fmt.Errorf("%s search needs a place name", parsed.Bounds)}
	}
	normalized, err := normalize.Normalize(parsed.Expr)
	if err != nil {
		return "", &Error{Kind: UnknownConnective, Err: err}
	}
	return w.Assembler.Assemble(normalized, parsed.Bounds, parsed.Area, input, opts)
}
