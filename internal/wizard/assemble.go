package wizard

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aidanlsb/turbowiz/internal/clause"
	"github.com/aidanlsb/turbowiz/internal/condition"
	"github.com/aidanlsb/turbowiz/internal/freeform"
)

var (
	// ErrUnknownBounds is wrapped by UnknownBounds errors.
	ErrUnknownBounds = errors.New("unknown bounds")

	// ErrNoResolver is wrapped when a free-form condition is built without
	// a resolver.
	ErrNoResolver = errors.New("free-form search needs a preset resolver")
)

// Resolver expands free-form conditions. *freeform.Catalog implements it.
type Resolver interface {
	Resolve(condition.Condition) (*freeform.Resolution, error)
}

// Assembler turns normalized conditions into an Overpass QL query.
type Assembler struct {
	Resolver Resolver
}

// Assemble builds the query for a normalized expression. search is the
// original input, quoted in the comment header.
func (a *Assembler) Assemble(n condition.Normalized, bounds condition.Bounds, area, search string, opts Options) (string, error) {
	comment := opts.Comment.On()
	var lines []string

	if comment {
		lines = append(lines, "/*")
		if opts.Comment.Text != "" {
			lines = append(lines, strings.ReplaceAll(opts.Comment.Text, "*/", "[…]"))
		} else {
			lines = append(lines,
				"This has been generated by the overpass-turbo wizard.",
				"The original search was:",
				"“"+clause.QuoteComment(search)+"”",
			)
		}
		lines = append(lines, "*/")
	}
	lines = append(lines, settings(opts))

	var fragment string
	switch bounds {
	case condition.BoundsArea:
		if comment {
			lines = append(lines, "// fetch area “"+clause.QuoteComment(area)+"” to search in")
		}
		lines = append(lines, "{{geocodeArea:"+area+"}}->.searchArea;")
		fragment = "(area.searchArea)"
	case condition.BoundsAround:
		if comment {
			lines = append(lines, "// adjust the search radius (in meters) here")
		}
		lines = append(lines, "{{radius="+formatRadius(opts.AroundRadius)+"}}")
		fragment = "(around:{{radius}},{{geocodeCoords:" + area + "}})"
	case condition.BoundsBbox:
		if !opts.GlobalBbox {
			fragment = "({{bbox}})"
		}
	case condition.BoundsGlobal:
	default:
		return "", &Error{Kind: UnknownBounds, Bounds: bounds, Err: ErrUnknownBounds}
	}

	if comment {
		lines = append(lines, "// gather results")
	}
	lines = append(lines, "(")
	for _, group := range n.Groups {
		part, err := a.group(group, fragment, comment)
		if err != nil {
			return "", err
		}
		lines = append(lines, part...)
	}
	lines = append(lines, ");")

	if comment {
		lines = append(lines, "// print results")
	}
	if opts.OutputMode == OutputRecursive {
		lines = append(lines, "out body;", ">;", "out skel qt;")
	} else {
		lines = append(lines, "out "+opts.OutputMode+";")
	}

	return strings.Join(lines, "\n"), nil
}

func settings(opts Options) string {
	var sb strings.Builder
	sb.WriteString("[out:" + opts.OutputFormat + "]")
	sb.WriteString("[timeout:" + strconv.Itoa(opts.Timeout) + "]")
	if opts.MaxSize != nil {
		sb.WriteString("[maxsize:" + strconv.FormatInt(*opts.MaxSize, 10) + "]")
	}
	if opts.GlobalBbox {
		sb.WriteString("[bbox:{{bbox}}]")
	}
	sb.WriteString(";")
	return sb.String()
}

// group emits the annotation and statements for one AND-group.
func (a *Assembler) group(g condition.Group, fragment string, comment bool) ([]string, error) {
	types := condition.AllElementTypes()
	var clauses, rendered []string

	for i := range g.Conditions {
		c := g.Conditions[i]
		switch c.Kind {
		case condition.KindFreeForm:
			res, err := a.resolve(c)
			if err != nil {
				return nil, err
			}
			types = intersect(types, res.Types)
			if comment {
				rendered = append(rendered, clause.Render(c))
			}
			for _, resolved := range res.Conditions {
				text, err := compile(resolved)
				if err != nil {
					return nil, err
				}
				clauses = append(clauses, text)
			}
		case condition.KindType:
			if t, ok := condition.ParseElementType(c.Type); ok {
				types = intersect(types, []condition.ElementType{t})
			} else {
				types = nil
			}
		default:
			if comment {
				rendered = append(rendered, clause.Render(c))
			}
			text, err := compile(c)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, text)
		}
	}

	var lines []string
	if comment {
		lines = append(lines, "  // query part for: “"+strings.Join(rendered, " and ")+"”")
	}
	filters := strings.Join(clauses, "")
	for _, t := range types {
		lines = append(lines, "  "+string(t)+filters+fragment+";")
	}
	return lines, nil
}

func (a *Assembler) resolve(c condition.Condition) (*freeform.Resolution, error) {
	if a.Resolver == nil {
		return nil, &Error{Kind: FreeFormResolutionFailure, Condition: &c, Err: ErrNoResolver}
	}
	res, err := a.Resolver.Resolve(c)
	if err != nil {
		return nil, &Error{Kind: FreeFormResolutionFailure, Condition: &c, Err: err}
	}
	return res, nil
}

func compile(c condition.Condition) (string, error) {
	text, err := clause.Compile(c)
	if err == nil {
		return text, nil
	}
	kind := UnknownConditionKind
	if errors.Is(err, clause.ErrUnknownMeta) {
		kind = UnknownMetaKind
	}
	return "", &Error{Kind: kind, Condition: &c, Err: err}
}

// intersect keeps the types in have that also appear in allowed, preserving
// the order of have.
func intersect(have, allowed []condition.ElementType) []condition.ElementType {
	out := make([]condition.ElementType, 0, len(have))
	for _, t := range have {
		for _, a := range allowed {
			if t == a {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
