package freeform

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	goslug "github.com/gosimple/slug"

	"github.com/aidanlsb/turbowiz/internal/condition"
)

// ErrNoPreset is returned when no preset matches a free-form phrase.
var ErrNoPreset = errors.New("no matching preset")

// Resolution is what a free-form phrase expands to.
type Resolution struct {
	Preset     string
	Types      []condition.ElementType
	Conditions []condition.Condition
}

var geometryTypes = map[string][]condition.ElementType{
	"point":    {condition.Node},
	"vertex":   {condition.Node},
	"line":     {condition.Way},
	"area":     {condition.Way, condition.Relation},
	"relation": {condition.Relation},
}

// Resolve expands a free-form condition into the element types and tag
// conditions of the preset it names.
func (c *Catalog) Resolve(cond condition.Condition) (*Resolution, error) {
	if cond.Kind != condition.KindFreeForm {
		return nil, fmt.Errorf("cannot resolve %q condition as free form", cond.Kind)
	}
	preset, ok := c.Lookup(cond.Free)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoPreset, cond.Free)
	}
	return preset.Resolution(), nil
}

// Resolution converts the preset into element types and tag conditions.
// Conditions are ordered by key; a value of "*" becomes a key-present test.
func (p Preset) Resolution() *Resolution {
	keys := make([]string, 0, len(p.Tags))
	for k := range p.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]condition.Condition, 0, len(keys))
	for _, k := range keys {
		if v := p.Tags[k]; v == "*" {
			conds = append(conds, condition.Condition{Kind: condition.KindKey, Key: k})
		} else {
			conds = append(conds, condition.Condition{Kind: condition.KindEq, Key: k, Value: v})
		}
	}

	return &Resolution{
		Preset:     p.Name,
		Types:      p.Types(),
		Conditions: conds,
	}
}

// Types returns the element types the preset's geometries can be drawn
// with, in node, way, relation order.
func (p Preset) Types() []condition.ElementType {
	allowed := make(map[condition.ElementType]bool, 3)
	for _, g := range p.Geometry {
		for _, t := range geometryTypes[g] {
			allowed[t] = true
		}
	}
	types := make([]condition.ElementType, 0, len(allowed))
	for _, t := range condition.AllElementTypes() {
		if allowed[t] {
			types = append(types, t)
		}
	}
	return types
}

func normalize(phrase string) string {
	return goslug.Make(strings.TrimSpace(phrase))
}

// singulars returns plausible singular forms of a normalized phrase,
// inflecting only its last word.
func singulars(key string) []string {
	var out []string
	switch {
	case strings.HasSuffix(key, "ies"):
		out = append(out, strings.TrimSuffix(key, "ies")+"y")
	case strings.HasSuffix(key, "es"):
		out = append(out, strings.TrimSuffix(key, "s"), strings.TrimSuffix(key, "es"))
	case strings.HasSuffix(key, "s") && !strings.HasSuffix(key, "ss"):
		out = append(out, strings.TrimSuffix(key, "s"))
	}
	return out
}
