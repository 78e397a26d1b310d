// Package normalize rewrites a boolean condition tree into disjunctive
// normal form.
//
// For example A∧(B∨C) becomes (A∧B)∨(A∧C). The rewrite is purely
// structural: groups are neither deduplicated nor simplified, and both the
// concatenation (or) and the cross product (and) keep left-to-right source
// order, so identical input always yields identical output.
package normalize

import (
	"fmt"

	"github.com/aidanlsb/turbowiz/internal/condition"
)

// Normalize converts expr into an OR of AND-groups that is logically
// equivalent to it. The number of groups is the product of the group counts
// of the operands of every And node, so nested And(Or, Or) trees grow
// multiplicatively.
func Normalize(expr condition.Expr) (condition.Normalized, error) {
	groups, err := normalize(expr)
	if err != nil {
		return condition.Normalized{}, err
	}
	return condition.Normalized{Groups: groups}, nil
}

func normalize(expr condition.Expr) ([]condition.Group, error) {
	switch n := expr.(type) {
	case condition.Leaf:
		return []condition.Group{{Conditions: []condition.Condition{n.Condition}}}, nil

	case condition.And:
		left, right, err := operands(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		out := make([]condition.Group, 0, len(left)*len(right))
		for _, l := range left {
			for _, r := range right {
				conds := make([]condition.Condition, 0, len(l.Conditions)+len(r.Conditions))
				conds = append(conds, l.Conditions...)
				conds = append(conds, r.Conditions...)
				out = append(out, condition.Group{Conditions: conds})
			}
		}
		return out, nil

	case condition.Or:
		left, right, err := operands(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		out := make([]condition.Group, 0, len(left)+len(right))
		out = append(out, left...)
		return append(out, right...), nil

	default:
		return nil, fmt.Errorf("%w: %T", condition.ErrUnknownConnective, expr)
	}
}

func operands(left, right condition.Expr) ([]condition.Group, []condition.Group, error) {
	l, err := normalize(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := normalize(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
