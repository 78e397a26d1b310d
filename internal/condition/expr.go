package condition

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownConnective reports a tree node that is neither a leaf nor a
// binary and/or. Well-formed parser output never contains one.
var ErrUnknownConnective = errors.New("unknown boolean connective")

// Expr is a node of a binary boolean tree over conditions.
// The set of node types is closed: Leaf, And and Or.
type Expr interface {
	exprNode()
}

// Leaf wraps a single condition.
type Leaf struct {
	Condition Condition
}

// And is the conjunction of exactly two subexpressions.
type And struct {
	Left  Expr
	Right Expr
}

// Or is the disjunction of exactly two subexpressions.
type Or struct {
	Left  Expr
	Right Expr
}

func (Leaf) exprNode() {}
func (And) exprNode()  {}
func (Or) exprNode()   {}

// NewLeaf returns a leaf node for c.
func NewLeaf(c Condition) Expr { return Leaf{Condition: c} }

// AllOf folds exprs into right-nested And nodes: AllOf(a, b, c) is
// And(a, And(b, c)). It panics when called without arguments.
func AllOf(exprs ...Expr) Expr {
	return fold(exprs, func(l, r Expr) Expr { return And{Left: l, Right: r} })
}

// AnyOf folds exprs into right-nested Or nodes.
func AnyOf(exprs ...Expr) Expr {
	return fold(exprs, func(l, r Expr) Expr { return Or{Left: l, Right: r} })
}

func fold(exprs []Expr, join func(l, r Expr) Expr) Expr {
	if len(exprs) == 0 {
		panic("condition: fold of zero expressions")
	}
	out := exprs[len(exprs)-1]
	for i := len(exprs) - 2; i >= 0; i-- {
		out = join(exprs[i], out)
	}
	return out
}

// Leaves returns the conditions of e in left-to-right order.
func Leaves(e Expr) []Condition {
	var out []Condition
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Leaf:
			out = append(out, n.Condition)
		case And:
			walk(n.Left)
			walk(n.Right)
		case Or:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return out
}

// Format renders e as a fully parenthesized debugging string, using
// leafName to print each condition.
func Format(e Expr, leafName func(Condition) string) string {
	var sb strings.Builder
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Leaf:
			sb.WriteString(leafName(n.Condition))
		case And:
			sb.WriteString("(")
			walk(n.Left)
			sb.WriteString(" and ")
			walk(n.Right)
			sb.WriteString(")")
		case Or:
			sb.WriteString("(")
			walk(n.Left)
			sb.WriteString(" or ")
			walk(n.Right)
			sb.WriteString(")")
		default:
			sb.WriteString(fmt.Sprintf("<%T>", e))
		}
	}
	walk(e)
	return sb.String()
}
