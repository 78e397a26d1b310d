package normalize

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/aidanlsb/turbowiz/internal/condition"
)

func leaf(key string) condition.Expr {
	return condition.NewLeaf(condition.Condition{Kind: condition.KindKey, Key: key})
}

func groupKeys(n condition.Normalized) []string {
	out := make([]string, 0, len(n.Groups))
	for _, g := range n.Groups {
		keys := make([]string, 0, len(g.Conditions))
		for _, c := range g.Conditions {
			keys = append(keys, c.Key)
		}
		out = append(out, strings.Join(keys, ","))
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		expr condition.Expr
		want []string
	}{
		{
			name: "single leaf",
			expr: leaf("a"),
			want: []string{"a"},
		},
		{
			name: "and of leaves",
			expr: condition.AllOf(leaf("a"), leaf("b"), leaf("c")),
			want: []string{"a,b,c"},
		},
		{
			name: "or of leaves",
			expr: condition.AnyOf(leaf("a"), leaf("b"), leaf("c")),
			want: []string{"a", "b", "c"},
		},
		{
			name: "distributes and over or",
			expr: condition.And{Left: leaf("a"), Right: condition.Or{Left: leaf("b"), Right: leaf("c")}},
			want: []string{"a,b", "a,c"},
		},
		{
			name: "cross product order",
			expr: condition.And{
				Left:  condition.Or{Left: leaf("a"), Right: leaf("b")},
				Right: condition.Or{Left: leaf("c"), Right: leaf("d")},
			},
			want: []string{"a,c", "a,d", "b,c", "b,d"},
		},
		{
			name: "duplicates are kept",
			expr: condition.Or{Left: leaf("a"), Right: leaf("a")},
			want: []string{"a", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := groupKeys(n)
			if strings.Join(got, " | ") != strings.Join(tt.want, " | ") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeUnknownConnective(t *testing.T) {
	_, err := Normalize(condition.And{Left: leaf("a"), Right: nil})
	if !errors.Is(err, condition.ErrUnknownConnective) {
		t.Fatalf("expected ErrUnknownConnective, got %v", err)
	}
}

// eval evaluates e with each leaf's truth taken from assignment[key].
func eval(e condition.Expr, assignment map[string]bool) bool {
	switch n := e.(type) {
	case condition.Leaf:
		return assignment[n.Condition.Key]
	case condition.And:
		return eval(n.Left, assignment) && eval(n.Right, assignment)
	case condition.Or:
		return eval(n.Left, assignment) || eval(n.Right, assignment)
	}
	panic("unreachable")
}

func evalNormalized(n condition.Normalized, assignment map[string]bool) bool {
	for _, g := range n.Groups {
		all := true
		for _, c := range g.Conditions {
			if !assignment[c.Key] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// randomTree builds a binary tree whose leaves are exactly keys, in order,
// with a random shape and random connectives.
func randomTree(r *rand.Rand, keys []string) condition.Expr {
	if len(keys) == 1 {
		return leaf(keys[0])
	}
	split := 1 + r.Intn(len(keys)-1)
	left := randomTree(r, keys[:split])
	right := randomTree(r, keys[split:])
	if r.Intn(2) == 0 {
		return condition.And{Left: left, Right: right}
	}
	return condition.Or{Left: left, Right: right}
}

func TestNormalizePreservesTruthTable(t *testing.T) {
	r := rand.New(rand.NewSource(20131014))
	names := []string{"a", "b", "c", "d", "e", "f"}

	for n := 1; n <= len(names); n++ {
		keys := names[:n]
		for trial := 0; trial < 50; trial++ {
			expr := randomTree(r, keys)
			normalized, err := Normalize(expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, g := range normalized.Groups {
				if len(g.Conditions) == 0 {
					t.Fatalf("empty group for %s", condition.Format(expr, func(c condition.Condition) string { return c.Key }))
				}
			}

			for mask := 0; mask < 1<<n; mask++ {
				assignment := make(map[string]bool, n)
				for i, k := range keys {
					assignment[k] = mask&(1<<i) != 0
				}
				if eval(expr, assignment) != evalNormalized(normalized, assignment) {
					t.Fatalf("%s disagrees with its normal form %v under %v",
						condition.Format(expr, func(c condition.Condition) string { return c.Key }),
						groupKeys(normalized), assignment)
				}
			}
		}
	}
}
