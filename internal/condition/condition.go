// Package condition defines the parsed form of a wizard search: leaf
// conditions, the binary boolean tree over them, and its normalized
// (disjunctive) shape.
package condition

// Kind identifies what a leaf condition tests.
type Kind string

const (
	KindKey      Kind = "key"       // key=*
	KindNoKey    Kind = "nokey"     // key!=*
	KindEq       Kind = "eq"        // key=value
	KindNeq      Kind = "neq"       // key!=value
	KindLike     Kind = "like"      // key~regex
	KindLikeLike Kind = "likelike"  // ~keyregex~valueregex
	KindNotLike  Kind = "notlike"   // key!~regex
	KindSubstr   Kind = "substr"    // key:value
	KindMeta     Kind = "meta"      // id:, newer:, user:, uid:
	KindType     Kind = "type"      // type:node
	KindFreeForm Kind = "free form" // cafe
)

// MetaKind identifies which element metadata a meta condition tests.
type MetaKind string

const (
	MetaID    MetaKind = "id"
	MetaNewer MetaKind = "newer"
	MetaUser  MetaKind = "user"
	MetaUID   MetaKind = "uid"
)

// Regex is a pattern with an optional modifier. Modifier "i" makes the
// match case-insensitive; any other modifier is ignored by the compiler.
type Regex struct {
	Pattern  string
	Modifier string
}

// CaseInsensitive reports whether the regex carries the "i" modifier.
func (r Regex) CaseInsensitive() bool { return r.Modifier == "i" }

// Condition is a single leaf of a search expression. Which fields are
// meaningful depends on Kind:
//
//	key, nokey               Key
//	eq, neq, substr          Key, Value
//	like, notlike, likelike  Key, Regex
//	meta                     Meta, Value
//	type                     Type
//	free form                Free
type Condition struct {
	Kind  Kind
	Key   string
	Value string
	Regex Regex
	Meta  MetaKind
	Type  string
	Free  string
}

// ElementType is one of the three OSM element kinds a statement can select.
type ElementType string

const (
	Node     ElementType = "node"
	Way      ElementType = "way"
	Relation ElementType = "relation"
)

// AllElementTypes returns every supported element type in output order.
func AllElementTypes() []ElementType {
	return []ElementType{Node, Way, Relation}
}

// ParseElementType returns the element type named by s.
func ParseElementType(s string) (ElementType, bool) {
	for _, t := range AllElementTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Bounds selects the geographic scope of a search.
type Bounds string

const (
	BoundsArea   Bounds = "area"   // in <place>
	BoundsAround Bounds = "around" // around <place>
	BoundsBbox   Bounds = "bbox"   // in bbox (default)
	BoundsGlobal Bounds = "global" // global
)

// NeedsArea reports whether the bounds kind requires a place name.
func (b Bounds) NeedsArea() bool {
	return b == BoundsArea || b == BoundsAround
}

// ParsedQuery is the parser's output for one search string.
type ParsedQuery struct {
	Bounds Bounds
	Area   string // place name or coordinate source for area/around
	Expr   Expr
}

// Group is a conjunction of conditions; one row of a Normalized expression.
type Group struct {
	Conditions []Condition
}

// Normalized is an expression in disjunctive normal form: the OR of Groups.
type Normalized struct {
	Groups []Group
}
