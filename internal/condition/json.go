package condition

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The JSON shape mirrors the tree emitted by the original wizard grammar:
//
//	{"bounds":"area","area":"Vienna","query":{"logical":"and","queries":[
//	    {"query":"eq","key":"amenity","val":"cafe"},
//	    {"query":"like","key":"name","val":{"regex":"Star","modifier":"i"}}]}}

type wireQuery struct {
	Bounds Bounds          `json:"bounds"`
	Area   string          `json:"area,omitempty"`
	Query  json.RawMessage `json:"query"`
}

type wireNode struct {
	Logical string            `json:"logical,omitempty"`
	Queries []json.RawMessage `json:"queries,omitempty"`

	Query Kind            `json:"query,omitempty"`
	Key   *string         `json:"key,omitempty"`
	Val   json.RawMessage `json:"val,omitempty"`
	Meta  MetaKind        `json:"meta,omitempty"`
	Type  string          `json:"type,omitempty"`
	Free  string          `json:"free,omitempty"`
}

type wireRegex struct {
	Regex    string `json:"regex"`
	Modifier string `json:"modifier,omitempty"`
}

// MarshalJSON encodes the query in the wizard's parse-tree shape.
func (q ParsedQuery) MarshalJSON() ([]byte, error) {
	expr, err := MarshalExpr(q.Expr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireQuery{Bounds: q.Bounds, Area: q.Area, Query: expr})
}

// UnmarshalJSON decodes a parse tree. Inner nodes must have exactly two
// operands.
func (q *ParsedQuery) UnmarshalJSON(data []byte) error {
	var w wireQuery
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Query) == 0 {
		return fmt.Errorf("parse tree has no query")
	}
	expr, err := UnmarshalExpr(w.Query)
	if err != nil {
		return err
	}
	if w.Bounds == "" {
		w.Bounds = BoundsBbox
	}
	*q = ParsedQuery{Bounds: w.Bounds, Area: w.Area, Expr: expr}
	return nil
}

// MarshalExpr encodes a single expression tree.
func MarshalExpr(e Expr) ([]byte, error) {
	switch n := e.(type) {
	case Leaf:
		return marshalLeaf(n.Condition)
	case And:
		return marshalInner("and", n.Left, n.Right)
	case Or:
		return marshalInner("or", n.Left, n.Right)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownConnective, e)
	}
}

func marshalInner(logical string, left, right Expr) ([]byte, error) {
	l, err := MarshalExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := MarshalExpr(right)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireNode{Logical: logical, Queries: []json.RawMessage{l, r}})
}

func marshalLeaf(c Condition) ([]byte, error) {
	w := wireNode{Query: c.Kind}
	switch c.Kind {
	case KindKey, KindNoKey:
		w.Key = &c.Key
	case KindEq, KindNeq, KindSubstr:
		w.Key = &c.Key
		w.Val = mustMarshal(c.Value)
	case KindLike, KindLikeLike, KindNotLike:
		w.Key = &c.Key
		w.Val = mustMarshal(wireRegex{Regex: c.Regex.Pattern, Modifier: c.Regex.Modifier})
	case KindMeta:
		w.Meta = c.Meta
		w.Val = mustMarshal(c.Value)
	case KindType:
		w.Type = c.Type
	case KindFreeForm:
		w.Free = c.Free
	default:
		if c.Key != "" {
			w.Key = &c.Key
		}
		if c.Value != "" {
			w.Val = mustMarshal(c.Value)
		}
		w.Meta, w.Type, w.Free = c.Meta, c.Type, c.Free
	}
	return json.Marshal(w)
}

func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// UnmarshalExpr decodes a single expression tree. An inner node whose
// "logical" is neither "and" nor "or" yields ErrUnknownConnective.
func UnmarshalExpr(data []byte) (Expr, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	if w.Logical != "" {
		if w.Logical != "and" && w.Logical != "or" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownConnective, w.Logical)
		}
		if len(w.Queries) != 2 {
			return nil, fmt.Errorf("%q node needs exactly 2 operands, got %d", w.Logical, len(w.Queries))
		}
		left, err := UnmarshalExpr(w.Queries[0])
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalExpr(w.Queries[1])
		if err != nil {
			return nil, err
		}
		if w.Logical == "and" {
			return And{Left: left, Right: right}, nil
		}
		return Or{Left: left, Right: right}, nil
	}

	if w.Query == "" {
		return nil, fmt.Errorf("node has neither \"logical\" nor \"query\"")
	}

	c := Condition{Kind: w.Query, Meta: w.Meta, Type: w.Type, Free: w.Free}
	if w.Key != nil {
		c.Key = *w.Key
	}
	if len(w.Val) > 0 {
		if err := decodeVal(w.Val, &c); err != nil {
			return nil, fmt.Errorf("condition %q: %w", w.Query, err)
		}
	}
	return Leaf{Condition: c}, nil
}

func decodeVal(raw json.RawMessage, c *Condition) error {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		var re wireRegex
		if err := json.Unmarshal(raw, &re); err != nil {
			return err
		}
		c.Regex = Regex{Pattern: re.Regex, Modifier: re.Modifier}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	switch c.Kind {
	case KindLike, KindLikeLike, KindNotLike:
		c.Regex = Regex{Pattern: s}
	default:
		c.Value = s
	}
	return nil
}
