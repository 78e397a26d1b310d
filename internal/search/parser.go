// Package search parses wizard search strings such as
//
//	amenity=cafe and name~/star/i in Vienna
//
// into condition trees.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aidanlsb/turbowiz/internal/condition"
)

// ErrSyntax is wrapped by every error returned from Parse.
var ErrSyntax = errors.New("invalid search")

// SyntaxError describes where a search string stopped making sense.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at pos %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parser parses search strings into condition trees.
type Parser struct {
	lexer *Lexer
	curr  Token
	peek  Token
}

// Parse parses a search string.
func Parse(input string) (*condition.ParsedQuery, error) {
	p := &Parser{lexer: NewLexer(input)}
	p.advance()
	p.advance()
	return p.parseQuery()
}

func (p *Parser) advance() {
	p.curr = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	if p.curr.Type == TokenError {
		return &SyntaxError{Pos: p.curr.Pos, Msg: p.curr.Value}
	}
	return &SyntaxError{Pos: p.curr.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(t TokenType) error {
	if p.curr.Type != t {
		return p.errorf("expected %v, got %v", t, describe(p.curr))
	}
	p.advance()
	return nil
}

// isKeyword reports whether tok is the bare word kw, ignoring case.
func isKeyword(tok Token, kw string) bool {
	return tok.Type == TokenWord && strings.EqualFold(tok.Value, kw)
}

// reserved words end a free-form phrase.
var reserved = []string{"and", "or", "in", "around", "global"}

func isReserved(tok Token) bool {
	for _, kw := range reserved {
		if isKeyword(tok, kw) {
			return true
		}
	}
	return false
}

func isAtom(tok Token) bool {
	return tok.Type == TokenWord || tok.Type == TokenString
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenWord, TokenString:
		return fmt.Sprintf("%q", tok.Value)
	default:
		return tok.Type.String()
	}
}

// parseQuery parses an expression followed by an optional bounds suffix.
func (p *Parser) parseQuery() (*condition.ParsedQuery, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	q := &condition.ParsedQuery{Bounds: condition.BoundsBbox, Expr: expr}

	switch {
	case isKeyword(p.curr, "in"):
		p.advance()
		if isKeyword(p.curr, "bbox") && p.peek.Type == TokenEOF {
			p.advance()
			break
		}
		area, err := p.parseArea("in")
		if err != nil {
			return nil, err
		}
		q.Bounds, q.Area = condition.BoundsArea, area
	case isKeyword(p.curr, "around"):
		p.advance()
		area, err := p.parseArea("around")
		if err != nil {
			return nil, err
		}
		q.Bounds, q.Area = condition.BoundsAround, area
	case isKeyword(p.curr, "global"):
		p.advance()
		q.Bounds = condition.BoundsGlobal
	}

	if p.curr.Type != TokenEOF {
		return nil, p.errorf("unexpected %v", describe(p.curr))
	}
	return q, nil
}

// parseArea takes the remainder of the input as a place name. A single
// quoted string is unquoted; anything else is used verbatim.
func (p *Parser) parseArea(keyword string) (string, error) {
	if p.curr.Type == TokenEOF {
		return "", p.errorf("expected place name after %q", keyword)
	}
	if p.curr.Type == TokenString && p.peek.Type == TokenEOF {
		area := p.curr.Value
		p.advance()
		return area, nil
	}
	area := strings.TrimSpace(p.lexer.input[p.curr.Pos:])
	for p.curr.Type != TokenEOF {
		p.advance()
	}
	return area, nil
}

// parseOr parses OR expressions (lowest precedence). a or b or c nests to
// the right: Or(a, Or(b, c)).
func (p *Parser) parseOr() (condition.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != TokenOr && !isKeyword(p.curr, "or") {
		return left, nil
	}
	p.advance()
	right, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	return condition.Or{Left: left, Right: right}, nil
}

// parseAnd parses AND expressions, which bind tighter than OR.
func (p *Parser) parseAnd() (condition.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != TokenAnd && !isKeyword(p.curr, "and") {
		return left, nil
	}
	p.advance()
	right, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	return condition.And{Left: left, Right: right}, nil
}

// parseUnary parses a parenthesized expression or a single statement.
func (p *Parser) parseUnary() (condition.Expr, error) {
	if p.curr.Type == TokenLParen {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	}

	c, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return condition.NewLeaf(c), nil
}

// parseStatement parses a single condition.
func (p *Parser) parseStatement() (condition.Condition, error) {
	if p.curr.Type == TokenLike {
		return p.parseLikeLike()
	}
	if !isAtom(p.curr) || isReserved(p.curr) {
		return condition.Condition{}, p.errorf("expected condition, got %v", describe(p.curr))
	}

	first := p.curr
	if first.Type == TokenWord && p.peek.Type == TokenColon {
		switch word := strings.ToLower(first.Value); word {
		case "type":
			p.advance()
			p.advance()
			name, err := p.parseValue()
			if err != nil {
				return condition.Condition{}, err
			}
			return condition.Condition{Kind: condition.KindType, Type: name}, nil
		case "id", "newer", "user", "uid":
			p.advance()
			p.advance()
			return p.parseMeta(condition.MetaKind(word))
		}
	}

	parts := []string{first.Value}
	p.advance()
	for p.curr.Type == TokenColon && isAtom(p.peek) {
		p.advance()
		parts = append(parts, p.curr.Value)
		p.advance()
	}
	if p.curr.Type == TokenColon {
		p.advance()
		return condition.Condition{}, p.errorf("expected value after ':', got %v", describe(p.curr))
	}
	key := strings.Join(parts, ":")

	switch {
	case p.curr.Type == TokenEq:
		p.advance()
		if p.curr.Type == TokenStar {
			p.advance()
			return condition.Condition{Kind: condition.KindKey, Key: key}, nil
		}
		return p.parseKeyValue(condition.KindEq, key)

	case p.curr.Type == TokenNeq:
		p.advance()
		if p.curr.Type == TokenStar {
			p.advance()
			return condition.Condition{Kind: condition.KindNoKey, Key: key}, nil
		}
		return p.parseKeyValue(condition.KindNeq, key)

	case p.curr.Type == TokenLike, isKeyword(p.curr, "like"):
		p.advance()
		return p.parseKeyPattern(condition.KindLike, key)

	case p.curr.Type == TokenNotLike:
		p.advance()
		return p.parseKeyPattern(condition.KindNotLike, key)

	case isKeyword(p.curr, "not") && isKeyword(p.peek, "like"):
		p.advance()
		p.advance()
		return p.parseKeyPattern(condition.KindNotLike, key)

	case isKeyword(p.curr, "is"):
		p.advance()
		if isKeyword(p.curr, "not") && isKeyword(p.peek, "null") {
			p.advance()
			p.advance()
			return condition.Condition{Kind: condition.KindKey, Key: key}, nil
		}
		if isKeyword(p.curr, "null") {
			p.advance()
			return condition.Condition{Kind: condition.KindNoKey, Key: key}, nil
		}
		return condition.Condition{}, p.errorf("expected 'null' or 'not null' after 'is'")
	}

	if len(parts) > 1 {
		return condition.Condition{
			Kind:  condition.KindSubstr,
			Key:   strings.Join(parts[:len(parts)-1], ":"),
			Value: parts[len(parts)-1],
		}, nil
	}

	if first.Type == TokenString {
		return condition.Condition{Kind: condition.KindFreeForm, Free: first.Value}, nil
	}
	words := []string{first.Value}
	for p.curr.Type == TokenWord && !isReserved(p.curr) {
		words = append(words, p.curr.Value)
		p.advance()
	}
	return condition.Condition{Kind: condition.KindFreeForm, Free: strings.Join(words, " ")}, nil
}

// parseLikeLike parses ~key~pattern.
func (p *Parser) parseLikeLike() (condition.Condition, error) {
	p.advance()
	key, err := p.parseValue()
	if err != nil {
		return condition.Condition{}, err
	}
	if err := p.expect(TokenLike); err != nil {
		return condition.Condition{}, err
	}
	return p.parseKeyPattern(condition.KindLikeLike, key)
}

// parseMeta parses the value of id:, newer:, user: or uid:. A newer: value
// may continue over bare words so that newer:-1 hours reads naturally.
func (p *Parser) parseMeta(meta condition.MetaKind) (condition.Condition, error) {
	quoted := p.curr.Type == TokenString
	value, err := p.parseValue()
	if err != nil {
		return condition.Condition{}, err
	}
	if meta == condition.MetaNewer && !quoted {
		for p.curr.Type == TokenWord && !isReserved(p.curr) {
			value += " " + p.curr.Value
			p.advance()
		}
	}
	return condition.Condition{Kind: condition.KindMeta, Meta: meta, Value: value}, nil
}

func (p *Parser) parseKeyValue(kind condition.Kind, key string) (condition.Condition, error) {
	value, err := p.parseValue()
	if err != nil {
		return condition.Condition{}, err
	}
	return condition.Condition{Kind: kind, Key: key, Value: value}, nil
}

func (p *Parser) parseKeyPattern(kind condition.Kind, key string) (condition.Condition, error) {
	if p.curr.Type == TokenRegex {
		re := condition.Regex{Pattern: p.curr.Value, Modifier: p.curr.Modifier}
		p.advance()
		return condition.Condition{Kind: kind, Key: key, Regex: re}, nil
	}
	value, err := p.parseValue()
	if err != nil {
		return condition.Condition{}, err
	}
	return condition.Condition{Kind: kind, Key: key, Regex: condition.Regex{Pattern: value}}, nil
}

// parseValue parses a word or string, joining colon-separated parts so that
// keys like name:en and values like 12:00 survive unquoted.
func (p *Parser) parseValue() (string, error) {
	if !isAtom(p.curr) {
		return "", p.errorf("expected value, got %v", describe(p.curr))
	}
	parts := []string{p.curr.Value}
	p.advance()
	for p.curr.Type == TokenColon && isAtom(p.peek) {
		p.advance()
		parts = append(parts, p.curr.Value)
		p.advance()
	}
	return strings.Join(parts, ":"), nil
}
