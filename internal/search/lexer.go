package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF     TokenType = iota
	TokenWord              // bare words like amenity, cafe, Vienna
	TokenString            // "quoted" or 'quoted' text, unescaped
	TokenRegex             // /pattern/ or /pattern/i
	TokenColon             // :
	TokenLParen            // (
	TokenRParen            // )
	TokenEq                // = or ==
	TokenNeq               // != or <>
	TokenLike              // ~ or ~=
	TokenNotLike           // !~
	TokenStar              // *
	TokenAnd               // & or &&
	TokenOr                // | or ||
	TokenError             // error token; Value holds the message
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenWord:
		return "word"
	case TokenString:
		return "string"
	case TokenRegex:
		return "regex"
	case TokenColon:
		return "':'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenEq:
		return "'='"
	case TokenNeq:
		return "'!='"
	case TokenLike:
		return "'~'"
	case TokenNotLike:
		return "'!~'"
	case TokenStar:
		return "'*'"
	case TokenAnd:
		return "'&'"
	case TokenOr:
		return "'|'"
	default:
		return "invalid token"
	}
}

// Token represents a lexer token.
type Token struct {
	Type     TokenType
	Value    string
	Modifier string // regex modifier, e.g. "i"
	Pos      int
}

// Lexer tokenizes a search string.
type Lexer struct {
	input string
	pos   int
	start int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	l.start = l.pos
	ch := l.input[l.pos]

	switch ch {
	case ':':
		return l.emit(TokenColon, 1)
	case '(':
		return l.emit(TokenLParen, 1)
	case ')':
		return l.emit(TokenRParen, 1)
	case '*':
		return l.emit(TokenStar, 1)
	case '=':
		if l.peekByte(1) == '=' {
			return l.emit(TokenEq, 2)
		}
		return l.emit(TokenEq, 1)
	case '!':
		switch l.peekByte(1) {
		case '=':
			return l.emit(TokenNeq, 2)
		case '~':
			return l.emit(TokenNotLike, 2)
		}
		l.pos++
		return Token{Type: TokenError, Value: "expected '=' or '~' after '!'", Pos: l.start}
	case '<':
		if l.peekByte(1) == '>' {
			return l.emit(TokenNeq, 2)
		}
		l.pos++
		return Token{Type: TokenError, Value: "unexpected '<'", Pos: l.start}
	case '~':
		if l.peekByte(1) == '=' {
			return l.emit(TokenLike, 2)
		}
		return l.emit(TokenLike, 1)
	case '&':
		if l.peekByte(1) == '&' {
			return l.emit(TokenAnd, 2)
		}
		return l.emit(TokenAnd, 1)
	case '|':
		if l.peekByte(1) == '|' {
			return l.emit(TokenOr, 2)
		}
		return l.emit(TokenOr, 1)
	case '"', '\'':
		return l.scanString(ch)
	case '/':
		return l.scanRegex()
	default:
		return l.scanWord()
	}
}

func (l *Lexer) emit(t TokenType, width int) Token {
	l.pos += width
	return Token{Type: t, Value: l.input[l.start:l.pos], Pos: l.start}
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isWordRune(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start {
		// Only reachable for runes no other case claims, e.g. '>'.
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.pos += size
		return Token{Type: TokenError, Value: "unexpected " + `"` + l.input[start:l.pos] + `"`, Pos: start}
	}
	return Token{Type: TokenWord, Value: l.input[start:l.pos], Pos: start}
}

// scanString reads a quoted string. Backslash escapes \n and \t produce
// control characters; any other escaped character stands for itself.
func (l *Lexer) scanString(quote byte) Token {
	start := l.pos
	l.pos++ // opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == quote:
			l.pos++
			return Token{Type: TokenString, Value: sb.String(), Pos: start}
		case ch == '\\' && l.pos+1 < len(l.input):
			next := l.input[l.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			l.pos += 2
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return Token{Type: TokenError, Value: "unterminated string", Pos: start}
}

// scanRegex reads /pattern/ with an optional trailing i. Only \/ is
// unescaped; every other escape is kept for the regex engine.
func (l *Lexer) scanRegex() Token {
	start := l.pos
	l.pos++ // opening slash

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '/':
			l.pos++
			tok := Token{Type: TokenRegex, Value: sb.String(), Pos: start}
			if l.peekByte(0) == 'i' && !l.wordContinuesAt(l.pos+1) {
				tok.Modifier = "i"
				l.pos++
			}
			return tok
		case ch == '\\' && l.pos+1 < len(l.input):
			if l.input[l.pos+1] == '/' {
				sb.WriteByte('/')
			} else {
				sb.WriteString(l.input[l.pos : l.pos+2])
			}
			l.pos += 2
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return Token{Type: TokenError, Value: "unterminated regex", Pos: start}
}

func (l *Lexer) wordContinuesAt(pos int) bool {
	if pos >= len(l.input) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return isWordRune(r)
}

// isWordRune reports whether r can appear in a bare word: anything except
// whitespace, quotes and the operator characters.
func isWordRune(r rune) bool {
	if unicode.IsSpace(r) || r == utf8.RuneError {
		return false
	}
	return !strings.ContainsRune(`:=!<>~()&|/"'*`, r)
}
