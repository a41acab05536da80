package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/scanner"
	"github.com/benbjohnson/go-css/token"
)

// tokenScanner reads tokens from a scanner with one token of pushback.
// Lexical errors found by the scanner are passed to onError as they occur.
type tokenScanner struct {
	s         *scanner.Scanner
	cur       token.Token
	unscanned bool
	nerr      int
	onError   func(*Error)
}

func newTokenScanner(s *scanner.Scanner, onError func(*Error)) *tokenScanner {
	return &tokenScanner{s: s, onError: onError}
}

// Current returns the current token.
func (s *tokenScanner) Current() token.Token {
	if s.cur == nil {
		return &token.EOF{Pos: token.Pos{Line: 1, Column: 1}}
	}
	return s.cur
}

// Scan returns the next token.
func (s *tokenScanner) Scan() token.Token {
	if s.unscanned {
		s.unscanned = false
		return s.cur
	}
	s.cur = s.s.Scan()
	for ; s.nerr < len(s.s.Errors); s.nerr++ {
		if s.onError != nil {
			e := s.s.Errors[s.nerr]
			s.onError(&Error{Kind: Lexical, Message: e.Message, Pos: e.Pos})
		}
	}
	return s.cur
}

// Unscan pushes the current token back.
func (s *tokenScanner) Unscan() {
	s.unscanned = true
}

// Err returns the read error of the underlying input, if any.
func (s *tokenScanner) Err() error {
	return s.s.Err()
}

// stream yields the component values of a rule or declaration list, and
// nil once it is exhausted.
type stream interface {
	next() ast.ComponentValue
	end() token.Pos
}

// topStream consumes component values from the token scanner on demand,
// so that a style sheet is processed one rule at a time.
type topStream struct {
	p   *parser
	eof token.Pos
}

func (t *topStream) next() ast.ComponentValue {
	v := t.p.consumeComponentValue(t.p.s)
	if tok, ok := v.(*ast.Token); ok {
		if eof, ok := tok.Token.(*token.EOF); ok {
			t.eof = eof.Pos
			return nil
		}
	}
	return v
}

func (t *topStream) end() token.Pos { return t.eof }

// cursor walks a list of component values, typically the contents of a
// block or function. endPos is reported for errors found past the last
// value: the closing token or the end of the input.
type cursor struct {
	vals   ast.ComponentValues
	i      int
	endPos token.Pos
}

func newCursor(vals ast.ComponentValues, end token.Pos) *cursor {
	return &cursor{vals: vals, endPos: end}
}

func blockCursor(b *ast.SimpleBlock) *cursor {
	return newCursor(b.Values, b.EndPosition())
}

func funcCursor(f *ast.Function) *cursor {
	return newCursor(f.Values, f.EndPosition())
}

func (c *cursor) next() ast.ComponentValue {
	if c.i >= len(c.vals) {
		return nil
	}
	v := c.vals[c.i]
	c.i++
	return v
}

func (c *cursor) peek() ast.ComponentValue {
	if c.i >= len(c.vals) {
		return nil
	}
	return c.vals[c.i]
}

// back moves back one value.
func (c *cursor) back() {
	if c.i > 0 {
		c.i--
	}
}

func (c *cursor) end() token.Pos { return c.endPos }

// skipSpace skips whitespace and comments. It returns true if anything was
// skipped.
func (c *cursor) skipSpace() bool {
	start := c.i
	for c.i < len(c.vals) && ast.IsSpace(c.vals[c.i]) {
		c.i++
	}
	return c.i > start
}

// done returns true if only whitespace and comments remain.
func (c *cursor) done() bool {
	for _, v := range c.vals[c.i:] {
		if !ast.IsSpace(v) {
			return false
		}
	}
	return true
}

// pos returns the position of the next value, or endPos.
func (c *cursor) pos() token.Pos {
	if v := c.peek(); v != nil {
		return v.Position()
	}
	return c.endPos
}

// rest consumes and returns the remaining values.
func (c *cursor) rest() ast.ComponentValues {
	vals := c.vals[c.i:]
	c.i = len(c.vals)
	return vals
}

// split consumes the remaining values and splits them at top-level commas.
// Each part ends at the position of the comma that follows it.
func (c *cursor) split() []*cursor {
	var parts []*cursor
	start := c.i
	for ; c.i < len(c.vals); c.i++ {
		if isComma(c.vals[c.i]) {
			parts = append(parts, newCursor(c.vals[start:c.i], c.vals[c.i].Position()))
			start = c.i + 1
		}
	}
	return append(parts, newCursor(c.vals[start:], c.endPos))
}

// tokenOf returns the token of v, or nil if v is a block or function.
func tokenOf(v ast.ComponentValue) token.Token {
	if t, ok := v.(*ast.Token); ok {
		return t.Token
	}
	return nil
}

func identOf(v ast.ComponentValue) (*token.Ident, bool) {
	t, ok := tokenOf(v).(*token.Ident)
	return t, ok
}

// isIdent returns true if v is the identifier s, ignoring case.
func isIdent(v ast.ComponentValue, s string) bool {
	t, ok := identOf(v)
	return ok && strings.EqualFold(t.Value, s)
}

func isDelim(v ast.ComponentValue, s string) bool {
	t, ok := tokenOf(v).(*token.Delim)
	return ok && t.Value == s
}

func isComma(v ast.ComponentValue) bool {
	_, ok := tokenOf(v).(*token.Comma)
	return ok
}

func isColon(v ast.ComponentValue) bool {
	_, ok := tokenOf(v).(*token.Colon)
	return ok
}

func isWhitespace(v ast.ComponentValue) bool {
	_, ok := tokenOf(v).(*token.Whitespace)
	return ok
}

// isBlock returns true if v is a block opened by a token of the same type
// as open.
func isBlock(v ast.ComponentValue, open token.Token) bool {
	b, ok := v.(*ast.SimpleBlock)
	if !ok {
		return false
	}
	switch open.(type) {
	case *token.LBrace:
		_, ok = b.Token.(*token.LBrace)
	case *token.LParen:
		_, ok = b.Token.(*token.LParen)
	case *token.LBrack:
		_, ok = b.Token.(*token.LBrack)
	default:
		ok = false
	}
	return ok
}

func isBraceBlock(v ast.ComponentValue) bool { return isBlock(v, &token.LBrace{}) }
func isParenBlock(v ast.ComponentValue) bool { return isBlock(v, &token.LParen{}) }

// describe names v in error messages.
func describe(v ast.ComponentValue) string {
	if v == nil {
		return "end of input"
	}
	s := v.String()
	if r := []rune(s); len(r) > 24 {
		s = string(r[:21]) + "..."
	}
	return "'" + s + "'"
}

// trimmedText returns the text of vals without surrounding whitespace and
// comments.
func trimmedText(vals ast.ComponentValues) string {
	return strings.TrimSpace(vals.TrimSpace().String())
}
