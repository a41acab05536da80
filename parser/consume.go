package parser

import (
	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
)

// consumeComponentValue consumes a single component value. (§5.4.6)
func (p *parser) consumeComponentValue(s *tokenScanner) ast.ComponentValue {
	tok := s.Scan()
	switch tok.(type) {
	case *token.LBrace, *token.LBrack, *token.LParen:
		return p.consumeSimpleBlock(s)
	case *token.Function:
		return p.consumeFunction(s)
	default:
		return &ast.Token{Token: tok}
	}
}

// consumeSimpleBlock consumes a simple block. (§5.4.7)
func (p *parser) consumeSimpleBlock(s *tokenScanner) *ast.SimpleBlock {
	b := &ast.SimpleBlock{}

	// Set the block's associated token to the current token.
	b.Token = s.Current()

	if !p.enter(b.Token.Position()) {
		b.End = p.skipNested(s, b.Token)
		return b
	}
	defer p.leave()

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token then return.
		if _, ok := tok.(*token.EOF); ok || closes(b.Token, tok) {
			b.End = tok
			return b
		}

		// Otherwise consume a component value.
		s.Unscan()
		b.Values = append(b.Values, p.consumeComponentValue(s))
	}
}

// consumeFunction consumes a function. (§5.4.8)
func (p *parser) consumeFunction(s *tokenScanner) *ast.Function {
	f := &ast.Function{}

	// Set the name to the first token.
	tok := s.Current().(*token.Function)
	f.Name, f.Pos = tok.Value, tok.Pos

	if !p.enter(f.Pos) {
		f.End = p.skipNested(s, tok)
		return f
	}
	defer p.leave()

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token then return.
		switch tok.(type) {
		case *token.EOF, *token.RParen:
			f.End = tok
			return f
		}

		// Otherwise consume a component value.
		s.Unscan()
		f.Values = append(f.Values, p.consumeComponentValue(s))
	}
}

// enter increments the nesting depth. Past the ceiling it records a
// "too deeply nested" error and returns false.
func (p *parser) enter(pos token.Pos) bool {
	if p.depth >= p.maxNesting {
		if p.nestErr == nil {
			p.nestErr = errorf(Structural, pos, "too deeply nested")
		}
		return false
	}
	p.depth++
	return true
}

func (p *parser) leave() {
	p.depth--
}

// skipNested discards tokens up to the token closing open, keeping track
// of inner blocks without recursion. It returns the closing token or EOF.
func (p *parser) skipNested(s *tokenScanner, open token.Token) token.Token {
	stack := []token.Token{open}
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.EOF:
			return tok
		case *token.LBrace, *token.LBrack, *token.LParen, *token.Function:
			stack = append(stack, tok)
			continue
		}
		if closes(stack[len(stack)-1], tok) {
			if stack = stack[:len(stack)-1]; len(stack) == 0 {
				return tok
			}
		}
	}
}

// takeNestErr returns and clears the pending nesting error.
func (p *parser) takeNestErr() *Error {
	err := p.nestErr
	p.nestErr = nil
	return err
}

// closes returns true if tok is the mirror of the opening token.
func closes(open, tok token.Token) bool {
	switch tok.(type) {
	case *token.RBrace:
		_, ok := open.(*token.LBrace)
		return ok
	case *token.RBrack:
		_, ok := open.(*token.LBrack)
		return ok
	case *token.RParen:
		switch open.(type) {
		case *token.LParen, *token.Function:
			return true
		}
	}
	return false
}
