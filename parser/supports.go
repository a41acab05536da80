package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
)

// parseSupportsCondition parses the condition of a @supports rule.
func (p *parser) parseSupportsCondition(c *cursor) (ast.Condition, error) {
	c.skipSpace()
	if c.done() {
		return nil, errorf(Grammar, c.end(), "missing condition")
	}
	return p.parseCondition(c, p.supportsInParens, true)
}

// supportsInParens parses a term of a @supports condition: a
// parenthesized condition or declaration, or one of the supports
// functions. Unknown functions and contents are kept as unknown
// conditions.
func (p *parser) supportsInParens(v ast.ComponentValue, end token.Pos) (ast.Condition, error) {
	switch v := v.(type) {
	case nil:
		return nil, errorf(Grammar, end, "missing condition")
	case *ast.Function:
		return p.supportsFunction(v)
	case *ast.SimpleBlock:
		if !isParenBlock(v) {
			break
		}
		if !v.Closed() {
			return nil, errorf(Structural, v.EndPosition(), "missing ')'")
		}
		return p.supportsContent(blockCursor(v), v.String())
	}
	return nil, errorf(Grammar, v.Position(), "expected '(', got %s", describe(v))
}

func (p *parser) supportsFunction(fn *ast.Function) (ast.Condition, error) {
	if !fn.Closed() {
		return nil, errorf(Structural, fn.EndPosition(), "missing ')'")
	}
	c := funcCursor(fn)
	switch strings.ToLower(fn.Name) {
	case "not":
		inner, err := p.supportsContent(c, fn.String())
		if err != nil {
			return nil, err
		}
		return &ast.Not{Condition: inner}, nil
	case "selector":
		sel, err := p.parseComplexSelector(c, false)
		if err != nil {
			return nil, err
		}
		return &ast.SelectorFunction{Selector: sel}, nil
	case "font-tech":
		v, err := p.onlyValue(c, "font-tech()")
		if err != nil {
			return nil, err
		}
		id, ok := identOf(v)
		if !ok {
			return nil, errorf(Grammar, v.Position(), "expected font technology, got %s", describe(v))
		}
		return &ast.FontTechFunction{Tech: strings.ToLower(id.Value)}, nil
	case "font-format":
		v, err := p.onlyValue(c, "font-format()")
		if err != nil {
			return nil, err
		}
		switch tok := tokenOf(v).(type) {
		case *token.Ident:
			return &ast.FontFormatFunction{Format: strings.ToLower(tok.Value)}, nil
		case *token.String:
			return &ast.FontFormatFunction{Format: tok.Value}, nil
		}
		return nil, errorf(Grammar, v.Position(), "expected font format, got %s", describe(v))
	}
	return &ast.Other{Text: fn.String()}, nil
}

// supportsContent parses what is inside parentheses: a nested condition,
// a declaration, or anything else as an unknown condition written raw.
func (p *parser) supportsContent(c *cursor, raw string) (ast.Condition, error) {
	c.skipSpace()
	if c.done() {
		return nil, errorf(Grammar, c.end(), "empty condition")
	}

	first := c.peek()
	if isIdent(first, "not") || isParenBlock(first) || isFunction(first) {
		cond, err := p.parseCondition(c, p.supportsInParens, true)
		if err != nil {
			return nil, err
		}
		return &ast.Parens{Condition: cond}, nil
	}

	id, ok := identOf(first)
	if !ok {
		return &ast.Other{Text: raw}, nil
	}
	c.next()
	c.skipSpace()
	if !isColon(c.peek()) {
		return &ast.Other{Text: raw}, nil
	}
	c.next()

	d := &ast.DeclarationCondition{Name: id.Value}
	custom := strings.HasPrefix(d.Name, "--")
	if !custom {
		d.Name = strings.ToLower(d.Name)
	}
	vals, end, important, _ := p.priority(c.rest(), c.end())
	val, err := p.parseValue(newCursor(vals, end), custom)
	if err != nil {
		return nil, err
	}
	d.Value, d.Important = val, important
	return d, nil
}
