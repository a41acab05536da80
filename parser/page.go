package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
)

var pseudoPages = map[string]bool{
	"first": true,
	"left":  true,
	"right": true,
	"blank": true,
}

// parsePageSelectorList parses a comma separated list of page selectors
// such as "foo:first:left, :right".
func (p *parser) parsePageSelectorList(c *cursor) (ast.PageSelectorList, error) {
	var list ast.PageSelectorList
	for _, part := range c.split() {
		sel, err := p.parsePageSelector(part)
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
	}
	return list, nil
}

func (p *parser) parsePageSelector(c *cursor) (*ast.PageSelector, error) {
	c.skipSpace()
	if c.done() {
		return nil, errorf(Grammar, c.end(), "empty page selector")
	}

	var head, tail *ast.PageSelector
	add := func(s *ast.PageSelector) {
		if head == nil {
			head = s
		} else {
			tail.Next = s
		}
		tail = s
	}

	if id, ok := identOf(c.peek()); ok {
		c.next()
		add(&ast.PageSelector{Type: ast.PageType, Name: id.Value})
	}
	for {
		v := c.next()
		if v == nil {
			break
		}
		if ast.IsSpace(v) {
			if !c.done() {
				return nil, errorf(Grammar, c.pos(), "unexpected whitespace in page selector")
			}
			break
		}
		if !isColon(v) {
			return nil, errorf(Grammar, v.Position(), "unexpected %s in page selector", describe(v))
		}
		pos := c.pos()
		v = c.next()
		id, ok := tokenOf(v).(*token.Ident)
		if !ok {
			return nil, errorf(Grammar, pos, "expected pseudo-page name, got %s", describe(v))
		}
		name := strings.ToLower(id.Value)
		if !pseudoPages[name] {
			return nil, errorf(Grammar, id.Pos, "unknown pseudo-page :%s", id.Value)
		}
		add(&ast.PageSelector{Type: ast.PseudoPage, Name: name})
	}
	return head, nil
}
