package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
)

// legacyPseudoElements may be written with a single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// parseSelectorList parses a comma separated list of complex selectors.
// With relative, a selector may start with a combinator, as in nested
// rules and :has().
func (p *parser) parseSelectorList(c *cursor, relative bool) (ast.SelectorList, error) {
	var list ast.SelectorList
	for _, part := range c.split() {
		part.skipSpace()
		pos := part.pos()
		sel, err := p.parseComplexSelector(part, relative)
		if err != nil {
			return nil, err
		}
		for _, prev := range list {
			if prev.Equal(sel) {
				p.warn(errorf(Grammar, pos, "duplicate selector %s", sel))
				break
			}
		}
		list = append(list, sel)
	}
	return list, nil
}

// parseComplexSelector parses compound selectors joined by combinators.
func (p *parser) parseComplexSelector(c *cursor, relative bool) (*ast.Selector, error) {
	sel := &ast.Selector{}
	c.skipSpace()
	if c.done() {
		return nil, errorf(Grammar, c.end(), "empty selector")
	}

	comb, ok := combinator(c.peek())
	if ok {
		if !relative {
			return nil, errorf(Grammar, c.pos(), "unexpected combinator %s", describe(c.peek()))
		}
		c.next()
		c.skipSpace()
		sel.Relative = true
	}

	for {
		pos := c.pos()
		cs, err := p.parseCompound(c)
		if err != nil {
			return nil, err
		} else if cs == nil {
			return nil, errorf(Grammar, pos, "expected selector, got %s", describe(c.peek()))
		}
		cs.Combinator = comb
		sel.Compounds = append(sel.Compounds, cs)

		space := c.skipSpace()
		v := c.peek()
		if v == nil {
			return sel, nil
		}
		if comb, ok = combinator(v); ok {
			c.next()
			c.skipSpace()
			if c.peek() == nil {
				return nil, errorf(Grammar, c.end(), "missing selector after %s", describe(v))
			}
			continue
		}
		if !space {
			return nil, errorf(Grammar, v.Position(), "unexpected %s in selector", describe(v))
		}
		comb = ast.Descendant
	}
}

func combinator(v ast.ComponentValue) (ast.Combinator, bool) {
	switch tok := tokenOf(v).(type) {
	case *token.Delim:
		switch tok.Value {
		case ">":
			return ast.Child, true
		case "+":
			return ast.NextSibling, true
		case "~":
			return ast.SubsequentSibling, true
		}
	case *token.Column:
		return ast.ColumnCombinator, true
	}
	return ast.Descendant, false
}

// parseCompound parses a compound selector. It returns nil if c does not
// start with a simple selector.
func (p *parser) parseCompound(c *cursor) (*ast.CompoundSelector, error) {
	cs := &ast.CompoundSelector{}
	typ, err := p.parseTypeSelector(c)
	if err != nil {
		return nil, err
	}
	cs.Type = typ

	for {
		v := c.peek()
		var sub ast.SimpleSelector
		switch tok := tokenOf(v).(type) {
		case *token.Hash:
			if tok.Type != "id" {
				return nil, errorf(Grammar, tok.Pos, "invalid id selector %s", tok)
			}
			c.next()
			sub = &ast.IDSelector{Name: tok.Value}
		case *token.Delim:
			switch tok.Value {
			case ".":
				c.next()
				id, ok := identOf(c.next())
				if !ok {
					return nil, errorf(Grammar, tok.Pos, "expected class name after '.'")
				}
				sub = &ast.ClassSelector{Name: id.Value}
			case "&":
				c.next()
				sub = &ast.NestingSelector{}
			}
		case *token.Colon:
			c.next()
			if sub, err = p.parsePseudo(c, tok.Pos); err != nil {
				return nil, err
			}
		case nil:
			if b, ok := v.(*ast.SimpleBlock); ok && isBlock(b, &token.LBrack{}) {
				c.next()
				if sub, err = p.parseAttribute(b); err != nil {
					return nil, err
				}
			}
		}
		if sub == nil {
			break
		}
		cs.Subclasses = append(cs.Subclasses, sub)
	}

	if cs.Type == nil && len(cs.Subclasses) == 0 {
		return nil, nil
	}
	return cs, nil
}

// parseTypeSelector parses an optional "[prefix|]name" where name and
// prefix may be "*".
func (p *parser) parseTypeSelector(c *cursor) (*ast.TypeSelector, error) {
	has, prefix, name, pos, err := p.qualifiedName(c, true)
	if err != nil || name == "" {
		return nil, err
	}
	s := &ast.TypeSelector{HasPrefix: has, Prefix: prefix, Name: name}
	if !has {
		s.NamespaceURI = p.namespaces[""]
		return s, nil
	}
	if s.NamespaceURI, err = p.namespaceURI(prefix, pos); err != nil {
		return nil, err
	}
	return s, nil
}

// qualifiedName reads "name", "prefix|name" or "|name". With star, "*" is
// accepted as the name. An empty name means none was found and nothing
// was consumed.
func (p *parser) qualifiedName(c *cursor, star bool) (has bool, prefix, name string, pos token.Pos, err error) {
	pos = c.pos()
	first := c.peek()
	var firstName string
	switch {
	case isDelim(first, "|"):
	case isDelim(first, "*"):
		firstName = "*"
	default:
		id, ok := identOf(first)
		if !ok {
			return false, "", "", pos, nil
		}
		firstName = id.Value
	}
	c.next()

	if isDelim(first, "|") || isDelim(c.peek(), "|") {
		if !isDelim(first, "|") {
			c.next()
		}
		v := c.next()
		switch {
		case isDelim(v, "*") && star:
			return true, firstName, "*", pos, nil
		default:
			if id, ok := identOf(v); ok {
				return true, firstName, id.Value, pos, nil
			}
		}
		return false, "", "", pos, errorf(Grammar, pos, "expected name after '|', got %s", describe(v))
	}
	if firstName == "*" && !star {
		return false, "", "", pos, errorf(Grammar, pos, "unexpected '*'")
	}
	return false, "", firstName, pos, nil
}

// namespaceURI resolves a namespace prefix. "*" matches any namespace and
// the empty prefix means no namespace.
func (p *parser) namespaceURI(prefix string, pos token.Pos) (string, error) {
	switch prefix {
	case "", "*":
		return "", nil
	}
	uri, ok := p.namespaces[prefix]
	if !ok {
		return "", errorf(Grammar, pos, "undeclared namespace prefix %q", prefix)
	}
	return uri, nil
}

// parseAttribute parses the contents of an attribute selector.
func (p *parser) parseAttribute(b *ast.SimpleBlock) (*ast.AttributeSelector, error) {
	if !b.Closed() {
		return nil, errorf(Structural, b.EndPosition(), "missing ']'")
	}
	c := blockCursor(b)
	c.skipSpace()
	has, prefix, name, pos, err := p.qualifiedName(c, false)
	if err != nil {
		return nil, err
	} else if name == "" {
		return nil, errorf(Grammar, c.pos(), "expected attribute name, got %s", describe(c.peek()))
	}
	s := &ast.AttributeSelector{HasPrefix: has, Prefix: prefix, Name: name}
	if has {
		if s.NamespaceURI, err = p.namespaceURI(prefix, pos); err != nil {
			return nil, err
		}
	}

	c.skipSpace()
	v := c.next()
	if v == nil {
		return s, nil
	}
	switch tok := tokenOf(v).(type) {
	case *token.Delim:
		if tok.Value == "=" {
			s.Op = ast.AttrEquals
		}
	case *token.IncludeMatch:
		s.Op = ast.AttrIncludes
	case *token.DashMatch:
		s.Op = ast.AttrDashMatch
	case *token.PrefixMatch:
		s.Op = ast.AttrPrefix
	case *token.SuffixMatch:
		s.Op = ast.AttrSuffix
	case *token.SubstringMatch:
		s.Op = ast.AttrSubstring
	}
	if s.Op == ast.AttrExists {
		return nil, errorf(Grammar, v.Position(), "unexpected %s in attribute selector", describe(v))
	}

	c.skipSpace()
	v = c.next()
	switch tok := tokenOf(v).(type) {
	case *token.Ident:
		s.Value = tok.Value
	case *token.String:
		s.Value = tok.Value
	default:
		return nil, errorf(Grammar, c.end(), "expected attribute value, got %s", describe(v))
	}

	c.skipSpace()
	if v := c.next(); v != nil {
		id, ok := identOf(v)
		if !ok || (!strings.EqualFold(id.Value, "i") && !strings.EqualFold(id.Value, "s")) {
			return nil, errorf(Grammar, v.Position(), "unexpected %s in attribute selector", describe(v))
		}
		s.Modifier = rune(strings.ToLower(id.Value)[0])
	}
	c.skipSpace()
	if v := c.next(); v != nil {
		return nil, errorf(Grammar, v.Position(), "unexpected %s in attribute selector", describe(v))
	}
	return s, nil
}

// parsePseudo parses what follows a colon in a compound selector.
func (p *parser) parsePseudo(c *cursor, colon token.Pos) (ast.SimpleSelector, error) {
	element := false
	if isColon(c.peek()) {
		c.next()
		element = true
	}

	v := c.next()
	switch v := v.(type) {
	case *ast.Function:
		name := strings.ToLower(v.Name)
		if element {
			return &ast.PseudoElement{Name: name, Function: true, Args: trimmedText(v.Values)}, nil
		}
		return p.parsePseudoFunction(v, name)
	case *ast.Token:
		if id, ok := v.Token.(*token.Ident); ok {
			name := strings.ToLower(id.Value)
			switch {
			case element:
				return &ast.PseudoElement{Name: name}, nil
			case legacyPseudoElements[name]:
				return &ast.PseudoElement{Name: name, Legacy: true}, nil
			}
			return &ast.PseudoClass{Name: name}, nil
		}
	}
	return nil, errorf(Grammar, colon, "expected pseudo-class name, got %s", describe(v))
}

func (p *parser) parsePseudoFunction(fn *ast.Function, name string) (*ast.PseudoClass, error) {
	s := &ast.PseudoClass{Name: name, Function: true}
	if !fn.Closed() {
		return nil, errorf(Structural, fn.EndPosition(), "missing ')' in :%s()", name)
	}

	var err error
	switch name {
	case "is", "where", "matches", "not", "any", "-webkit-any", "-moz-any", "host", "host-context":
		s.Selectors, err = p.parseSelectorList(funcCursor(fn), false)
	case "has":
		s.Selectors, err = p.parseSelectorList(funcCursor(fn), true)
	case "nth-child", "nth-last-child":
		s.Nth, s.Selectors, err = p.parseNth(fn, true)
	case "nth-of-type", "nth-last-of-type", "nth-col", "nth-last-col":
		s.Nth, s.Selectors, err = p.parseNth(fn, false)
	default:
		s.Args = trimmedText(fn.Values)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// parseNth parses "An+B [of <selector-list>]".
func (p *parser) parseNth(fn *ast.Function, allowOf bool) (*ast.Nth, ast.SelectorList, error) {
	c := funcCursor(fn)
	var expr strings.Builder
	for v := c.next(); v != nil; v = c.next() {
		if isIdent(v, "of") && expr.Len() > 0 {
			if !allowOf {
				return nil, nil, errorf(Grammar, v.Position(), "unexpected 'of' in :%s()", fn.Name)
			}
			list, err := p.parseSelectorList(c, false)
			if err != nil {
				return nil, nil, err
			}
			nth, err := parseAnB(expr.String())
			if err != nil {
				return nil, nil, errorf(Grammar, fn.Pos, "%s", err)
			}
			return nth, list, nil
		}
		if !ast.IsSpace(v) {
			expr.WriteString(v.String())
		}
	}
	nth, err := parseAnB(expr.String())
	if err != nil {
		return nil, nil, errorf(Grammar, fn.Pos, "%s", err)
	}
	return nth, nil, nil
}

// parseAnB parses an An+B expression written without whitespace.
func parseAnB(s string) (*ast.Nth, error) {
	s = strings.ToLower(s)
	switch s {
	case "odd":
		return &ast.Nth{A: 2, B: 1}, nil
	case "even":
		return &ast.Nth{A: 2}, nil
	case "":
		return nil, errors.New("missing An+B expression")
	}

	i := strings.IndexByte(s, 'n')
	if i < 0 {
		b, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid An+B expression %q", s)
		}
		return &ast.Nth{B: b}, nil
	}

	nth := &ast.Nth{}
	switch a := s[:i]; a {
	case "", "+":
		nth.A = 1
	case "-":
		nth.A = -1
	default:
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid An+B expression %q", s)
		}
		nth.A = n
	}
	if b := s[i+1:]; b != "" {
		n, err := strconv.Atoi(b)
		if err != nil || (b[0] != '+' && b[0] != '-') {
			return nil, fmt.Errorf("invalid An+B expression %q", s)
		}
		nth.B = n
	}
	return nth, nil
}
