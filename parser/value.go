package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/unit"
	"github.com/benbjohnson/go-css/value"
)

// parseValue parses the remaining values of c as a property value. A
// custom property value is parsed leniently: unknown units and operators
// are accepted and an empty value gives an EMPTY unit.
func (p *parser) parseValue(c *cursor, custom bool) (*value.LexicalUnit, error) {
	var ch value.Chain
	for {
		c.skipSpace()
		v := c.next()
		if v == nil {
			break
		}
		u, err := p.parseTerm(v, c, custom)
		if err != nil {
			return nil, err
		}
		ch.Append(u)
	}

	if ch.Head() == nil {
		if custom {
			return at(value.NewEmpty(), c.end()), nil
		}
		return nil, errorf(Grammar, c.end(), "missing value")
	}
	if ch.Len() > 1 {
		for u := ch.Head(); u != nil; u = u.Next() {
			if isWideKeyword(u.Type()) {
				return nil, errorf(Grammar, u.Position(), "%s must be the only value", u.CSSText())
			}
		}
	}
	return ch.Head(), nil
}

// parseTerm parses a single value. Some terms consume more values from c.
func (p *parser) parseTerm(v ast.ComponentValue, c *cursor, custom bool) (*value.LexicalUnit, error) {
	switch v := v.(type) {
	case *ast.Function:
		return p.parseFunction(v, custom)
	case *ast.SimpleBlock:
		if isBlock(v, &token.LBrack{}) {
			return p.parseBrackets(v)
		}
		return nil, errorf(Grammar, v.Position(), "unexpected %s in value", describe(v))
	}

	switch tok := tokenOf(v).(type) {
	case *token.Ident:
		return p.parseIdent(tok, c, custom)
	case *token.String:
		return at(value.NewString(tok.Value, tok.Ending), tok.Pos), nil
	case *token.URL:
		return at(value.NewURI(tok.Value), tok.Pos), nil
	case *token.Number:
		return numberUnit(tok), nil
	case *token.Percentage:
		return at(value.NewPercentage(tok.Number), tok.Pos), nil
	case *token.Dimension:
		return p.parseDimension(tok, custom)
	case *token.UnicodeRange:
		return at(value.NewUnicodeRange(tok.Value), tok.Pos), nil
	case *token.Hash:
		u, err := value.NewHexColor(tok.Value)
		if err != nil {
			return nil, errorf(Grammar, tok.Pos, "%s", err)
		}
		return at(u, tok.Pos), nil
	case *token.Comma:
		return at(value.NewOperator(value.OperatorComma), tok.Pos), nil
	case *token.Delim:
		return p.parseOperator(tok, c, custom)
	case *token.BadString:
		return nil, errorf(Structural, tok.Pos, "unterminated string")
	case *token.BadURL:
		return nil, errorf(Structural, tok.Pos, "invalid url")
	}
	return nil, errorf(Grammar, v.Position(), "unexpected %s in value", describe(v))
}

func (p *parser) parseIdent(tok *token.Ident, c *cursor, custom bool) (*value.LexicalUnit, error) {
	if strings.HasSuffix(tok.Value, "\t") {
		if p.flags&IEValues != 0 {
			return at(value.NewCompatIdent(strings.TrimSuffix(tok.Value, "\t")+`\9`), tok.Pos), nil
		} else if !custom {
			return nil, errorf(Grammar, tok.Pos, "invalid identifier %s", tok)
		}
	}

	lower := strings.ToLower(tok.Value)
	if lower == "progid" && isColon(c.peek()) {
		if p.flags&IEValues == 0 {
			return nil, errorf(Grammar, c.pos(), "unexpected ':' in value")
		}
		return at(value.NewCompatIdent(tok.Value+trimmedText(c.rest())), tok.Pos), nil
	}

	var t value.Type
	switch lower {
	case "inherit":
		t = value.Inherit
	case "initial":
		t = value.Initial
	case "unset":
		t = value.Unset
	case "revert":
		t = value.Revert
	case "revert-layer":
		t = value.RevertLayer
	default:
		return at(value.NewIdent(tok.Value), tok.Pos), nil
	}
	return at(value.NewUnit(t), tok.Pos), nil
}

func (p *parser) parseDimension(tok *token.Dimension, custom bool) (*value.LexicalUnit, error) {
	if _, ok := unit.Lookup(tok.Unit); !ok {
		if p.flags&IEValues != 0 && strings.HasSuffix(tok.Unit, "\t") {
			return at(value.NewCompatIdent(tok.Value+strings.TrimSuffix(tok.Unit, "\t")+`\9`), tok.Pos), nil
		}
		if !custom {
			return nil, errorf(Grammar, tok.Pos, "unknown unit %q", tok.Unit)
		}
	}
	return at(value.NewDimension(tok.Number, tok.Unit), tok.Pos), nil
}

// parseOperator parses a delimiter. Outside custom properties only the
// slash is an operator.
func (p *parser) parseOperator(tok *token.Delim, c *cursor, custom bool) (*value.LexicalUnit, error) {
	var t value.Type
	switch tok.Value {
	case "/":
		t = value.OperatorSlash
	case "+":
		t = value.OperatorPlus
	case "-":
		t = value.OperatorMinus
	case "*":
		t = value.OperatorMultiply
	case "^":
		t = value.OperatorExp
	case "~":
		t = value.OperatorTilde
	case "=":
		t = value.OperatorEQ
	case "<", ">":
		t = value.OperatorLT
		if tok.Value == ">" {
			t = value.OperatorGT
		}
		if isDelim(c.peek(), "=") {
			c.next()
			t += value.OperatorLE - value.OperatorLT
		}
	default:
		return nil, errorf(Grammar, tok.Pos, "unexpected '%s' in value", tok.Value)
	}
	if t != value.OperatorSlash && !custom {
		return nil, errorf(Grammar, tok.Pos, "unexpected '%s' in value", tok.Value)
	}
	return at(value.NewOperator(t), tok.Pos), nil
}

// parseBrackets parses a bracketed list of identifiers, as used for grid
// line names.
func (p *parser) parseBrackets(b *ast.SimpleBlock) (*value.LexicalUnit, error) {
	var ch value.Chain
	ch.Append(at(value.NewUnit(value.LeftBracket), b.Position()))
	c := blockCursor(b)
	for {
		c.skipSpace()
		v := c.next()
		if v == nil {
			break
		}
		id, ok := identOf(v)
		if !ok {
			return nil, errorf(Grammar, v.Position(), "expected identifier in brackets, got %s", describe(v))
		}
		ch.Append(at(value.NewIdent(id.Value), id.Pos))
	}
	if !b.Closed() {
		return nil, errorf(Structural, b.EndPosition(), "missing ']'")
	}
	ch.Append(at(value.NewUnit(value.RightBracket), b.EndPosition()))
	return ch.Head(), nil
}

// parseFunction parses a function value.
func (p *parser) parseFunction(fn *ast.Function, custom bool) (*value.LexicalUnit, error) {
	u, err := p.functionValue(fn, custom)
	return closeFunction(fn, u, err)
}

// closeFunction fails a function value that ran to the end of the input.
// Errors found in its arguments come first.
func closeFunction(fn *ast.Function, u *value.LexicalUnit, err error) (*value.LexicalUnit, error) {
	if err == nil && !fn.Closed() {
		return nil, errorf(Structural, fn.EndPosition(), "missing ')'")
	}
	return u, err
}

func (p *parser) functionValue(fn *ast.Function, custom bool) (*value.LexicalUnit, error) {
	name := strings.ToLower(fn.Name)
	switch {
	case isCalcName(name):
		return p.mathValue(fn, true)
	case isMathName(name):
		return p.mathValue(fn, true)
	case colorModels[name] != nil || name == "color" || name == "color-mix":
		return p.parseColor(fn)
	}

	switch name {
	case "var", "env", "attr":
		return p.parseSubstitution(fn)
	case "url":
		c := funcCursor(fn)
		v, err := p.onlyValue(c, "url()")
		if err != nil {
			return nil, err
		}
		s, ok := tokenOf(v).(*token.String)
		if !ok {
			return nil, errorf(Grammar, v.Position(), "expected string in url(), got %s", describe(v))
		}
		return at(value.NewURI(s.Value), fn.Pos), nil
	case "counter", "counters":
		return p.parseCounter(fn, name)
	case "cubic-bezier":
		return p.parseCubicBezier(fn)
	case "steps":
		return p.parseSteps(fn)
	case "rect":
		return p.parseRect(fn)
	case "element":
		c := funcCursor(fn)
		v, err := p.onlyValue(c, "element()")
		if err != nil {
			return nil, err
		}
		h, ok := tokenOf(v).(*token.Hash)
		if !ok {
			return nil, errorf(Grammar, v.Position(), "expected #id in element(), got %s", describe(v))
		}
		return at(value.NewElementReference(h.Value), fn.Pos), nil
	case "type":
		syn, err := value.ParseSyntax(trimmedText(fn.Values))
		if err != nil {
			return nil, errorf(Grammar, fn.Pos, "%s", err)
		}
		return at(value.NewTypeFunction(syn), fn.Pos), nil
	}

	t := value.Function
	if strings.HasPrefix(name, "-") {
		t = value.PrefixedFunction
	}
	params, err := p.parseArguments(fn, custom)
	if err != nil {
		return nil, err
	}
	return at(value.NewFunction(t, fn.Name, params), fn.Pos), nil
}

// parseArguments parses the arguments of a generic function, which may be
// empty.
func (p *parser) parseArguments(fn *ast.Function, custom bool) (*value.LexicalUnit, error) {
	c := funcCursor(fn)
	if c.done() {
		return nil, nil
	}
	return p.parseValue(c, custom)
}

// parseSubstitution parses var(), env() and attr() without resolving them.
func (p *parser) parseSubstitution(fn *ast.Function) (*value.LexicalUnit, error) {
	u, err := p.substitution(fn)
	return closeFunction(fn, u, err)
}

func (p *parser) substitution(fn *ast.Function) (*value.LexicalUnit, error) {
	name := strings.ToLower(fn.Name)
	c := funcCursor(fn)
	c.skipSpace()

	var ch value.Chain
	v := c.next()
	id, ok := identOf(v)
	switch {
	case !ok && v == nil:
		return nil, errorf(Grammar, c.end(), "missing name in %s()", name)
	case !ok:
		return nil, errorf(Grammar, v.Position(), "expected name in %s(), got %s", name, describe(v))
	case name == "var" && !strings.HasPrefix(id.Value, "--"):
		return nil, errorf(Grammar, id.Pos, "expected custom property name in var(), got %s", describe(v))
	}
	ch.Append(at(value.NewIdent(id.Value), id.Pos))

	// env() takes integer indices, attr() a type.
	for c.skipSpace(); c.peek() != nil && !isComma(c.peek()); c.skipSpace() {
		v := c.next()
		switch name {
		case "env":
			if n, ok := tokenOf(v).(*token.Number); ok && n.Type == token.Integer {
				ch.Append(numberUnit(n))
				continue
			}
		case "attr":
			if ch.Len() > 1 {
				break
			}
			if t, ok := identOf(v); ok {
				ch.Append(at(value.NewIdent(strings.ToLower(t.Value)), t.Pos))
				continue
			}
			if f, ok := v.(*ast.Function); ok && strings.EqualFold(f.Name, "type") {
				u, err := p.parseFunction(f, false)
				if err != nil {
					return nil, err
				}
				ch.Append(u)
				continue
			}
		}
		return nil, errorf(Grammar, v.Position(), "unexpected %s in %s()", describe(v), name)
	}

	if comma := c.next(); comma != nil {
		ch.Append(at(value.NewOperator(value.OperatorComma), comma.Position()))
		fallback, err := p.parseValue(c, true)
		if err != nil {
			return nil, err
		}
		ch.Append(fallback)
	}

	var t value.Type
	switch name {
	case "var":
		t = value.Var
	case "env":
		t = value.Env
	default:
		t = value.Attr
	}
	return at(value.NewFunction(t, name, ch.Head()), fn.Pos), nil
}

// parseCounter parses counter(name [, style]) and
// counters(name, separator [, style]).
func (p *parser) parseCounter(fn *ast.Function, name string) (*value.LexicalUnit, error) {
	parts := funcCursor(fn).split()
	n := 1
	if name == "counters" {
		n = 2
	}
	if len(parts) < n || len(parts) > n+1 {
		return nil, errorf(Grammar, fn.Pos, "wrong number of arguments to %s(): %d", name, len(parts))
	}

	var ch value.Chain
	for i, part := range parts {
		if i > 0 {
			ch.Append(at(value.NewOperator(value.OperatorComma), parts[i-1].end()))
		}
		v, err := p.onlyValue(part, name+"()")
		if err != nil {
			return nil, err
		}
		switch {
		case i == 0:
			id, ok := identOf(v)
			if !ok || isWideKeywordName(id.Value) {
				return nil, errorf(Grammar, v.Position(), "invalid counter name %s", describe(v))
			}
			ch.Append(at(value.NewIdent(id.Value), id.Pos))
		case i == 1 && name == "counters":
			s, ok := tokenOf(v).(*token.String)
			if !ok {
				return nil, errorf(Grammar, v.Position(), "expected separator string, got %s", describe(v))
			}
			ch.Append(at(value.NewString(s.Value, s.Ending), s.Pos))
		default:
			u, err := p.parseTerm(v, part, false)
			if err != nil {
				return nil, err
			}
			if t := u.Type(); t != value.Ident && t != value.Function {
				return nil, errorf(Grammar, v.Position(), "invalid counter style %s", describe(v))
			}
			ch.Append(u)
		}
	}
	t := value.Counter
	if name == "counters" {
		t = value.Counters
	}
	return at(value.NewFunction(t, name, ch.Head()), fn.Pos), nil
}

// parseCubicBezier parses cubic-bezier(x1, y1, x2, y2). The x values must
// be in [0,1].
func (p *parser) parseCubicBezier(fn *ast.Function) (*value.LexicalUnit, error) {
	parts := funcCursor(fn).split()
	if len(parts) != 4 {
		return nil, errorf(Grammar, fn.Pos, "wrong number of arguments to cubic-bezier(): %d", len(parts))
	}
	var ch value.Chain
	for i, part := range parts {
		if i > 0 {
			ch.Append(at(value.NewOperator(value.OperatorComma), parts[i-1].end()))
		}
		u, err := p.numberArgument(part, "cubic-bezier()")
		if err != nil {
			return nil, err
		}
		if i%2 == 0 && u.Type() != value.Calc && u.Type() != value.MathFunction {
			if x := u.FloatValue(); x < 0 || x > 1 {
				return nil, errorf(Grammar, u.Position(), "cubic-bezier() x value out of range [0,1]")
			}
		}
		ch.Append(u)
	}
	return at(value.NewFunction(value.CubicBezier, "cubic-bezier", ch.Head()), fn.Pos), nil
}

// parseSteps parses steps(n [, position]).
func (p *parser) parseSteps(fn *ast.Function) (*value.LexicalUnit, error) {
	parts := funcCursor(fn).split()
	if len(parts) > 2 {
		return nil, errorf(Grammar, fn.Pos, "wrong number of arguments to steps(): %d", len(parts))
	}
	var ch value.Chain
	n, err := p.numberArgument(parts[0], "steps()")
	if err != nil {
		return nil, err
	}
	if n.Type() == value.Real || (n.Type() == value.Integer && n.IntegerValue() < 1) {
		return nil, errorf(Grammar, n.Position(), "steps() requires a positive integer")
	}
	ch.Append(n)
	if len(parts) == 2 {
		ch.Append(at(value.NewOperator(value.OperatorComma), parts[0].end()))
		v, err := p.onlyValue(parts[1], "steps()")
		if err != nil {
			return nil, err
		}
		id, ok := identOf(v)
		if !ok || !stepPositions[strings.ToLower(id.Value)] {
			return nil, errorf(Grammar, v.Position(), "invalid step position %s", describe(v))
		}
		ch.Append(at(value.NewIdent(strings.ToLower(id.Value)), id.Pos))
	}
	return at(value.NewFunction(value.Steps, "steps", ch.Head()), fn.Pos), nil
}

var stepPositions = map[string]bool{
	"jump-start": true,
	"jump-end":   true,
	"jump-none":  true,
	"jump-both":  true,
	"start":      true,
	"end":        true,
}

// parseRect parses rect(top right bottom left), with or without commas.
// Each side is a length or "auto".
func (p *parser) parseRect(fn *ast.Function) (*value.LexicalUnit, error) {
	var ch value.Chain
	c := funcCursor(fn)
	sides, commas := 0, 0
	for {
		c.skipSpace()
		v := c.next()
		if v == nil {
			break
		}
		if isComma(v) {
			commas++
			ch.Append(at(value.NewOperator(value.OperatorComma), v.Position()))
			continue
		}
		u, err := p.parseTerm(v, c, false)
		if err != nil {
			return nil, err
		}
		switch {
		case u.Type() == value.Ident && strings.EqualFold(u.StringValue(), "auto"):
		case u.Type() == value.Dimension && u.Unit().IsLength():
		case u.Type() == value.Integer && u.IntegerValue() == 0:
		case u.Type() == value.Calc || u.Type() == value.MathFunction:
		default:
			return nil, errorf(Grammar, u.Position(), "invalid rect() side %s", u.CSSText())
		}
		sides++
		ch.Append(u)
	}
	if sides != 4 || (commas != 0 && commas != 3) {
		return nil, errorf(Grammar, fn.Pos, "rect() requires four sides")
	}
	return at(value.NewFunction(value.Rect, "rect", ch.Head()), fn.Pos), nil
}

// numberArgument parses a function argument that must be a number.
func (p *parser) numberArgument(c *cursor, fname string) (*value.LexicalUnit, error) {
	v, err := p.onlyValue(c, fname)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *ast.Function:
		if name := strings.ToLower(v.Name); isCalcName(name) || isMathName(name) {
			return p.mathValue(v, true)
		}
	case *ast.Token:
		if n, ok := v.Token.(*token.Number); ok {
			return numberUnit(n), nil
		}
	}
	return nil, errorf(Grammar, v.Position(), "expected number in %s, got %s", fname, describe(v))
}

// onlyValue returns the only value of c, ignoring whitespace and comments.
func (p *parser) onlyValue(c *cursor, fname string) (ast.ComponentValue, error) {
	c.skipSpace()
	v := c.next()
	if v == nil {
		return nil, errorf(Grammar, c.end(), "missing argument in %s", fname)
	}
	c.skipSpace()
	if extra := c.peek(); extra != nil {
		return nil, errorf(Grammar, extra.Position(), "unexpected %s in %s", describe(extra), fname)
	}
	return v, nil
}

func numberUnit(tok *token.Number) *value.LexicalUnit {
	if tok.Type == token.Integer {
		return at(value.NewInteger(int(tok.Number)), tok.Pos)
	}
	return at(value.NewReal(tok.Number), tok.Pos)
}

// at sets the position of u and returns it.
func at(u *value.LexicalUnit, pos token.Pos) *value.LexicalUnit {
	u.SetPosition(pos)
	return u
}

func isWideKeyword(t value.Type) bool {
	switch t {
	case value.Inherit, value.Initial, value.Unset, value.Revert, value.RevertLayer:
		return true
	}
	return false
}

func isWideKeywordName(s string) bool {
	switch strings.ToLower(s) {
	case "inherit", "initial", "unset", "revert", "revert-layer", "default":
		return true
	}
	return false
}
