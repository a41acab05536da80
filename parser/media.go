package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
)

// mediaFeatures lists the known media features. Range features may be
// compared with "<", ">" and "=" and take the "min-" and "max-" prefixes.
var mediaFeatures = map[string]bool{
	"any-hover":                    false,
	"any-pointer":                  false,
	"aspect-ratio":                 true,
	"color":                        true,
	"color-gamut":                  false,
	"color-index":                  true,
	"device-aspect-ratio":          true,
	"device-height":                true,
	"device-width":                 true,
	"display-mode":                 false,
	"dynamic-range":                false,
	"forced-colors":                false,
	"grid":                         false,
	"height":                       true,
	"hover":                        false,
	"inverted-colors":              false,
	"monochrome":                   true,
	"orientation":                  false,
	"overflow-block":               false,
	"overflow-inline":              false,
	"pointer":                      false,
	"prefers-color-scheme":         false,
	"prefers-contrast":             false,
	"prefers-reduced-data":         false,
	"prefers-reduced-motion":       false,
	"prefers-reduced-transparency": false,
	"resolution":                   true,
	"scan":                         false,
	"scripting":                    false,
	"update":                       false,
	"video-dynamic-range":          false,
	"width":                        true,
}

// lookupFeature reports whether name is a known media feature and whether
// it is a range feature. Prefixed forms count as known non-range features.
func lookupFeature(name string) (known, isRange bool) {
	if r, ok := mediaFeatures[name]; ok {
		return true, r
	}
	for _, prefix := range []string{"min-", "max-"} {
		if base, ok := strings.CutPrefix(name, prefix); ok && mediaFeatures[base] {
			return true, false
		}
	}
	if strings.HasPrefix(name, "-") {
		return true, false
	}
	return false, false
}

// parseMediaQueryList parses comma separated media queries. With recover,
// an invalid query is reported and replaced by "not all"; otherwise it is
// an error.
func (p *parser) parseMediaQueryList(c *cursor, recover bool) (ast.MediaQueryList, error) {
	if c.done() {
		return nil, nil
	}
	var list ast.MediaQueryList
	for _, part := range c.split() {
		q, err := p.parseMediaQuery(part)
		if err != nil {
			if !recover {
				return nil, err
			}
			p.reportErr(err, part.pos())
			q = ast.NewNotAll()
		}
		list = append(list, q)
	}
	return list, nil
}

// parseMediaQuery parses "[not|only] <type> [and <condition>]" or a media
// condition.
func (p *parser) parseMediaQuery(c *cursor) (*ast.MediaQuery, error) {
	c.skipSpace()
	if c.done() {
		return nil, errorf(Grammar, c.end(), "empty media query")
	}

	q := &ast.MediaQuery{}
	start := c.i
	if id, ok := identOf(c.peek()); ok {
		lower := strings.ToLower(id.Value)
		if lower == "not" || lower == "only" {
			c.next()
			c.skipSpace()
			if _, ok := identOf(c.peek()); ok {
				q.Qualifier = lower
			} else if lower == "only" {
				return nil, errorf(Grammar, c.pos(), "expected media type after 'only', got %s", describe(c.peek()))
			} else {
				c.i = start
			}
		}
	}

	if id, ok := identOf(c.peek()); ok && (q.Qualifier != "" || !isIdent(c.peek(), "not")) {
		switch lower := strings.ToLower(id.Value); lower {
		case "and", "or", "not", "only", "layer":
			return nil, errorf(Grammar, id.Pos, "invalid media type %s", id.Value)
		default:
			q.MediaType = lower
		}
		c.next()
		c.skipSpace()
		if c.done() {
			return q, nil
		}
		if v := c.next(); !isIdent(v, "and") {
			return nil, errorf(Grammar, v.Position(), "expected 'and' after media type, got %s", describe(v))
		}
		if !c.skipSpace() {
			return nil, errorf(Grammar, c.pos(), "expected whitespace after 'and'")
		}
		cond, err := p.parseCondition(c, p.mediaInParens, false)
		if err != nil {
			return nil, err
		}
		q.Condition = cond
		return q, nil
	}

	cond, err := p.parseCondition(c, p.mediaInParens, true)
	if err != nil {
		return nil, err
	}
	q.Condition = cond
	return q, nil
}

// parseCondition parses a boolean condition made of "not", "and" and
// "or". The terms are parsed by inParens. "and" and "or" may not be mixed
// at the same level. Without allowOr, "or" is an error. The condition
// must span the rest of c.
func (p *parser) parseCondition(c *cursor, inParens func(ast.ComponentValue, token.Pos) (ast.Condition, error), allowOr bool) (ast.Condition, error) {
	c.skipSpace()
	if isIdent(c.peek(), "not") {
		c.next()
		c.skipSpace()
		inner, err := inParens(c.next(), c.end())
		if err != nil {
			return nil, err
		}
		if c.skipSpace(); !c.done() {
			return nil, errorf(Grammar, c.pos(), "unexpected %s after negated condition", describe(c.peek()))
		}
		return &ast.Not{Condition: inner}, nil
	}

	first, err := inParens(c.next(), c.end())
	if err != nil {
		return nil, err
	}
	conds := []ast.Condition{first}
	var op string
	for {
		c.skipSpace()
		v := c.next()
		if v == nil {
			break
		}
		id, ok := identOf(v)
		lower := ""
		if ok {
			lower = strings.ToLower(id.Value)
		}
		switch {
		case lower != "and" && lower != "or":
			return nil, errorf(Grammar, v.Position(), "expected 'and' or 'or', got %s", describe(v))
		case lower == "or" && !allowOr:
			return nil, errorf(Grammar, v.Position(), "unexpected 'or'")
		case op != "" && op != lower:
			return nil, errorf(Grammar, v.Position(), "mixed 'and' and 'or' without parentheses")
		}
		op = lower
		if !c.skipSpace() {
			return nil, errorf(Grammar, c.pos(), "expected whitespace after '%s'", lower)
		}
		cond, err := inParens(c.next(), c.end())
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	switch {
	case len(conds) == 1:
		return first, nil
	case op == "and":
		return &ast.And{Conditions: conds}, nil
	}
	return &ast.Or{Conditions: conds}, nil
}

// mediaInParens parses a parenthesized media condition or feature. Any
// other function or block is kept as an unknown condition.
func (p *parser) mediaInParens(v ast.ComponentValue, end token.Pos) (ast.Condition, error) {
	switch v := v.(type) {
	case nil:
		return nil, errorf(Grammar, end, "missing media condition")
	case *ast.Function:
		return &ast.Other{Text: v.String()}, nil
	case *ast.SimpleBlock:
		if isParenBlock(v) {
			return p.mediaBlock(v)
		}
	}
	return nil, errorf(Grammar, v.Position(), "expected '(', got %s", describe(v))
}

func (p *parser) mediaBlock(b *ast.SimpleBlock) (ast.Condition, error) {
	if !b.Closed() {
		return nil, errorf(Structural, b.EndPosition(), "missing ')'")
	}
	c := blockCursor(b)
	c.skipSpace()
	if c.done() {
		return nil, errorf(Grammar, b.EndPosition(), "empty media condition")
	}
	if isIdent(c.peek(), "not") || isParenBlock(c.peek()) || isFunction(c.peek()) {
		cond, err := p.parseCondition(c, p.mediaInParens, true)
		if err != nil {
			return nil, err
		}
		return &ast.Parens{Condition: cond}, nil
	}
	return p.parseMediaFeature(c, b)
}

// parseMediaFeature parses "(name)", "(name: value)" and the range forms
// "(name op value)", "(value op name)" and "(value op name op value)".
func (p *parser) parseMediaFeature(c *cursor, b *ast.SimpleBlock) (ast.Condition, error) {
	if id, ok := identOf(c.peek()); ok {
		c.next()
		c.skipSpace()
		name := strings.ToLower(id.Value)
		known, _ := lookupFeature(name)
		switch {
		case c.done():
			if !known {
				return &ast.Other{Text: b.String()}, nil
			}
			return &ast.MediaFeature{Name: name}, nil
		case isColon(c.peek()):
			c.next()
			val, err := p.parseValue(c, false)
			if err != nil {
				return nil, err
			}
			if !known {
				return &ast.Other{Text: b.String()}, nil
			}
			return &ast.MediaFeature{Name: name, Value: val}, nil
		}
		c.i = 0
	}
	return p.parseRange(c, b)
}

// parseRange parses a range media feature.
func (p *parser) parseRange(c *cursor, b *ast.SimpleBlock) (ast.Condition, error) {
	var segs []ast.ComponentValues
	var ops []ast.RangeOp
	var opPos []token.Pos
	var seg ast.ComponentValues
	for v := c.next(); v != nil; v = c.next() {
		op := rangeOp(v, c.peek())
		if op == ast.OpNone {
			seg = append(seg, v)
			continue
		}
		if op == ast.OpLE || op == ast.OpGE {
			c.next()
		}
		segs = append(segs, seg)
		ops = append(ops, op)
		opPos = append(opPos, v.Position())
		seg = nil
	}
	segs = append(segs, seg)

	for i, s := range segs {
		if len(s.TrimSpace()) == 0 {
			pos := b.EndPosition()
			if i < len(opPos) {
				pos = opPos[i]
			}
			return nil, errorf(Grammar, pos, "missing value in media range")
		}
	}

	f := &ast.MediaFeature{}
	var nameSeg int
	switch len(ops) {
	case 0:
		return nil, errorf(Grammar, c.pos(), "invalid media feature %s", b)
	case 1:
		if _, ok := featureName(segs[0]); ok {
			nameSeg = 0
			f.RightOp = ops[0]
		} else {
			nameSeg = 1
			f.LeftOp = ops[0]
		}
	case 2:
		nameSeg = 1
		f.LeftOp, f.RightOp = ops[0], ops[1]
		lt := func(op ast.RangeOp) bool { return op == ast.OpLT || op == ast.OpLE }
		gt := func(op ast.RangeOp) bool { return op == ast.OpGT || op == ast.OpGE }
		if !(lt(ops[0]) && lt(ops[1])) && !(gt(ops[0]) && gt(ops[1])) {
			return nil, errorf(Grammar, opPos[1], "invalid range: operators must point the same way")
		}
	default:
		return nil, errorf(Grammar, opPos[2], "too many comparisons in media range")
	}

	id, ok := featureName(segs[nameSeg])
	if !ok {
		return nil, errorf(Grammar, segs[nameSeg].Position(), "expected media feature name, got %s", describe(segs[nameSeg].TrimSpace()[0]))
	}
	f.Name = strings.ToLower(id.Value)
	if known, isRange := lookupFeature(f.Name); !known || !isRange {
		return nil, errorf(Grammar, id.Pos, "%s is not a range feature", f.Name)
	}

	for i, s := range segs {
		if i == nameSeg {
			continue
		}
		end := b.EndPosition()
		if i < len(opPos) {
			end = opPos[i]
		}
		val, err := p.parseValue(newCursor(s, end), false)
		if err != nil {
			return nil, err
		}
		if i < nameSeg {
			f.Left = val
		} else {
			f.Right = val
		}
	}
	return f, nil
}

// featureName returns the identifier of a segment made of a single
// identifier.
func featureName(seg ast.ComponentValues) (*token.Ident, bool) {
	seg = seg.TrimSpace()
	if len(seg) != 1 {
		return nil, false
	}
	return identOf(seg[0])
}

// rangeOp returns the comparison operator starting at v. "<=" and ">="
// are two delimiters with nothing between them.
func rangeOp(v, next ast.ComponentValue) ast.RangeOp {
	switch {
	case isDelim(v, "<") && isDelim(next, "="):
		return ast.OpLE
	case isDelim(v, ">") && isDelim(next, "="):
		return ast.OpGE
	case isDelim(v, "<"):
		return ast.OpLT
	case isDelim(v, ">"):
		return ast.OpGT
	case isDelim(v, "="):
		return ast.OpEQ
	}
	return ast.OpNone
}

func isFunction(v ast.ComponentValue) bool {
	_, ok := v.(*ast.Function)
	return ok
}
