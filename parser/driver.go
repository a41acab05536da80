package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

// ruleContext tells where a rule list appears.
type ruleContext uint8

const (
	ctxTop   ruleContext = iota // style sheet top level
	ctxGroup                    // body of a top level @media or @supports
)

// blockKind tells what a declaration list may contain besides
// declarations.
type blockKind uint8

const (
	blockDeclarations  blockKind = iota // declarations only
	blockStyle                          // nested style rules, @media and @supports
	blockPage                           // margin rules
	blockFeatureValues                  // feature value maps
)

// consumeRuleList consumes a list of rules. (§5.4.1)
func (p *parser) consumeRuleList(src stream, ctx ruleContext) {
	for {
		v := src.next()
		if v == nil {
			return
		}

		var rule ast.Rule
		switch tok := tokenOf(v).(type) {
		case *token.Whitespace:
			continue
		case *token.CDO, *token.CDC:
			if ctx == ctxTop {
				continue
			}
		case *token.Comment:
			p.comment(tok)
			continue
		case *token.AtKeyword:
			rule = p.collectAtRule(tok, src)
		}
		if rule == nil {
			r := p.collectQualifiedRule(v, src)
			if r == nil {
				continue
			}
			rule = r
		}

		if ctx == ctxTop {
			if p.rules++; p.rules == 2 {
				p.extraRule = rule.Position()
			}
		}
		if err := p.takeNestErr(); err != nil {
			p.report(err)
			continue
		}

		switch r := rule.(type) {
		case *ast.AtRule:
			p.atRule(r, ctx)
		case *ast.QualifiedRule:
			if ctx == ctxTop {
				p.stage = stageRules
			}
			p.styleRule(r, false)
		}
	}
}

// collectAtRule consumes an at-rule. (§5.4.2) The prelude ends at a
// semicolon, a {}-block or the end of the stream.
func (p *parser) collectAtRule(tok *token.AtKeyword, src stream) *ast.AtRule {
	r := &ast.AtRule{Name: tok.Value, Pos: tok.Pos}
	for {
		v := src.next()
		switch {
		case v == nil:
			return r
		case isBraceBlock(v):
			r.Block = v.(*ast.SimpleBlock)
			return r
		}
		if _, ok := tokenOf(v).(*token.Semicolon); ok {
			return r
		}
		r.Prelude = append(r.Prelude, v)
	}
}

// collectQualifiedRule consumes a qualified rule starting with first.
// (§5.4.3) A rule without a block is an error and nil is returned.
func (p *parser) collectQualifiedRule(first ast.ComponentValue, src stream) *ast.QualifiedRule {
	r := &ast.QualifiedRule{Pos: first.Position()}
	for v := first; ; v = src.next() {
		if v == nil {
			p.report(errorf(Structural, src.end(), "unexpected end of input in rule prelude"))
			return nil
		}
		if isBraceBlock(v) {
			r.Block = v.(*ast.SimpleBlock)
			return r
		}
		r.Prelude = append(r.Prelude, v)
	}
}

// styleRule reports a style rule. An invalid selector discards the rule.
func (p *parser) styleRule(r *ast.QualifiedRule, nested bool) {
	sel, err := p.parseSelectorList(newCursor(r.Prelude, r.Block.Position()), nested)
	if err != nil {
		p.reportErr(err, r.Pos)
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartSelector(sel)
	p.consumeDeclarations(blockCursor(r.Block), blockStyle, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndSelector(sel)
}

// consumeDeclarations consumes a list of declarations and the rules the
// block kind allows. (§5.4.4) Each valid declaration is passed to emit.
func (p *parser) consumeDeclarations(src stream, kind blockKind, emit func(*ast.Declaration)) {
	for {
		v := src.next()
		if v == nil {
			return
		}
		switch tok := tokenOf(v).(type) {
		case *token.Whitespace, *token.Semicolon:
			continue
		case *token.Comment:
			p.comment(tok)
			continue
		case *token.AtKeyword:
			r := p.collectAtRule(tok, src)
			if err := p.takeNestErr(); err != nil {
				p.report(err)
				continue
			}
			p.nestedAtRule(r, kind)
			continue
		}

		item, block, end := p.collectDeclaration(v, src, kind == blockStyle)
		if err := p.takeNestErr(); err != nil {
			p.report(err)
			continue
		}
		if block != nil {
			p.styleRule(&ast.QualifiedRule{Pos: item.Position(), Prelude: item, Block: block}, true)
			continue
		}
		d, err := p.parseDeclaration(newCursor(item, end))
		if err != nil {
			p.reportErr(err, item.Position())
			continue
		}
		emit(d)
	}
}

// collectDeclaration gathers the values of one item of a declaration list,
// up to a semicolon or the end of the list. With nesting, an item holding a
// {}-block is a nested rule: the values before the block and the block are
// returned. end is the position where the item stopped.
func (p *parser) collectDeclaration(first ast.ComponentValue, src stream, nesting bool) (item ast.ComponentValues, block *ast.SimpleBlock, end token.Pos) {
	custom := false
	if id, ok := identOf(first); ok {
		custom = strings.HasPrefix(id.Value, "--")
	}
	for v := first; ; v = src.next() {
		if v == nil {
			return item, nil, src.end()
		}
		if tok, ok := tokenOf(v).(*token.Semicolon); ok {
			return item, nil, tok.Pos
		}
		if nesting && !custom && isBraceBlock(v) {
			return item, v.(*ast.SimpleBlock), v.Position()
		}
		item = append(item, v)
	}
}

// parseDeclaration parses "name: value [!important]". (§5.4.5)
func (p *parser) parseDeclaration(c *cursor) (*ast.Declaration, error) {
	c.skipSpace()
	d := &ast.Declaration{Pos: c.pos()}

	star := false
	v := c.next()
	if isDelim(v, "*") && p.flags&StarHack != 0 {
		star = true
		v = c.next()
	}
	ident, ok := identOf(v)
	if !ok {
		if v == nil {
			return nil, errorf(Grammar, c.end(), "expected property name")
		}
		return nil, errorf(Grammar, v.Position(), "expected property name, got %s", describe(v))
	}
	d.Name = ident.Value
	custom := strings.HasPrefix(d.Name, "--") && !star
	if !custom {
		d.Name = strings.ToLower(d.Name)
	}

	c.skipSpace()
	if v := c.next(); !isColon(v) {
		if v == nil {
			return nil, errorf(Grammar, c.end(), "expected ':' after %s", d.Name)
		}
		return nil, errorf(Grammar, v.Position(), "expected ':' after %s, got %s", d.Name, describe(v))
	}

	vals, end, important, compat := p.priority(c.rest(), c.end())
	// The initial value of a registered property is parsed like the value
	// of a custom property.
	val, err := p.parseValue(newCursor(vals, end), custom || d.Name == "initial-value")
	if err != nil {
		return nil, err
	}
	d.Values, d.Value, d.Important = vals, val, important
	if compat {
		prio := value.NewCompatPrio()
		prio.SetPosition(end)
		if err := val.Last().InsertNext(prio); err != nil {
			return nil, errorf(Grammar, end, "%s", err)
		}
	}

	if star {
		d.Name = "*" + d.Name
		p.warn(errorf(Grammar, d.Pos, "star hack in property name %s", d.Name))
	}
	return d, nil
}

// priority removes a trailing "!important" from vals. With IEValues a
// trailing "!ie" is removed as well and compat is set. end is the position
// of the "!" when one was removed.
func (p *parser) priority(vals ast.ComponentValues, end token.Pos) (_ ast.ComponentValues, _ token.Pos, important, compat bool) {
	trimmed := vals.TrimSpace()
	if len(trimmed) < 2 {
		return vals, end, false, false
	}
	last := trimmed[len(trimmed)-1]
	rest := trimmed[:len(trimmed)-1].TrimSpace()
	if len(rest) == 0 || !isDelim(rest[len(rest)-1], "!") {
		return vals, end, false, false
	}
	bang := rest[len(rest)-1]
	switch {
	case isIdent(last, "important"):
		important = true
	case isIdent(last, "ie") && p.flags&IEValues != 0:
		compat = true
	default:
		return vals, end, false, false
	}
	return rest[:len(rest)-1], bang.Position(), important, compat
}

// property passes a declaration to the handler.
func (p *parser) property(d *ast.Declaration) {
	p.loc.pos = d.Pos
	p.handler.Property(d.Name, d.Value, d.Important)
}
