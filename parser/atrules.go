package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

var marginBoxes = map[string]bool{
	"top-left-corner":     true,
	"top-left":            true,
	"top-center":          true,
	"top-right":           true,
	"top-right-corner":    true,
	"bottom-left-corner":  true,
	"bottom-left":         true,
	"bottom-center":       true,
	"bottom-right":        true,
	"bottom-right-corner": true,
	"left-top":            true,
	"left-middle":         true,
	"left-bottom":         true,
	"right-top":           true,
	"right-middle":        true,
	"right-bottom":        true,
}

var featureMaps = map[string]bool{
	"swash":             true,
	"annotation":        true,
	"ornaments":         true,
	"stylistic":         true,
	"styleset":          true,
	"character-variant": true,
	"historical-forms":  true,
}

// Counter style names that cannot be redefined.
var predefinedCounterStyles = map[string]bool{
	"decimal":           true,
	"disc":              true,
	"square":            true,
	"circle":            true,
	"disclosure-open":   true,
	"disclosure-closed": true,
}

// isKnownAtRule returns true for the at-rules the parser understands in
// some context.
func isKnownAtRule(name string) bool {
	switch name {
	case "charset", "import", "namespace", "media", "supports", "page", "font-face",
		"font-feature-values", "counter-style", "property":
		return true
	}
	return isKeyframes(name) || marginBoxes[name] || featureMaps[name]
}

func isKeyframes(name string) bool {
	return name == "keyframes" || (strings.HasPrefix(name, "-") && strings.HasSuffix(name, "-keyframes"))
}

// atRule handles an at-rule of a rule list.
func (p *parser) atRule(r *ast.AtRule, ctx ruleContext) {
	name := strings.ToLower(r.Name)
	switch name {
	case "charset":
		if ctx != ctxTop || p.rules != 1 || r.Pos != (token.Pos{Line: 1, Column: 1}) {
			p.report(errorf(Grammar, r.Pos, "@charset must be the first rule of the style sheet"))
			return
		}
		if c := preludeCursor(r); r.Block != nil || !isSingleString(c) {
			p.report(errorf(Grammar, r.Pos, "invalid @charset rule"))
		}
		return
	case "import":
		if ctx != ctxTop || p.stage > stageImport {
			p.report(errorf(Grammar, r.Pos, "@import rule not allowed here"))
			return
		}
		if p.importRule(r) {
			p.stage = stageImport
		}
		return
	case "namespace":
		if ctx != ctxTop || p.stage > stageNamespace {
			p.report(errorf(Grammar, r.Pos, "@namespace rule not allowed here"))
			return
		}
		if p.namespaceRule(r) {
			p.stage = stageNamespace
		}
		return
	}

	if ctx == ctxTop {
		p.stage = stageRules
	}
	if isKnownAtRule(name) && r.Block == nil {
		p.report(errorf(Structural, r.Pos, "missing block in @%s", r.Name))
		return
	}

	switch {
	case name == "media":
		p.mediaRule(r, false)
	case name == "supports":
		p.supportsRule(r, false)
	case name == "page":
		p.pageRule(r)
	case name == "font-face":
		p.fontFaceRule(r)
	case name == "font-feature-values":
		p.fontFeatureValuesRule(r)
	case name == "counter-style":
		p.counterStyleRule(r)
	case name == "property":
		p.propertyRule(r)
	case isKeyframes(name):
		p.keyframesRule(r)
	case isKnownAtRule(name):
		p.report(errorf(Grammar, r.Pos, "@%s rule not allowed here", r.Name))
	default:
		p.ignorable(r)
	}
}

// nestedAtRule handles an at-rule found in a declaration list.
func (p *parser) nestedAtRule(r *ast.AtRule, kind blockKind) {
	name := strings.ToLower(r.Name)
	if !isKnownAtRule(name) {
		p.ignorable(r)
		return
	}
	if r.Block == nil {
		p.report(errorf(Structural, r.Pos, "missing block in @%s", r.Name))
		return
	}

	switch {
	case kind == blockStyle && name == "media":
		p.mediaRule(r, true)
	case kind == blockStyle && name == "supports":
		p.supportsRule(r, true)
	case kind == blockPage && marginBoxes[name]:
		p.marginRule(r, name)
	case kind == blockFeatureValues && featureMaps[name]:
		p.featureMapRule(r, name)
	default:
		p.report(errorf(Grammar, r.Pos, "@%s rule not allowed here", r.Name))
	}
}

func (p *parser) ignorable(r *ast.AtRule) {
	p.warn(errorf(Grammar, r.Pos, "unknown at-rule @%s", r.Name))
	p.loc.pos = r.Pos
	p.handler.IgnorableAtRule(r.String())
}

// preludeCursor returns a cursor over the prelude of r. Errors past the
// prelude are reported at the block, or at the rule itself.
func preludeCursor(r *ast.AtRule) *cursor {
	end := r.Pos
	switch {
	case r.Block != nil:
		end = r.Block.Position()
	case len(r.Prelude) > 0:
		end = r.Prelude[len(r.Prelude)-1].Position()
	}
	return newCursor(r.Prelude, end)
}

func isSingleString(c *cursor) bool {
	c.skipSpace()
	_, ok := tokenOf(c.next()).(*token.String)
	return ok && c.done()
}

// uriOf returns the URI given by a string, a url token or url("...").
func uriOf(v ast.ComponentValue) (string, bool) {
	switch v := v.(type) {
	case *ast.Function:
		if !strings.EqualFold(v.Name, "url") {
			return "", false
		}
		vals := ast.ComponentValues(v.Values).TrimSpace()
		if len(vals) != 1 {
			return "", false
		}
		s, ok := tokenOf(vals[0]).(*token.String)
		if !ok {
			return "", false
		}
		return s.Value, true
	case *ast.Token:
		switch tok := v.Token.(type) {
		case *token.String:
			return tok.Value, true
		case *token.URL:
			return tok.Value, true
		}
	}
	return "", false
}

// importRule parses '@import <uri> [layer|layer(<name>)] [supports(...)]
// [<media-query-list>]'.
func (p *parser) importRule(r *ast.AtRule) bool {
	if r.Block != nil {
		p.report(errorf(Grammar, r.Block.Position(), "unexpected block in @import"))
		return false
	}
	c := preludeCursor(r)
	c.skipSpace()
	v := c.next()
	uri, ok := uriOf(v)
	if !ok {
		p.report(errorf(Grammar, c.end(), "expected URI in @import, got %s", describe(v)))
		return false
	}

	var layer *string
	c.skipSpace()
	switch v := c.peek(); {
	case isIdent(v, "layer"):
		c.next()
		layer = new(string)
	case isFunctionNamed(v, "layer"):
		c.next()
		f := v.(*ast.Function)
		name := trimmedText(f.Values)
		if !isLayerName(f.Values) {
			p.report(errorf(Grammar, f.Pos, "invalid layer name %q", name))
			return false
		}
		layer = &name
	}

	var cond ast.Condition
	c.skipSpace()
	if v := c.peek(); isFunctionNamed(v, "supports") {
		c.next()
		f := v.(*ast.Function)
		var err error
		if cond, err = p.supportsContent(funcCursor(f), f.String()); err != nil {
			p.reportErr(err, f.Pos)
			return false
		}
		if paren, ok := cond.(*ast.Parens); ok {
			cond = paren.Condition
		}
	}

	media, err := p.parseMediaQueryList(newCursor(c.rest(), c.end()), true)
	if err != nil {
		p.reportErr(err, r.Pos)
		return false
	}
	p.loc.pos = r.Pos
	p.handler.ImportStyle(uri, layer, cond, media, p.namespaces[""])
	return true
}

// isLayerName returns true for dot separated identifiers.
func isLayerName(vals ast.ComponentValues) bool {
	vals = vals.TrimSpace()
	if len(vals) == 0 {
		return false
	}
	for i, v := range vals {
		if i%2 == 1 {
			if !isDelim(v, ".") {
				return false
			}
		} else if _, ok := identOf(v); !ok {
			return false
		}
	}
	return len(vals)%2 == 1
}

// namespaceRule parses '@namespace [prefix] <uri>'.
func (p *parser) namespaceRule(r *ast.AtRule) bool {
	if r.Block != nil {
		p.report(errorf(Grammar, r.Block.Position(), "unexpected block in @namespace"))
		return false
	}
	c := preludeCursor(r)
	c.skipSpace()
	var prefix string
	if id, ok := identOf(c.peek()); ok {
		prefix = id.Value
		c.next()
		c.skipSpace()
	}
	v := c.next()
	uri, ok := uriOf(v)
	if !ok || !c.done() {
		p.report(errorf(Grammar, r.Pos, "invalid @namespace rule"))
		return false
	}
	p.namespaces[prefix] = uri
	p.loc.pos = r.Pos
	p.handler.NamespaceDeclaration(prefix, uri)
	return true
}

// mediaRule handles @media. In a style rule the body is a declaration
// list; otherwise it is a rule list.
func (p *parser) mediaRule(r *ast.AtRule, nested bool) {
	list, err := p.parseMediaQueryList(preludeCursor(r), true)
	if err != nil {
		p.reportErr(err, r.Pos)
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartMedia(list)
	p.groupBody(r.Block, nested)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndMedia(list)
}

// supportsRule handles @supports. An invalid condition discards the rule.
func (p *parser) supportsRule(r *ast.AtRule, nested bool) {
	cond, err := p.parseSupportsCondition(preludeCursor(r))
	if err != nil {
		p.reportErr(err, r.Pos)
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartSupports(cond)
	p.groupBody(r.Block, nested)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndSupports(cond)
}

func (p *parser) groupBody(b *ast.SimpleBlock, nested bool) {
	if nested {
		p.consumeDeclarations(blockCursor(b), blockStyle, p.property)
		return
	}
	p.consumeRuleList(blockCursor(b), ctxGroup)
}

func (p *parser) pageRule(r *ast.AtRule) {
	var list ast.PageSelectorList
	if c := preludeCursor(r); !c.done() {
		var err error
		if list, err = p.parsePageSelectorList(c); err != nil {
			p.reportErr(err, r.Pos)
			return
		}
	}
	p.loc.pos = r.Pos
	p.handler.StartPage(list)
	p.consumeDeclarations(blockCursor(r.Block), blockPage, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndPage(list)
}

func (p *parser) marginRule(r *ast.AtRule, name string) {
	if c := preludeCursor(r); !c.done() {
		c.skipSpace()
		p.report(errorf(Grammar, c.pos(), "unexpected %s in @%s", describe(c.peek()), r.Name))
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartMargin(name)
	p.consumeDeclarations(blockCursor(r.Block), blockDeclarations, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndMargin()
}

func (p *parser) fontFaceRule(r *ast.AtRule) {
	if c := preludeCursor(r); !c.done() {
		c.skipSpace()
		p.report(errorf(Grammar, c.pos(), "unexpected %s in @font-face", describe(c.peek())))
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartFontFace()
	p.consumeDeclarations(blockCursor(r.Block), blockDeclarations, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndFontFace()
}

// fontFeatureValuesRule handles @font-feature-values with its list of
// family names and its feature value blocks.
func (p *parser) fontFeatureValuesRule(r *ast.AtRule) {
	var families []string
	for _, part := range preludeCursor(r).split() {
		name, err := familyName(part)
		if err != nil {
			p.reportErr(err, r.Pos)
			return
		}
		families = append(families, name)
	}
	p.loc.pos = r.Pos
	p.handler.StartFontFeatures(families)
	p.consumeDeclarations(blockCursor(r.Block), blockFeatureValues, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndFontFeatures()
}

// familyName returns a font family given as a string or as a sequence of
// identifiers.
func familyName(c *cursor) (string, error) {
	c.skipSpace()
	if s, ok := tokenOf(c.peek()).(*token.String); ok {
		c.next()
		if c.skipSpace(); !c.done() {
			return "", errorf(Grammar, c.pos(), "unexpected %s after family name", describe(c.peek()))
		}
		return s.Value, nil
	}

	var words []string
	for {
		c.skipSpace()
		v := c.next()
		if v == nil {
			break
		}
		id, ok := identOf(v)
		if !ok {
			return "", errorf(Grammar, v.Position(), "unexpected %s in family name", describe(v))
		}
		words = append(words, id.Value)
	}
	if len(words) == 0 {
		return "", errorf(Grammar, c.end(), "missing family name")
	}
	return strings.Join(words, " "), nil
}

func (p *parser) featureMapRule(r *ast.AtRule, name string) {
	if c := preludeCursor(r); !c.done() {
		c.skipSpace()
		p.report(errorf(Grammar, c.pos(), "unexpected %s in @%s", describe(c.peek()), r.Name))
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartFeatureMap(name)
	p.consumeDeclarations(blockCursor(r.Block), blockDeclarations, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndFeatureMap()
}

func (p *parser) counterStyleRule(r *ast.AtRule) {
	c := preludeCursor(r)
	c.skipSpace()
	v := c.next()
	id, ok := identOf(v)
	switch {
	case !ok || !c.done():
		p.report(errorf(Grammar, r.Pos, "invalid @counter-style name"))
		return
	case strings.EqualFold(id.Value, "none"), isWideKeywordName(id.Value), predefinedCounterStyles[strings.ToLower(id.Value)]:
		p.report(errorf(Grammar, id.Pos, "counter style name %s cannot be defined", id.Value))
		return
	}
	p.loc.pos = r.Pos
	p.handler.StartCounterStyle(id.Value)
	p.consumeDeclarations(blockCursor(r.Block), blockDeclarations, p.property)
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndCounterStyle()
}

// keyframesRule handles @keyframes and its prefixed variants.
func (p *parser) keyframesRule(r *ast.AtRule) {
	c := preludeCursor(r)
	c.skipSpace()
	v := c.next()
	var name string
	switch tok := tokenOf(v).(type) {
	case *token.Ident:
		if strings.EqualFold(tok.Value, "none") || isWideKeywordName(tok.Value) {
			p.report(errorf(Grammar, tok.Pos, "invalid keyframes name %s", tok.Value))
			return
		}
		name = tok.Value
	case *token.String:
		name = tok.Value
	}
	if name == "" || !c.done() {
		p.report(errorf(Grammar, r.Pos, "invalid @%s name", r.Name))
		return
	}

	p.loc.pos = r.Pos
	p.handler.StartKeyframes(name)
	src := blockCursor(r.Block)
	for {
		v := src.next()
		if v == nil {
			break
		}
		switch tok := tokenOf(v).(type) {
		case *token.Whitespace, *token.Semicolon:
			continue
		case *token.Comment:
			p.comment(tok)
			continue
		case *token.AtKeyword:
			ar := p.collectAtRule(tok, src)
			p.takeNestErr()
			p.report(errorf(Grammar, ar.Pos, "@%s rule not allowed in @%s", ar.Name, r.Name))
			continue
		}

		qr := p.collectQualifiedRule(v, src)
		if qr == nil {
			continue
		}
		if err := p.takeNestErr(); err != nil {
			p.report(err)
			continue
		}
		sel, err := p.parseKeyframeSelector(newCursor(qr.Prelude, qr.Block.Position()))
		if err != nil {
			p.reportErr(err, qr.Pos)
			continue
		}
		p.loc.pos = qr.Pos
		p.handler.StartKeyframe(sel)
		p.consumeDeclarations(blockCursor(qr.Block), blockDeclarations, p.property)
		p.loc.pos = qr.Block.EndPosition()
		p.handler.EndKeyframe()
	}
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndKeyframes()
}

// parseKeyframeSelector parses a comma separated list of "from", "to"
// and percentages between 0% and 100%.
func (p *parser) parseKeyframeSelector(c *cursor) (*value.LexicalUnit, error) {
	var ch value.Chain
	for i, part := range c.split() {
		if i > 0 {
			ch.Append(value.NewOperator(value.OperatorComma))
		}
		v, err := p.onlyValue(part, "keyframe selector")
		if err != nil {
			return nil, err
		}
		switch tok := tokenOf(v).(type) {
		case *token.Ident:
			if lower := strings.ToLower(tok.Value); lower == "from" || lower == "to" {
				ch.Append(at(value.NewIdent(lower), tok.Pos))
				continue
			}
		case *token.Percentage:
			if tok.Number >= 0 && tok.Number <= 100 {
				ch.Append(at(value.NewPercentage(tok.Number), tok.Pos))
				continue
			}
		}
		return nil, errorf(Grammar, v.Position(), "invalid keyframe selector %s", describe(v))
	}
	return ch.Head(), nil
}

// propertyRule handles @property. The rule is discarded when a required
// descriptor is missing or invalid, or when a descriptor is repeated.
func (p *parser) propertyRule(r *ast.AtRule) {
	c := preludeCursor(r)
	c.skipSpace()
	v := c.next()
	id, ok := identOf(v)
	if !ok || !strings.HasPrefix(id.Value, "--") || !c.done() {
		p.report(errorf(Grammar, r.Pos, "@property requires a custom property name"))
		return
	}

	p.loc.pos = r.Pos
	p.handler.StartProperty(id.Value)

	discard := false
	descs := make(map[string]*ast.Declaration)
	p.consumeDeclarations(blockCursor(r.Block), blockDeclarations, func(d *ast.Declaration) {
		if _, ok := descs[d.Name]; ok {
			p.report(errorf(Grammar, d.Pos, "duplicate descriptor %s", d.Name))
			discard = true
		}
		descs[d.Name] = d
		p.property(d)
	})

	if err := checkPropertyDescriptors(descs, r.Block.EndPosition()); err != nil {
		p.report(err)
		discard = true
	}
	p.loc.pos = r.Block.EndPosition()
	p.handler.EndProperty(discard)
}

func checkPropertyDescriptors(descs map[string]*ast.Declaration, end token.Pos) *Error {
	d := descs["syntax"]
	if d == nil {
		return errorf(Grammar, end, "missing syntax descriptor in @property")
	}
	if d.Value.Type() != value.String || d.Value.Next() != nil {
		return errorf(Grammar, d.Pos, "syntax descriptor must be a string")
	}
	syn, err := value.ParseSyntax(d.Value.StringValue())
	if err != nil {
		return errorf(Grammar, d.Value.Position(), "%s", err)
	}

	d = descs["inherits"]
	switch {
	case d == nil:
		return errorf(Grammar, end, "missing inherits descriptor in @property")
	case d.Value.Type() != value.Ident || d.Value.Next() != nil:
		return errorf(Grammar, d.Pos, "inherits descriptor must be true or false")
	}
	switch strings.ToLower(d.Value.StringValue()) {
	case "true", "false":
	default:
		return errorf(Grammar, d.Value.Position(), "inherits descriptor must be true or false")
	}

	d = descs["initial-value"]
	switch {
	case d == nil && !syn.Universal:
		return errorf(Grammar, end, "missing initial-value descriptor in @property")
	case d == nil:
		return nil
	}
	if syn.Universal {
		return nil
	}
	if m := d.Value.Match(syn); m != value.MatchTrue {
		return errorf(Grammar, d.Value.Position(), "initial value %s does not match syntax %s", d.Value, syn)
	}
	return nil
}
