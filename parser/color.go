package parser

import (
	"math"
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/unit"
	"github.com/benbjohnson/go-css/value"
)

// channel is the kind of a color component, which decides the accepted
// types and the clamping range.
type channel uint8

const (
	chRGB         channel = iota // 0-255 or a percentage
	chHue                        // number or angle, wraps
	chPercent                    // saturation, lightness, whiteness, blackness
	chLightness                  // lab and lch lightness
	chOKLightness                // oklab and oklch lightness
	chAxis                       // lab a and b, unbounded
	chChroma                     // lch chroma
	chOKChroma                   // oklch chroma
	chAlpha
	chFree // color() components
)

type colorModel struct {
	typ      value.Type
	legacy   bool
	channels [3]channel
}

var colorModels = map[string]*colorModel{
	"rgb":   {value.RGBColor, true, [3]channel{chRGB, chRGB, chRGB}},
	"rgba":  {value.RGBColor, true, [3]channel{chRGB, chRGB, chRGB}},
	"hsl":   {value.HSLColor, true, [3]channel{chHue, chPercent, chPercent}},
	"hsla":  {value.HSLColor, true, [3]channel{chHue, chPercent, chPercent}},
	"hwb":   {value.HWBColor, false, [3]channel{chHue, chPercent, chPercent}},
	"lab":   {value.LABColor, false, [3]channel{chLightness, chAxis, chAxis}},
	"oklab": {value.OKLABColor, false, [3]channel{chOKLightness, chAxis, chAxis}},
	"lch":   {value.LCHColor, false, [3]channel{chLightness, chChroma, chHue}},
	"oklch": {value.OKLCHColor, false, [3]channel{chOKLightness, chOKChroma, chHue}},
}

// Color spaces of color() and color-mix().
var (
	predefinedSpaces = map[string]bool{
		"srgb":         true,
		"srgb-linear":  true,
		"display-p3":   true,
		"a98-rgb":      true,
		"prophoto-rgb": true,
		"rec2020":      true,
		"xyz":          true,
		"xyz-d50":      true,
		"xyz-d65":      true,
	}
	polarSpaces = map[string]bool{
		"hsl":   true,
		"hwb":   true,
		"lch":   true,
		"oklch": true,
	}
	hueMethods = map[string]bool{
		"shorter":    true,
		"longer":     true,
		"increasing": true,
		"decreasing": true,
	}
)

// colorArgs holds the arguments of a color function in order. comps
// indexes the components, channels first, within items.
type colorArgs struct {
	items    []*value.LexicalUnit
	comps    []int
	commas   []token.Pos
	slash    int // index in comps of the component after "/", or -1
	subst    bool
	relative bool
}

func (a *colorArgs) append(u *value.LexicalUnit) {
	a.items = append(a.items, u)
}

func (a *colorArgs) comp(i int) *value.LexicalUnit {
	return a.items[a.comps[i]]
}

func (a *colorArgs) chain() *value.LexicalUnit {
	var ch value.Chain
	for _, u := range a.items {
		ch.Append(u)
	}
	return ch.Head()
}

// parseColor parses a color function.
func (p *parser) parseColor(fn *ast.Function) (*value.LexicalUnit, error) {
	name := strings.ToLower(fn.Name)
	switch name {
	case "color":
		return p.parseColorFunction(fn)
	case "color-mix":
		return p.parseColorMix(fn)
	}
	m := colorModels[name]

	c := funcCursor(fn)
	a := &colorArgs{slash: -1}
	if err := p.colorOrigin(c, a); err != nil {
		return nil, err
	}
	if err := p.colorComponents(c, a, name); err != nil {
		return nil, err
	}

	if !a.subst {
		if err := a.check(fn, name, m.legacy); err != nil {
			return nil, err
		}
		if !a.relative {
			for i, ch := range m.channels {
				if err := a.clamp(i, ch, name); err != nil {
					return nil, err
				}
			}
			if len(a.comps) == 4 {
				if err := a.clamp(3, chAlpha, name); err != nil {
					return nil, err
				}
			}
		}
		if len(a.commas) > 0 && m.typ == value.RGBColor {
			if err := a.checkLegacyRGB(name); err != nil {
				return nil, err
			}
		}
	}
	a.setContextIndex()
	return at(value.NewFunction(m.typ, fn.Name, a.chain()), fn.Pos), nil
}

// parseColorFunction parses color([from <color>] <colorspace> c1 c2 c3 [/ alpha]).
func (p *parser) parseColorFunction(fn *ast.Function) (*value.LexicalUnit, error) {
	c := funcCursor(fn)
	a := &colorArgs{slash: -1}
	if err := p.colorOrigin(c, a); err != nil {
		return nil, err
	}

	c.skipSpace()
	v := c.next()
	id, ok := identOf(v)
	switch {
	case !ok && v == nil:
		return nil, errorf(Grammar, c.end(), "missing color space in color()")
	case ok && predefinedSpaces[strings.ToLower(id.Value)]:
		a.append(at(value.NewIdent(strings.ToLower(id.Value)), id.Pos))
	case ok && strings.HasPrefix(id.Value, "--"):
		a.append(at(value.NewIdent(id.Value), id.Pos))
	case isFunctionNamed(v, "var"):
		u, err := p.parseSubstitution(v.(*ast.Function))
		if err != nil {
			return nil, err
		}
		a.append(u)
		a.subst = true
	default:
		return nil, errorf(Grammar, v.Position(), "invalid color space %s", describe(v))
	}

	if err := p.colorComponents(c, a, "color"); err != nil {
		return nil, err
	}
	if !a.subst {
		if err := a.check(fn, "color", false); err != nil {
			return nil, err
		}
		if len(a.comps) == 4 && !a.relative {
			if err := a.clamp(3, chAlpha, "color"); err != nil {
				return nil, err
			}
		}
	}
	a.setContextIndex()
	return at(value.NewFunction(value.ColorFunction, fn.Name, a.chain()), fn.Pos), nil
}

// parseColorMix parses color-mix(in <space> [<method> hue], <color> [<pct>],
// <color> [<pct>]).
func (p *parser) parseColorMix(fn *ast.Function) (*value.LexicalUnit, error) {
	parts := funcCursor(fn).split()
	if len(parts) != 3 {
		return nil, errorf(Grammar, fn.Pos, "wrong number of arguments to color-mix(): %d", len(parts))
	}

	var ch value.Chain
	interp := parts[0]
	interp.skipSpace()
	pos := interp.pos()
	v := interp.next()
	if !isIdent(v, "in") {
		return nil, errorf(Grammar, pos, "expected 'in' in color-mix(), got %s", describe(v))
	}
	ch.Append(at(value.NewIdent("in"), v.Position()))
	interp.skipSpace()
	pos = interp.pos()
	v = interp.next()
	space, ok := identOf(v)
	if !ok {
		return nil, errorf(Grammar, pos, "expected color space in color-mix(), got %s", describe(v))
	}
	sp := strings.ToLower(space.Value)
	if !predefinedSpaces[sp] && !polarSpaces[sp] && sp != "lab" && sp != "oklab" {
		return nil, errorf(Grammar, space.Pos, "invalid color space %s", describe(v))
	}
	ch.Append(at(value.NewIdent(sp), space.Pos))
	if !interp.done() {
		interp.skipSpace()
		v := interp.next()
		method, ok := identOf(v)
		if !ok || !hueMethods[strings.ToLower(method.Value)] || !polarSpaces[sp] {
			return nil, errorf(Grammar, v.Position(), "invalid hue interpolation method %s", describe(v))
		}
		interp.skipSpace()
		if hue := interp.next(); !isIdent(hue, "hue") {
			return nil, errorf(Grammar, interp.pos(), "expected 'hue', got %s", describe(hue))
		}
		if !interp.done() {
			interp.skipSpace()
			return nil, errorf(Grammar, interp.pos(), "unexpected %s in color-mix()", describe(interp.peek()))
		}
		ch.Append(at(value.NewIdent(strings.ToLower(method.Value)), method.Pos))
		ch.Append(value.NewIdent("hue"))
	}

	for i, part := range parts[1:] {
		ch.Append(at(value.NewOperator(value.OperatorComma), parts[i].end()))
		var color, pct *value.LexicalUnit
		for {
			part.skipSpace()
			v := part.next()
			if v == nil {
				break
			}
			u, err := p.parseTerm(v, part, false)
			if err != nil {
				return nil, err
			}
			switch {
			case u.Type() == value.Percentage && pct == nil:
				if f := u.FloatValue(); f < 0 || f > 100 {
					return nil, errorf(Grammar, u.Position(), "color-mix() percentage out of range [0,100]")
				}
				pct = u
			case (u.Type() == value.Calc || u.Type() == value.MathFunction) && pct == nil && color != nil:
				pct = u
			case isColorValue(u) && color == nil:
				color = u
			default:
				return nil, errorf(Grammar, u.Position(), "unexpected %s in color-mix()", u.CSSText())
			}
		}
		if color == nil {
			return nil, errorf(Grammar, part.end(), "missing color in color-mix()")
		}
		ch.Append(color)
		ch.Append(pct)
	}
	return at(value.NewFunction(value.ColorMix, fn.Name, ch.Head()), fn.Pos), nil
}

// colorOrigin parses "from <color>" at the start of a relative color.
func (p *parser) colorOrigin(c *cursor, a *colorArgs) error {
	c.skipSpace()
	if !isIdent(c.peek(), "from") {
		return nil
	}
	from := c.next()
	a.relative = true
	a.append(at(value.NewIdent("from"), from.Position()))

	c.skipSpace()
	v := c.next()
	if v == nil {
		return errorf(Grammar, c.end(), "missing origin color")
	}
	u, err := p.parseTerm(v, c, false)
	if err != nil {
		return err
	}
	if !isColorValue(u) {
		return errorf(Semantic, u.Position(), "invalid origin color %s", u.CSSText())
	}
	a.append(u)
	return nil
}

// colorComponents parses the remaining components, commas and slash.
func (p *parser) colorComponents(c *cursor, a *colorArgs, fname string) error {
	for {
		c.skipSpace()
		v := c.next()
		if v == nil {
			return nil
		}
		switch {
		case isComma(v):
			a.commas = append(a.commas, v.Position())
			a.append(at(value.NewOperator(value.OperatorComma), v.Position()))
			continue
		case isDelim(v, "/"):
			if a.slash >= 0 {
				return errorf(Grammar, v.Position(), "unexpected '/' in %s()", fname)
			}
			a.slash = len(a.comps)
			a.append(at(value.NewOperator(value.OperatorSlash), v.Position()))
			continue
		}

		u, err := p.colorComponent(v, fname, a.relative)
		if err != nil {
			return err
		}
		if u.Type().IsSubstitution() {
			a.subst = true
		}
		a.comps = append(a.comps, len(a.items))
		a.append(u)
	}
}

func (p *parser) colorComponent(v ast.ComponentValue, fname string, relative bool) (*value.LexicalUnit, error) {
	switch v := v.(type) {
	case *ast.Function:
		name := strings.ToLower(v.Name)
		switch {
		case isCalcName(name), isMathName(name):
			return p.mathValue(v, !relative)
		case name == "var", name == "env", name == "attr":
			return p.parseSubstitution(v)
		}
	case *ast.Token:
		switch tok := v.Token.(type) {
		case *token.Number:
			return numberUnit(tok), nil
		case *token.Percentage:
			return at(value.NewPercentage(tok.Number), tok.Pos), nil
		case *token.Dimension:
			if code, ok := unit.Lookup(tok.Unit); ok && code.IsAngle() {
				return at(value.NewDimension(tok.Number, tok.Unit), tok.Pos), nil
			}
		case *token.Ident:
			if relative || strings.EqualFold(tok.Value, "none") {
				return at(value.NewIdent(strings.ToLower(tok.Value)), tok.Pos), nil
			}
		}
	}
	return nil, errorf(Grammar, v.Position(), "unexpected %s in %s()", describe(v), fname)
}

// check verifies the component count and separators. Comma-separated
// arguments are only allowed in the legacy syntax, which has no "none"
// and no slash.
func (a *colorArgs) check(fn *ast.Function, fname string, legacy bool) error {
	n := len(a.comps)
	if n < 3 || n > 4 {
		return errorf(Grammar, fn.Pos, "wrong number of components in %s(): %d", fname, n)
	}

	if len(a.commas) > 0 {
		switch {
		case !legacy || a.relative:
			return errorf(Grammar, a.commas[0], "unexpected ',' in %s()", fname)
		case len(a.commas) != n-1 || a.slash >= 0:
			return errorf(Grammar, fn.Pos, "mixed separators in %s()", fname)
		}
		for i := range a.comps {
			if u := a.comp(i); u.Type() == value.Ident {
				return errorf(Grammar, u.Position(), "unexpected %s in legacy %s()", u.CSSText(), fname)
			}
		}
		for i, pos := range a.commas {
			if a.items[a.comps[i]+1].Position() != pos {
				return errorf(Grammar, pos, "unexpected ',' in %s()", fname)
			}
		}
		return nil
	}

	switch {
	case n == 4 && a.slash != 3:
		return errorf(Grammar, a.comp(3).Position(), "expected '/' before alpha in %s()", fname)
	case n == 3 && a.slash >= 0:
		return errorf(Grammar, fn.EndPosition(), "missing alpha in %s()", fname)
	}
	return nil
}

// checkLegacyRGB requires the channels of a legacy rgb() to be all
// numbers or all percentages.
func (a *colorArgs) checkLegacyRGB(fname string) error {
	pct := a.comp(0).Type() == value.Percentage
	for i := 1; i < 3; i++ {
		u := a.comp(i)
		switch u.Type() {
		case value.Calc, value.MathFunction:
			continue
		}
		if (u.Type() == value.Percentage) != pct {
			return errorf(Grammar, u.Position(), "mixed numbers and percentages in %s()", fname)
		}
	}
	return nil
}

// clamp validates component i and brings it into the range of its
// channel.
func (a *colorArgs) clamp(i int, ch channel, fname string) error {
	u := a.comp(i)
	switch u.Type() {
	case value.Calc, value.MathFunction, value.Var, value.Attr, value.Env:
		return nil
	case value.Ident:
		if u.StringValue() == "none" {
			return nil
		}
	}

	number := u.Type() == value.Integer || u.Type() == value.Real
	pct := u.Type() == value.Percentage
	angle := u.Type() == value.Dimension && u.Unit().IsAngle()

	var nu *value.LexicalUnit
	switch {
	case ch == chHue && pct:
		return errorf(Grammar, u.Position(), "hue cannot be a percentage in %s()", fname)
	case ch == chHue && (number || angle):
		nu = wrapHue(u)
	case angle:
		return errorf(Grammar, u.Position(), "unexpected angle in %s()", fname)
	case ch == chRGB && number:
		nu = clampUnit(u, 0, 255)
	case ch == chAlpha && number, ch == chOKLightness && number:
		nu = clampUnit(u, 0, 1)
	case ch == chOKChroma:
		nu = clampUnit(u, 0, math.Inf(1))
	case ch == chAxis, ch == chFree:
		nu = u
	default:
		nu = clampUnit(u, 0, 100)
	}
	a.items[a.comps[i]] = nu
	return nil
}

func (a *colorArgs) setContextIndex() {
	for i := range a.comps {
		idx := i
		if i == a.slash || i > 3 {
			idx = 3
		}
		a.comp(i).SetContextIndex(idx)
	}
}

// clampUnit returns u, or a unit of the same type holding the value
// clamped to [lo,hi].
func clampUnit(u *value.LexicalUnit, lo, hi float64) *value.LexicalUnit {
	f := u.FloatValue()
	if f >= lo && f <= hi {
		return u
	}
	return withValue(u, math.Max(lo, math.Min(hi, f)))
}

// wrapHue brings a hue in degrees into [0,360). Other angle units are
// left alone.
func wrapHue(u *value.LexicalUnit) *value.LexicalUnit {
	if u.Type() == value.Dimension && u.Unit() != unit.DEG {
		return u
	}
	f := math.Mod(u.FloatValue(), 360)
	if f < 0 {
		f += 360
	}
	if f == u.FloatValue() {
		return u
	}
	return withValue(u, f)
}

func withValue(u *value.LexicalUnit, f float64) *value.LexicalUnit {
	var nu *value.LexicalUnit
	switch u.Type() {
	case value.Integer:
		nu = value.NewInteger(int(f))
	case value.Real:
		nu = value.NewReal(f)
	case value.Percentage:
		nu = value.NewPercentage(f)
	default:
		nu = value.NewDimension(f, u.DimensionUnitText())
	}
	return at(nu, u.Position())
}

// isColorValue returns true if u may stand for a color.
func isColorValue(u *value.LexicalUnit) bool {
	switch t := u.Type(); {
	case t.IsColor(), t.IsSubstitution():
		return true
	case t == value.Ident:
		return value.IsColorKeyword(u.StringValue())
	}
	return false
}

func isFunctionNamed(v ast.ComponentValue, name string) bool {
	f, ok := v.(*ast.Function)
	return ok && strings.EqualFold(f.Name, name)
}
