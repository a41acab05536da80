package css

import (
	"io"
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/parser"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

// Printer is a document handler that writes the events it receives back
// as CSS text, one rule or declaration per line.
type Printer struct {
	parser.EmptyHandler

	// Indent is repeated once per nesting level at the start of each line.
	Indent string

	w     io.Writer
	depth int
	err   error
}

// NewPrinter returns a Printer writing to w with a two space indent.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, Indent: "  "}
}

// Err returns the first error returned by the underlying writer.
func (p *Printer) Err() error { return p.err }

func (p *Printer) Comment(text string, _ bool)          { p.line("/*" + text + "*/") }
func (p *Printer) IgnorableAtRule(raw string)           { p.line(raw) }
func (p *Printer) StartMedia(m ast.MediaQueryList)      { p.open("@media " + m.String()) }
func (p *Printer) EndMedia(ast.MediaQueryList)          { p.close() }
func (p *Printer) StartSupports(c ast.Condition)        { p.open("@supports " + c.String()) }
func (p *Printer) EndSupports(ast.Condition)            { p.close() }
func (p *Printer) EndPage(ast.PageSelectorList)         { p.close() }
func (p *Printer) StartMargin(name string)              { p.open("@" + name) }
func (p *Printer) EndMargin()                           { p.close() }
func (p *Printer) StartFontFace()                       { p.open("@font-face") }
func (p *Printer) EndFontFace()                         { p.close() }
func (p *Printer) EndFontFeatures()                     { p.close() }
func (p *Printer) StartFeatureMap(name string)          { p.open("@" + name) }
func (p *Printer) EndFeatureMap()                       { p.close() }
func (p *Printer) StartCounterStyle(name string)        { p.open("@counter-style " + token.EscapeIdent(name)) }
func (p *Printer) EndCounterStyle()                     { p.close() }
func (p *Printer) StartKeyframes(name string)           { p.open("@keyframes " + nameOrString(name)) }
func (p *Printer) EndKeyframes()                        { p.close() }
func (p *Printer) StartKeyframe(sel *value.LexicalUnit) { p.open(sel.String()) }
func (p *Printer) EndKeyframe()                         { p.close() }
func (p *Printer) StartProperty(name string)            { p.open("@property " + name) }
func (p *Printer) EndProperty(bool)                     { p.close() }
func (p *Printer) StartSelector(sel ast.SelectorList)   { p.open(sel.String()) }
func (p *Printer) EndSelector(ast.SelectorList)         { p.close() }

func (p *Printer) NamespaceDeclaration(prefix, uri string) {
	s := "@namespace "
	if prefix != "" {
		s += token.EscapeIdent(prefix) + " "
	}
	p.line(s + value.NewURI(uri).CSSText() + ";")
}

func (p *Printer) ImportStyle(uri string, layer *string, cond ast.Condition, media ast.MediaQueryList, _ string) {
	var sb strings.Builder
	sb.WriteString("@import ")
	sb.WriteString(value.NewURI(uri).CSSText())
	if layer != nil {
		sb.WriteString(" layer")
		if *layer != "" {
			sb.WriteString("(" + *layer + ")")
		}
	}
	if cond != nil {
		sb.WriteString(" supports")
		if _, ok := cond.(*ast.DeclarationCondition); ok {
			sb.WriteString(cond.String())
		} else {
			sb.WriteString("(" + cond.String() + ")")
		}
	}
	if len(media) > 0 {
		sb.WriteString(" " + media.String())
	}
	sb.WriteByte(';')
	p.line(sb.String())
}

func (p *Printer) StartPage(sel ast.PageSelectorList) {
	if len(sel) == 0 {
		p.open("@page")
		return
	}
	p.open("@page " + sel.String())
}

func (p *Printer) StartFontFeatures(families []string) {
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = familyName(f)
	}
	p.open("@font-feature-values " + strings.Join(names, ", "))
}

func (p *Printer) Property(name string, val *value.LexicalUnit, important bool) {
	s := name + ": " + val.String()
	if important {
		s += " !important"
	}
	p.line(s + ";")
}

func (p *Printer) open(s string) {
	p.line(s + " {")
	p.depth++
}

func (p *Printer) close() {
	if p.depth > 0 {
		p.depth--
	}
	p.line("}")
}

// line writes s on its own indented line. Nothing is written after the
// first error.
func (p *Printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, strings.Repeat(p.Indent, p.depth)+s+"\n")
}

// nameOrString writes s as an identifier if it is one and as a string
// otherwise.
func nameOrString(s string) string {
	if s != "" && token.EscapeIdent(s) == s {
		return s
	}
	return token.QuoteString(s, '"')
}

// familyName writes a family name as a sequence of identifiers when that
// reads back to the same name.
func familyName(s string) string {
	for _, word := range strings.Split(s, " ") {
		if word == "" || token.EscapeIdent(word) != word {
			return token.QuoteString(s, '"')
		}
	}
	return s
}
