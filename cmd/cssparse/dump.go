package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/parser"
	"github.com/benbjohnson/go-css/value"
)

// dumper writes one line per document event, indented by nesting.
type dumper struct {
	parser.EmptyHandler

	w     io.Writer
	depth int
	err   error
}

func (d *dumper) Comment(text string, _ bool)          { d.line("comment %q", text) }
func (d *dumper) IgnorableAtRule(raw string)           { d.line("ignorable %s", raw) }
func (d *dumper) StartMedia(m ast.MediaQueryList)      { d.open("media %s", m) }
func (d *dumper) EndMedia(ast.MediaQueryList)          { d.close("media") }
func (d *dumper) StartSupports(c ast.Condition)        { d.open("supports %s", c) }
func (d *dumper) EndSupports(ast.Condition)            { d.close("supports") }
func (d *dumper) StartPage(sel ast.PageSelectorList)   { d.open("page %s", sel) }
func (d *dumper) EndPage(ast.PageSelectorList)         { d.close("page") }
func (d *dumper) StartMargin(name string)              { d.open("margin %s", name) }
func (d *dumper) EndMargin()                           { d.close("margin") }
func (d *dumper) StartFontFace()                       { d.open("font-face") }
func (d *dumper) EndFontFace()                         { d.close("font-face") }
func (d *dumper) StartFontFeatures(families []string)  { d.open("font-feature-values %q", families) }
func (d *dumper) EndFontFeatures()                     { d.close("font-feature-values") }
func (d *dumper) StartFeatureMap(name string)          { d.open("feature-map %s", name) }
func (d *dumper) EndFeatureMap()                       { d.close("feature-map") }
func (d *dumper) StartCounterStyle(name string)        { d.open("counter-style %s", name) }
func (d *dumper) EndCounterStyle()                     { d.close("counter-style") }
func (d *dumper) StartKeyframes(name string)           { d.open("keyframes %q", name) }
func (d *dumper) EndKeyframes()                        { d.close("keyframes") }
func (d *dumper) StartKeyframe(sel *value.LexicalUnit) { d.open("keyframe %s", sel) }
func (d *dumper) EndKeyframe()                         { d.close("keyframe") }
func (d *dumper) StartProperty(name string)            { d.open("property %s", name) }
func (d *dumper) EndProperty(discard bool)             { d.close(fmt.Sprintf("property discard=%t", discard)) }
func (d *dumper) StartSelector(sel ast.SelectorList)   { d.open("selector %s", sel) }
func (d *dumper) EndSelector(ast.SelectorList)         { d.close("selector") }

func (d *dumper) NamespaceDeclaration(prefix, uri string) {
	d.line("namespace %q %q", prefix, uri)
}

func (d *dumper) ImportStyle(uri string, layer *string, cond ast.Condition, media ast.MediaQueryList, _ string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "import %q", uri)
	if layer != nil {
		fmt.Fprintf(&sb, " layer=%q", *layer)
	}
	if cond != nil {
		fmt.Fprintf(&sb, " supports=%s", cond)
	}
	if len(media) > 0 {
		fmt.Fprintf(&sb, " media=%s", media)
	}
	d.line("%s", sb.String())
}

func (d *dumper) Property(name string, val *value.LexicalUnit, important bool) {
	if important {
		d.line("%s = %s [%s] !important", name, val, val.Type())
		return
	}
	d.line("%s = %s [%s]", name, val, val.Type())
}

func (d *dumper) open(format string, args ...any) {
	d.line("start "+format, args...)
	d.depth++
}

func (d *dumper) close(what string) {
	if d.depth > 0 {
		d.depth--
	}
	d.line("end %s", what)
}

func (d *dumper) line(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, strings.Repeat("  ", d.depth)+format+"\n", args...)
}

// logErrors reports parse errors and warnings to the program log and
// counts the errors.
type logErrors struct {
	log    *zap.Logger
	source string
	count  int
}

func (l *logErrors) Error(err *parser.Error) {
	l.count++
	l.log.Warn("Parse error", l.fields(err)...)
}

func (l *logErrors) Warning(err *parser.Error) {
	l.log.Info("Parse warning", l.fields(err)...)
}

func (l *logErrors) fields(err *parser.Error) []zap.Field {
	return []zap.Field{
		zap.String("source", l.source),
		zap.Stringer("pos", err.Pos),
		zap.Stringer("kind", err.Kind),
		zap.String("msg", err.Message),
	}
}
