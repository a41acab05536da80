package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/parser"
	"github.com/benbjohnson/go-css/value"
)

// recorder records handler events as strings.
type recorder struct {
	parser.EmptyHandler
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) IgnorableAtRule(raw string)              { r.add("ignorable %s", raw) }
func (r *recorder) NamespaceDeclaration(prefix, uri string) { r.add("namespace %s %s", prefix, uri) }
func (r *recorder) StartMedia(m ast.MediaQueryList)         { r.add("@media %s {", m) }
func (r *recorder) EndMedia(ast.MediaQueryList)             { r.add("}") }
func (r *recorder) StartSupports(c ast.Condition)           { r.add("@supports %s {", c) }
func (r *recorder) EndSupports(ast.Condition)               { r.add("}") }
func (r *recorder) StartPage(sel ast.PageSelectorList)      { r.add("@page %s {", sel) }
func (r *recorder) EndPage(ast.PageSelectorList)            { r.add("}") }
func (r *recorder) StartMargin(name string)                 { r.add("@%s {", name) }
func (r *recorder) EndMargin()                              { r.add("}") }
func (r *recorder) StartFontFace()                          { r.add("@font-face {") }
func (r *recorder) EndFontFace()                            { r.add("}") }
func (r *recorder) StartFontFeatures(families []string)     { r.add("@font-feature-values %q {", families) }
func (r *recorder) EndFontFeatures()                        { r.add("}") }
func (r *recorder) StartFeatureMap(name string)             { r.add("@%s {", name) }
func (r *recorder) EndFeatureMap()                          { r.add("}") }
func (r *recorder) StartCounterStyle(name string)           { r.add("@counter-style %s {", name) }
func (r *recorder) EndCounterStyle()                        { r.add("}") }
func (r *recorder) StartKeyframes(name string)              { r.add("@keyframes %s {", name) }
func (r *recorder) EndKeyframes()                           { r.add("}") }
func (r *recorder) StartKeyframe(sel *value.LexicalUnit)    { r.add("%s {", sel) }
func (r *recorder) EndKeyframe()                            { r.add("}") }
func (r *recorder) StartProperty(name string)               { r.add("@property %s {", name) }
func (r *recorder) EndProperty(discard bool)                { r.add("} discard=%t", discard) }
func (r *recorder) StartSelector(sel ast.SelectorList)      { r.add("%s {", sel) }
func (r *recorder) EndSelector(ast.SelectorList)            { r.add("}") }

func (r *recorder) ImportStyle(uri string, layer *string, cond ast.Condition, media ast.MediaQueryList, ns string) {
	s := "import " + uri
	if layer != nil {
		s += " layer(" + *layer + ")"
	}
	if cond != nil {
		s += " supports" + cond.String()
	}
	if len(media) > 0 {
		s += " " + media.String()
	}
	r.events = append(r.events, s)
}

func (r *recorder) Property(name string, val *value.LexicalUnit, important bool) {
	if important {
		r.add("%s: %s !important", name, val)
		return
	}
	r.add("%s: %s", name, val)
}

// newParser returns a parser recording into a new recorder and collector.
func newParser(opts ...parser.Option) (*parser.Parser, *recorder, *parser.ErrorCollector) {
	h, errs := &recorder{}, &parser.ErrorCollector{}
	opts = append([]parser.Option{parser.WithHandler(h), parser.WithErrorHandler(errs)}, opts...)
	return parser.New(opts...), h, errs
}

// messages returns the positioned messages of errs.
func messages(errs []*parser.Error) []string {
	var a []string
	for _, err := range errs {
		a = append(a, err.String())
	}
	return a
}

func TestParser_ParseStyleSheet(t *testing.T) {
	var tests = []struct {
		name     string
		s        string
		flags    parser.Flags
		events   []string
		errors   []string
		warnings []string
	}{
		{
			name:   "Rule",
			s:      `p { color: red; margin: 0 auto !important }`,
			events: []string{"p {", "color: red", "margin: 0 auto !important", "}"},
		},
		{
			name:   "InvalidSelector",
			s:      `p{color:red} 1{x:y} q{color:blue}`,
			events: []string{"p {", "color: red", "}", "q {", "color: blue", "}"},
			errors: []string{`1:14: expected selector, got '1'`},
		},
		{
			name:   "InvalidDeclaration",
			s:      `p{color:red;width:;height:1px}`,
			events: []string{"p {", "color: red", "height: 1px", "}"},
			errors: []string{"1:19: missing value"},
		},
		{
			name:   "MisplacedCharset",
			s:      `body {color: red}@charset "UTF-8";`,
			events: []string{"body {", "color: red", "}"},
			errors: []string{"1:18: @charset must be the first rule of the style sheet"},
		},
		{
			name:   "Charset",
			s:      `@charset "UTF-8"; p{}`,
			events: []string{"p {", "}"},
		},
		{
			name: "Nesting",
			s:    `.a { color: red; & .b { color: blue } > .c { margin: 0 } @media print { color: black } }`,
			events: []string{
				".a {", "color: red",
				"& .b {", "color: blue", "}",
				"> .c {", "margin: 0", "}",
				"@media print {", "color: black", "}",
				"}",
			},
		},
		{
			name:   "Import",
			s:      `@import url("a.css") layer(base) supports(display: grid) screen and (min-width: 400px);`,
			events: []string{"import a.css layer(base) supports(display: grid) screen and (min-width: 400px)"},
		},
		{
			name:   "ImportAfterRule",
			s:      `p{} @import "a.css";`,
			events: []string{"p {", "}"},
			errors: []string{"1:5: @import rule not allowed here"},
		},
		{
			name:   "Namespace",
			s:      `@namespace svg url(http://www.w3.org/2000/svg); svg|rect { fill: red }`,
			events: []string{"namespace svg http://www.w3.org/2000/svg", "svg|rect {", "fill: red", "}"},
		},
		{
			name:   "UndeclaredPrefix",
			s:      `foo|a { fill: red }`,
			errors: []string{`1:1: undeclared namespace prefix "foo"`},
		},
		{
			name:   "MediaRecovery",
			s:      `@media screen, and { p { color: red } }`,
			events: []string{"@media screen, not all {", "p {", "color: red", "}", "}"},
			errors: []string{"1:16: invalid media type and"},
		},
		{
			name:   "Supports",
			s:      `@supports (display: grid) and (not (display: inline-grid)) { div { float: none } }`,
			events: []string{"@supports (display: grid) and (not (display: inline-grid)) {", "div {", "float: none", "}", "}"},
		},
		{
			name: "Page",
			s:    `@page :first { margin: 1in; @top-left { content: "x" } }`,
			events: []string{
				"@page :first {", "margin: 1in",
				"@top-left {", `content: "x"`, "}",
				"}",
			},
		},
		{
			name: "Keyframes",
			s:    `@keyframes spin { from { opacity: 0 } 50%, to { opacity: 1 } }`,
			events: []string{
				"@keyframes spin {",
				"from {", "opacity: 0", "}",
				"50%, to {", "opacity: 1", "}",
				"}",
			},
		},
		{
			name: "Property",
			s:    `@property --x { syntax: "<length>"; inherits: false; initial-value: 0px }`,
			events: []string{
				"@property --x {", `syntax: "<length>"`, "inherits: false", "initial-value: 0px", "} discard=false",
			},
		},
		{
			name: "PropertyMismatch",
			s:    `@property --x { syntax: "<length>"; inherits: false; initial-value: red }`,
			events: []string{
				"@property --x {", `syntax: "<length>"`, "inherits: false", "initial-value: red", "} discard=true",
			},
			errors: []string{"1:69: initial value red does not match syntax <length>"},
		},
		{
			name: "FontFeatureValues",
			s:    `@font-feature-values Font One { @styleset { nice-style: 12 } }`,
			events: []string{
				`@font-feature-values ["Font One"] {`, "@styleset {", "nice-style: 12", "}", "}",
			},
		},
		{
			name:   "CounterStyle",
			s:      `@counter-style thumbs { system: cyclic; suffix: " " }`,
			events: []string{"@counter-style thumbs {", "system: cyclic", `suffix: " "`, "}"},
		},
		{
			name:   "PredefinedCounterStyle",
			s:      `@counter-style decimal { system: cyclic }`,
			errors: []string{"1:16: counter style name decimal cannot be defined"},
		},
		{
			name:     "UnknownAtRule",
			s:        `@foo bar;`,
			events:   []string{"ignorable @foo bar;"},
			warnings: []string{"1:1: unknown at-rule @foo"},
		},
		{
			name:     "StarHack",
			s:        `p { *zoom: 1 }`,
			flags:    parser.StarHack,
			events:   []string{"p {", "*zoom: 1", "}"},
			warnings: []string{"1:5: star hack in property name *zoom"},
		},
		{
			name:   "StarHackDisabled",
			s:      `p { *zoom: 1 }`,
			events: []string{"p {", "}"},
			errors: []string{"1:5: expected property name, got '*'"},
		},
		{
			name:   "IEHack",
			s:      `p { color: red\9; width: 1px !ie }`,
			flags:  parser.IEValues,
			events: []string{"p {", `color: red\9`, "width: 1px !ie", "}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, h, errs := newParser(parser.WithFlags(tt.flags))
			require.NoError(t, p.ParseStyleSheet(strings.NewReader(tt.s)))
			assert.Equal(t, tt.events, h.events)
			assert.Equal(t, tt.errors, messages(errs.Errors))
			assert.Equal(t, tt.warnings, messages(errs.Warnings))
		})
	}
}

func TestParser_ParseStyleSheet_MaxNesting(t *testing.T) {
	p, h, errs := newParser(parser.WithMaxNesting(3))
	require.NoError(t, p.ParseStyleSheet(strings.NewReader(`p{a:b(c(d(e)))} q{a:b}`)))
	assert.Equal(t, []string{"q {", "a: b", "}"}, h.events)
	require.Len(t, errs.Errors, 1)
	assert.Contains(t, errs.Errors[0].Message, "too deeply nested")
}

func TestParser_ParseRule(t *testing.T) {
	p, h, _ := newParser()
	require.NoError(t, p.ParseRule(strings.NewReader(` p { color: red } `)))
	assert.Equal(t, []string{"p {", "color: red", "}"}, h.events)

	err := p.ParseRule(strings.NewReader(``))
	require.Error(t, err)
	assert.Equal(t, "expected a rule", err.Error())

	err = p.ParseRule(strings.NewReader(`a{} b{}`))
	require.Error(t, err)
	assert.Equal(t, "1:5: unexpected rule after the first one", err.(*parser.Error).String())
}

func TestParser_ParseStyleDeclaration(t *testing.T) {
	p, h, errs := newParser()
	require.NoError(t, p.ParseStyleDeclaration(strings.NewReader(`color: red; margin: 0 !important; --x: ; width: 1foo`)))
	assert.Equal(t, []string{"color: red", "margin: 0 !important", "--x: "}, h.events)
	assert.Equal(t, []string{`1:49: unknown unit "foo"`}, messages(errs.Errors))
}

// declarationRecorder also implements the at-rule events.
type declarationRecorder struct {
	recorder
	skip bool
}

func (r *declarationRecorder) StartAtRule(name, selector string) bool {
	r.add("@%s %s {", name, selector)
	return !r.skip
}

func (r *declarationRecorder) EndAtRule() { r.add("}") }

func TestParser_ParseDeclarationRule(t *testing.T) {
	h := &declarationRecorder{}
	p := parser.New(parser.WithHandler(h))
	require.NoError(t, p.ParseDeclarationRule(strings.NewReader(`@top-left { content: "a" }`)))
	assert.Equal(t, []string{"@top-left  {", `content: "a"`, "}"}, h.events)

	h = &declarationRecorder{skip: true}
	p = parser.New(parser.WithHandler(h))
	require.NoError(t, p.ParseDeclarationRule(strings.NewReader(`@font-face { src: url(a.woff) }`)))
	assert.Equal(t, []string{"@font-face  {"}, h.events, "a skipped body has no end event")

	err := p.ParseDeclarationRule(strings.NewReader(`p {}`))
	require.Error(t, err)
	assert.Equal(t, "expected an at-rule, got 'p'", err.Error())
}

func TestErrorCollector_Err(t *testing.T) {
	var c parser.ErrorCollector
	assert.NoError(t, c.Err())

	p, _, errs := newParser()
	require.NoError(t, p.ParseStyleSheet(strings.NewReader(`p{a:;b:;}`)))
	require.Len(t, errs.Errors, 2)
	assert.EqualError(t, errs.Err(), "missing value; missing value")

	errs.Reset()
	assert.Empty(t, errs.Errors)
	assert.NoError(t, errs.Err())
}
