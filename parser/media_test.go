package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/parser"
)

func TestParser_ParseMediaQueryList(t *testing.T) {
	var tests = []struct {
		s   string
		out string
		err string
	}{
		{s: `screen`, out: `screen`},
		{s: `SCREEN, print`, out: `screen, print`},
		{s: `only screen and (color)`, out: `only screen and (color)`},
		{s: `not print`, out: `not print`},
		{s: `not (color)`, out: `not (color)`},
		{s: `(min-width: 600px) and (max-width: 900px)`, out: `(min-width: 600px) and (max-width: 900px)`},
		{s: `(hover) or (pointer: fine)`, out: `(hover) or (pointer: fine)`},
		{s: `((hover) or (pointer: fine)) and (color)`, out: `((hover) or (pointer: fine)) and (color)`},
		{s: `(400px <= width < 700px)`, out: `(400px <= width < 700px)`},
		{s: `(width >= 600px)`, out: `(width >= 600px)`},
		{s: `(600px < width)`, out: `(600px < width)`},
		{s: `(aspect-ratio: 16/9)`, out: `(aspect-ratio: 16/9)`},
		{s: `(-webkit-min-device-pixel-ratio: 2)`, out: `(-webkit-min-device-pixel-ratio: 2)`},
		{s: `(foo-bar)`, out: `(foo-bar)`},

		{s: `only`, err: `1:5: expected media type after 'only', got end of input`},
		{s: `and`, err: `1:1: invalid media type and`},
		{s: `screen (color)`, err: `1:8: expected 'and' after media type, got '(color)'`},
		{s: `screen and (color) or (hover)`, err: `1:20: unexpected 'or'`},
		{s: `(color) and (hover) or (grid)`, err: `1:21: mixed 'and' and 'or' without parentheses`},
		{s: `(400px < width > 700px)`, err: `1:16: invalid range: operators must point the same way`},
		{s: `(orientation < 5)`, err: `1:2: orientation is not a range feature`},
		{s: `(width <)`, err: `1:9: missing value in media range`},
		{s: `()`, err: `1:2: empty media condition`},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			list, err := parser.New().ParseMediaQueryList(strings.NewReader(tt.s))
			if tt.err != "" {
				require.Error(t, err)
				assert.Equal(t, tt.err, err.(*parser.Error).String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, list.String())
		})
	}
}

func TestParser_ParseMediaQueryList_Range(t *testing.T) {
	list, err := parser.New().ParseMediaQueryList(strings.NewReader(`(400px <= width < 700px)`))
	require.NoError(t, err)
	require.Len(t, list, 1)

	f, ok := list[0].Condition.(*ast.MediaFeature)
	require.True(t, ok)
	assert.True(t, f.IsRange())
	assert.Equal(t, "width", f.Name)
	assert.Equal(t, ast.OpLE, f.LeftOp)
	assert.Equal(t, ast.OpLT, f.RightOp)
	assert.Equal(t, 400.0, f.Left.FloatValue())
	assert.Equal(t, 700.0, f.Right.FloatValue())
}

func TestParser_ParseMediaQueryList_Empty(t *testing.T) {
	list, err := parser.New().ParseMediaQueryList(strings.NewReader(`  `))
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "", list.String())
}

func TestParser_ParseSupportsCondition(t *testing.T) {
	var tests = []struct {
		s   string
		out string
		err string
	}{
		{s: `(display: flex)`, out: `(display: flex)`},
		{s: `(display:flex !important)`, out: `(display: flex !important)`},
		{s: `not (display: flex)`, out: `not (display: flex)`},
		{s: `(a: b) or (c: d)`, out: `(a: b) or (c: d)`},
		{s: `(a: b) and ((c: d) or (e: f))`, out: `(a: b) and ((c: d) or (e: f))`},
		{s: `(--x: )`, out: `(--x: )`},
		{s: `selector(a > b)`, out: `selector(a > b)`},
		{s: `font-tech(color-COLRv1)`, out: `font-tech(color-colrv1)`},
		{s: `font-format("woff2")`, out: `font-format(woff2)`},
		{s: `(foo)`, out: `(foo)`},
		{s: `foo(bar)`, out: `foo(bar)`},

		{s: ``, err: `1:1: missing condition`},
		{s: `(display:)`, err: `1:10: missing value`},
		{s: `not()`, err: `1:5: empty condition`},
		{s: `foo`, err: `1:1: expected '(', got 'foo'`},
		{s: `(a: b) and (c: d) or (e: f)`, err: `1:19: mixed 'and' and 'or' without parentheses`},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			cond, err := parser.New().ParseSupportsCondition(strings.NewReader(tt.s))
			if tt.err != "" {
				require.Error(t, err)
				assert.Equal(t, tt.err, err.(*parser.Error).String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, cond.String())
		})
	}
}

func TestParser_ParsePageSelectorList(t *testing.T) {
	var tests = []struct {
		s   string
		out string
		err string
	}{
		{s: `foo:first:left`, out: `foo:first:left`},
		{s: `:first, :LEFT`, out: `:first, :left`},
		{s: `cover`, out: `cover`},

		{s: ``, err: `1:1: empty page selector`},
		{s: `foo :first`, err: `1:5: unexpected whitespace in page selector`},
		{s: `:middle`, err: `1:2: unknown pseudo-page :middle`},
		{s: `foo::first`, err: `1:5: expected pseudo-page name, got ':'`},
		{s: `foo.bar`, err: `1:4: unexpected '.' in page selector`},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			list, err := parser.New().ParsePageSelectorList(strings.NewReader(tt.s))
			if tt.err != "" {
				require.Error(t, err)
				assert.Equal(t, tt.err, err.(*parser.Error).String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.out, list.String())
		})
	}
}

func TestParser_ParsePageSelectorList_Chain(t *testing.T) {
	list, err := parser.New().ParsePageSelectorList(strings.NewReader(`foo:first:left`))
	require.NoError(t, err)
	require.Len(t, list, 1)

	var kinds []ast.PageSelectorType
	var names []string
	for s := list[0]; s != nil; s = s.Next {
		kinds = append(kinds, s.Type)
		names = append(names, s.Name)
	}
	assert.Equal(t, []ast.PageSelectorType{ast.PageType, ast.PseudoPage, ast.PseudoPage}, kinds)
	assert.Equal(t, []string{"foo", "first", "left"}, names)
}
