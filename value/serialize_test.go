package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbjohnson/go-css/value"
)

func TestLexicalUnit_String(t *testing.T) {
	var tests = []struct {
		value *value.LexicalUnit
		s     string
	}{
		{value: value.NewIdent("foo"), s: "foo"},
		{value: value.NewIdent("1st"), s: `\31 st`},
		{value: value.NewString("a'b", '\''), s: `'a\'b'`},
		{value: value.NewString("x", 0), s: `"x"`},
		{value: value.NewURI("a.png"), s: "url(a.png)"},
		{value: value.NewURI("a b.png"), s: "url('a b.png')"},
		{value: value.NewUnicodeRange("4??"), s: "U+4??"},
		{value: value.NewReal(0.5), s: "0.5"},
		{value: value.NewReal(math.Inf(1)), s: "infinity"},
		{value: value.NewDimension(-1.25, "em"), s: "-1.25em"},
		{value: value.NewPercentage(100), s: "100%"},
		{value: value.NewUnit(value.RevertLayer), s: "revert-layer"},
		{value: chain(value.NewIdent("a"), op(value.OperatorComma), value.NewIdent("b")), s: "a, b"},
		{value: chain(value.NewInteger(1), op(value.OperatorSlash), value.NewInteger(2)), s: "1/2"},
		{
			value: chain(value.NewUnit(value.LeftBracket), value.NewIdent("a"), value.NewIdent("b"), value.NewUnit(value.RightBracket)),
			s:     "[a b]",
		},
		{
			value: calc(value.NewPercentage(100), op(value.OperatorMinus), value.NewDimension(3, "em")),
			s:     "calc(100% - 3em)",
		},
		{
			value: calc(
				value.NewFunction(value.SubExpression, "", chain(value.NewInteger(1), op(value.OperatorPlus), value.NewInteger(2))),
				op(value.OperatorSlash),
				value.NewInteger(3),
			),
			s: "calc((1 + 2) / 3)",
		},
		{
			value: value.NewFunction(value.RGBColor, "rgb", chain(
				value.NewInteger(0), value.NewInteger(0), value.NewInteger(0), op(value.OperatorSlash), value.NewReal(0.5),
			)),
			s: "rgb(0 0 0 / 0.5)",
		},
		{value: value.NewElementReference("foo"), s: "element(#foo)"},
		{value: chain(value.NewIdent("red"), value.NewCompatPrio()), s: "red !ie"},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.s, tt.value.String())
		})
	}
}

func TestNewHexColor(t *testing.T) {
	var tests = []struct {
		text   string
		params string
		css    string
	}{
		{text: "FF0000", params: "255 0 0", css: "#ff0000"},
		{text: "0f0", params: "0 255 0", css: "#0f0"},
		{text: "00000080", params: "0 0 0 / 0.502", css: "#00000080"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			u, err := value.NewHexColor(tt.text)
			require.NoError(t, err)
			assert.Equal(t, value.RGBColor, u.Type())
			assert.Equal(t, tt.css, u.String())
			assert.Equal(t, tt.params, u.Parameters().String())
			assert.Equal(t, 0, u.Parameters().ContextIndex())
		})
	}

	for _, text := range []string{"12", "12345", "ggg"} {
		_, err := value.NewHexColor(text)
		assert.Error(t, err, text)
	}
}

func TestIsColorKeyword(t *testing.T) {
	for _, s := range []string{"red", "Blue", "transparent", "currentColor", "rebeccapurple"} {
		assert.True(t, value.IsColorKeyword(s), s)
	}
	for _, s := range []string{"", "foo", "abc", "#fff", "rgb(0 0 0)"} {
		assert.False(t, value.IsColorKeyword(s), s)
	}
}
