package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbjohnson/go-css/scanner"
	"github.com/benbjohnson/go-css/token"
)

var p1 = token.Pos{Line: 1, Column: 1}

// Ensure than the scanner returns appropriate tokens and literals.
func TestScanner_Scan(t *testing.T) {
	var tests = []struct {
		s   string
		tok token.Token
		err string
	}{
		{s: ``, tok: &token.EOF{Pos: p1}},
		{s: `   `, tok: &token.Whitespace{Value: `   `, Pos: p1}},

		{s: `""`, tok: &token.String{Value: ``, Ending: '"', Pos: p1}},
		{s: `"`, tok: &token.String{Value: ``, Ending: '"', Pos: p1}, err: `unterminated string`},
		{s: `"foo`, tok: &token.String{Value: `foo`, Ending: '"', Pos: p1}, err: `unterminated string`},
		{s: `"hello world"`, tok: &token.String{Value: `hello world`, Ending: '"', Pos: p1}},
		{s: `'hello world'`, tok: &token.String{Value: `hello world`, Ending: '\'', Pos: p1}},
		{s: "'foo\\\nbar'", tok: &token.String{Value: "foobar", Ending: '\'', Pos: p1}},
		{s: `'foo\ bar'`, tok: &token.String{Value: `foo bar`, Ending: '\'', Pos: p1}},
		{s: `'foo\\bar'`, tok: &token.String{Value: `foo\bar`, Ending: '\'', Pos: p1}},
		{s: `'frosty the \2603'`, tok: &token.String{Value: `frosty the ☃`, Ending: '\'', Pos: p1}},
		{s: `'\1F600 x'`, tok: &token.String{Value: "😀x", Ending: '\'', Pos: p1}},
		{s: `'\0'`, tok: &token.String{Value: "�", Ending: '\'', Pos: p1}},
		{s: `'\D800'`, tok: &token.String{Value: "�", Ending: '\'', Pos: p1}},
		{s: `'\110000'`, tok: &token.String{Value: "�", Ending: '\'', Pos: p1}},
		{s: "'foo\nbar'", tok: &token.BadString{Pos: p1}, err: `unescaped newline in string`},

		{s: `0`, tok: &token.Number{Type: token.Integer, Value: `0`, Number: 0.0, Pos: p1}},
		{s: `1.0`, tok: &token.Number{Type: token.Real, Value: `1.0`, Number: 1.0, Pos: p1}},
		{s: `1.123`, tok: &token.Number{Type: token.Real, Value: `1.123`, Number: 1.123, Pos: p1}},
		{s: `.001`, tok: &token.Number{Type: token.Real, Value: `.001`, Number: 0.001, Pos: p1}},
		{s: `-.001`, tok: &token.Number{Type: token.Real, Value: `-.001`, Number: -0.001, Pos: p1}},
		{s: `10000`, tok: &token.Number{Type: token.Integer, Value: `10000`, Number: 10000, Pos: p1}},
		{s: `10000.`, tok: &token.Number{Type: token.Integer, Value: `10000`, Number: 10000, Pos: p1}},
		{s: `100E`, tok: &token.Dimension{Type: token.Integer, Value: `100`, Number: 100, Unit: "E", Pos: p1}},
		{s: `100E+`, tok: &token.Dimension{Type: token.Integer, Value: `100`, Number: 100, Unit: "E", Pos: p1}},
		{s: `100E-`, tok: &token.Dimension{Type: token.Integer, Value: `100`, Number: 100, Unit: "E-", Pos: p1}},
		{s: `1E2`, tok: &token.Number{Type: token.Real, Value: `1E2`, Number: 100, Pos: p1}},
		{s: `1.5E2`, tok: &token.Number{Type: token.Real, Value: `1.5E2`, Number: 150, Pos: p1}},
		{s: `1.5E+2`, tok: &token.Number{Type: token.Real, Value: `1.5E+2`, Number: 150, Pos: p1}},
		{s: `1.5E-2`, tok: &token.Number{Type: token.Real, Value: `1.5E-2`, Number: 0.015, Pos: p1}},
		{s: `2e10`, tok: &token.Number{Type: token.Real, Value: `2e10`, Number: 2e10, Pos: p1}},
		{s: `+100`, tok: &token.Number{Type: token.Integer, Value: `+100`, Number: 100, Pos: p1}},
		{s: `+1.0`, tok: &token.Number{Type: token.Real, Value: `+1.0`, Number: 1, Pos: p1}},
		{s: `-100`, tok: &token.Number{Type: token.Integer, Value: `-100`, Number: -100, Pos: p1}},
		{s: `-1.0`, tok: &token.Number{Type: token.Real, Value: `-1.0`, Number: -1, Pos: p1}},
		{s: `-`, tok: &token.Delim{Value: `-`, Pos: p1}},
		{s: `+`, tok: &token.Delim{Value: `+`, Pos: p1}},
		{s: `+a`, tok: &token.Delim{Value: `+`, Pos: p1}},
		{s: `.`, tok: &token.Delim{Value: `.`, Pos: p1}},
		{s: `-->`, tok: &token.CDC{Pos: p1}},

		{s: `url`, tok: &token.Ident{Value: `url`, Pos: p1}},
		{s: `myIdent`, tok: &token.Ident{Value: `myIdent`, Pos: p1}},
		{s: `my\2603`, tok: &token.Ident{Value: `my☃`, Pos: p1}},
		{s: `--custom`, tok: &token.Ident{Value: `--custom`, Pos: p1}},
		{s: `-moz-box`, tok: &token.Ident{Value: `-moz-box`, Pos: p1}},
		{s: `-\31 x`, tok: &token.Ident{Value: `-1x`, Pos: p1}},

		{s: `url(`, tok: &token.URL{Value: ``, Pos: p1}, err: `unterminated url`},
		{s: `url(foo`, tok: &token.URL{Value: `foo`, Pos: p1}, err: `unterminated url`},
		{s: `url(http://foo.com#bar?baz=bat)`, tok: &token.URL{Value: `http://foo.com#bar?baz=bat`, Pos: p1}},
		{s: `url(  foo)`, tok: &token.URL{Value: `foo`, Pos: p1}},
		{s: `url(  foo  )`, tok: &token.URL{Value: `foo`, Pos: p1}},
		{s: `url(  \2603  )`, tok: &token.URL{Value: `☃`, Pos: p1}},
		{s: `URL(foo)`, tok: &token.URL{Value: `foo`, Pos: p1}},
		{s: `url("http://foo.com#bar?baz=bat")`, tok: &token.URL{Value: `http://foo.com#bar?baz=bat`, Pos: p1}},
		{s: `url(  "foo"  )`, tok: &token.URL{Value: `foo`, Pos: p1}},
		{s: `url("foo")`, tok: &token.URL{Value: `foo`, Pos: p1}},
		{s: `url("foo"x)`, tok: &token.BadURL{Pos: p1}, err: `unexpected 'x' in url`},
		{s: `url(foo bar)`, tok: &token.BadURL{Pos: p1}, err: `whitespace inside url`},
		{s: `url(foo"`, tok: &token.BadURL{Pos: p1}, err: `invalid url code point: '"' (U+0022)`},
		{s: `url(foo(`, tok: &token.BadURL{Pos: p1}, err: `invalid url code point: '(' (U+0028)`},
		{s: "url(foo\\\n)", tok: &token.BadURL{Pos: p1}, err: `invalid escape in url`},

		{s: `myFunc(`, tok: &token.Function{Value: `myFunc`, Pos: p1}},

		{s: "u+A", tok: &token.UnicodeRange{Start: 10, End: 10, Value: "A", Pos: p1}},
		{s: "U+00000A", tok: &token.UnicodeRange{Start: 10, End: 10, Value: "00000A", Pos: p1}},
		{s: "u+1?", tok: &token.UnicodeRange{Start: 16, End: 31, Value: "1?", Pos: p1}},
		{s: "u+4??", tok: &token.UnicodeRange{Start: 0x400, End: 0x4ff, Value: "4??", Pos: p1}},
		{s: "u+02-04", tok: &token.UnicodeRange{Start: 2, End: 4, Value: "02-04", Pos: p1}},
		{s: "u+0025-00ff", tok: &token.UnicodeRange{Start: 0x25, End: 0xff, Value: "0025-00ff", Pos: p1}},

		{s: `100em`, tok: &token.Dimension{Type: token.Integer, Value: `100`, Number: 100, Unit: "em", Pos: p1}},
		{s: `-1.2in`, tok: &token.Dimension{Type: token.Real, Value: `-1.2`, Number: -1.2, Unit: "in", Pos: p1}},

		{s: `100%`, tok: &token.Percentage{Type: token.Integer, Value: `100`, Number: 100, Pos: p1}},
		{s: `-0.2%`, tok: &token.Percentage{Type: token.Real, Value: `-0.2`, Number: -0.2, Pos: p1}},

		{s: `#foo`, tok: &token.Hash{Value: `foo`, Type: "id", Pos: p1}},
		{s: `#foo\2603 bar`, tok: &token.Hash{Value: `foo☃bar`, Type: "id", Pos: p1}},
		{s: `#-x`, tok: &token.Hash{Value: `-x`, Type: "id", Pos: p1}},
		{s: `#_x`, tok: &token.Hash{Value: `_x`, Type: "id", Pos: p1}},
		{s: `#18273`, tok: &token.Hash{Value: `18273`, Type: "unrestricted", Pos: p1}},
		{s: `#`, tok: &token.Delim{Value: `#`, Pos: p1}},

		{s: `/`, tok: &token.Delim{Value: `/`, Pos: p1}},
		{s: `/* this is * a comment */`, tok: &token.Comment{Value: " this is * a comment ", Pos: p1}},
		{s: `/* open`, tok: &token.Comment{Value: " open", Pos: p1}, err: `unterminated comment`},

		{s: `<`, tok: &token.Delim{Value: "<", Pos: p1}},
		{s: `<!`, tok: &token.Delim{Value: "<", Pos: p1}},
		{s: `<!-`, tok: &token.Delim{Value: "<", Pos: p1}},
		{s: `<!--`, tok: &token.CDO{Pos: p1}},

		{s: `@`, tok: &token.Delim{Value: "@", Pos: p1}},
		{s: `@foo`, tok: &token.AtKeyword{Value: "foo", Pos: p1}},
		{s: `@-webkit-keyframes`, tok: &token.AtKeyword{Value: "-webkit-keyframes", Pos: p1}},

		{s: `\2603`, tok: &token.Ident{Value: "☃", Pos: p1}},
		{s: `\`, tok: &token.Ident{Value: "�", Pos: p1}, err: "escape at end of input"},
		{s: `\ `, tok: &token.Ident{Value: " ", Pos: p1}},
		{s: "\\\n", tok: &token.Delim{Value: `\`, Pos: p1}, err: "invalid escape before line break"},

		{s: `$=`, tok: &token.SuffixMatch{Pos: p1}},
		{s: `$X`, tok: &token.Delim{Value: `$`, Pos: p1}},
		{s: `*=`, tok: &token.SubstringMatch{Pos: p1}},
		{s: `*X`, tok: &token.Delim{Value: `*`, Pos: p1}},
		{s: `^=`, tok: &token.PrefixMatch{Pos: p1}},
		{s: `~=`, tok: &token.IncludeMatch{Pos: p1}},
		{s: `~X`, tok: &token.Delim{Value: `~`, Pos: p1}},
		{s: `|=`, tok: &token.DashMatch{Pos: p1}},
		{s: `||`, tok: &token.Column{Pos: p1}},
		{s: `|X`, tok: &token.Delim{Value: `|`, Pos: p1}},

		{s: `,`, tok: &token.Comma{Pos: p1}},
		{s: `:`, tok: &token.Colon{Pos: p1}},
		{s: `;`, tok: &token.Semicolon{Pos: p1}},
		{s: `(`, tok: &token.LParen{Pos: p1}},
		{s: `)`, tok: &token.RParen{Pos: p1}},
		{s: `[`, tok: &token.LBrack{Pos: p1}},
		{s: `]`, tok: &token.RBrack{Pos: p1}},
		{s: `{`, tok: &token.LBrace{Pos: p1}},
		{s: `}`, tok: &token.RBrace{Pos: p1}},
	}

	for i, tt := range tests {
		s := scanner.New(strings.NewReader(tt.s))
		tok := s.Scan()

		assert.Equal(t, tt.tok, tok, "%d. <%q>", i, tt.s)
		if tt.err == "" {
			assert.Empty(t, s.Errors, "%d. <%q> unexpected error", i, tt.s)
		} else if assert.Len(t, s.Errors, 1, "%d. <%q>", i, tt.s) {
			assert.Equal(t, tt.err, s.Errors[0].Message, "%d. <%q>", i, tt.s)
		}
	}
}

// scanAll returns every token up to and excluding EOF.
func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := scanner.New(strings.NewReader(src))
	var a []token.Token
	for i := 0; i < 1000; i++ {
		tok := s.Scan()
		if _, ok := tok.(*token.EOF); ok {
			return a
		}
		a = append(a, tok)
	}
	t.Fatal("scanner did not reach EOF")
	return nil
}

func TestScanner_Positions(t *testing.T) {
	toks := scanAll(t, "a\n  b")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, toks[0].Position())
	assert.Equal(t, token.Pos{Line: 1, Column: 2}, toks[1].Position())
	assert.Equal(t, token.Pos{Line: 2, Column: 3}, toks[2].Position())

	// Code points outside the BMP take two columns.
	toks = scanAll(t, "😀 a")
	require.Len(t, toks, 3)
	assert.Equal(t, &token.Ident{Value: "😀", Pos: p1}, toks[0])
	assert.Equal(t, token.Pos{Line: 1, Column: 3}, toks[1].Position())
	assert.Equal(t, token.Pos{Line: 1, Column: 4}, toks[2].Position())

	// Positions advance through comments and strings.
	toks = scanAll(t, "/* x\ny */'é'b")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Pos{Line: 2, Column: 5}, toks[1].Position())
	assert.Equal(t, token.Pos{Line: 2, Column: 8}, toks[2].Position())
}

func TestScanner_Normalize(t *testing.T) {
	toks := scanAll(t, "a\r\nb\rc\fd")
	require.Len(t, toks, 7)
	assert.Equal(t, &token.Whitespace{Value: "\n", Pos: token.Pos{Line: 1, Column: 2}}, toks[1])
	assert.Equal(t, token.Pos{Line: 2, Column: 1}, toks[2].Position())
	assert.Equal(t, token.Pos{Line: 3, Column: 1}, toks[4].Position())
	assert.Equal(t, token.Pos{Line: 4, Column: 1}, toks[6].Position())

	toks = scanAll(t, "a\x00b")
	require.Len(t, toks, 1)
	assert.Equal(t, &token.Ident{Value: "a�b", Pos: p1}, toks[0])
}

func TestScanner_CommentNewline(t *testing.T) {
	toks := scanAll(t, "/*a*/\n/*b*/ /*c*//*d*/")
	var got []bool
	for _, tok := range toks {
		if c, ok := tok.(*token.Comment); ok {
			got = append(got, c.NewlineBefore)
		}
	}
	assert.Equal(t, []bool{false, true, false, false}, got)
}

func TestScanner_Sequence(t *testing.T) {
	toks := scanAll(t, `p{width:calc(100% - 3em)}`)
	var got []string
	for _, tok := range toks {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"p", "{", "width", ":", "calc(", "100%", " ", "-", " ", "3em", ")", "}"}, got)
}

func TestEndsWithEscape(t *testing.T) {
	var tests = []struct {
		s     string
		esc   bool
		escWS bool
	}{
		{s: ``, esc: false, escWS: false},
		{s: `foo`, esc: false, escWS: false},
		{s: `foo `, esc: false, escWS: true},
		{s: `foo\`, esc: true, escWS: true},
		{s: `foo\41`, esc: true, escWS: true},
		{s: `foo\41 `, esc: true, escWS: true},
		{s: `foo\41 x`, esc: false, escWS: false},
		{s: `foo\;`, esc: true, escWS: true},
		{s: `foo\\`, esc: true, escWS: true},
		{s: `\41 \42`, esc: true, escWS: true},
		{s: "a\t", esc: false, escWS: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.esc, scanner.EndsWithEscape(tt.s), "EndsWithEscape(%q)", tt.s)
		assert.Equal(t, tt.escWS, scanner.EndsWithEscapeOrWhitespace(tt.s), "EndsWithEscapeOrWhitespace(%q)", tt.s)
	}
}
