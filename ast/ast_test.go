package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

// Ensure that all component values report their position.
func TestComponentValue_Position(t *testing.T) {
	var tests = []struct {
		in  ast.ComponentValue
		pos token.Pos
	}{
		{in: &ast.SimpleBlock{Token: &token.LBrace{Pos: token.Pos{Line: 1, Column: 2}}}, pos: token.Pos{Line: 1, Column: 2}},
		{in: &ast.Function{Name: "f", Pos: token.Pos{Line: 3, Column: 4}}, pos: token.Pos{Line: 3, Column: 4}},
		{in: &ast.Token{Token: &token.Ident{Value: "a", Pos: token.Pos{Line: 5, Column: 6}}}, pos: token.Pos{Line: 5, Column: 6}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pos, tt.in.Position())
	}
}

func TestComponentValues_String(t *testing.T) {
	p := token.Pos{Line: 1, Column: 1}
	values := ast.ComponentValues{
		&ast.Token{Token: &token.Whitespace{Value: " ", Pos: p}},
		&ast.Function{Name: "f", Values: ast.ComponentValues{&ast.Token{Token: &token.Number{Value: "1"}}}, End: &token.RParen{}},
		&ast.SimpleBlock{Token: &token.LBrack{}, Values: ast.ComponentValues{&ast.Token{Token: &token.Ident{Value: "a"}}}, End: &token.EOF{}},
		&ast.Token{Token: &token.Comment{Value: " c "}},
	}
	assert.Equal(t, " f(1)[a/* c */", values.String())
	assert.Len(t, values.TrimSpace(), 2)

	b := values[2].(*ast.SimpleBlock)
	assert.False(t, b.Closed())
	assert.True(t, values[1].(*ast.Function).Closed())
}

func TestAtRule_String(t *testing.T) {
	r := &ast.AtRule{
		Name: "foo",
		Prelude: ast.ComponentValues{
			&ast.Token{Token: &token.Whitespace{Value: " "}},
			&ast.Token{Token: &token.Ident{Value: "bar"}},
		},
	}
	assert.Equal(t, "@foo bar;", r.String())

	r.Block = &ast.SimpleBlock{Token: &token.LBrace{}, End: &token.RBrace{}}
	assert.Equal(t, "@foo bar{}", r.String())
}

func TestDeclaration_String(t *testing.T) {
	d := &ast.Declaration{
		Name: "color",
		Values: ast.ComponentValues{
			&ast.Token{Token: &token.Whitespace{Value: " "}},
			&ast.Token{Token: &token.Ident{Value: "red"}},
		},
		Value: value.NewIdent("red"),
	}
	assert.Equal(t, "color: red", d.String())
	assert.Equal(t, "red", d.Value.String())

	d.Important = true
	assert.Equal(t, "color: red!important", d.String())
}

func TestSelector_String(t *testing.T) {
	var tests = []struct {
		sel *ast.Selector
		s   string
	}{
		{
			sel: &ast.Selector{Compounds: []*ast.CompoundSelector{
				{Type: &ast.TypeSelector{Name: "div"}, Subclasses: []ast.SimpleSelector{&ast.ClassSelector{Name: "a"}, &ast.IDSelector{Name: "b"}}},
				{Combinator: ast.Child, Type: &ast.TypeSelector{Name: "p"}},
				{Combinator: ast.Descendant, Subclasses: []ast.SimpleSelector{&ast.PseudoElement{Name: "before", Legacy: true}}},
			}},
			s: "div.a#b > p :before",
		},
		{
			sel: &ast.Selector{Relative: true, Compounds: []*ast.CompoundSelector{
				{Combinator: ast.NextSibling, Subclasses: []ast.SimpleSelector{&ast.NestingSelector{}}},
			}},
			s: "+ &",
		},
		{
			sel: &ast.Selector{Compounds: []*ast.CompoundSelector{
				{Type: &ast.TypeSelector{HasPrefix: true, Prefix: "svg", Name: "*"}, Subclasses: []ast.SimpleSelector{
					&ast.AttributeSelector{Name: "lang", Op: ast.AttrDashMatch, Value: "en", Modifier: 'i'},
				}},
			}},
			s: `svg|*[lang|="en" i]`,
		},
		{
			sel: &ast.Selector{Compounds: []*ast.CompoundSelector{
				{Subclasses: []ast.SimpleSelector{
					&ast.PseudoClass{Name: "nth-child", Function: true, Nth: &ast.Nth{A: 2, B: -1}, Selectors: ast.SelectorList{
						{Compounds: []*ast.CompoundSelector{{Subclasses: []ast.SimpleSelector{&ast.ClassSelector{Name: "x"}}}}},
					}},
				}},
			}},
			s: ":nth-child(2n-1 of .x)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.s, tt.sel.String())
			assert.True(t, tt.sel.Equal(tt.sel))
		})
	}
}

func TestSelector_Specificity(t *testing.T) {
	sel := &ast.Selector{Compounds: []*ast.CompoundSelector{
		{Type: &ast.TypeSelector{Name: "a"}, Subclasses: []ast.SimpleSelector{
			&ast.IDSelector{Name: "x"},
			&ast.PseudoClass{Name: "hover"},
			&ast.PseudoClass{Name: "where", Function: true, Selectors: ast.SelectorList{
				{Compounds: []*ast.CompoundSelector{{Subclasses: []ast.SimpleSelector{&ast.IDSelector{Name: "y"}}}}},
			}},
		}},
	}}
	a, b, c := sel.Specificity()
	assert.Equal(t, []int{1, 1, 1}, []int{a, b, c})
}

func TestNth_String(t *testing.T) {
	var tests = []struct {
		nth ast.Nth
		s   string
	}{
		{nth: ast.Nth{A: 2, B: 1}, s: "2n+1"},
		{nth: ast.Nth{A: 0, B: 3}, s: "3"},
		{nth: ast.Nth{A: -1, B: 3}, s: "-n+3"},
		{nth: ast.Nth{A: 1, B: 0}, s: "n"},
		{nth: ast.Nth{A: 3, B: -2}, s: "3n-2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.s, tt.nth.String())
	}
}

func TestPageSelector(t *testing.T) {
	sel := &ast.PageSelector{Type: ast.PageType, Name: "foo", Next: &ast.PageSelector{
		Type: ast.PseudoPage, Name: "first", Next: &ast.PageSelector{Type: ast.PseudoPage, Name: "left"},
	}}
	list := ast.PageSelectorList{sel, {Type: ast.PseudoPage, Name: "right"}}
	assert.Equal(t, "foo:first:left, :right", list.String())
	assert.True(t, list.Equal(list))
	assert.False(t, sel.Equal(sel.Next))
}

func TestCondition_String(t *testing.T) {
	feature := func(name string) *ast.MediaFeature { return &ast.MediaFeature{Name: name} }

	var tests = []struct {
		cond ast.Condition
		s    string
	}{
		{cond: feature("color"), s: "(color)"},
		{cond: &ast.Parens{Condition: &ast.Parens{Condition: feature("color")}}, s: "(color)"},
		{
			cond: &ast.And{Conditions: []ast.Condition{
				feature("color"),
				&ast.Parens{Condition: &ast.Or{Conditions: []ast.Condition{feature("hover"), feature("grid")}}},
			}},
			s: "(color) and ((hover) or (grid))",
		},
		{cond: &ast.Not{Condition: feature("hover")}, s: "not (hover)"},
		{
			cond: &ast.MediaFeature{Name: "width", Left: value.NewDimension(400, "px"), LeftOp: ast.OpLE, RightOp: ast.OpLT, Right: value.NewDimension(700, "px")},
			s:    "(400px <= width < 700px)",
		},
		{cond: &ast.MediaFeature{Name: "min-width", Value: value.NewDimension(10, "em")}, s: "(min-width: 10em)"},
		{cond: &ast.DeclarationCondition{Name: "display", Value: value.NewIdent("flex")}, s: "(display: flex)"},
		{cond: &ast.Other{Text: "foo(bar)"}, s: "foo(bar)"},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.s, tt.cond.String())
		})
	}
}

func TestCondition_Equal(t *testing.T) {
	a := &ast.MediaFeature{Name: "color"}
	b := &ast.Parens{Condition: &ast.MediaFeature{Name: "color"}}

	// Redundant parentheses serialize the same way but are not equal.
	assert.Equal(t, a.String(), b.String())
	assert.False(t, a.Equal(b))
	assert.True(t, b.Equal(&ast.Parens{Condition: &ast.MediaFeature{Name: "color"}}))
	assert.False(t, a.Equal(&ast.MediaFeature{Name: "color", Value: value.NewInteger(8)}))
}

func TestMediaQuery_String(t *testing.T) {
	var tests = []struct {
		q *ast.MediaQuery
		s string
	}{
		{q: &ast.MediaQuery{MediaType: "screen"}, s: "screen"},
		{q: &ast.MediaQuery{Qualifier: "only", MediaType: "screen", Condition: &ast.MediaFeature{Name: "color"}}, s: "only screen and (color)"},
		{q: &ast.MediaQuery{Condition: &ast.Not{Condition: &ast.MediaFeature{Name: "hover"}}}, s: "not (hover)"},
		{q: ast.NewNotAll(), s: "not all"},
		{q: &ast.MediaQuery{}, s: "all"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.s, tt.q.String())
	}

	list := ast.MediaQueryList{ast.NewNotAll(), {MediaType: "print"}}
	assert.Equal(t, "not all, print", list.String())
	assert.False(t, list.IsNotAll())
	assert.True(t, ast.MediaQueryList{ast.NewNotAll()}.IsNotAll())
}
