package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbjohnson/go-css/value"
)

// chain links units into a detached chain and returns its head.
func chain(units ...*value.LexicalUnit) *value.LexicalUnit {
	var c value.Chain
	for _, u := range units {
		c.Append(u)
	}
	return c.Head()
}

// checkLinks verifies the sibling and owner links of every unit reachable
// from head, including parameter chains.
func checkLinks(t *testing.T, head *value.LexicalUnit) {
	t.Helper()
	require.Nil(t, head.Previous(), "head has a previous unit")
	for u := head; u != nil; u = u.Next() {
		if n := u.Next(); n != nil {
			require.Same(t, u, n.Previous(), "broken link after %s", u.CSSText())
			require.Same(t, u.Owner(), n.Owner(), "mixed owners after %s", u.CSSText())
		}
		if p := u.Parameters(); p != nil {
			require.Same(t, u, p.Owner())
			checkLinks(t, p)
		}
	}
}

func TestLexicalUnit_Clone(t *testing.T) {
	fn := value.NewFunction(value.Function, "foo", chain(
		value.NewIdent("a"),
		value.NewOperator(value.OperatorComma),
		value.NewDimension(2, "px"),
	))
	head := chain(value.NewIdent("x"), fn, value.NewPercentage(50))

	c := head.Clone()
	checkLinks(t, c)
	assert.NotSame(t, head, c)
	assert.True(t, head.Equal(c))
	assert.Equal(t, head.String(), c.String())

	// Mutating the clone leaves the original alone.
	_, err := c.Next().Parameters().ReplaceBy(value.NewIdent("b"))
	require.NoError(t, err)
	assert.Equal(t, "x foo(a, 2px) 50%", head.String())
	assert.Equal(t, "x foo(b, 2px) 50%", c.String())
	assert.False(t, head.Equal(c))

	// A cloned parameter is the head of a fresh top-level chain.
	p := fn.Parameters().Next().Next().Clone()
	assert.False(t, p.IsParameter())
	assert.Nil(t, p.Previous())
	assert.Equal(t, "2px", p.String())
}

func TestLexicalUnit_ShallowClone(t *testing.T) {
	fn := value.NewFunction(value.Function, "foo", chain(value.NewIdent("a"), value.NewIdent("b")))
	head := chain(value.NewIdent("x"), fn, value.NewIdent("y"))

	c := head.Next().ShallowClone()
	assert.Nil(t, c.Previous())
	assert.Nil(t, c.Next())
	assert.Equal(t, "foo(a b)", c.String())
	assert.NotSame(t, fn.Parameters(), c.Parameters())
	checkLinks(t, c)
}

func TestLexicalUnit_InsertNext(t *testing.T) {
	t.Run("Middle", func(t *testing.T) {
		a, b := value.NewIdent("a"), value.NewIdent("b")
		head := chain(a, b)
		require.NoError(t, a.InsertNext(chain(value.NewIdent("x"), value.NewIdent("y"))))
		checkLinks(t, head)
		assert.Equal(t, "a x y b", head.String())
	})

	t.Run("Parameter", func(t *testing.T) {
		a := value.NewIdent("a")
		fn := value.NewFunction(value.Function, "f", a)
		require.NoError(t, a.InsertNext(value.NewIdent("b")))
		checkLinks(t, fn)
		assert.Same(t, fn, a.Next().Owner())
		assert.Equal(t, "f(a b)", fn.String())
	})

	t.Run("Empty", func(t *testing.T) {
		a, b := value.NewIdent("a"), value.NewIdent("b")
		head := chain(a, b)
		require.NoError(t, a.InsertNext(value.NewEmpty()))
		assert.Equal(t, 2, head.Len())
	})

	t.Run("BeforeTrailingEmpty", func(t *testing.T) {
		a, e := value.NewIdent("a"), value.NewEmpty()
		head := chain(a, e)
		require.NoError(t, a.InsertNext(value.NewIdent("b")))
		checkLinks(t, head)
		assert.Same(t, e, head.Last())
	})

	t.Run("Nil", func(t *testing.T) {
		assert.ErrorIs(t, value.NewIdent("a").InsertNext(nil), value.ErrNilUnit)
	})
}

func TestLexicalUnit_Ownership(t *testing.T) {
	t.Run("MidChain", func(t *testing.T) {
		other := chain(value.NewIdent("p"), value.NewIdent("q"))
		a := value.NewIdent("a")
		head := chain(a, value.NewIdent("b"))

		err := a.InsertNext(other.Next())
		assert.ErrorIs(t, err, value.ErrOwnership)
		checkLinks(t, head)
		checkLinks(t, other)
		assert.Equal(t, "a b", head.String())
		assert.Equal(t, "p q", other.String())
	})

	t.Run("ParameterIntoTopLevel", func(t *testing.T) {
		fn := value.NewFunction(value.Function, "f", value.NewIdent("p"))
		a := value.NewIdent("a")
		assert.ErrorIs(t, a.InsertNext(fn.Parameters()), value.ErrOwnership)
		_, err := a.ReplaceBy(fn.Parameters())
		assert.ErrorIs(t, err, value.ErrOwnership)
		assert.Equal(t, "f(p)", fn.String())
	})

	t.Run("Self", func(t *testing.T) {
		a := value.NewIdent("a")
		assert.ErrorIs(t, a.InsertNext(a), value.ErrOwnership)
		assert.Nil(t, a.Next())
	})

	t.Run("Ancestor", func(t *testing.T) {
		p := value.NewIdent("p")
		fn := value.NewFunction(value.Function, "f", p)
		assert.ErrorIs(t, p.InsertNext(fn), value.ErrOwnership)
		assert.Nil(t, p.Next())
	})

	t.Run("NewFunctionOwnedParams", func(t *testing.T) {
		a := value.NewIdent("a")
		f := value.NewFunction(value.Function, "f", a)
		assert.PanicsWithError(t, "lexical unit belongs to another chain: unit is a parameter of FUNCTION", func() {
			value.NewFunction(value.Function, "g", a)
		})
		assert.Same(t, f, a.Owner())
		assert.Equal(t, "f(a)", f.String())
	})

	t.Run("NewFunctionMidChain", func(t *testing.T) {
		head := chain(value.NewIdent("a"), value.NewIdent("b"))
		assert.Panics(t, func() { value.NewMathFunction("calc", head.Next()) })
		checkLinks(t, head)
	})

	t.Run("AppendMidChain", func(t *testing.T) {
		x, y := value.NewIdent("x"), value.NewIdent("y")
		require.NoError(t, x.InsertNext(y))

		var c value.Chain
		c.Append(value.NewIdent("q"))
		assert.PanicsWithError(t, "lexical unit belongs to another chain: unit has a previous unit", func() { c.Append(y) })
		assert.Same(t, x, y.Previous())
		assert.Equal(t, 1, c.Len())
		checkLinks(t, x)
	})

	t.Run("AppendParameter", func(t *testing.T) {
		fn := value.NewFunction(value.Function, "f", value.NewIdent("p"))
		var c value.Chain
		assert.Panics(t, func() { c.Append(fn.Parameters()) })
		assert.Nil(t, c.Head())
	})

	t.Run("AppendHead", func(t *testing.T) {
		var c value.Chain
		a := value.NewIdent("a")
		c.Append(a)
		assert.Panics(t, func() { c.Append(a) })
		assert.Nil(t, a.Next())
		assert.Equal(t, 1, c.Len())
	})
}

func TestLexicalUnit_ReplaceBy(t *testing.T) {
	t.Run("Chain", func(t *testing.T) {
		a, b, c := value.NewIdent("a"), value.NewIdent("b"), value.NewIdent("c")
		head := chain(a, b, c)
		y := value.NewIdent("y")

		last, err := b.ReplaceBy(chain(value.NewIdent("x"), y))
		require.NoError(t, err)
		assert.Same(t, y, last)
		checkLinks(t, head)
		assert.Equal(t, "a x y c", head.String())
		assert.Nil(t, b.Previous())
		assert.Nil(t, b.Next())
	})

	t.Run("Nil", func(t *testing.T) {
		a, b, c := value.NewIdent("a"), value.NewIdent("b"), value.NewIdent("c")
		head := chain(a, b, c)
		last, err := b.ReplaceBy(nil)
		require.NoError(t, err)
		assert.Same(t, c, last)
		checkLinks(t, head)
		assert.Equal(t, "a c", head.String())
	})

	t.Run("Empty", func(t *testing.T) {
		a, b := value.NewIdent("a"), value.NewIdent("b")
		head := chain(a, b)
		last, err := b.ReplaceBy(value.NewEmpty())
		require.NoError(t, err)
		assert.Nil(t, last)
		assert.Equal(t, 1, head.Len())
	})

	t.Run("FirstParameter", func(t *testing.T) {
		a := value.NewIdent("a")
		fn := value.NewFunction(value.Function, "f", chain(a, value.NewIdent("b")))
		x := value.NewIdent("x")
		_, err := a.ReplaceBy(x)
		require.NoError(t, err)
		assert.Same(t, x, fn.Parameters())
		assert.Same(t, fn, x.Owner())
		assert.False(t, a.IsParameter())
		checkLinks(t, fn)
	})
}

func TestLexicalUnit_Remove(t *testing.T) {
	a, b := value.NewIdent("a"), value.NewIdent("b")
	head := chain(a, b)
	assert.Nil(t, b.Remove())
	assert.Equal(t, "a", head.String())

	fn := value.NewFunction(value.Function, "f", value.NewIdent("p"))
	assert.Nil(t, fn.Parameters().Remove())
	assert.Nil(t, fn.Parameters())
	assert.Equal(t, "f()", fn.String())
}

func TestLexicalUnit_CountReplaceBy(t *testing.T) {
	var tests = []struct {
		name    string
		with    func() *value.LexicalUnit
		removed int
		text    string
	}{
		{name: "Nil", with: func() *value.LexicalUnit { return nil }, removed: 3, text: "a c"},
		{name: "Empty", with: value.NewEmpty, removed: 3, text: "a c"},
		{name: "Ident", with: func() *value.LexicalUnit { return value.NewIdent("x") }, removed: 1, text: "a x c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := value.NewIdent("b")
			head := chain(value.NewIdent("a"), b, value.NewEmpty(), value.NewEmpty(), value.NewIdent("c"))
			n, err := b.CountReplaceBy(tt.with())
			require.NoError(t, err)
			assert.Equal(t, tt.removed, n)
			checkLinks(t, head)
			assert.Equal(t, tt.text, head.String())
		})
	}
}

func TestLexicalUnit_Equal(t *testing.T) {
	var tests = []struct {
		a, b  *value.LexicalUnit
		equal bool
	}{
		{a: value.NewIdent("a"), b: value.NewIdent("a"), equal: true},
		{a: value.NewIdent("a"), b: value.NewString("a", 0), equal: false},
		{a: value.NewInteger(1), b: value.NewReal(1), equal: false},
		{a: value.NewDimension(1, "px"), b: value.NewDimension(1, "PX"), equal: true},
		{a: value.NewDimension(1, "foo"), b: value.NewDimension(1, "bar"), equal: false},
		{a: chain(value.NewIdent("a"), value.NewIdent("b")), b: value.NewIdent("a"), equal: false},
		{
			a:     value.NewFunction(value.Function, "f", value.NewIdent("a")),
			b:     value.NewFunction(value.Function, "f", value.NewIdent("b")),
			equal: false,
		},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.equal, tt.a.Equal(tt.b), "%d. %s vs %s", i, tt.a, tt.b)
	}
}
