// Package value implements the lexical unit graph built for property
// values: a doubly linked chain of typed units in which function-like units
// own a separate chain of parameters.
package value

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/unit"
)

// Type identifies the kind of a lexical unit.
type Type uint8

const (
	Empty Type = iota
	Inherit
	Initial
	Unset
	Revert
	RevertLayer
	Ident
	String
	URI
	UnicodeRange
	UnicodeWildcard
	Integer
	Real
	Percentage
	Dimension
	OperatorComma
	OperatorPlus
	OperatorMinus
	OperatorMultiply
	OperatorSlash
	OperatorExp
	OperatorTilde
	OperatorLT
	OperatorGT
	OperatorLE
	OperatorGE
	OperatorEQ
	RGBColor
	HSLColor
	HWBColor
	LABColor
	LCHColor
	OKLABColor
	OKLCHColor
	ColorFunction
	ColorMix
	Calc
	SubExpression
	MathFunction
	Function
	PrefixedFunction
	Var
	Attr
	Env
	Counter
	Counters
	CubicBezier
	Steps
	Rect
	ElementReference
	TypeFunction
	LeftBracket
	RightBracket
	CompatIdent
	CompatPrio
)

var typeNames = [...]string{
	Empty:            "EMPTY",
	Inherit:          "INHERIT",
	Initial:          "INITIAL",
	Unset:            "UNSET",
	Revert:           "REVERT",
	RevertLayer:      "REVERT_LAYER",
	Ident:            "IDENT",
	String:           "STRING",
	URI:              "URI",
	UnicodeRange:     "UNICODE_RANGE",
	UnicodeWildcard:  "UNICODE_WILDCARD",
	Integer:          "INTEGER",
	Real:             "REAL",
	Percentage:       "PERCENTAGE",
	Dimension:        "DIMENSION",
	OperatorComma:    "OPERATOR_COMMA",
	OperatorPlus:     "OPERATOR_PLUS",
	OperatorMinus:    "OPERATOR_MINUS",
	OperatorMultiply: "OPERATOR_MULTIPLY",
	OperatorSlash:    "OPERATOR_SLASH",
	OperatorExp:      "OPERATOR_EXP",
	OperatorTilde:    "OPERATOR_TILDE",
	OperatorLT:       "OPERATOR_LT",
	OperatorGT:       "OPERATOR_GT",
	OperatorLE:       "OPERATOR_LE",
	OperatorGE:       "OPERATOR_GE",
	OperatorEQ:       "OPERATOR_EQ",
	RGBColor:         "RGBCOLOR",
	HSLColor:         "HSLCOLOR",
	HWBColor:         "HWBCOLOR",
	LABColor:         "LABCOLOR",
	LCHColor:         "LCHCOLOR",
	OKLABColor:       "OKLABCOLOR",
	OKLCHColor:       "OKLCHCOLOR",
	ColorFunction:    "COLOR_FUNCTION",
	ColorMix:         "COLOR_MIX",
	Calc:             "CALC",
	SubExpression:    "SUB_EXPRESSION",
	MathFunction:     "MATH_FUNCTION",
	Function:         "FUNCTION",
	PrefixedFunction: "PREFIXED_FUNCTION",
	Var:              "VAR",
	Attr:             "ATTR",
	Env:              "ENV",
	Counter:          "COUNTER_FUNCTION",
	Counters:         "COUNTERS_FUNCTION",
	CubicBezier:      "CUBIC_BEZIER_FUNCTION",
	Steps:            "STEPS_FUNCTION",
	Rect:             "RECT_FUNCTION",
	ElementReference: "ELEMENT_REFERENCE",
	TypeFunction:     "TYPE_FUNCTION",
	LeftBracket:      "LEFT_BRACKET",
	RightBracket:     "RIGHT_BRACKET",
	CompatIdent:      "COMPAT_IDENT",
	CompatPrio:       "COMPAT_PRIO",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN"
}

// IsOperator returns true for the operator types.
func (t Type) IsOperator() bool {
	return t >= OperatorComma && t <= OperatorEQ
}

// IsColor returns true for color function types.
func (t Type) IsColor() bool {
	return t >= RGBColor && t <= ColorMix
}

// IsFunction returns true for types that carry a parameter chain.
func (t Type) IsFunction() bool {
	return (t >= RGBColor && t <= TypeFunction && t != ElementReference)
}

// IsNumeric returns true for integer, real, percentage and dimension.
func (t Type) IsNumeric() bool {
	return t >= Integer && t <= Dimension
}

// IsSubstitution returns true for var(), attr() and env().
func (t Type) IsSubstitution() bool {
	return t == Var || t == Attr || t == Env
}

// MathFunc identifies a math function.
type MathFunc uint8

const (
	MathOther MathFunc = iota
	MathMin
	MathMax
	MathClamp
	MathRound
	MathMod
	MathRem
	MathSin
	MathCos
	MathTan
	MathAsin
	MathAcos
	MathAtan
	MathAtan2
	MathPow
	MathSqrt
	MathHypot
	MathLog
	MathExp
	MathAbs
	MathSign
)

var mathFuncs = map[string]MathFunc{
	"min":   MathMin,
	"max":   MathMax,
	"clamp": MathClamp,
	"round": MathRound,
	"mod":   MathMod,
	"rem":   MathRem,
	"sin":   MathSin,
	"cos":   MathCos,
	"tan":   MathTan,
	"asin":  MathAsin,
	"acos":  MathAcos,
	"atan":  MathAtan,
	"atan2": MathAtan2,
	"pow":   MathPow,
	"sqrt":  MathSqrt,
	"hypot": MathHypot,
	"log":   MathLog,
	"exp":   MathExp,
	"abs":   MathAbs,
	"sign":  MathSign,
}

// LookupMathFunc returns the math function for a lower-case function name.
func LookupMathFunc(name string) (MathFunc, bool) {
	fn, ok := mathFuncs[strings.ToLower(name)]
	return fn, ok
}

// LexicalUnit is a node of a value chain.
//
// Units are linked to their siblings through Previous and Next. A
// function-like unit owns a separate chain reachable through Parameters,
// and every member of that chain points back to it as its owner.
type LexicalUnit struct {
	typ      Type
	pos      token.Pos
	ctxIndex int

	num     float64
	unit    unit.Code
	dimText string
	str     string
	quote   rune
	name    string
	mathFn  MathFunc
	cssText string

	prev   *LexicalUnit
	next   *LexicalUnit
	owner  *LexicalUnit
	params *LexicalUnit
}

func newUnit(t Type) *LexicalUnit {
	return &LexicalUnit{typ: t, ctxIndex: -1}
}

// NewUnit returns a unit of the given type with no payload. It is meant for
// keywords, operators, brackets and EMPTY.
func NewUnit(t Type) *LexicalUnit {
	return newUnit(t)
}

// NewEmpty returns an EMPTY unit.
func NewEmpty() *LexicalUnit {
	return newUnit(Empty)
}

// NewIdent returns an IDENT unit.
func NewIdent(s string) *LexicalUnit {
	u := newUnit(Ident)
	u.str = s
	return u
}

// NewString returns a STRING unit. quote records the delimiter used in the
// source, zero meaning double quotes.
func NewString(s string, quote rune) *LexicalUnit {
	u := newUnit(String)
	u.str, u.quote = s, quote
	return u
}

// NewURI returns a URI unit.
func NewURI(s string) *LexicalUnit {
	u := newUnit(URI)
	u.str = s
	return u
}

// NewUnicodeRange returns a UNICODE_RANGE unit, or a UNICODE_WILDCARD unit if
// the text after "U+" contains "?".
func NewUnicodeRange(text string) *LexicalUnit {
	t := UnicodeRange
	if strings.ContainsRune(text, '?') {
		t = UnicodeWildcard
	}
	u := newUnit(t)
	u.str = strings.ToUpper(text)
	return u
}

// NewInteger returns an INTEGER unit.
func NewInteger(i int) *LexicalUnit {
	u := newUnit(Integer)
	u.num = float64(i)
	return u
}

// NewReal returns a REAL unit.
func NewReal(f float64) *LexicalUnit {
	u := newUnit(Real)
	u.num = f
	return u
}

// NewPercentage returns a PERCENTAGE unit.
func NewPercentage(f float64) *LexicalUnit {
	u := newUnit(Percentage)
	u.num = f
	u.unit = unit.Percent
	return u
}

// NewDimension returns a DIMENSION unit. The unit code is resolved from the
// unit text, which is kept as written.
func NewDimension(f float64, text string) *LexicalUnit {
	u := newUnit(Dimension)
	u.num = f
	u.unit, _ = unit.Lookup(text)
	u.dimText = text
	return u
}

// NewOperator returns an operator unit of the given type.
func NewOperator(t Type) *LexicalUnit {
	return newUnit(t)
}

// NewFunction returns a function-like unit that owns params. params must be
// the head of a detached chain, or nil for an empty argument list. It
// panics with an ErrOwnership error if params belongs to another chain.
func NewFunction(t Type, name string, params *LexicalUnit) *LexicalUnit {
	if params != nil {
		if err := detached(params); err != nil {
			panic(err)
		}
	}
	u := newUnit(t)
	u.name = name
	u.adopt(params)
	return u
}

// NewMathFunction returns a MATH_FUNCTION unit for the named function.
func NewMathFunction(name string, params *LexicalUnit) *LexicalUnit {
	u := NewFunction(MathFunction, name, params)
	u.mathFn, _ = LookupMathFunc(name)
	return u
}

// NewCompatIdent returns a COMPAT_IDENT unit holding legacy text verbatim.
func NewCompatIdent(text string) *LexicalUnit {
	u := newUnit(CompatIdent)
	u.str = text
	return u
}

// NewCompatPrio returns a COMPAT_PRIO unit for a legacy "!ie" priority.
func NewCompatPrio() *LexicalUnit {
	u := newUnit(CompatPrio)
	u.str = "!ie"
	return u
}

// NewElementReference returns an ELEMENT_REFERENCE unit for element(#id).
func NewElementReference(id string) *LexicalUnit {
	u := newUnit(ElementReference)
	u.name = "element"
	u.str = id
	return u
}

// adopt makes params the parameter chain of u.
func (u *LexicalUnit) adopt(params *LexicalUnit) {
	u.params = params
	for p := params; p != nil; p = p.next {
		p.owner = u
	}
}

// Type returns the type of the unit.
func (u *LexicalUnit) Type() Type { return u.typ }

// Position returns the position in the source where the unit started.
func (u *LexicalUnit) Position() token.Pos { return u.pos }

// SetPosition sets the source position of the unit.
func (u *LexicalUnit) SetPosition(pos token.Pos) { u.pos = pos }

// ContextIndex returns the index of a color component within its color
// function, or -1 when not set.
func (u *LexicalUnit) ContextIndex() int { return u.ctxIndex }

// SetContextIndex sets the color component index.
func (u *LexicalUnit) SetContextIndex(i int) { u.ctxIndex = i }

// Next returns the following sibling or nil.
func (u *LexicalUnit) Next() *LexicalUnit { return u.next }

// Previous returns the preceding sibling or nil.
func (u *LexicalUnit) Previous() *LexicalUnit { return u.prev }

// Parameters returns the head of the parameter chain or nil.
func (u *LexicalUnit) Parameters() *LexicalUnit { return u.params }

// Owner returns the function-like unit whose parameter chain contains u.
func (u *LexicalUnit) Owner() *LexicalUnit { return u.owner }

// IsParameter returns true if u belongs to a parameter chain.
func (u *LexicalUnit) IsParameter() bool { return u.owner != nil }

// IntegerValue returns the value of an INTEGER unit.
func (u *LexicalUnit) IntegerValue() int { return int(u.num) }

// FloatValue returns the numeric value of a numeric unit.
func (u *LexicalUnit) FloatValue() float64 { return u.num }

// Unit returns the unit code of a numeric unit.
func (u *LexicalUnit) Unit() unit.Code { return u.unit }

// DimensionUnitText returns the unit text of a DIMENSION as written.
func (u *LexicalUnit) DimensionUnitText() string {
	if u.typ == Percentage {
		return "%"
	}
	return u.dimText
}

// StringValue returns the payload of identifiers, strings, URIs, unicode
// ranges and compat values.
func (u *LexicalUnit) StringValue() string { return u.str }

// FunctionName returns the name of a function-like unit.
func (u *LexicalUnit) FunctionName() string { return u.name }

// MathFunc returns the math function identifier of a MATH_FUNCTION unit.
func (u *LexicalUnit) MathFunc() MathFunc { return u.mathFn }

// Len returns the number of units from u to the end of its chain.
func (u *LexicalUnit) Len() int {
	n := 0
	for ; u != nil; u = u.next {
		n++
	}
	return n
}

// Last returns the last unit of the chain containing u.
func (u *LexicalUnit) Last() *LexicalUnit {
	for u.next != nil {
		u = u.next
	}
	return u
}

// Chain accumulates units into a detached chain.
type Chain struct {
	head, tail *LexicalUnit
	n          int
}

// Append links u, and anything following it, at the end of the chain.
// Like NewFunction it panics if u belongs to another chain, or to this one.
func (c *Chain) Append(u *LexicalUnit) {
	if u == nil {
		return
	}
	if err := detached(u); err != nil {
		panic(err)
	}
	if u == c.head {
		panic(fmt.Errorf("%w: unit chain contains the receiver", ErrOwnership))
	}
	if c.tail == nil {
		c.head = u
	} else {
		c.tail.next = u
		u.prev = c.tail
	}
	for c.tail = u; ; c.tail = c.tail.next {
		c.n++
		if c.tail.next == nil {
			break
		}
	}
}

// Head returns the first unit of the chain.
func (c *Chain) Head() *LexicalUnit { return c.head }

// Tail returns the last unit of the chain.
func (c *Chain) Tail() *LexicalUnit { return c.tail }

// Len returns the number of units in the chain.
func (c *Chain) Len() int { return c.n }
