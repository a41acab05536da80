package ast

import (
	"strings"

	"github.com/benbjohnson/go-css/value"
)

// Condition is a node of a media or @supports boolean condition.
type Condition interface {
	Node
	condition()
	Equal(Condition) bool
}

func (_ *And) condition()                  {}
func (_ *Or) condition()                   {}
func (_ *Not) condition()                  {}
func (_ *Parens) condition()               {}
func (_ *Other) condition()                {}
func (_ *MediaFeature) condition()         {}
func (_ *DeclarationCondition) condition() {}
func (_ *SelectorFunction) condition()     {}
func (_ *FontTechFunction) condition()     {}
func (_ *FontFormatFunction) condition()   {}

func (_ *And) node()                  {}
func (_ *Or) node()                   {}
func (_ *Not) node()                  {}
func (_ *Parens) node()               {}
func (_ *Other) node()                {}
func (_ *MediaFeature) node()         {}
func (_ *DeclarationCondition) node() {}
func (_ *SelectorFunction) node()     {}
func (_ *FontTechFunction) node()     {}
func (_ *FontFormatFunction) node()   {}

// And holds two or more conditions joined by "and".
type And struct {
	Conditions []Condition
}

func (c *And) String() string { return joinConditions(c.Conditions, " and ") }

func (c *And) Equal(o Condition) bool {
	a, ok := o.(*And)
	return ok && equalConditions(c.Conditions, a.Conditions)
}

// Or holds two or more conditions joined by "or".
type Or struct {
	Conditions []Condition
}

func (c *Or) String() string { return joinConditions(c.Conditions, " or ") }

func (c *Or) Equal(o Condition) bool {
	a, ok := o.(*Or)
	return ok && equalConditions(c.Conditions, a.Conditions)
}

// Not negates a condition.
type Not struct {
	Condition Condition
}

func (c *Not) String() string { return "not " + c.Condition.String() }

func (c *Not) Equal(o Condition) bool {
	n, ok := o.(*Not)
	return ok && c.Condition.Equal(n.Condition)
}

// Parens is a parenthesized condition. Parentheses around a predicate or
// around other parentheses are redundant and are not serialized, but they
// still take part in equality.
type Parens struct {
	Condition Condition
}

func (c *Parens) String() string {
	switch c.Condition.(type) {
	case *And, *Or, *Not:
		return "(" + c.Condition.String() + ")"
	}
	return c.Condition.String()
}

func (c *Parens) Equal(o Condition) bool {
	p, ok := o.(*Parens)
	return ok && c.Condition.Equal(p.Condition)
}

// Other is a predicate that was not recognized. Text keeps its source.
type Other struct {
	Text string
}

func (c *Other) String() string { return c.Text }

func (c *Other) Equal(o Condition) bool {
	x, ok := o.(*Other)
	return ok && c.Text == x.Text
}

// RangeOp is a comparison operator of a range media feature.
type RangeOp uint8

const (
	OpNone RangeOp = iota
	OpLT
	OpLE
	OpGT
	OpGE
	OpEQ
)

func (op RangeOp) String() string {
	switch op {
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpEQ:
		return "="
	}
	return ""
}

// MediaFeature is a media feature test.
//
// A boolean test only has a Name. A plain test "(name: value)" sets Value.
// A range test sets Left and LeftOp for a value written before the name,
// and RightOp and Right for a value written after it.
type MediaFeature struct {
	Name    string
	Value   *value.LexicalUnit
	Left    *value.LexicalUnit
	LeftOp  RangeOp
	RightOp RangeOp
	Right   *value.LexicalUnit
}

// IsRange returns true for a range test.
func (c *MediaFeature) IsRange() bool {
	return c.LeftOp != OpNone || c.RightOp != OpNone
}

func (c *MediaFeature) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	if c.LeftOp != OpNone {
		sb.WriteString(c.Left.String())
		sb.WriteString(" " + c.LeftOp.String() + " ")
	}
	sb.WriteString(c.Name)
	switch {
	case c.RightOp != OpNone:
		sb.WriteString(" " + c.RightOp.String() + " ")
		sb.WriteString(c.Right.String())
	case c.Value != nil:
		sb.WriteString(": ")
		sb.WriteString(c.Value.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (c *MediaFeature) Equal(o Condition) bool {
	f, ok := o.(*MediaFeature)
	if !ok || c.Name != f.Name || c.LeftOp != f.LeftOp || c.RightOp != f.RightOp {
		return false
	}
	return equalUnits(c.Value, f.Value) && equalUnits(c.Left, f.Left) && equalUnits(c.Right, f.Right)
}

// DeclarationCondition is a "(property: value)" test of @supports.
type DeclarationCondition struct {
	Name      string
	Value     *value.LexicalUnit
	Important bool
}

func (c *DeclarationCondition) String() string {
	s := "(" + c.Name + ": " + c.Value.String()
	if c.Important {
		s += " !important"
	}
	return s + ")"
}

func (c *DeclarationCondition) Equal(o Condition) bool {
	d, ok := o.(*DeclarationCondition)
	return ok && c.Name == d.Name && c.Important == d.Important && equalUnits(c.Value, d.Value)
}

// SelectorFunction is a "selector(...)" test of @supports.
type SelectorFunction struct {
	Selector *Selector
}

func (c *SelectorFunction) String() string { return "selector(" + c.Selector.String() + ")" }

func (c *SelectorFunction) Equal(o Condition) bool {
	s, ok := o.(*SelectorFunction)
	return ok && c.Selector.Equal(s.Selector)
}

// FontTechFunction is a "font-tech(...)" test of @supports.
type FontTechFunction struct {
	Tech string
}

func (c *FontTechFunction) String() string { return "font-tech(" + c.Tech + ")" }

func (c *FontTechFunction) Equal(o Condition) bool {
	f, ok := o.(*FontTechFunction)
	return ok && c.Tech == f.Tech
}

// FontFormatFunction is a "font-format(...)" test of @supports.
type FontFormatFunction struct {
	Format string
}

func (c *FontFormatFunction) String() string { return "font-format(" + c.Format + ")" }

func (c *FontFormatFunction) Equal(o Condition) bool {
	f, ok := o.(*FontFormatFunction)
	return ok && c.Format == f.Format
}

func joinConditions(a []Condition, sep string) string {
	parts := make([]string, len(a))
	for i, c := range a {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}

func equalConditions(a, b []Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalUnits(a, b *value.LexicalUnit) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}
