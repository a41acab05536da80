package ast

import (
	"strconv"
	"strings"

	"github.com/benbjohnson/go-css/token"
)

// SelectorList is a comma separated list of complex selectors.
type SelectorList []*Selector

func (l SelectorList) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Equal returns true if both lists hold equal selectors in the same order.
func (l SelectorList) Equal(m SelectorList) bool {
	if len(l) != len(m) {
		return false
	}
	for i := range l {
		if !l[i].Equal(m[i]) {
			return false
		}
	}
	return true
}

// Combinator joins two compound selectors.
type Combinator uint8

const (
	Descendant Combinator = iota
	Child
	NextSibling
	SubsequentSibling
	ColumnCombinator
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case NextSibling:
		return "+"
	case SubsequentSibling:
		return "~"
	case ColumnCombinator:
		return "||"
	}
	return " "
}

// Selector is a complex selector: compound selectors joined by combinators.
//
// The Combinator of each compound links it to the previous one. On the
// first compound it is the leading combinator of a relative selector and is
// only meaningful when Relative is set.
type Selector struct {
	Relative  bool
	Compounds []*CompoundSelector
}

func (s *Selector) String() string {
	var sb strings.Builder
	for i, c := range s.Compounds {
		switch {
		case i == 0 && s.Relative:
			sb.WriteString(c.Combinator.String())
			sb.WriteByte(' ')
		case i > 0 && c.Combinator == Descendant:
			sb.WriteByte(' ')
		case i > 0:
			sb.WriteByte(' ')
			sb.WriteString(c.Combinator.String())
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Equal returns true if s and o have the same structure.
func (s *Selector) Equal(o *Selector) bool {
	if s.Relative != o.Relative || len(s.Compounds) != len(o.Compounds) {
		return false
	}
	for i, c := range s.Compounds {
		if !c.Equal(o.Compounds[i]) {
			return false
		}
	}
	return true
}

// HasNesting returns true if the selector contains "&" at any depth.
func (s *Selector) HasNesting() bool {
	for _, c := range s.Compounds {
		for _, sub := range c.Subclasses {
			switch sub := sub.(type) {
			case *NestingSelector:
				return true
			case *PseudoClass:
				for _, inner := range sub.Selectors {
					if inner.HasNesting() {
						return true
					}
				}
			}
		}
	}
	return false
}

// Specificity returns the (id, class, type) specificity of the selector.
func (s *Selector) Specificity() (a, b, c int) {
	for _, cs := range s.Compounds {
		if cs.Type != nil && cs.Type.Name != "*" {
			c++
		}
		for _, sub := range cs.Subclasses {
			switch sub := sub.(type) {
			case *IDSelector:
				a++
			case *ClassSelector, *AttributeSelector:
				b++
			case *PseudoElement:
				c++
			case *PseudoClass:
				switch strings.ToLower(sub.Name) {
				case "where":
				case "is", "not", "has", "matches":
					a2, b2, c2 := sub.Selectors.maxSpecificity()
					a, b, c = a+a2, b+b2, c+c2
				default:
					b++
					if sub.Nth != nil && len(sub.Selectors) > 0 {
						a2, b2, c2 := sub.Selectors.maxSpecificity()
						a, b, c = a+a2, b+b2, c+c2
					}
				}
			}
		}
	}
	return a, b, c
}

func (l SelectorList) maxSpecificity() (a, b, c int) {
	for _, s := range l {
		a2, b2, c2 := s.Specificity()
		if a2 > a || (a2 == a && (b2 > b || (b2 == b && c2 > c))) {
			a, b, c = a2, b2, c2
		}
	}
	return a, b, c
}

// CompoundSelector is a sequence of simple selectors not separated by a
// combinator.
type CompoundSelector struct {
	Combinator Combinator
	Type       *TypeSelector
	Subclasses []SimpleSelector
}

func (c *CompoundSelector) String() string {
	var sb strings.Builder
	if c.Type != nil {
		sb.WriteString(c.Type.String())
	}
	for _, s := range c.Subclasses {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Equal returns true if c and o hold equal simple selectors.
func (c *CompoundSelector) Equal(o *CompoundSelector) bool {
	if c.Combinator != o.Combinator || len(c.Subclasses) != len(o.Subclasses) {
		return false
	}
	if (c.Type == nil) != (o.Type == nil) || (c.Type != nil && *c.Type != *o.Type) {
		return false
	}
	for i, s := range c.Subclasses {
		if !equalSimple(s, o.Subclasses[i]) {
			return false
		}
	}
	return true
}

// SimpleSelector is a selector that is not a type selector: id, class,
// attribute, pseudo-class, pseudo-element or nesting.
type SimpleSelector interface {
	Node
	simpleSelector()
}

func (_ *IDSelector) simpleSelector()        {}
func (_ *ClassSelector) simpleSelector()     {}
func (_ *AttributeSelector) simpleSelector() {}
func (_ *PseudoClass) simpleSelector()       {}
func (_ *PseudoElement) simpleSelector()     {}
func (_ *NestingSelector) simpleSelector()   {}

func (_ SelectorList) node()       {}
func (_ *Selector) node()          {}
func (_ *CompoundSelector) node()  {}
func (_ *TypeSelector) node()      {}
func (_ *IDSelector) node()        {}
func (_ *ClassSelector) node()     {}
func (_ *AttributeSelector) node() {}
func (_ *PseudoClass) node()       {}
func (_ *PseudoElement) node()     {}
func (_ *NestingSelector) node()   {}

// TypeSelector matches an element name, or any element when Name is "*".
// HasPrefix is set when the selector was written with a namespace prefix;
// an empty Prefix then stands for "|name". NamespaceURI is the resolved
// namespace, which may come from a default namespace declaration.
type TypeSelector struct {
	HasPrefix    bool
	Prefix       string
	NamespaceURI string
	Name         string
}

func (s *TypeSelector) String() string {
	return prefixString(s.HasPrefix, s.Prefix) + nameString(s.Name)
}

type IDSelector struct {
	Name string
}

func (s *IDSelector) String() string { return "#" + token.EscapeIdent(s.Name) }

type ClassSelector struct {
	Name string
}

func (s *ClassSelector) String() string { return "." + token.EscapeIdent(s.Name) }

// AttributeOp is the matching operator of an attribute selector.
type AttributeOp uint8

const (
	AttrExists    AttributeOp = iota // [a]
	AttrEquals                       // [a=v]
	AttrIncludes                     // [a~=v]
	AttrDashMatch                    // [a|=v]
	AttrPrefix                       // [a^=v]
	AttrSuffix                       // [a$=v]
	AttrSubstring                    // [a*=v]
)

func (op AttributeOp) String() string {
	switch op {
	case AttrEquals:
		return "="
	case AttrIncludes:
		return "~="
	case AttrDashMatch:
		return "|="
	case AttrPrefix:
		return "^="
	case AttrSuffix:
		return "$="
	case AttrSubstring:
		return "*="
	}
	return ""
}

// AttributeSelector matches an attribute. Modifier is 0, 'i' or 's'.
type AttributeSelector struct {
	HasPrefix    bool
	Prefix       string
	NamespaceURI string
	Name         string
	Op           AttributeOp
	Value        string
	Modifier     rune
}

func (s *AttributeSelector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(prefixString(s.HasPrefix, s.Prefix))
	sb.WriteString(token.EscapeIdent(s.Name))
	if s.Op != AttrExists {
		sb.WriteString(s.Op.String())
		sb.WriteString(token.QuoteString(s.Value, '"'))
		if s.Modifier != 0 {
			sb.WriteByte(' ')
			sb.WriteRune(s.Modifier)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// PseudoClass is ":name" or a functional pseudo-class. A functional
// pseudo-class carries either a selector list, an An+B expression with an
// optional "of" selector list, or its argument text.
type PseudoClass struct {
	Name      string
	Function  bool
	Selectors SelectorList
	Nth       *Nth
	Args      string
}

func (s *PseudoClass) String() string {
	if !s.Function {
		return ":" + token.EscapeIdent(s.Name)
	}
	var arg string
	switch {
	case s.Nth != nil:
		arg = s.Nth.String()
		if len(s.Selectors) > 0 {
			arg += " of " + s.Selectors.String()
		}
	case s.Selectors != nil:
		arg = s.Selectors.String()
	default:
		arg = s.Args
	}
	return ":" + token.EscapeIdent(s.Name) + "(" + arg + ")"
}

// PseudoElement is "::name". Legacy is set for the CSS2 pseudo-elements
// written with a single colon.
type PseudoElement struct {
	Name     string
	Legacy   bool
	Function bool
	Args     string
}

func (s *PseudoElement) String() string {
	colons := "::"
	if s.Legacy {
		colons = ":"
	}
	name := colons + token.EscapeIdent(s.Name)
	if s.Function {
		name += "(" + s.Args + ")"
	}
	return name
}

// NestingSelector is "&", the parent rule's selector in a nested rule.
type NestingSelector struct{}

func (s *NestingSelector) String() string { return "&" }

// Nth is an An+B expression.
type Nth struct {
	A, B int
}

func (n *Nth) String() string {
	switch {
	case n.A == 0:
		return strconv.Itoa(n.B)
	case n.B == 0:
		return aString(n.A)
	case n.B > 0:
		return aString(n.A) + "+" + strconv.Itoa(n.B)
	}
	return aString(n.A) + strconv.Itoa(n.B)
}

func aString(a int) string {
	switch a {
	case 1:
		return "n"
	case -1:
		return "-n"
	}
	return strconv.Itoa(a) + "n"
}

func equalSimple(a, b SimpleSelector) bool {
	switch a := a.(type) {
	case *IDSelector:
		b, ok := b.(*IDSelector)
		return ok && *a == *b
	case *ClassSelector:
		b, ok := b.(*ClassSelector)
		return ok && *a == *b
	case *AttributeSelector:
		b, ok := b.(*AttributeSelector)
		return ok && *a == *b
	case *PseudoElement:
		b, ok := b.(*PseudoElement)
		return ok && *a == *b
	case *NestingSelector:
		_, ok := b.(*NestingSelector)
		return ok
	case *PseudoClass:
		b, ok := b.(*PseudoClass)
		if !ok || a.Name != b.Name || a.Function != b.Function || a.Args != b.Args {
			return false
		}
		if (a.Nth == nil) != (b.Nth == nil) || (a.Nth != nil && *a.Nth != *b.Nth) {
			return false
		}
		return a.Selectors.Equal(b.Selectors)
	}
	return false
}

func prefixString(has bool, prefix string) string {
	if !has {
		return ""
	}
	return nameString(prefix) + "|"
}

func nameString(s string) string {
	if s == "*" {
		return s
	}
	return token.EscapeIdent(s)
}
