package value

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/go-css/unit"
)

// Match is the outcome of matching a value against a syntax.
type Match uint8

const (
	MatchFalse Match = iota
	MatchTrue
	// MatchPending means the value holds a substitution function whose
	// resolution decides the outcome.
	MatchPending
)

func (m Match) String() string {
	switch m {
	case MatchTrue:
		return "true"
	case MatchPending:
		return "pending"
	}
	return "false"
}

// Multiplier repeats a syntax component.
type Multiplier uint8

const (
	MultiplierNone  Multiplier = iota
	MultiplierSpace            // "+"
	MultiplierComma            // "#"
)

// dataTypes lists the data type names accepted between angle brackets.
var dataTypes = map[string]bool{
	"angle":              true,
	"color":              true,
	"custom-ident":       true,
	"flex":               true,
	"frequency":          true,
	"image":              true,
	"integer":            true,
	"length":             true,
	"length-percentage":  true,
	"number":             true,
	"percentage":         true,
	"resolution":         true,
	"string":             true,
	"time":               true,
	"transform-function": true,
	"url":                true,
}

// SyntaxComponent is a data type or a literal identifier, with a multiplier.
type SyntaxComponent struct {
	DataType   string // empty for an identifier
	Ident      string
	Multiplier Multiplier
}

func (c SyntaxComponent) String() string {
	s := c.Ident
	if c.DataType != "" {
		s = "<" + c.DataType + ">"
	}
	switch c.Multiplier {
	case MultiplierSpace:
		s += "+"
	case MultiplierComma:
		s += "#"
	}
	return s
}

// Syntax is a registered custom property syntax such as "<length> | auto".
type Syntax struct {
	Universal    bool
	Alternatives []SyntaxComponent
}

// ParseSyntax parses the value of a "syntax" descriptor, without quotes.
func ParseSyntax(s string) (*Syntax, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty syntax")
	}
	if s == "*" {
		return &Syntax{Universal: true}, nil
	}

	syn := &Syntax{}
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty alternative in syntax %q", s)
		}

		var c SyntaxComponent
		switch part[len(part)-1] {
		case '+':
			c.Multiplier, part = MultiplierSpace, part[:len(part)-1]
		case '#':
			c.Multiplier, part = MultiplierComma, part[:len(part)-1]
		}

		if strings.HasPrefix(part, "<") {
			if !strings.HasSuffix(part, ">") {
				return nil, fmt.Errorf("unterminated data type in syntax %q", s)
			}
			name := part[1 : len(part)-1]
			if !dataTypes[name] {
				return nil, fmt.Errorf("unknown data type <%s>", name)
			}
			c.DataType = name
		} else {
			if strings.ContainsAny(part, " \t\n<>*") {
				return nil, fmt.Errorf("invalid identifier %q in syntax", part)
			}
			if isWideKeyword(part) {
				return nil, fmt.Errorf("CSS-wide keyword %q in syntax", part)
			}
			c.Ident = part
		}
		syn.Alternatives = append(syn.Alternatives, c)
	}
	return syn, nil
}

func (s *Syntax) String() string {
	if s.Universal {
		return "*"
	}
	parts := make([]string, len(s.Alternatives))
	for i, c := range s.Alternatives {
		parts[i] = c.String()
	}
	return strings.Join(parts, " | ")
}

// NewTypeFunction returns a TYPE_FUNCTION unit for "type(<syntax>)". The
// syntax text is available from StringValue.
func NewTypeFunction(syn *Syntax) *LexicalUnit {
	u := newUnit(TypeFunction)
	u.name = "type"
	u.str = syn.String()
	u.cssText = "type(" + u.str + ")"
	return u
}

func isWideKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "inherit", "initial", "unset", "revert", "revert-layer", "default":
		return true
	}
	return false
}

// Match matches the chain starting at u against syn.
func (u *LexicalUnit) Match(syn *Syntax) Match {
	if u == nil || syn == nil {
		return MatchFalse
	}
	if hasSubstitution(u) {
		return MatchPending
	}
	if syn.Universal {
		return MatchTrue
	}
	for _, c := range syn.Alternatives {
		if r := matchComponent(u, c); r != MatchFalse {
			return r
		}
	}
	return MatchFalse
}

func hasSubstitution(u *LexicalUnit) bool {
	for ; u != nil; u = u.next {
		if u.typ.IsSubstitution() || hasSubstitution(u.params) {
			return true
		}
	}
	return false
}

func matchComponent(u *LexicalUnit, c SyntaxComponent) Match {
	switch c.Multiplier {
	case MultiplierNone:
		if u.next != nil {
			return MatchFalse
		}
		return matchUnit(u, c)
	case MultiplierComma:
		result := MatchTrue
		for n := u; n != nil; n = n.next {
			r := matchUnit(n, c)
			if r == MatchFalse {
				return MatchFalse
			} else if r == MatchPending {
				result = MatchPending
			}
			if n = n.next; n == nil {
				break
			}
			if n.typ != OperatorComma || n.next == nil {
				return MatchFalse
			}
		}
		return result
	}

	result := MatchTrue
	for n := u; n != nil; n = n.next {
		r := matchUnit(n, c)
		if r == MatchFalse {
			return MatchFalse
		} else if r == MatchPending {
			result = MatchPending
		}
	}
	return result
}

func matchUnit(u *LexicalUnit, c SyntaxComponent) Match {
	if c.DataType == "" {
		return boolMatch(u.typ == Ident && u.str == c.Ident)
	}

	switch c.DataType {
	case "color":
		if u.typ == Ident {
			return boolMatch(IsColorKeyword(u.str))
		}
		return boolMatch(u.typ.IsColor())
	case "custom-ident":
		return boolMatch(u.typ == Ident && !isWideKeyword(u.str))
	case "string":
		return boolMatch(u.typ == String)
	case "url":
		return boolMatch(u.typ == URI)
	case "image":
		return boolMatch(u.typ == URI ||
			(u.typ == Function && strings.HasSuffix(strings.ToLower(u.name), "gradient")))
	case "transform-function":
		return boolMatch(u.typ == Function)
	case "integer":
		if u.typ == Integer {
			return MatchTrue
		}
	case "number":
		if u.typ == Integer || u.typ == Real {
			return MatchTrue
		}
	case "percentage":
		if u.typ == Percentage {
			return MatchTrue
		}
	case "length":
		if u.typ == Dimension && u.unit.IsLength() || u.typ == Integer && u.num == 0 {
			return MatchTrue
		}
	case "length-percentage":
		if u.typ == Dimension && u.unit.IsLength() || u.typ == Percentage || u.typ == Integer && u.num == 0 {
			return MatchTrue
		}
	default:
		if u.typ == Dimension && u.unit.Category() == categoryOf(c.DataType) {
			return MatchTrue
		}
	}

	if u.typ == Calc || u.typ == MathFunction {
		return matchExpression(u, c.DataType)
	}
	return MatchFalse
}

func matchExpression(u *LexicalUnit, dataType string) Match {
	cat, pending, err := ExpressionCategory(u)
	if err != nil {
		return MatchFalse
	}
	if pending {
		return MatchPending
	}
	switch dataType {
	case "integer", "number":
		return boolMatch(cat == unit.Number)
	case "length-percentage":
		return boolMatch(cat == unit.Length || cat == unit.Percentage)
	}
	return boolMatch(cat == categoryOf(dataType))
}

func categoryOf(dataType string) unit.Category {
	switch dataType {
	case "length":
		return unit.Length
	case "percentage":
		return unit.Percentage
	case "angle":
		return unit.Angle
	case "time":
		return unit.Time
	case "frequency":
		return unit.Frequency
	case "resolution":
		return unit.Resolution
	case "flex":
		return unit.Flex
	}
	return unit.Other
}

func boolMatch(b bool) Match {
	if b {
		return MatchTrue
	}
	return MatchFalse
}
