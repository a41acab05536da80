// Package ast holds the syntax trees produced by the parser: the component
// values a rule is read into, and the selector, page selector, media query
// and condition models built from them.
package ast

import (
	"bytes"

	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

// Node represents a node in the CSS abstract syntax tree.
type Node interface {
	node()
	String() string
}

func (_ *AtRule) node()         {}
func (_ *QualifiedRule) node()  {}
func (_ *Declaration) node()    {}
func (_ ComponentValues) node() {}
func (_ *SimpleBlock) node()    {}
func (_ *Function) node()       {}
func (_ *Token) node()          {}

// Rule represents a qualified rule or at-rule.
type Rule interface {
	Node
	rule()
	Position() token.Pos
}

func (_ *AtRule) rule()        {}
func (_ *QualifiedRule) rule() {}

// AtRule represents a rule starting with an "@" symbol.
type AtRule struct {
	Name    string
	Pos     token.Pos
	Prelude ComponentValues
	Block   *SimpleBlock
}

func (r *AtRule) Position() token.Pos { return r.Pos }

// String returns the rule as it was written, comments included.
func (r *AtRule) String() string {
	var buf bytes.Buffer
	buf.WriteString("@" + token.EscapeIdent(r.Name))
	buf.WriteString(r.Prelude.String())
	if r.Block != nil {
		buf.WriteString(r.Block.String())
	} else {
		buf.WriteString(";")
	}
	return buf.String()
}

// QualifiedRule represents an unnamed rule that includes a prelude and block.
type QualifiedRule struct {
	Pos     token.Pos
	Prelude ComponentValues
	Block   *SimpleBlock
}

func (r *QualifiedRule) Position() token.Pos { return r.Pos }

func (r *QualifiedRule) String() string {
	return r.Prelude.String() + r.Block.String()
}

// Declaration represents a name/value pair. Values holds the value as
// read, without the priority, and Value the lexical units parsed from it.
type Declaration struct {
	Name      string
	Pos       token.Pos
	Values    ComponentValues
	Value     *value.LexicalUnit
	Important bool
}

func (d *Declaration) String() string {
	s := d.Name + ":" + d.Values.String()
	if d.Important {
		s += "!important"
	}
	return s
}

// ComponentValues represents a list of component values.
type ComponentValues []ComponentValue

func (a ComponentValues) String() string {
	var buf bytes.Buffer
	for _, v := range a {
		buf.WriteString(v.String())
	}
	return buf.String()
}

// Position returns the position of the first value, or the zero position.
func (a ComponentValues) Position() token.Pos {
	if len(a) == 0 {
		return token.Pos{}
	}
	return a[0].Position()
}

// TrimSpace returns a without leading and trailing whitespace and comments.
func (a ComponentValues) TrimSpace() ComponentValues {
	for len(a) > 0 && IsSpace(a[0]) {
		a = a[1:]
	}
	for len(a) > 0 && IsSpace(a[len(a)-1]) {
		a = a[:len(a)-1]
	}
	return a
}

// IsSpace returns true if v is a whitespace or comment token.
func IsSpace(v ComponentValue) bool {
	if t, ok := v.(*Token); ok {
		switch t.Token.(type) {
		case *token.Whitespace, *token.Comment:
			return true
		}
	}
	return false
}

// ComponentValue represents a component value.
type ComponentValue interface {
	Node
	componentValue()
	Position() token.Pos
}

func (_ *SimpleBlock) componentValue() {}
func (_ *Function) componentValue()    {}
func (_ *Token) componentValue()       {}

// SimpleBlock represents a {-block, [-block, or (-block. End is the closing
// token, or the EOF token when the block ran to the end of the input.
type SimpleBlock struct {
	Token  token.Token
	Values ComponentValues
	End    token.Token
}

func (b *SimpleBlock) Position() token.Pos { return b.Token.Position() }

// EndPosition returns the position of the closing token.
func (b *SimpleBlock) EndPosition() token.Pos { return endPosition(b.End) }

// Closed returns false if the block ran to the end of the input.
func (b *SimpleBlock) Closed() bool { return closed(b.End) }

func (b *SimpleBlock) String() string {
	var open, close string
	switch b.Token.(type) {
	case *token.LBrace:
		open, close = "{", "}"
	case *token.LBrack:
		open, close = "[", "]"
	case *token.LParen:
		open, close = "(", ")"
	default:
		return "<>"
	}
	if !b.Closed() {
		close = ""
	}
	return open + b.Values.String() + close
}

// Function represents a function call with a list of arguments. End is the
// closing parenthesis or the EOF token.
type Function struct {
	Name   string
	Pos    token.Pos
	Values ComponentValues
	End    token.Token
}

func (f *Function) Position() token.Pos { return f.Pos }

// EndPosition returns the position of the closing parenthesis.
func (f *Function) EndPosition() token.Pos { return endPosition(f.End) }

// Closed returns false if the function ran to the end of the input.
func (f *Function) Closed() bool { return closed(f.End) }

func (f *Function) String() string {
	s := token.EscapeIdent(f.Name) + "(" + f.Values.String()
	if f.Closed() {
		s += ")"
	}
	return s
}

// Token represents a single token in the AST.
type Token struct {
	token.Token
}

func (t *Token) String() string {
	return t.Token.String()
}

func endPosition(end token.Token) token.Pos {
	if end == nil {
		return token.Pos{}
	}
	return end.Position()
}

func closed(end token.Token) bool {
	if end == nil {
		return false
	}
	_, eof := end.(*token.EOF)
	return !eof
}
