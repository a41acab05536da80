package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Token represents a lexical token.
type Token interface {
	token()

	// Position returns the position of the first character of the token.
	Position() Pos

	// String returns the token as CSS source text.
	String() string
}

func (_ *Ident) token()          {}
func (_ *Function) token()       {}
func (_ *AtKeyword) token()      {}
func (_ *Hash) token()           {}
func (_ *String) token()         {}
func (_ *BadString) token()      {}
func (_ *URL) token()            {}
func (_ *BadURL) token()         {}
func (_ *Delim) token()          {}
func (_ *Number) token()         {}
func (_ *Percentage) token()     {}
func (_ *Dimension) token()      {}
func (_ *UnicodeRange) token()   {}
func (_ *IncludeMatch) token()   {}
func (_ *DashMatch) token()      {}
func (_ *PrefixMatch) token()    {}
func (_ *SuffixMatch) token()    {}
func (_ *SubstringMatch) token() {}
func (_ *Column) token()         {}
func (_ *Whitespace) token()     {}
func (_ *Comment) token()        {}
func (_ *CDO) token()            {}
func (_ *CDC) token()            {}
func (_ *Colon) token()          {}
func (_ *Semicolon) token()      {}
func (_ *Comma) token()          {}
func (_ *LBrack) token()         {}
func (_ *RBrack) token()         {}
func (_ *LParen) token()         {}
func (_ *RParen) token()         {}
func (_ *LBrace) token()         {}
func (_ *RBrace) token()         {}
func (_ *EOF) token()            {}

// Numeric type flags.
const (
	Integer = "integer"
	Real    = "number"
)

type Ident struct {
	Value string
	Pos   Pos
}

type Function struct {
	Value string
	Pos   Pos
}

type AtKeyword struct {
	Value string
	Pos   Pos
}

// Hash is a "#" followed by a name. Type is "id" when the name is a valid
// identifier and "unrestricted" otherwise.
type Hash struct {
	Type  string
	Value string
	Pos   Pos
}

type String struct {
	Ending rune
	Value  string
	Pos    Pos
}

type BadString struct {
	Pos Pos
}

type URL struct {
	Value string
	Pos   Pos
}

type BadURL struct {
	Pos Pos
}

type Delim struct {
	Value string
	Pos   Pos
}

// Number is a numeric literal. Value holds the literal as written.
type Number struct {
	Type   string
	Number float64
	Value  string
	Pos    Pos
}

type Percentage struct {
	Type   string
	Number float64
	Value  string
	Pos    Pos
}

// Dimension is a number followed by a unit. Value holds the number as
// written and Unit holds the decoded unit name.
type Dimension struct {
	Type   string
	Number float64
	Unit   string
	Value  string
	Pos    Pos
}

// UnicodeRange is a "U+" range. Value keeps the text after "U+" so that
// wildcard ranges can be reproduced.
type UnicodeRange struct {
	Start int
	End   int
	Value string
	Pos   Pos
}

// Wildcard returns true if the range was written with "?" characters.
func (t *UnicodeRange) Wildcard() bool {
	return strings.ContainsRune(t.Value, '?')
}

type IncludeMatch struct {
	Pos Pos
}
type DashMatch struct {
	Pos Pos
}
type PrefixMatch struct {
	Pos Pos
}
type SuffixMatch struct {
	Pos Pos
}
type SubstringMatch struct {
	Pos Pos
}

type Column struct {
	Pos Pos
}

type Whitespace struct {
	Value string
	Pos   Pos
}

// Comment holds the text between "/*" and "*/". NewlineBefore is set when
// the whitespace immediately preceding the comment contained a line break.
type Comment struct {
	Value         string
	NewlineBefore bool
	Pos           Pos
}

type CDO struct {
	Pos Pos
}
type CDC struct {
	Pos Pos
}

type Colon struct {
	Pos Pos
}
type Semicolon struct {
	Pos Pos
}
type Comma struct {
	Pos Pos
}
type LBrack struct {
	Pos Pos
}
type RBrack struct {
	Pos Pos
}
type LParen struct {
	Pos Pos
}
type RParen struct {
	Pos Pos
}
type LBrace struct {
	Pos Pos
}
type RBrace struct {
	Pos Pos
}

type EOF struct {
	Pos Pos
}

func (t *Ident) Position() Pos          { return t.Pos }
func (t *Function) Position() Pos       { return t.Pos }
func (t *AtKeyword) Position() Pos      { return t.Pos }
func (t *Hash) Position() Pos           { return t.Pos }
func (t *String) Position() Pos         { return t.Pos }
func (t *BadString) Position() Pos      { return t.Pos }
func (t *URL) Position() Pos            { return t.Pos }
func (t *BadURL) Position() Pos         { return t.Pos }
func (t *Delim) Position() Pos          { return t.Pos }
func (t *Number) Position() Pos         { return t.Pos }
func (t *Percentage) Position() Pos     { return t.Pos }
func (t *Dimension) Position() Pos      { return t.Pos }
func (t *UnicodeRange) Position() Pos   { return t.Pos }
func (t *IncludeMatch) Position() Pos   { return t.Pos }
func (t *DashMatch) Position() Pos      { return t.Pos }
func (t *PrefixMatch) Position() Pos    { return t.Pos }
func (t *SuffixMatch) Position() Pos    { return t.Pos }
func (t *SubstringMatch) Position() Pos { return t.Pos }
func (t *Column) Position() Pos         { return t.Pos }
func (t *Whitespace) Position() Pos     { return t.Pos }
func (t *Comment) Position() Pos        { return t.Pos }
func (t *CDO) Position() Pos            { return t.Pos }
func (t *CDC) Position() Pos            { return t.Pos }
func (t *Colon) Position() Pos          { return t.Pos }
func (t *Semicolon) Position() Pos      { return t.Pos }
func (t *Comma) Position() Pos          { return t.Pos }
func (t *LBrack) Position() Pos         { return t.Pos }
func (t *RBrack) Position() Pos         { return t.Pos }
func (t *LParen) Position() Pos         { return t.Pos }
func (t *RParen) Position() Pos         { return t.Pos }
func (t *LBrace) Position() Pos         { return t.Pos }
func (t *RBrace) Position() Pos         { return t.Pos }
func (t *EOF) Position() Pos            { return t.Pos }

func (t *Ident) String() string     { return EscapeIdent(t.Value) }
func (t *Function) String() string  { return EscapeIdent(t.Value) + "(" }
func (t *AtKeyword) String() string { return "@" + EscapeIdent(t.Value) }
func (t *Hash) String() string      { return "#" + EscapeName(t.Value) }
func (t *String) String() string    { return QuoteString(t.Value, t.Ending) }
func (t *BadString) String() string { return `"` }
func (t *URL) String() string       { return "url(" + QuoteString(t.Value, '"') + ")" }
func (t *BadURL) String() string    { return "url()" }
func (t *Delim) String() string {
	if t.Value == `\` {
		return "\\\n"
	}
	return t.Value
}
func (t *Number) String() string     { return t.Value }
func (t *Percentage) String() string { return t.Value + "%" }
func (t *Dimension) String() string {
	u := EscapeName(t.Unit)
	// A unit starting with "e" followed by a digit or sign would read as an exponent.
	if len(t.Unit) > 0 && (t.Unit[0] == 'e' || t.Unit[0] == 'E') && len(t.Unit) > 1 && (t.Unit[1] == '-' || t.Unit[1] == '+' || isDigit(rune(t.Unit[1]))) {
		u = `\` + strconv.FormatInt(int64(t.Unit[0]), 16) + " " + EscapeName(t.Unit[1:])
	}
	return t.Value + u
}
func (t *UnicodeRange) String() string   { return "U+" + t.Value }
func (t *IncludeMatch) String() string   { return "~=" }
func (t *DashMatch) String() string      { return "|=" }
func (t *PrefixMatch) String() string    { return "^=" }
func (t *SuffixMatch) String() string    { return "$=" }
func (t *SubstringMatch) String() string { return "*=" }
func (t *Column) String() string         { return "||" }
func (t *Whitespace) String() string     { return t.Value }
func (t *Comment) String() string        { return "/*" + t.Value + "*/" }
func (t *CDO) String() string            { return "<!--" }
func (t *CDC) String() string            { return "-->" }
func (t *Colon) String() string          { return ":" }
func (t *Semicolon) String() string      { return ";" }
func (t *Comma) String() string          { return "," }
func (t *LBrack) String() string         { return "[" }
func (t *RBrack) String() string         { return "]" }
func (t *LParen) String() string         { return "(" }
func (t *RParen) String() string         { return ")" }
func (t *LBrace) String() string         { return "{" }
func (t *RBrace) String() string         { return "}" }
func (t *EOF) String() string            { return "" }

// Pos specifies the line and column position of a token.
// Both are one-based. Columns are counted in UTF-16 code units so a code
// point outside the Basic Multilingual Plane advances the column by two.
type Pos struct {
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position has been set.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Before returns true if p comes before q.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
