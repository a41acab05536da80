package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"github.com/benbjohnson/go-css/token"
)

// String returns the CSS text of u and the units following it.
func (u *LexicalUnit) String() string {
	if u == nil {
		return ""
	}
	var sb strings.Builder
	writeChain(&sb, u, u.owner)
	return sb.String()
}

// CSSText returns the CSS text of u alone.
func (u *LexicalUnit) CSSText() string {
	var sb strings.Builder
	u.write(&sb)
	return sb.String()
}

// chainStyle controls spacing around operators inside a parameter chain.
type chainStyle uint8

const (
	styleDefault chainStyle = iota
	styleMath               // spaced arithmetic operators
	styleColor              // spaced alpha slash
)

func styleOf(owner *LexicalUnit) chainStyle {
	if owner == nil {
		return styleDefault
	}
	switch t := owner.typ; {
	case t == Calc || t == SubExpression || t == MathFunction:
		return styleMath
	case t.IsColor():
		return styleColor
	}
	return styleDefault
}

func writeChain(sb *strings.Builder, u, owner *LexicalUnit) {
	style := styleOf(owner)
	for prev := (*LexicalUnit)(nil); u != nil; prev, u = u, u.next {
		if prev != nil {
			sb.WriteString(separator(prev, u, style))
		}
		u.write(sb)
	}
}

// separator returns the text placed between two adjacent units.
func separator(prev, cur *LexicalUnit, style chainStyle) string {
	switch {
	case cur.typ == OperatorComma:
		return ""
	case cur.typ == Empty:
		return ""
	case prev.typ == OperatorComma:
		return " "
	case prev.typ == LeftBracket || cur.typ == RightBracket:
		return ""
	case prev.typ == OperatorSlash || cur.typ == OperatorSlash:
		if style == styleDefault {
			return ""
		}
		return " "
	}
	return " "
}

func (u *LexicalUnit) write(sb *strings.Builder) {
	switch u.typ {
	case Empty:
	case Inherit:
		sb.WriteString("inherit")
	case Initial:
		sb.WriteString("initial")
	case Unset:
		sb.WriteString("unset")
	case Revert:
		sb.WriteString("revert")
	case RevertLayer:
		sb.WriteString("revert-layer")
	case Ident:
		sb.WriteString(token.EscapeIdent(u.str))
	case String:
		sb.WriteString(token.QuoteString(u.str, u.quote))
	case URI:
		sb.WriteString("url(")
		if u.str != "" && css.IsURLUnquoted([]byte(u.str)) {
			sb.WriteString(u.str)
		} else {
			sb.WriteString(token.QuoteString(u.str, '\''))
		}
		sb.WriteString(")")
	case UnicodeRange, UnicodeWildcard:
		sb.WriteString("U+")
		sb.WriteString(u.str)
	case Integer:
		sb.WriteString(strconv.Itoa(int(u.num)))
	case Real:
		sb.WriteString(FormatNumber(u.num))
	case Percentage:
		sb.WriteString(FormatNumber(u.num))
		sb.WriteString("%")
	case Dimension:
		sb.WriteString(FormatNumber(u.num))
		sb.WriteString(token.EscapeName(u.dimText))
	case OperatorComma:
		sb.WriteString(",")
	case OperatorPlus:
		sb.WriteString("+")
	case OperatorMinus:
		sb.WriteString("-")
	case OperatorMultiply:
		sb.WriteString("*")
	case OperatorSlash:
		sb.WriteString("/")
	case OperatorExp:
		sb.WriteString("^")
	case OperatorTilde:
		sb.WriteString("~")
	case OperatorLT:
		sb.WriteString("<")
	case OperatorGT:
		sb.WriteString(">")
	case OperatorLE:
		sb.WriteString("<=")
	case OperatorGE:
		sb.WriteString(">=")
	case OperatorEQ:
		sb.WriteString("=")
	case LeftBracket:
		sb.WriteString("[")
	case RightBracket:
		sb.WriteString("]")
	case SubExpression:
		sb.WriteString("(")
		writeChain(sb, u.params, u)
		sb.WriteString(")")
	case ElementReference:
		sb.WriteString("element(#")
		sb.WriteString(token.EscapeName(u.str))
		sb.WriteString(")")
	case CompatIdent, CompatPrio:
		sb.WriteString(u.str)
	default:
		if u.cssText != "" {
			sb.WriteString(u.cssText)
			return
		}
		sb.WriteString(token.EscapeIdent(u.name))
		sb.WriteString("(")
		writeChain(sb, u.params, u)
		sb.WriteString(")")
	}
}

// FormatNumber formats f the shortest way that reads back to the same value.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "infinity"
	case math.IsInf(f, -1):
		return "-infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
