package token

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// EscapeIdent returns s serialized as a CSS identifier, escaping any code
// point that could not appear literally.
func EscapeIdent(s string) string {
	if s == "" {
		return ""
	}
	if s == "-" {
		return `\-`
	}
	if !strings.ContainsRune(s, '\\') && css.IsIdent([]byte(s)) && !needsEscape(s) {
		return s
	}

	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == 0:
			sb.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			writeHexEscape(&sb, r)
		case i == 0 && isDigit(r):
			writeHexEscape(&sb, r)
		case i == 1 && s[0] == '-' && isDigit(r):
			writeHexEscape(&sb, r)
		case isNameRune(r):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// EscapeName serializes s as a CSS name, which is an identifier without the
// restrictions on its first code points.
func EscapeName(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == 0:
			sb.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			writeHexEscape(&sb, r)
		case isNameRune(r):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// QuoteString serializes s as a CSS string delimited by quote. A zero quote
// selects double quotes.
func QuoteString(s string, quote rune) string {
	if quote != '\'' {
		quote = '"'
	}
	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == 0:
			sb.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			writeHexEscape(&sb, r)
		case r == quote || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}

func writeHexEscape(sb *strings.Builder, r rune) {
	sb.WriteByte('\\')
	sb.WriteString(strconv.FormatInt(int64(r), 16))
	sb.WriteByte(' ')
}

// needsEscape catches the cases the identifier check lets through but which
// must still be escaped when written back.
func needsEscape(s string) bool {
	for _, r := range s {
		if !isNameRune(r) {
			return true
		}
	}
	return false
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '-' || r == '_' || r >= 0x80
}
