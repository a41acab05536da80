package value

import (
	"fmt"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// NewHexColor returns an RGBCOLOR unit for a hexadecimal color written as
// "#" followed by text. The channels become integer parameters, plus a real
// alpha when it is not opaque. The original text is kept for serialization.
func NewHexColor(text string) (*LexicalUnit, error) {
	switch len(text) {
	case 3, 4, 6, 8:
	default:
		return nil, fmt.Errorf("invalid hex color: #%s", text)
	}
	for _, r := range text {
		if !isHex(r) {
			return nil, fmt.Errorf("invalid hex color: #%s", text)
		}
	}

	c, err := csscolorparser.Parse("#" + text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color: #%s", text)
	}
	r, g, b, _ := c.RGBA255()

	var ch Chain
	ch.Append(NewInteger(int(r)))
	ch.Append(NewInteger(int(g)))
	ch.Append(NewInteger(int(b)))
	if c.A < 1 {
		ch.Append(NewOperator(OperatorSlash))
		ch.Append(NewReal(math.Round(c.A*1000) / 1000))
	}
	i := 0
	for p := ch.Head(); p != nil; p = p.next {
		if p.typ != OperatorSlash {
			p.ctxIndex = i
			i++
		}
	}

	u := NewFunction(RGBColor, "rgb", ch.Head())
	u.cssText = "#" + strings.ToLower(text)
	return u, nil
}

// IsColorKeyword returns true if s names a color: a named color,
// "transparent" or "currentcolor".
func IsColorKeyword(s string) bool {
	s = strings.ToLower(s)
	if s == "currentcolor" || s == "transparent" {
		return true
	}
	if s == "" || strings.ContainsAny(s, "#( ") {
		return false
	}
	// The parser also accepts bare hex digits, which are not keywords.
	if strings.IndexFunc(s, func(r rune) bool { return !isHex(r) }) < 0 {
		return false
	}
	_, err := csscolorparser.Parse(s)
	return err == nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
