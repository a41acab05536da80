package scanner

import "unicode/utf8"

// EndsWithEscape returns true if the last code point of s belongs to an
// escape sequence, including a lone trailing backslash and a hex escape
// whose terminating whitespace is the last code point.
//
// Callers joining text fragments use it to decide whether a following hex
// digit or whitespace would be absorbed into the escape.
func EndsWithEscape(s string) bool {
	end := -1
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			_, n := utf8.DecodeRuneInString(s[i:])
			i += n
			continue
		}

		j := i + 1
		if j >= len(s) {
			return true
		}
		if isHexDigit(rune(s[j])) {
			k := j
			for k < len(s) && k-j < 6 && isHexDigit(rune(s[k])) {
				k++
			}
			if k < len(s) && isWhitespace(rune(s[k])) {
				k++
			}
			i, end = k, k
			continue
		}
		_, n := utf8.DecodeRuneInString(s[j:])
		i = j + n
		end = i
	}
	return end == len(s)
}

// EndsWithEscapeOrWhitespace returns true if s ends with an escape sequence
// or with a whitespace code point.
func EndsWithEscapeOrWhitespace(s string) bool {
	if s == "" {
		return false
	}
	if r, _ := utf8.DecodeLastRuneInString(s); isWhitespace(r) {
		return true
	}
	return EndsWithEscape(s)
}
