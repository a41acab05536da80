package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/transform"

	"github.com/benbjohnson/go-css/token"
)

// eof represents an EOF file byte.
var eof rune = -1

// Scanner implements a CSS3 standard compliant scanner.
//
// The input must be UTF-8. Callers holding other encodings decode first.
type Scanner struct {
	// Errors contains a list of all errors that occur during scanning.
	Errors []*Error

	rd        io.RuneReader
	err       error // first read error other than io.EOF
	line, col int   // position of the next code point taken from rd
	nl        bool  // last whitespace token held a line break

	buf    [4]rune      // circular buffer for runes
	bufpos [4]token.Pos // circular buffer for position
	bufi   int          // circular buffer index
	bufn   int          // number of buffered characters
}

// New returns a new instance of Scanner.
func New(r io.Reader) *Scanner {
	return &Scanner{
		rd:   bufio.NewReader(transform.NewReader(r, normalize{})),
		line: 1,
		col:  1,
	}
}

// Err returns the first error returned by the underlying reader, not
// counting io.EOF. Reading stops at such an error as if the input ended.
func (s *Scanner) Err() error {
	return s.err
}

// Scan returns the next token from the stream.
// An EOF token is returned repeatedly once the input is exhausted.
func (s *Scanner) Scan() token.Token {
	tok := s.scan()
	if ws, ok := tok.(*token.Whitespace); ok {
		s.nl = strings.ContainsRune(ws.Value, '\n')
	} else {
		s.nl = false
	}
	return tok
}

func (s *Scanner) scan() token.Token {
	// Read next code point.
	ch := s.read()
	pos := s.Pos()

	if ch == eof {
		return &token.EOF{Pos: pos}
	} else if isWhitespace(ch) {
		return s.scanWhitespace()
	} else if ch == '"' || ch == '\'' {
		return s.scanString()
	} else if ch == '#' {
		return s.scanHash()
	} else if ch == '$' {
		if next := s.read(); next == '=' {
			return &token.SuffixMatch{Pos: pos}
		}
		s.unread(1)
		return &token.Delim{Value: string(ch), Pos: pos}
	} else if ch == '*' {
		if next := s.read(); next == '=' {
			return &token.SubstringMatch{Pos: pos}
		}
		s.unread(1)
		return &token.Delim{Value: string(ch), Pos: pos}
	} else if ch == '^' {
		if next := s.read(); next == '=' {
			return &token.PrefixMatch{Pos: pos}
		}
		s.unread(1)
		return &token.Delim{Value: string(ch), Pos: pos}
	} else if ch == '~' {
		if next := s.read(); next == '=' {
			return &token.IncludeMatch{Pos: pos}
		}
		s.unread(1)
		return &token.Delim{Value: string(ch), Pos: pos}
	} else if ch == ',' {
		return &token.Comma{Pos: pos}
	} else if ch == '-' {
		// Peek at the next two code points and move back to the hyphen.
		ch1, ch2 := s.read(), s.read()
		s.unread(2)

		// A digit means a number, "->" closes an HTML comment and a name
		// start means an identifier.
		if isDigit(ch1) || (ch1 == '.' && isDigit(ch2)) {
			s.unread(1)
			return s.scanNumeric(pos)
		} else if ch1 == '-' && ch2 == '>' {
			s.read()
			s.read()
			return &token.CDC{Pos: pos}
		} else if s.peekIdent() {
			return s.scanIdent()
		}
		return &token.Delim{Value: "-", Pos: pos}
	} else if ch == '+' || ch == '.' {
		ch1, ch2 := s.read(), s.read()
		s.unread(2)
		if isDigit(ch1) || (ch == '+' && ch1 == '.' && isDigit(ch2)) {
			s.unread(1)
			return s.scanNumeric(pos)
		}
		return &token.Delim{Value: string(ch), Pos: pos}
	} else if ch == '/' {
		if ch1 := s.read(); ch1 == '*' {
			return s.scanComment(pos)
		}
		s.unread(1)
		return &token.Delim{Value: "/", Pos: pos}
	} else if ch == ':' {
		return &token.Colon{Pos: pos}
	} else if ch == ';' {
		return &token.Semicolon{Pos: pos}
	} else if ch == '<' {
		// Attempt to read a comment open ("<!--").
		// If it's not possible then then rollback and return DELIM.
		if ch1, ch2, ch3 := s.read(), s.read(), s.read(); ch1 == '!' && ch2 == '-' && ch3 == '-' {
			return &token.CDO{Pos: pos}
		}
		s.unread(3)
		return &token.Delim{Value: "<", Pos: pos}
	} else if ch == '@' {
		// This is an at-keyword token if an identifier follows.
		// Otherwise it's just a DELIM.
		if s.read(); s.peekIdent() {
			return &token.AtKeyword{Value: s.scanName(), Pos: pos}
		}
		s.unread(1)
		return &token.Delim{Value: "@", Pos: pos}
	} else if ch == '(' {
		return &token.LParen{Pos: pos}
	} else if ch == ')' {
		return &token.RParen{Pos: pos}
	} else if ch == '[' {
		return &token.LBrack{Pos: pos}
	} else if ch == ']' {
		return &token.RBrack{Pos: pos}
	} else if ch == '{' {
		return &token.LBrace{Pos: pos}
	} else if ch == '}' {
		return &token.RBrace{Pos: pos}
	} else if ch == '\\' {
		// Return a valid escape, if possible.
		if s.peekEscape() {
			return s.scanIdent()
		}
		// Otherwise this is a parse error but continue on as a DELIM.
		s.error("invalid escape before line break", pos)
		return &token.Delim{Value: "\\", Pos: pos}
	} else if isDigit(ch) {
		s.unread(1)
		return s.scanNumeric(pos)
	} else if ch == 'u' || ch == 'U' {
		// Peek "+[0-9a-f]" or "+?", consume next code point, consume unicode-range.
		ch1, ch2 := s.read(), s.read()
		if ch1 == '+' && (isHexDigit(ch2) || ch2 == '?') {
			s.unread(1)
			return s.scanUnicodeRange(pos)
		}
		// Otherwise reconsume as ident.
		s.unread(2)
		return s.scanIdent()
	} else if isNameStart(ch) {
		return s.scanIdent()
	} else if ch == '|' {
		// If the next token is an equals sign, it's a dash token.
		// If the next token is a pipe, it's a column token.
		// Otherwise, just treat this pipe as a delim token.
		if ch1 := s.read(); ch1 == '=' {
			return &token.DashMatch{Pos: pos}
		} else if ch1 == '|' {
			return &token.Column{Pos: pos}
		}
		s.unread(1)
		return &token.Delim{Value: string(ch), Pos: pos}
	}
	return &token.Delim{Value: string(ch), Pos: pos}
}

// scanWhitespace consumes the current code point and all subsequent whitespace.
func (s *Scanner) scanWhitespace() token.Token {
	pos := s.Pos()
	var buf bytes.Buffer
	_, _ = buf.WriteRune(s.curr())
	for {
		ch := s.read()
		if ch == eof {
			s.unread(1)
			break
		} else if !isWhitespace(ch) {
			s.unread(1)
			break
		}
		_, _ = buf.WriteRune(ch)
	}
	return &token.Whitespace{Value: buf.String(), Pos: pos}
}

// scanString consumes a quoted string. (§4.3.5)
//
// This assumes that the current token is a single or double quote.
// An EOF closes out a string and records an error.
// A newline closes a string and returns a bad-string token.
func (s *Scanner) scanString() token.Token {
	pos, ending := s.Pos(), s.curr()
	var buf bytes.Buffer
	for {
		ch := s.read()
		if ch == eof {
			s.unread(1)
			s.error("unterminated string", pos)
			return &token.String{Value: buf.String(), Ending: ending, Pos: pos}
		} else if ch == ending {
			return &token.String{Value: buf.String(), Ending: ending, Pos: pos}
		} else if ch == '\n' {
			s.error("unescaped newline in string", s.Pos())
			s.unread(1)
			return &token.BadString{Pos: pos}
		} else if ch == '\\' {
			next := s.read()
			if next == eof {
				// A backslash just before EOF is dropped.
				s.unread(1)
				continue
			} else if next == '\n' {
				// Escaped newline continues the string.
				continue
			}
			s.unread(1)
			_, _ = buf.WriteRune(s.scanEscape())
		} else {
			_, _ = buf.WriteRune(ch)
		}
	}
}

// scanNumeric consumes a numeric token.
//
// The next code point read must be the first one of the number.
func (s *Scanner) scanNumeric(pos token.Pos) token.Token {
	num, typ, repr := s.scanNumber()

	// If the number is immediately followed by an identifier then scan dimension.
	if s.read(); s.peekIdent() {
		unit := s.scanName()
		return &token.Dimension{Type: typ, Value: repr, Number: num, Unit: unit, Pos: pos}
	}
	s.unread(1)

	// If the number is followed by a percent sign then return a percentage.
	if ch := s.read(); ch == '%' {
		return &token.Percentage{Type: typ, Value: repr, Number: num, Pos: pos}
	}
	s.unread(1)

	// Otherwise return a number token.
	return &token.Number{Type: typ, Value: repr, Number: num, Pos: pos}
}

// scanNumber consumes a number.
func (s *Scanner) scanNumber() (num float64, typ, repr string) {
	var buf bytes.Buffer
	typ = token.Integer

	// If initial code point is + or - then store it.
	if ch := s.read(); ch == '+' || ch == '-' {
		_, _ = buf.WriteRune(ch)
	} else {
		s.unread(1)
	}

	// Read as many digits as possible.
	_, _ = buf.WriteString(s.scanDigits())

	// If next code points are a full stop and digit then consume them.
	if ch0 := s.read(); ch0 == '.' {
		if ch1 := s.read(); isDigit(ch1) {
			typ = token.Real
			_, _ = buf.WriteRune(ch0)
			_, _ = buf.WriteRune(ch1)
			_, _ = buf.WriteString(s.scanDigits())
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}

	// Consume scientific notation (e0, e+0, e-0, E0, E+0, E-0).
	if ch0 := s.read(); ch0 == 'e' || ch0 == 'E' {
		if ch1 := s.read(); ch1 == '+' || ch1 == '-' {
			if ch2 := s.read(); isDigit(ch2) {
				typ = token.Real
				_, _ = buf.WriteRune(ch0)
				_, _ = buf.WriteRune(ch1)
				_, _ = buf.WriteRune(ch2)
				_, _ = buf.WriteString(s.scanDigits())
			} else {
				s.unread(3)
			}
		} else if isDigit(ch1) {
			typ = token.Real
			_, _ = buf.WriteRune(ch0)
			_, _ = buf.WriteRune(ch1)
			_, _ = buf.WriteString(s.scanDigits())
		} else {
			s.unread(2)
		}
	} else {
		s.unread(1)
	}

	// Parse number.
	repr = buf.String()
	num, _ = strconv.ParseFloat(repr, 64)
	return
}

// scanDigits consume a contiguous series of digits.
func (s *Scanner) scanDigits() string {
	var buf bytes.Buffer
	for {
		if ch := s.read(); isDigit(ch) {
			_, _ = buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}
	return buf.String()
}

// scanComment consumes all characters up to "*/", inclusive.
// This function assumes that the initial "/*" have just been consumed.
func (s *Scanner) scanComment(pos token.Pos) token.Token {
	var buf bytes.Buffer
	for {
		ch0 := s.read()
		if ch0 == eof {
			s.unread(1)
			s.error("unterminated comment", pos)
			break
		} else if ch0 == '*' {
			if ch1 := s.read(); ch1 == '/' {
				break
			}
			s.unread(1)
		}
		_, _ = buf.WriteRune(ch0)
	}
	return &token.Comment{Value: buf.String(), NewlineBefore: s.nl, Pos: pos}
}

// scanHash consumes a hash token.
//
// This assumes the current token is a '#' code point.
// It will return a hash token if the next code points are a name or valid escape.
// It will return a delim token otherwise.
// Hash tokens' type flag is set to "id" if its value is an identifier.
func (s *Scanner) scanHash() token.Token {
	pos := s.Pos()

	// If there is a name following the hash then we have a hash token.
	if ch := s.read(); isName(ch) || s.peekEscape() {
		typ := "unrestricted"

		// If the name is an identifier then change the type.
		if s.peekIdent() {
			typ = "id"
		}
		return &token.Hash{Value: s.scanName(), Type: typ, Pos: pos}
	}
	s.unread(1)

	// If there is no name following the hash symbol then return delim-token.
	return &token.Delim{Value: "#", Pos: pos}
}

// scanName consumes a name.
// Consumes contiguous name code points and escaped code points.
func (s *Scanner) scanName() string {
	var buf bytes.Buffer
	s.unread(1)
	for {
		if ch := s.read(); isName(ch) {
			_, _ = buf.WriteRune(ch)
		} else if s.peekEscape() {
			_, _ = buf.WriteRune(s.scanEscape())
		} else {
			s.unread(1)
			return buf.String()
		}
	}
}

// scanIdent consumes a ident-like token.
// This function can return an ident, function, url, or bad-url.
func (s *Scanner) scanIdent() token.Token {
	pos := s.Pos()
	v := s.scanName()

	if ch := s.read(); ch == '(' {
		// Check if this is the start of a url token.
		if strings.EqualFold(v, "url") {
			return s.scanURL(pos)
		}
		return &token.Function{Value: v, Pos: pos}
	}
	s.unread(1)

	return &token.Ident{Value: v, Pos: pos}
}

// scanURL consumes the contents of a URL function.
// This function assumes that the "url(" has just been consumed.
// This function can return a url or bad-url token.
func (s *Scanner) scanURL(pos token.Pos) token.Token {
	// Consume all whitespace after the "(".
	if ch := s.read(); isWhitespace(ch) {
		s.scanWhitespace()
	} else {
		s.unread(1)
	}

	// Read the first non-whitespace character.
	// If it starts with a single or double quote then consume a string and
	// use the string's value as the URL.
	if ch := s.read(); ch == eof {
		s.unread(1)
		s.error("unterminated url", pos)
		return &token.URL{Pos: pos}
	} else if ch == '"' || ch == '\'' {
		// Scanning a bad-string causes a bad-url token.
		var value string
		switch tok := s.scanString().(type) {
		case *token.String:
			value = tok.Value
		case *token.BadString:
			s.scanBadURL()
			return &token.BadURL{Pos: pos}
		}

		// Scan whitespace after the string.
		if ch := s.read(); isWhitespace(ch) {
			s.scanWhitespace()
		} else {
			s.unread(1)
		}

		// Scan right parenthesis.
		if ch := s.read(); ch == eof {
			s.unread(1)
		} else if ch != ')' {
			s.error("unexpected "+quoteRune(ch)+" in url", s.Pos())
			s.scanBadURL()
			return &token.BadURL{Pos: pos}
		}
		return &token.URL{Value: value, Pos: pos}
	}
	s.unread(1)

	// If we have a non-quote character then scan all non-whitespace, non-quote
	// and non-lparen code points to form the URL value.
	var buf bytes.Buffer
	for {
		ch := s.read()
		if ch == ')' {
			return &token.URL{Value: buf.String(), Pos: pos}
		} else if ch == eof {
			s.unread(1)
			s.error("unterminated url", pos)
			return &token.URL{Value: buf.String(), Pos: pos}
		} else if isWhitespace(ch) {
			s.scanWhitespace()
			if ch0 := s.read(); ch0 == ')' {
				return &token.URL{Value: buf.String(), Pos: pos}
			} else if ch0 == eof {
				s.unread(1)
				return &token.URL{Value: buf.String(), Pos: pos}
			}
			s.error("whitespace inside url", s.Pos())
			s.scanBadURL()
			return &token.BadURL{Pos: pos}
		} else if ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch) {
			s.error(fmt.Sprintf("invalid url code point: %s (%U)", quoteRune(ch), ch), s.Pos())
			s.scanBadURL()
			return &token.BadURL{Pos: pos}
		} else if ch == '\\' {
			if s.peekEscape() {
				_, _ = buf.WriteRune(s.scanEscape())
			} else {
				s.error("invalid escape in url", s.Pos())
				s.scanBadURL()
				return &token.BadURL{Pos: pos}
			}
		} else {
			_, _ = buf.WriteRune(ch)
		}
	}
}

// scanBadURL recovers the scanner from a malformed URL token.
// We simply consume all non-) and non-eof characters and escaped code points.
func (s *Scanner) scanBadURL() {
	for {
		ch := s.read()
		if ch == ')' {
			return
		} else if ch == eof {
			s.unread(1)
			return
		} else if s.peekEscape() {
			s.scanEscape()
		}
	}
}

// scanUnicodeRange consumes a unicode-range token.
// The current code point is the "+" following the "U".
func (s *Scanner) scanUnicodeRange(pos token.Pos) token.Token {
	var buf bytes.Buffer

	// Consume up to 6 hex digits first.
	for i := 0; i < 6; i++ {
		if ch := s.read(); isHexDigit(ch) {
			_, _ = buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}

	// Consume question marks to total 6 characters (hex digits + question marks).
	n := buf.Len()
	for i := 0; i < 6-n; i++ {
		if ch := s.read(); ch == '?' {
			_, _ = buf.WriteRune(ch)
		} else {
			s.unread(1)
			break
		}
	}

	// If we have any question marks then calculate the range.
	// To calculate the range, we replace "?" with "0" for the start and
	// we replace "?" with "F" for the end.
	if buf.Len() > n {
		start64, _ := strconv.ParseInt(strings.ReplaceAll(buf.String(), "?", "0"), 16, 0)
		end64, _ := strconv.ParseInt(strings.ReplaceAll(buf.String(), "?", "F"), 16, 0)
		return &token.UnicodeRange{Start: int(start64), End: int(end64), Value: buf.String(), Pos: pos}
	}

	// Otherwise calculate this token is the start of the range.
	start := buf.String()
	start64, _ := strconv.ParseInt(start, 16, 0)

	// If the next two code points are a "-" and a hex digit then consume the end.
	ch1, ch2 := s.read(), s.read()
	if ch1 == '-' && isHexDigit(ch2) {
		s.unread(1)

		// Consume up to 6 hex digits for the ending range.
		buf.Reset()
		for i := 0; i < 6; i++ {
			if ch := s.read(); isHexDigit(ch) {
				_, _ = buf.WriteRune(ch)
			} else {
				s.unread(1)
				break
			}
		}
		end64, _ := strconv.ParseInt(buf.String(), 16, 0)
		return &token.UnicodeRange{Start: int(start64), End: int(end64), Value: start + "-" + buf.String(), Pos: pos}
	}
	s.unread(2)

	// Otherwise set the end value to the start value.
	return &token.UnicodeRange{Start: int(start64), End: int(start64), Value: start, Pos: pos}
}

// scanEscape consumes an escaped code point.
// The current code point is the backslash.
func (s *Scanner) scanEscape() rune {
	pos := s.Pos()
	ch := s.read()
	if isHexDigit(ch) {
		var buf bytes.Buffer
		_, _ = buf.WriteRune(ch)
		for i := 0; i < 5; i++ {
			if next := s.read(); isHexDigit(next) {
				_, _ = buf.WriteRune(next)
			} else {
				s.unread(1)
				break
			}
		}

		// A single whitespace after the hex digits belongs to the escape.
		if next := s.read(); !isWhitespace(next) {
			s.unread(1)
		}

		v, _ := strconv.ParseInt(buf.String(), 16, 64)
		if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > unicode.MaxRune {
			return unicode.ReplacementChar
		}
		return rune(v)
	} else if ch == eof {
		s.unread(1)
		s.error("escape at end of input", pos)
		return unicode.ReplacementChar
	}
	return ch
}

// peekEscape checks if the current and next code points are a valid escape.
func (s *Scanner) peekEscape() bool {
	// If the current code point is not a backslash then this is not an escape.
	if s.curr() != '\\' {
		return false
	}

	// If the next code point is a newline then this is not an escape.
	next := s.read()
	s.unread(1)
	return next != '\n'
}

// peekIdent checks if the next code points would start an identifier.
func (s *Scanner) peekIdent() bool {
	switch ch := s.curr(); {
	case ch == '-':
		next := s.read()
		ok := isNameStart(next) || next == '-' || (next == '\\' && s.peekEscape())
		s.unread(1)
		return ok
	case isNameStart(ch):
		return true
	case ch == '\\':
		return s.peekEscape()
	}
	return false
}

// read reads the next rune from the reader.
// This function will initially check for any characters that have been pushed
// back onto the lookahead buffer and return those. Otherwise it will read from
// the normalized reader and track the position of the code point.
func (s *Scanner) read() rune {
	// If we have runes on our internal lookahead buffer then return those.
	if s.bufn > 0 {
		s.bufi = ((s.bufi + 1) % len(s.buf))
		s.bufn--
		return s.buf[s.bufi]
	}

	// Otherwise read from the reader.
	ch, _, err := s.rd.ReadRune()
	pos := token.Pos{Line: s.line, Column: s.col}
	if err != nil {
		if err != io.EOF && s.err == nil {
			s.err = err
		}
		ch = eof
	} else if ch == '\n' {
		s.line++
		s.col = 1
	} else if n := utf16.RuneLen(ch); n > 0 {
		s.col += n
	} else {
		s.col++
	}

	// Add to circular buffer.
	s.bufi = ((s.bufi + 1) % len(s.buf))
	s.buf[s.bufi] = ch
	s.bufpos[s.bufi] = pos
	return ch
}

// unread adds the previous n code points back onto the buffer.
func (s *Scanner) unread(n int) {
	for i := 0; i < n; i++ {
		s.bufi = ((s.bufi + len(s.buf) - 1) % len(s.buf))
		s.bufn++
	}
}

// curr reads the current code point.
func (s *Scanner) curr() rune {
	return s.buf[s.bufi]
}

// Pos reads the current position of the scanner.
func (s *Scanner) Pos() token.Pos {
	return s.bufpos[s.bufi]
}

func (s *Scanner) error(msg string, pos token.Pos) {
	s.Errors = append(s.Errors, &Error{Message: msg, Pos: pos})
}

func quoteRune(ch rune) string {
	return strconv.QuoteRune(ch)
}

// isWhitespace returns true if the rune is a space, tab, or newline.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

// isLetter returns true if the rune is a letter.
func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9')
}

// isHexDigit returns true if the rune is a hex digit.
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isNonASCII returns true if the rune is greater than U+0080.
func isNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// isNameStart returns true if the rune can start a name.
func isNameStart(ch rune) bool {
	return isLetter(ch) || isNonASCII(ch) || ch == '_'
}

// isName returns true if the character is a name code point.
func isName(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

// isNonPrintable returns true if the character is non-printable.
func isNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}

// Error represents a lexical error.
type Error struct {
	Message string
	Pos     token.Pos
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}
