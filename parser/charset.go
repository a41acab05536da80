package parser

import (
	"bytes"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// charsetPrefix starts a @charset rule that can be used to detect the
// encoding. It must be written exactly so.
const charsetPrefix = `@charset "`

// ParseStyleSheetBytes parses a style sheet read from r as bytes. The
// encoding comes from a byte order mark, then from the declared label
// (such as the charset parameter of a Content-Type), then from a leading
// @charset rule, and defaults to UTF-8.
func (p *Parser) ParseStyleSheetBytes(r io.Reader, declared string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	enc, name := detectEncoding(data, declared)
	p.logger.Debug("Decoding style sheet", zap.String("charset", name), zap.Int("size", len(data)))
	rd := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))
	return p.ParseStyleSheet(rd)
}

// detectEncoding returns the fallback encoding of data, which a byte
// order mark still overrides.
func detectEncoding(data []byte, declared string) (encoding.Encoding, string) {
	if declared != "" {
		if e, name := charset.Lookup(declared); e != nil {
			return e, name
		}
	}
	if label := sniffCharset(data); label != "" {
		if e, name := charset.Lookup(label); e != nil {
			// A style sheet that can be read this far is not UTF-16.
			if strings.HasPrefix(name, "utf-16") {
				return unicode.UTF8, "utf-8"
			}
			return e, name
		}
	}
	return unicode.UTF8, "utf-8"
}

// sniffCharset returns the label of a @charset rule starting data.
func sniffCharset(data []byte) string {
	if !bytes.HasPrefix(data, []byte(charsetPrefix)) {
		return ""
	}
	rest := data[len(charsetPrefix):]
	if len(rest) > 1024 {
		rest = rest[:1024]
	}
	i := bytes.Index(rest, []byte(`";`))
	if i < 0 {
		return ""
	}
	return string(rest[:i])
}
