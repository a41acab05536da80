package css

import (
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/parser"
	"github.com/benbjohnson/go-css/value"
)

// ParseStyleSheet parses the style sheet read from r and reports it to h.
// Parsing recovers from errors; the errors are returned combined once the
// whole sheet has been read.
func ParseStyleSheet(r io.Reader, h parser.DocumentHandler, opts ...parser.Option) error {
	var errs parser.ErrorCollector
	p := parser.New(withSinks(opts, h, &errs)...)
	if err := p.ParseStyleSheet(r); err != nil {
		return err
	}
	return errs.Err()
}

// Format parses the style sheet read from r and writes it back to w in a
// normalized form. Rules and declarations that fail to parse are dropped
// and their errors returned.
func Format(w io.Writer, r io.Reader, opts ...parser.Option) error {
	pr := NewPrinter(w)
	err := ParseStyleSheet(r, pr, opts...)
	return multierr.Append(err, pr.Err())
}

// ParsePropertyValue parses s as the value of the named property.
func ParsePropertyValue(name, s string, opts ...parser.Option) (*value.LexicalUnit, error) {
	return parser.New(opts...).ParsePropertyValue(name, strings.NewReader(s))
}

// ParseSelectors parses s as a selector list without namespace prefixes.
func ParseSelectors(s string, opts ...parser.Option) (ast.SelectorList, error) {
	return parser.New(opts...).ParseSelectors(strings.NewReader(s), nil)
}

// ParseMediaQueryList parses s as a media query list.
func ParseMediaQueryList(s string, opts ...parser.Option) (ast.MediaQueryList, error) {
	return parser.New(opts...).ParseMediaQueryList(strings.NewReader(s))
}

// ParseSupportsCondition parses s as the condition of a @supports rule.
func ParseSupportsCondition(s string, opts ...parser.Option) (ast.Condition, error) {
	return parser.New(opts...).ParseSupportsCondition(strings.NewReader(s))
}

// withSinks returns opts followed by the handler and error handler options.
func withSinks(opts []parser.Option, h parser.DocumentHandler, errh parser.ErrorHandler) []parser.Option {
	a := make([]parser.Option, 0, len(opts)+2)
	a = append(a, opts...)
	return append(a, parser.WithHandler(h), parser.WithErrorHandler(errh))
}
