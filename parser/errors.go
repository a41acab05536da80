package parser

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benbjohnson/go-css/token"
)

// ErrorKind classifies parse errors.
type ErrorKind uint8

const (
	// Lexical errors come from the scanner: bad escapes, unterminated
	// strings and comments.
	Lexical ErrorKind = iota

	// Structural errors are unbalanced blocks, missing tokens and input
	// ending where a construct cannot be completed.
	Structural

	// Grammar errors are well-formed token sequences that do not match the
	// grammar of the construct: arity, combinators, ranges, descriptors.
	Grammar

	// Semantic errors are type inconsistencies, such as adding a length to
	// an angle inside calc().
	Semantic
)

func (k ErrorKind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Structural:
		return "structural"
	case Grammar:
		return "grammar"
	case Semantic:
		return "semantic"
	}
	return "unknown"
}

// Error represents a positioned parse error or warning.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     token.Pos
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}

// String returns the message prefixed with its position.
func (e *Error) String() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func errorf(kind ErrorKind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// ErrorList represents a list of syntax errors.
type ErrorList []*Error

// Error returns the formatted string error message.
func (a ErrorList) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}

// ErrorHandler receives the errors and warnings found while parsing a
// style sheet. Parsing continues after both.
type ErrorHandler interface {
	Error(err *Error)
	Warning(err *Error)
}

// ErrorCollector is an ErrorHandler that keeps everything it receives.
type ErrorCollector struct {
	Errors   ErrorList
	Warnings ErrorList
}

func (c *ErrorCollector) Error(err *Error)   { c.Errors = append(c.Errors, err) }
func (c *ErrorCollector) Warning(err *Error) { c.Warnings = append(c.Warnings, err) }

// Err combines the collected errors, or returns nil if there were none.
func (c *ErrorCollector) Err() error {
	var err error
	for _, e := range c.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

// Reset discards everything collected so far.
func (c *ErrorCollector) Reset() {
	c.Errors, c.Warnings = nil, nil
}
