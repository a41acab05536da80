package parser

import (
	"go.uber.org/zap"
)

// Flags enable legacy syntax that is otherwise rejected.
type Flags uint8

const (
	// IEValues accepts Internet Explorer value hacks: "\9" suffixes,
	// "progid:" filters and the "!ie" priority.
	IEValues Flags = 1 << iota

	// StarHack accepts declaration names prefixed with "*".
	StarHack
)

// DefaultMaxNesting is the default maximum depth of nested blocks,
// functions and parentheses.
const DefaultMaxNesting = 64

// Parser parses CSS. Its configuration is fixed by New; a Parser may be
// reused for any number of parses but not concurrently.
type Parser struct {
	flags      Flags
	maxNesting int
	handler    DocumentHandler
	errh       ErrorHandler
	logger     *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithFlags sets the compatibility flags.
func WithFlags(f Flags) Option {
	return func(p *Parser) { p.flags = f }
}

// WithMaxNesting sets the nesting ceiling. Values below one are ignored.
func WithMaxNesting(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxNesting = n
		}
	}
}

// WithHandler sets the handler receiving style sheet events.
func WithHandler(h DocumentHandler) Option {
	return func(p *Parser) { p.handler = h }
}

// WithErrorHandler sets the sink for errors and warnings found while
// parsing style sheets.
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Parser) { p.errh = h }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Parser configured by opts.
func New(opts ...Option) *Parser {
	p := &Parser{
		maxNesting: DefaultMaxNesting,
		handler:    EmptyHandler{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.handler == nil {
		p.handler = EmptyHandler{}
	}
	p.logger = p.logger.Named("css-parser")
	return p
}

// Flags returns the compatibility flags of p.
func (p *Parser) Flags() Flags { return p.flags }
