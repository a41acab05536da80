// Package parser implements the CSS grammar: property values, selectors,
// page selectors, media queries and @supports conditions, and the
// rule-level driver that turns a style sheet into handler events.
//
// Style sheets are parsed with error recovery: errors go to the
// ErrorHandler and parsing resumes at the next rule or declaration. The
// entry points parsing a single construct return the first error instead.
package parser

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/scanner"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

// ruleStage tracks which rules may still appear at the top level.
type ruleStage uint8

const (
	stageStart     ruleStage = iota
	stageImport              // after @import
	stageNamespace           // after @namespace
	stageRules               // after any other rule
)

// parser holds the state of a single parse.
type parser struct {
	*Parser

	s       *tokenScanner
	loc     locator
	depth   int
	nestErr *Error
	errors  ErrorList

	// single is set by the entry points parsing one construct. Errors
	// are then returned rather than reported.
	single bool

	namespaces map[string]string
	rules      int
	extraRule  token.Pos
	stage      ruleStage
}

func (p *Parser) newParser(r io.Reader) *parser {
	pp := &parser{Parser: p, namespaces: make(map[string]string)}
	pp.s = newTokenScanner(scanner.New(r), pp.report)
	return pp
}

// ParseStyleSheet parses a style sheet and reports it to the handler. Parse
// errors go to the error handler; the returned error is a read error of r.
func (p *Parser) ParseStyleSheet(r io.Reader) error {
	pp := p.newParser(r)
	p.handler.SetDocumentLocator(&pp.loc)
	p.handler.StartDocument()
	pp.consumeRuleList(pp.top(), ctxTop)
	p.handler.EndDocument()
	return pp.s.Err()
}

// ParseRule parses a single rule and reports it to the handler. It fails
// if r holds no rule or more than one.
func (p *Parser) ParseRule(r io.Reader) error {
	pp := p.newParser(r)
	p.handler.SetDocumentLocator(&pp.loc)
	src := pp.top()
	pp.consumeRuleList(src, ctxTop)
	if err := pp.s.Err(); err != nil {
		return err
	}
	switch {
	case pp.rules == 0:
		return errorf(Structural, src.end(), "expected a rule")
	case pp.rules > 1:
		return errorf(Structural, pp.extraRule, "unexpected rule after the first one")
	}
	return nil
}

// ParseStyleDeclaration parses a list of declarations, such as the content
// of a style attribute, and reports each one with Property.
func (p *Parser) ParseStyleDeclaration(r io.Reader) error {
	pp := p.newParser(r)
	p.handler.SetDocumentLocator(&pp.loc)
	pp.consumeDeclarations(pp.top(), blockDeclarations, pp.property)
	return pp.s.Err()
}

// ParseDeclarationRule parses an at-rule whose body is a list of
// descriptors, such as "@top-left{...}". If the handler implements
// DeclarationRuleHandler, the body is enclosed in StartAtRule and
// EndAtRule and skipped when StartAtRule returns false.
func (p *Parser) ParseDeclarationRule(r io.Reader) error {
	pp := p.newParser(r)
	p.handler.SetDocumentLocator(&pp.loc)
	src := pp.top()

	var rule *ast.AtRule
	for rule == nil {
		v := src.next()
		if v == nil {
			return firstError(pp.errors, errorf(Structural, src.end(), "expected an at-rule"))
		}
		switch tok := tokenOf(v).(type) {
		case *token.Whitespace:
		case *token.Comment:
			pp.comment(tok)
		case *token.AtKeyword:
			rule = pp.collectAtRule(tok, src)
		default:
			return errorf(Grammar, v.Position(), "expected an at-rule, got %s", describe(v))
		}
	}
	if err := pp.takeNestErr(); err != nil {
		return err
	}
	if rule.Block == nil {
		return errorf(Structural, src.end(), "missing block in @%s", rule.Name)
	}
	for v := src.next(); v != nil; v = src.next() {
		if !ast.IsSpace(v) {
			return errorf(Grammar, v.Position(), "unexpected %s after @%s", describe(v), rule.Name)
		}
	}

	h, _ := p.handler.(DeclarationRuleHandler)
	pp.loc.pos = rule.Pos
	if h != nil && !h.StartAtRule(rule.Name, trimmedText(rule.Prelude)) {
		return pp.s.Err()
	}
	pp.consumeDeclarations(blockCursor(rule.Block), blockDeclarations, pp.property)
	if h != nil {
		h.EndAtRule()
	}
	return pp.s.Err()
}

// ParsePropertyValue parses the value of the named property. Custom
// property values ("--*") are parsed leniently and may be empty.
func (p *Parser) ParsePropertyValue(name string, r io.Reader) (*value.LexicalUnit, error) {
	pp := p.newParser(r)
	c, err := pp.consumeAll()
	if err != nil {
		return nil, err
	}
	return pp.parseValue(c, strings.HasPrefix(name, "--"))
}

// ParseSelectors parses a selector list. namespaces maps prefixes to
// namespace URIs; the empty prefix sets the default namespace.
func (p *Parser) ParseSelectors(r io.Reader, namespaces map[string]string) (ast.SelectorList, error) {
	pp := p.newParser(r)
	for prefix, uri := range namespaces {
		pp.namespaces[prefix] = uri
	}
	c, err := pp.consumeAll()
	if err != nil {
		return nil, err
	}
	return pp.parseSelectorList(c, false)
}

// ParsePageSelectorList parses the selector list of a @page rule.
func (p *Parser) ParsePageSelectorList(r io.Reader) (ast.PageSelectorList, error) {
	pp := p.newParser(r)
	c, err := pp.consumeAll()
	if err != nil {
		return nil, err
	}
	return pp.parsePageSelectorList(c)
}

// ParseMediaQueryList parses a media query list. Unlike in a style sheet,
// an invalid query is an error.
func (p *Parser) ParseMediaQueryList(r io.Reader) (ast.MediaQueryList, error) {
	pp := p.newParser(r)
	c, err := pp.consumeAll()
	if err != nil {
		return nil, err
	}
	return pp.parseMediaQueryList(c, false)
}

// ParseSupportsCondition parses the condition of a @supports rule.
func (p *Parser) ParseSupportsCondition(r io.Reader) (ast.Condition, error) {
	pp := p.newParser(r)
	c, err := pp.consumeAll()
	if err != nil {
		return nil, err
	}
	return pp.parseSupportsCondition(c)
}

// top returns the stream of component values read from the input.
func (p *parser) top() *topStream {
	return &topStream{p: p}
}

// consumeAll reads the whole input as component values. Lexical errors,
// nesting errors and read errors are fatal.
func (p *parser) consumeAll() (*cursor, error) {
	p.single = true
	var vals ast.ComponentValues
	var end token.Pos
	for {
		v := p.consumeComponentValue(p.s)
		if tok, ok := tokenOf(v).(*token.EOF); ok {
			end = tok.Pos
			break
		}
		vals = append(vals, v)
	}
	if err := p.s.Err(); err != nil {
		return nil, err
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if err := p.takeNestErr(); err != nil {
		return nil, err
	}
	return newCursor(vals, end), nil
}

// report records an error. When parsing a style sheet it is passed to the
// error handler, or logged without one.
func (p *parser) report(err *Error) {
	p.errors = append(p.errors, err)
	if p.single {
		return
	}
	if p.errh != nil {
		p.errh.Error(err)
		return
	}
	p.logger.Debug("Recovered from parse error",
		zap.Stringer("pos", err.Pos),
		zap.Stringer("kind", err.Kind),
		zap.String("msg", err.Message))
}

// reportErr reports an error returned by a grammar function.
func (p *parser) reportErr(err error, pos token.Pos) {
	p.report(asError(err, pos))
}

// warn passes a warning to the error handler.
func (p *parser) warn(err *Error) {
	if p.errh != nil {
		p.errh.Warning(err)
		return
	}
	p.logger.Debug("Parse warning", zap.Stringer("pos", err.Pos), zap.String("msg", err.Message))
}

// asError converts an error returned by a grammar function. Type errors
// from math expressions are positioned at the offending unit; pos is used
// when nothing better is known.
func asError(err error, pos token.Pos) *Error {
	switch err := err.(type) {
	case *Error:
		return err
	case *value.TypeError:
		if err.Unit != nil && err.Unit.Position().IsValid() {
			pos = err.Unit.Position()
		}
		return &Error{Kind: Semantic, Message: err.Message, Pos: pos}
	}
	return &Error{Kind: Grammar, Message: err.Error(), Pos: pos}
}

func firstError(errs ErrorList, def *Error) error {
	if len(errs) > 0 {
		return errs[0]
	}
	return def
}

func (p *parser) comment(tok *token.Comment) {
	p.loc.pos = tok.Pos
	p.handler.Comment(tok.Value, tok.NewlineBefore)
}
