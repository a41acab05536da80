package parser

import (
	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/value"
)

// Locator reports the position of the construct being reported to a
// DocumentHandler. It is only valid during the callback.
type Locator interface {
	Position() token.Pos
}

// DocumentHandler receives the events of a style sheet in document order.
// Start and end events are always balanced and well nested, also for rules
// holding errors.
type DocumentHandler interface {
	SetDocumentLocator(loc Locator)
	StartDocument()
	EndDocument()

	// Comment is called for comments found between rules and declarations.
	// newline is set when a line break precedes the comment.
	Comment(text string, newline bool)

	// IgnorableAtRule receives the text of an unrecognized at-rule.
	IgnorableAtRule(raw string)

	NamespaceDeclaration(prefix, uri string)

	// ImportStyle reports an @import rule. layer is nil without a layer,
	// and points to an empty string for an anonymous layer. supports is nil
	// without a supports() condition.
	ImportStyle(uri string, layer *string, supports ast.Condition, media ast.MediaQueryList, defaultNamespaceURI string)

	StartMedia(media ast.MediaQueryList)
	EndMedia(media ast.MediaQueryList)
	StartSupports(cond ast.Condition)
	EndSupports(cond ast.Condition)
	StartPage(sel ast.PageSelectorList)
	EndPage(sel ast.PageSelectorList)
	StartMargin(name string)
	EndMargin()
	StartFontFace()
	EndFontFace()
	StartFontFeatures(families []string)
	EndFontFeatures()
	StartFeatureMap(name string)
	EndFeatureMap()
	StartCounterStyle(name string)
	EndCounterStyle()
	StartKeyframes(name string)
	EndKeyframes()
	StartKeyframe(sel *value.LexicalUnit)
	EndKeyframe()

	// StartProperty and EndProperty enclose the descriptors of a @property
	// rule. discard is set when the rule turned out to be invalid.
	StartProperty(name string)
	EndProperty(discard bool)

	StartSelector(sel ast.SelectorList)
	EndSelector(sel ast.SelectorList)

	// Property reports a declaration or a descriptor.
	Property(name string, val *value.LexicalUnit, important bool)
}

// DeclarationRuleHandler receives the events of ParseDeclarationRule.
type DeclarationRuleHandler interface {
	DocumentHandler

	// StartAtRule is called with the name of the rule and the text of its
	// prelude. Returning false skips the body and EndAtRule is not called.
	StartAtRule(name, selector string) bool
	EndAtRule()
}

// EmptyHandler implements DeclarationRuleHandler with methods doing nothing.
// Embed it to implement only the events of interest.
type EmptyHandler struct{}

func (EmptyHandler) SetDocumentLocator(Locator)                                             {}
func (EmptyHandler) StartDocument()                                                         {}
func (EmptyHandler) EndDocument()                                                           {}
func (EmptyHandler) Comment(string, bool)                                                   {}
func (EmptyHandler) IgnorableAtRule(string)                                                 {}
func (EmptyHandler) NamespaceDeclaration(string, string)                                    {}
func (EmptyHandler) ImportStyle(string, *string, ast.Condition, ast.MediaQueryList, string) {}
func (EmptyHandler) StartMedia(ast.MediaQueryList)                                          {}
func (EmptyHandler) EndMedia(ast.MediaQueryList)                                            {}
func (EmptyHandler) StartSupports(ast.Condition)                                            {}
func (EmptyHandler) EndSupports(ast.Condition)                                              {}
func (EmptyHandler) StartPage(ast.PageSelectorList)                                         {}
func (EmptyHandler) EndPage(ast.PageSelectorList)                                           {}
func (EmptyHandler) StartMargin(string)                                                     {}
func (EmptyHandler) EndMargin()                                                             {}
func (EmptyHandler) StartFontFace()                                                         {}
func (EmptyHandler) EndFontFace()                                                           {}
func (EmptyHandler) StartFontFeatures([]string)                                             {}
func (EmptyHandler) EndFontFeatures()                                                       {}
func (EmptyHandler) StartFeatureMap(string)                                                 {}
func (EmptyHandler) EndFeatureMap()                                                         {}
func (EmptyHandler) StartCounterStyle(string)                                               {}
func (EmptyHandler) EndCounterStyle()                                                       {}
func (EmptyHandler) StartKeyframes(string)                                                  {}
func (EmptyHandler) EndKeyframes()                                                          {}
func (EmptyHandler) StartKeyframe(*value.LexicalUnit)                                       {}
func (EmptyHandler) EndKeyframe()                                                           {}
func (EmptyHandler) StartProperty(string)                                                   {}
func (EmptyHandler) EndProperty(bool)                                                       {}
func (EmptyHandler) StartSelector(ast.SelectorList)                                         {}
func (EmptyHandler) EndSelector(ast.SelectorList)                                           {}
func (EmptyHandler) Property(string, *value.LexicalUnit, bool)                              {}
func (EmptyHandler) StartAtRule(string, string) bool                                        { return true }
func (EmptyHandler) EndAtRule()                                                             {}

// locator is the Locator handed to document handlers.
type locator struct {
	pos token.Pos
}

func (l *locator) Position() token.Pos { return l.pos }
