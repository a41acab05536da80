package ast

import (
	"strings"

	"github.com/benbjohnson/go-css/token"
)

// PageSelectorType tells a page type from a pseudo-page.
type PageSelectorType uint8

const (
	PageType PageSelectorType = iota
	PseudoPage
)

func (t PageSelectorType) String() string {
	if t == PseudoPage {
		return "PSEUDO_PAGE"
	}
	return "PAGE_TYPE"
}

// PageSelector is one component of a page selector. The components of a
// selector such as "foo:first:left" are chained through Next.
type PageSelector struct {
	Type PageSelectorType
	Name string
	Next *PageSelector
}

func (_ *PageSelector) node()    {}
func (_ PageSelectorList) node() {}

func (s *PageSelector) String() string {
	var sb strings.Builder
	for ; s != nil; s = s.Next {
		if s.Type == PseudoPage {
			sb.WriteByte(':')
		}
		sb.WriteString(token.EscapeIdent(s.Name))
	}
	return sb.String()
}

// Equal returns true if both chains hold the same components.
func (s *PageSelector) Equal(o *PageSelector) bool {
	for s != nil && o != nil {
		if s.Type != o.Type || s.Name != o.Name {
			return false
		}
		s, o = s.Next, o.Next
	}
	return s == nil && o == nil
}

// PageSelectorList is the comma separated prelude of a @page rule.
type PageSelectorList []*PageSelector

func (l PageSelectorList) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Equal returns true if both lists hold equal selectors in the same order.
func (l PageSelectorList) Equal(m PageSelectorList) bool {
	if len(l) != len(m) {
		return false
	}
	for i := range l {
		if !l[i].Equal(m[i]) {
			return false
		}
	}
	return true
}
