package ast

import (
	"strings"
)

// MediaQueryList is a comma separated list of media queries. An empty list
// matches all media.
type MediaQueryList []*MediaQuery

func (_ MediaQueryList) node() {}
func (_ *MediaQuery) node()    {}

func (l MediaQueryList) String() string {
	parts := make([]string, len(l))
	for i, q := range l {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}

// Equal returns true if both lists hold equal queries in the same order.
func (l MediaQueryList) Equal(m MediaQueryList) bool {
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

// IsNotAll returns true if no query of the list can match.
func (l MediaQueryList) IsNotAll() bool {
	if len(l) == 0 {
		return false
	}
	for _, q := range l {
		if !q.NotAll {
			return false
		}
	}
	return true
}

// MediaQuery is a single media query.
//
// Qualifier is "", "only" or "not" and applies to the media type. A query
// made of a condition alone has an empty MediaType. NotAll marks a query
// that replaced an invalid one and matches nothing.
type MediaQuery struct {
	Qualifier string
	MediaType string
	Condition Condition
	NotAll    bool
}

// NewNotAll returns the query that replaces an invalid media query.
func NewNotAll() *MediaQuery {
	return &MediaQuery{Qualifier: "not", MediaType: "all", NotAll: true}
}

func (q *MediaQuery) String() string {
	if q.NotAll {
		return "not all"
	}
	var sb strings.Builder
	if q.MediaType != "" {
		if q.Qualifier != "" {
			sb.WriteString(q.Qualifier)
			sb.WriteByte(' ')
		}
		sb.WriteString(q.MediaType)
		if q.Condition != nil {
			sb.WriteString(" and ")
		}
	}
	if q.Condition != nil {
		sb.WriteString(q.Condition.String())
	}
	if sb.Len() == 0 {
		return "all"
	}
	return sb.String()
}

// Equal returns true if both queries have the same structure.
func (q *MediaQuery) Equal(o *MediaQuery) bool {
	if q.NotAll || o.NotAll {
		return q.NotAll == o.NotAll
	}
	if q.Qualifier != o.Qualifier || q.MediaType != o.MediaType {
		return false
	}
	if q.Condition == nil || o.Condition == nil {
		return q.Condition == nil && o.Condition == nil
	}
	return q.Condition.Equal(o.Condition)
}
