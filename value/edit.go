package value

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/benbjohnson/go-css/unit"
)

var (
	// ErrNilUnit is returned when an edit operation is given no unit where
	// one is required.
	ErrNilUnit = errors.New("nil lexical unit")

	// ErrOwnership is returned when a unit cannot be linked because it
	// already belongs to another chain.
	ErrOwnership = errors.New("lexical unit belongs to another chain")
)

// Clone returns a deep copy of u and the units following it. Parameter
// chains are copied as well. The copy has no previous unit and no owner.
func (u *LexicalUnit) Clone() *LexicalUnit {
	head := u.ShallowClone()
	tail := head
	for n := u.next; n != nil; n = n.next {
		c := n.ShallowClone()
		tail.next, c.prev = c, tail
		tail = c
	}
	return head
}

// ShallowClone returns a copy of u alone, with no siblings and no owner.
// Its parameters are deep copied.
func (u *LexicalUnit) ShallowClone() *LexicalUnit {
	c := *u
	c.prev, c.next, c.owner, c.params = nil, nil, nil, nil
	if u.params != nil {
		c.adopt(u.params.Clone())
	}
	return &c
}

// InsertNext links nu, together with the units following it, right after u.
//
// nu must be the head of a detached chain: it cannot have a previous unit
// nor belong to a parameter chain, and it cannot be part of the chain of u.
// The inserted units join the parameter chain of u's owner, if any. EMPTY
// units carry no value and are dropped from the inserted chain, so
// inserting a lone EMPTY does nothing.
func (u *LexicalUnit) InsertNext(nu *LexicalUnit) error {
	if nu == nil {
		return ErrNilUnit
	}
	if err := u.checkDetached(nu); err != nil {
		return err
	}

	head, tail := stripEmpty(nu)
	if head == nil {
		return nil
	}

	next := u.next
	u.next, head.prev = head, u
	tail.next = next
	if next != nil {
		next.prev = tail
	}
	for n := head; n != next; n = n.next {
		n.owner = u.owner
	}
	return nil
}

// ReplaceBy puts nu, and the units following it, in place of u. A nil or
// EMPTY nu removes u.
//
// It returns the unit now occupying the position of u: the last inserted
// unit, or the unit that followed u if nothing was inserted. On return u is
// fully detached.
func (u *LexicalUnit) ReplaceBy(nu *LexicalUnit) (*LexicalUnit, error) {
	_, last, err := u.replace(nu, false)
	return last, err
}

// Remove unlinks u from its chain and returns the unit that followed it.
func (u *LexicalUnit) Remove() *LexicalUnit {
	_, last, _ := u.replace(nil, false)
	return last
}

// CountReplaceBy behaves like ReplaceBy but returns how many units were
// removed from the chain. When nothing replaces u, either because nu is nil
// or because it only holds EMPTY units, the EMPTY placeholders that directly
// follow u are removed along with it.
func (u *LexicalUnit) CountReplaceBy(nu *LexicalUnit) (int, error) {
	n, _, err := u.replace(nu, true)
	return n, err
}

func (u *LexicalUnit) replace(nu *LexicalUnit, collapse bool) (removed int, last *LexicalUnit, err error) {
	if nu == u {
		return 0, u, nil
	}
	if nu != nil {
		if err := u.checkDetached(nu); err != nil {
			return 0, nil, err
		}
	}

	var head, tail *LexicalUnit
	if nu != nil {
		head, tail = stripEmpty(nu)
	}

	prev, next, owner := u.prev, u.next, u.owner
	removed = 1
	if head == nil && collapse {
		for next != nil && next.typ == Empty {
			n := next.next
			next.prev, next.next, next.owner = nil, nil, nil
			next = n
			removed++
		}
	}

	if head == nil {
		// Nothing takes the place of u.
		link(prev, next, owner)
		last = next
	} else {
		link(prev, head, owner)
		tail.next = next
		if next != nil {
			next.prev = tail
		}
		for n := head; n != next; n = n.next {
			n.owner = owner
		}
		last = tail
	}

	u.prev, u.next, u.owner = nil, nil, nil
	return removed, last, nil
}

// link makes b follow a. When a is nil, b becomes the first parameter of owner.
func link(a, b, owner *LexicalUnit) {
	if a != nil {
		a.next = b
	} else if owner != nil {
		owner.params = b
	}
	if b != nil {
		b.prev = a
	}
}

// detached validates that nu heads a chain of its own.
func detached(nu *LexicalUnit) error {
	if nu.prev != nil {
		return fmt.Errorf("%w: unit has a previous unit", ErrOwnership)
	}
	if nu.owner != nil {
		return fmt.Errorf("%w: unit is a parameter of %s", ErrOwnership, nu.owner.typ)
	}
	return nil
}

// checkDetached validates that nu may be spliced into the chain of u.
func (u *LexicalUnit) checkDetached(nu *LexicalUnit) error {
	if err := detached(nu); err != nil {
		return err
	}
	for n := nu; n != nil; n = n.next {
		if n == u {
			return fmt.Errorf("%w: unit chain contains the receiver", ErrOwnership)
		}
	}
	for o := u.owner; o != nil; o = o.owner {
		for n := nu; n != nil; n = n.next {
			if n == o {
				return fmt.Errorf("%w: unit chain contains an ancestor", ErrOwnership)
			}
		}
	}
	return nil
}

// stripEmpty removes EMPTY units from the chain starting at head and returns
// the first and last remaining units.
func stripEmpty(head *LexicalUnit) (*LexicalUnit, *LexicalUnit) {
	var h, t *LexicalUnit
	for n := head; n != nil; {
		next := n.next
		if n.typ == Empty {
			n.prev, n.next = nil, nil
		} else {
			if h == nil {
				h = n
				n.prev = nil
			} else {
				t.next, n.prev = n, t
			}
			t = n
			n.next = nil
		}
		n = next
	}
	return h, t
}

// Equal returns true if u and v have the same type, payload, parameters and
// following units. Positions are not compared.
func (u *LexicalUnit) Equal(v *LexicalUnit) bool {
	for u != nil && v != nil {
		if !u.equalUnit(v) {
			return false
		}
		u, v = u.next, v.next
	}
	return u == nil && v == nil
}

func (u *LexicalUnit) equalUnit(v *LexicalUnit) bool {
	if u.typ != v.typ || u.str != v.str || u.name != v.name ||
		u.unit != v.unit || u.mathFn != v.mathFn || u.cssText != v.cssText {
		return false
	}
	if u.num != v.num && !(math.IsNaN(u.num) && math.IsNaN(v.num)) {
		return false
	}
	if u.typ == Dimension && u.unit == unit.Unknown && !strings.EqualFold(u.dimText, v.dimText) {
		return false
	}
	if (u.params == nil) != (v.params == nil) {
		return false
	}
	return u.params == nil || u.params.Equal(v.params)
}
