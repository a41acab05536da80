package value

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/go-css/unit"
)

// TypeError reports an inconsistent math expression. Unit is the unit at
// which the inconsistency was detected.
type TypeError struct {
	Unit    *LexicalUnit
	Message string
}

func (e *TypeError) Error() string {
	return e.Message
}

func typeErrorf(u *LexicalUnit, format string, args ...any) *TypeError {
	return &TypeError{Unit: u, Message: fmt.Sprintf(format, args...)}
}

type exprType struct {
	cat     unit.Category
	pending bool
}

// ExpressionCategory computes the category of a math expression rooted at u,
// which is usually a CALC, MATH_FUNCTION or SUB_EXPRESSION unit. pending is
// true when a substitution function hides part of the expression; the
// category is then the one of the known terms.
func ExpressionCategory(u *LexicalUnit) (cat unit.Category, pending bool, err error) {
	t, err := typeOf(u)
	if err != nil {
		return unit.Other, false, err
	}
	return t.cat, t.pending, nil
}

// IsMathConstant returns true for the identifiers allowed as numbers inside
// math functions.
func IsMathConstant(s string) bool {
	switch strings.ToLower(s) {
	case "e", "pi", "infinity", "-infinity", "nan":
		return true
	}
	return false
}

func typeOf(u *LexicalUnit) (exprType, error) {
	switch u.typ {
	case Integer, Real:
		return exprType{cat: unit.Number}, nil
	case Percentage:
		return exprType{cat: unit.Percentage}, nil
	case Dimension:
		if c := u.unit.Category(); c != unit.Other {
			return exprType{cat: c}, nil
		}
		return exprType{}, typeErrorf(u, "unknown unit %q", u.dimText)
	case Ident:
		if IsMathConstant(u.str) {
			return exprType{cat: unit.Number}, nil
		}
		return exprType{}, typeErrorf(u, "unexpected identifier %q in expression", u.str)
	case Var, Attr, Env:
		return exprType{cat: unit.Number, pending: true}, nil
	case Calc, SubExpression:
		if u.params == nil {
			return exprType{}, typeErrorf(u, "empty expression")
		}
		t, stop, err := typeOfSum(u.params)
		if err != nil {
			return t, err
		}
		if stop != nil {
			return t, typeErrorf(stop, "unexpected comma in expression")
		}
		return t, nil
	case MathFunction:
		return typeOfMathFunction(u)
	}
	return exprType{}, typeErrorf(u, "unexpected %s in expression", u.typ)
}

// typeOfSum types a sequence of products joined by "+" or "-". It stops at
// a comma, which is returned.
func typeOfSum(u *LexicalUnit) (exprType, *LexicalUnit, error) {
	acc, op, err := typeOfProduct(u)
	if err != nil {
		return acc, nil, err
	}
	for op != nil && (op.typ == OperatorPlus || op.typ == OperatorMinus) {
		rhs := op.next
		if rhs == nil || rhs.typ.IsOperator() {
			return acc, nil, typeErrorf(op, "missing operand after %s", op.CSSText())
		}
		var t exprType
		if t, op, err = typeOfProduct(rhs); err != nil {
			return acc, nil, err
		}
		if acc, err = addTypes(acc, t, rhs); err != nil {
			return acc, nil, err
		}
	}
	return acc, op, nil
}

// typeOfProduct types a sequence of terms joined by "*" or "/". It returns
// the additive operator or comma that ended it.
func typeOfProduct(u *LexicalUnit) (exprType, *LexicalUnit, error) {
	if u.typ.IsOperator() {
		return exprType{}, nil, typeErrorf(u, "unexpected operator %s", u.CSSText())
	}
	acc, err := typeOf(u)
	if err != nil {
		return acc, nil, err
	}
	for n := u.next; n != nil; n = n.next {
		switch n.typ {
		case OperatorPlus, OperatorMinus, OperatorComma:
			return acc, n, nil
		case OperatorMultiply, OperatorSlash:
			rhs := n.next
			if rhs == nil || rhs.typ.IsOperator() {
				return acc, nil, typeErrorf(n, "missing operand after %s", n.CSSText())
			}
			t, err := typeOf(rhs)
			if err != nil {
				return acc, nil, err
			}
			if acc, err = mulTypes(acc, t, n.typ == OperatorSlash, rhs); err != nil {
				return acc, nil, err
			}
			n = rhs
		default:
			return acc, nil, typeErrorf(n, "missing operator before %s", n.CSSText())
		}
	}
	return acc, nil, nil
}

func addTypes(a, b exprType, at *LexicalUnit) (exprType, error) {
	pending := a.pending || b.pending
	switch {
	case a.pending && !b.pending:
		return exprType{cat: b.cat, pending: true}, nil
	case b.pending:
		return exprType{cat: a.cat, pending: pending}, nil
	case a.cat == b.cat:
		return a, nil
	case a.cat == unit.Percentage && b.cat != unit.Number:
		return b, nil
	case b.cat == unit.Percentage && a.cat != unit.Number:
		return a, nil
	}
	return a, typeErrorf(at, "cannot add %s and %s", a.cat, b.cat)
}

func mulTypes(a, b exprType, div bool, at *LexicalUnit) (exprType, error) {
	if a.pending || b.pending {
		cat := a.cat
		if cat == unit.Number {
			cat = b.cat
		}
		return exprType{cat: cat, pending: true}, nil
	}
	if div {
		switch {
		case b.cat == unit.Number:
			return a, nil
		case a.cat == b.cat:
			return exprType{cat: unit.Number}, nil
		}
		return a, typeErrorf(at, "cannot divide %s by %s", a.cat, b.cat)
	}
	switch {
	case a.cat == unit.Number:
		return b, nil
	case b.cat == unit.Number:
		return a, nil
	}
	return a, typeErrorf(at, "cannot multiply %s by %s", a.cat, b.cat)
}

var roundingStrategies = map[string]bool{
	"nearest": true, "up": true, "down": true, "to-zero": true,
}

// mathArity holds the minimum and maximum argument counts of each math
// function. A maximum of -1 means unbounded.
var mathArity = map[MathFunc][2]int{
	MathMin:   {1, -1},
	MathMax:   {1, -1},
	MathHypot: {1, -1},
	MathClamp: {3, 3},
	MathRound: {1, 2},
	MathMod:   {2, 2},
	MathRem:   {2, 2},
	MathSin:   {1, 1},
	MathCos:   {1, 1},
	MathTan:   {1, 1},
	MathAsin:  {1, 1},
	MathAcos:  {1, 1},
	MathAtan:  {1, 1},
	MathAtan2: {2, 2},
	MathPow:   {2, 2},
	MathSqrt:  {1, 1},
	MathExp:   {1, 1},
	MathLog:   {1, 2},
	MathAbs:   {1, 1},
	MathSign:  {1, 1},
}

func typeOfMathFunction(u *LexicalUnit) (exprType, error) {
	p := u.params
	if p == nil {
		return exprType{}, typeErrorf(u, "%s() requires arguments", u.name)
	}
	if u.mathFn == MathRound && p.typ == Ident && roundingStrategies[strings.ToLower(p.str)] {
		if p.next == nil || p.next.typ != OperatorComma {
			return exprType{}, typeErrorf(p, "expected comma after rounding strategy")
		}
		p = p.next.next
		if p == nil {
			return exprType{}, typeErrorf(u, "%s() requires a value", u.name)
		}
	}

	var args []exprType
	for p != nil {
		if p.typ == OperatorComma {
			return exprType{}, typeErrorf(p, "missing argument")
		}
		t, stop, err := typeOfSum(p)
		if err != nil {
			return t, err
		}
		args = append(args, t)
		if stop == nil {
			break
		}
		if p = stop.next; p == nil {
			return exprType{}, typeErrorf(stop, "missing argument after comma")
		}
	}

	if ar, ok := mathArity[u.mathFn]; ok {
		if len(args) < ar[0] || (ar[1] >= 0 && len(args) > ar[1]) {
			return exprType{}, typeErrorf(u, "wrong number of arguments to %s(): %d", u.name, len(args))
		}
	}

	pending := false
	for _, a := range args {
		pending = pending || a.pending
	}

	switch u.mathFn {
	case MathSin, MathCos, MathTan:
		if !args[0].pending && args[0].cat != unit.Number && args[0].cat != unit.Angle {
			return exprType{}, typeErrorf(u.params, "%s() expects an angle or a number", u.name)
		}
		return exprType{cat: unit.Number, pending: pending}, nil
	case MathAsin, MathAcos, MathAtan:
		if !args[0].pending && args[0].cat != unit.Number {
			return exprType{}, typeErrorf(u.params, "%s() expects a number", u.name)
		}
		return exprType{cat: unit.Angle, pending: pending}, nil
	case MathAtan2:
		if _, err := addTypes(args[0], args[1], u.params); err != nil {
			return exprType{}, err
		}
		return exprType{cat: unit.Angle, pending: pending}, nil
	case MathPow, MathSqrt, MathExp, MathLog:
		for _, a := range args {
			if !a.pending && a.cat != unit.Number {
				return exprType{}, typeErrorf(u.params, "%s() expects numbers", u.name)
			}
		}
		return exprType{cat: unit.Number, pending: pending}, nil
	case MathSign:
		return exprType{cat: unit.Number, pending: pending}, nil
	}

	// min, max, clamp, hypot, round, mod, rem, abs and unknown functions
	// return the combined type of their arguments.
	acc := args[0]
	for _, a := range args[1:] {
		var err error
		if acc, err = addTypes(acc, a, u.params); err != nil {
			return acc, err
		}
	}
	return acc, nil
}
