package parser

import (
	"strings"

	"github.com/benbjohnson/go-css/ast"
	"github.com/benbjohnson/go-css/token"
	"github.com/benbjohnson/go-css/unit"
	"github.com/benbjohnson/go-css/value"
)

func isCalcName(name string) bool {
	switch name {
	case "calc", "-webkit-calc", "-moz-calc":
		return true
	}
	return false
}

func isMathName(name string) bool {
	_, ok := value.LookupMathFunc(name)
	return ok
}

// mathValue parses calc() or a math function. With check, the expression
// is typed and an inconsistent one is an error.
func (p *parser) mathValue(fn *ast.Function, check bool) (*value.LexicalUnit, error) {
	u, err := p.mathNode(fn)
	if err != nil {
		return nil, err
	}
	if check {
		if _, _, err := value.ExpressionCategory(u); err != nil {
			return nil, asError(err, fn.Pos)
		}
	}
	return u, nil
}

func (p *parser) mathNode(fn *ast.Function) (*value.LexicalUnit, error) {
	u, err := p.mathTree(fn)
	return closeFunction(fn, u, err)
}

func (p *parser) mathTree(fn *ast.Function) (*value.LexicalUnit, error) {
	name := strings.ToLower(fn.Name)
	if isCalcName(name) {
		params, err := p.parseExpression(funcCursor(fn), false)
		if err != nil {
			return nil, err
		} else if params == nil {
			return nil, errorf(Grammar, fn.EndPosition(), "empty expression in %s()", name)
		}
		return at(value.NewFunction(value.Calc, fn.Name, params), fn.Pos), nil
	}

	params, err := p.parseExpression(funcCursor(fn), true)
	if err != nil {
		return nil, err
	}
	return at(value.NewMathFunction(fn.Name, params), fn.Pos), nil
}

// parseExpression parses the operands and operators of a math expression.
// "+" and "-" must be surrounded by whitespace. With commas, the commas
// separating math function arguments are kept as operators.
func (p *parser) parseExpression(c *cursor, commas bool) (*value.LexicalUnit, error) {
	var ch value.Chain
	operand := true
	var last ast.ComponentValue
	for {
		space := c.skipSpace()
		v := c.next()
		if v == nil {
			break
		}
		last = v

		if operand {
			if isComma(v) || isDelim(v, "+") || isDelim(v, "-") || isDelim(v, "*") || isDelim(v, "/") {
				return nil, errorf(Grammar, v.Position(), "unexpected %s in expression", describe(v))
			}
			u, err := p.parseOperand(v)
			if err != nil {
				return nil, err
			}
			ch.Append(u)
			operand = false
			continue
		}

		var t value.Type
		switch {
		case isComma(v) && commas:
			t = value.OperatorComma
		case isDelim(v, "+"), isDelim(v, "-"):
			if !space || !isWhitespace(c.peek()) {
				return nil, errorf(Grammar, v.Position(), "%s must be surrounded by whitespace", describe(v))
			}
			t = value.OperatorPlus
			if isDelim(v, "-") {
				t = value.OperatorMinus
			}
		case isDelim(v, "*"):
			t = value.OperatorMultiply
		case isDelim(v, "/"):
			t = value.OperatorSlash
		default:
			return nil, errorf(Grammar, v.Position(), "missing operator before %s", describe(v))
		}
		ch.Append(at(value.NewOperator(t), v.Position()))
		operand = true
	}

	if ch.Len() > 0 && operand {
		return nil, errorf(Grammar, c.end(), "missing operand after %s", describe(last))
	}
	return ch.Head(), nil
}

// parseOperand parses a term of a math expression.
func (p *parser) parseOperand(v ast.ComponentValue) (*value.LexicalUnit, error) {
	switch v := v.(type) {
	case *ast.Function:
		name := strings.ToLower(v.Name)
		switch {
		case isCalcName(name), isMathName(name):
			return p.mathNode(v)
		case name == "var", name == "env", name == "attr":
			return p.parseSubstitution(v)
		}
		return nil, errorf(Grammar, v.Pos, "unexpected function %s() in expression", v.Name)
	case *ast.SimpleBlock:
		if !isParenBlock(v) {
			break
		}
		inner, err := p.parseExpression(blockCursor(v), false)
		if err != nil {
			return nil, err
		} else if inner == nil {
			return nil, errorf(Grammar, v.EndPosition(), "empty expression")
		} else if !v.Closed() {
			return nil, errorf(Structural, v.EndPosition(), "missing ')'")
		}
		return at(value.NewFunction(value.SubExpression, "", inner), v.Position()), nil
	}

	switch tok := tokenOf(v).(type) {
	case *token.Number:
		return numberUnit(tok), nil
	case *token.Percentage:
		return at(value.NewPercentage(tok.Number), tok.Pos), nil
	case *token.Dimension:
		if _, ok := unit.Lookup(tok.Unit); !ok {
			return nil, errorf(Grammar, tok.Pos, "unknown unit %q", tok.Unit)
		}
		return at(value.NewDimension(tok.Number, tok.Unit), tok.Pos), nil
	case *token.Ident:
		return at(value.NewIdent(tok.Value), tok.Pos), nil
	}
	return nil, errorf(Grammar, v.Position(), "unexpected %s in expression", describe(v))
}
