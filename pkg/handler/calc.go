package handler

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/classify"
)

// calcFallback is the user-facing message for arithmetic failures.
const calcFallback = "I couldn't perform that calculation. Please provide a valid mathematical expression."

// ArithmeticError is an expected evaluation failure (division by zero,
// domain errors, non-finite results). It surfaces as a degraded answer,
// never as a system fault.
type ArithmeticError struct {
	Expression string
	Reason     string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("cannot evaluate %q: %s", e.Expression, e.Reason)
}

// Calculator evaluates classified arithmetic expressions. It is a pure
// function of the current input and never consults session memory.
type Calculator struct{}

// NewCalculator creates the calculator handler.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Handle evaluates the token stream carried by a calculation Result.
// The history argument is ignored.
func (h *Calculator) Handle(_ context.Context, result classify.Result, _ []chat.Turn) (string, error) {
	expr := classify.Render(result.Tokens)

	value, err := evaluate(result.Tokens)
	if err != nil {
		return calcFallback, err
	}

	return fmt.Sprintf("The result of %s is %s", expr, FormatNumber(value)), nil
}

// FormatNumber renders a result without unnecessary trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// evaluate walks the same grammar the classifier checked, producing a value.
// Precedence is standard; ^ is right-associative, everything else binds left
// to right.
func evaluate(tokens []classify.Token) (float64, error) {
	e := evaluator{tokens: tokens, expr: classify.Render(tokens)}

	value, err := e.addExpr()
	if err != nil {
		return 0, err
	}
	if e.pos != len(e.tokens) {
		return 0, &ArithmeticError{Expression: e.expr, Reason: "unexpected trailing tokens"}
	}

	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, &ArithmeticError{Expression: e.expr, Reason: "result is not a finite number"}
	}

	return value, nil
}

type evaluator struct {
	tokens []classify.Token
	expr   string
	pos    int
}

func (e *evaluator) peek() (classify.Token, bool) {
	if e.pos >= len(e.tokens) {
		return classify.Token{}, false
	}
	return e.tokens[e.pos], true
}

func (e *evaluator) acceptOp(ops ...byte) (byte, bool) {
	token, ok := e.peek()
	if !ok || token.Kind != classify.TokenOperator {
		return 0, false
	}
	for _, op := range ops {
		if token.Op == op {
			e.pos++
			return op, true
		}
	}
	return 0, false
}

func (e *evaluator) addExpr() (float64, error) {
	left, err := e.mulExpr()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := e.acceptOp('+', '-')
		if !ok {
			return left, nil
		}

		right, err := e.mulExpr()
		if err != nil {
			return 0, err
		}

		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (e *evaluator) mulExpr() (float64, error) {
	left, err := e.unary()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := e.acceptOp('*', '/', '%')
		if !ok {
			return left, nil
		}

		right, err := e.unary()
		if err != nil {
			return 0, err
		}

		switch op {
		case '*':
			left *= right
		case '/':
			if right == 0 {
				return 0, &ArithmeticError{Expression: e.expr, Reason: "division by zero"}
			}
			left /= right
		case '%':
			if right == 0 {
				return 0, &ArithmeticError{Expression: e.expr, Reason: "modulo by zero"}
			}
			left = math.Mod(left, right)
		}
	}
}

func (e *evaluator) unary() (float64, error) {
	if op, ok := e.acceptOp('-', '+'); ok {
		value, err := e.unary()
		if err != nil {
			return 0, err
		}
		if op == '-' {
			return -value, nil
		}
		return value, nil
	}
	return e.powExpr()
}

func (e *evaluator) powExpr() (float64, error) {
	base, err := e.primary()
	if err != nil {
		return 0, err
	}

	if _, ok := e.acceptOp('^'); ok {
		// Right-associative: the exponent may itself be a power.
		exponent, err := e.unary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exponent), nil
	}

	return base, nil
}

func (e *evaluator) primary() (float64, error) {
	token, ok := e.peek()
	if !ok {
		return 0, &ArithmeticError{Expression: e.expr, Reason: "unexpected end of expression"}
	}

	switch token.Kind {
	case classify.TokenNumber:
		e.pos++
		return token.Value, nil

	case classify.TokenFunc:
		e.pos++
		arg, err := e.parenExpr()
		if err != nil {
			return 0, err
		}
		return e.applyFunc(token.Name, arg)

	case classify.TokenLParen:
		return e.parenExpr()
	}

	return 0, &ArithmeticError{Expression: e.expr, Reason: "malformed expression"}
}

func (e *evaluator) parenExpr() (float64, error) {
	token, ok := e.peek()
	if !ok || token.Kind != classify.TokenLParen {
		return 0, &ArithmeticError{Expression: e.expr, Reason: "expected opening parenthesis"}
	}
	e.pos++

	value, err := e.addExpr()
	if err != nil {
		return 0, err
	}

	token, ok = e.peek()
	if !ok || token.Kind != classify.TokenRParen {
		return 0, &ArithmeticError{Expression: e.expr, Reason: "expected closing parenthesis"}
	}
	e.pos++

	return value, nil
}

func (e *evaluator) applyFunc(name string, arg float64) (float64, error) {
	switch name {
	case "sqrt":
		if arg < 0 {
			return 0, &ArithmeticError{Expression: e.expr, Reason: "square root of a negative number"}
		}
		return math.Sqrt(arg), nil
	case "abs":
		return math.Abs(arg), nil
	}
	return 0, &ArithmeticError{Expression: e.expr, Reason: fmt.Sprintf("unknown function %q", name)}
}
