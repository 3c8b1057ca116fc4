// Package classify assigns inbound query text to a query category.
//
// Classification is deterministic and total: input that lexes and parses
// fully as an arithmetic expression is tagged as a calculation, and
// everything else (including empty input) is conversational. Mixed text like
// "what is 2+2" is conversational on purpose: the whole trimmed input must
// parse, and no partial-expression extraction is attempted.
package classify

import (
	"strings"

	"github.com/switchboardco/switchboard/pkg/chat"
)

// Result is the transient classification outcome consumed once by the router.
type Result struct {
	Type chat.QueryType

	// Tokens carries the lexed expression for calculation results.
	Tokens []Token

	// Raw is the trimmed input text, carried for conversational results.
	Raw string
}

// Classify inspects raw input and returns exactly one Result. It never fails.
func Classify(input string) Result {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Result{Type: chat.QueryConversational, Raw: trimmed}
	}

	tokens, err := tokenize(trimmed)
	if err != nil || !isExpression(tokens) {
		return Result{Type: chat.QueryConversational, Raw: trimmed}
	}

	return Result{Type: chat.QueryCalculation, Tokens: tokens, Raw: trimmed}
}

// isExpression reports whether tokens form a complete arithmetic expression
// with no residue. A lone number is not enough: at least one operator,
// parenthesis, or function call must appear for the input to count as a
// calculation rather than a short chat message.
func isExpression(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}

	shaped := false
	for _, token := range tokens {
		if token.Kind != TokenNumber {
			shaped = true
			break
		}
	}
	if !shaped {
		return false
	}

	p := parser{tokens: tokens}
	if !p.addExpr() {
		return false
	}
	return p.pos == len(p.tokens)
}

// parser is a recursive-descent grammar check over the token stream.
//
//	addExpr  := mulExpr (('+'|'-') mulExpr)*
//	mulExpr  := unary (('*'|'/'|'%') unary)*
//	unary    := ('-'|'+') unary | powExpr
//	powExpr  := primary ('^' unary)?
//	primary  := number | func '(' addExpr ')' | '(' addExpr ')'
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) acceptOp(ops ...byte) bool {
	token, ok := p.peek()
	if !ok || token.Kind != TokenOperator {
		return false
	}
	for _, op := range ops {
		if token.Op == op {
			p.pos++
			return true
		}
	}
	return false
}

func (p *parser) addExpr() bool {
	if !p.mulExpr() {
		return false
	}
	for p.acceptOp('+', '-') {
		if !p.mulExpr() {
			return false
		}
	}
	return true
}

func (p *parser) mulExpr() bool {
	if !p.unary() {
		return false
	}
	for p.acceptOp('*', '/', '%') {
		if !p.unary() {
			return false
		}
	}
	return true
}

func (p *parser) unary() bool {
	if p.acceptOp('-', '+') {
		return p.unary()
	}
	return p.powExpr()
}

func (p *parser) powExpr() bool {
	if !p.primary() {
		return false
	}
	if p.acceptOp('^') {
		return p.unary()
	}
	return true
}

func (p *parser) primary() bool {
	token, ok := p.peek()
	if !ok {
		return false
	}

	switch token.Kind {
	case TokenNumber:
		p.pos++
		return true

	case TokenFunc:
		p.pos++
		return p.parenExpr()

	case TokenLParen:
		return p.parenExpr()
	}

	return false
}

func (p *parser) parenExpr() bool {
	token, ok := p.peek()
	if !ok || token.Kind != TokenLParen {
		return false
	}
	p.pos++

	if !p.addExpr() {
		return false
	}

	token, ok = p.peek()
	if !ok || token.Kind != TokenRParen {
		return false
	}
	p.pos++
	return true
}
