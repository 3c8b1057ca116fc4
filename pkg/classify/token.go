package classify

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind discriminates lexed token variants.
type TokenKind int

const (
	// TokenNumber is a numeric literal.
	TokenNumber TokenKind = iota

	// TokenOperator is one of + - * / % ^.
	TokenOperator

	// TokenLParen is an opening parenthesis.
	TokenLParen

	// TokenRParen is a closing parenthesis.
	TokenRParen

	// TokenFunc is a recognized function name (sqrt, abs).
	TokenFunc
)

// Token is one lexed unit of an arithmetic expression.
type Token struct {
	Kind  TokenKind
	Value float64
	Op    byte
	Name  string
}

// knownFuncs are the named functions the expression grammar accepts.
var knownFuncs = map[string]bool{
	"sqrt": true,
	"abs":  true,
}

// tokenize lexes the input into expression tokens. Any character outside the
// arithmetic alphabet fails lexing, which the classifier treats as a
// conversational signal rather than an error.
func tokenize(input string) ([]Token, error) {
	var tokens []Token

	i := 0
	for i < len(input) {
		c := input[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(input) && (input[j] >= '0' && input[j] <= '9' || input[j] == '.') {
				j++
			}
			value, err := strconv.ParseFloat(input[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q: %w", input[i:j], err)
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Value: value})
			i = j

		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%' || c == '^':
			tokens = append(tokens, Token{Kind: TokenOperator, Op: c})
			i++

		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLParen})
			i++

		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRParen})
			i++

		case unicode.IsLetter(rune(c)):
			j := i
			for j < len(input) && unicode.IsLetter(rune(input[j])) {
				j++
			}
			name := strings.ToLower(input[i:j])
			if !knownFuncs[name] {
				return nil, fmt.Errorf("unknown identifier %q", name)
			}
			tokens = append(tokens, Token{Kind: TokenFunc, Name: name})
			i = j

		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}

	return tokens, nil
}

// String renders a token back to expression text.
func (t Token) String() string {
	switch t.Kind {
	case TokenNumber:
		return strconv.FormatFloat(t.Value, 'f', -1, 64)
	case TokenOperator:
		return string(t.Op)
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenFunc:
		return t.Name
	}
	return ""
}

// Render joins tokens into a readable expression string.
func Render(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts = append(parts, token.String())
	}
	return strings.Join(parts, " ")
}
