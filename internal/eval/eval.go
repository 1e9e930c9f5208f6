// Package eval implements the expression evaluator: a pure function from
// expression text plus a value.Registry to either a boolean or a numeric
// result. It has no side effects on the registry.
package eval

import (
	"fmt"
	"strings"

	"github.com/cwbudde/weave/internal/compileerr"
	"github.com/cwbudde/weave/internal/lexer"
	"github.com/cwbudde/weave/internal/token"
	"github.com/cwbudde/weave/internal/value"
)

// IsBooleanExpression is a syntactic probe: true iff expr contains any
// comparison operator or the words and/or/not (case-insensitive
// whole-word match, not a substring match — "android" does not count as
// containing "and").
func IsBooleanExpression(expr string) bool {
	for _, tok := range tokenize(expr) {
		switch tok.Kind {
		case token.EQ, token.NEQ, token.GT, token.GTE, token.LT, token.LTE:
			return true
		case token.IDENT:
			if isWord(tok, "and") || isWord(tok, "or") || isWord(tok, "not") {
				return true
			}
		}
	}
	return false
}

func isWord(tok token.Token, word string) bool {
	return tok.Kind == token.IDENT && strings.EqualFold(tok.Literal, word)
}

// EvaluateBoolean parses expr as the boolean grammar and returns its
// boolean result.
func EvaluateBoolean(expr string, reg *value.Registry) (bool, error) {
	toks := mergeNumberLiterals(tokenize(expr))
	p := &boolParser{toks: toks, reg: reg, expr: expr}
	v, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.cur().Kind != token.EOF {
		return false, unsupported(expr, "unexpected token %q after expression", p.cur().Literal)
	}
	return v, nil
}

// EvaluateNumeric parses expr as the numeric grammar (shunting-yard into RPN
// over + - * / and parentheses) and returns its numeric result.
func EvaluateNumeric(expr string, reg *value.Registry) (float64, error) {
	toks := mergeNumberLiterals(tokenize(expr))
	rpn, err := toRPN(toks, expr)
	if err != nil {
		return 0, err
	}
	return evalRPN(rpn, reg, expr)
}

// DisplayNumeric and DisplayBoolean render a numeric or boolean evaluation
// result the way value.Value.Display would: integral doubles without a
// trailing ".0" and booleans as "True"/"False".
func DisplayNumeric(f float64) string {
	return value.NewDouble(f).Display()
}

func DisplayBoolean(b bool) string {
	return value.NewBool(b).Display()
}

func tokenize(expr string) []token.Token {
	l := lexer.New(expr)
	var toks []token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.COMMENT {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

// mergeNumberLiterals collapses the INT "." INT token triples the lexer
// deliberately leaves unmerged (internal/lexer §4.3: "a dot followed by
// digits is left to downstream evaluation") into a single INT token whose
// literal contains the decimal point, e.g. "1" "." "5" -> "1.5".
func mergeNumberLiterals(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		if toks[i].Kind == token.INT && i+2 < len(toks) &&
			toks[i+1].Kind == token.DOT && toks[i+2].Kind == token.INT {
			merged := toks[i]
			merged.Literal = toks[i].Literal + "." + toks[i+2].Literal
			out = append(out, merged)
			i += 2
			continue
		}
		out = append(out, toks[i])
	}
	return out
}

func unsupported(expr, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if expr == "" {
		return compileerr.New(compileerr.UnsupportedExpr, "%s", msg)
	}
	return compileerr.New(compileerr.UnsupportedExpr, "%s (in %q)", msg, expr)
}
