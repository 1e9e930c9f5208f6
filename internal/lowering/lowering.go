// Package lowering flattens an internal/ast tree into the linear, categorized
// internal/instr sequence the executor steps through.
package lowering

import (
	"strings"
	"unicode"

	"github.com/cwbudde/weave/internal/ast"
	"github.com/cwbudde/weave/internal/compileerr"
	"github.com/cwbudde/weave/internal/instr"
	"github.com/cwbudde/weave/internal/lexer"
	"github.com/cwbudde/weave/internal/token"
	"github.com/cwbudde/weave/internal/value"
)

// Lower converts nodes into a linear instruction list. reg may be nil: when
// present, known variables are substituted into Assignment expressions
// before the assignment is rewritten; lowering never mutates reg.
func Lower(nodes []ast.Node, reg *value.Registry) ([]instr.Instruction, error) {
	out := make([]instr.Instruction, 0, len(nodes))
	if err := lowerSequence(nodes, reg, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func lowerSequence(nodes []ast.Node, reg *value.Registry, path string, out *[]instr.Instruction) error {
	for _, n := range nodes {
		if err := lowerNode(n, reg, path, out); err != nil {
			return err
		}
	}
	return nil
}

func lowerNode(n ast.Node, reg *value.Registry, path string, out *[]instr.Instruction) error {
	switch v := n.(type) {
	case *ast.Label:
		for _, prev := range *out {
			if prev.Category == instr.Label && prev.Payload == v.Name {
				return compileerr.New(compileerr.Syntax, "duplicate label %q", v.Name)
			}
		}
		*out = append(*out, instr.Instruction{Category: instr.Label, Payload: v.Name})
		return nil

	case *ast.Goto:
		*out = append(*out, instr.Instruction{Category: instr.Goto, Payload: v.Target})
		return nil

	case *ast.Command:
		*out = append(*out, instr.Instruction{Category: instr.Command, Payload: v.Raw})
		return nil

	case *ast.Assignment:
		payload, err := lowerAssignment(v, reg)
		if err != nil {
			return err
		}
		*out = append(*out, instr.Instruction{Category: instr.CommandRewrite, Payload: payload})
		return nil

	case *ast.If:
		*out = append(*out, instr.Instruction{Category: instr.IfCondition, Payload: v.Condition})
		*out = append(*out, instr.Instruction{Category: instr.IfOpen, Payload: path})
		if err := lowerSequence(v.Then, reg, path+"T", out); err != nil {
			return err
		}
		*out = append(*out, instr.Instruction{Category: instr.IfEnd, Payload: path})
		if v.Else != nil {
			*out = append(*out, instr.Instruction{Category: instr.ElseOpen, Payload: path})
			if err := lowerSequence(v.Else, reg, path+"F", out); err != nil {
				return err
			}
			*out = append(*out, instr.Instruction{Category: instr.ElseEnd, Payload: path})
		}
		return nil

	case *ast.DoWhile:
		*out = append(*out, instr.Instruction{Category: instr.DoOpen})
		if err := lowerSequence(v.Body, reg, path, out); err != nil {
			return err
		}
		*out = append(*out, instr.Instruction{Category: instr.DoEnd})
		*out = append(*out, instr.Instruction{Category: instr.WhileCondition, Payload: v.Condition})
		return nil

	default:
		return compileerr.New(compileerr.UnsupportedExpr, "lowering: unrecognized AST node %T", n)
	}
}

// lowerAssignment rewrites a variable assignment into a command invocation.
// The canonical names of the built-in command ("evaluate") and global
// extension ("store") are used directly in the emitted payload, rather than
// the illustrative "EvaluateCommand"/".Store(...)" capitalized spellings
// sometimes used in design notes, so the payload always names something the
// dispatcher actually has registered.
func lowerAssignment(a *ast.Assignment, reg *value.Registry) (string, error) {
	expr := substituteVariables(a.Expression, reg)

	if call, ok := commandCallExpr(expr); ok {
		return call + ".store(" + a.Variable + ")", nil
	}
	if isSimpleExpression(expr) {
		return "evaluate(" + expr + ", " + a.Variable + ")", nil
	}
	return "", compileerr.New(compileerr.UnsupportedExpr,
		"unsupported assignment expression %q", a.Expression)
}

// substituteVariables replaces bare identifiers in expr that resolve in reg
// with their literal (re-quoted for strings) value text. reg == nil leaves
// expr untouched, matching the "only when invoked with a registry" clause.
func substituteVariables(expr string, reg *value.Registry) string {
	if reg == nil {
		return expr
	}
	l := lexer.New(expr)
	var parts []string
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.COMMENT {
			continue
		}
		if tok.Kind == token.IDENT {
			if v, ok := reg.Get(tok.Literal); ok {
				parts = append(parts, v.Quoted())
				continue
			}
		}
		if tok.Kind == token.STRING {
			parts = append(parts, `"`+tok.Literal+`"`)
			continue
		}
		parts = append(parts, tok.Literal)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// commandCallExpr reports whether expr, in its entirety, is an identifier
// followed by a balanced parenthesized argument list with nothing after it —
// i.e. a command call used as an assignment's right-hand side.
func commandCallExpr(expr string) (string, bool) {
	s := strings.TrimSpace(expr)
	i := 0
	for i < len(s) && isIdentRune(rune(s[i])) {
		i++
	}
	if i == 0 {
		return "", false
	}
	j := i
	for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
		j++
	}
	if j >= len(s) || s[j] != '(' {
		return "", false
	}
	depth := 0
	k := j
	for k < len(s) {
		switch s[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				k++
				goto closed
			}
		}
		k++
	}
	return "", false // unbalanced
closed:
	if strings.TrimSpace(s[k:]) != "" {
		return "", false
	}
	return s, true
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// isSimpleExpression reports whether expr is built only from letters,
// digits, whitespace, and the arithmetic/comparison/logical character set
// that can be passed straight through to evaluate without rewriting.
func isSimpleExpression(expr string) bool {
	for _, r := range expr {
		switch r {
		case ' ', '\t', '+', '-', '*', '/', '<', '>', '=', '!', '&', '|':
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
