// Package parser implements a recursive-descent parser that turns a token
// stream from internal/lexer into a sequence of internal/ast nodes. The
// parser never backtracks: it buffers the whole token stream
// once up front (dropping comments) and then walks it linearly.
package parser

import (
	"strings"

	"github.com/cwbudde/weave/internal/ast"
	"github.com/cwbudde/weave/internal/compileerr"
	"github.com/cwbudde/weave/internal/lexer"
	"github.com/cwbudde/weave/internal/token"
)

// Parser consumes a pre-scanned token buffer and produces []ast.Node.
type Parser struct {
	source string
	file   string
	tokens []token.Token
	pos    int
	nextID int
}

// New tokenizes source completely (filtering COMMENT tokens) and prepares a
// Parser ready to call Parse. file is used only for error messages.
func New(source, file string) *Parser {
	l := lexer.New(source)
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
	return &Parser{source: source, file: file, tokens: toks}
}

// Parse consumes the whole token stream and returns the top-level statement
// sequence.
func (p *Parser) Parse() ([]ast.Node, error) {
	return p.parseSequence(func() bool { return p.cur().Kind == token.EOF })
}

func (p *Parser) cur() token.Token { return p.tokens[p.pos] }

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) index() int {
	id := p.nextID
	p.nextID++
	return id
}

func (p *Parser) errAt(tok token.Token, format string, args ...any) error {
	return compileerr.NewAt(compileerr.Syntax, tok.Pos, p.source, p.file, format, args...)
}

// parseSequence reads statements until stop() reports true at the current
// token, skipping stray leading semicolons between statements.
func (p *Parser) parseSequence(stop func() bool) ([]ast.Node, error) {
	var nodes []ast.Node
	for !stop() {
		if p.cur().Kind == token.SEMICOLON {
			p.advance()
			continue
		}
		n, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur().Kind {
	case token.LABEL:
		return p.parseLabel()
	case token.GOTO:
		return p.parseGoto()
	case token.IF:
		return p.parseIf()
	case token.DO:
		return p.parseDoWhile()
	default:
		return p.parseFreeform()
	}
}

func (p *Parser) parseLabel() (ast.Node, error) {
	idx := p.index()
	p.advance() // 'label'
	name, err := p.expectIdentLike()
	if err != nil {
		return nil, err
	}
	p.consumeOptional(token.SEMICOLON)
	return &ast.Label{Base: ast.Base{Idx: idx}, Name: name.Literal}, nil
}

func (p *Parser) parseGoto() (ast.Node, error) {
	idx := p.index()
	p.advance() // 'goto'
	name, err := p.expectIdentLike()
	if err != nil {
		return nil, err
	}
	p.consumeOptional(token.SEMICOLON)
	return &ast.Goto{Base: ast.Base{Idx: idx}, Target: name.Literal}, nil
}

// expectIdentLike accepts an IDENT token as the name following label/goto.
func (p *Parser) expectIdentLike() (token.Token, error) {
	tok := p.cur()
	if tok.Kind != token.IDENT {
		return tok, p.errAt(tok, "expected identifier, got %s", tok.Kind)
	}
	p.advance()
	return tok, nil
}

func (p *Parser) consumeOptional(k token.Kind) {
	if p.cur().Kind == k {
		p.advance()
	}
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.cur()
	if tok.Kind != k {
		return tok, p.errAt(tok, "expected %s, got %s", k, tok.Kind)
	}
	p.advance()
	return tok, nil
}

// parseParenCondition expects the current token to be '(' and returns the
// verbatim source text between it and its matching ')' (trimmed of
// surrounding whitespace), leaving the parser positioned just after the
// matching ')'.
func (p *Parser) parseParenCondition() (string, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return "", err
	}
	depth := 1
	start := p.pos
	for depth > 0 {
		switch p.cur().Kind {
		case token.EOF:
			return "", p.errAt(p.cur(), "unmatched '(' in condition")
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				text := strings.TrimSpace(p.source[p.tokens[start].Pos.Offset:p.cur().Pos.Offset])
				p.advance() // consume matching ')'
				return text, nil
			}
		}
		p.advance()
	}
	return "", p.errAt(p.cur(), "unmatched '(' in condition")
}

func (p *Parser) parseBraceBlock() ([]ast.Node, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	nodes, err := p.parseSequence(func() bool {
		return p.cur().Kind == token.RBRACE || p.cur().Kind == token.EOF
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, p.errAt(p.cur(), "missing closing '}'")
	}
	return nodes, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	idx := p.index()
	p.advance() // 'if'
	cond, err := p.parseParenCondition()
	if err != nil {
		return nil, err
	}
	thenBody, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	p.consumeOptional(token.SEMICOLON)

	var elseBody []ast.Node
	if p.cur().Kind == token.ELSE {
		p.advance()
		elseBody, err = p.parseBraceBlock()
		if err != nil {
			return nil, err
		}
		p.consumeOptional(token.SEMICOLON)
	}

	return &ast.If{Condition: cond, Then: thenBody, Else: elseBody, Base: ast.Base{Idx: idx}}, nil
}

func (p *Parser) parseDoWhile() (ast.Node, error) {
	idx := p.index()
	p.advance() // 'do'
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.WHILE {
		return nil, p.errAt(p.cur(), "expected 'while' after do block, got %s", p.cur().Kind)
	}
	p.advance() // 'while'
	cond, err := p.parseParenCondition()
	if err != nil {
		return nil, err
	}
	p.consumeOptional(token.SEMICOLON)
	return &ast.DoWhile{Body: body, Condition: cond, Base: ast.Base{Idx: idx}}, nil
}

// parseFreeform reads tokens up to (not including) the next top-level ';' or
// the closing '}' of the enclosing block, and classifies the result as an
// Assignment or a Command.
func (p *Parser) parseFreeform() (ast.Node, error) {
	idx := p.index()
	start := p.pos
	depth := 0
	for {
		switch p.cur().Kind {
		case token.EOF:
			goto done
		case token.RBRACE:
			if depth == 0 {
				goto done
			}
		case token.SEMICOLON:
			if depth == 0 {
				goto done
			}
		case token.LBRACE:
			if depth == 0 {
				return nil, p.errAt(p.cur(), "unexpected '{' in statement")
			}
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		p.advance()
	}
done:
	stmtToks := p.tokens[start:p.pos]
	if len(stmtToks) == 0 {
		return nil, p.errAt(p.cur(), "empty statement")
	}
	p.consumeOptional(token.SEMICOLON)

	if len(stmtToks) >= 2 && stmtToks[0].Kind == token.IDENT && stmtToks[1].Kind == token.ASSIGN {
		variable := stmtToks[0].Literal
		expr := renderTokens(stmtToks[2:])
		return &ast.Assignment{Variable: variable, Expression: expr, Base: ast.Base{Idx: idx}}, nil
	}

	return &ast.Command{Raw: renderTokens(stmtToks), Base: ast.Base{Idx: idx}}, nil
}

// renderTokens reconstructs source-like text from a token slice: literals
// joined by single spaces, with STRING tokens re-quoted. Exact original
// spacing is not preserved (and does not need to be: both the command
// invocation parser and the expression evaluator ignore whitespace outside
// quotes), but comments are naturally dropped since they were never buffered
// as tokens.
func renderTokens(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.STRING {
			parts = append(parts, `"`+t.Literal+`"`)
			continue
		}
		parts = append(parts, t.Literal)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
