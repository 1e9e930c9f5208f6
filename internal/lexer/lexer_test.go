package lexer

import (
	"testing"

	"github.com/cwbudde/weave/internal/token"
)

func TestNextToken_Punctuation(t *testing.T) {
	input := `label L1; goto L1; if (x > 1) { y = 2; } else { y = 3; } do { } while (x < 1);`

	want := []token.Kind{
		token.LABEL, token.IDENT, token.SEMICOLON,
		token.GOTO, token.IDENT, token.SEMICOLON,
		token.IF, token.LPAREN, token.IDENT, token.GT, token.INT, token.RPAREN,
		token.LBRACE, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON, token.RBRACE,
		token.ELSE,
		token.LBRACE, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON, token.RBRACE,
		token.DO, token.LBRACE, token.RBRACE,
		token.WHILE, token.LPAREN, token.IDENT, token.LT, token.INT, token.RPAREN, token.SEMICOLON,
		token.EOF,
	}

	l := New(input)
	for i, k := range want {
		tok := l.Next()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Kind, k, tok.Literal)
		}
	}
}

func TestNextToken_MultiCharOperators(t *testing.T) {
	input := `== != >= <= > < = !`
	want := []token.Kind{token.EQ, token.NEQ, token.GTE, token.LTE, token.GT, token.LT, token.ASSIGN, token.NOT, token.EOF}
	l := New(input)
	for i, k := range want {
		tok := l.Next()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, k)
		}
	}
}

func TestNextToken_StringLiteral(t *testing.T) {
	l := New(`"myfile.txt"`)
	tok := l.Next()
	if tok.Kind != token.STRING || tok.Literal != "myfile.txt" {
		t.Fatalf("got %v", tok)
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New(`"myfile.txt`)
	tok := l.Next()
	if tok.Kind != token.ILLEGAL {
		t.Fatalf("want ILLEGAL, got %v", tok)
	}
	if tok.Literal != "myfile.txt" {
		t.Fatalf("want partial literal, got %q", tok.Literal)
	}
}

func TestNextToken_LineComment(t *testing.T) {
	l := New("-- hello world\nsetValue")
	tok := l.Next()
	if tok.Kind != token.COMMENT || tok.Literal != "hello world" {
		t.Fatalf("got %v", tok)
	}
	tok = l.Next()
	if tok.Kind != token.IDENT || tok.Literal != "setValue" {
		t.Fatalf("got %v", tok)
	}
}

func TestNextToken_KeywordsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"IF", "If", "if"} {
		l := New(src)
		tok := l.Next()
		if tok.Kind != token.IF {
			t.Fatalf("%q: want IF, got %s", src, tok.Kind)
		}
	}
}

func TestNextToken_LineColumnTracking(t *testing.T) {
	l := New("a\nbb")
	first := l.Next()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Fatalf("got %v", first.Pos)
	}
	second := l.Next()
	if second.Pos.Line != 2 || second.Pos.Column != 1 {
		t.Fatalf("got %v", second.Pos)
	}
}

func TestNextToken_UnknownCharacter(t *testing.T) {
	l := New("@")
	tok := l.Next()
	if tok.Kind != token.ILLEGAL || tok.Literal != "@" {
		t.Fatalf("got %v", tok)
	}
	if l.Next().Kind != token.EOF {
		t.Fatalf("expected lexer to advance past the unknown rune")
	}
}

func TestNextToken_UnicodeIdentifier(t *testing.T) {
	l := New("Δcounter")
	tok := l.Next()
	if tok.Kind != token.IDENT || tok.Literal != "Δcounter" {
		t.Fatalf("got %v", tok)
	}
}
