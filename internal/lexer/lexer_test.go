package lexer

import (
	"testing"

	"github.com/funvibe/tuplecheck/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `typing.NamedTuple("A", [('b', str)], n=-1.5, x=...)`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.IDENT, "typing"},
		{token.DOT, "."},
		{token.IDENT, "NamedTuple"},
		{token.LPAREN, "("},
		{token.STRING, `"A"`},
		{token.COMMA, ","},
		{token.LBRACKET, "["},
		{token.LPAREN, "("},
		{token.STRING, `'b'`},
		{token.COMMA, ","},
		{token.IDENT, "str"},
		{token.RPAREN, ")"},
		{token.RBRACKET, "]"},
		{token.COMMA, ","},
		{token.IDENT, "n"},
		{token.ASSIGN, "="},
		{token.MINUS, "-"},
		{token.FLOAT, "1.5"},
		{token.COMMA, ","},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.ELLIPSIS, "..."},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	toks := New(`'it\'s' 42 1_000 True None`).Tokens()
	if len(toks) != 6 {
		t.Fatalf("expected 6 tokens, got %d", len(toks))
	}
	if toks[0].Literal != "it's" {
		t.Errorf("string literal = %q", toks[0].Literal)
	}
	if toks[1].Literal != int64(42) || toks[2].Literal != int64(1000) {
		t.Errorf("int literals = %v, %v", toks[1].Literal, toks[2].Literal)
	}
	if toks[3].Type != token.TRUE || toks[4].Type != token.NONE {
		t.Errorf("keywords = %s, %s", toks[3].Type, toks[4].Type)
	}
}

func TestPositions(t *testing.T) {
	l := NewAt("f(a,\n  b)", 7)
	var last token.Token
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		last = tok
	}
	if last.Line != 8 || last.Column != 4 {
		t.Errorf("')' at %d:%d, want 8:4", last.Line, last.Column)
	}
}

func TestUnterminatedString(t *testing.T) {
	tok := New(`"abc`).NextToken()
	if tok.Type != token.ILLEGAL {
		t.Errorf("expected ILLEGAL, got %s", tok.Type)
	}
}
