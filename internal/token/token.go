package token

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"

	ASSIGN   TokenType = "="
	COMMA    TokenType = ","
	DOT      TokenType = "."
	COLON    TokenType = ":"
	ELLIPSIS TokenType = "..."
	MINUS    TokenType = "-"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	TRUE  TokenType = "True"
	FALSE TokenType = "False"
	NONE  TokenType = "None"
)

var keywords = map[string]TokenType{
	"True":  TRUE,
	"False": FALSE,
	"None":  NONE,
}

// LookupIdent classifies an identifier as a keyword literal or a plain name.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a lexical token with its source position (1-based).
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

// At returns a token carrying only a position, for diagnostics raised on
// statements that have no single source token.
func At(line, column int) Token {
	return Token{Line: line, Column: column}
}
