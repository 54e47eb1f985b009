package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // foo, console, add
	NUMBER = "NUMBER" // 1343456
	STRING = "STRING" // 'foobar', "foobar" (raw, quotes included)

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	BANG     = "!"

	EQ            = "=="
	STRICT_EQ     = "==="
	NOT_EQ        = "!="
	STRICT_NOT_EQ = "!=="

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	QUESTION = "?"
	COLON    = ":"

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	FUNCTION = "FUNCTION"
	RETURN   = "RETURN"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NULL     = "NULL"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

var keywords = map[string]TokenType{
	"function": FUNCTION,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
