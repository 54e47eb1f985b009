package lexer

import (
	"jabroni/internal/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		tok = l.readEqualsRun(token.ASSIGN, token.EQ, token.STRICT_EQ)
	case '!':
		tok = l.readEqualsRun(token.BANG, token.NOT_EQ, token.STRICT_NOT_EQ)
	case '<':
		tok = l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '+':
		tok = newToken(token.PLUS, l.ch, l.position)
	case '-':
		tok = newToken(token.MINUS, l.ch, l.position)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.position)
	case '?':
		tok = newToken(token.QUESTION, l.ch, l.position)
	case ':':
		tok = newToken(token.COLON, l.ch, l.position)
	case '.':
		tok = newToken(token.PERIOD, l.ch, l.position)
	case ',':
		tok = newToken(token.COMMA, l.ch, l.position)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, l.position)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.position)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.position)
	case '{':
		tok = newToken(token.LBRACE, l.ch, l.position)
	case '}':
		tok = newToken(token.RBRACE, l.ch, l.position)
	case '\'', '"':
		return l.readStringLiteral()
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Position = l.position
	default:
		if isLetter(l.ch) {
			startPosition := l.position
			literal := l.readIdentifier()
			return token.Token{
				Type:     token.LookupIdent(literal),
				Literal:  literal,
				Position: startPosition,
			}
		}
		if isDigit(l.ch) {
			startPosition := l.position
			return token.Token{
				Type:     token.NUMBER,
				Literal:  l.readNumber(),
				Position: startPosition,
			}
		}
		tok = newToken(token.ILLEGAL, l.ch, l.position)
	}

	l.readChar()
	return tok
}

// readEqualsRun scans an operator that may be followed by one or two '='
// runes, covering = / == / === and ! / != / !==.
func (l *Lexer) readEqualsRun(t0, t1, t2 token.TokenType) token.Token {
	startPosition := l.position
	literal := string(l.ch)
	typ := t0
	if l.peekChar() == '=' {
		l.readChar()
		literal += string(l.ch)
		typ = t1
		if l.peekChar() == '=' {
			l.readChar()
			literal += string(l.ch)
			typ = t2
		}
	}
	return token.Token{Type: typ, Literal: literal, Position: startPosition}
}

func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	startPosition := l.position
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Literal: literal, Position: startPosition}
	}
	return newToken(t, l.ch, startPosition)
}

// readStringLiteral returns the literal raw, quotes and escapes included.
// Unquoting is owned by the value constructor so the evaluator sees the
// same text a host would pass to it directly.
func (l *Lexer) readStringLiteral() token.Token {
	startPosition := l.position
	terminator := l.ch
	backslash := false

	for {
		l.readChar()
		if l.ch == 0 {
			return token.Token{
				Type:     token.ILLEGAL,
				Literal:  l.input[startPosition:l.position],
				Position: startPosition,
			}
		}
		if backslash {
			backslash = false
			continue
		}
		if l.ch == '\\' {
			backslash = true
			continue
		}
		if l.ch == terminator {
			break
		}
	}

	l.readChar() // move past the closing quote
	return token.Token{
		Type:     token.STRING,
		Literal:  l.input[startPosition:l.position],
		Position: startPosition,
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.skipToLineEnd()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}
