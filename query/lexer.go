package query

import "strconv"

// Lexer tokenizes SQL query strings
type Lexer struct {
	input    string
	pos      int // position after ch
	start    int // position of ch
	ch       byte
	wantPath bool
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	l.start = l.pos
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) atEnd() bool {
	return l.start >= len(l.input)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return ch == '_' || isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a quoted string. The text between the quotes is taken
// as written; there are no escape sequences. ok is false when the closing
// quote is missing.
func (l *Lexer) readString(quote byte) (string, bool) {
	l.readChar() // skip opening quote
	begin := l.start

	for !l.atEnd() && l.ch != quote {
		l.readChar()
	}

	value := l.input[begin:l.start]
	if l.atEnd() {
		return value, false
	}
	l.readChar() // skip closing quote
	return value, true
}

// readNumber reads a negative integer literal
func (l *Lexer) readNumber() string {
	begin := l.start
	l.readChar() // '-'
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.start]
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	begin := l.start
	for !l.atEnd() && isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.start]
}

// readPath reads a bare file path, which runs up to the next whitespace
func (l *Lexer) readPath() string {
	begin := l.start
	for !l.atEnd() && !isSpace(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.start]
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.start
	if l.atEnd() {
		return Token{Type: TokenEOF, Value: "", Pos: len(l.input)}
	}

	// The token following FROM is the table path.
	if l.wantPath {
		l.wantPath = false
		if l.ch != '\'' && l.ch != '"' {
			return Token{Type: TokenPath, Value: l.readPath(), Pos: pos}
		}
	}

	var tok Token
	switch l.ch {
	case '=':
		tok = Token{Type: TokenEqual, Value: "="}
		l.readChar()
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenLessEqual, Value: "<="}
		} else {
			tok = Token{Type: TokenLess, Value: "<"}
		}
		l.readChar()
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Value: ">="}
		} else {
			tok = Token{Type: TokenGreater, Value: ">"}
		}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Value: ","}
		l.readChar()
	case '(':
		tok = Token{Type: TokenLParen, Value: "("}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRParen, Value: ")"}
		l.readChar()
	case '*':
		tok = Token{Type: TokenStar, Value: Wildcard}
		l.readChar()
	case '\'', '"':
		value, ok := l.readString(l.ch)
		if !ok {
			tok = Token{Type: TokenError, Value: "unterminated string"}
		} else {
			tok = Token{Type: TokenString, Value: value}
		}
	default:
		switch {
		case l.ch == '-' && isDigit(l.peekChar()):
			tok = Token{Type: TokenNumber, Value: l.readNumber()}
		case isIdentChar(l.ch):
			value := l.readIdentifier()
			tok = Token{Type: identifierType(value), Value: value}
		default:
			tok = Token{Type: TokenError, Value: "invalid character " + strconv.QuoteRune(rune(l.ch))}
			l.readChar()
		}
	}

	if tok.Type == TokenFrom {
		l.wantPath = true
	}
	tok.Pos = pos
	return tok
}

var keywords = map[string]TokenType{
	"SELECT":   TokenSelect,
	"DISTINCT": TokenDistinct,
	"FROM":     TokenFrom,
	"WHERE":    TokenWhere,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"LIKE":     TokenLike,
	"BETWEEN":  TokenBetween,
	"GROUP":    TokenGroup,
	"ORDER":    TokenOrder,
	"BY":       TokenBy,
	"ASC":      TokenAsc,
	"DESC":     TokenDesc,
}

// identifierType determines if an identifier is a keyword. Keywords are
// upper case only; "select" is a plain identifier.
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}

	return tokens
}
