package query

import (
	"errors"
	"fmt"
)

// Parser limits. Input beyond any of them is rejected with a *ParseError
// wrapping the matching sentinel below.
const (
	MaxQueryLength      = 1 << 20
	MaxTokens           = 1000
	MaxExpressionDepth  = 100
	MaxColumnNameLength = 256
	MaxTableNameLength  = 4096
)

var (
	ErrQueryTooLong      = errors.New("query too long")
	ErrTooManyTokens     = errors.New("too many tokens in query")
	ErrExpressionTooDeep = errors.New("expression nesting too deep")
	ErrColumnNameTooLong = errors.New("column name too long")
	ErrTableNameTooLong  = errors.New("table name too long")
	ErrEmptyTableName    = errors.New("table name cannot be empty")

	// ErrInvalidPattern is returned when a LIKE pattern does not compile
	ErrInvalidPattern = errors.New("invalid LIKE pattern")

	// ErrIntegerOutOfRange is returned when an integer literal overflows int64
	ErrIntegerOutOfRange = errors.New("integer literal out of range")
)

// limitError is a limit violation found at a byte offset of the query
type limitError struct {
	pos int
	err error
	msg string
}

func exceeded(pos int, sentinel error, got, limit int, unit string) *limitError {
	return &limitError{
		pos: pos,
		err: sentinel,
		msg: fmt.Sprintf("%v: %d %s (max %d)", sentinel, got, unit, limit),
	}
}

// checkInput reports a query longer than MaxQueryLength at the first byte
// past the limit.
func checkInput(input string) *limitError {
	if len(input) > MaxQueryLength {
		return exceeded(MaxQueryLength, ErrQueryTooLong, len(input), MaxQueryLength, "bytes")
	}
	return nil
}

// checkTokens reports a token stream longer than MaxTokens at the first
// token past the limit.
func checkTokens(tokens []Token) *limitError {
	if len(tokens) > MaxTokens {
		return exceeded(tokens[MaxTokens].Pos, ErrTooManyTokens, len(tokens), MaxTokens, "tokens")
	}
	return nil
}

func checkTable(tok Token) *limitError {
	switch {
	case tok.Value == "":
		return &limitError{pos: tok.Pos, err: ErrEmptyTableName, msg: ErrEmptyTableName.Error()}
	case len(tok.Value) > MaxTableNameLength:
		return exceeded(tok.Pos, ErrTableNameTooLong, len(tok.Value), MaxTableNameLength, "chars")
	}
	return nil
}

func checkColumn(tok Token) *limitError {
	if len(tok.Value) > MaxColumnNameLength {
		return exceeded(tok.Pos, ErrColumnNameTooLong, len(tok.Value), MaxColumnNameLength, "chars")
	}
	return nil
}

// nesting counts open parentheses around WHERE predicates
type nesting int

func (n *nesting) enter(tok Token) *limitError {
	*n++
	if int(*n) > MaxExpressionDepth {
		return exceeded(tok.Pos, ErrExpressionTooDeep, int(*n), MaxExpressionDepth, "levels")
	}
	return nil
}

func (n *nesting) leave() {
	*n--
}
