package query

import "fmt"

// maxRemainderQuote bounds how much of the unparsed input Error() quotes.
const maxRemainderQuote = 40

// ParseError reports query text that does not match the grammar. No partial
// query is ever returned alongside it.
type ParseError struct {
	// Offset is the byte offset of the first token that could not be parsed.
	Offset int
	// Remainder is the query text from Offset to the end.
	Remainder string
	Msg       string
	// Err is the underlying sentinel error, if any (see validation.go).
	Err error
}

func (e *ParseError) Error() string {
	near := e.Remainder
	if len(near) > maxRemainderQuote {
		near = near[:maxRemainderQuote] + "..."
	}
	if near == "" {
		return fmt.Sprintf("parse error at offset %d: %s (at end of input)", e.Offset, e.Msg)
	}
	return fmt.Sprintf("parse error at offset %d: %s (near %q)", e.Offset, e.Msg, near)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
