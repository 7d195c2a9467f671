package query

import (
	"fmt"
	"regexp"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenDistinct
	TokenFrom
	TokenWhere
	TokenAnd
	TokenOr
	TokenNot
	TokenLike
	TokenBetween
	TokenGroup
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc

	// Operators
	TokenEqual        // =
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Punctuation
	TokenComma  // ,
	TokenLParen // (
	TokenRParen // )
	TokenStar   // *

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenPath

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenSelect:       "SELECT",
	TokenDistinct:     "DISTINCT",
	TokenFrom:         "FROM",
	TokenWhere:        "WHERE",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenLike:         "LIKE",
	TokenBetween:      "BETWEEN",
	TokenGroup:        "GROUP",
	TokenOrder:        "ORDER",
	TokenBy:           "BY",
	TokenAsc:          "ASC",
	TokenDesc:         "DESC",
	TokenEqual:        "=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenComma:        ",",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenStar:         "*",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "identifier",
	TokenPath:         "path",
	TokenEOF:          "end of input",
	TokenError:        "invalid token",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token. Pos is the byte offset of the token
// in the query text.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Wildcard is the projected column name that expands to every header.
const Wildcard = "*"

// Direction is the sort direction of an ORDER BY clause.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderBy names the single result column to sort by.
type OrderBy struct {
	Column    string
	Direction Direction
}

// AggregateKind identifies an aggregate function.
type AggregateKind int

const (
	Count AggregateKind = iota
	Min
	Max
	Sum
	Avg
)

var aggregateNames = [...]string{
	Count: "COUNT",
	Min:   "MIN",
	Max:   "MAX",
	Sum:   "SUM",
	Avg:   "AVG",
}

func (k AggregateKind) String() string {
	if int(k) < len(aggregateNames) {
		return aggregateNames[k]
	}
	return fmt.Sprintf("AggregateKind(%d)", int(k))
}

// Aggregate is one aggregate call of the select list. COUNT(*) is stored
// with Column set to Wildcard.
type Aggregate struct {
	Kind   AggregateKind
	Column string
}

// Label returns the result header of the aggregate, e.g. "COUNT(Name)".
func (a Aggregate) Label() string {
	return a.Kind.String() + "(" + a.Column + ")"
}

// Query represents a parsed SQL query
type Query struct {
	Columns    []string
	Table      string
	Condition  Predicate
	GroupBy    []string
	OrderBy    *OrderBy
	Distinct   bool
	Aggregates []Aggregate
}

// Predicate is a boolean condition of the WHERE clause. The set of
// implementations is closed; see Schema.Match for their semantics.
type Predicate interface {
	predicate()
}

// CompareExpr compares a column, parsed as an integer, against a literal
type CompareExpr struct {
	Column   string
	Operator TokenType // TokenGreater, TokenGreaterEqual, TokenLess or TokenLessEqual
	Value    int64
}

// EqualExpr tests a column for plain string equality
type EqualExpr struct {
	Column string
	Value  string
}

// LikeExpr matches a column against a compiled LIKE pattern
type LikeExpr struct {
	Column  string
	Pattern string
	re      *regexp.Regexp
}

// NewLikeExpr compiles a LIKE pattern where % matches any run of characters.
func NewLikeExpr(column, pattern string) (*LikeExpr, error) {
	re, err := compileLikePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &LikeExpr{Column: column, Pattern: pattern, re: re}, nil
}

// BetweenExpr tests Low <= column <= High with the column parsed as an integer
type BetweenExpr struct {
	Column string
	Low    int64
	High   int64
}

// BinaryExpr represents a binary expression (AND/OR)
type BinaryExpr struct {
	Left     Predicate
	Operator TokenType // TokenAnd or TokenOr
	Right    Predicate
}

// NotExpr negates its inner predicate
type NotExpr struct {
	Inner Predicate
}

func (*CompareExpr) predicate() {}
func (*EqualExpr) predicate()   {}
func (*LikeExpr) predicate()    {}
func (*BetweenExpr) predicate() {}
func (*BinaryExpr) predicate()  {}
func (*NotExpr) predicate()     {}

// Result is the table produced by Execute.
type Result struct {
	Headers []string
	Rows    [][]string
}
