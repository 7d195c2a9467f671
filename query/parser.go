package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parser parses SQL queries into AST
type Parser struct {
	input  string
	tokens []Token
	pos    int
	depth  nesting
}

// NewParser creates a new parser over tokens produced from input
func NewParser(input string, tokens []Token) *Parser {
	return &Parser{
		input:  input,
		tokens: tokens,
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: "", Pos: len(p.input)}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: "", Pos: len(p.input)}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// errorf builds a ParseError positioned at the current token
func (p *Parser) errorf(format string, args ...interface{}) *ParseError {
	return p.errorAt(p.current(), nil, fmt.Sprintf(format, args...))
}

// wrap builds a ParseError at the current token around a sentinel error
func (p *Parser) wrap(err error) *ParseError {
	return p.errorAt(p.current(), err, err.Error())
}

// limit converts a limit violation into a ParseError at its offset
func (p *Parser) limit(le *limitError) *ParseError {
	return p.errorAtOffset(le.pos, le.err, le.msg)
}

func (p *Parser) errorAt(tok Token, err error, msg string) *ParseError {
	return p.errorAtOffset(tok.Pos, err, msg)
}

func (p *Parser) errorAtOffset(offset int, err error, msg string) *ParseError {
	if offset > len(p.input) {
		offset = len(p.input)
	}
	return &ParseError{
		Offset:    offset,
		Remainder: p.input[offset:],
		Msg:       msg,
		Err:       err,
	}
}

// describe renders a token for error messages
func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return tok.Value
	case TokenIdent, TokenNumber, TokenString, TokenPath:
		return fmt.Sprintf("%s %q", tok.Type, tok.Value)
	default:
		return tok.Type.String()
	}
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return p.errorf("expected %v, got %s", tokType, describe(p.current()))
	}
	p.advance()
	return nil
}

// Parse parses a SQL query
func Parse(query string) (*Query, error) {
	if le := checkInput(query); le != nil {
		return nil, NewParser(query, nil).limit(le)
	}

	tokens := Tokenize(query)
	parser := NewParser(query, tokens)

	if le := checkTokens(tokens); le != nil {
		return nil, parser.limit(le)
	}

	q, err := parser.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// parseQuery parses: SELECT [DISTINCT] list FROM path [WHERE] [GROUP BY] [ORDER BY]
func (p *Parser) parseQuery() (*Query, error) {
	if err := p.expect(TokenSelect); err != nil {
		return nil, err
	}

	q := &Query{}
	if p.current().Type == TokenDistinct {
		q.Distinct = true
		p.advance()
	}

	if err := p.parseSelectList(q); err != nil {
		return nil, err
	}

	if err := p.expect(TokenFrom); err != nil {
		return nil, err
	}

	// Parse table name (file path)
	tok := p.current()
	if tok.Type != TokenPath && tok.Type != TokenString {
		return nil, p.errorf("expected table path after FROM, got %s", describe(tok))
	}
	if le := checkTable(tok); le != nil {
		return nil, p.limit(le)
	}
	q.Table = tok.Value
	p.advance()

	// Parse WHERE clause (optional)
	if p.current().Type == TokenWhere {
		p.advance()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		q.Condition = cond
	}

	if p.current().Type == TokenGroup {
		groupBy, err := p.parseGroupBy()
		if err != nil {
			return nil, err
		}
		q.GroupBy = groupBy
	}

	if p.current().Type == TokenOrder {
		orderBy, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		q.OrderBy = orderBy
	}

	if p.current().Type != TokenEOF {
		return nil, p.errorf("unexpected %s", describe(p.current()))
	}

	return q, nil
}

// parseSelectList parses comma separated columns and aggregate calls
func (p *Parser) parseSelectList(q *Query) error {
	for {
		if p.isAggregateCall() {
			agg, err := p.parseAggregateCall()
			if err != nil {
				return err
			}
			q.Aggregates = append(q.Aggregates, agg)
		} else {
			column, err := p.parseColumn()
			if err != nil {
				return err
			}
			q.Columns = append(q.Columns, column)
		}

		if p.current().Type != TokenComma {
			return nil
		}
		p.advance()
	}
}

// isAggregateCall reports whether the current token starts FUNC(
func (p *Parser) isAggregateCall() bool {
	tok := p.current()
	if tok.Type != TokenIdent || p.peek().Type != TokenLParen {
		return false
	}
	_, ok := aggregateKind(tok.Value)
	return ok
}

// aggregateKind resolves a function name case-insensitively
func aggregateKind(name string) (AggregateKind, bool) {
	for kind, fn := range aggregateNames {
		if strings.EqualFold(name, fn) {
			return AggregateKind(kind), true
		}
	}
	return 0, false
}

// parseAggregateCall parses FUNC '(' column ')'
func (p *Parser) parseAggregateCall() (Aggregate, error) {
	kind, _ := aggregateKind(p.current().Value)
	p.advance()

	if err := p.expect(TokenLParen); err != nil {
		return Aggregate{}, err
	}
	column, err := p.parseColumn()
	if err != nil {
		return Aggregate{}, err
	}
	if err := p.expect(TokenRParen); err != nil {
		return Aggregate{}, err
	}
	return Aggregate{Kind: kind, Column: column}, nil
}

// parseColumn parses a quoted name, a bare identifier or *
func (p *Parser) parseColumn() (string, error) {
	tok := p.current()
	switch tok.Type {
	case TokenIdent, TokenString, TokenStar:
	default:
		return "", p.errorf("expected column name, got %s", describe(tok))
	}
	if le := checkColumn(tok); le != nil {
		return "", p.limit(le)
	}
	p.advance()
	return tok.Value, nil
}

// parseOr parses OR expressions (lowest precedence)
func (p *Parser) parseOr() (Predicate, error) {
	if le := p.depth.enter(p.current()); le != nil {
		return nil, p.limit(le)
	}
	defer p.depth.leave()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: TokenOr,
			Right:    right,
		}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Predicate, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Left:     left,
			Operator: TokenAnd,
			Right:    right,
		}
	}

	return left, nil
}

// parseNot parses an optional NOT in front of a primary condition
func (p *Parser) parseNot() (Predicate, error) {
	if p.current().Type != TokenNot {
		return p.parsePrimary()
	}
	p.advance()
	inner, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &NotExpr{Inner: inner}, nil
}

// parsePrimary parses a parenthesized expression or a single condition
func (p *Parser) parsePrimary() (Predicate, error) {
	if p.current().Type != TokenLParen {
		return p.parseCondition()
	}
	p.advance()
	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseCondition parses column <op> value, LIKE and BETWEEN
func (p *Parser) parseCondition() (Predicate, error) {
	column, err := p.parseColumn()
	if err != nil {
		return nil, err
	}

	operator := p.current()
	switch operator.Type {
	case TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual:
		p.advance()
		value, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Column: column, Operator: operator.Type, Value: value}, nil

	case TokenEqual:
		p.advance()
		tok := p.current()
		switch tok.Type {
		case TokenIdent, TokenString, TokenNumber:
		default:
			return nil, p.errorf("expected value after =, got %s", describe(tok))
		}
		p.advance()
		return &EqualExpr{Column: column, Value: tok.Value}, nil

	case TokenLike:
		p.advance()
		tok := p.current()
		if tok.Type != TokenIdent && tok.Type != TokenString {
			return nil, p.errorf("expected pattern after LIKE, got %s", describe(tok))
		}
		like, err := NewLikeExpr(column, tok.Value)
		if err != nil {
			return nil, p.wrap(err)
		}
		p.advance()
		return like, nil

	case TokenBetween:
		p.advance()
		low, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenAnd); err != nil {
			return nil, err
		}
		high, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		return &BetweenExpr{Column: column, Low: low, High: high}, nil

	default:
		return nil, p.errorf("expected comparison operator, got %s", describe(operator))
	}
}

// parseInteger parses a decimal integer literal
func (p *Parser) parseInteger() (int64, error) {
	tok := p.current()
	if (tok.Type != TokenIdent && tok.Type != TokenNumber) || !isInteger(tok.Value) {
		return 0, p.errorf("expected integer, got %s", describe(tok))
	}
	value, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return 0, p.wrap(fmt.Errorf("%w: %s", ErrIntegerOutOfRange, tok.Value))
	}
	p.advance()
	return value, nil
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// parseGroupBy parses GROUP BY column (',' column)*
func (p *Parser) parseGroupBy() ([]string, error) {
	p.advance() // GROUP
	if err := p.expect(TokenBy); err != nil {
		return nil, err
	}

	var columns []string
	for {
		column, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)

		if p.current().Type != TokenComma {
			return columns, nil
		}
		p.advance()
	}
}

// parseOrderBy parses ORDER BY column [ASC|DESC]. An aggregate call is
// stored under its result label so it can be matched against the headers.
func (p *Parser) parseOrderBy() (*OrderBy, error) {
	p.advance() // ORDER
	if err := p.expect(TokenBy); err != nil {
		return nil, err
	}

	orderBy := &OrderBy{Direction: Asc}
	if p.isAggregateCall() {
		agg, err := p.parseAggregateCall()
		if err != nil {
			return nil, err
		}
		orderBy.Column = agg.Label()
	} else {
		column, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		orderBy.Column = column
	}

	switch p.current().Type {
	case TokenAsc:
		p.advance()
	case TokenDesc:
		orderBy.Direction = Desc
		p.advance()
	}

	return orderBy, nil
}

// compileLikePattern turns a LIKE pattern into an anchored regexp
func compileLikePattern(pattern string) (*regexp.Regexp, error) {
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), "%", ".*") + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
