package query

import (
	"strconv"
)

// Schema resolves column names to positions in a header row. When a name
// appears more than once the first position wins.
type Schema struct {
	headers []string
	index   map[string]int
}

// NewSchema indexes headers once so that lookups are O(1) per row.
func NewSchema(headers []string) *Schema {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, exists := index[h]; !exists {
			index[h] = i
		}
	}
	return &Schema{headers: headers, index: index}
}

// Headers returns the indexed header row
func (s *Schema) Headers() []string {
	return s.headers
}

// Index returns the position of column
func (s *Schema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// value returns the field of row named column. ok is false when the column
// is unknown or the row is too short to hold it.
func (s *Schema) value(row []string, column string) (string, bool) {
	i, ok := s.index[column]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// field returns the field of row named column, or "" when absent
func (s *Schema) field(row []string, column string) string {
	v, _ := s.value(row, column)
	return v
}

// integer returns the field named column parsed as an integer
func (s *Schema) integer(row []string, column string) (int64, bool) {
	v, ok := s.value(row, column)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Evaluate reports whether row satisfies p. A nil predicate accepts every row.
func Evaluate(p Predicate, row []string, headers []string) bool {
	return NewSchema(headers).Match(p, row)
}

// Match reports whether row satisfies p. Unknown columns and values that
// are not integers where one is required make the condition false; they are
// never errors.
func (s *Schema) Match(p Predicate, row []string) bool {
	switch e := p.(type) {
	case nil:
		return true
	case *CompareExpr:
		n, ok := s.integer(row, e.Column)
		if !ok {
			return false
		}
		switch e.Operator {
		case TokenGreater:
			return n > e.Value
		case TokenGreaterEqual:
			return n >= e.Value
		case TokenLess:
			return n < e.Value
		case TokenLessEqual:
			return n <= e.Value
		default:
			return false
		}
	case *EqualExpr:
		v, ok := s.value(row, e.Column)
		return ok && v == e.Value
	case *LikeExpr:
		v, ok := s.value(row, e.Column)
		if !ok || e.re == nil {
			return false
		}
		return e.re.MatchString(v)
	case *BetweenExpr:
		n, ok := s.integer(row, e.Column)
		return ok && n >= e.Low && n <= e.High
	case *BinaryExpr:
		left := s.Match(e.Left, row)
		right := s.Match(e.Right, row)
		switch e.Operator {
		case TokenAnd:
			return left && right
		case TokenOr:
			return left || right
		default:
			return false
		}
	case *NotExpr:
		return !s.Match(e.Inner, row)
	default:
		return false
	}
}

// Filter returns the rows that satisfy p, in input order
func (s *Schema) Filter(rows [][]string, p Predicate) [][]string {
	if p == nil {
		return rows
	}

	filtered := make([][]string, 0)
	for _, row := range rows {
		if s.Match(p, row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
