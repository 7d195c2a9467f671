package query

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
)

// ApplyOrderBy sorts rows in place by the result column named in orderBy.
// It reports whether a sort happened; a column missing from headers is
// ignored. The sort is stable.
func ApplyOrderBy(headers []string, rows [][]string, orderBy OrderBy) bool {
	idx := slices.Index(headers, orderBy.Column)
	if idx < 0 {
		return false
	}

	slices.SortStableFunc(rows, func(a, b []string) int {
		c := compareValues(cell(a, idx), cell(b, idx))
		if orderBy.Direction == Desc {
			return -c
		}
		return c
	})
	return true
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// compareValues compares two fields numerically when both parse as
// numbers and as strings otherwise. It returns -1, 0 or +1.
func compareValues(a, b string) int {
	af, okA := parseNumber(a)
	bf, okB := parseNumber(b)
	if okA && okB {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(a, b)
}

// parseNumber parses a field as float64. Values too large for float64
// are still numbers and become +Inf or -Inf.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
