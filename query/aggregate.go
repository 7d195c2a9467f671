package query

import (
	"math"
	"strconv"
	"strings"
)

// Null is written for aggregates that have no value to report
const Null = "NULL"

// Group represents a group of rows for aggregation
type Group struct {
	Key  string     // Comma-joined GROUP BY values
	Rows [][]string // All rows in the group
}

// GroupRows buckets rows by the comma-joined values of groupBy. With no
// GROUP BY columns every row lands in a single implicit group, which exists
// even when rows is empty. Groups are returned in order of first appearance.
//
// Keys are built by joining with ",", so values that contain commas can
// collide: "a,b"+"c" and "a"+"b,c" share a group.
func (s *Schema) GroupRows(rows [][]string, groupBy []string) []*Group {
	if len(groupBy) == 0 {
		return []*Group{{Key: Wildcard, Rows: rows}}
	}

	groups := make(map[string]*Group)
	order := make([]*Group, 0)

	parts := make([]string, len(groupBy))
	for _, row := range rows {
		for i, col := range groupBy {
			parts[i] = s.field(row, col)
		}
		key := strings.Join(parts, ",")

		if group, exists := groups[key]; exists {
			group.Rows = append(group.Rows, row)
			continue
		}
		group := &Group{Key: key, Rows: [][]string{row}}
		groups[key] = group
		order = append(order, group)
	}

	return order
}

// aggregateRow builds the output row of one group: the plain columns taken
// from the group's representative row, then one value per aggregate.
//
// The representative is the first member of the group. Its values are only
// meaningful for columns that are functionally determined by the group key.
func (s *Schema) aggregateRow(group *Group, q *Query) []string {
	var representative []string
	if len(group.Rows) > 0 {
		representative = group.Rows[0]
	}

	row := s.project(representative, q.Columns)
	for _, agg := range q.Aggregates {
		row = append(row, s.evaluateAggregate(agg, group.Rows))
	}
	return row
}

// evaluateAggregate computes one aggregate over the members of a group
func (s *Schema) evaluateAggregate(agg Aggregate, rows [][]string) string {
	if agg.Kind == Count && agg.Column == Wildcard {
		return strconv.Itoa(len(rows))
	}

	idx, ok := s.Index(agg.Column)
	if !ok {
		switch agg.Kind {
		case Count, Sum:
			return "0"
		default:
			return Null
		}
	}

	switch agg.Kind {
	case Count:
		count := 0
		for _, row := range rows {
			if idx < len(row) && row[idx] != "" {
				count++
			}
		}
		return strconv.Itoa(count)

	case Min, Max:
		var best string
		found := false
		for _, row := range rows {
			if idx >= len(row) || row[idx] == "" {
				continue
			}
			v := row[idx]
			if !found || (agg.Kind == Min && v < best) || (agg.Kind == Max && v > best) {
				best = v
				found = true
			}
		}
		if !found {
			return Null
		}
		return best

	case Sum, Avg:
		sum, count := sumColumn(rows, idx)
		if agg.Kind == Sum {
			return formatNumber(sum)
		}
		if count == 0 {
			return Null
		}
		return formatNumber(sum / float64(count))
	}

	return Null
}

// sumColumn adds up the values at idx that parse as float64, skipping
// empty and non-numeric fields. It returns the sum and how many values
// contributed to it.
func sumColumn(rows [][]string, idx int) (float64, int) {
	var sum float64
	count := 0
	for _, row := range rows {
		if idx >= len(row) || row[idx] == "" {
			continue
		}
		f, ok := parseNumber(row[idx])
		if !ok {
			continue
		}
		sum += f
		count++
	}
	return sum, count
}

// formatNumber prints f in its shortest form without an exponent: 4, 2.5.
// Infinities print as inf and -inf.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
