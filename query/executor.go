package query

import (
	"strings"
)

// Execute runs q against a loaded table. The pipeline is fixed:
// filter, group, project or aggregate, distinct, sort.
//
// Execute never fails. Unknown columns resolve to empty values, unknown
// GROUP BY columns contribute "" to the group key and an ORDER BY column that
// is not in the result leaves the rows unsorted.
func Execute(headers []string, rows [][]string, q *Query) *Result {
	schema := NewSchema(headers)

	filtered := schema.Filter(rows, q.Condition)
	resultHeaders := schema.projectHeaders(q.Columns)

	var resultRows [][]string
	if len(q.Aggregates) > 0 {
		groups := schema.GroupRows(filtered, q.GroupBy)
		resultRows = make([][]string, 0, len(groups))
		for _, group := range groups {
			resultRows = append(resultRows, schema.aggregateRow(group, q))
		}
		for _, agg := range q.Aggregates {
			resultHeaders = append(resultHeaders, agg.Label())
		}
	} else {
		resultRows = make([][]string, 0, len(filtered))
		for _, row := range filtered {
			resultRows = append(resultRows, schema.project(row, q.Columns))
		}
		if q.Distinct {
			resultRows = ApplyDistinct(resultRows)
		}
	}

	if q.OrderBy != nil {
		ApplyOrderBy(resultHeaders, resultRows, *q.OrderBy)
	}

	return &Result{Headers: resultHeaders, Rows: resultRows}
}

// projectHeaders expands the select list into result headers
func (s *Schema) projectHeaders(columns []string) []string {
	headers := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == Wildcard {
			headers = append(headers, s.headers...)
		} else {
			headers = append(headers, col)
		}
	}
	return headers
}

// project shapes row into the select list. The result always has one field
// per projected header; missing values are "".
func (s *Schema) project(row []string, columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if col != Wildcard {
			out = append(out, s.field(row, col))
			continue
		}
		for i := range s.headers {
			if i < len(row) {
				out = append(out, row[i])
			} else {
				out = append(out, "")
			}
		}
	}
	return out
}

// ApplyDistinct removes duplicate rows, keeping the first occurrence of each.
// Rows are keyed by their comma-joined values, so rows whose values contain
// commas may be merged.
func ApplyDistinct(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}

	seen := make(map[string]bool)
	distinct := make([][]string, 0)

	for _, row := range rows {
		key := strings.Join(row, ",")
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, row)
		}
	}

	return distinct
}
