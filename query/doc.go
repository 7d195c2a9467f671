// Package query provides SQL query parsing and execution over in-memory
// tables of string fields.
//
// The language is a small SELECT dialect:
//   - SELECT [DISTINCT] with column projection and the * wildcard
//   - WHERE with >, >=, <, <= against integers, = against strings,
//     LIKE with % wildcards, BETWEEN, and AND / OR / NOT with parentheses
//   - Aggregate functions COUNT, MIN, MAX, SUM and AVG
//   - GROUP BY one or more columns
//   - ORDER BY a single result column, ASC or DESC
//
// Keywords are upper case. Aggregate function names are matched without
// regard to case.
//
// # Basic Usage
//
// Parse a query and run it against rows loaded elsewhere:
//
//	q, err := query.Parse("SELECT Name, Year FROM games.csv WHERE Year >= 2010 ORDER BY Year DESC")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := query.Execute(headers, rows, q)
//	fmt.Println(result.Headers)
//
// # Evaluation Rules
//
// Columns are resolved by name when a row is evaluated. A condition that
// names an unknown column, or compares a value that is not an integer, is
// false for that row. Execution therefore never fails once a query parses.
//
// Aggregates without GROUP BY summarize all filtered rows as one group, so
// "SELECT COUNT(*) FROM t WHERE 1 > 2" still returns a single row with 0.
// MIN and MAX compare strings, SUM and AVG skip values that are not numbers.
//
// ORDER BY compares numerically when both values are numbers and as strings
// otherwise. Row order within groups and after DISTINCT follows first
// appearance in the input.
//
// # Errors
//
// Parse returns a *ParseError carrying the byte offset and the unparsed
// remainder of the query. Resource limits (see validation.go) are reported
// as ParseErrors wrapping sentinel errors such as ErrExpressionTooDeep:
//
//	if errors.Is(err, query.ErrExpressionTooDeep) {
//	    // simplify the WHERE clause
//	}
package query
