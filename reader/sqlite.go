package reader

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

var (
	// ErrNoTable is returned when a database has no user tables
	ErrNoTable = errors.New("database has no tables")

	// ErrAmbiguousTable is returned when a database has several tables and
	// the path does not name one
	ErrAmbiguousTable = errors.New("database has more than one table")
)

// loadSQLite reads every row of table. With no table named the database
// must contain exactly one.
func loadSQLite(path, table string) (*Table, error) {
	// sql.Open would create a missing database file
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if table == "" {
		table, err = onlyTable(db)
		if err != nil {
			return nil, err
		}
	}

	rows, err := db.Query("SELECT * FROM " + quoteIdentifier(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]interface{}, len(headers))
	scanArgs := make([]interface{}, len(headers))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	var records [][]string
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		record := make([]string, len(headers))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return newTable(headers, records), nil
}

func onlyTable(db *sql.DB) (string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("failed to list tables: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}

	switch len(names) {
	case 0:
		return "", ErrNoTable
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w (%s), name one with path#table", ErrAmbiguousTable, strings.Join(names, ", "))
	}
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
