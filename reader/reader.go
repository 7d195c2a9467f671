package reader

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// FileColumn is appended to every row loaded through a glob pattern and
// holds the path of the file the row came from.
const FileColumn = "_file"

// maxFiles limits how many files a single glob pattern may expand to
const maxFiles = 1000

var (
	// ErrEmptyFile is returned when a source has no header row
	ErrEmptyFile = errors.New("file has no header row")

	// ErrNoMatches is returned when a glob pattern matches nothing
	ErrNoMatches = errors.New("no files match pattern")

	// ErrTooManyFiles is returned when a glob pattern matches more than maxFiles files
	ErrTooManyFiles = errors.New("glob pattern matched too many files")

	// ErrHeaderMismatch is returned when files matched by one glob pattern
	// do not share the same header row
	ErrHeaderMismatch = errors.New("files have different headers")
)

// Table is a fully materialized source: a header row and data rows of
// string fields. Every row is at least as long as Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Options controls how delimited text files are read.
type Options struct {
	// Delimiter separates fields of CSV input. Zero means ','.
	// Files with a .tsv extension always use a tab.
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// LoadError reports a source that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError checks if an error is a LoadError
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Load reads the table at path into memory. The format is chosen from the
// file extension:
//
//   - .parquet: Apache Parquet
//   - .xlsx, .xlsm: the first worksheet, or the one named after '#'
//     ("book.xlsx#Sales")
//   - .db, .sqlite, .sqlite3: the only table of a SQLite database, or the
//     one named after '#' ("games.db#sales")
//   - .tsv: tab separated text
//   - anything else: delimited text using opts.Delimiter
//
// Paths containing glob wildcards load every matching file and tag each row
// with a FileColumn field. All failures are returned as *LoadError.
func Load(path string, opts Options) (*Table, error) {
	if isGlob(path) {
		return loadGlob(path, opts)
	}

	table, err := loadFile(path, opts)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

func loadFile(path string, opts Options) (*Table, error) {
	base, fragment := splitFragment(path)

	switch strings.ToLower(filepath.Ext(base)) {
	case ".parquet":
		return loadParquet(base)
	case ".xlsx", ".xlsm":
		return loadExcel(base, fragment)
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(base, fragment)
	case ".tsv":
		return loadCSV(base, '\t')
	default:
		return loadCSV(base, opts.delimiter())
	}
}

// splitFragment separates a "#name" suffix from workbook and database
// paths. Other paths are returned unchanged so that '#' stays usable in
// file names.
func splitFragment(path string) (string, string) {
	idx := strings.LastIndex(path, "#")
	if idx <= 0 {
		return path, ""
	}

	switch strings.ToLower(filepath.Ext(path[:idx])) {
	case ".xlsx", ".xlsm", ".db", ".sqlite", ".sqlite3":
		return path[:idx], path[idx+1:]
	default:
		return path, ""
	}
}

func isParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// loadGlob reads every file matching pattern. Rows keep file order and row
// order within each file.
func loadGlob(pattern string, opts Options) (*Table, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &LoadError{Path: pattern, Err: fmt.Errorf("invalid glob pattern: %w", err)}
	}

	if len(matches) == 0 {
		return nil, &LoadError{Path: pattern, Err: ErrNoMatches}
	}

	if len(matches) > maxFiles {
		return nil, &LoadError{
			Path: pattern,
			Err:  fmt.Errorf("%w (%d), maximum is %d", ErrTooManyFiles, len(matches), maxFiles),
		}
	}

	var combined *Table
	for _, filePath := range matches {
		table, err := loadFile(filePath, opts)
		if err != nil {
			return nil, &LoadError{Path: filePath, Err: err}
		}

		if combined == nil {
			combined = &Table{Headers: append(append([]string{}, table.Headers...), FileColumn)}
		} else if !slices.Equal(combined.Headers[:len(combined.Headers)-1], table.Headers) {
			return nil, &LoadError{Path: filePath, Err: ErrHeaderMismatch}
		}

		width := len(table.Headers)
		for _, row := range table.Rows {
			tagged := make([]string, width+1)
			copy(tagged, row[:width])
			tagged[width] = filePath
			combined.Rows = append(combined.Rows, tagged)
		}
	}

	return combined, nil
}

// newTable pads short rows with "" so every row covers the header
func newTable(headers []string, rows [][]string) *Table {
	for i, row := range rows {
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			rows[i] = padded
		}
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &Table{Headers: headers, Rows: rows}
}
