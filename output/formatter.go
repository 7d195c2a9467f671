package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a result table in the target
// format and SetOutput to change the output destination.
type Formatter interface {
	// Format writes headers and rows in the formatter's specific format
	Format(headers []string, rows [][]string) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Supported format names
const (
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatTable = "table"
	FormatPlain = "plain"
	FormatXLSX  = "xlsx"
)

var (
	// ErrUnknownFormat is returned for a format name New does not recognize
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrBinaryFormat is returned when a binary format is asked to write to a terminal
	ErrBinaryFormat = errors.New("binary format needs an output file")
)

// Formats lists every format name accepted by New
func Formats() []string {
	return []string{FormatCSV, FormatTSV, FormatJSON, FormatTable, FormatPlain, FormatXLSX}
}

// ConsoleFormats lists the text formats accepted by NewConsole
func ConsoleFormats() []string {
	return []string{FormatCSV, FormatTSV, FormatJSON, FormatTable, FormatPlain}
}

// Options tunes formatters that support it.
type Options struct {
	// Sanitize prefixes CSV cells that a spreadsheet would run as a formula
	Sanitize bool
}

// New returns the formatter for format writing to w
func New(format string, w io.Writer, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		f := NewCSVFormatter(w)
		f.Sanitize = opts.Sanitize
		return f, nil
	case FormatTSV:
		f := NewTSVFormatter(w)
		f.Sanitize = opts.Sanitize
		return f, nil
	case FormatJSON, "jsonl":
		return NewJSONFormatter(w), nil
	case FormatTable:
		return NewTableFormatter(w), nil
	case FormatPlain:
		return NewPlainFormatter(w), nil
	case FormatXLSX:
		return NewXLSXFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// NewConsole is New restricted to text formats. xlsx is rejected with
// ErrBinaryFormat.
func NewConsole(format string, w io.Writer, opts Options) (Formatter, error) {
	if strings.EqualFold(format, FormatXLSX) {
		return nil, fmt.Errorf("%w: %s (use an .xlsx output path)", ErrBinaryFormat, FormatXLSX)
	}
	return New(format, w, opts)
}

// FormatForPath picks a format from a file extension. Unknown extensions
// are written as CSV.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return FormatTSV
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON
	case ".xlsx":
		return FormatXLSX
	case ".txt":
		return FormatPlain
	default:
		return FormatCSV
	}
}

// OutputError reports a result that could not be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// IsOutputError checks if an error is an OutputError
func IsOutputError(err error) bool {
	var oe *OutputError
	return errors.As(err, &oe)
}

// WriteFile creates or truncates path and writes the result to it. An empty
// format is chosen from the extension. The file is written in place, so a
// failure part way through can leave a partial file behind.
func WriteFile(path, format string, headers []string, rows [][]string, opts Options) error {
	if format == "" {
		format = FormatForPath(path)
	}

	file, err := os.Create(path)
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}

	formatter, err := New(format, file, opts)
	if err != nil {
		_ = file.Close()
		return &OutputError{Path: path, Err: err}
	}

	formatErr := formatter.Format(headers, rows)
	closeErr := file.Close()

	// Preserve the first error encountered
	if formatErr != nil {
		return &OutputError{Path: path, Err: formatErr}
	}
	if closeErr != nil {
		return &OutputError{Path: path, Err: fmt.Errorf("failed to close file: %w", closeErr)}
	}
	return nil
}
