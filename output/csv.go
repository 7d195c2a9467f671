package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVFormatter outputs rows as delimited text with a header row
type CSVFormatter struct {
	writer io.Writer
	comma  rune

	// Sanitize guards against CSV injection by prefixing cells that start
	// like a spreadsheet formula with a single quote. Numbers are left alone.
	Sanitize bool
}

// NewCSVFormatter creates a new comma separated formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, comma: ','}
}

// NewTSVFormatter creates a new tab separated formatter
func NewTSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, comma: '\t'}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the header row then every data row. The header is written
// even when there are no rows.
func (c *CSVFormatter) Format(headers []string, rows [][]string) error {
	csvWriter := csv.NewWriter(c.writer)
	csvWriter.Comma = c.comma

	if err := csvWriter.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		record := row
		if c.Sanitize {
			record = make([]string, len(row))
			for i, v := range row {
				record[i] = sanitize(v)
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// sanitize escapes a cell that could trigger formula execution in
// spreadsheet applications
func sanitize(val string) string {
	if val == "" {
		return val
	}

	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			return val
		}
		// Escape existing single quotes and prefix with quote
		return "'" + strings.ReplaceAll(val, "'", "''")
	default:
		return val
	}
}
