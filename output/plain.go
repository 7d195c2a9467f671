package output

import (
	"bufio"
	"io"
	"strings"
)

// NoResults is printed by the plain formatter for an empty result
const NoResults = "No results found."

// PlainFormatter outputs the header and each row as comma joined lines
type PlainFormatter struct {
	writer io.Writer
}

// NewPlainFormatter creates a new plain text formatter
func NewPlainFormatter(w io.Writer) *PlainFormatter {
	return &PlainFormatter{writer: w}
}

// SetOutput sets the output writer
func (p *PlainFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes one line per row. Values are not quoted.
func (p *PlainFormatter) Format(headers []string, rows [][]string) error {
	w := bufio.NewWriter(p.writer)
	if len(rows) == 0 {
		_, _ = w.WriteString(NoResults + "\n")
		return w.Flush()
	}

	_, _ = w.WriteString(strings.Join(headers, ",") + "\n")
	for _, row := range rows {
		_, _ = w.WriteString(strings.Join(row, ",") + "\n")
	}
	return w.Flush()
}
