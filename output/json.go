package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONFormatter outputs rows as JSON Lines: one object per row with keys in
// header order
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines. Key order follows headers, which a Go
// map would not keep, so objects are assembled field by field.
func (j *JSONFormatter) Format(headers []string, rows [][]string) error {
	keys := make([][]byte, len(headers))
	for i, h := range headers {
		key, err := json.Marshal(h)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	w := bufio.NewWriter(j.writer)
	for _, row := range rows {
		_ = w.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			var v string
			if i < len(row) {
				v = row[i]
			}
			value, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_, _ = w.Write(key)
			_ = w.WriteByte(':')
			_, _ = w.Write(value)
		}
		_, _ = w.WriteString("}\n")
	}
	return w.Flush()
}
