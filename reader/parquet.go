package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// ParquetReader reads a parquet file into a Table.
//
// It keeps both the OS file handle and the parquet file handle so that
// Close releases everything.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewParquetReader opens path and validates it as a parquet file.
//
// Example:
//
//	r, err := NewParquetReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// Headers returns the leaf column names in schema order. Nested fields use
// dot notation ("address.street").
func (r *ParquetReader) Headers() []string {
	columns := r.Columns()
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	return headers
}

// Columns describes the leaf columns of the file
func (r *ParquetReader) Columns() []ColumnInfo {
	var columns []ColumnInfo
	for _, field := range r.pqFile.Schema().Fields() {
		columns = append(columns, describeField(field, "", false)...)
	}
	return columns
}

// ReadAll reads every row into memory and renders each value as a string.
// Null values become "".
func (r *ParquetReader) ReadAll() (*Table, error) {
	headers := r.Headers()
	rows := make([][]string, 0, int(r.pqFile.NumRows()))

	pqReader := parquet.NewReader(r.pqFile)
	defer func() { _ = pqReader.Close() }()

	for {
		record := make(map[string]interface{})
		err := pqReader.Read(&record)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		flat := make(map[string]interface{}, len(headers))
		flatten(record, "", flat)

		row := make([]string, len(headers))
		for i, name := range headers {
			row[i] = formatValue(flat[name])
		}
		rows = append(rows, row)
	}

	return newTable(headers, rows), nil
}

// Close releases the underlying file. It is safe to call more than once.
func (r *ParquetReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func loadParquet(path string) (*Table, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}

	table, readErr := r.ReadAll()
	closeErr := r.Close()

	// Preserve the first error encountered
	if readErr != nil {
		return nil, readErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close file: %w", closeErr)
	}
	return table, nil
}

// flatten copies nested group values into out using dot separated keys
func flatten(record map[string]interface{}, prefix string, out map[string]interface{}) {
	for key, value := range record {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flatten(nested, name, out)
			continue
		}
		out[name] = value
	}
}
