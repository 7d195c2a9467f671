package reader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

func loadCSV(path string, delimiter rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadDelimited(file, delimiter)
}

// ReadDelimited reads delimited text whose first record is the header.
// Records may have any number of fields; short ones are padded with "".
// A leading UTF-8 byte order mark is dropped from the first header.
func ReadDelimited(r io.Reader, delimiter rune) (*Table, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	var rows [][]string
	for {
		record, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}

	return newTable(headers, rows), nil
}
