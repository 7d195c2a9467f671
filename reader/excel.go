package reader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// loadExcel reads one worksheet. The first row is the header and trailing
// empty cells that excelize trims are restored as "".
func loadExcel(path, sheet string) (*Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return newTable(rows[0], rows[1:]), nil
}
