package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// sheetName is the worksheet results are written to
const sheetName = "Results"

// XLSXFormatter outputs rows as an Excel workbook with a single sheet
type XLSXFormatter struct {
	writer io.Writer
}

// NewXLSXFormatter creates a new workbook formatter
func NewXLSXFormatter(w io.Writer) *XLSXFormatter {
	return &XLSXFormatter{writer: w}
}

// SetOutput sets the output writer
func (x *XLSXFormatter) SetOutput(w io.Writer) {
	x.writer = w
}

// Format writes headers to the first row and data below. Every cell is
// stored as text.
func (x *XLSXFormatter) Format(headers []string, rows [][]string) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeSheetRow(file, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeSheetRow(file, i+2, row); err != nil {
			return err
		}
	}

	if err := file.Write(x.writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(file *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := file.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
