// Package output provides formatters that render query results.
//
// A result is a header row plus data rows of strings. Every formatter
// satisfies the Formatter interface, so callers pick one by name with New
// or from a file extension with FormatForPath.
//
// # Supported Formats
//
//   - csv, tsv: delimited text with a header row
//   - json: JSON Lines, one object per row with keys in header order
//   - table: bordered, aligned text for terminals
//   - plain: comma joined lines, or "No results found." for no rows
//   - xlsx: an Excel workbook with one sheet
//
// # Basic Usage
//
//	formatter, err := output.New("table", os.Stdout, output.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(result.Headers, result.Rows); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing Files
//
// WriteFile creates the file and chooses the format from its extension
// when none is given:
//
//	err := output.WriteFile("report.xlsx", "", result.Headers, result.Rows, output.Options{})
//
// Failures are returned as *OutputError. Files are written in place, so an
// error part way through can leave a partial file.
package output
