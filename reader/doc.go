// Package reader loads tabular files into memory as string tables.
//
// A Table holds a header row and data rows. Every source is reduced to
// strings so the query engine sees one uniform shape no matter where the
// data came from. Supported sources:
//
//   - CSV and other delimited text (.tsv uses tabs)
//   - Apache Parquet (.parquet)
//   - Excel workbooks (.xlsx, .xlsm), one sheet per table
//   - SQLite databases (.db, .sqlite, .sqlite3), one table per load
//
// # Basic Usage
//
//	table, err := reader.Load("games.csv", reader.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(table.Headers, len(table.Rows))
//
// Workbook sheets and database tables are selected with a '#' suffix:
//
//	table, err := reader.Load("sales.xlsx#2024", reader.Options{})
//	table, err := reader.Load("games.db#scores", reader.Options{})
//
// # Multi-file Operations
//
// A path with glob wildcards loads every match. The files must share a
// header row, and each row gains a "_file" column with its source path:
//
//	table, err := reader.Load("data/*.csv", reader.Options{})
//
// # Schema Introspection
//
// Describe lists the columns of a source. Parquet files report their
// declared types:
//
//	columns, err := reader.Describe("data.parquet", reader.Options{})
//	for _, col := range columns {
//	    fmt.Printf("%s: %s\n", col.Name, col.Type)
//	}
//
// Errors are returned as *LoadError, which wraps the underlying cause.
package reader
