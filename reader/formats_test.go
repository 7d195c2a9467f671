package reader

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type scoreRow struct {
	ID    int64   `parquet:"id"`
	Name  string  `parquet:"name"`
	Score float64 `parquet:"score"`
}

func writeParquet(t *testing.T, path string, rows []scoreRow) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	writer := parquet.NewGenericWriter[scoreRow](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())
}

func TestLoad_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")
	writeParquet(t, path, []scoreRow{
		{ID: 1, Name: "alice", Score: 95.5},
		{ID: 2, Name: "bob", Score: 82},
	})

	table, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score"}, table.Headers)
	assert.Equal(t, [][]string{
		{"1", "alice", "95.5"},
		{"2", "bob", "82"},
	}, table.Rows)
}

func TestLoad_ParquetGlob(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "a.parquet"), []scoreRow{{ID: 1, Name: "a", Score: 1}})
	writeParquet(t, filepath.Join(dir, "b.parquet"), []scoreRow{{ID: 2, Name: "b", Score: 2}})

	table, err := Load(filepath.Join(dir, "*.parquet"), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score", FileColumn}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, filepath.Join(dir, "a.parquet"), table.Rows[0][3])
	assert.Equal(t, filepath.Join(dir, "b.parquet"), table.Rows[1][3])
}

func TestLoad_ParquetInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.parquet", "not parquet")

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
}

func TestDescribe_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")
	writeParquet(t, path, []scoreRow{{ID: 1, Name: "alice", Score: 1}})

	columns, err := Describe(path, Options{})
	require.NoError(t, err)

	types := make(map[string]string)
	for _, col := range columns {
		types[col.Name] = col.Type
	}
	assert.Equal(t, map[string]string{"id": "INT64", "name": "STRING", "score": "FLOAT64"}, types)
}

func TestParquetType_LogicalTypes(t *testing.T) {
	schema := parquet.NewSchema("row", parquet.Group{
		"amount":  parquet.Decimal(2, 10, parquet.Int64Type),
		"created": parquet.Timestamp(parquet.Millisecond),
		"day":     parquet.Date(),
		"label":   parquet.String(),
		"count":   parquet.Int(32),
		"payload": parquet.Optional(parquet.JSON()),
	})

	types := make(map[string]string)
	for _, field := range schema.Fields() {
		types[field.Name()] = parquetType(field)
	}

	assert.Equal(t, map[string]string{
		"amount":  "DECIMAL",
		"created": "TIMESTAMP",
		"day":     "DATE",
		"label":   "STRING",
		"count":   "INT32",
		"payload": "JSON",
	}, types)
}

func TestDescribe_CSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "games.csv", "Name,Year\nx,1\n")

	columns, err := Describe(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []ColumnInfo{
		{Name: "Name", Type: "STRING"},
		{Name: "Year", Type: "STRING"},
	}, columns)
}

func TestLoad_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name", "Platform", "Year"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Wii Sports", "Wii", 2006}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Tetris", "GB"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"k"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]interface{}{"v"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	t.Run("first sheet", func(t *testing.T) {
		table, err := Load(path, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Platform", "Year"}, table.Headers)
		assert.Equal(t, [][]string{
			{"Wii Sports", "Wii", "2006"},
			{"Tetris", "GB", ""},
		}, table.Rows)
	})

	t.Run("named sheet", func(t *testing.T) {
		table, err := Load(path+"#Other", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"k"}, table.Headers)
		assert.Equal(t, [][]string{{"v"}}, table.Rows)
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := Load(path+"#Nope", Options{})
		require.Error(t, err)
		assert.True(t, IsLoadError(err))
	})
}

func TestLoad_SQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE games (name TEXT, year INTEGER, sales REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO games VALUES ('Wii Sports', 2006, 82.74, NULL), ('Tetris', 1989, 30.5, 'classic')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	t.Run("only table", func(t *testing.T) {
		table, err := Load(path, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "year", "sales", "note"}, table.Headers)
		assert.Equal(t, [][]string{
			{"Wii Sports", "2006", "82.74", ""},
			{"Tetris", "1989", "30.5", "classic"},
		}, table.Rows)
	})

	t.Run("named table", func(t *testing.T) {
		table, err := Load(path+"#games", Options{})
		require.NoError(t, err)
		assert.Len(t, table.Rows, 2)
	})

	t.Run("missing database is not created", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.db")
		_, err := Load(missing, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, missing)
	})
}

func TestLoad_SQLiteTableSelection(t *testing.T) {
	dir := t.TempDir()

	emptyPath := filepath.Join(dir, "empty.db")
	db, err := sql.Open("sqlite", emptyPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE scratch (x INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`DROP TABLE scratch`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	multiPath := filepath.Join(dir, "multi.sqlite")
	db, err = sql.Open("sqlite", multiPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE a (x INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE b (y INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Load(emptyPath, Options{})
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = Load(multiPath, Options{})
	assert.ErrorIs(t, err, ErrAmbiguousTable)

	table, err := Load(multiPath+"#b", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, table.Headers)
	assert.Empty(t, table.Rows)
}
