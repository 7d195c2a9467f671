package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "games.csv", "Name,Platform,Year\nWii Sports,Wii,2006\n\"Mario, Kart\",Wii,2008\n")

	table, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Platform", "Year"}, table.Headers)
	assert.Equal(t, [][]string{
		{"Wii Sports", "Wii", "2006"},
		{"Mario, Kart", "Wii", "2008"},
	}, table.Rows)
}

func TestLoad_CSVRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ragged.csv", "a,b,c\n1\n1,2\n1,2,3,4\n")

	table, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"1", "", ""},
		{"1", "2", ""},
		{"1", "2", "3", "4"},
	}, table.Rows)
	for _, row := range table.Rows {
		assert.GreaterOrEqual(t, len(row), len(table.Headers))
	}
}

func TestLoad_CSVByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.csv", "\ufeffName,Year\nx,1\n")

	table, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Year"}, table.Headers)
}

func TestLoad_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "header.csv", "a,b\n")

	table, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, table.Headers)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}

func TestLoad_Delimiters(t *testing.T) {
	dir := t.TempDir()

	t.Run("tsv extension", func(t *testing.T) {
		path := writeFile(t, dir, "data.tsv", "a\tb\n1\t2\n")
		table, err := Load(path, Options{Delimiter: ';'})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		path := writeFile(t, dir, "data.txt", "a;b\n1;2\n")
		table, err := Load(path, Options{Delimiter: ';'})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, table.Headers)
		assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)
	})
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.csv", "")

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "missing.csv"), os.ErrNotExist},
		{"empty file", empty, ErrEmptyFile},
		{"glob without matches", filepath.Join(dir, "*.nothing"), ErrNoMatches},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(tt.path, Options{})
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, IsLoadError(err))
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.path, le.Path)
		})
	}
}

func TestLoad_Glob(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "2023.csv", "name,score\na,1\nb,2\n")
	second := writeFile(t, dir, "2024.csv", "name,score\nc\n")
	writeFile(t, dir, "notes.txt", "ignored\n")

	table, err := Load(filepath.Join(dir, "*.csv"), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score", FileColumn}, table.Headers)
	assert.Equal(t, [][]string{
		{"a", "1", first},
		{"b", "2", first},
		{"c", "", second},
	}, table.Rows)
}

func TestLoad_GlobHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "name,score\na,1\n")
	other := writeFile(t, dir, "b.csv", "name,rank\nb,2\n")

	_, err := Load(filepath.Join(dir, "*.csv"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, other, le.Path)
}

func TestSplitFragment(t *testing.T) {
	tests := []struct {
		path     string
		base     string
		fragment string
	}{
		{"book.xlsx#Sales", "book.xlsx", "Sales"},
		{"games.db#scores", "games.db", "scores"},
		{"games.SQLITE#t", "games.SQLITE", "t"},
		{"notes#1.csv", "notes#1.csv", ""},
		{"plain.csv", "plain.csv", ""},
		{"#x.db", "#x.db", ""},
	}

	for _, tt := range tests {
		base, fragment := splitFragment(tt.path)
		assert.Equal(t, tt.base, base, tt.path)
		assert.Equal(t, tt.fragment, fragment, tt.path)
	}
}

func TestIsGlob(t *testing.T) {
	tests := map[string]bool{
		"data/*.csv":       true,
		"part-?.parquet":   true,
		"[ab].csv":         true,
		"games.csv":        false,
		"{2023,2024}.csv":  false,
		"book.xlsx#Sheet1": false,
	}

	for path, want := range tests {
		assert.Equal(t, want, isGlob(path), path)
	}
}

func TestLoad_BracesAreLiteral(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "{a,b}.csv", "x\n1\n")

	table, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, table.Headers)
	assert.NotContains(t, table.Headers, FileColumn)
}

func TestReadDelimited_LargeInput(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,value\n")
	for i := 0; i < 5000; i++ {
		b.WriteString("1,x\n")
	}

	table, err := ReadDelimited(strings.NewReader(b.String()), ',')
	require.NoError(t, err)
	assert.Len(t, table.Rows, 5000)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{[]byte("raw"), "raw"},
		{true, "true"},
		{int32(-7), "-7"},
		{int64(1 << 40), "1099511627776"},
		{uint16(9), "9"},
		{float32(1.5), "1.5"},
		{float64(95.5), "95.5"},
		{float64(1e21), "1000000000000000000000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatValue(tt.in), "%#v", tt.in)
	}
}
