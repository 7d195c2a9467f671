package reader

import (
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ColumnInfo describes one column of a source.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
	Repeated bool   `json:"repeated"`
}

// textType is reported for columns of sources without a typed schema
const textType = "STRING"

// Describe reports the columns of the source at path. Parquet files carry
// their declared types; every other source is read and its columns are
// reported as STRING.
func Describe(path string, opts Options) ([]ColumnInfo, error) {
	base, _ := splitFragment(path)
	if !isGlob(path) && isParquet(base) {
		r, err := NewParquetReader(base)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		defer func() { _ = r.Close() }()
		return r.Columns(), nil
	}

	table, err := Load(path, opts)
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, len(table.Headers))
	for i, name := range table.Headers {
		columns[i] = ColumnInfo{Name: name, Type: textType}
	}
	return columns, nil
}

// describeField walks a schema field down to its leaves. prefix builds dot
// notation names for nested fields and repeated propagates from parents.
func describeField(field parquet.Field, prefix string, repeated bool) []ColumnInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated = repeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []ColumnInfo
		for _, child := range children {
			infos = append(infos, describeField(child, name, repeated)...)
		}
		return infos
	}

	return []ColumnInfo{{
		Name:     name,
		Type:     parquetType(field),
		Optional: field.Optional(),
		Repeated: repeated,
	}}
}

// parquetType names a leaf field's type, preferring the logical type when
// it is more specific than the physical one.
func parquetType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	if logical := field.Type().LogicalType(); logical != nil {
		// Parameterized types print as TIMESTAMP(isAdjustedToUTC=true,unit=MILLIS)
		name, _, _ := strings.Cut(logical.String(), "(")
		switch name {
		case "STRING", "UTF8":
			return textType
		case "ENUM", "UUID", "DATE", "TIME", "TIMESTAMP", "DECIMAL", "JSON", "BSON":
			return name
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}
