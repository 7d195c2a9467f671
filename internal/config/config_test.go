package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "plain", "")
	flags.Bool("sanitize", false, "")
	flags.String("delimiter", ",", "")
	flags.String("log-level", "warn", "")
	flags.Int("limit", 0, "")
	flags.String("metrics-file", "", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "plain", cfg.Output.Format)
	assert.False(t, cfg.Output.Sanitize)
	assert.Equal(t, ",", cfg.Reader.Delimiter)
	assert.Equal(t, ',', cfg.Delimiter())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "", cfg.Metrics.Textfile)
	assert.Equal(t, 0, cfg.Limit)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "csvsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  format: json
  sanitize: true
reader:
  delimiter: ";"
log:
  level: info
limit: 10
`), 0o644))

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(path, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.True(t, cfg.Output.Sanitize)
		assert.Equal(t, ';', cfg.Delimiter())
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 10, cfg.Limit)
	})

	t.Run("environment over file", func(t *testing.T) {
		t.Setenv("CSVSQL_OUTPUT_FORMAT", "csv")
		t.Setenv("CSVSQL_LIMIT", "3")

		cfg, err := Load(path, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "csv", cfg.Output.Format)
		assert.Equal(t, 3, cfg.Limit)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("flags over environment", func(t *testing.T) {
		t.Setenv("CSVSQL_OUTPUT_FORMAT", "csv")

		cfg, err := Load(path, newFlags(t, "--format", "table", "--limit", "7", "--delimiter", `\t`))
		require.NoError(t, err)
		assert.Equal(t, "table", cfg.Output.Format)
		assert.Equal(t, 7, cfg.Limit)
		assert.Equal(t, '\t', cfg.Delimiter())
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Output: OutputConfig{Format: "csv"},
			Reader: ReaderConfig{Delimiter: ","},
			Log:    LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"format is case insensitive", func(c *Config) { c.Output.Format = "TABLE" }, false},
		{"unknown format", func(c *Config) { c.Output.Format = "yaml" }, true},
		{"xlsx is not a console format", func(c *Config) { c.Output.Format = "xlsx" }, true},
		{"tab keyword", func(c *Config) { c.Reader.Delimiter = "tab" }, false},
		{"multi character delimiter", func(c *Config) { c.Reader.Delimiter = "::" }, true},
		{"quote delimiter", func(c *Config) { c.Reader.Delimiter = `"` }, true},
		{"unicode delimiter", func(c *Config) { c.Reader.Delimiter = "§" }, false},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"negative limit", func(c *Config) { c.Limit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_RejectsInvalidFlag(t *testing.T) {
	_, err := Load("", newFlags(t, "--limit", "-2"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
