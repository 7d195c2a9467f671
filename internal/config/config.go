// Package config loads csvsql settings from defaults, an optional config
// file, CSVSQL_* environment variables and command line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vegasq/csvsql/output"
)

// EnvPrefix is the prefix of environment variables read by Load.
// CSVSQL_OUTPUT_FORMAT sets output.format.
const EnvPrefix = "CSVSQL"

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete set of settings.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Reader  ReaderConfig  `mapstructure:"reader"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Limit caps the number of result rows written. Zero means no limit.
	Limit int `mapstructure:"limit"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	// Format is the console format. Files use their extension.
	Format   string `mapstructure:"format"`
	Sanitize bool   `mapstructure:"sanitize"`
}

// ReaderConfig controls how sources are read.
type ReaderConfig struct {
	// Delimiter is a single character, or "\t" for tabs.
	Delimiter string `mapstructure:"delimiter"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	ForceColors bool   `mapstructure:"force_colors"`
}

// MetricsConfig controls the metrics dump.
type MetricsConfig struct {
	// Textfile is written in Prometheus textfile collector format after
	// each command when set.
	Textfile string `mapstructure:"textfile"`
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"format":       "output.format",
	"sanitize":     "output.sanitize",
	"delimiter":    "reader.delimiter",
	"log-level":    "log.level",
	"limit":        "limit",
	"metrics-file": "metrics.textfile",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.format", output.FormatPlain)
	v.SetDefault("output.sanitize", false)
	v.SetDefault("reader.delimiter", ",")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.force_colors", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("limit", 0)
}

// Load builds the configuration. path names an optional config file in any
// format viper understands; flags may be nil. Only flags that were set on
// the command line override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting and reports the first problem found
func (c *Config) Validate() error {
	if !slices.Contains(output.ConsoleFormats(), strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("%w: output.format %q must be one of %s",
			ErrInvalidConfig, c.Output.Format, strings.Join(output.ConsoleFormats(), ", "))
	}

	if _, err := parseDelimiter(c.Reader.Delimiter); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}

	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must be non-negative, got %d", ErrInvalidConfig, c.Limit)
	}

	return nil
}

// Delimiter returns the configured field separator as a rune
func (c *Config) Delimiter() rune {
	r, err := parseDelimiter(c.Reader.Delimiter)
	if err != nil {
		return ','
	}
	return r
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}

	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: reader.delimiter must be a single character, got %q", ErrInvalidConfig, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: reader.delimiter %q is not allowed", ErrInvalidConfig, s)
	}
	return r, nil
}
