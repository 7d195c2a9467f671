// Package logging configures Logrus for csvsql. It installs a text formatter
// with full UTC timestamps with subsecond precision and sets the level.
//
// Commands call Configure once at startup, after configuration is loaded.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when Options.Level is empty
const DefaultLevel = "warn"

// Options control the logger's behavior. The zero value configures the
// standard Logrus logger at DefaultLevel.
type Options struct {
	// Level is a Logrus level name such as "debug", "info" or "error".
	Level string

	// If true, the logger will highlight some output with ANSI colors. This
	// may be overridden by setting the environment variable
	// "CLICOLOR_FORCE" to "1".
	ForceColors bool

	// If not nil, log entries are written here instead of the logger's
	// current output.
	Output io.Writer

	// If not nil, this will set up the given logger. If nil, it will set up
	// the default Logrus logger (see logrus.StandardLogger()).
	//
	// This is primarily used for unit testing.
	Logger *logrus.Logger
}

// Configure sets up the logger. It's safe to call more than once; hooks are
// replaced, not stacked. It returns an error only for an unknown level, in
// which case the logger is left untouched.
func Configure(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Level == "" {
		opts.Level = DefaultLevel
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	if opts.Output != nil {
		opts.Logger.SetOutput(opts.Output)
	}
	opts.Logger.SetLevel(level)
	opts.Logger.ReplaceHooks(make(logrus.LevelHooks))
	opts.Logger.AddHook(utcHook{})
	opts.Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:             true,
		TimestampFormat:           "2006-01-02 15:04:05.000000 MST",
		ForceColors:               opts.ForceColors,
		EnvironmentOverrideColors: true,
	})
	opts.Logger.WithFields(logrus.Fields{
		"logLevel":    level.String(),
		"forceColors": opts.ForceColors,
	}).Debug("Initialized Logrus")
	return nil
}

// utcHook implements logrus.Hook. Its purpose is to convert the timestamp to
// UTC.
type utcHook struct{}

func (utcHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (utcHook) Fire(entry *logrus.Entry) error {
	entry.Time = entry.Time.UTC()
	return nil
}
