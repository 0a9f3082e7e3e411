// Package output provides terminal output utilities for the droidcfg CLI.
package output

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package-level logger. Commands log through the helpers below.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

// LogConfig configures SetupLogging.
type LogConfig struct {
	// Verbose enables debug output, caller reporting and timestamps.
	Verbose bool

	// Timestamps controls timestamps in log output. nil means on.
	Timestamps *bool
}

// SetupLogging configures the logger. Verbose forces timestamps on.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if !cfg.Verbose && cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// ProfileLogger returns a child logger whose lines are prefixed with the
// profile name, so interleaved output from concurrent checks stays readable.
func ProfileLogger(name string) *log.Logger {
	return logger.WithPrefix(StyleNoun.Render("p:" + name))
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}
