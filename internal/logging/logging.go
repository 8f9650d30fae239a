// Package logging wraps charmbracelet/log behind a small application
// logger. Everything is written to stderr: when the server runs on the
// stdio transport, stdout carries the MCP protocol stream and must stay
// clean.
package logging

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// AppLogger is the application-wide structured logger.
type AppLogger struct {
	logger *log.Logger
	debug  bool
}

// Options controls logger construction.
type Options struct {
	// Level is the minimum level name (debug, info, warn, error). Unknown
	// or empty values fall back to info.
	Level string

	// Debug forces the debug level regardless of Level.
	Debug bool

	// Verbose adds caller reporting to every record.
	Verbose bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the shared logger instance, creating it with default
// options on first use.
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = New(Options{})
	})
	return defaultLogger
}

// SetDefault replaces the shared logger instance. Called once at startup
// after CLI flags are parsed.
func SetDefault(logger *AppLogger) {
	once.Do(func() {})
	defaultLogger = logger
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{})  { GetDefault().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { GetDefault().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { GetDefault().Error(msg, keyvals...) }
func Debug(msg string, keyvals ...interface{}) { GetDefault().Debug(msg, keyvals...) }

// New creates an AppLogger writing to stderr with the given options.
func New(opts Options) *AppLogger {
	return newWithWriter(os.Stderr, opts)
}

func newWithWriter(w io.Writer, opts Options) *AppLogger {
	level := log.InfoLevel
	if parsed, err := log.ParseLevel(opts.Level); err == nil && opts.Level != "" {
		level = parsed
	}
	if opts.Debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    opts.Verbose,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "lucidity",
	})
	logger.SetLevel(level)

	return &AppLogger{
		logger: logger,
		debug:  level == log.DebugLevel,
	}
}

func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	al.logger.Debug(msg, keyvals...)
}

// IsDebug reports whether the logger runs at debug level.
func (al *AppLogger) IsDebug() bool {
	return al.debug
}

// LogPerformance records the duration of an operation at debug level.
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", time.Since(start),
		)
	}
}

// NewTestLogger creates a logger that writes to a buffer for testing.
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
