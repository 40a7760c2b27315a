package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// ConsoleLogger provides leveled, colored console output.
type ConsoleLogger struct {
	logger *log.Logger
}

// NewConsoleLogger creates a console logger writing to stderr.
// When verbose is true, debug messages are emitted.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose)
}

// NewConsoleLoggerTo creates a console logger writing to w.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &ConsoleLogger{
		logger: log.NewWithOptions(w, log.Options{
			Prefix:          "polyglot",
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Level:           level,
		}),
	}
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.logger.Info(msg, keyvals(fields)...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.logger.Warn(msg, keyvals(fields)...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.logger.Error(msg, keyvals(fields)...)
}

// Debug logs a debug message only if verbose is enabled.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	c.logger.Debug(msg, keyvals(fields)...)
}

// WithFields returns a new Logger with additional default
// fields.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	return &ConsoleLogger{logger: c.logger.With(keyvals(fields)...)}
}

// Close is a no-op for console output.
func (c *ConsoleLogger) Close() error {
	return nil
}

// SetLevel sets the minimum level emitted.
func (c *ConsoleLogger) SetLevel(level LogLevel) {
	switch level {
	case LevelDebug:
		c.logger.SetLevel(log.DebugLevel)
	case LevelWarn:
		c.logger.SetLevel(log.WarnLevel)
	case LevelError:
		c.logger.SetLevel(log.ErrorLevel)
	default:
		c.logger.SetLevel(log.InfoLevel)
	}
}
