package logging

import (
	"fmt"
	"io"
	"os"
)

// Config selects and configures a logger.
type Config struct {
	// Format is "console" (default), "json" or "none".
	Format string
	// Level is a level name understood by ParseLevel.
	Level string
	// File additionally writes JSON lines to this path.
	File string
	// Secrets are masked in every message and field.
	Secrets []string
}

// New builds the logger described by cfg. Console output goes to
// w; a configured file always receives JSON lines.
func New(cfg Config, w io.Writer) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	var loggers []Logger
	switch cfg.Format {
	case "", "console":
		c := NewConsoleLoggerTo(w, false)
		c.SetLevel(level)
		loggers = append(loggers, c)
	case "json":
		loggers = append(loggers, NewJSONLoggerTo(w, level))
	case "none":
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	if cfg.File != "" {
		fl, err := NewJSONLogger(LoggerConfig{
			OutputPath: cfg.File,
			Level:      level,
		})
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fl)
	}

	var l Logger
	switch len(loggers) {
	case 0:
		l = NullLogger{}
	case 1:
		l = loggers[0]
	default:
		l = NewMultiLogger(loggers...)
	}

	if len(cfg.Secrets) > 0 {
		l = NewRedactingLogger(l, cfg.Secrets...)
	}
	return l, nil
}
