package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidSettings is returned when engine settings fail
// validation.
var ErrInvalidSettings = errors.New("invalid settings")

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "POLYGLOT"
	// SettingsFileName is the settings file name without extension.
	SettingsFileName = "polyglot"
)

// Dispatch modes.
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// Settings holds engine settings resolved from defaults, the
// settings file, the environment and command-line flags.
type Settings struct {
	Timeout       time.Duration   `mapstructure:"timeout" json:"timeout"`
	Tolerance     float64         `mapstructure:"tolerance" json:"tolerance"`
	Anchor        string          `mapstructure:"anchor" json:"anchor"`
	Mode          string          `mapstructure:"mode" json:"mode"`
	Concurrency   int             `mapstructure:"concurrency" json:"concurrency"`
	BatchRuntimes []string        `mapstructure:"batch_runtimes" json:"batch_runtimes"`
	EnvFile       string          `mapstructure:"env_file" json:"env_file,omitempty"`
	Log           LogSettings     `mapstructure:"log" json:"log"`
	Report        ReportSettings  `mapstructure:"report" json:"report"`
	Monitor       MonitorSettings `mapstructure:"monitor" json:"monitor"`
}

// LogSettings configures the logger.
type LogSettings struct {
	// Format is console, json or none.
	Format string `mapstructure:"format" json:"format"`
	Level  string `mapstructure:"level" json:"level"`
	File   string `mapstructure:"file" json:"file,omitempty"`
}

// ReportSettings configures report persistence.
type ReportSettings struct {
	// Format is text, json, markdown or html.
	Format string `mapstructure:"format" json:"format"`
	// Dir receives report files; empty disables writing.
	Dir string `mapstructure:"dir" json:"dir,omitempty"`
	// History is a JSON Lines file of past runs.
	History string `mapstructure:"history" json:"history,omitempty"`
}

// MonitorSettings configures the live event server.
type MonitorSettings struct {
	// Addr is the listen address; empty disables the server.
	Addr string `mapstructure:"addr" json:"addr,omitempty"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Timeout:     15 * time.Second,
		Tolerance:   1e-3,
		Anchor:      "first",
		Mode:        ModeSequential,
		Concurrency: 4,
		BatchRuntimes: []string{
			"python", "javascript", "c", "julia", "native",
		},
		Log: LogSettings{
			Format: "console",
			Level:  "info",
		},
		Report: ReportSettings{
			Format: "text",
		},
	}
}

// NewViper creates a viper instance carrying the defaults and the
// POLYGLOT_ environment mapping.
func NewViper() *viper.Viper {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("anchor", d.Anchor)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("batch_runtimes", d.BatchRuntimes)
	v.SetDefault("env_file", d.EnvFile)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("report.dir", d.Report.Dir)
	v.SetDefault("report.history", d.Report.History)
	v.SetDefault("monitor.addr", d.Monitor.Addr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings resolves settings from v. When file is set it is
// read exclusively; otherwise polyglot.{yaml,toml,json} is looked
// up in the working directory and its absence is not an error.
func LoadSettings(v *viper.Viper, file string) (*Settings, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf(
				"%w: read %s: %w", ErrInvalidSettings, file, err,
			)
		}
	} else {
		v.SetConfigName(SettingsFileName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf(
					"%w: %w", ErrInvalidSettings, err,
				)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges and enumerations. The anchor
// policy is validated by the evaluator that resolves it.
func (s Settings) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf(
			"%w: timeout must be positive, got %s",
			ErrInvalidSettings, s.Timeout,
		)
	}
	if s.Tolerance < 0 {
		return fmt.Errorf(
			"%w: tolerance must not be negative, got %g",
			ErrInvalidSettings, s.Tolerance,
		)
	}
	switch s.Mode {
	case ModeSequential, ModeParallel:
	default:
		return fmt.Errorf(
			"%w: unknown mode: %s", ErrInvalidSettings, s.Mode,
		)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf(
			"%w: concurrency must be at least 1, got %d",
			ErrInvalidSettings, s.Concurrency,
		)
	}
	switch s.Log.Format {
	case "console", "json", "none":
	default:
		return fmt.Errorf(
			"%w: unknown log format: %s",
			ErrInvalidSettings, s.Log.Format,
		)
	}
	switch s.Report.Format {
	case "text", "json", "markdown", "html":
	default:
		return fmt.Errorf(
			"%w: unknown report format: %s",
			ErrInvalidSettings, s.Report.Format,
		)
	}
	return nil
}
