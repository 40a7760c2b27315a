// Package cli implements the polyglot command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"digital.vasic.polyglot/pkg/config"
	"digital.vasic.polyglot/pkg/engine"
	"digital.vasic.polyglot/pkg/env"
	"digital.vasic.polyglot/pkg/executor"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
)

// app holds the state shared by every command of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings *config.Settings
}

// NewRootCmd builds the polyglot command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}
	d := config.DefaultSettings()

	root := &cobra.Command{
		Use:               "polyglot",
		Short:             "Run one computation across many runtimes and check they agree",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadSettings,
	}

	fs := root.PersistentFlags()
	fs.StringVar(&a.cfgFile, "config", "", "settings file (default ./polyglot.{yaml,toml,json})")
	fs.Duration("timeout", d.Timeout, "per-invocation timeout")
	fs.Float64("tolerance", d.Tolerance, "absolute numeric tolerance")
	fs.String("anchor", d.Anchor, "anchor policy: first, median or pairwise")
	fs.String("mode", d.Mode, "dispatch mode: sequential or parallel")
	fs.Int("concurrency", d.Concurrency, "parallel invocation limit")
	fs.StringSlice("batch-runtimes", d.BatchRuntimes, "runtimes called once with every example")
	fs.String("env-file", "", "dotenv file injected into runtime environments")
	fs.String("log-format", d.Log.Format, "log format: console, json or none")
	fs.String("log-level", d.Log.Level, "log level")
	fs.String("log-file", "", "also write JSON logs to this file")
	bindFlags(a.v, fs, map[string]string{
		"timeout":        "timeout",
		"tolerance":      "tolerance",
		"anchor":         "anchor",
		"mode":           "mode",
		"concurrency":    "concurrency",
		"batch-runtimes": "batch_runtimes",
		"env-file":       "env_file",
		"log-format":     "log.format",
		"log-level":      "log.level",
		"log-file":       "log.file",
	})

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newRuntimesCmd(a))
	root.AddCommand(newValidateCmd(a))
	return root
}

// Run executes the command tree with args and returns the process
// exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitConfig
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func (a *app) loadSettings(_ *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(a.v, a.cfgFile)
	if err != nil {
		return configError(err)
	}
	a.settings = s
	return nil
}

// session is the per-command wiring of environment, logging and
// the engine.
type session struct {
	loader    *env.DefaultLoader
	logger    logging.Logger
	metrics   *metrics.InMemoryMetrics
	collector *monitor.EventCollector
	engine    *engine.Engine
}

func (a *app) newSession(cmd *cobra.Command) (*session, error) {
	loader := env.NewLoader()
	if a.settings.EnvFile != "" {
		if err := loader.Load(a.settings.EnvFile); err != nil {
			return nil, configError(err)
		}
	}

	logger, err := logging.New(logging.Config{
		Format:  a.settings.Log.Format,
		Level:   a.settings.Log.Level,
		File:    a.settings.Log.File,
		Secrets: loader.Secrets(),
	}, cmd.ErrOrStderr())
	if err != nil {
		return nil, configError(err)
	}

	vars := loader.All()
	if len(vars) > 0 {
		logger.Debug("env_loaded",
			logging.StringField("file", a.settings.EnvFile),
			logging.LogField("vars", env.RedactMap(vars)),
		)
	}

	s := &session{
		loader:    loader,
		logger:    logger,
		metrics:   metrics.NewInMemoryMetrics(),
		collector: monitor.NewEventCollector(),
	}
	s.engine, err = engine.New(
		engine.WithSettings(*a.settings),
		engine.WithExecutorOptions(executor.Options{Env: vars}),
		engine.WithLogger(logger),
		engine.WithMetrics(s.metrics),
		engine.WithCollector(s.collector),
	)
	if err != nil {
		logger.Close()
		return nil, configError(err)
	}
	return s, nil
}

func (s *session) Close() error {
	return s.logger.Close()
}
