package engine

import (
	"digital.vasic.polyglot/pkg/config"
	"digital.vasic.polyglot/pkg/executor"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
)

// Option configures an Engine.
type Option func(*Engine)

// WithSettings replaces the default settings.
func WithSettings(s config.Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithRegistry sets the executor registry. Without it the engine
// registers every built-in executor.
func WithRegistry(reg executor.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithExecutorOptions configures the built-in executors created
// when no registry is supplied.
func WithExecutorOptions(opts executor.Options) Option {
	return func(e *Engine) {
		e.execOpts = opts
	}
}

// WithLogger sets the logger shared by dispatch and evaluation.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.RuntimeMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithCollector sets the event collector that receives run,
// invocation and evaluation events.
func WithCollector(c *monitor.EventCollector) Option {
	return func(e *Engine) {
		e.collector = c
	}
}
