// Package logger configures the application's logging, monitoring,
// and observability.
//
// It uses ZeroLog for structured logging and integrates with New
// Relic to instrument the codebase, forwarding logs, metrics, and
// traces for debugging.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is disabled (no license key), the service still
// exists but GetApplication returns nil; all callers treat a nil app
// as "telemetry off".
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when the
// agent is not configured.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.nrApp
}

// Shutdown flushes pending telemetry and stops the agent.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s != nil && s.nrApp != nil {
		s.nrApp.Shutdown(timeout)
	}
}

// New builds the application logger and the observability service.
//
// Behavior:
//   - Log level comes from observability config (env-aware default).
//   - "console" format (local/dev) writes human-friendly output to
//     stderr; "json" writes machine-parseable lines to stdout.
//   - When a New Relic license key is present, the agent is started
//     and, if log forwarding is enabled, the zerolog output is routed
//     through the New Relic log-decorating writer.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	level, err := zerolog.ParseLevel(cfg.Observability.GetLogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	service := &LoggerService{}

	nr := cfg.Observability.NewRelic
	if nr.LicenseKey != "" {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.Observability.ServiceName),
			newrelic.ConfigLicense(nr.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(nr.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(nr.AppLogForwardingEnabled),
			func(c *newrelic.Config) {
				c.Labels = map[string]string{"env": cfg.Observability.Environment}
				if nr.DebugLogging {
					c.Logger = newrelic.NewDebugLogger(os.Stderr)
				}
			},
		)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing new relic: %w", err)
		}
		service.nrApp = app
	}

	var out io.Writer
	if cfg.Observability.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	} else {
		out = os.Stdout
	}

	// Route JSON logs through the New Relic writer so each line is
	// decorated with linking metadata for log-trace correlation.
	if service.nrApp != nil && nr.AppLogForwardingEnabled && cfg.Observability.Logging.Format != "console" {
		w := zerologWriter.New(out, service.nrApp)
		out = &w
	}

	log := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()

	return &log, service, nil
}

// WithTraceContext returns a child logger carrying the transaction's
// trace.id and span.id fields so log lines correlate with traces.
func WithTraceContext(log zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return log
	}

	md := txn.GetTraceMetadata()
	builder := log.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}
