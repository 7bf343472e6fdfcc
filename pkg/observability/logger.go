// Package observability provides structured logging, metrics collection,
// and health reporting for studyflow.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat specifies the output format for logs.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogLevel represents logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer // defaults to os.Stderr
	AddSource bool
	// ServiceName and ServiceVersion are attached to every record.
	ServiceName    string
	ServiceVersion string
}

// DefaultLogConfig returns text logs at info level on stderr.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:          LogLevelInfo,
		Format:         LogFormatText,
		Output:         os.Stderr,
		ServiceName:    "studyflow",
		ServiceVersion: "dev",
	}
}

// ProductionLogConfig returns JSON logs with source locations.
func ProductionLogConfig() LogConfig {
	cfg := DefaultLogConfig()
	cfg.Format = LogFormatJSON
	cfg.AddSource = true
	cfg.ServiceVersion = "unknown"
	return cfg
}

// NewLogger creates a structured logger that also records correlation,
// request and user IDs found on the context.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(string(cfg.Level)),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", cfg.ServiceVersion))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(&contextHandler{handler: handler})
}

// LoggerFromEnv creates a logger from the environment:
//
//	STUDYFLOW_ENV=production  JSON output with source locations
//	STUDYFLOW_LOG_LEVEL       debug, info, warn, error
//	STUDYFLOW_LOG_FORMAT      text, json
//	STUDYFLOW_VERSION         reported as the version attribute
func LoggerFromEnv() *slog.Logger {
	cfg := DefaultLogConfig()
	if os.Getenv("STUDYFLOW_ENV") == "production" {
		cfg = ProductionLogConfig()
	}
	if level := os.Getenv("STUDYFLOW_LOG_LEVEL"); level != "" {
		cfg.Level = LogLevel(level)
	}
	if format := os.Getenv("STUDYFLOW_LOG_FORMAT"); format != "" {
		cfg.Format = LogFormat(format)
	}
	if version := os.Getenv("STUDYFLOW_VERSION"); version != "" {
		cfg.ServiceVersion = version
	}
	return NewLogger(cfg)
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch LogLevel(strings.ToLower(strings.TrimSpace(level))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler copies the RequestInfo on the context onto each record.
type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	info := RequestInfoFromContext(ctx)
	if info.CorrelationID != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, info.CorrelationID))
	}
	if info.UserID != "" {
		r.AddAttrs(slog.String(UserIDKey, info.UserID))
	}
	if info.Source != "" {
		r.AddAttrs(slog.String(SourceKey, info.Source))
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}
