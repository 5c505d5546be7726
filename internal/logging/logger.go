package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// contextKey is the type for context keys
type contextKey string

// RequestIDKey is the context key for request IDs
const RequestIDKey contextKey = "request_id"

// Logger wraps zerolog for application logging
type Logger struct {
	logger zerolog.Logger
}

// Config holds logging configuration
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // json, text
	Component string // binary name, added to every line when set
	Output    io.Writer
}

// New creates a logger writing JSON lines, or console lines for the text format
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	fields := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Component != "" {
		fields = fields.Str("component", cfg.Component)
	}
	return &Logger{logger: fields.Logger()}
}

// SetGlobalLogger installs logger as the zerolog/log global
func SetGlobalLogger(logger *Logger) {
	log.Logger = logger.logger
}

// Info logs msg at info level
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Fatal logs err and exits the process
func (l *Logger) Fatal(err error, msg string) {
	l.logger.Fatal().Err(err).Msg(msg)
}

// ContextWithRequestID stores a request ID for later log lines.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithContext returns the global logger enriched with values carried by ctx
func WithContext(ctx context.Context) *zerolog.Logger {
	logger := log.With()

	if requestID := RequestID(ctx); requestID != "" {
		logger = logger.Str("request_id", requestID)
	}

	contextLogger := logger.Logger()
	return &contextLogger
}

// DBQuery logs database query details
func DBQuery(ctx context.Context, op string, duration time.Duration, err error) {
	logger := WithContext(ctx)
	event := logger.Debug()
	if err != nil {
		event = logger.Error()
	}

	event.
		Str("op", op).
		Dur("duration_ms", duration).
		Err(err).
		Msg("Database query")
}
