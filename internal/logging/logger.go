// Package logging attaches a request-scoped zerolog.Logger and correlation
// ID to every HTTP request the demo daemon serves, so a tick's handler
// logs (and any error it raises) can be traced back to the request that
// triggered them without threading a logger through every call.
package logging

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	loggerKey        contextKey = "logger"
)

// InitLogger configures the process-wide zerolog logger: unix timestamps,
// console output on stderr. Called once at daemon startup, before the
// first tick.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// statusRecorder wraps http.ResponseWriter so the completion log line
// below knows what status code actually went out.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware stamps every request with a correlation ID — reusing one
// supplied via X-Correlation-ID so a viewer's own request ID survives the
// hop — attaches a logger carrying it to the request context, and logs
// the request's start and finish.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		logger := log.With().Str("correlation_id", correlationID).Logger()

		ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
		ctx = context.WithValue(ctx, loggerKey, logger)

		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("atmosd request received")

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Dur("duration_ms", time.Since(start)).
			Msg("atmosd request completed")
	})
}

// FromContext returns the request-scoped logger, or the global logger if
// ctx was never passed through Middleware.
func FromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return &logger
	}
	return &log.Logger
}

// GetCorrelationID returns the request's correlation ID, or "" if ctx was
// never passed through Middleware.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

func logWithFields(event *zerolog.Event, message string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

// LogError logs err at error level on the request-scoped logger, tagged
// with fields.
func LogError(ctx context.Context, err error, message string, fields map[string]interface{}) {
	logWithFields(FromContext(ctx).Error().Err(err), message, fields)
}

// LogInfo logs an informational message, tagged with fields.
func LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	logWithFields(FromContext(ctx).Info(), message, fields)
}

// LogWarning logs a warning, tagged with fields.
func LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	logWithFields(FromContext(ctx).Warn(), message, fields)
}
