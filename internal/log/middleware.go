package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

var nowFunc = time.Now

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the request logger
const LoggerContextKey ContextKey = "logger"

// IntoContext returns a copy of ctx carrying logger.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestLogger stores logger, enriched with the request ID, in the request
// context and logs every completed request.
func RequestLogger(logger *Logger, requestID func(*http.Request) string, clientIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID(r)
			reqLogger := logger.With(NewFields().WithRequestID(id).ToSlice()...)
			ctx := IntoContext(r.Context(), reqLogger)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := nowFunc()
			next.ServeHTTP(rec, r.WithContext(ctx))

			LogHTTPEnd(ctx, reqLogger, r, rec.status, nowFunc().Sub(start).Milliseconds(), clientIP(r))
		})
	}
}

// LogHTTPEnd logs a completed request. 4xx logs at warn and 5xx at error.
func LogHTTPEnd(ctx context.Context, logger *Logger, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 500 {
		level = slog.LevelError
	} else if statusCode >= 400 {
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP)

	logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
