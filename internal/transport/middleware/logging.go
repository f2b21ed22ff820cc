package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type loggerKey struct{}

// Logger returns the request scoped logger stored by Logging, or fallback
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return fallback
}

// WithLogger stores logger in ctx. Logging builds the request logger on top
// of it instead of its own base logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logging tags each request with a transaction id and logs its outcome
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			txid := uuid.NewString()
			reqLogger := Logger(r.Context(), logger).With("txid", txid)

			w.Header().Set("X-Request-ID", txid)
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			ctx := WithLogger(r.Context(), reqLogger)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			reqLogger.Info("Request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
