// Package logger is a thin slog wrapper with helpers for the log events the
// service emits: requests, auth outcomes, cart rejections, store faults.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// RequestIDKey carries the request id through a context.
	RequestIDKey contextKey = "request_id"
	// UserIDKey carries the user id through a context.
	UserIDKey contextKey = "user_id"
)

// Logger embeds slog.Logger; all slog methods are available directly.
type Logger struct {
	*slog.Logger
}

// New picks the handler by environment: human-readable text at debug level
// in development, JSON at info level everywhere else.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithContext attaches request_id and user_id from the context when present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	result := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		result = result.WithRequestID(requestID)
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		result = result.WithUserID(userID)
	}
	return result
}

// WithRequestID attaches a request id to every record.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.With(slog.String("request_id", requestID))}
}

// WithUserID attaches a user id to every record.
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.With(slog.String("user_id", userID))}
}

// HTTPRequest records a completed request.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// AuthEvent records an authentication outcome. Failures log at warn with
// the reason; successes stay at info without one.
func (l *Logger) AuthEvent(event, email string, success bool, reason string) {
	if success {
		l.Info("auth_event",
			slog.String("event", event),
			slog.String("email", email),
			slog.Bool("success", success),
		)
		return
	}
	l.Warn("auth_event",
		slog.String("event", event),
		slog.String("email", email),
		slog.Bool("success", success),
		slog.String("reason", reason),
	)
}

// CartRejection records a cart mutation turned down by a domain rule.
func (l *Logger) CartRejection(op, userID string, reason string) {
	l.Info("cart_rejection",
		slog.String("operation", op),
		slog.String("user_id", userID),
		slog.String("reason", reason),
	)
}

// DatabaseError records a failed store operation.
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded records a throttled client.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
