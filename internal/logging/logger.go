// Package logging defines the structured logging contract shared by the
// server packages. The concrete implementation wraps slog.
package logging

import "context"

// Logger is a leveled, context-aware logger. Variadic args are key-value
// pairs, e.g.:
//
//	log.Info(ctx, "job removed", "job_id", jobID, "resumes", len(keys))
type Logger interface {
	// Debug logs diagnostic detail that is normally filtered out.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs an unusual but non-fatal condition.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given key-value pairs.
	With(args ...any) Logger
}
