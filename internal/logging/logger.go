// Package logging is the structured logger the workflow, generation, export
// and HTTP layers write to. SlogLogger is the implementation; Nop discards.
package logging

import "context"

// Logger is a context-aware, structured logger. Components derive their own
// with With("module", name).
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "video ready", "scene", 3, "bytes", len(data))
type Logger interface {
	// Debug logs verbose diagnostics (request shaping, poll ticks).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
