// Package logging is the structured logger every microblog component takes.
// The server backs it with slog's JSON handler; tests use NewNopLogger or a
// text handler over a buffer.
package logging

import "context"

// Logger logs a message with key/value pairs, for example
//
//	log.Warn(ctx, "dangling post reference", "post_id", id, "list", key)
//
// Components derive their own logger once with With("module", name).
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes args.
	With(args ...any) Logger
}
