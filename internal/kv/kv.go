// Package kv declares the key-value capabilities the timeline store is built
// on: atomic counters, hashes, lists and sorted sets. Backends live in the
// sub-packages memory, redis and postgres.
//
// Index arguments follow Redis conventions: ranges are inclusive on both
// ends and negative indexes count from the tail (-1 is the last element).
package kv

import "context"

// Writer is the write half of a Store. Inside Store.Batch the same methods
// are queued and applied together.
type Writer interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	LPush(ctx context.Context, key string, value string) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	ZAdd(ctx context.Context, key string, score float64, member string) error
	Del(ctx context.Context, keys ...string) error
}

// Store is a session on a key-value backend. A Store is safe for concurrent
// use; each primitive is atomic on its own, sequences of calls are not.
type Store interface {
	Writer

	// Incr atomically increments the counter at key and returns the new
	// value. A missing counter starts at zero.
	Incr(ctx context.Context, key string) (int64, error)

	// HGet returns common.ErrorNotFound when the hash or field is missing.
	HGet(ctx context.Context, key, field string) (string, error)

	// HGetAll returns an empty map for a missing hash.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZRange returns members ordered by ascending score, ties broken by
	// member.
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZInterStore replaces dest with the intersection of keys, summing
	// scores, and returns its cardinality. An empty result leaves dest
	// absent.
	ZInterStore(ctx context.Context, dest string, keys ...string) (int64, error)

	// Batch applies the writes issued by fn as one unit. Backends with
	// transactions apply them atomically; nothing is written when fn
	// returns an error.
	Batch(ctx context.Context, fn func(w Writer) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Window converts an inclusive Redis-style [start, stop] range over a
// sequence of length n into a half-open [lo, hi) slice window. ok is false
// when the range selects nothing.
func Window(start, stop, n int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop + 1, true
}
