// Package redis implements kv.Store on a Redis server through go-redis. The
// keyspace written here is the one existing deployments read, so keys and
// field names pass through untouched.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/go-redis/redis/v8"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	rdb *redis.Client
}

// New opens a client; the first command dials the server.
func New(opts *redis.Options) *Store {
	return &Store{rdb: redis.NewClient(opts)}
}

// mapError translates go-redis errors into the shared taxonomy: redis.Nil is
// ErrorNotFound, error replies stay plain errors, everything else (dial,
// I/O, closed pool) is ErrBackendUnavailable.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return common.ErrorNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	var reply redis.Error
	if errors.As(err, &reply) {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	return fmt.Errorf("redis %s: %w: %v", op, common.ErrBackendUnavailable, err)
}

func hsetArgs(fields map[string]string) []interface{} {
	args := make([]interface{}, 0, 2*len(fields))
	for f, v := range fields {
		args = append(args, f, v)
	}
	return args
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	return n, mapError("incr", err)
}

func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	return mapError("hset", s.rdb.HSet(ctx, key, hsetArgs(fields)...).Err())
}

func (s *Store) HGet(ctx context.Context, key, field string) (string, error) {
	v, err := s.rdb.HGet(ctx, key, field).Result()
	return v, mapError("hget", err)
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, mapError("hgetall", err)
	}
	return m, nil
}

func (s *Store) LPush(ctx context.Context, key string, value string) error {
	return mapError("lpush", s.rdb.LPush(ctx, key, value).Err())
}

func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	l, err := s.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, mapError("lrange", err)
	}
	return l, nil
}

func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	return mapError("ltrim", s.rdb.LTrim(ctx, key, start, stop).Err())
}

func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return mapError("zadd", s.rdb.ZAdd(ctx, key, &redis.Z{Score: score, Member: member}).Err())
}

func (s *Store) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m, err := s.rdb.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, mapError("zrange", err)
	}
	return m, nil
}

func (s *Store) ZInterStore(ctx context.Context, dest string, keys ...string) (int64, error) {
	n, err := s.rdb.ZInterStore(ctx, dest, &redis.ZStore{Keys: keys}).Result()
	return n, mapError("zinterstore", err)
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return mapError("del", s.rdb.Del(ctx, keys...).Err())
}

// Batch wraps the writes of fn in MULTI/EXEC. If fn fails nothing is sent
// and its error is returned unchanged.
func (s *Store) Batch(ctx context.Context, fn func(w kv.Writer) error) error {
	var fnErr error
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fnErr = fn(pipeWriter{pipe: pipe})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return mapError("exec", err)
}

func (s *Store) Ping(ctx context.Context) error {
	return mapError("ping", s.rdb.Ping(ctx).Err())
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// pipeWriter queues commands on a transaction pipeline; their replies are
// checked when the pipeline executes.
type pipeWriter struct {
	pipe redis.Pipeliner
}

func (w pipeWriter) HSet(ctx context.Context, key string, fields map[string]string) error {
	w.pipe.HSet(ctx, key, hsetArgs(fields)...)
	return nil
}

func (w pipeWriter) LPush(ctx context.Context, key string, value string) error {
	w.pipe.LPush(ctx, key, value)
	return nil
}

func (w pipeWriter) LTrim(ctx context.Context, key string, start, stop int64) error {
	w.pipe.LTrim(ctx, key, start, stop)
	return nil
}

func (w pipeWriter) ZAdd(ctx context.Context, key string, score float64, member string) error {
	w.pipe.ZAdd(ctx, key, &redis.Z{Score: score, Member: member})
	return nil
}

func (w pipeWriter) Del(ctx context.Context, keys ...string) error {
	w.pipe.Del(ctx, keys...)
	return nil
}
