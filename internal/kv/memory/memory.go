// Package memory is an in-process kv.Store. It backs the unit tests and the
// "memory" backend of the server; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	closed   bool
	counters map[string]int64
	hashes   map[string]map[string]string
	lists    map[string][]string
	zsets    map[string]*zset
}

func New() *Store {
	return &Store{
		counters: make(map[string]int64),
		hashes:   make(map[string]map[string]string),
		lists:    make(map[string][]string),
		zsets:    make(map[string]*zset),
	}
}

var errClosed = fmt.Errorf("%w: memory store closed", common.ErrBackendUnavailable)

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	s.counters[key]++
	return s.counters[key], nil
}

func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.hset(key, fields)
	return nil
}

func (s *Store) HGet(ctx context.Context, key, field string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", errClosed
	}
	v, ok := s.hashes[key][field]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := make(map[string]string, len(s.hashes[key]))
	for f, v := range s.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (s *Store) LPush(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.lpush(key, value)
	return nil
}

func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	l := s.lists[key]
	lo, hi, ok := kv.Window(start, stop, int64(len(l)))
	if !ok {
		return []string{}, nil
	}
	return append([]string(nil), l[lo:hi]...), nil
}

func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.ltrim(key, start, stop)
	return nil
}

func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.zadd(key, score, member)
	return nil
}

func (s *Store) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	z, ok := s.zsets[key]
	if !ok {
		return []string{}, nil
	}
	lo, hi, ok := kv.Window(start, stop, int64(z.tree.Len()))
	if !ok {
		return []string{}, nil
	}
	out := make([]string, 0, hi-lo)
	var i int64
	z.tree.Ascend(func(e zentry) bool {
		if i >= hi {
			return false
		}
		if i >= lo {
			out = append(out, e.member)
		}
		i++
		return true
	})
	return out, nil
}

func (s *Store) ZInterStore(ctx context.Context, dest string, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}

	var sum map[string]float64
	for i, k := range keys {
		z, ok := s.zsets[k]
		if !ok {
			sum = nil
			break
		}
		if i == 0 {
			sum = make(map[string]float64, len(z.scores))
			for m, sc := range z.scores {
				sum[m] = sc
			}
			continue
		}
		for m := range sum {
			sc, ok := z.scores[m]
			if !ok {
				delete(sum, m)
				continue
			}
			sum[m] += sc
		}
	}

	delete(s.zsets, dest)
	for m, sc := range sum {
		s.zadd(dest, sc, m)
	}
	return int64(len(sum)), nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.del(keys...)
	return nil
}

// Batch records the writes of fn and applies them under a single lock, so
// readers observe all of them or none.
func (s *Store) Batch(ctx context.Context, fn func(w kv.Writer) error) error {
	b := &batch{}
	if err := fn(b); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	for _, op := range b.ops {
		op(s)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close makes every later call fail with common.ErrBackendUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Keys lists every key currently holding a value, sorted. Tests use it to
// check that temporary keys are cleaned up.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.counters {
		keys = append(keys, k)
	}
	for k := range s.hashes {
		keys = append(keys, k)
	}
	for k := range s.lists {
		keys = append(keys, k)
	}
	for k := range s.zsets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- unlocked helpers, callers hold s.mu ---

func (s *Store) hset(key string, fields map[string]string) {
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	for f, v := range fields {
		h[f] = v
	}
}

func (s *Store) lpush(key, value string) {
	s.lists[key] = append([]string{value}, s.lists[key]...)
}

func (s *Store) ltrim(key string, start, stop int64) {
	l := s.lists[key]
	lo, hi, ok := kv.Window(start, stop, int64(len(l)))
	if !ok {
		delete(s.lists, key)
		return
	}
	s.lists[key] = append([]string(nil), l[lo:hi]...)
}

func (s *Store) zadd(key string, score float64, member string) {
	z, ok := s.zsets[key]
	if !ok {
		z = newZset()
		s.zsets[key] = z
	}
	z.add(score, member)
}

func (s *Store) del(keys ...string) {
	for _, k := range keys {
		delete(s.counters, k)
		delete(s.hashes, k)
		delete(s.lists, k)
		delete(s.zsets, k)
	}
}

type batch struct {
	ops []func(s *Store)
}

func (b *batch) HSet(ctx context.Context, key string, fields map[string]string) error {
	cp := make(map[string]string, len(fields))
	for f, v := range fields {
		cp[f] = v
	}
	b.ops = append(b.ops, func(s *Store) { s.hset(key, cp) })
	return nil
}

func (b *batch) LPush(ctx context.Context, key string, value string) error {
	b.ops = append(b.ops, func(s *Store) { s.lpush(key, value) })
	return nil
}

func (b *batch) LTrim(ctx context.Context, key string, start, stop int64) error {
	b.ops = append(b.ops, func(s *Store) { s.ltrim(key, start, stop) })
	return nil
}

func (b *batch) ZAdd(ctx context.Context, key string, score float64, member string) error {
	b.ops = append(b.ops, func(s *Store) { s.zadd(key, score, member) })
	return nil
}

func (b *batch) Del(ctx context.Context, keys ...string) error {
	b.ops = append(b.ops, func(s *Store) { s.del(keys...) })
	return nil
}
