// Package kvtest is a conformance suite every kv.Store backend runs from its
// own tests.
package kvtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run executes the suite; newStore must return an empty store per call.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Helper()

	t.Run("Incr", func(t *testing.T) { testIncr(t, newStore(t)) })
	t.Run("Hash", func(t *testing.T) { testHash(t, newStore(t)) })
	t.Run("List", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("ConcurrentPush", func(t *testing.T) { testConcurrentPush(t, newStore(t)) })
	t.Run("SortedSet", func(t *testing.T) { testSortedSet(t, newStore(t)) })
	t.Run("ZInterStore", func(t *testing.T) { testZInterStore(t, newStore(t)) })
	t.Run("Del", func(t *testing.T) { testDel(t, newStore(t)) })
	t.Run("Batch", func(t *testing.T) { testBatch(t, newStore(t)) })
	t.Run("BatchAbort", func(t *testing.T) { testBatchAbort(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

func testIncr(t *testing.T, s kv.Store) {
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "post_id")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := s.Incr(ctx, "userId")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counters are independent")
}

func testHash(t *testing.T, s kv.Store) {
	ctx := context.Background()

	_, err := s.HGet(ctx, "users:1", "userName")
	assert.True(t, errors.Is(err, common.ErrorNotFound), "missing hash: %v", err)

	all, err := s.HGetAll(ctx, "users:1")
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.HSet(ctx, "post:1", map[string]string{"body": "hi", "userId": "1"}))
	require.NoError(t, s.HSet(ctx, "post:1", map[string]string{"time": "1700000000000"}))

	v, err := s.HGet(ctx, "post:1", "body")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	_, err = s.HGet(ctx, "post:1", "nope")
	assert.True(t, errors.Is(err, common.ErrorNotFound), "missing field: %v", err)

	all, err = s.HGetAll(ctx, "post:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"body": "hi", "userId": "1", "time": "1700000000000"}, all)
}

func testList(t *testing.T, s kv.Store) {
	ctx := context.Background()

	got, err := s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, v := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, s.LPush(ctx, "timeline", v))
	}

	got, err = s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, got)

	got, err = s.LRange(ctx, "timeline", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3"}, got)

	got, err = s.LRange(ctx, "timeline", 3, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, got)

	got, err = s.LRange(ctx, "timeline", 10, 20)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.LTrim(ctx, "timeline", 0, 2))
	got, err = s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4", "3"}, got)
}

func testSortedSet(t *testing.T, s kv.Store) {
	ctx := context.Background()

	got, err := s.ZRange(ctx, "followers:1", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.ZAdd(ctx, "followers:1", 300, "4"))
	require.NoError(t, s.ZAdd(ctx, "followers:1", 100, "2"))
	require.NoError(t, s.ZAdd(ctx, "followers:1", 200, "3"))

	got, err = s.ZRange(ctx, "followers:1", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4"}, got)

	// re-adding moves the member, never duplicates it
	require.NoError(t, s.ZAdd(ctx, "followers:1", 400, "2"))
	got, err = s.ZRange(ctx, "followers:1", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "2"}, got)

	got, err = s.ZRange(ctx, "followers:1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, got)

	// equal scores order by member
	require.NoError(t, s.ZAdd(ctx, "ties", 1, "b"))
	require.NoError(t, s.ZAdd(ctx, "ties", 1, "a"))
	got, err = s.ZRange(ctx, "ties", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func testZInterStore(t *testing.T, s kv.Store) {
	ctx := context.Background()

	require.NoError(t, s.ZAdd(ctx, "followers:1", 1, "3"))
	require.NoError(t, s.ZAdd(ctx, "followers:1", 2, "4"))
	require.NoError(t, s.ZAdd(ctx, "followers:1", 3, "5"))
	require.NoError(t, s.ZAdd(ctx, "followers:2", 10, "4"))
	require.NoError(t, s.ZAdd(ctx, "followers:2", 1, "5"))
	require.NoError(t, s.ZAdd(ctx, "followers:2", 1, "6"))

	n, err := s.ZInterStore(ctx, "common:t", "followers:1", "followers:2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.ZRange(ctx, "common:t", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4"}, got, "ordered by summed score")

	// dest is replaced, and an empty intersection leaves it absent
	n, err = s.ZInterStore(ctx, "common:t", "followers:1", "followers:9")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	got, err = s.ZRange(ctx, "common:t", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testDel(t *testing.T, s kv.Store) {
	ctx := context.Background()

	require.NoError(t, s.HSet(ctx, "h", map[string]string{"f": "v"}))
	require.NoError(t, s.LPush(ctx, "l", "x"))
	require.NoError(t, s.ZAdd(ctx, "z", 1, "m"))
	require.NoError(t, s.Del(ctx, "h", "l", "z", "missing"))

	_, err := s.HGet(ctx, "h", "f")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	l, err := s.LRange(ctx, "l", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, l)
	z, err := s.ZRange(ctx, "z", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, z)
}

func testBatch(t *testing.T, s kv.Store) {
	ctx := context.Background()

	err := s.Batch(ctx, func(w kv.Writer) error {
		if err := w.HSet(ctx, "post:1", map[string]string{"body": "b"}); err != nil {
			return err
		}
		for _, v := range []string{"1", "2", "3"} {
			if err := w.LPush(ctx, "timeline", v); err != nil {
				return err
			}
		}
		if err := w.LTrim(ctx, "timeline", 0, 1); err != nil {
			return err
		}
		return w.ZAdd(ctx, "followers:1", 5, "2")
	})
	require.NoError(t, err)

	v, err := s.HGet(ctx, "post:1", "body")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	l, err := s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2"}, l)

	z, err := s.ZRange(ctx, "followers:1", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, z)
}

func testBatchAbort(t *testing.T, s kv.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Batch(ctx, func(w kv.Writer) error {
		if err := w.LPush(ctx, "timeline", "1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	l, err := s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, l, "aborted batch must not write")
}

// testConcurrentPush pushes to one list from many goroutines, the way
// concurrent posts all push to the global timeline.
func testConcurrentPush(t *testing.T, s kv.Store) {
	ctx := context.Background()
	const workers, perWorker = 8, 10

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := s.LPush(ctx, "timeline", fmt.Sprintf("%d-%d", w, i)); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	l, err := s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Len(t, l, workers*perWorker)

	require.NoError(t, s.LTrim(ctx, "timeline", 0, 10))
	l, err = s.LRange(ctx, "timeline", 0, -1)
	require.NoError(t, err)
	assert.Len(t, l, 11)
}
