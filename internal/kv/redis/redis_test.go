package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/dmitrijs2005/microblog/internal/kv/kvtest"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := New(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_Conformance(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		s, _ := newTestStore(t)
		return s
	})
}

func TestStore_WritesPlainRedisTypes(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HSet(ctx, "post:1", map[string]string{"body": "hello world", "userId": "1", "time": "1700000000000"}))
	require.NoError(t, s.LPush(ctx, "timeline", "1"))
	require.NoError(t, s.ZAdd(ctx, "followers:1", 1700000000000, "2"))

	assert.Equal(t, "hello world", mr.HGet("post:1", "body"))
	assert.Equal(t, "1700000000000", mr.HGet("post:1", "time"))

	l, err := mr.List("timeline")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, l)

	score, err := mr.ZScore("followers:1", "2")
	require.NoError(t, err)
	assert.Equal(t, float64(1700000000000), score)
}

func TestStore_ServerDownIsUnavailable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.Incr(context.Background(), "post_id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBackendUnavailable), "got %v", err)
	assert.True(t, errors.Is(s.Ping(context.Background()), common.ErrBackendUnavailable))
}

func TestStore_ErrorReplyIsNotUnavailable(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set("timeline", "not a list"))

	_, err := s.LRange(context.Background(), "timeline", 0, -1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrBackendUnavailable), "WRONGTYPE is a reply, got %v", err)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("x", nil))
	assert.Equal(t, common.ErrorNotFound, mapError("hget", redis.Nil))
	assert.ErrorIs(t, mapError("incr", context.DeadlineExceeded), context.DeadlineExceeded)
	assert.ErrorIs(t, mapError("incr", errors.New("dial tcp: refused")), common.ErrBackendUnavailable)
}
