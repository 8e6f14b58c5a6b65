package timeline

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/kv"
)

// Follow records that current follows target in both directions, scored
// with the current time in milliseconds. Following again only refreshes the
// score.
func (s *Store) Follow(ctx context.Context, current, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	score := float64(s.now().UnixMilli())
	err := s.write(ctx, func(w kv.Writer) error {
		if err := w.ZAdd(ctx, followedKey(current), score, target); err != nil {
			return err
		}
		// a failure here leaves followed:<current> without the reverse edge
		return w.ZAdd(ctx, followersKey(target), score, current)
	})
	if err != nil {
		return fmt.Errorf("follow %s -> %s: %w", current, target, err)
	}

	s.obs.Followed()
	s.logger.Debug(ctx, "followed", "user_id", current, "target_id", target)
	return nil
}

// Followers lists the ids following userID, oldest edge first.
func (s *Store) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.kv.ZRange(ctx, followersKey(userID), 0, -1)
}

// Following lists the ids userID follows, oldest edge first.
func (s *Store) Following(ctx context.Context, userID string) ([]string, error) {
	return s.kv.ZRange(ctx, followedKey(userID), 0, -1)
}

// CommonFollowers returns the ids following both a and b. The intersection
// is materialised under a key private to this call and removed afterwards.
// No common follower gives an empty, non-nil slice.
func (s *Store) CommonFollowers(ctx context.Context, a, b string) ([]string, error) {
	tmp := s.tempKey()
	defer func() {
		if err := s.kv.Del(context.WithoutCancel(ctx), tmp); err != nil {
			s.logger.Warn(ctx, "removing intersection key", "key", tmp, "error", err)
		}
	}()

	n, err := s.kv.ZInterStore(ctx, tmp, followersKey(a), followersKey(b))
	if err != nil {
		return nil, fmt.Errorf("intersecting followers of %s and %s: %w", a, b, err)
	}
	if n == 0 {
		return []string{}, nil
	}

	ids, err := s.kv.ZRange(ctx, tmp, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("reading common followers: %w", err)
	}
	s.logger.Debug(ctx, "common followers", "a", a, "b", b, "count", len(ids))
	return ids, nil
}
