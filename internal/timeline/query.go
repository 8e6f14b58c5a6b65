package timeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/timex"
)

// GetUserTimeline returns a window of userID's timeline, newest first. The
// window is start..start+count under RangeInclusive and start..start+count-1
// under RangeHalfOpen.
func (s *Store) GetUserTimeline(ctx context.Context, userID string, start, count int64) ([]RenderedPost, error) {
	if start < 0 || count < 0 {
		return nil, fmt.Errorf("%w: start and count must not be negative", common.ErrInvalidArgument)
	}
	if count > math.MaxInt64-start {
		return nil, fmt.Errorf("%w: start+count overflows", common.ErrInvalidArgument)
	}
	stop := start + count
	if s.opts.RangeMode == RangeHalfOpen {
		if count == 0 {
			return []RenderedPost{}, nil
		}
		stop--
	}

	key := postsKey(userID)
	ids, err := s.kv.LRange(ctx, key, start, stop)
	if err != nil {
		return nil, fmt.Errorf("reading timeline of %s: %w", userID, err)
	}
	return s.render(ctx, key, ids)
}

// GetGlobalTimeline returns the global timeline, newest first.
func (s *Store) GetGlobalTimeline(ctx context.Context) ([]RenderedPost, error) {
	ids, err := s.kv.LRange(ctx, keyGlobalTimeline, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("reading global timeline: %w", err)
	}
	return s.render(ctx, keyGlobalTimeline, ids)
}

// GetPost looks a post up by id. An unknown id is common.ErrorNotFound; a
// post whose author has no record is an integrity fault.
func (s *Store) GetPost(ctx context.Context, postID string) (*RenderedPost, error) {
	return s.resolve(ctx, "", postID)
}

func (s *Store) render(ctx context.Context, ref string, ids []string) ([]RenderedPost, error) {
	posts := make([]RenderedPost, 0, len(ids))
	for _, id := range ids {
		p, err := s.resolve(ctx, ref, id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, nil
}

// resolve reads post:<id> and its author's name. ref names the list the id
// came from; when it is set a missing post is an integrity fault rather than
// a not-found.
func (s *Store) resolve(ctx context.Context, ref, postID string) (*RenderedPost, error) {
	fields, err := s.kv.HGetAll(ctx, postKey(postID))
	if err != nil {
		return nil, fmt.Errorf("reading post %s: %w", postID, err)
	}
	if len(fields) == 0 {
		if ref == "" {
			return nil, common.ErrorNotFound
		}
		return nil, s.integrityFault(ctx, "post", postID, ref, nil)
	}
	if ref == "" {
		ref = postKey(postID)
	}

	t, err := timex.ParseUnixMillis(fields[fieldTime])
	if err != nil {
		return nil, s.integrityFault(ctx, "post", postID, ref, fmt.Errorf("bad time %q", fields[fieldTime]))
	}

	userID := fields[fieldUserID]
	name, err := s.GetUserName(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, s.integrityFault(ctx, "user", userID, postKey(postID), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading author of post %s: %w", postID, err)
	}

	return &RenderedPost{
		PostID:   postID,
		UserID:   userID,
		UserName: name,
		Body:     fields[fieldBody],
		Time:     t,
	}, nil
}
