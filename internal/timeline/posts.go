package timeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/dmitrijs2005/microblog/internal/timex"
)

// CreatePost stores a post by userID and pushes its id onto the timeline of
// the author, of every current follower and onto the global timeline, which
// is then cut back to GlobalTimelineSize.
//
// The follower set is read once; an edge added while the post is being
// written may or may not receive it. Without Options.Transactional a failed
// push leaves the timelines already written in place.
func (s *Store) CreatePost(ctx context.Context, userID, body string) (*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	n, err := s.kv.Incr(ctx, keyPostCounter)
	if err != nil {
		return nil, fmt.Errorf("allocating post id: %w", err)
	}
	post := &Post{
		ID:     strconv.FormatInt(n, 10),
		UserID: userID,
		Body:   body,
		Time:   s.now(),
	}
	fields := map[string]string{
		fieldBody:   post.Body,
		fieldUserID: post.UserID,
		fieldTime:   timex.UnixMillis(post.Time),
	}

	if s.opts.Transactional {
		recipients, err := s.recipients(ctx, userID)
		if err != nil {
			return nil, err
		}
		err = s.kv.Batch(ctx, func(w kv.Writer) error {
			if err := w.HSet(ctx, postKey(post.ID), fields); err != nil {
				return err
			}
			return s.fanout(ctx, w, post.ID, recipients)
		})
		if err != nil {
			s.obs.FanoutFailed()
			return nil, fmt.Errorf("writing post %s: %w", post.ID, err)
		}
		s.postCreated(ctx, post, len(recipients))
		return post, nil
	}

	if err := s.kv.HSet(ctx, postKey(post.ID), fields); err != nil {
		return nil, fmt.Errorf("storing post %s: %w", post.ID, err)
	}
	recipients, err := s.recipients(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.fanout(ctx, s.kv, post.ID, recipients); err != nil {
		s.obs.FanoutFailed()
		s.logger.Error(ctx, "fan-out interrupted", "post_id", post.ID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("fan-out of post %s: %w", post.ID, err)
	}
	s.postCreated(ctx, post, len(recipients))
	return post, nil
}

// recipients is the follower snapshot of userID plus userID itself.
func (s *Store) recipients(ctx context.Context, userID string) ([]string, error) {
	followers, err := s.kv.ZRange(ctx, followersKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("reading followers of %s: %w", userID, err)
	}
	for _, f := range followers {
		if f == userID {
			return followers, nil
		}
	}
	return append(followers, userID), nil
}

func (s *Store) fanout(ctx context.Context, w kv.Writer, postID string, recipients []string) error {
	for _, r := range recipients {
		if err := w.LPush(ctx, postsKey(r), postID); err != nil {
			return err
		}
	}
	if err := w.LPush(ctx, keyGlobalTimeline, postID); err != nil {
		return err
	}
	return w.LTrim(ctx, keyGlobalTimeline, 0, GlobalTimelineSize-1)
}

func (s *Store) postCreated(ctx context.Context, post *Post, fanout int) {
	s.obs.PostCreated(fanout)
	s.logger.Debug(ctx, "post created", "post_id", post.ID, "user_id", post.UserID, "fanout", fanout)
}
