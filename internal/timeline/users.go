package timeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv"
)

// CreateUser registers userName under a fresh id and indexes the name.
// Registering a name twice yields two ids and the index points at the
// newer one, unless Options.UniqueUserNames is set.
func (s *Store) CreateUser(ctx context.Context, userName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx = context.WithoutCancel(ctx)

	if s.opts.UniqueUserNames {
		_, err := s.kv.HGet(ctx, keyUserIndex, userName)
		if err == nil {
			return "", fmt.Errorf("user name %q: %w", userName, common.ErrConflict)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("checking user name: %w", err)
		}
	}

	n, err := s.kv.Incr(ctx, keyUserCounter)
	if err != nil {
		return "", fmt.Errorf("allocating user id: %w", err)
	}
	id := strconv.FormatInt(n, 10)

	err = s.write(ctx, func(w kv.Writer) error {
		if err := w.HSet(ctx, userKey(id), map[string]string{fieldUserName: userName}); err != nil {
			return err
		}
		return w.HSet(ctx, keyUserIndex, map[string]string{userName: id})
	})
	if err != nil {
		return "", fmt.Errorf("storing user %s: %w", id, err)
	}

	s.obs.UserCreated()
	s.logger.Debug(ctx, "user created", "user_id", id, "user_name", userName)
	return id, nil
}

// ResolveUserID looks a user name up in the index. An unknown name returns
// common.ErrorNotFound.
func (s *Store) ResolveUserID(ctx context.Context, userName string) (string, error) {
	id, err := s.kv.HGet(ctx, keyUserIndex, userName)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetUserName returns common.ErrorNotFound for an unknown id.
func (s *Store) GetUserName(ctx context.Context, userID string) (string, error) {
	name, err := s.kv.HGet(ctx, userKey(userID), fieldUserName)
	if err != nil {
		return "", err
	}
	return name, nil
}

// RequireUsers checks that every id has a user record. Callers outside the
// store use it before Follow and CreatePost: both write ids into the graph
// and timelines unchecked, and a post by an unknown author fails every
// later read of the lists it was pushed to.
func (s *Store) RequireUsers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		_, err := s.GetUserName(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("unknown user %s: %w", id, common.ErrorNotFound)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Users resolves ids taken from the follow graph. An id without a user
// record is an integrity fault.
func (s *Store) Users(ctx context.Context, ref string, ids []string) ([]User, error) {
	users := make([]User, 0, len(ids))
	for _, id := range ids {
		name, err := s.GetUserName(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.integrityFault(ctx, "user", id, ref, nil)
		}
		if err != nil {
			return nil, err
		}
		users = append(users, User{ID: id, Name: name})
	}
	return users, nil
}

func (s *Store) integrityFault(ctx context.Context, kind, id, ref string, cause error) error {
	s.obs.IntegrityFault(kind)
	s.logger.Warn(ctx, "dangling reference", "kind", kind, "id", id, "ref", ref)
	return &IntegrityError{Kind: kind, ID: id, Ref: ref, Err: cause}
}
