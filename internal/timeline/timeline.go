// Package timeline implements the microblog on top of a kv.Store: user
// registration, the follow graph, fan-out-on-write of new posts into
// follower timelines and the global timeline, and the read queries that
// resolve timelines into posts.
//
// Multi-step writes are sequences of individually atomic primitives. Unless
// Options.Transactional is set, a failure part way leaves the earlier steps
// applied; nothing repairs them later. Once a multi-step write has started it
// runs to completion regardless of context cancellation.
package timeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/google/uuid"
)

// GlobalTimelineSize bounds the global timeline.
const GlobalTimelineSize = 11

// Keyspace shared with existing deployments; must not change.
const (
	keyUserCounter    = "userId"
	keyPostCounter    = "post_id"
	keyUserIndex      = "users"
	keyGlobalTimeline = "timeline"

	prefixUser      = "users:"
	prefixPost      = "post:"
	prefixFollowed  = "followed:"
	prefixFollowers = "followers:"
	prefixPosts     = "posts:"
	prefixCommon    = "common:"

	fieldUserName = "userName"
	fieldBody     = "body"
	fieldUserID   = "userId"
	fieldTime     = "time"
)

func userKey(id string) string      { return prefixUser + id }
func postKey(id string) string      { return prefixPost + id }
func followedKey(id string) string  { return prefixFollowed + id }
func followersKey(id string) string { return prefixFollowers + id }
func postsKey(id string) string     { return prefixPosts + id }

// RangeMode selects how GetUserTimeline turns (start, count) into a list
// range.
type RangeMode int

const (
	// RangeInclusive reads [start, start+count], i.e. count+1 posts. This
	// is what existing clients expect.
	RangeInclusive RangeMode = iota
	// RangeHalfOpen reads [start, start+count), exactly count posts.
	RangeHalfOpen
)

func (m RangeMode) String() string {
	if m == RangeHalfOpen {
		return "half-open"
	}
	return "inclusive"
}

// ParseRangeMode accepts "inclusive" and "half-open".
func ParseRangeMode(s string) (RangeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inclusive":
		return RangeInclusive, nil
	case "half-open", "halfopen":
		return RangeHalfOpen, nil
	}
	return RangeInclusive, fmt.Errorf("%w: unknown range mode %q", common.ErrInvalidArgument, s)
}

// Observer receives counts of what the store does. The server plugs in
// Prometheus collectors.
type Observer interface {
	UserCreated()
	Followed()
	PostCreated(fanout int)
	FanoutFailed()
	IntegrityFault(kind string)
}

type nopObserver struct{}

func (nopObserver) UserCreated()          {}
func (nopObserver) Followed()             {}
func (nopObserver) PostCreated(int)       {}
func (nopObserver) FanoutFailed()         {}
func (nopObserver) IntegrityFault(string) {}

// Options tune the store. The zero value keeps the historical behaviour.
type Options struct {
	RangeMode RangeMode

	// UniqueUserNames rejects CreateUser for a name already in the index
	// with common.ErrConflict. The check and the write are separate steps,
	// so two concurrent registrations of one name can both succeed.
	UniqueUserNames bool

	// Transactional applies the writes of CreateUser, Follow and
	// CreatePost through kv.Store.Batch.
	Transactional bool

	Observer Observer

	// Now and TempKey are test seams.
	Now     func() time.Time
	TempKey func() string
}

// Store is the timeline store. It is safe for concurrent use; all
// coordination is left to the backend primitives.
type Store struct {
	kv      kv.Store
	logger  logging.Logger
	opts    Options
	obs     Observer
	now     func() time.Time
	tempKey func() string
}

func New(backend kv.Store, logger logging.Logger, opts Options) *Store {
	s := &Store{
		kv:      backend,
		logger:  logger.With("module", "timeline"),
		opts:    opts,
		obs:     opts.Observer,
		now:     opts.Now,
		tempKey: opts.TempKey,
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.tempKey == nil {
		s.tempKey = func() string { return prefixCommon + uuid.NewString() }
	}
	return s
}

// Options returns the options the store runs with.
func (s *Store) Options() Options {
	return s.opts
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// write runs fn either directly against the store or inside one Batch.
func (s *Store) write(ctx context.Context, fn func(w kv.Writer) error) error {
	if s.opts.Transactional {
		return s.kv.Batch(ctx, fn)
	}
	return fn(s.kv)
}
