// Package client is the console client's view of the microblog server: a
// Service interface and its gRPC implementation. Errors returned by the
// server are mapped back to the common sentinels, so callers can match
// them with errors.Is.
package client

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/rpc"
)

// Service is what the console needs from the server.
type Service interface {
	Register(ctx context.Context, userName string) (string, error)
	ResolveUserID(ctx context.Context, userName string) (string, error)
	Follow(ctx context.Context, userID, targetID string) error
	CreatePost(ctx context.Context, userID, body string) (*rpc.Post, error)
	UserTimeline(ctx context.Context, userID string, start, count int64) ([]*rpc.Post, error)
	GlobalTimeline(ctx context.Context) ([]*rpc.Post, error)
	CommonFollowers(ctx context.Context, a, b string) ([]*rpc.User, error)
	Followers(ctx context.Context, userID string) ([]*rpc.User, error)
	Following(ctx context.Context, userID string) ([]*rpc.User, error)
	Archive(ctx context.Context, userID string, count int64) (key, url string, err error)
	Ping(ctx context.Context) error
	Close() error
}
