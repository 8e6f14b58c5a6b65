package client

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.MicroblogClient
}

// NewGRPCClient prepares a connection to endpointURL. The connection is
// established lazily on the first call. Extra dial options are appended
// to the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}

	return &GRPCClient{
		endpointURL: endpointURL,
		conn:        conn,
		client:      rpc.NewMicroblogClient(conn),
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Register(ctx context.Context, userName string) (string, error) {
	resp, err := c.client.CreateUser(ctx, &rpc.CreateUserRequest{UserName: userName})
	if err != nil {
		return "", rpc.FromStatus(err)
	}
	return resp.UserID, nil
}

func (c *GRPCClient) ResolveUserID(ctx context.Context, userName string) (string, error) {
	resp, err := c.client.ResolveUserID(ctx, &rpc.ResolveUserIDRequest{UserName: userName})
	if err != nil {
		return "", rpc.FromStatus(err)
	}
	return resp.UserID, nil
}

func (c *GRPCClient) Follow(ctx context.Context, userID, targetID string) error {
	_, err := c.client.Follow(ctx, &rpc.FollowRequest{UserID: userID, TargetID: targetID})
	return rpc.FromStatus(err)
}

func (c *GRPCClient) CreatePost(ctx context.Context, userID, body string) (*rpc.Post, error) {
	resp, err := c.client.CreatePost(ctx, &rpc.CreatePostRequest{UserID: userID, Body: body})
	if err != nil {
		return nil, rpc.FromStatus(err)
	}
	return resp.Post, nil
}

func (c *GRPCClient) UserTimeline(ctx context.Context, userID string, start, count int64) ([]*rpc.Post, error) {
	resp, err := c.client.GetUserTimeline(ctx, &rpc.GetUserTimelineRequest{UserID: userID, Start: start, Count: count})
	if err != nil {
		return nil, rpc.FromStatus(err)
	}
	return resp.Posts, nil
}

func (c *GRPCClient) GlobalTimeline(ctx context.Context) ([]*rpc.Post, error) {
	resp, err := c.client.GetGlobalTimeline(ctx, &rpc.GetGlobalTimelineRequest{})
	if err != nil {
		return nil, rpc.FromStatus(err)
	}
	return resp.Posts, nil
}

func (c *GRPCClient) CommonFollowers(ctx context.Context, a, b string) ([]*rpc.User, error) {
	resp, err := c.client.CommonFollowers(ctx, &rpc.CommonFollowersRequest{UserA: a, UserB: b})
	if err != nil {
		return nil, rpc.FromStatus(err)
	}
	return resp.Users, nil
}

func (c *GRPCClient) Followers(ctx context.Context, userID string) ([]*rpc.User, error) {
	resp, err := c.client.Followers(ctx, &rpc.UserRequest{UserID: userID})
	if err != nil {
		return nil, rpc.FromStatus(err)
	}
	return resp.Users, nil
}

func (c *GRPCClient) Following(ctx context.Context, userID string) ([]*rpc.User, error) {
	resp, err := c.client.Following(ctx, &rpc.UserRequest{UserID: userID})
	if err != nil {
		return nil, rpc.FromStatus(err)
	}
	return resp.Users, nil
}

func (c *GRPCClient) Archive(ctx context.Context, userID string, count int64) (string, string, error) {
	resp, err := c.client.ArchiveTimeline(ctx, &rpc.ArchiveTimelineRequest{UserID: userID, Count: count})
	if err != nil {
		return "", "", rpc.FromStatus(err)
	}
	return resp.Key, resp.URL, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	_, err := c.client.Ping(ctx, &rpc.PingRequest{})
	return rpc.FromStatus(err)
}
