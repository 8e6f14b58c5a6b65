package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// MicroblogClient is the client API for the Microblog service.
type MicroblogClient interface {
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*CreateUserResponse, error)
	ResolveUserID(ctx context.Context, in *ResolveUserIDRequest, opts ...grpc.CallOption) (*ResolveUserIDResponse, error)
	GetUserName(ctx context.Context, in *GetUserNameRequest, opts ...grpc.CallOption) (*GetUserNameResponse, error)
	Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*FollowResponse, error)
	CommonFollowers(ctx context.Context, in *CommonFollowersRequest, opts ...grpc.CallOption) (*UserListResponse, error)
	Followers(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*UserListResponse, error)
	Following(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*UserListResponse, error)
	CreatePost(ctx context.Context, in *CreatePostRequest, opts ...grpc.CallOption) (*CreatePostResponse, error)
	GetUserTimeline(ctx context.Context, in *GetUserTimelineRequest, opts ...grpc.CallOption) (*TimelineResponse, error)
	GetGlobalTimeline(ctx context.Context, in *GetGlobalTimelineRequest, opts ...grpc.CallOption) (*TimelineResponse, error)
	GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	ArchiveTimeline(ctx context.Context, in *ArchiveTimelineRequest, opts ...grpc.CallOption) (*ArchiveTimelineResponse, error)
}

type microblogClient struct {
	cc grpc.ClientConnInterface
}

func NewMicroblogClient(cc grpc.ClientConnInterface) MicroblogClient {
	return &microblogClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(Codec)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *microblogClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*CreateUserResponse, error) {
	return invoke[CreateUserResponse](ctx, c.cc, MethodCreateUser, in, opts)
}

func (c *microblogClient) ResolveUserID(ctx context.Context, in *ResolveUserIDRequest, opts ...grpc.CallOption) (*ResolveUserIDResponse, error) {
	return invoke[ResolveUserIDResponse](ctx, c.cc, MethodResolveUserID, in, opts)
}

func (c *microblogClient) GetUserName(ctx context.Context, in *GetUserNameRequest, opts ...grpc.CallOption) (*GetUserNameResponse, error) {
	return invoke[GetUserNameResponse](ctx, c.cc, MethodGetUserName, in, opts)
}

func (c *microblogClient) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*FollowResponse, error) {
	return invoke[FollowResponse](ctx, c.cc, MethodFollow, in, opts)
}

func (c *microblogClient) CommonFollowers(ctx context.Context, in *CommonFollowersRequest, opts ...grpc.CallOption) (*UserListResponse, error) {
	return invoke[UserListResponse](ctx, c.cc, MethodCommonFollowers, in, opts)
}

func (c *microblogClient) Followers(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*UserListResponse, error) {
	return invoke[UserListResponse](ctx, c.cc, MethodFollowers, in, opts)
}

func (c *microblogClient) Following(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*UserListResponse, error) {
	return invoke[UserListResponse](ctx, c.cc, MethodFollowing, in, opts)
}

func (c *microblogClient) CreatePost(ctx context.Context, in *CreatePostRequest, opts ...grpc.CallOption) (*CreatePostResponse, error) {
	return invoke[CreatePostResponse](ctx, c.cc, MethodCreatePost, in, opts)
}

func (c *microblogClient) GetUserTimeline(ctx context.Context, in *GetUserTimelineRequest, opts ...grpc.CallOption) (*TimelineResponse, error) {
	return invoke[TimelineResponse](ctx, c.cc, MethodGetUserTimeline, in, opts)
}

func (c *microblogClient) GetGlobalTimeline(ctx context.Context, in *GetGlobalTimelineRequest, opts ...grpc.CallOption) (*TimelineResponse, error) {
	return invoke[TimelineResponse](ctx, c.cc, MethodGetGlobalTimeline, in, opts)
}

func (c *microblogClient) GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error) {
	return invoke[GetPostResponse](ctx, c.cc, MethodGetPost, in, opts)
}

func (c *microblogClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *microblogClient) ArchiveTimeline(ctx context.Context, in *ArchiveTimelineRequest, opts ...grpc.CallOption) (*ArchiveTimelineResponse, error) {
	return invoke[ArchiveTimelineResponse](ctx, c.cc, MethodArchiveTimeline, in, opts)
}
