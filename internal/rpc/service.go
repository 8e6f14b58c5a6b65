package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "microblog.Microblog"

const (
	MethodCreateUser        = "/" + ServiceName + "/CreateUser"
	MethodResolveUserID     = "/" + ServiceName + "/ResolveUserID"
	MethodGetUserName       = "/" + ServiceName + "/GetUserName"
	MethodFollow            = "/" + ServiceName + "/Follow"
	MethodCommonFollowers   = "/" + ServiceName + "/CommonFollowers"
	MethodFollowers         = "/" + ServiceName + "/Followers"
	MethodFollowing         = "/" + ServiceName + "/Following"
	MethodCreatePost        = "/" + ServiceName + "/CreatePost"
	MethodGetUserTimeline   = "/" + ServiceName + "/GetUserTimeline"
	MethodGetGlobalTimeline = "/" + ServiceName + "/GetGlobalTimeline"
	MethodGetPost           = "/" + ServiceName + "/GetPost"
	MethodPing              = "/" + ServiceName + "/Ping"
	MethodArchiveTimeline   = "/" + ServiceName + "/ArchiveTimeline"
)

// MicroblogServer is the server API for the Microblog service.
type MicroblogServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error)
	ResolveUserID(context.Context, *ResolveUserIDRequest) (*ResolveUserIDResponse, error)
	GetUserName(context.Context, *GetUserNameRequest) (*GetUserNameResponse, error)
	Follow(context.Context, *FollowRequest) (*FollowResponse, error)
	CommonFollowers(context.Context, *CommonFollowersRequest) (*UserListResponse, error)
	Followers(context.Context, *UserRequest) (*UserListResponse, error)
	Following(context.Context, *UserRequest) (*UserListResponse, error)
	CreatePost(context.Context, *CreatePostRequest) (*CreatePostResponse, error)
	GetUserTimeline(context.Context, *GetUserTimelineRequest) (*TimelineResponse, error)
	GetGlobalTimeline(context.Context, *GetGlobalTimelineRequest) (*TimelineResponse, error)
	GetPost(context.Context, *GetPostRequest) (*GetPostResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ArchiveTimeline(context.Context, *ArchiveTimelineRequest) (*ArchiveTimelineResponse, error)
}

// UnimplementedMicroblogServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible with new methods.
type UnimplementedMicroblogServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedMicroblogServer) CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error) {
	return nil, unimplemented("CreateUser")
}
func (UnimplementedMicroblogServer) ResolveUserID(context.Context, *ResolveUserIDRequest) (*ResolveUserIDResponse, error) {
	return nil, unimplemented("ResolveUserID")
}
func (UnimplementedMicroblogServer) GetUserName(context.Context, *GetUserNameRequest) (*GetUserNameResponse, error) {
	return nil, unimplemented("GetUserName")
}
func (UnimplementedMicroblogServer) Follow(context.Context, *FollowRequest) (*FollowResponse, error) {
	return nil, unimplemented("Follow")
}
func (UnimplementedMicroblogServer) CommonFollowers(context.Context, *CommonFollowersRequest) (*UserListResponse, error) {
	return nil, unimplemented("CommonFollowers")
}
func (UnimplementedMicroblogServer) Followers(context.Context, *UserRequest) (*UserListResponse, error) {
	return nil, unimplemented("Followers")
}
func (UnimplementedMicroblogServer) Following(context.Context, *UserRequest) (*UserListResponse, error) {
	return nil, unimplemented("Following")
}
func (UnimplementedMicroblogServer) CreatePost(context.Context, *CreatePostRequest) (*CreatePostResponse, error) {
	return nil, unimplemented("CreatePost")
}
func (UnimplementedMicroblogServer) GetUserTimeline(context.Context, *GetUserTimelineRequest) (*TimelineResponse, error) {
	return nil, unimplemented("GetUserTimeline")
}
func (UnimplementedMicroblogServer) GetGlobalTimeline(context.Context, *GetGlobalTimelineRequest) (*TimelineResponse, error) {
	return nil, unimplemented("GetGlobalTimeline")
}
func (UnimplementedMicroblogServer) GetPost(context.Context, *GetPostRequest) (*GetPostResponse, error) {
	return nil, unimplemented("GetPost")
}
func (UnimplementedMicroblogServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedMicroblogServer) ArchiveTimeline(context.Context, *ArchiveTimelineRequest) (*ArchiveTimelineResponse, error) {
	return nil, unimplemented("ArchiveTimeline")
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(MicroblogServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MicroblogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MicroblogServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Microblog service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MicroblogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUser", Handler: unary(MethodCreateUser, MicroblogServer.CreateUser)},
		{MethodName: "ResolveUserID", Handler: unary(MethodResolveUserID, MicroblogServer.ResolveUserID)},
		{MethodName: "GetUserName", Handler: unary(MethodGetUserName, MicroblogServer.GetUserName)},
		{MethodName: "Follow", Handler: unary(MethodFollow, MicroblogServer.Follow)},
		{MethodName: "CommonFollowers", Handler: unary(MethodCommonFollowers, MicroblogServer.CommonFollowers)},
		{MethodName: "Followers", Handler: unary(MethodFollowers, MicroblogServer.Followers)},
		{MethodName: "Following", Handler: unary(MethodFollowing, MicroblogServer.Following)},
		{MethodName: "CreatePost", Handler: unary(MethodCreatePost, MicroblogServer.CreatePost)},
		{MethodName: "GetUserTimeline", Handler: unary(MethodGetUserTimeline, MicroblogServer.GetUserTimeline)},
		{MethodName: "GetGlobalTimeline", Handler: unary(MethodGetGlobalTimeline, MicroblogServer.GetGlobalTimeline)},
		{MethodName: "GetPost", Handler: unary(MethodGetPost, MicroblogServer.GetPost)},
		{MethodName: "Ping", Handler: unary(MethodPing, MicroblogServer.Ping)},
		{MethodName: "ArchiveTimeline", Handler: unary(MethodArchiveTimeline, MicroblogServer.ArchiveTimeline)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "microblog.proto",
}

func RegisterMicroblogServer(s grpc.ServiceRegistrar, srv MicroblogServer) {
	s.RegisterService(&ServiceDesc, srv)
}
