package grpc

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/rpc"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// defaultArchiveCount applies when ArchiveTimeline is called with Count 0.
const defaultArchiveCount = 100

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", common.ErrInvalidArgument, field)
	}
	return nil
}

func toPost(p timeline.RenderedPost) *rpc.Post {
	return &rpc.Post{
		PostID:   p.PostID,
		UserID:   p.UserID,
		UserName: p.UserName,
		Body:     p.Body,
		Time:     timestamppb.New(p.Time),
	}
}

func toPosts(posts []timeline.RenderedPost) []*rpc.Post {
	out := make([]*rpc.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPost(p))
	}
	return out
}

func toUsers(users []timeline.User) []*rpc.User {
	out := make([]*rpc.User, 0, len(users))
	for _, u := range users {
		out = append(out, &rpc.User{ID: u.ID, Name: u.Name})
	}
	return out
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*rpc.CreateUserResponse, error) {
	if err := required("userName", req.UserName); err != nil {
		return nil, err
	}

	id, err := s.store.CreateUser(ctx, req.UserName)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered", "user_name", req.UserName, "user_id", id)
	return &rpc.CreateUserResponse{UserID: id}, nil
}

func (s *GRPCServer) ResolveUserID(ctx context.Context, req *rpc.ResolveUserIDRequest) (*rpc.ResolveUserIDResponse, error) {
	id, err := s.store.ResolveUserID(ctx, req.UserName)
	if err != nil {
		return nil, err
	}
	return &rpc.ResolveUserIDResponse{UserID: id}, nil
}

func (s *GRPCServer) GetUserName(ctx context.Context, req *rpc.GetUserNameRequest) (*rpc.GetUserNameResponse, error) {
	name, err := s.store.GetUserName(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &rpc.GetUserNameResponse{UserName: name}, nil
}

func (s *GRPCServer) Follow(ctx context.Context, req *rpc.FollowRequest) (*rpc.FollowResponse, error) {
	if err := required("userId", req.UserID); err != nil {
		return nil, err
	}
	if err := required("targetId", req.TargetID); err != nil {
		return nil, err
	}
	if err := s.store.RequireUsers(ctx, req.UserID, req.TargetID); err != nil {
		return nil, err
	}
	if err := s.store.Follow(ctx, req.UserID, req.TargetID); err != nil {
		return nil, err
	}
	return &rpc.FollowResponse{}, nil
}

func (s *GRPCServer) CommonFollowers(ctx context.Context, req *rpc.CommonFollowersRequest) (*rpc.UserListResponse, error) {
	ids, err := s.store.CommonFollowers(ctx, req.UserA, req.UserB)
	if err != nil {
		return nil, err
	}
	return s.userList(ctx, "common followers of "+req.UserA+" and "+req.UserB, ids)
}

func (s *GRPCServer) Followers(ctx context.Context, req *rpc.UserRequest) (*rpc.UserListResponse, error) {
	ids, err := s.store.Followers(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return s.userList(ctx, "followers:"+req.UserID, ids)
}

func (s *GRPCServer) Following(ctx context.Context, req *rpc.UserRequest) (*rpc.UserListResponse, error) {
	ids, err := s.store.Following(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return s.userList(ctx, "followed:"+req.UserID, ids)
}

func (s *GRPCServer) userList(ctx context.Context, ref string, ids []string) (*rpc.UserListResponse, error) {
	users, err := s.store.Users(ctx, ref, ids)
	if err != nil {
		return nil, err
	}
	return &rpc.UserListResponse{Users: toUsers(users)}, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, req *rpc.CreatePostRequest) (*rpc.CreatePostResponse, error) {
	if err := required("userId", req.UserID); err != nil {
		return nil, err
	}

	if err := s.store.RequireUsers(ctx, req.UserID); err != nil {
		return nil, err
	}

	p, err := s.store.CreatePost(ctx, req.UserID, req.Body)
	if err != nil {
		return nil, err
	}

	return &rpc.CreatePostResponse{Post: &rpc.Post{
		PostID: p.ID,
		UserID: p.UserID,
		Body:   p.Body,
		Time:   timestamppb.New(p.Time),
	}}, nil
}

func (s *GRPCServer) GetUserTimeline(ctx context.Context, req *rpc.GetUserTimelineRequest) (*rpc.TimelineResponse, error) {
	posts, err := s.store.GetUserTimeline(ctx, req.UserID, req.Start, req.Count)
	if err != nil {
		return nil, err
	}
	return &rpc.TimelineResponse{Posts: toPosts(posts)}, nil
}

func (s *GRPCServer) GetGlobalTimeline(ctx context.Context, req *rpc.GetGlobalTimelineRequest) (*rpc.TimelineResponse, error) {
	posts, err := s.store.GetGlobalTimeline(ctx)
	if err != nil {
		return nil, err
	}
	return &rpc.TimelineResponse{Posts: toPosts(posts)}, nil
}

func (s *GRPCServer) GetPost(ctx context.Context, req *rpc.GetPostRequest) (*rpc.GetPostResponse, error) {
	p, err := s.store.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	return &rpc.GetPostResponse{Post: toPost(*p)}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, err
	}
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) ArchiveTimeline(ctx context.Context, req *rpc.ArchiveTimelineRequest) (*rpc.ArchiveTimelineResponse, error) {
	if s.archiver == nil {
		return nil, status.Error(codes.FailedPrecondition, "archive storage is not configured")
	}
	if err := required("userId", req.UserID); err != nil {
		return nil, err
	}

	count := req.Count
	if count <= 0 {
		count = defaultArchiveCount
	}
	// the inclusive range mode serves one post more than its count
	stop := count
	if s.store.Options().RangeMode == timeline.RangeInclusive {
		stop--
	}
	posts, err := s.store.GetUserTimeline(ctx, req.UserID, 0, stop)
	if err != nil {
		return nil, err
	}

	key, url, err := s.archiver.Archive(ctx, req.UserID, posts)
	if err != nil {
		return nil, err
	}
	return &rpc.ArchiveTimelineResponse{Key: key, URL: url}, nil
}
