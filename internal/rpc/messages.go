package rpc

import "google.golang.org/protobuf/types/known/timestamppb"

type User struct {
	ID   string `json:"id"`
	Name string `json:"userName"`
}

type Post struct {
	PostID   string                 `json:"postId"`
	UserID   string                 `json:"userId"`
	UserName string                 `json:"userName,omitempty"`
	Body     string                 `json:"body"`
	Time     *timestamppb.Timestamp `json:"time"`
}

type CreateUserRequest struct {
	UserName string `json:"userName"`
}

type CreateUserResponse struct {
	UserID string `json:"userId"`
}

type ResolveUserIDRequest struct {
	UserName string `json:"userName"`
}

type ResolveUserIDResponse struct {
	UserID string `json:"userId"`
}

type GetUserNameRequest struct {
	UserID string `json:"userId"`
}

type GetUserNameResponse struct {
	UserName string `json:"userName"`
}

type FollowRequest struct {
	UserID   string `json:"userId"`
	TargetID string `json:"targetId"`
}

type FollowResponse struct{}

type CommonFollowersRequest struct {
	UserA string `json:"userA"`
	UserB string `json:"userB"`
}

// UserRequest names a single user, for Followers and Following.
type UserRequest struct {
	UserID string `json:"userId"`
}

type UserListResponse struct {
	Users []*User `json:"users"`
}

type CreatePostRequest struct {
	UserID string `json:"userId"`
	Body   string `json:"body"`
}

type CreatePostResponse struct {
	Post *Post `json:"post"`
}

type GetUserTimelineRequest struct {
	UserID string `json:"userId"`
	Start  int64  `json:"start"`
	Count  int64  `json:"count"`
}

type GetGlobalTimelineRequest struct{}

type TimelineResponse struct {
	Posts []*Post `json:"posts"`
}

type GetPostRequest struct {
	PostID string `json:"postId"`
}

type GetPostResponse struct {
	Post *Post `json:"post"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// ArchiveTimelineRequest asks for a snapshot of the first Count posts of a
type ArchiveTimelineRequest struct {
	UserID string `json:"userId"`
	Count  int64  `json:"count"`
}

type ArchiveTimelineResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
