package grpc

import (
	"context"
	"errors"
	"math"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/kv/memory"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/rpc"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeArchiver struct {
	userID string
	posts  []timeline.RenderedPost
	err    error
}

func (f *fakeArchiver) Archive(ctx context.Context, userID string, posts []timeline.RenderedPost) (string, string, error) {
	f.userID = userID
	f.posts = posts
	if f.err != nil {
		return "", "", f.err
	}
	return "timelines/" + userID + "/x.json", "http://signed", nil
}

type recordingMetrics struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingMetrics) ObserveRequest(transport, method, code string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, transport+" "+method+" "+code)
}

type harness struct {
	client   rpc.MicroblogClient
	conn     *grpc.ClientConn
	backend  *memory.Store
	archiver *fakeArchiver
	metrics  *recordingMetrics
}

func startServer(t *testing.T, opts Options) *harness {
	t.Helper()

	backend := memory.New()
	store := timeline.New(backend, logging.NewNopLogger(), timeline.Options{})
	if opts.Metrics == nil {
		opts.Metrics = &recordingMetrics{}
	}
	srv := NewGRPCServer("bufnet", logging.NewNopLogger(), store, opts)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after context cancel")
		}
	})

	h := &harness{client: rpc.NewMicroblogClient(conn), conn: conn, backend: backend}
	h.metrics, _ = opts.Metrics.(*recordingMetrics)
	h.archiver, _ = opts.Archiver.(*fakeArchiver)
	return h
}

func TestScenario_OverGRPC(t *testing.T) {
	h := startServer(t, Options{})
	ctx := context.Background()

	alice, err := h.client.CreateUser(ctx, &rpc.CreateUserRequest{UserName: "alice"})
	require.NoError(t, err)
	bob, err := h.client.CreateUser(ctx, &rpc.CreateUserRequest{UserName: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "1", alice.UserID)
	assert.Equal(t, "2", bob.UserID)

	_, err = h.client.Follow(ctx, &rpc.FollowRequest{UserID: bob.UserID, TargetID: alice.UserID})
	require.NoError(t, err)

	created, err := h.client.CreatePost(ctx, &rpc.CreatePostRequest{UserID: alice.UserID, Body: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.Post.PostID)
	require.NotNil(t, created.Post.Time)

	for _, id := range []string{alice.UserID, bob.UserID} {
		tl, err := h.client.GetUserTimeline(ctx, &rpc.GetUserTimelineRequest{UserID: id, Start: 0, Count: 0})
		require.NoError(t, err)
		require.Len(t, tl.Posts, 1)
		assert.Equal(t, "hello world", tl.Posts[0].Body)
		assert.Equal(t, "alice", tl.Posts[0].UserName)
		assert.True(t, tl.Posts[0].Time.AsTime().Equal(created.Post.Time.AsTime()))
	}

	global, err := h.client.GetGlobalTimeline(ctx, &rpc.GetGlobalTimelineRequest{})
	require.NoError(t, err)
	assert.Len(t, global.Posts, 1)

	followers, err := h.client.Followers(ctx, &rpc.UserRequest{UserID: alice.UserID})
	require.NoError(t, err)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, "bob", followers.Users[0].Name)

	following, err := h.client.Following(ctx, &rpc.UserRequest{UserID: bob.UserID})
	require.NoError(t, err)
	require.Len(t, following.Users, 1)
	assert.Equal(t, "alice", following.Users[0].Name)

	mutual, err := h.client.CommonFollowers(ctx, &rpc.CommonFollowersRequest{UserA: alice.UserID, UserB: bob.UserID})
	require.NoError(t, err)
	assert.Empty(t, mutual.Users)

	resolved, err := h.client.ResolveUserID(ctx, &rpc.ResolveUserIDRequest{UserName: "bob"})
	require.NoError(t, err)
	assert.Equal(t, bob.UserID, resolved.UserID)

	name, err := h.client.GetUserName(ctx, &rpc.GetUserNameRequest{UserID: alice.UserID})
	require.NoError(t, err)
	assert.Equal(t, "alice", name.UserName)

	post, err := h.client.GetPost(ctx, &rpc.GetPostRequest{PostID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", post.Post.UserName)

	pong, err := h.client.Ping(ctx, &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)
}

func TestErrorMapping(t *testing.T) {
	h := startServer(t, Options{})
	ctx := context.Background()

	_, err := h.client.ResolveUserID(ctx, &rpc.ResolveUserIDRequest{UserName: "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.True(t, errors.Is(rpc.FromStatus(err), common.ErrorNotFound))

	_, err = h.client.CreateUser(ctx, &rpc.CreateUserRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.GetUserTimeline(ctx, &rpc.GetUserTimelineRequest{UserID: "1", Start: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.GetUserTimeline(ctx, &rpc.GetUserTimelineRequest{UserID: "1", Start: 1, Count: math.MaxInt64})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// a timeline entry with no post hash behind it
	require.NoError(t, h.backend.LPush(ctx, "posts:1", "404"))
	_, err = h.client.GetUserTimeline(ctx, &rpc.GetUserTimelineRequest{UserID: "1", Count: 5})
	assert.Equal(t, codes.DataLoss, status.Code(err))

	require.NoError(t, h.backend.Close())
	_, err = h.client.Ping(ctx, &rpc.PingRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestWritesRejectUnknownUsers(t *testing.T) {
	h := startServer(t, Options{})
	ctx := context.Background()

	alice, err := h.client.CreateUser(ctx, &rpc.CreateUserRequest{UserName: "alice"})
	require.NoError(t, err)

	_, err = h.client.CreatePost(ctx, &rpc.CreatePostRequest{UserID: "999", Body: "spoof"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.client.Follow(ctx, &rpc.FollowRequest{UserID: alice.UserID, TargetID: "999"})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = h.client.Follow(ctx, &rpc.FollowRequest{UserID: "999", TargetID: alice.UserID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	global, err := h.client.GetGlobalTimeline(ctx, &rpc.GetGlobalTimelineRequest{})
	require.NoError(t, err)
	assert.Empty(t, global.Posts)

	followers, err := h.client.Followers(ctx, &rpc.UserRequest{UserID: "999"})
	require.NoError(t, err)
	assert.Empty(t, followers.Users)
}

func TestArchiveTimeline(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := startServer(t, Options{})
		_, err := h.client.ArchiveTimeline(context.Background(), &rpc.ArchiveTimelineRequest{UserID: "1"})
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("uploads timeline", func(t *testing.T) {
		h := startServer(t, Options{Archiver: &fakeArchiver{}})
		ctx := context.Background()
		u, err := h.client.CreateUser(ctx, &rpc.CreateUserRequest{UserName: "alice"})
		require.NoError(t, err)
		for _, body := range []string{"a", "b", "c"} {
			_, err := h.client.CreatePost(ctx, &rpc.CreatePostRequest{UserID: u.UserID, Body: body})
			require.NoError(t, err)
		}

		resp, err := h.client.ArchiveTimeline(ctx, &rpc.ArchiveTimelineRequest{UserID: u.UserID})
		require.NoError(t, err)
		assert.Equal(t, "timelines/1/x.json", resp.Key)
		assert.Equal(t, "http://signed", resp.URL)
		assert.Equal(t, u.UserID, h.archiver.userID)
		assert.Len(t, h.archiver.posts, 3)

		_, err = h.client.ArchiveTimeline(ctx, &rpc.ArchiveTimelineRequest{UserID: u.UserID, Count: 2})
		require.NoError(t, err)
		require.Len(t, h.archiver.posts, 2)
		assert.Equal(t, "c", h.archiver.posts[0].Body)
		assert.Equal(t, "b", h.archiver.posts[1].Body)
	})

	t.Run("archiver failure", func(t *testing.T) {
		h := startServer(t, Options{Archiver: &fakeArchiver{err: errors.New("s3 down")}})
		_, err := h.client.ArchiveTimeline(context.Background(), &rpc.ArchiveTimelineRequest{UserID: "1"})
		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Equal(t, "internal error", status.Convert(err).Message())
	})
}

func TestHealthService(t *testing.T) {
	h := startServer(t, Options{})
	resp, err := healthpb.NewHealthClient(h.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestMetricsObserved(t *testing.T) {
	h := startServer(t, Options{})
	_, _ = h.client.Ping(context.Background(), &rpc.PingRequest{})
	_, _ = h.client.GetUserName(context.Background(), &rpc.GetUserNameRequest{UserID: "9"})

	h.metrics.mu.Lock()
	defer h.metrics.mu.Unlock()
	assert.Equal(t, []string{"grpc Ping OK", "grpc GetUserName NotFound"}, h.metrics.calls)
}

func TestTimeoutInterceptor(t *testing.T) {
	s := NewGRPCServer("", logging.NewNopLogger(), nil, Options{RequestTimeout: time.Second})
	info := &grpc.UnaryServerInfo{FullMethod: rpc.MethodPing}

	_, err := s.timeoutInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
		return nil, nil
	})
	require.NoError(t, err)

	s.timeout = 0
	_, err = s.timeoutInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		_, ok := ctx.Deadline()
		assert.False(t, ok)
		return nil, nil
	})
	require.NoError(t, err)
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", logging.NewNopLogger(), nil, Options{})
	assert.Error(t, srv.Run(context.Background()))
}
