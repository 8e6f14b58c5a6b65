package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/client/config"
	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type fakeService struct {
	ids       map[string]string
	posts     []*rpc.Post
	users     []*rpc.User
	err       error
	follows   [][2]string
	bodies    []string
	window    [2]int64
	archived  int64
	deadlines []bool
	closed    bool
}

func newFakeService() *fakeService {
	return &fakeService{ids: map[string]string{"alice": "1", "bob": "2"}}
}

func (f *fakeService) track(ctx context.Context) {
	_, ok := ctx.Deadline()
	f.deadlines = append(f.deadlines, ok)
}

func (f *fakeService) Register(ctx context.Context, name string) (string, error) {
	f.track(ctx)
	if f.err != nil {
		return "", f.err
	}
	id := fmt.Sprint(len(f.ids) + 1)
	f.ids[name] = id
	return id, nil
}

func (f *fakeService) ResolveUserID(ctx context.Context, name string) (string, error) {
	f.track(ctx)
	id, ok := f.ids[name]
	if !ok {
		return "", common.ErrorNotFound
	}
	return id, nil
}

func (f *fakeService) Follow(ctx context.Context, userID, targetID string) error {
	f.follows = append(f.follows, [2]string{userID, targetID})
	return f.err
}

func (f *fakeService) CreatePost(ctx context.Context, userID, body string) (*rpc.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bodies = append(f.bodies, body)
	return &rpc.Post{PostID: "7", UserID: userID, Body: body}, nil
}

func (f *fakeService) UserTimeline(ctx context.Context, userID string, start, count int64) ([]*rpc.Post, error) {
	f.window = [2]int64{start, count}
	return f.posts, f.err
}

func (f *fakeService) GlobalTimeline(ctx context.Context) ([]*rpc.Post, error) {
	return f.posts, f.err
}

func (f *fakeService) CommonFollowers(ctx context.Context, a, b string) ([]*rpc.User, error) {
	return f.users, f.err
}

func (f *fakeService) Followers(ctx context.Context, userID string) ([]*rpc.User, error) {
	return f.users, f.err
}

func (f *fakeService) Following(ctx context.Context, userID string) ([]*rpc.User, error) {
	return f.users, f.err
}

func (f *fakeService) Archive(ctx context.Context, userID string, count int64) (string, string, error) {
	f.archived = count
	if f.err != nil {
		return "", "", f.err
	}
	return "timelines/1/x.json", "http://s3/timelines/1/x.json", nil
}

func (f *fakeService) Ping(ctx context.Context) error { return f.err }
func (f *fakeService) Close() error                  { f.closed = true; return nil }

func newTestApp(s *fakeService) *App {
	return newApp(&config.Config{RequestTimeout: time.Second}, s)
}

func loggedIn(s *fakeService) *App {
	a := newTestApp(s)
	a.userID, a.userName = "1", "alice"
	return a
}

func TestRegisterStartsSession(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := newTestApp(s)

	require.NoError(t, a.Register(context.Background(), []string{"carol"}))

	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(carol)", a.getStatus())
	assert.Equal(t, []string{"Registered carol with id 3"}, *out)
	assert.Equal(t, []bool{true}, s.deadlines)
}

func TestRegisterConflict(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	s.err = common.ErrConflict
	a := newTestApp(s)

	err := a.Register(context.Background(), []string{"alice"})

	assert.ErrorIs(t, err, common.ErrConflict)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, []string{"User name already taken"}, *out)
}

func TestRegisterUsage(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(newFakeService())

	err := a.Register(context.Background(), nil)

	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.Equal(t, []string{"Usage: register <name>"}, *out)
}

func TestLogin(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(newFakeService())

	assert.ErrorIs(t, a.Login(context.Background(), []string{"nobody"}), common.ErrorNotFound)
	assert.False(t, a.isLoggedIn())

	require.NoError(t, a.Login(context.Background(), []string{"bob"}))
	assert.Equal(t, "2", a.userID)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())

	assert.Equal(t, []string{"Unknown user nobody", "Logged in as bob", "Logged out"}, *out)
}

func TestPostJoinsWords(t *testing.T) {
	captureOutput(t)
	s := newFakeService()
	a := loggedIn(s)

	require.NoError(t, a.Post(context.Background(), []string{"hello", "world"}))

	assert.Equal(t, []string{"hello world"}, s.bodies)
}

func TestFollowResolvesName(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := loggedIn(s)

	require.NoError(t, a.Follow(context.Background(), []string{"bob"}))
	assert.ErrorIs(t, a.Follow(context.Background(), []string{"zed"}), common.ErrorNotFound)

	assert.Equal(t, [][2]string{{"1", "2"}}, s.follows)
	assert.Equal(t, []string{"Following bob", "Unknown user zed"}, *out)
}

func TestTimelineRendersPosts(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	when := time.Date(2026, 3, 3, 10, 4, 5, 0, time.Local)
	s.posts = []*rpc.Post{{PostID: "1", UserName: "bob", Body: "hi", Time: timestamppb.New(when)}}
	a := loggedIn(s)

	require.NoError(t, a.Timeline(context.Background(), nil))

	assert.Equal(t, [2]int64{0, 10}, s.window)
	assert.Equal(t, []string{
		"Username: bob",
		"Body: hi",
		"Time: " + when.Format("Mon Jan 02 15:04:05 MST 2006"),
		"-------------------------",
	}, *out)
}

func TestTimelineWindowArgs(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := loggedIn(s)

	require.NoError(t, a.Timeline(context.Background(), []string{"5", "20"}))
	assert.Equal(t, [2]int64{5, 20}, s.window)

	assert.ErrorIs(t, a.Timeline(context.Background(), []string{"x", "1"}), common.ErrInvalidArgument)
	assert.ErrorIs(t, a.Timeline(context.Background(), []string{"1"}), common.ErrInvalidArgument)
	assert.Len(t, *out, 2)
}

func TestCommonBanner(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := loggedIn(s)

	require.NoError(t, a.Common(context.Background(), []string{"bob"}))

	s.users = []*rpc.User{{ID: "3", Name: "carol"}, {ID: "4", Name: "dave"}}
	require.NoError(t, a.Common(context.Background(), []string{"bob"}))

	assert.Equal(t, []string{
		"No hay seguidores en común",
		"Seguidores en común",
		"carol",
		"dave",
	}, *out)
}

func TestFollowersAndFollowing(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	s.users = []*rpc.User{{ID: "2", Name: "bob"}}
	a := loggedIn(s)

	require.NoError(t, a.Followers(context.Background()))
	require.NoError(t, a.Following(context.Background()))

	assert.Equal(t, []string{"bob", "bob"}, *out)
}

func TestArchive(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := loggedIn(s)

	require.NoError(t, a.Archive(context.Background(), []string{"25"}))
	assert.Equal(t, int64(25), s.archived)
	assert.Equal(t, []string{"Archived as timelines/1/x.json", "http://s3/timelines/1/x.json"}, *out)

	assert.ErrorIs(t, a.Archive(context.Background(), []string{"-1"}), common.ErrInvalidArgument)
}

func TestServerErrorsAreReported(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	s.err = common.ErrBackendUnavailable
	a := loggedIn(s)

	assert.ErrorIs(t, a.Global(context.Background()), common.ErrBackendUnavailable)

	s.err = common.ErrIntegrity
	assert.ErrorIs(t, a.Followers(context.Background()), common.ErrIntegrity)

	s.err = fmt.Errorf("rpc: %w", common.ErrorInternal)
	assert.ErrorIs(t, a.Following(context.Background()), common.ErrorInternal)

	assert.Equal(t, []string{
		"Server storage is unavailable, try again later",
		"Error: " + common.ErrIntegrity.Error(),
		"Server error, try again later",
	}, *out)
}

func TestWithTimeoutDisabled(t *testing.T) {
	a := newApp(&config.Config{}, newFakeService())

	ctx, cancel := a.withTimeout(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestExport(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := loggedIn(s)

	origDownload, origSave := downloadFn, saveFn
	t.Cleanup(func() { downloadFn, saveFn = origDownload, origSave })

	var gotURL, gotDir, gotName string
	downloadFn = func(ctx context.Context, url string) ([]byte, error) {
		gotURL = url
		return []byte(`{"posts":[]}`), nil
	}
	saveFn = func(dir, name string, data []byte) (string, error) {
		gotDir, gotName = dir, name
		return "/tmp/archives/x.json", nil
	}

	require.NoError(t, a.Export(context.Background(), nil))

	assert.Equal(t, int64(0), s.archived)
	assert.Equal(t, "http://s3/timelines/1/x.json", gotURL)
	assert.Equal(t, "archives", gotDir)
	assert.Equal(t, "timelines/1/x.json", gotName)
	assert.Equal(t, []string{"Saved /tmp/archives/x.json"}, *out)
}

func TestExportDownloadFails(t *testing.T) {
	out := captureOutput(t)
	a := loggedIn(newFakeService())

	origDownload := downloadFn
	t.Cleanup(func() { downloadFn = origDownload })
	downloadFn = func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("download failed: 403 Forbidden")
	}

	err := a.Export(context.Background(), []string{"5"})

	assert.Error(t, err)
	assert.Equal(t, []string{"Error: download failed: 403 Forbidden"}, *out)
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(&config.Config{ServerEndpointAddr: "127.0.0.1:50051", RequestTimeout: time.Second})
	require.NoError(t, err)
	assert.False(t, a.isLoggedIn())
	require.NoError(t, a.service.Close())
}

func TestCheckServer(t *testing.T) {
	out := captureOutput(t)
	s := newFakeService()
	a := newTestApp(s)

	a.checkServer(context.Background())
	assert.Empty(t, *out)

	s.err = common.ErrBackendUnavailable
	a.checkServer(context.Background())
	assert.Equal(t, []string{"Warning: server is not reachable: " + common.ErrBackendUnavailable.Error()}, *out)
}
