package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/common"
)

// Default window of the timeline command.
const (
	defaultStart = 0
	defaultCount = 10
)

// report prints err for the user and returns it.
func report(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		printlnFn("Not found")
	case errors.Is(err, common.ErrConflict):
		printlnFn("User name already taken")
	case errors.Is(err, common.ErrBackendUnavailable):
		printlnFn("Server storage is unavailable, try again later")
	case errors.Is(err, common.ErrorInternal):
		printlnFn("Server error, try again later")
	default:
		printlnFn("Error:", err)
	}
	return err
}

func usage(text string) error {
	printlnFn("Usage: " + text)
	return common.ErrInvalidArgument
}

func (a *App) Register(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("register <name>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.service.Register(ctx, args[0])
	if err != nil {
		return report(err)
	}
	a.userID, a.userName = id, args[0]
	printlnFn("Registered " + args[0] + " with id " + id)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("login <name>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.service.ResolveUserID(ctx, args[0])
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("Unknown user " + args[0])
		return err
	}
	if err != nil {
		return report(err)
	}
	a.userID, a.userName = id, args[0]
	printlnFn("Logged in as " + args[0])
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.userID, a.userName = "", ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Post(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("post <text>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.service.CreatePost(ctx, a.userID, strings.Join(args, " "))
	if err != nil {
		return report(err)
	}
	printlnFn("Posted #" + p.PostID)
	return nil
}

func (a *App) Follow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("follow <name>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	target, err := a.service.ResolveUserID(ctx, args[0])
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("Unknown user " + args[0])
		return err
	}
	if err != nil {
		return report(err)
	}
	if err := a.service.Follow(ctx, a.userID, target); err != nil {
		return report(err)
	}
	printlnFn("Following " + args[0])
	return nil
}

func (a *App) Timeline(ctx context.Context, args []string) error {
	start, count := int64(defaultStart), int64(defaultCount)
	switch len(args) {
	case 0:
	case 2:
		var err1, err2 error
		start, err1 = strconv.ParseInt(args[0], 10, 64)
		count, err2 = strconv.ParseInt(args[1], 10, 64)
		if err1 != nil || err2 != nil {
			return usage("timeline [start count]")
		}
	default:
		return usage("timeline [start count]")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.service.UserTimeline(ctx, a.userID, start, count)
	if err != nil {
		return report(err)
	}
	printPosts(posts)
	return nil
}

func (a *App) Global(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.service.GlobalTimeline(ctx)
	if err != nil {
		return report(err)
	}
	printPosts(posts)
	return nil
}

func (a *App) Common(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("common <name>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	other, err := a.service.ResolveUserID(ctx, args[0])
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("Unknown user " + args[0])
		return err
	}
	if err != nil {
		return report(err)
	}

	users, err := a.service.CommonFollowers(ctx, a.userID, other)
	if err != nil {
		return report(err)
	}
	if len(users) == 0 {
		printlnFn("No hay seguidores en común")
		return nil
	}
	printlnFn("Seguidores en común")
	printUsers(users)
	return nil
}

func (a *App) Followers(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	users, err := a.service.Followers(ctx, a.userID)
	if err != nil {
		return report(err)
	}
	printUsers(users)
	return nil
}

func (a *App) Following(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	users, err := a.service.Following(ctx, a.userID)
	if err != nil {
		return report(err)
	}
	printUsers(users)
	return nil
}

// parseCount reads the optional count argument of archive and export.
// Zero lets the server pick its default.
func parseCount(args []string) (int64, bool) {
	switch len(args) {
	case 0:
		return 0, true
	case 1:
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (a *App) Archive(ctx context.Context, args []string) error {
	count, ok := parseCount(args)
	if !ok {
		return usage("archive [count]")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	key, url, err := a.service.Archive(ctx, a.userID, count)
	if err != nil {
		return report(err)
	}
	printlnFn("Archived as " + key)
	printlnFn(url)
	return nil
}

// Export archives the timeline and saves the snapshot locally through
// its presigned URL.
func (a *App) Export(ctx context.Context, args []string) error {
	count, ok := parseCount(args)
	if !ok {
		return usage("export [count]")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	key, url, err := a.service.Archive(ctx, a.userID, count)
	if err != nil {
		return report(err)
	}

	data, err := downloadFn(ctx, url)
	if err != nil {
		return report(err)
	}

	path, err := saveFn(exportDir, key, data)
	if err != nil {
		return report(err)
	}
	printlnFn("Saved " + path)
	return nil
}
