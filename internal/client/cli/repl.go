package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Post(ctx context.Context, args []string) error
	Follow(ctx context.Context, args []string) error
	Timeline(ctx context.Context, args []string) error
	Global(ctx context.Context) error
	Common(ctx context.Context, args []string) error
	Followers(ctx context.Context) error
	Following(ctx context.Context) error
	Archive(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL reads a line from scanner, parses the first token as the command
// and dispatches the rest as arguments. It exits on EOF or on "exit" and
// "quit". When prompt is set, a prompt with the current status is printed
// before each line.
//
// Commands that need a session are refused until login or register
// succeeds. Errors are reported by the handlers; the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, prompt bool) {
	for {
		if prompt {
			printlnFn(fmt.Sprintf("mb%s> ", statusFn()))
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: post, follow, timeline [start count], global, common, followers, following, archive [count], export [count], logout, exit")
			} else {
				printlnFn("Available commands: register <name>, login <name>, global, exit")
			}

		case "register":
			_ = a.Register(ctx, args)

		case "login":
			_ = a.Login(ctx, args)

		case "global":
			_ = a.Global(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "post", "follow", "timeline", "common", "followers", "following", "archive", "export", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "post":
				_ = a.Post(ctx, args)
			case "follow":
				_ = a.Follow(ctx, args)
			case "timeline":
				_ = a.Timeline(ctx, args)
			case "common":
				_ = a.Common(ctx, args)
			case "followers":
				_ = a.Followers(ctx)
			case "following":
				_ = a.Following(ctx)
			case "archive":
				_ = a.Archive(ctx, args)
			case "export":
				_ = a.Export(ctx, args)
			case "logout":
				_ = a.Logout(ctx)
			}

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
