package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/microblog/internal/client/client"
	"github.com/dmitrijs2005/microblog/internal/client/config"
	"github.com/dmitrijs2005/microblog/internal/filex"
	"github.com/dmitrijs2005/microblog/internal/netx"
	"golang.org/x/term"
)

// Test seams.
var (
	isTerminal = term.IsTerminal
	downloadFn = netx.DownloadPresignedURL
	saveFn     = filex.SaveToSubdDir
)

// exportDir is where export stores snapshots, relative to the working directory.
const exportDir = "archives"

type App struct {
	config   *config.Config
	service  client.Service
	userID   string
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient), nil
}

func newApp(c *config.Config, s client.Service) *App {
	return &App{config: c, service: s}
}

// Run reads commands from stdin until exit or EOF. The prompt is shown
// only when stdin is a terminal, so piped scripts produce clean output.
func (a *App) Run(ctx context.Context) {
	defer a.service.Close()

	printlnFn("Microblog console (type 'help' for commands)")
	a.checkServer(ctx)
	prompt := isTerminal(int(os.Stdin.Fd()))
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin), prompt)
}

// checkServer warns when the server does not answer; the console still
// starts since the connection is retried on every call.
func (a *App) checkServer(ctx context.Context) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.service.Ping(ctx); err != nil {
		printlnFn("Warning: server is not reachable:", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return "(" + a.userName + ")"
}

// withTimeout bounds the server calls of a single command.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
