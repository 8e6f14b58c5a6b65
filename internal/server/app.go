// Package server wires the microblog server: it opens the configured
// key-value backend, builds the timeline store and runs the gRPC and HTTP
// transports until a signal or a transport failure stops them.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/dmitrijs2005/microblog/internal/kv/memory"
	"github.com/dmitrijs2005/microblog/internal/kv/postgres"
	kvredis "github.com/dmitrijs2005/microblog/internal/kv/redis"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/archive"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/httpapi"
	"github.com/dmitrijs2005/microblog/internal/server/metrics"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/microblog/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend kv.Store
	store   *timeline.Store
	metrics *metrics.Metrics
}

// openBackend connects to the store named by c.Backend.
func openBackend(ctx context.Context, c *config.Config) (kv.Store, error) {
	switch c.Backend {
	case "memory":
		return memory.New(), nil
	case "redis":
		s := kvredis.New(&redis.Options{
			Addr:     c.RedisAddress,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := postgres.Open(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := s.RunMigrations(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown backend %q", c.Backend)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	mode, err := timeline.ParseRangeMode(c.RangeMode)
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("backend init error: %w", err)
	}

	m := metrics.New()
	store := timeline.New(backend, logger, timeline.Options{
		RangeMode:       mode,
		UniqueUserNames: c.UniqueUserNames,
		Transactional:   c.Transactional,
		Observer:        m,
	})

	return &App{config: c, logger: logger, backend: backend, store: store, metrics: m}, nil
}

func (app *App) grpcServer() *gs.GRPCServer {
	opts := gs.Options{
		Metrics:        app.metrics,
		RequestTimeout: app.config.RequestTimeout,
	}
	if app.config.S3Bucket != "" {
		opts.Archiver = archive.New(archive.Config{
			User:         app.config.S3RootUser,
			Password:     app.config.S3RootPassword,
			Bucket:       app.config.S3Bucket,
			Region:       app.config.S3Region,
			BaseEndpoint: app.config.S3BaseEndpoint,
		}, app.logger)
	}
	return gs.NewGRPCServer(app.config.GRPCAddress, app.logger, app.store, opts)
}

// Run serves both transports until ctx is done, SIGINT or SIGTERM arrives,
// or one of them fails. The backend is closed before Run returns.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.Backend, "range_mode", app.store.Options().RangeMode.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.grpcServer().Run(gctx)
	})
	g.Go(func() error {
		return httpapi.New(app.config.HTTPAddress, app.logger, app.store, app.metrics).Run(gctx)
	})

	err := g.Wait()
	if cerr := app.backend.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("closing backend: %w", cerr))
	}
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}
