// Package grpc serves the Microblog gRPC service on top of a timeline.Store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/rpc"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Archiver stores timeline snapshots; see the archive package.
type Archiver interface {
	Archive(ctx context.Context, userID string, posts []timeline.RenderedPost) (key, url string, err error)
}

// RequestObserver records per-request timings.
type RequestObserver interface {
	ObserveRequest(transport, method, code string, d time.Duration)
}

// Options carries the optional collaborators of GRPCServer.
type Options struct {
	Archiver       Archiver
	Metrics        RequestObserver
	RequestTimeout time.Duration
}

type GRPCServer struct {
	rpc.UnimplementedMicroblogServer
	address  string
	store    *timeline.Store
	archiver Archiver
	metrics  RequestObserver
	timeout  time.Duration
	logger   logging.Logger
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, store *timeline.Store, opts Options) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		archiver: opts.Archiver,
		metrics:  opts.Metrics,
		timeout:  opts.RequestTimeout,
		health:   health.NewServer(),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then drains in-flight
// calls.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.timeoutInterceptor,
		s.errorInterceptor,
	))

	rpc.RegisterMicroblogServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
