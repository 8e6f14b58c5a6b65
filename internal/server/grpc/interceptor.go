package grpc

import (
	"context"
	"path"
	"time"

	"github.com/dmitrijs2005/microblog/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	method := path.Base(info.FullMethod)
	code := status.Code(err)
	if s.metrics != nil {
		s.metrics.ObserveRequest("grpc", method, code.String(), elapsed)
	}

	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "request completed", "method", method, "duration", elapsed)
	case codes.Internal, codes.Unavailable, codes.DataLoss:
		s.logger.Error(ctx, "request failed", "method", method, "code", code.String(), "duration", elapsed, "error", err)
	default:
		s.logger.Info(ctx, "request rejected", "method", method, "code", code.String(), "duration", elapsed)
	}
	return resp, err
}

func (s *GRPCServer) timeoutInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.timeout <= 0 {
		return handler(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return handler(ctx, req)
}

// errorInterceptor turns domain errors returned by handlers into statuses.
func (s *GRPCServer) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		if rpc.Code(err) == codes.Internal {
			s.logger.Error(ctx, "internal error", "method", info.FullMethod, "error", err)
		}
		return nil, rpc.Status(err)
	}
	return resp, nil
}
