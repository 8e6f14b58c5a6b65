package rpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/microblog/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code maps a domain error onto a gRPC status code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, common.ErrIntegrity):
		return codes.DataLoss
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrInvalidArgument):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrBackendUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	}
	return codes.Internal
}

// Status converts err to a gRPC status error. Errors that already carry a
// status are returned unchanged; internal errors hide their text.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := Code(err)
	if code == codes.Internal {
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return status.Error(code, err.Error())
}

// FromStatus turns a status error received by a client back into an error
// matching the domain sentinels under errors.Is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var sentinel error
	switch st.Code() {
	case codes.NotFound:
		sentinel = common.ErrorNotFound
	case codes.DataLoss:
		sentinel = common.ErrIntegrity
	case codes.AlreadyExists:
		sentinel = common.ErrConflict
	case codes.InvalidArgument:
		sentinel = common.ErrInvalidArgument
	case codes.Unavailable:
		sentinel = common.ErrBackendUnavailable
	case codes.Internal:
		sentinel = common.ErrorInternal
	default:
		return err
	}
	return &statusError{sentinel: sentinel, msg: st.Message()}
}

type statusError struct {
	sentinel error
	msg      string
}

func (e *statusError) Error() string { return e.msg }

func (e *statusError) Unwrap() error { return e.sentinel }
