package rpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(Codec)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_PostTime(t *testing.T) {
	ts := time.UnixMilli(1700000000123).UTC()
	in := &CreatePostResponse{Post: &Post{PostID: "1", UserID: "2", Body: "hi", Time: timestamppb.New(ts)}}

	var c jsonCodec
	b, err := c.Marshal(in)
	require.NoError(t, err)

	out := &CreatePostResponse{}
	require.NoError(t, c.Unmarshal(b, out))
	assert.Equal(t, "hi", out.Post.Body)
	assert.True(t, out.Post.Time.AsTime().Equal(ts))
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{fmt.Errorf("x: %w", common.ErrorNotFound), codes.NotFound},
		{fmt.Errorf("x: %w", common.ErrIntegrity), codes.DataLoss},
		{fmt.Errorf("x: %w", common.ErrBackendUnavailable), codes.Unavailable},
		{fmt.Errorf("x: %w", common.ErrConflict), codes.AlreadyExists},
		{fmt.Errorf("x: %w", common.ErrInvalidArgument), codes.InvalidArgument},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), "%v", tt.err)
	}
}

func TestStatus_HidesInternalText(t *testing.T) {
	err := Status(errors.New("pq: secret detail"))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())

	already := status.Error(codes.Unimplemented, "nope")
	assert.Equal(t, already, Status(already))
	assert.NoError(t, Status(nil))
}

func TestFromStatus_RoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		common.ErrorNotFound,
		common.ErrIntegrity,
		common.ErrBackendUnavailable,
		common.ErrConflict,
		common.ErrInvalidArgument,
	} {
		err := FromStatus(Status(fmt.Errorf("op: %w", sentinel)))
		assert.True(t, errors.Is(err, sentinel), "%v", sentinel)
	}

	internal := FromStatus(Status(errors.New("pq: secret detail")))
	assert.True(t, errors.Is(internal, common.ErrorInternal))
	assert.Equal(t, "internal error", internal.Error())

	other := status.Error(codes.PermissionDenied, "no")
	assert.Equal(t, other, FromStatus(other))
	assert.NoError(t, FromStatus(nil))
}
