package grpcmw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hyp3rd/logbridge/internal/constants"
	"github.com/hyp3rd/logbridge/internal/recordertest"
	"github.com/hyp3rd/logbridge/pkg/bridge"
	"github.com/hyp3rd/logbridge/pkg/middleware"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

type fakeStream struct {
	grpc.ServerStream

	ctx context.Context //nolint:containedctx // test double
}

func (s *fakeStream) Context() context.Context {
	return s.ctx
}

func incoming(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestUnaryServerInterceptorMetadataExtraction(t *testing.T) {
	t.Parallel()

	ctx := incoming(
		constants.TraceMetadataKey, "trace-123",
		constants.RequestMetadataKey, "request-456",
	)

	var capturedTrace, capturedRequest string

	handler := func(ctx context.Context, _ any) (any, error) {
		capturedTrace = middleware.TraceID(ctx)
		capturedRequest = middleware.RequestID(ctx)

		return "ok", nil
	}

	resp, err := UnaryServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "trace-123", capturedTrace)
	assert.Equal(t, "request-456", capturedRequest)
}

func TestUnaryServerInterceptorCustomKeys(t *testing.T) {
	t.Parallel()

	ctx := incoming("x-trace", "custom-trace", "x-request", "custom-request")

	interceptor := UnaryServerInterceptor(
		WithTraceKey("x-trace"),
		WithRequestKey("x-request"),
	)

	handler := func(ctx context.Context, _ any) (any, error) {
		assert.Equal(t, "custom-trace", middleware.TraceID(ctx))
		assert.Equal(t, "custom-request", middleware.RequestID(ctx))

		return nil, nil
	}

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
}

func TestUnaryServerInterceptorWithoutMetadata(t *testing.T) {
	t.Parallel()

	handler := func(ctx context.Context, _ any) (any, error) {
		assert.Empty(t, middleware.TraceID(ctx))
		assert.Empty(t, middleware.RequestID(ctx))

		return nil, nil
	}

	_, err := UnaryServerInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
}

func TestStreamServerInterceptor(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{ctx: incoming(constants.RequestMetadataKey, "stream-req")}

	var requestID string

	err := StreamServerInterceptor()(nil, stream, &grpc.StreamServerInfo{}, func(_ any, s grpc.ServerStream) error {
		requestID = middleware.RequestID(s.Context())

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stream-req", requestID)
}

func TestUnaryLoggingInterceptor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		level   recorder.LogLevel
		pattern string
	}{
		{
			name:    "ok",
			level:   recorder.LevelInfo,
			pattern: `^/svc\.Users/Get -> OK in \d+us request=r1 trace=t1$`,
		},
		{
			name:    "not found",
			err:     status.Error(codes.NotFound, "missing"),
			level:   recorder.LevelWarn,
			pattern: `^/svc\.Users/Get -> NotFound in \d+us request=r1 trace=t1$`,
		},
		{
			name:    "internal",
			err:     status.Error(codes.Internal, "boom"),
			level:   recorder.LevelError,
			pattern: `^/svc\.Users/Get -> Internal in \d+us request=r1 trace=t1$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := recordertest.New()
			logger := bridge.NewBuilder().WithRecorder(rec).Build()

			ctx := incoming(constants.TraceMetadataKey, "t1", constants.RequestMetadataKey, "r1")
			info := &grpc.UnaryServerInfo{FullMethod: "/svc.Users/Get"}

			_, err := UnaryLoggingInterceptor(logger)(ctx, nil, info, func(context.Context, any) (any, error) {
				return nil, tt.err
			})
			require.ErrorIs(t, err, tt.err)

			records := rec.Records()
			require.Len(t, records, 1)
			assert.Equal(t, constants.GRPCContext, records[0].Context.String())
			assert.Equal(t, tt.level, records[0].Level)
			assert.Regexp(t, tt.pattern, records[0].Message())
		})
	}
}

func TestStreamLoggingInterceptor(t *testing.T) {
	t.Parallel()

	rec := recordertest.New()
	logger := bridge.NewBuilder().WithRecorder(rec).Build()

	stream := &fakeStream{ctx: incoming(constants.RequestMetadataKey, "s1")}
	info := &grpc.StreamServerInfo{FullMethod: "/svc.Feed/Watch"}

	err := StreamLoggingInterceptor(logger, WithLogContext("FEED"))(nil, stream, info, func(any, grpc.ServerStream) error {
		return status.Error(codes.Unavailable, "gone")
	})
	require.Error(t, err)

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "FEED", records[0].Context.String())
	assert.Equal(t, recorder.LevelError, records[0].Level)
	assert.Regexp(t, `^/svc\.Feed/Watch -> Unavailable in \d+us request=s1 trace=$`, records[0].Message())
}
