// Package grpcmw provides gRPC server interceptors that copy trace and request
// identifiers from the incoming metadata into the context and write one
// access record per call through a logbridge.Logger.
package grpcmw

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/middleware"
)

const accessFormat = "{} -> {} in {}us request={} trace={}"

// UnaryServerInterceptor enriches the gRPC context with metadata values.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := newOptions(opts)

	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(withIdentifiers(ctx, &cfg), req)
	}
}

// StreamServerInterceptor enriches the stream context with metadata values.
func StreamServerInterceptor(opts ...Option) grpc.StreamServerInterceptor {
	cfg := newOptions(opts)

	return func(srv any, stream grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return handler(srv, &contextStream{
			ServerStream: stream,
			ctx:          withIdentifiers(stream.Context(), &cfg),
		})
	}
}

// UnaryLoggingInterceptor extracts identifiers like UnaryServerInterceptor and
// writes an access record for every call once the handler returns.
func UnaryLoggingInterceptor(logger logbridge.Logger, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := newOptions(opts)
	access := logger.WithContext(cfg.logContext)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx = withIdentifiers(ctx, &cfg)

		resp, err := handler(ctx, req)

		logCall(ctx, access, info.FullMethod, start, err)

		return resp, err
	}
}

// StreamLoggingInterceptor is the streaming counterpart of UnaryLoggingInterceptor.
func StreamLoggingInterceptor(logger logbridge.Logger, opts ...Option) grpc.StreamServerInterceptor {
	cfg := newOptions(opts)
	access := logger.WithContext(cfg.logContext)

	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		ctx := withIdentifiers(stream.Context(), &cfg)

		err := handler(srv, &contextStream{ServerStream: stream, ctx: ctx})

		logCall(ctx, access, info.FullMethod, start, err)

		return err
	}
}

func logCall(ctx context.Context, access logbridge.Logger, method string, start time.Time, err error) {
	code := status.Code(err)

	level := levelForCode(code)
	if !access.Enabled(level) {
		return
	}

	access.Log(level, accessFormat,
		logbridge.Str(method),
		logbridge.Str(code.String()),
		logbridge.Int64(time.Since(start).Microseconds()),
		logbridge.Str(middleware.RequestID(ctx)),
		logbridge.Str(middleware.TraceID(ctx)),
	)
}

func withIdentifiers(ctx context.Context, cfg *options) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	if values := md.Get(cfg.traceKey); len(values) > 0 {
		ctx = middleware.WithTraceID(ctx, values[0])
	}

	if values := md.Get(cfg.requestKey); len(values) > 0 {
		ctx = middleware.WithRequestID(ctx, values[0])
	}

	return ctx
}

// levelForCode reports server-side failures as Error, client-caused
// failures as Warn and success as Info.
func levelForCode(code codes.Code) logbridge.Level {
	//nolint:exhaustive // remaining codes are client-side failures
	switch code {
	case codes.OK:
		return logbridge.LevelInfo
	case codes.Unknown, codes.Internal, codes.Unavailable, codes.DataLoss, codes.Unimplemented, codes.DeadlineExceeded:
		return logbridge.LevelError
	default:
		return logbridge.LevelWarn
	}
}

type contextStream struct {
	grpc.ServerStream

	ctx context.Context //nolint:containedctx // overrides ServerStream.Context
}

func (s *contextStream) Context() context.Context {
	return s.ctx
}
