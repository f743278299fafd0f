package constants

const (
	// TraceHeader is the default HTTP header for trace identifiers.
	TraceHeader = "X-Trace-ID"
	// RequestHeader is the default HTTP header for request identifiers.
	RequestHeader = "X-Request-ID"
	// TraceMetadataKey is the gRPC metadata key for trace identifiers.
	TraceMetadataKey = "x-trace-id"
	// RequestMetadataKey is the gRPC metadata key for request identifiers.
	RequestMetadataKey = "x-request-id"

	// HTTPContext is the context tag HTTP access records are written under.
	HTTPContext = "HTTP"
	// GRPCContext is the context tag gRPC access records are written under.
	GRPCContext = "GRPC"
)

type (
	// RequestKey is the context key for the request identifier.
	RequestKey struct{}
	// TraceKey is the context key for the trace identifier.
	TraceKey struct{}
)
