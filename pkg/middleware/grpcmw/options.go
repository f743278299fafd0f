package grpcmw

import "github.com/hyp3rd/logbridge/internal/constants"

// Option defines a configuration option for the gRPC middleware.
type Option func(*options)

type options struct {
	traceKey   string
	requestKey string
	logContext string
}

func newOptions(opts []Option) options {
	cfg := options{
		traceKey:   constants.TraceMetadataKey,
		requestKey: constants.RequestMetadataKey,
		logContext: constants.GRPCContext,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithTraceKey customizes the metadata key used to populate the trace identifier.
func WithTraceKey(name string) Option {
	return func(o *options) {
		if o == nil || name == "" {
			return
		}

		o.traceKey = name
	}
}

// WithRequestKey customizes the metadata key used to populate the request identifier.
func WithRequestKey(name string) Option {
	return func(o *options) {
		if o == nil || name == "" {
			return
		}

		o.requestKey = name
	}
}

// WithLogContext sets the context tag access records are written under.
func WithLogContext(tag string) Option {
	return func(o *options) {
		if o == nil || tag == "" {
			return
		}

		o.logContext = tag
	}
}
