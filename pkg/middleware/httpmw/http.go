// Package httpmw provides net/http middleware that tags requests with trace
// and request identifiers and writes one access record per request through a
// logbridge.Logger.
package httpmw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/constants"
	"github.com/hyp3rd/logbridge/pkg/middleware"
)

const accessFormat = "{} {} -> {} in {}us request={} trace={}"

// Option configures the behaviour of the middleware.
type Option func(*options)

type options struct {
	traceHeader    string
	requestHeader  string
	idGenerator    func() string
	generateIfMiss bool
	echoRequestID  bool
	logContext     string
	routePattern   bool
}

// WithTraceHeader configures the header used to populate the trace id.
func WithTraceHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.traceHeader = name
		}
	}
}

// WithRequestHeader configures the header used to populate the request id.
func WithRequestHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.requestHeader = name
		}
	}
}

// WithIDGenerator provides a custom generator used when headers are missing.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.idGenerator = fn
		}
	}
}

// WithGenerateMissingIDs instructs the middleware to create ids when headers are absent.
func WithGenerateMissingIDs(enable bool) Option {
	return func(o *options) {
		o.generateIfMiss = enable
	}
}

// WithEchoRequestID copies the request id into the response headers.
func WithEchoRequestID(enable bool) Option {
	return func(o *options) {
		o.echoRequestID = enable
	}
}

// WithLogContext sets the context tag access records are written under.
func WithLogContext(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.logContext = tag
		}
	}
}

// WithRoutePattern logs the chi route pattern, e.g. "/users/{id}", in place
// of the request path when the request was served by a chi router. The
// middleware must be mounted with the router's Use for the pattern to be
// visible.
func WithRoutePattern(enable bool) Option {
	return func(o *options) {
		o.routePattern = enable
	}
}

func newOptions(opts []Option) options {
	cfg := options{
		traceHeader:    constants.TraceHeader,
		requestHeader:  constants.RequestHeader,
		idGenerator:    middleware.RandomID,
		generateIfMiss: true,
		logContext:     constants.HTTPContext,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// ContextMiddleware enriches the request context with the trace and request
// identifiers read by middleware.TraceID and middleware.RequestID.
func ContextMiddleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := newOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = withIdentifiers(w, r, &cfg)

			next.ServeHTTP(w, r)
		})
	}
}

// Logging tags requests like ContextMiddleware and writes an access record
// for each one when it completes: Info for successful responses, Warn for
// 4xx and Error for 5xx. The logger context defaults to "HTTP".
func Logging(logger logbridge.Logger, opts ...Option) func(http.Handler) http.Handler {
	cfg := newOptions(opts)
	access := logger.WithContext(cfg.logContext)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			r = withIdentifiers(w, r, &cfg)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			level := levelForStatus(recorder.status)
			if !access.Enabled(level) {
				return
			}

			access.Log(level, accessFormat,
				logbridge.Str(r.Method),
				logbridge.Str(requestPath(r, &cfg)),
				logbridge.Uint16(uint16(recorder.status)), //nolint:gosec // HTTP status codes fit in 16 bits
				logbridge.Int64(time.Since(start).Microseconds()),
				logbridge.Str(middleware.RequestID(r.Context())),
				logbridge.Str(middleware.TraceID(r.Context())),
			)
		})
	}
}

func withIdentifiers(w http.ResponseWriter, r *http.Request, cfg *options) *http.Request {
	ctx := r.Context()

	traceID := r.Header.Get(cfg.traceHeader)
	if traceID == "" && cfg.generateIfMiss {
		traceID = cfg.idGenerator()
	}

	requestID := r.Header.Get(cfg.requestHeader)
	if requestID == "" && cfg.generateIfMiss {
		requestID = cfg.idGenerator()
	}

	ctx = middleware.WithTraceID(ctx, traceID)
	ctx = middleware.WithRequestID(ctx, requestID)

	if cfg.echoRequestID && requestID != "" {
		w.Header().Set(cfg.requestHeader, requestID)
	}

	return r.WithContext(ctx)
}

func requestPath(r *http.Request, cfg *options) string {
	if !cfg.routePattern {
		return r.URL.Path
	}

	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return r.URL.Path
}

func levelForStatus(status int) logbridge.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logbridge.LevelError
	case status >= http.StatusBadRequest:
		return logbridge.LevelWarn
	default:
		return logbridge.LevelInfo
	}
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}

	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true

	return r.ResponseWriter.Write(p)
}

// Unwrap lets http.ResponseController reach the original writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
