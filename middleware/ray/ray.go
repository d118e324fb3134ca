package ray

import (
	"context"

	"github.com/go-slark/baton/middleware"
	utils "github.com/go-slark/baton/pkg"
	"github.com/go-slark/baton/propagation"
	"github.com/go-slark/baton/transport"
)

type Config struct {
	Builder   func() string
	RequestID string
	p         *propagation.Propagation
}

type Option func(*Config)

func WithBuilder(b func() string) Option {
	return func(cfg *Config) {
		cfg.Builder = b
	}
}

func WithRequestId(requestID string) Option {
	return func(cfg *Config) {
		cfg.RequestID = requestID
	}
}

func configure(opts ...Option) *Config {
	cfg := &Config{
		Builder: func() string {
			return utils.BuildRequestID()
		},
		RequestID: utils.TraceID,
		p:         propagation.New(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// BuildRequestID guarantees a correlation id in the context so producers
// stamp one on every outgoing message.
func BuildRequestID(opts ...Option) middleware.Middleware {
	cfg := configure(opts...)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			rid, _ := ctx.Value(cfg.RequestID).(string)
			if len(rid) == 0 {
				rid = cfg.Builder()
			}
			ctx = context.WithValue(ctx, cfg.RequestID, rid)
			return handler(ctx, req)
		}
	}
}

// RequestID carries the correlation id across one hop. Servers and
// consumers lift it from the incoming headers, clients and producers
// stamp the context id onto the outgoing ones.
func RequestID(st middleware.SubType, opts ...Option) middleware.Middleware {
	cfg := configure(opts...)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			var (
				trans transport.Transporter
				ok    bool
			)
			if st.Outbound() {
				trans, ok = transport.FromClientContext(ctx)
			} else {
				trans, ok = transport.FromServerContext(ctx)
			}
			rid, _ := ctx.Value(cfg.RequestID).(string)
			if !st.Outbound() && ok {
				if id := cfg.p.Get(trans.Carrier(), cfg.RequestID); len(id) != 0 {
					rid = id
				}
			}
			if len(rid) == 0 {
				rid = cfg.Builder()
			}
			if st.Outbound() && ok {
				cfg.p.Set(trans.Carrier(), cfg.RequestID, rid)
			}
			ctx = context.WithValue(ctx, cfg.RequestID, rid)
			return handler(ctx, req)
		}
	}
}
