package metadata

import (
	"context"

	"github.com/go-slark/baton/middleware"
	"github.com/go-slark/baton/pkg/metadata"
	"github.com/go-slark/baton/transport"
)

func Server(opts ...metadata.Option) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			trans, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}
			ctx = metadata.Extract(ctx, trans.Carrier(), opts...)
			return handler(ctx, req)
		}
	}
}

func Client(opts ...metadata.Option) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			trans, ok := transport.FromClientContext(ctx)
			if !ok {
				return handler(ctx, req)
			}
			metadata.Inject(ctx, trans.Carrier(), opts...)
			return handler(ctx, req)
		}
	}
}
