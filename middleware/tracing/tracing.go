package tracing

import (
	"context"

	"github.com/go-slark/baton/middleware"
	tracing "github.com/go-slark/baton/pkg/trace"
	"github.com/go-slark/baton/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func Trace(kind trace.SpanKind, opts ...tracing.Option) middleware.Middleware {
	tracer := tracing.NewTracer(kind, opts...)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			var (
				trans transport.Transporter
				ok    bool
			)
			if kind == trace.SpanKindClient || kind == trace.SpanKindProducer {
				trans, ok = transport.FromClientContext(ctx)
			} else if kind == trace.SpanKindServer || kind == trace.SpanKindConsumer {
				trans, ok = transport.FromServerContext(ctx)
			}
			if !ok {
				return handler(ctx, req)
			}

			operation := trans.Operate()
			opt := []trace.SpanStartOption{
				trace.WithSpanKind(kind),
				trace.WithAttributes(
					attribute.String("mq_kind", trans.Kind()),
					attribute.String("mq_operation", operation),
				),
			}
			ctx, span := tracer.Start(ctx, operation, trans.Carrier(), opt...)
			defer span.End()
			rsp, err := handler(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return rsp, err
		}
	}
}
