package trace

import (
	"context"
	"strings"

	"github.com/go-slark/baton/propagation"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var _ otelpropagation.TextMapPropagator = B3{}

// B3 propagates the span context one header per field, for consumers that
// read single value headers rather than the combined traceparent form.
type B3 struct{}

func (b B3) Inject(ctx context.Context, carrier otelpropagation.TextMapCarrier) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	carrier.Set(propagation.TraceID, sc.TraceID().String())
	carrier.Set(propagation.SpanID, sc.SpanID().String())
	if sc.IsSampled() {
		carrier.Set(propagation.Sampled, "1")
	} else {
		carrier.Set(propagation.Sampled, "0")
	}
}

func (b B3) Extract(ctx context.Context, carrier otelpropagation.TextMapCarrier) context.Context {
	sc := b.extract(carrier)
	if !sc.IsValid() {
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

func (b B3) extract(carrier otelpropagation.TextMapCarrier) trace.SpanContext {
	traceID, err := trace.TraceIDFromHex(padTraceID(carrier.Get(propagation.TraceID)))
	if err != nil {
		return trace.SpanContext{}
	}
	spanID, err := trace.SpanIDFromHex(carrier.Get(propagation.SpanID))
	if err != nil {
		return trace.SpanContext{}
	}
	var flags trace.TraceFlags
	sampled := carrier.Get(propagation.Sampled)
	if sampled == "1" || strings.EqualFold(sampled, "true") {
		flags = trace.FlagsSampled
	}
	// debug implies sampled
	if carrier.Get(propagation.Flags) == "1" {
		flags = trace.FlagsSampled
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
	})
}

func (b B3) Fields() []string {
	return []string{propagation.TraceID, propagation.SpanID, propagation.ParentID, propagation.Sampled, propagation.Flags}
}

// 64 bit trace ids are padded to the 128 bit form.
func padTraceID(id string) string {
	if len(id) == 16 {
		return strings.Repeat("0", 16) + id
	}
	return id
}
