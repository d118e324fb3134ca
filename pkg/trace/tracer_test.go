package trace

import (
	"context"
	"testing"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/propagation"
	"github.com/stretchr/testify/assert"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestProducerConsumerRoundTrip(t *testing.T) {
	producer := NewTracer(trace.SpanKindProducer)
	headers := header.Map{}
	ctx, span := producer.Start(context.TODO(), "produce", headers)
	span.End()

	traceID := ExtractTraceID(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, headers[propagation.TraceID])
	assert.Equal(t, traceID, headers[propagation.LegacyTraceID])

	consumer := NewTracer(trace.SpanKindConsumer)
	cctx, cspan := consumer.Start(context.TODO(), "consume", headers)
	defer cspan.End()
	assert.Equal(t, traceID, ExtractTraceID(cctx))
	assert.NotEmpty(t, ExtractSpanID(cctx))
}

func TestConsumerLegacyOnlyHeaders(t *testing.T) {
	consumer := NewTracer(trace.SpanKindConsumer, Name("legacy"))
	headers := header.Map{
		propagation.LegacyTraceID: "48485a3953bb6124",
		propagation.LegacySpanID:  "48485a3953bb6124",
		propagation.LegacySampled: "1",
	}
	ctx, span := consumer.Start(context.TODO(), "consume", headers)
	defer span.End()
	assert.Equal(t, "000000000000000048485a3953bb6124", ExtractTraceID(ctx))
}

func TestProducerStripsConsumedHeaders(t *testing.T) {
	headers := header.Map{
		propagation.TraceID:       "463ac35c9f6413ad48485a3953bb6124",
		propagation.LegacyTraceID: "463ac35c9f6413ad48485a3953bb6124",
	}
	producer := NewTracer(trace.SpanKindProducer)
	ctx, span := producer.Start(context.TODO(), "forward", headers)
	defer span.End()
	assert.Equal(t, ExtractTraceID(ctx), headers[propagation.TraceID])
	assert.NotEqual(t, "463ac35c9f6413ad48485a3953bb6124", headers[propagation.TraceID])
}

func TestB3Extract(t *testing.T) {
	carrier := otelpropagation.MapCarrier{
		propagation.TraceID: "463ac35c9f6413ad48485a3953bb6124",
		propagation.SpanID:  "48485a3953bb6124",
		propagation.Flags:   "1",
	}
	ctx := B3{}.Extract(context.TODO(), carrier)
	sc := trace.SpanContextFromContext(ctx)
	assert.True(t, sc.IsValid())
	assert.True(t, sc.IsSampled())
	assert.True(t, sc.IsRemote())
}

func TestB3ExtractInvalid(t *testing.T) {
	carrier := otelpropagation.MapCarrier{propagation.TraceID: "xyz"}
	ctx := B3{}.Extract(context.TODO(), carrier)
	assert.False(t, trace.SpanContextFromContext(ctx).IsValid())
}

func TestB3InjectInvalidContext(t *testing.T) {
	carrier := otelpropagation.MapCarrier{}
	B3{}.Inject(context.TODO(), carrier)
	assert.Empty(t, carrier)
	assert.Len(t, B3{}.Fields(), 5)
}
