package tracing

import (
	"context"
	"testing"

	"github.com/go-slark/baton/header"
	tracing "github.com/go-slark/baton/pkg/trace"
	"github.com/go-slark/baton/propagation"
	"github.com/go-slark/baton/transport"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

type mockTransport struct {
	carrier header.Carrier
}

func (t *mockTransport) Kind() string {
	return transport.Kafka
}

func (t *mockTransport) Operate() string {
	return "demo_topic"
}

func (t *mockTransport) Carrier() header.Carrier {
	return t.carrier
}

func TestTraceProducerConsumer(t *testing.T) {
	headers := header.Map{}
	ctx := transport.NewClientContext(context.Background(), &mockTransport{carrier: headers})
	var produced string
	_, err := Trace(trace.SpanKindProducer)(func(ctx context.Context, req interface{}) (interface{}, error) {
		produced = tracing.ExtractTraceID(ctx)
		return nil, nil
	})(ctx, []byte("payload"))
	assert.NoError(t, err)
	assert.NotEmpty(t, produced)
	assert.Equal(t, produced, headers[propagation.TraceID])
	assert.Equal(t, produced, headers[propagation.LegacyTraceID])

	ctx = transport.NewServerContext(context.Background(), &mockTransport{carrier: headers})
	var consumed string
	_, err = Trace(trace.SpanKindConsumer)(func(ctx context.Context, req interface{}) (interface{}, error) {
		consumed = tracing.ExtractTraceID(ctx)
		return nil, nil
	})(ctx, []byte("payload"))
	assert.NoError(t, err)
	assert.Equal(t, produced, consumed)
}

func TestTraceWithoutTransport(t *testing.T) {
	called := false
	_, err := Trace(trace.SpanKindConsumer)(func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return nil, nil
	})(context.Background(), nil)
	assert.NoError(t, err)
	assert.True(t, called)
}
