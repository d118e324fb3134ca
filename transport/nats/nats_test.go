package nats

import (
	"testing"

	"github.com/go-slark/baton/propagation"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestCarrierNativeStore(t *testing.T) {
	p := propagation.New()
	msg := nats.NewMsg("orders.created")
	c := NewCarrier(msg)

	p.Set(c, propagation.TraceID, "abc123")
	assert.Equal(t, []string{"abc123"}, msg.Header[propagation.TraceID])
	assert.Equal(t, []string{"abc123"}, msg.Header[propagation.LegacyTraceID])

	// repeated writes keep a single entry per key
	p.Set(c, propagation.TraceID, "def456")
	assert.Equal(t, []string{"def456"}, msg.Header[propagation.TraceID])

	assert.Equal(t, "def456", p.Get(c, propagation.TraceID))
	assert.Equal(t, "def456", p.Get(c, propagation.LegacyTraceID))

	propagation.RemoveHeaders(c, p.Keys()...)
	assert.Empty(t, msg.Header)
}

func TestCarrierLegacyFallback(t *testing.T) {
	p := propagation.New()
	msg := nats.NewMsg("orders.created")
	msg.Header.Set(propagation.LegacyTraceID, "abc123")
	c := NewCarrier(msg)
	assert.Equal(t, "abc123", p.Get(c, propagation.TraceID))
}

func TestTransport(t *testing.T) {
	msg := nats.NewMsg("orders.created")
	trans := NewTransport(msg.Subject, NewCarrier(msg))
	assert.Equal(t, "nats", trans.Kind())
	assert.Equal(t, "orders.created", trans.Operate())
}
