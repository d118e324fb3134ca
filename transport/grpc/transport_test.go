package grpc

import (
	"testing"

	"github.com/go-slark/baton/propagation"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestCarrier(t *testing.T) {
	p := propagation.New()
	md := metadata.MD{}
	c := NewCarrier(md)

	p.Set(c, propagation.TraceID, "abc123")
	// metadata lowercases keys
	assert.Equal(t, []string{"abc123"}, md["trace-id"])
	assert.Equal(t, []string{"abc123"}, md["x-b3-traceid"])

	assert.Equal(t, "abc123", p.Get(c, propagation.TraceID))
	assert.Equal(t, "abc123", p.Get(c, propagation.LegacyTraceID))

	propagation.RemoveHeaders(c, p.Keys()...)
	assert.Empty(t, md)
}

func TestCarrierLegacyFallback(t *testing.T) {
	p := propagation.New()
	md := metadata.Pairs(propagation.LegacyTraceID, "abc123")
	c := NewCarrier(md)
	assert.Equal(t, "abc123", p.Get(c, propagation.TraceID))
}
