package http

import (
	"net/http"
	"testing"

	"github.com/go-slark/baton/propagation"
	"github.com/stretchr/testify/assert"
)

func TestCarrier(t *testing.T) {
	p := propagation.New()
	h := http.Header{}
	c := NewCarrier(h)

	p.Set(c, propagation.TraceID, "abc123")
	// lookups go through net/http canonicalization
	assert.Equal(t, "abc123", h.Get(propagation.TraceID))
	assert.Equal(t, "abc123", h.Get(propagation.LegacyTraceID))

	assert.Equal(t, "abc123", p.Get(c, propagation.TraceID))
	assert.Equal(t, "abc123", p.Get(c, propagation.LegacyTraceID))

	propagation.RemoveHeaders(c, p.Keys()...)
	assert.Empty(t, h)
}

func TestCarrierBlankValue(t *testing.T) {
	p := propagation.New()
	h := http.Header{}
	h.Set(propagation.TraceID, "   ")
	h.Set(propagation.LegacyTraceID, "abc123")
	c := NewCarrier(h)
	assert.Equal(t, "abc123", p.Get(c, propagation.TraceID))
}
