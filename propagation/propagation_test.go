package propagation

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-slark/baton/header"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type discardLogger struct{}

func (l *discardLogger) Log(context.Context, uint, map[string]interface{}, ...interface{}) {}

func TestSetGetRoundTrip(t *testing.T) {
	p := New()
	headers := header.Map{}
	p.Set(headers, TraceID, "48485a3953bb6124")
	assert.Equal(t, "48485a3953bb6124", p.Get(headers, TraceID))
	assert.Equal(t, "48485a3953bb6124", p.Get(headers, LegacyTraceID))
}

func TestNativeStoreLazyCreation(t *testing.T) {
	p := New()
	headers := header.Map{}
	_ = p.Get(headers, TraceID)
	_, ok := headers[header.NativeHeaders]
	assert.False(t, ok)

	p.Set(headers, TraceID, "a")
	native, ok := headers[header.NativeHeaders].(header.Headers)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, native.Values(TraceID))
	assert.Equal(t, []string{"a"}, native.Values(LegacyTraceID))
}

func TestSetIdempotent(t *testing.T) {
	p := New()
	headers := header.Map{}
	p.Set(headers, SpanID, "1")
	p.Set(headers, SpanID, "2")
	native := headers[header.NativeHeaders].(header.Headers)
	assert.Equal(t, []string{"2"}, native.Values(SpanID))
	assert.Equal(t, []string{"2"}, native.Values(LegacySpanID))
	assert.Equal(t, "2", p.Get(headers, SpanID))
}

func TestLegacyFallback(t *testing.T) {
	p := New()
	headers := header.Map{LegacyTraceID: "abc123"}
	assert.Equal(t, "abc123", p.Get(headers, TraceID))
}

func TestLegacyWriteStaysLegacy(t *testing.T) {
	p := New()
	headers := header.Map{}
	p.Set(headers, LegacyTraceID, "abc123")
	_, ok := headers[TraceID]
	assert.False(t, ok)
	assert.Equal(t, "abc123", p.Get(headers, TraceID))
}

func TestNativePrecedence(t *testing.T) {
	p := New()
	headers := header.Map{
		TraceID:              "zzz",
		header.NativeHeaders: header.Headers{TraceID: {"abc123"}},
	}
	assert.Equal(t, "abc123", p.Get(headers, TraceID))
}

func TestBlankValueAbsent(t *testing.T) {
	p := New()
	headers := header.Map{TraceID: "   ", LegacyTraceID: "abc"}
	assert.Equal(t, "abc", p.Get(headers, TraceID))

	headers = header.Map{TraceID: " ", LegacyTraceID: "\t"}
	assert.Equal(t, "", p.Get(headers, TraceID))
}

func TestByteHeaderValues(t *testing.T) {
	p := New()
	headers := header.Map{TraceID: []byte("abc123")}
	assert.Equal(t, "abc123", p.Get(headers, TraceID))
}

func TestInvalidByteHeaderFallsBack(t *testing.T) {
	p := New(WithLogger(&discardLogger{}))
	headers := header.Map{TraceID: []byte{0xff, 0xfe}, LegacyTraceID: "abc"}
	assert.Equal(t, "abc", p.Get(headers, TraceID))
}

func TestUnknownKeyNoAlias(t *testing.T) {
	p := New()
	headers := header.Map{}
	p.Set(headers, "correlation-id", "8")
	assert.Equal(t, "8", p.Get(headers, "correlation-id"))
	_, ok := headers[LegacyTraceID]
	assert.False(t, ok)
	assert.Len(t, headers.Keys(), 2)
}

func TestRemoveHeaders(t *testing.T) {
	p := New()
	headers := header.Map{"payload-type": "json"}
	p.Set(headers, TraceID, "a")
	p.Set(headers, SpanID, "b")
	RemoveHeaders(headers, p.Keys()...)
	assert.Equal(t, "", p.Get(headers, TraceID))
	assert.Equal(t, "", p.Get(headers, SpanID))
	native := headers[header.NativeHeaders].(header.Headers)
	assert.Empty(t, native)
	assert.Equal(t, "json", headers["payload-type"])
	RemoveHeaders(headers, p.Keys()...)
}

type strictCarrier struct {
	header.Map
}

func (c strictCarrier) Set(key string, value interface{}) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("string values only, got %T", value)
	}
	return c.Map.Set(key, value)
}

func TestSetSwallowsCarrierFailure(t *testing.T) {
	p := New(WithLogger(&discardLogger{}))
	c := strictCarrier{Map: header.Map{}}
	p.Set(c, TraceID, "abc123")
	assert.Equal(t, "abc123", p.Get(c, TraceID))
	assert.Equal(t, "abc123", p.Get(c, LegacyTraceID))
	_, ok := c.Map[header.NativeHeaders]
	assert.False(t, ok)
}

func TestForeignNativeBlock(t *testing.T) {
	p := New(WithLogger(&discardLogger{}))
	headers := header.Map{header.NativeHeaders: "not-a-map", LegacyTraceID: "abc"}
	assert.Equal(t, "abc", p.Get(headers, TraceID))
	p.Set(headers, TraceID, "def")
	assert.Equal(t, "def", headers[TraceID])
}

func TestGenericNativeBlockShapes(t *testing.T) {
	p := New()
	headers := header.Map{
		header.NativeHeaders: map[string]interface{}{TraceID: []interface{}{"abc123", "zzz"}},
	}
	assert.Equal(t, "abc123", p.Get(headers, TraceID))

	headers = header.Map{
		header.NativeHeaders: map[string][]string{SpanID: {"b"}},
	}
	assert.Equal(t, "b", p.Get(headers, SpanID))
}

type listCarrier struct {
	header.Map
	native header.Headers
}

func (c *listCarrier) SetNative(key, value string) {
	c.native.Set(key, value)
}

func (c *listCarrier) FirstNative(key string) (string, bool) {
	return c.native.First(key)
}

func (c *listCarrier) RemoveNative(key string) {
	c.native.Remove(key)
}

func TestNativeCarrier(t *testing.T) {
	p := New()
	c := &listCarrier{Map: header.Map{}, native: header.Headers{}}
	p.Set(c, TraceID, "abc123")
	assert.Equal(t, []string{"abc123"}, c.native.Values(TraceID))
	assert.Equal(t, []string{"abc123"}, c.native.Values(LegacyTraceID))
	_, ok := c.Map[header.NativeHeaders]
	assert.False(t, ok)

	assert.Equal(t, "abc123", p.Get(c, TraceID))
	RemoveHeaders(c, p.Keys()...)
	assert.Empty(t, c.native)
	assert.Empty(t, c.Map)
}

func TestCustomAliases(t *testing.T) {
	p := New(WithAliases(map[string]string{"traceparent": LegacyTraceID}))
	headers := header.Map{}
	p.Set(headers, "traceparent", "abc")
	assert.Equal(t, "abc", p.Get(headers, LegacyTraceID))

	p.Set(headers, TraceID, "def")
	_, ok := headers[LegacySpanID]
	assert.False(t, ok)
	assert.Len(t, p.Keys(), 2)
}

func TestPropagationHeaders(t *testing.T) {
	p := New()
	headers := map[string]interface{}{
		TraceID:       "a",
		LegacyTraceID: "a",
		"payload":     "data",
	}
	copied := PropagationHeaders(headers, p.Keys())
	assert.True(t, cmp.Equal(map[string]interface{}{TraceID: "a", LegacyTraceID: "a"}, copied))
}
