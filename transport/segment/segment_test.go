package segment

import (
	"testing"

	"github.com/go-slark/baton/propagation"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestCarrier(t *testing.T) {
	msg := &kafka.Message{}
	c := NewCarrier(msg)
	assert.Nil(t, c.Set("span-id", "1"))
	assert.Nil(t, c.Set("span-id", "2"))
	assert.Len(t, msg.Headers, 1)

	raw, ok := c.Lookup("span-id")
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), raw)

	c.Remove("span-id")
	assert.Empty(t, c.Keys())
}

func TestCarrierRoundTrip(t *testing.T) {
	p := propagation.New()
	msg := &kafka.Message{
		Headers: []kafka.Header{
			{Key: propagation.LegacySpanID, Value: []byte("48485a3953bb6124")},
		},
	}
	c := NewCarrier(msg)
	assert.Equal(t, "48485a3953bb6124", p.Get(c, propagation.SpanID))
}
