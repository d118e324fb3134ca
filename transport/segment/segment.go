// Package segment adapts kafka-go message headers to the header carrier
// interfaces.
package segment

import (
	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/transport"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

var _ header.Carrier = (*Carrier)(nil)

type Carrier struct {
	msg *kafka.Message
}

func NewCarrier(msg *kafka.Message) *Carrier {
	return &Carrier{msg: msg}
}

func (c *Carrier) Lookup(key string) (interface{}, bool) {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return nil, false
}

func (c *Carrier) Set(key string, value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return errors.Errorf("kafka header holds byte values only, got %T", value)
	}
	for i := range c.msg.Headers {
		if c.msg.Headers[i].Key == key {
			c.msg.Headers[i].Value = b
			return nil
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: b})
	return nil
}

func (c *Carrier) Remove(key string) {
	headers := c.msg.Headers[:0]
	for _, h := range c.msg.Headers {
		if h.Key != key {
			headers = append(headers, h)
		}
	}
	c.msg.Headers = headers
}

func (c *Carrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

type Transport struct {
	operation string
	carrier   header.Carrier
}

func NewTransport(operation string, c header.Carrier) *Transport {
	return &Transport{
		operation: operation,
		carrier:   c,
	}
}

func (t *Transport) Kind() string {
	return transport.Kafka
}

func (t *Transport) Operate() string {
	return t.operation
}

func (t *Transport) Carrier() header.Carrier {
	return t.carrier
}
