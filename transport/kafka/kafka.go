// Package kafka adapts sarama message headers to the header carrier
// interfaces. Record headers are byte valued and flat, so the native
// multi value store cannot be embedded, writes to it fail and are skipped
// by the propagation.
package kafka

import (
	"github.com/IBM/sarama"
	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/transport"
	"github.com/pkg/errors"
)

var (
	_ header.Carrier = (*ProducerCarrier)(nil)
	_ header.Carrier = (*ConsumerCarrier)(nil)
)

type ProducerCarrier struct {
	msg *sarama.ProducerMessage
}

func NewProducerCarrier(msg *sarama.ProducerMessage) *ProducerCarrier {
	return &ProducerCarrier{msg: msg}
}

func (c *ProducerCarrier) Lookup(key string) (interface{}, bool) {
	for _, h := range c.msg.Headers {
		if string(h.Key) == key {
			return h.Value, true
		}
	}
	return nil, false
}

func (c *ProducerCarrier) Set(key string, value interface{}) error {
	b, err := encode(value)
	if err != nil {
		return err
	}
	for i := range c.msg.Headers {
		if string(c.msg.Headers[i].Key) == key {
			c.msg.Headers[i].Value = b
			return nil
		}
	}
	c.msg.Headers = append(c.msg.Headers, sarama.RecordHeader{Key: []byte(key), Value: b})
	return nil
}

func (c *ProducerCarrier) Remove(key string) {
	headers := c.msg.Headers[:0]
	for _, h := range c.msg.Headers {
		if string(h.Key) != key {
			headers = append(headers, h)
		}
	}
	c.msg.Headers = headers
}

func (c *ProducerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, string(h.Key))
	}
	return keys
}

type ConsumerCarrier struct {
	msg *sarama.ConsumerMessage
}

func NewConsumerCarrier(msg *sarama.ConsumerMessage) *ConsumerCarrier {
	return &ConsumerCarrier{msg: msg}
}

func (c *ConsumerCarrier) Lookup(key string) (interface{}, bool) {
	for _, h := range c.msg.Headers {
		if h != nil && string(h.Key) == key {
			return h.Value, true
		}
	}
	return nil, false
}

func (c *ConsumerCarrier) Set(key string, value interface{}) error {
	b, err := encode(value)
	if err != nil {
		return err
	}
	for _, h := range c.msg.Headers {
		if h != nil && string(h.Key) == key {
			h.Value = b
			return nil
		}
	}
	c.msg.Headers = append(c.msg.Headers, &sarama.RecordHeader{Key: []byte(key), Value: b})
	return nil
}

func (c *ConsumerCarrier) Remove(key string) {
	headers := c.msg.Headers[:0]
	for _, h := range c.msg.Headers {
		if h == nil || string(h.Key) != key {
			headers = append(headers, h)
		}
	}
	c.msg.Headers = headers
}

func (c *ConsumerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		if h != nil {
			keys = append(keys, string(h.Key))
		}
	}
	return keys
}

func encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, errors.Errorf("kafka header holds byte values only, got %T", value)
	}
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
