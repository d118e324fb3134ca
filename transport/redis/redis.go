// Package redis adapts Redis stream entry values to the header carrier
// interfaces. Entry fields are flat strings, so the native multi value
// store cannot be embedded, writes to it fail and are skipped by the
// propagation.
package redis

import (
	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/transport"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ header.Carrier = (*Carrier)(nil)

type Carrier struct {
	values map[string]interface{}
}

func NewCarrier(values map[string]interface{}) *Carrier {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &Carrier{values: values}
}

func FromMessage(msg *redis.XMessage) *Carrier {
	return NewCarrier(msg.Values)
}

func (c *Carrier) Lookup(key string) (interface{}, bool) {
	value, ok := c.values[key]
	return value, ok
}

func (c *Carrier) Set(key string, value interface{}) error {
	switch value.(type) {
	case string, []byte:
		c.values[key] = value
	default:
		return errors.Errorf("redis stream field holds string values only, got %T", value)
	}
	return nil
}

func (c *Carrier) Remove(key string) {
	delete(c.values, key)
}

func (c *Carrier) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	return keys
}

func (c *Carrier) Values() map[string]interface{} {
	return c.values
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
	return transport.Redis
}

func (t *Transport) Operate() string {
	return t.operation
}

func (t *Transport) Carrier() header.Carrier {
	return t.carrier
}
