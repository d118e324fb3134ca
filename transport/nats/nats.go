// Package nats adapts NATS message headers to the header carrier
// interfaces. NATS headers are multi valued, so the carrier exposes the
// native store first class.
package nats

import (
	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/transport"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

var _ header.NativeCarrier = (Carrier)(nil)

type Carrier nats.Header

func NewCarrier(msg *nats.Msg) Carrier {
	if msg.Header == nil {
		msg.Header = nats.Header{}
	}
	return Carrier(msg.Header)
}

func (c Carrier) Lookup(key string) (interface{}, bool) {
	values := c[key]
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

func (c Carrier) Set(key string, value interface{}) error {
	switch v := value.(type) {
	case string:
		c[key] = []string{v}
	case []byte:
		c[key] = []string{string(v)}
	default:
		return errors.Errorf("nats header holds string values only, got %T", value)
	}
	return nil
}

func (c Carrier) Remove(key string) {
	delete(c, key)
}

func (c Carrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	return keys
}

func (c Carrier) SetNative(key, value string) {
	c[key] = []string{value}
}

func (c Carrier) FirstNative(key string) (string, bool) {
	values := c[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (c Carrier) RemoveNative(key string) {
	delete(c, key)
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
	return transport.NATS
}

func (t *Transport) Operate() string {
	return t.operation
}

func (t *Transport) Carrier() header.Carrier {
	return t.carrier
}
