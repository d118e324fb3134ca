// Package http adapts HTTP headers to the header carrier interfaces.
// Headers are multi valued, so the carrier exposes the native store first
// class. Keys are canonicalized by net/http.
package http

import (
	"net/http"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/transport"
	"github.com/pkg/errors"
)

var _ header.NativeCarrier = (Carrier)(nil)

type Carrier http.Header

func NewCarrier(h http.Header) Carrier {
	return Carrier(h)
}

func (c Carrier) Lookup(key string) (interface{}, bool) {
	values := http.Header(c).Values(key)
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

func (c Carrier) Set(key string, value interface{}) error {
	switch v := value.(type) {
	case string:
		http.Header(c).Set(key, v)
	case []byte:
		http.Header(c).Set(key, string(v))
	default:
		return errors.Errorf("http header holds string values only, got %T", value)
	}
	return nil
}

func (c Carrier) Remove(key string) {
	http.Header(c).Del(key)
}

func (c Carrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	return keys
}

func (c Carrier) SetNative(key, value string) {
	http.Header(c).Set(key, value)
}

func (c Carrier) FirstNative(key string) (string, bool) {
	values := http.Header(c).Values(key)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (c Carrier) RemoveNative(key string) {
	http.Header(c).Del(key)
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
	return transport.HTTP
}

func (t *Transport) Operate() string {
	return t.operation
}

func (t *Transport) Carrier() header.Carrier {
	return t.carrier
}
