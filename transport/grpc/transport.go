// Package grpc adapts gRPC metadata to the header carrier interfaces.
// Metadata is multi valued, so the carrier exposes the native store first
// class. Keys are lowercased by the metadata package.
package grpc

import (
	"strings"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/transport"
	"github.com/pkg/errors"
	"google.golang.org/grpc/metadata"
)

var _ header.NativeCarrier = (Carrier)(nil)

type Carrier metadata.MD

func NewCarrier(md metadata.MD) Carrier {
	return Carrier(md)
}

func (c Carrier) Lookup(key string) (interface{}, bool) {
	values := metadata.MD(c).Get(key)
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

func (c Carrier) Set(key string, value interface{}) error {
	switch v := value.(type) {
	case string:
		metadata.MD(c).Set(key, v)
	case []byte:
		metadata.MD(c).Set(key, string(v))
	default:
		return errors.Errorf("metadata holds string values only, got %T", value)
	}
	return nil
}

func (c Carrier) Remove(key string) {
	delete(c, strings.ToLower(key))
}

func (c Carrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	return keys
}

func (c Carrier) SetNative(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c Carrier) FirstNative(key string) (string, bool) {
	values := metadata.MD(c).Get(key)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (c Carrier) RemoveNative(key string) {
	delete(c, strings.ToLower(key))
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
	return transport.GRPC
}

func (t *Transport) Operate() string {
	return t.operation
}

func (t *Transport) Carrier() header.Carrier {
	return t.carrier
}
