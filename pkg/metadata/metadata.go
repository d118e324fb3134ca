package metadata

import (
	"context"
	"strings"

	"github.com/go-slark/baton/header"
)

const (
	MDPrefix       = "x-md-"
	GlobalMDPrefix = "x-md-global-"
	LocalMDPrefix  = "x-md-local-"
)

type Metadata map[string][]string

func (m Metadata) Add(key, value string) {
	if len(key) == 0 {
		return
	}
	key = strings.ToLower(key)
	m[key] = append(m[key], value)
}

func (m Metadata) Values(key string) []string {
	return m[strings.ToLower(key)]
}

type metadataContext struct{}

func NewMetadataContext(ctx context.Context, md Metadata) context.Context {
	return context.WithValue(ctx, metadataContext{}, md)
}

func FromMetadataContext(ctx context.Context) (Metadata, bool) {
	md, ok := ctx.Value(metadataContext{}).(Metadata)
	return md, ok
}

type Wrapper struct {
	prefix []string
}

type Option func(*Wrapper)

func WithPrefix(prefix ...string) Option {
	return func(w *Wrapper) {
		w.prefix = prefix
	}
}

func NewWrapper(opts ...Option) *Wrapper {
	w := &Wrapper{
		prefix: []string{MDPrefix},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wrapper) HasPrefix(key string) bool {
	key = strings.ToLower(key)
	for _, prefix := range w.prefix {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Inject writes prefixed context metadata into the message headers.
// Flat headers hold a single value per key, so multi values are comma joined.
func Inject(ctx context.Context, c header.Carrier, opts ...Option) {
	md, ok := FromMetadataContext(ctx)
	if !ok {
		return
	}
	w := NewWrapper(opts...)
	for key, values := range md {
		if !w.HasPrefix(key) {
			continue
		}
		_ = c.Set(key, strings.Join(values, ","))
	}
}

// Extract lifts prefixed message headers into context metadata.
func Extract(ctx context.Context, c header.Carrier, opts ...Option) context.Context {
	w := NewWrapper(opts...)
	md := Metadata{}
	for _, key := range c.Keys() {
		if !w.HasPrefix(key) {
			continue
		}
		raw, ok := c.Lookup(key)
		if !ok {
			continue
		}
		var value string
		switch v := raw.(type) {
		case string:
			value = v
		case []byte:
			value = string(v)
		default:
			continue
		}
		for _, part := range strings.Split(value, ",") {
			md.Add(key, part)
		}
	}
	if len(md) == 0 {
		return ctx
	}
	return NewMetadataContext(ctx, md)
}
