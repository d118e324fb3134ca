// Package propagation moves trace context fields in and out of message
// headers. Every write lands in the flat and native header stores and is
// mirrored under the legacy header name, so current and older consumers
// read the same trace.
package propagation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/logger"
	"github.com/pkg/errors"
)

const (
	TraceID  = "trace-id"
	SpanID   = "span-id"
	ParentID = "parent-id"
	Sampled  = "sampled"
	Flags    = "flags"

	LegacyTraceID  = "X-B3-TraceId"
	LegacySpanID   = "X-B3-SpanId"
	LegacyParentID = "X-B3-ParentSpanId"
	LegacySampled  = "X-B3-Sampled"
	LegacyFlags    = "X-B3-Flags"
)

// Aliases maps each current header name to the legacy name older
// consumers still read.
func Aliases() map[string]string {
	return map[string]string{
		TraceID:  LegacyTraceID,
		SpanID:   LegacySpanID,
		ParentID: LegacyParentID,
		Sampled:  LegacySampled,
		Flags:    LegacyFlags,
	}
}

type Propagation struct {
	aliases map[string]string
	logger  logger.Logger
}

type Option func(*Propagation)

// WithAliases replaces the default table for callers whose tracing setup
// uses different current names. The table is copied and never mutated
// afterwards.
func WithAliases(aliases map[string]string) Option {
	return func(p *Propagation) {
		p.aliases = make(map[string]string, len(aliases))
		for key, legacy := range aliases {
			p.aliases[key] = legacy
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(p *Propagation) {
		p.logger = l
	}
}

func New(opts ...Option) *Propagation {
	p := &Propagation{
		aliases: Aliases(),
		logger:  logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Keys lists every header name writes may touch, current and legacy.
func (p *Propagation) Keys() []string {
	keys := make([]string, 0, 2*len(p.aliases))
	for key, legacy := range p.aliases {
		keys = append(keys, key, legacy)
	}
	return keys
}

// Set writes value under key and repeats the write under the legacy name
// when key has one. A store that cannot take the value is logged at debug
// level and skipped, Set never fails.
func (p *Propagation) Set(c header.Carrier, key, value string) {
	p.set(c, key, value)
	legacy, ok := p.aliases[key]
	if !ok {
		return
	}
	p.set(c, legacy, value)
}

func (p *Propagation) set(c header.Carrier, key, value string) {
	err := put(c, key, value)
	if err != nil {
		p.logger.Log(context.TODO(), logger.DebugLevel, map[string]interface{}{"error": fmt.Sprintf("%+v", err), "key": key}, "set header fail")
	}
}

func put(c header.Carrier, key, value string) error {
	err := c.Set(key, value)
	if err != nil {
		return errors.WithMessage(err, "flat header")
	}
	if nc, ok := c.(header.NativeCarrier); ok {
		nc.SetNative(key, value)
		return nil
	}
	native, err := nativeBlock(c)
	if err != nil {
		return err
	}
	if native == nil {
		native = header.Headers{}
		err = c.Set(header.NativeHeaders, native)
		if err != nil {
			return errors.WithMessage(err, "native headers")
		}
	}
	native.Set(key, value)
	return nil
}

// Get reads the value under key, trying the native store before the flat
// one and falling back to the legacy name when the current one is absent
// or unreadable. Blank values count as absent. Get returns "" when the
// field is not propagated.
func (p *Propagation) Get(c header.Carrier, key string) string {
	value, err := fetch(c, key)
	if err == nil && hasText(value) {
		return value
	}
	if err != nil {
		p.logger.Log(context.TODO(), logger.DebugLevel, map[string]interface{}{"error": fmt.Sprintf("%+v", err), "key": key}, "get header fail")
	}
	legacy, ok := p.aliases[key]
	if !ok {
		return ""
	}
	value, err = fetch(c, legacy)
	if err != nil {
		p.logger.Log(context.TODO(), logger.DebugLevel, map[string]interface{}{"error": fmt.Sprintf("%+v", err), "key": legacy}, "get legacy header fail")
		return ""
	}
	if !hasText(value) {
		return ""
	}
	return value
}

func fetch(c header.Carrier, key string) (string, error) {
	if nc, ok := c.(header.NativeCarrier); ok {
		value, ok := nc.FirstNative(key)
		if ok {
			return value, nil
		}
	} else if value, ok := firstNative(c, key); ok {
		return value, nil
	}
	raw, ok := c.Lookup(key)
	if !ok || raw == nil {
		return "", nil
	}
	return text(raw)
}

// firstNative inspects the opaque native block for any map shape whose
// key yields a non empty list.
func firstNative(c header.Carrier, key string) (string, bool) {
	raw, ok := c.Lookup(header.NativeHeaders)
	if !ok {
		return "", false
	}
	switch native := raw.(type) {
	case header.Headers:
		return native.First(key)
	case map[string][]string:
		return header.Headers(native).First(key)
	case map[string]interface{}:
		values, ok := native[key].([]string)
		if ok && len(values) > 0 {
			return values[0], true
		}
		list, ok := native[key].([]interface{})
		if ok && len(list) > 0 {
			value, err := text(list[0])
			if err == nil {
				return value, true
			}
		}
	}
	return "", false
}

func nativeBlock(c header.Carrier) (header.Headers, error) {
	raw, ok := c.Lookup(header.NativeHeaders)
	if !ok || raw == nil {
		return nil, nil
	}
	switch native := raw.(type) {
	case header.Headers:
		return native, nil
	case map[string][]string:
		return header.Headers(native), nil
	default:
		return nil, errors.Errorf("unexpected native header type %T", raw)
	}
}

func text(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		if !utf8.Valid(v) {
			return "", errors.New("header bytes are not valid utf-8")
		}
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// RemoveHeaders deletes keys from the flat and native stores. The alias
// table is not consulted, pass legacy names explicitly (see Keys).
func RemoveHeaders(c header.Carrier, keys ...string) {
	nc, native := c.(header.NativeCarrier)
	for _, key := range keys {
		c.Remove(key)
		if native {
			nc.RemoveNative(key)
		}
	}
	if native {
		return
	}
	raw, ok := c.Lookup(header.NativeHeaders)
	if !ok {
		return
	}
	switch block := raw.(type) {
	case header.Headers:
		for _, key := range keys {
			block.Remove(key)
		}
	case map[string][]string:
		for _, key := range keys {
			delete(block, key)
		}
	case map[string]interface{}:
		for _, key := range keys {
			delete(block, key)
		}
	}
}

// PropagationHeaders copies the listed keys from a consumed message's
// headers so they can be forwarded on a produced one.
func PropagationHeaders(headers map[string]interface{}, keys []string) map[string]interface{} {
	copied := make(map[string]interface{}, len(keys))
	for key, value := range headers {
		for _, k := range keys {
			if key == k {
				copied[key] = value
				break
			}
		}
	}
	return copied
}
