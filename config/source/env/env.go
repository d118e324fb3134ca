package env

import (
	"context"
	"os"
	"strings"

	"github.com/go-slark/baton/encoding"
	"github.com/go-slark/baton/encoding/json"
)

type Env struct {
	prefix []string
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Env)

func Prefix(prefix ...string) Option {
	return func(e *Env) {
		e.prefix = prefix
	}
}

// New reads config from prefixed environment variables. Matching is case
// insensitive and the prefix is stripped from the resulting keys.
func New(opts ...Option) *Env {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Env{
		prefix: []string{"baton_"},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) Load() ([]byte, error) {
	mp := make(map[string]any)
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		key = strings.ToLower(key)
		prefix, ok := e.match(key)
		if !ok {
			continue
		}
		key = strings.TrimPrefix(strings.TrimPrefix(key, prefix), "_")
		if key == "" {
			continue
		}
		mp[key] = value
	}
	return encoding.GetCodec(json.Name).Marshal(mp)
}

func (e *Env) match(key string) (string, bool) {
	for _, prefix := range e.prefix {
		p := strings.ToLower(prefix)
		if strings.HasPrefix(key, p) && len(p) != len(key) {
			return p, true
		}
	}
	return "", false
}

// Watch never fires, the environment does not change under a running
// process. The channel closes with the source.
func (e *Env) Watch() <-chan struct{} {
	return e.ctx.Done()
}

func (e *Env) Close() error {
	e.cancel()
	return nil
}

func (e *Env) Format() string {
	return json.Name
}
