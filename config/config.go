package config

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-slark/baton/config/source/file"
	"github.com/go-slark/baton/encoding"
	"github.com/go-slark/baton/pkg/routine"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Source supplies raw config bytes and signals when they change.
type Source interface {
	Load() ([]byte, error)
	Watch() <-chan struct{}
	Close() error
	Format() string
}

type Config struct {
	l         sync.RWMutex
	changed   map[string]any
	cached    sync.Map
	callback  []func(*sync.Map)
	format    string
	delimiter string
	src       Source
}

type Option func(*Config)

func WithSource(src Source) Option {
	return func(c *Config) {
		c.src = src
	}
}

func WithCallback(callback ...func(*sync.Map)) Option {
	return func(c *Config) {
		c.callback = append(c.callback, callback...)
	}
}

func New(opts ...Option) *Config {
	c := &Config{
		changed:   make(map[string]any),
		l:         sync.RWMutex{},
		cached:    sync.Map{},
		delimiter: ".",
		callback:  make([]func(*sync.Map), 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.src == nil {
		c.src = file.NewFile("config.toml")
	}
	c.format = c.src.Format()
	return c
}

func (c *Config) Load() error {
	cfg, err := c.src.Load()
	if err != nil {
		return err
	}
	err = c.load(cfg)
	if err != nil {
		return err
	}
	c.notify()
	routine.GoSafe(context.TODO(), func() {
		for range c.src.Watch() {
			data, err := c.src.Load()
			if err != nil {
				continue
			}
			_ = c.load(data)
			c.notify()
		}
	})
	return nil
}

func (c *Config) load(data []byte) error {
	codec := encoding.GetCodec(c.format)
	if codec == nil {
		return errors.Errorf("codec %s not registered", c.format)
	}
	cfg := make(map[string]any)
	err := codec.Unmarshal(data, &cfg)
	if err != nil {
		return err
	}
	c.apply(cfg)
	return nil
}

func (c *Config) apply(cfg map[string]any) {
	c.l.Lock()
	defer c.l.Unlock()
	merge(c.changed, cfg)
	data := flatten(c.changed, "", c.delimiter)
	for k, v := range data {
		vv, ok := c.cached.Load(k)
		if !ok || !reflect.DeepEqual(vv, v) {
			c.cached.Store(k, v)
		}
	}
}

func (c *Config) notify() {
	c.l.RLock()
	defer c.l.RUnlock()
	for _, callback := range c.callback {
		callback(&c.cached)
	}
}

func (c *Config) find(key string) any {
	data, ok := c.cached.Load(key)
	if ok {
		return data
	}

	paths := strings.Split(key, c.delimiter)
	c.l.RLock()
	defer c.l.RUnlock()
	m := submap(c.changed, paths[:len(paths)-1]...)
	data = m[paths[len(paths)-1]]
	c.cached.Store(key, data)
	return data
}

// Set overrides a single key in memory until the next source reload.
func (c *Config) Set(key, value string) {
	paths := strings.Split(key, c.delimiter)
	c.l.Lock()
	m := ensure(c.changed, paths[:len(paths)-1])
	m[paths[len(paths)-1]] = value
	c.l.Unlock()
	c.apply(map[string]any{})
}

func (c *Config) Get(key string) any {
	return c.find(key)
}

func (c *Config) GetString(key string) string {
	return cast.ToString(c.Get(key))
}

// Unmarshal decodes the subtree at paths into value, converting string
// values from flat sources to the target field types.
func (c *Config) Unmarshal(value any, paths ...string) error {
	c.l.RLock()
	defer c.l.RUnlock()
	m := submap(c.changed, paths...)
	return mapstructure.WeakDecode(m, value)
}

func (c *Config) Close() error {
	return c.src.Close()
}
