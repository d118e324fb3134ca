package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Address         string `mapstructure:"address"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	DialTimeout     int    `mapstructure:"dial_timeout"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	PoolTimeout     int    `mapstructure:"pool_timeout"`
	ConnMaxIdle     int    `mapstructure:"conn_max_idle"`
	ConnMaxLife     int    `mapstructure:"conn_max_life"`
	MaxRetry        int    `mapstructure:"max_retry"`
	PoolSize        int    `mapstructure:"pool_size"`
	MinIdleConns    int    `mapstructure:"min_idle_conns"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"`
}

type Client struct {
	*redis.Client
}

// NewClient dials redis and instruments every command with tracing, so
// stream reads and writes join the message's trace.
func NewClient(c *Config) (*Client, error) {
	options := &redis.Options{
		Network:  "tcp",
		Addr:     c.Address,
		Password: c.Password,
		DB:       c.DB,
	}

	if c.DialTimeout != 0 {
		options.DialTimeout = time.Duration(c.DialTimeout) * time.Second
	}
	if c.ReadTimeout != 0 {
		options.ReadTimeout = time.Duration(c.ReadTimeout) * time.Second
	}
	if c.WriteTimeout != 0 {
		options.WriteTimeout = time.Duration(c.WriteTimeout) * time.Second
	}
	if c.PoolTimeout != 0 {
		options.PoolTimeout = time.Duration(c.PoolTimeout) * time.Second
	}
	if c.ConnMaxIdle != 0 {
		options.ConnMaxIdleTime = time.Duration(c.ConnMaxIdle) * time.Second
	}
	if c.ConnMaxLife != 0 {
		options.ConnMaxLifetime = time.Duration(c.ConnMaxLife) * time.Second
	}
	if c.MaxRetry != 0 {
		options.MaxRetries = c.MaxRetry
	}
	if c.PoolSize != 0 {
		options.PoolSize = c.PoolSize
	}
	if c.MinIdleConns != 0 {
		options.MinIdleConns = c.MinIdleConns
	}
	if c.MaxRetryBackoff != 0 {
		options.MaxRetryBackoff = time.Duration(c.MaxRetryBackoff) * time.Millisecond
	}
	client := redis.NewClient(options)
	_, err := client.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	err = redisotel.InstrumentTracing(client)
	return &Client{Client: client}, err
}

func (c *Client) Close() error {
	return c.Client.Close()
}
