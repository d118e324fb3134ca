package transport

import (
	"context"

	"github.com/go-slark/baton/header"
)

const (
	Kafka = "kafka"
	NATS  = "nats"
	Redis = "redis"
	GRPC  = "grpc"
	HTTP  = "http"
)

type Server interface {
	Start() error
	Stop(ctx context.Context) error
}

// Transporter describes the in flight message for middleware.
type Transporter interface {
	Kind() string
	Operate() string
	Carrier() header.Carrier
}

type serverContext struct{}

func NewServerContext(ctx context.Context, trans Transporter) context.Context {
	return context.WithValue(ctx, serverContext{}, trans)
}

func FromServerContext(ctx context.Context) (Transporter, bool) {
	trans, ok := ctx.Value(serverContext{}).(Transporter)
	return trans, ok
}

type clientContext struct{}

func NewClientContext(ctx context.Context, trans Transporter) context.Context {
	return context.WithValue(ctx, clientContext{}, trans)
}

func FromClientContext(ctx context.Context) (Transporter, bool) {
	trans, ok := ctx.Value(clientContext{}).(Transporter)
	return trans, ok
}
