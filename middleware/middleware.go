package middleware

import "context"

type Handler func(ctx context.Context, req interface{}) (interface{}, error)

type Middleware func(Handler) Handler

func ComposeMiddleware(mws ...Middleware) Middleware {
	return func(handler Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			handler = mws[i](handler)
		}
		return handler
	}
}

// SubType tells a middleware which side of the exchange it observes.
type SubType uint

const (
	Client SubType = iota
	Server
	Producer
	Consumer
)

func (st SubType) String() string {
	switch st {
	case Client:
		return "client"
	case Server:
		return "server"
	case Producer:
		return "producer"
	case Consumer:
		return "consumer"
	}
	return "unknown"
}

// Outbound reports whether the sub type initiates the exchange.
func (st SubType) Outbound() bool {
	return st == Client || st == Producer
}
