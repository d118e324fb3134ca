package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeMiddleware(t *testing.T) {
	order := make([]string, 0, 5)
	tag := func(name string) Middleware {
		return func(handler Handler) Handler {
			return func(ctx context.Context, req interface{}) (interface{}, error) {
				order = append(order, name+" in")
				rsp, err := handler(ctx, req)
				order = append(order, name+" out")
				return rsp, err
			}
		}
	}
	rsp, err := ComposeMiddleware(tag("first"), tag("second"))(func(ctx context.Context, req interface{}) (interface{}, error) {
		order = append(order, "handler")
		return "ok", nil
	})(context.TODO(), nil)
	assert.NoError(t, err)
	assert.Equal(t, "ok", rsp)
	assert.Equal(t, []string{"first in", "second in", "handler", "second out", "first out"}, order)
}

func TestSubType(t *testing.T) {
	assert.True(t, Client.Outbound())
	assert.True(t, Producer.Outbound())
	assert.False(t, Server.Outbound())
	assert.False(t, Consumer.Outbound())
	assert.Equal(t, "producer", Producer.String())
	assert.Equal(t, "consumer", Consumer.String())
}
