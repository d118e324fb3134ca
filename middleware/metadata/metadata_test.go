package metadata

import (
	"context"
	"testing"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/pkg/metadata"
	"github.com/go-slark/baton/transport"
	"github.com/stretchr/testify/assert"
)

type mockTransport struct {
	carrier header.Carrier
}

func (t *mockTransport) Kind() string {
	return transport.NATS
}

func (t *mockTransport) Operate() string {
	return "demo.subject"
}

func (t *mockTransport) Carrier() header.Carrier {
	return t.carrier
}

func TestServerExtractsMetadata(t *testing.T) {
	headers := header.Map{"x-md-uid": "10086", "trace-id": "abc123"}
	ctx := transport.NewServerContext(context.Background(), &mockTransport{carrier: headers})
	_, err := Server()(func(ctx context.Context, req interface{}) (interface{}, error) {
		md, ok := metadata.FromMetadataContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, []string{"10086"}, md.Values("x-md-uid"))
		assert.Empty(t, md.Values("trace-id"))
		return nil, nil
	})(ctx, nil)
	assert.NoError(t, err)
}

func TestClientInjectsMetadata(t *testing.T) {
	md := metadata.Metadata{}
	md.Add("x-md-uid", "10086")
	headers := header.Map{}
	ctx := metadata.NewMetadataContext(context.Background(), md)
	ctx = transport.NewClientContext(ctx, &mockTransport{carrier: headers})
	_, err := Client()(func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	})(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, "10086", headers["x-md-uid"])
}

func TestWithoutTransport(t *testing.T) {
	called := false
	_, err := Server()(func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		_, ok := metadata.FromMetadataContext(ctx)
		assert.False(t, ok)
		return nil, nil
	})(context.Background(), nil)
	assert.NoError(t, err)
	assert.True(t, called)
}
