package logging

import (
	"context"
	"testing"

	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/logger"
	"github.com/go-slark/baton/middleware"
	"github.com/go-slark/baton/transport"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type entry struct {
	level  uint
	fields map[string]interface{}
}

type mockLogger struct {
	entries []entry
}

func (l *mockLogger) Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{}) {
	l.entries = append(l.entries, entry{level: level, fields: fields})
}

type mockTransport struct{}

func (t *mockTransport) Kind() string {
	return transport.Kafka
}

func (t *mockTransport) Operate() string {
	return "demo_topic"
}

func (t *mockTransport) Carrier() header.Carrier {
	return header.Map{}
}

func TestLogConsumer(t *testing.T) {
	l := &mockLogger{}
	ctx := transport.NewServerContext(context.Background(), &mockTransport{})
	rsp, err := Log(middleware.Consumer, l)(func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})(ctx, []byte("payload"))
	assert.NoError(t, err)
	assert.Equal(t, "ok", rsp)
	assert.Len(t, l.entries, 2)
	assert.Equal(t, logger.DebugLevel, l.entries[0].level)
	assert.Equal(t, "7 bytes", l.entries[0].fields["request"])
	assert.Equal(t, "demo_topic", l.entries[0].fields["operation"])
	assert.Equal(t, "consumer", l.entries[1].fields["type"])
	assert.Equal(t, "ok", l.entries[1].fields["response"])
}

func TestLogProducerError(t *testing.T) {
	l := &mockLogger{}
	ctx := transport.NewClientContext(context.Background(), &mockTransport{})
	_, err := Log(middleware.Producer, l)(func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("broker down")
	})(ctx, []byte("payload"))
	assert.Error(t, err)
	assert.Len(t, l.entries, 2)
	assert.Equal(t, logger.ErrorLevel, l.entries[1].level)
	assert.Contains(t, l.entries[1].fields, "error")
}

func TestLogWithoutTransport(t *testing.T) {
	l := &mockLogger{}
	rsp, err := Log(middleware.Consumer, l)(func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, "ok", rsp)
	assert.Empty(t, l.entries)
}
