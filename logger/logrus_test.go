package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	utils "github.com/go-slark/baton/pkg"
	"github.com/stretchr/testify/assert"
)

func TestLogCarriesCorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLog(WithWriter(buf), WithSrvName("demo"))
	ctx := context.WithValue(context.Background(), utils.TraceID, "abc123")
	l.Log(ctx, InfoLevel, map[string]interface{}{"k": "v"}, "hello")

	line := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc123", line[utils.TraceID])
	assert.Equal(t, "demo", line[utils.LogName])
	assert.Equal(t, "v", line["k"])
}

func TestLogLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLog(WithWriter(buf), WithLevel("error"))
	l.Log(context.Background(), InfoLevel, nil, "dropped")
	assert.Zero(t, buf.Len())
	l.Log(context.Background(), ErrorLevel, nil, "kept")
	assert.NotZero(t, buf.Len())
}
