package utils

import (
	"io"

	"github.com/google/uuid"
)

const (
	LogName = "log-name"
	TraceID = "x-request-id"
	SpanID  = "x-span-id"
)

func BuildRequestID() string {
	return uuid.New().String()
}

type noopWriter struct{}

func (w *noopWriter) Write([]byte) (int, error) {
	return 0, nil
}

func NoopWriter() io.Writer {
	return &noopWriter{}
}
