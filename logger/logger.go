package logger

import "context"

const (
	PanicLevel uint = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

type Logger interface {
	Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{})
}

var defaultLogger Logger = NewLog()

func SetLogger(l Logger) {
	defaultLogger = l
}

func GetLogger() Logger {
	return defaultLogger
}

func Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{}) {
	defaultLogger.Log(ctx, level, fields, v...)
}
