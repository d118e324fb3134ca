package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	utils "github.com/go-slark/baton/pkg"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type log struct {
	*logrus.Logger
}

var _ Logger = (*log)(nil)

// NewLog builds a logrus backed Logger. The hook stamps every entry with
// the service name plus the trace and span ids of the entry context, so
// log lines land next to the message's trace.
func NewLog(opts ...FuncOpts) Logger {
	le := &logEntity{
		name:   "baton",
		level:  logrus.DebugLevel,
		levels: logrus.AllLevels,
		formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		},
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(le)
	}
	l := logrus.New()
	l.SetFormatter(le.formatter)
	l.SetLevel(le.level)
	l.SetOutput(le.writer)
	l.SetReportCaller(le.reportCaller)
	l.AddHook(le)
	return &log{Logger: l}
}

var logrusLevels = map[uint]logrus.Level{
	PanicLevel: logrus.PanicLevel,
	FatalLevel: logrus.FatalLevel,
	ErrorLevel: logrus.ErrorLevel,
	WarnLevel:  logrus.WarnLevel,
	InfoLevel:  logrus.InfoLevel,
	DebugLevel: logrus.DebugLevel,
	TraceLevel: logrus.TraceLevel,
}

func (l *log) Log(ctx context.Context, level uint, fields map[string]interface{}, v ...interface{}) {
	lv, ok := logrusLevels[level]
	if !ok {
		lv = logrus.DebugLevel
	}
	l.WithContext(ctx).WithFields(fields).Log(lv, v...)
}

// logrus opt

type logEntity struct {
	name         string
	level        logrus.Level
	levels       []logrus.Level
	formatter    logrus.Formatter
	writer       io.Writer
	writers      map[logrus.Level]io.Writer
	reportCaller bool
}

var _ logrus.Hook = (*logEntity)(nil)

type FuncOpts func(*logEntity)

func WithSrvName(name string) FuncOpts {
	return func(l *logEntity) {
		l.name = name
	}
}

func WithLevel(level string) FuncOpts {
	return func(l *logEntity) {
		lv, err := logrus.ParseLevel(level)
		if err != nil {
			panic(fmt.Errorf("logrus parse level fail, level:%s, err:%+v", level, err))
		}
		l.level = lv
	}
}

func WithFormatter(formatter logrus.Formatter) FuncOpts {
	return func(l *logEntity) {
		l.formatter = formatter
	}
}

func WithWriter(writer io.Writer) FuncOpts {
	return func(l *logEntity) {
		l.writer = writer
	}
}

func WithDispatcher(dispatcher map[string]io.Writer) FuncOpts {
	return func(l *logEntity) {
		l.levels = make([]logrus.Level, 0, len(dispatcher))
		l.writers = make(map[logrus.Level]io.Writer, len(dispatcher))
		maxLevel := logrus.Level(len(logrus.AllLevels))
		for level, writer := range dispatcher {
			lv, err := logrus.ParseLevel(level)
			if err != nil {
				continue
			}
			if maxLevel <= lv {
				continue
			}
			l.writers[lv] = writer
			l.levels = append(l.levels, lv)
		}
	}
}

func WithReportCaller(caller bool) FuncOpts {
	return func(l *logEntity) {
		l.reportCaller = caller
	}
}

func (l *logEntity) Levels() []logrus.Level {
	return l.levels
}

func (l *logEntity) Fire(entry *logrus.Entry) error {
	if entry.Context != nil {
		sc := trace.SpanContextFromContext(entry.Context)
		if sc.HasTraceID() {
			entry.Data[utils.TraceID] = sc.TraceID().String()
		}
		if sc.HasSpanID() {
			entry.Data[utils.SpanID] = sc.SpanID().String()
		}
		if _, ok := entry.Data[utils.TraceID]; !ok {
			// no live span, fall back to the correlation id
			rid, ok := entry.Context.Value(utils.TraceID).(string)
			if ok {
				entry.Data[utils.TraceID] = rid
			}
		}
	}
	entry.Data[utils.LogName] = l.name

	// per level writer dispatch
	writer, ok := l.writers[entry.Level]
	if !ok {
		return nil
	}
	eb, err := entry.Bytes()
	if err != nil {
		return err
	}
	_, err = writer.Write(eb)
	return err
}
