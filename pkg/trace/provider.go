package trace

import (
	"log"
	"os"

	utils "github.com/go-slark/baton/pkg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	exporter, _ := stdouttrace.New(stdouttrace.WithWriter(utils.NoopWriter()))
	otel.SetTracerProvider(sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("baton"),
		)),
		sdktrace.WithBatcher(exporter),
	))
}

func NewZipkinProvider(url string) (trace.TracerProvider, error) {
	exporter, err := zipkin.New(
		url,
		zipkin.WithLogger(log.New(os.Stderr, "baton", log.Ldate|log.Ltime|log.Llongfile)),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("baton"),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
