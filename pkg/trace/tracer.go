package trace

import (
	"context"

	"github.com/go-slark/baton/header"
	utils "github.com/go-slark/baton/pkg"
	"github.com/go-slark/baton/propagation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

type Tracer struct {
	provider   trace.TracerProvider
	propagator otelpropagation.TextMapPropagator
	headers    *propagation.Propagation
	tracer     trace.Tracer
	kind       trace.SpanKind
	name       string
}

type Option func(option *Tracer)

func Name(name string) Option {
	return func(option *Tracer) {
		option.name = name
	}
}

func Provider(provider trace.TracerProvider) Option {
	return func(option *Tracer) {
		option.provider = provider
	}
}

func Propagator(propagator otelpropagation.TextMapPropagator) Option {
	return func(option *Tracer) {
		option.propagator = propagator
	}
}

func Propagation(p *propagation.Propagation) Option {
	return func(option *Tracer) {
		option.headers = p
	}
}

func NewTracer(kind trace.SpanKind, opts ...Option) *Tracer {
	exporter, _ := stdouttrace.New(stdouttrace.WithWriter(utils.NoopWriter()))
	tracer := &Tracer{
		provider: sdktrace.NewTracerProvider(
			sdktrace.WithResource(resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName("baton"),
			)),
			sdktrace.WithBatcher(exporter),
		),
		propagator: otelpropagation.NewCompositeTextMapPropagator(otelpropagation.Baggage{}, otelpropagation.TraceContext{}, B3{}),
		headers:    propagation.New(),
		kind:       kind,
		name:       "baton",
	}
	for _, opt := range opts {
		opt(tracer)
	}
	otel.SetTracerProvider(tracer.provider)
	tracer.tracer = otel.Tracer(tracer.name)
	return tracer
}

// Start extracts the upstream context on the consumer side and injects the
// span context on the producer side. Producer injection strips any trace
// headers left from a consumed message first, so a forwarded message never
// carries a stale span.
func (t *Tracer) Start(ctx context.Context, name string, c header.Carrier, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if c == nil {
		return t.tracer.Start(ctx, name, opts...)
	}
	carrier := NewCarrier(t.headers, c)
	if t.kind == trace.SpanKindServer || t.kind == trace.SpanKindConsumer {
		ctx = t.propagator.Extract(ctx, carrier)
	}
	ctx, span := t.tracer.Start(ctx, name, opts...)
	if t.kind == trace.SpanKindClient || t.kind == trace.SpanKindProducer {
		propagation.RemoveHeaders(c, t.headers.Keys()...)
		t.propagator.Inject(ctx, carrier)
	}
	return ctx, span
}

func (t *Tracer) Kind() trace.SpanKind {
	return t.kind
}

func (t *Tracer) Name() string {
	return t.name
}
