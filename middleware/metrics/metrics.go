package metrics

import (
	"context"
	"time"

	"github.com/go-slark/baton/middleware"
	"github.com/go-slark/baton/transport"
)

// Labels fixed at construction are positional, Values supplies them in
// the same order on every observation.

type VecOptions struct {
	name       string
	help       string
	namespace  string
	subSystem  string
	labels     []string
	buckets    []float64
	objectives map[float64]float64
}

func newVecOptions() *VecOptions {
	return &VecOptions{
		name:       "vec",
		help:       "help",
		namespace:  "mq",
		subSystem:  "message",
		labels:     []string{"kind", "operation"},
		buckets:    []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		objectives: nil,
	}
}

type VecOpts func(options *VecOptions)

func Name(name string) VecOpts {
	return func(o *VecOptions) {
		o.name = name
	}
}

func Namespace(ns string) VecOpts {
	return func(o *VecOptions) {
		o.namespace = ns
	}
}

func Help(h string) VecOpts {
	return func(o *VecOptions) {
		o.help = h
	}
}

func SubSystem(s string) VecOpts {
	return func(o *VecOptions) {
		o.subSystem = s
	}
}

func Labels(labels []string) VecOpts {
	return func(o *VecOptions) {
		o.labels = labels
	}
}

func Buckets(buckets []float64) VecOpts {
	return func(o *VecOptions) {
		o.buckets = buckets
	}
}

func Objectives(objectives map[float64]float64) VecOpts {
	return func(o *VecOptions) {
		o.objectives = objectives
	}
}

type Option struct {
	counter   Counter
	gauge     Gauge
	histogram Histogram
}

type Options func(*Option)

func WithCounter(c Counter) Options {
	return func(o *Option) {
		o.counter = c
	}
}

func WithGauge(g Gauge) Options {
	return func(o *Option) {
		o.gauge = g
	}
}

func WithHistogram(h Histogram) Options {
	return func(o *Option) {
		o.histogram = h
	}
}

func Metrics(st middleware.SubType, opts ...Options) middleware.Middleware {
	o := &Option{
		counter:   NewCounter(Name("total"), Help("messages handled")),
		histogram: NewHistogram(Name("duration_ms"), Help("message handling duration in milliseconds")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			var (
				trans transport.Transporter
				ok    bool
			)
			if st.Outbound() {
				trans, ok = transport.FromClientContext(ctx)
			} else {
				trans, ok = transport.FromServerContext(ctx)
			}
			var kind, operation string
			if ok {
				kind = trans.Kind()
				operation = trans.Operate()
			}
			start := time.Now()
			rsp, err := handler(ctx, req)
			if o.histogram != nil {
				o.histogram.Values(kind, operation).Observe(float64(time.Since(start).Milliseconds()))
			}
			if o.counter != nil {
				o.counter.Values(kind, operation).Inc()
			}
			return rsp, err
		}
	}
}
