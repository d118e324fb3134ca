package metrics

import "github.com/prometheus/client_golang/prometheus"

// register adds vec to the default registry. A vec already registered
// under the same fully qualified name is reused instead, so middlewares
// sharing a metric name observe into one collector.
func register[T prometheus.Collector](vec T) T {
	err := prometheus.Register(vec)
	if err == nil {
		return vec
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		panic(err)
	}
	return are.ExistingCollector.(T)
}
