package trace

import (
	"github.com/go-slark/baton/header"
	"github.com/go-slark/baton/propagation"
	otelpropagation "go.opentelemetry.io/otel/propagation"
)

// propagator Carrier

var _ otelpropagation.TextMapCarrier = (*Carrier)(nil)

// Carrier binds a header carrier and the header propagation, so any otel
// propagator reads and writes through the alias and native aware paths.
type Carrier struct {
	propagation *propagation.Propagation
	carrier     header.Carrier
}

func NewCarrier(p *propagation.Propagation, c header.Carrier) *Carrier {
	if p == nil {
		p = propagation.New()
	}
	return &Carrier{
		propagation: p,
		carrier:     c,
	}
}

func (c *Carrier) Get(key string) string {
	return c.propagation.Get(c.carrier, key)
}

func (c *Carrier) Set(key, value string) {
	c.propagation.Set(c.carrier, key, value)
}

func (c *Carrier) Keys() []string {
	return c.carrier.Keys()
}
