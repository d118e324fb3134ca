package header

import "context"

type carrierContext struct{}

// NewContext carries the message's header carrier for downstream
// middleware.
func NewContext(ctx context.Context, c Carrier) context.Context {
	return context.WithValue(ctx, carrierContext{}, c)
}

func FromContext(ctx context.Context) (Carrier, bool) {
	c, ok := ctx.Value(carrierContext{}).(Carrier)
	return c, ok
}
