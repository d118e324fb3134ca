package properties

import (
	"github.com/go-slark/baton/encoding"
	"github.com/gookit/properties"
)

const Name = "properties"

var _ encoding.Codec = codec{}

type codec struct{}

func init() {
	encoding.RegisterCodec(codec{})
}

func (c codec) Marshal(v any) ([]byte, error) {
	return properties.Marshal(v)
}

func (c codec) Unmarshal(data []byte, v any) error {
	return properties.Unmarshal(data, v)
}

func (c codec) Name() string {
	return Name
}
