package toml

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/go-slark/baton/encoding"
)

const Name = "toml"

var _ encoding.Codec = codec{}

type codec struct{}

func init() {
	encoding.RegisterCodec(codec{})
}

func (c codec) Name() string {
	return Name
}

func (c codec) Marshal(v any) ([]byte, error) {
	buf := bytes.Buffer{}
	err := toml.NewEncoder(&buf).Encode(v)
	return buf.Bytes(), err
}

func (c codec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
