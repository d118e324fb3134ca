// Package encoding holds the codec registry the config sources share.
// Sources declare their wire format by name and the loader resolves the
// codec at parse time.
package encoding

import "strings"

type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	// Name identifies the format, lower case by convention.
	Name() string
}

var codecs = make(map[string]Codec)

// RegisterCodec makes a codec resolvable by name, case insensitively.
// Registering a nil or unnamed codec is a programming error.
func RegisterCodec(codec Codec) {
	if codec == nil || len(codec.Name()) == 0 {
		panic("register codec without a name")
	}
	codecs[strings.ToLower(codec.Name())] = codec
}

func GetCodec(format string) Codec {
	return codecs[strings.ToLower(format)]
}
