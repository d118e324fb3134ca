// Package header abstracts the header set of an in-flight message so trace
// context can be read and written without knowing the transport.
package header

// NativeHeaders is the reserved flat key holding the multi-value header
// list on carriers without first-class native support.
const NativeHeaders = "nativeHeaders"

type Carrier interface {
	// Lookup returns the raw value stored under key.
	Lookup(key string) (interface{}, bool)
	// Set assigns value to key, replacing any previous value. It returns an
	// error when the underlying representation cannot hold the value.
	Set(key string, value interface{}) error
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
	// Keys lists the flat header names.
	Keys() []string
}

// NativeCarrier is implemented by carriers whose transport keeps a
// dedicated multi-value header list besides the flat headers.
type NativeCarrier interface {
	Carrier
	// SetNative replaces the list under key with the single value.
	SetNative(key, value string)
	// FirstNative returns the first list element under key.
	FirstNative(key string) (string, bool)
	// RemoveNative deletes the list under key.
	RemoveNative(key string)
}

// Headers is the multi-value list stored under NativeHeaders on plain
// carriers.
type Headers map[string][]string

func (h Headers) Set(key, value string) {
	h[key] = []string{value}
}

func (h Headers) Add(key, value string) {
	h[key] = append(h[key], value)
}

func (h Headers) First(key string) (string, bool) {
	values := h[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (h Headers) Values(key string) []string {
	return h[key]
}

func (h Headers) Remove(key string) {
	delete(h, key)
}
