package header

// Map adapts a plain header map. It has no native list of its own, the
// multi-value store lives under the NativeHeaders key as a Headers value.
type Map map[string]interface{}

func (m Map) Lookup(key string) (interface{}, bool) {
	value, ok := m[key]
	return value, ok
}

func (m Map) Set(key string, value interface{}) error {
	m[key] = value
	return nil
}

func (m Map) Remove(key string) {
	delete(m, key)
}

func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
