package annot

// Args is the parsed argument block of an annotation. Key order follows
// the order keys appeared in the source text.
type Args struct {
	keys   []string
	values map[string]any
}

// NewArgs returns an empty argument set.
func NewArgs() *Args {
	return &Args{values: map[string]any{}}
}

// Set adds or overwrites a key. A new key is appended to the order.
func (a *Args) Set(key string, value any) {
	if a.values == nil {
		a.values = map[string]any{}
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get looks up a key.
func (a *Args) Get(key string) (any, bool) {
	if a == nil || a.values == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the keys in source order.
func (a *Args) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len reports the number of keys.
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Map returns a plain map copy for handing to generator code.
func (a *Args) Map() map[string]any {
	out := map[string]any{}
	if a == nil {
		return out
	}
	for k, v := range a.values {
		out[k] = v
	}
	return out
}
