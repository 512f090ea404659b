package keymap

import "strings"

// Metadata is an ordered string-to-string mapping attached to a shortcut.
// Keys keep their insertion order; setting an existing key updates it in
// place.
type Metadata struct {
	pairs []pair
}

type pair struct {
	key, value string
}

// NewMetadata builds metadata from alternating key/value arguments.
// A trailing key without a value is ignored.
func NewMetadata(kv ...string) Metadata {
	var m Metadata
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// Set adds or updates key.
func (m *Metadata) Set(key, value string) {
	for i := range m.pairs {
		if m.pairs[i].key == key {
			m.pairs[i].value = value
			return
		}
	}
	m.pairs = append(m.pairs, pair{key, value})
}

// Get returns the value for key.
func (m Metadata) Get(key string) (string, bool) {
	for _, p := range m.pairs {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" if absent.
func (m Metadata) Value(key string) string {
	v, _ := m.Get(key)
	return v
}

// Delete removes key if present.
func (m *Metadata) Delete(key string) {
	for i := range m.pairs {
		if m.pairs[i].key == key {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (m Metadata) Keys() []string {
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.key
	}
	return keys
}

// Len returns the number of entries.
func (m Metadata) Len() int {
	return len(m.pairs)
}

// Range calls fn for each entry in order until fn returns false.
func (m Metadata) Range(fn func(key, value string) bool) {
	for _, p := range m.pairs {
		if !fn(p.key, p.value) {
			return
		}
	}
}

// Clone returns an independent copy.
func (m Metadata) Clone() Metadata {
	if len(m.pairs) == 0 {
		return Metadata{}
	}
	out := Metadata{pairs: make([]pair, len(m.pairs))}
	copy(out.pairs, m.pairs)
	return out
}

// Map returns the entries as an unordered map.
func (m Metadata) Map() map[string]string {
	out := make(map[string]string, len(m.pairs))
	for _, p := range m.pairs {
		out[p.key] = p.value
	}
	return out
}

// String renders the entries as "k=v" pairs in order.
func (m Metadata) String() string {
	parts := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		parts[i] = p.key + "=" + p.value
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
