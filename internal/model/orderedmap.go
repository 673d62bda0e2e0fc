package model

import (
	"bytes"
	"encoding/json"
)

// OrderedStringMap is a minimal insertion-ordered string-to-T map,
// standing in for Rust's `indexmap::IndexMap` (§3 requires index and
// checksum to preserve insertion order). golang-dep has no equivalent of
// its own — its manifest dependency maps are plain unordered
// `map[string]possibleProps` because Go-import-path dependency order
// never needed to be stable on disk — but sysand's symbol index and
// checksum table are observed byte-for-byte (S2), so order must survive
// a read-modify-write cycle.
type OrderedStringMap[V any] struct {
	keys   []string
	values map[string]V
}

func NewOrderedStringMap[V any]() *OrderedStringMap[V] {
	return &OrderedStringMap[V]{values: make(map[string]V)}
}

func (m *OrderedStringMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or updates key, preserving its original position if it
// already existed. Returns the previous value, if any.
func (m *OrderedStringMap[V]) Set(key string, value V) (V, bool) {
	old, existed := m.values[key]
	if !existed {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return old, existed
}

// Delete removes key, returning its previous value if present.
func (m *OrderedStringMap[V]) Delete(key string) (V, bool) {
	old, existed := m.values[key]
	if existed {
		delete(m.values, key)
		for i, k := range m.keys {
			if k == key {
				m.keys = append(m.keys[:i], m.keys[i+1:]...)
				break
			}
		}
	}
	return old, existed
}

func (m *OrderedStringMap[V]) Len() int { return len(m.keys) }

func (m *OrderedStringMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedStringMap[V]) Each(f func(key string, value V)) {
	for _, k := range m.keys {
		f(k, m.values[k])
	}
}

func (m *OrderedStringMap[V]) Clone() *OrderedStringMap[V] {
	if m == nil {
		return nil
	}
	out := NewOrderedStringMap[V]()
	out.keys = append([]string(nil), m.keys...)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON encodes the map as a JSON object, keys in insertion order.
func (m *OrderedStringMap[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	buf := []byte{'{'}
	for i, k := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON decodes a JSON object, preserving the key order found in
// the source document.
func (m *OrderedStringMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	*m = *NewOrderedStringMap[V]()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var value V
		if err := dec.Decode(&value); err != nil {
			return err
		}
		m.Set(key, value)
	}
	return nil
}
