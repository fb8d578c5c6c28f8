package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotSpecified is the literal sentinel the extraction model is instructed
// to return for fields it cannot determine. It is distinct from an absent
// key: every result for a fixed document type carries the full template key
// set, with unknowns holding this value.
const NotSpecified = "Not specified"

// Fields is an insertion-ordered mapping of field name to extracted value.
// For fixed document types the key set and order match the type's field
// template; for generic documents the order is whatever the model returned.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields returns an empty Fields mapping.
func NewFields() Fields {
	return Fields{values: make(map[string]string)}
}

// Set stores a value, appending the key to the order on first sight.
func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (f Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Value returns the value for key, or the empty string when absent.
func (f Fields) Value(key string) string {
	return f.values[key]
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// IsFilled reports whether key holds a real value: present, non-empty and
// not the NotSpecified sentinel.
func (f Fields) IsFilled(key string) bool {
	v, ok := f.values[key]
	return ok && v != "" && v != NotSpecified
}

// Keys returns the field names in insertion order.
func (f Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of fields.
func (f Fields) Len() int {
	return len(f.keys)
}

// FilledCount returns how many fields hold a real value.
func (f Fields) FilledCount() int {
	n := 0
	for _, k := range f.keys {
		if f.IsFilled(k) {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := Fields{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]string, len(f.values)),
	}
	copy(out.keys, f.keys)
	for k, v := range f.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object with keys in insertion
// order, so serialized results are deterministic and mirror the template.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object of string values, preserving the
// key order of the source document.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected JSON object, got %v", tok)
	}
	f.keys = nil
	f.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fields: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fields: value for %q is not a string: %w", key, err)
		}
		f.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
