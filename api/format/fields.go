package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// Fields is an ordered, read-only mapping of field names to raw values.
// Values are string, json.Number, bool, nil, or json.RawMessage for a nested
// value. Order is the order in which fields appeared in the source.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields builds Fields from keys in order and their values.
// A key listed twice keeps its first position. Keys absent from values hold nil.
func NewFields(keys []string, values map[string]any) Fields {
	var b fieldsBuilder
	for _, k := range keys {
		b.set(k, values[k])
	}
	return b.build()
}

// Keys returns the field names in source order
func (f Fields) Keys() []string {
	return slices.Clone(f.keys)
}

// Len returns the number of fields
func (f Fields) Len() int {
	return len(f.keys)
}

// Has reports whether key is present
func (f Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Value returns the raw value stored for key
func (f Fields) Value(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// String returns the display form of the value stored for key, or "" when
// the key is absent.
func (f Fields) String(key string) string {
	return Stringify(f.values[key])
}

// All iterates fields in source order
func (f Fields) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range f.keys {
			if !yield(k, f.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON writes the fields as a JSON object, keeping source order.
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
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Stringify converts a raw field value to its display form.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return string(v)
	case json.RawMessage:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

type fieldsBuilder struct {
	keys   []string
	values map[string]any
}

func (b *fieldsBuilder) set(key string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

func (b *fieldsBuilder) build() Fields {
	if b.values == nil {
		return Fields{values: map[string]any{}}
	}
	return Fields{keys: b.keys, values: b.values}
}
