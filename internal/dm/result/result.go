// Package result holds decoded DM fields in an ordered, string-keyed store.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the type of a stored value.
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindU32
	KindString
	KindBytes
)

// String returns a short name for the value kind.
func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU32:
		return "u32"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is one stored field.
type Value struct {
	Kind  Kind
	U8    uint8
	U32   uint32
	Str   string
	Bytes []byte
}

// Any returns the value as its natural Go type.
func (v Value) Any() any {
	switch v.Kind {
	case KindU8:
		return v.U8
	case KindU32:
		return v.U32
	case KindString:
		return v.Str
	case KindBytes:
		return v.Bytes
	default:
		return nil
	}
}

// Result is an ordered set of decoded fields. Re-adding a key replaces its
// value in place.
type Result struct {
	keys   []string
	values map[string]Value
}

// New returns an empty Result.
func New() *Result {
	return &Result{values: make(map[string]Value)}
}

func (r *Result) put(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// AddU8 stores an 8-bit value.
func (r *Result) AddU8(key string, v uint8) {
	r.put(key, Value{Kind: KindU8, U8: v})
}

// AddU32 stores a 32-bit value.
func (r *Result) AddU32(key string, v uint32) {
	r.put(key, Value{Kind: KindU32, U32: v})
}

// AddString stores a text value.
func (r *Result) AddString(key string, v string) {
	r.put(key, Value{Kind: KindString, Str: v})
}

// AddBytes stores a copy of b.
func (r *Result) AddBytes(key string, b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	r.put(key, Value{Kind: KindBytes, Bytes: cp})
}

// Get returns the raw value for key.
func (r *Result) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// U8 returns the 8-bit value stored under key.
func (r *Result) U8(key string) (uint8, bool) {
	v, ok := r.values[key]
	if !ok || v.Kind != KindU8 {
		return 0, false
	}
	return v.U8, true
}

// U32 returns the 32-bit value stored under key.
func (r *Result) U32(key string) (uint32, bool) {
	v, ok := r.values[key]
	if !ok || v.Kind != KindU32 {
		return 0, false
	}
	return v.U32, true
}

// String returns the text value stored under key.
func (r *Result) String(key string) (string, bool) {
	v, ok := r.values[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// Bytes returns the byte array stored under key. The slice is shared with the
// Result and must not be modified.
func (r *Result) Bytes(key string) ([]byte, bool) {
	v, ok := r.values[key]
	if !ok || v.Kind != KindBytes {
		return nil, false
	}
	return v.Bytes, true
}

// Keys returns the keys in insertion order.
func (r *Result) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of stored fields.
func (r *Result) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the fields as a JSON object in insertion order. Byte
// arrays are rendered as hex strings.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v := r.values[key]
		var enc []byte
		if v.Kind == KindBytes {
			enc, err = json.Marshal(fmt.Sprintf("%x", v.Bytes))
		} else {
			enc, err = json.Marshal(v.Any())
		}
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.Write(enc)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
