// Package paramshape summarizes the structure of a parameter document.
//
// Simplify keeps top-level scalars and replaces every container with a compact
// marker describing its shape:
//
//	[*EM*]          empty list or object
//	[*LI:n*]        list of n scalars
//	[*CO:n:k1,k2*]  list of n objects, keyed like its first object
//	[*CO:n*]        list of n lists
//	[*RE:k1,k2*]    object with the given keys
//
// Keys are ordered with a natural, case-insensitive collation, so "item2"
// sorts before "item10". The top-level order is kept in the returned Shape
// and in its encodings.
package paramshape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"xdao.co/keyflow/model"
)

const emptyMarker = "[*EM*]"

// Field is one top-level entry of a Shape.
type Field struct {
	Key   string
	Value any
}

// Shape is a simplified document. Its fields are kept in natural key order,
// and both its msgpack and JSON encodings preserve that order.
type Shape []Field

// Keys returns the field keys in order.
func (s Shape) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// Map returns the fields as an unordered map.
func (s Shape) Map() map[string]any {
	m := make(map[string]any, len(s))
	for _, f := range s {
		m[f.Key] = f.Value
	}
	return m
}

// Encode returns the msgpack encoding of s.
func (s Shape) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, model.WrapError(model.KindSerialization, "KF-SHAPE-003", "msgpack encode", err)
	}
	return b, nil
}

// EncodeMsgpack writes s as a msgpack map with keys in field order.
func (s Shape) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(s)); err != nil {
		return err
	}
	for _, f := range s {
		if err := enc.EncodeString(f.Key); err != nil {
			return err
		}
		if err := enc.Encode(f.Value); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads a msgpack map, keeping its key order.
func (s *Shape) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	if n < 0 {
		*s = nil
		return nil
	}
	out := make(Shape, 0, n)
	for i := 0; i < n; i++ {
		k, err := dec.DecodeString()
		if err != nil {
			return err
		}
		v, err := dec.DecodeInterface()
		if err != nil {
			return err
		}
		out = append(out, Field{Key: k, Value: v})
	}
	*s = out
	return nil
}

// MarshalJSON writes s as a JSON object with keys in field order and without
// HTML escaping.
func (s Shape) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Simplify returns the shape summary of input. The input is not modified.
func Simplify(input map[string]any) Shape {
	out := make(Shape, 0, len(input))
	for _, k := range sortedKeys(mapKeys(input)) {
		out = append(out, Field{Key: k, Value: simplifyValue(input[k])})
	}
	return out
}

// SimplifyJSON decodes a JSON object and returns its shape summary.
func SimplifyJSON(data []byte) (Shape, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, model.WrapError(model.KindSerialization, "KF-SHAPE-001", "invalid JSON", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, model.NewError(model.KindSerialization, "KF-SHAPE-002", "input must be a non-null object")
	}
	return Simplify(obj), nil
}

// Encode returns the msgpack encoding of Simplify(input).
func Encode(input map[string]any) ([]byte, error) {
	return Simplify(input).Encode()
}

// Decode reverses Encode, keeping the encoded key order.
func Decode(b []byte) (Shape, error) {
	var out Shape
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return nil, model.WrapError(model.KindDecode, "KF-SHAPE-004", "msgpack decode", err)
	}
	return out, nil
}

func simplifyValue(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return simplifyList(rv)
	case reflect.Map:
		if rv.Len() == 0 {
			return emptyMarker
		}
		return "[*RE:" + strings.Join(sortedKeys(reflectKeys(rv)), ",") + "*]"
	default:
		return v
	}
}

func simplifyList(rv reflect.Value) any {
	n := rv.Len()
	if n == 0 {
		return emptyMarker
	}
	var first reflect.Value
	for i := 0; i < n; i++ {
		if e := deref(rv.Index(i)); e.IsValid() {
			first = e
			break
		}
	}
	if !first.IsValid() {
		return fmt.Sprintf("[*LI:%d*]", n)
	}
	switch first.Kind() {
	case reflect.Map:
		return fmt.Sprintf("[*CO:%d:%s*]", n, strings.Join(sortedKeys(reflectKeys(first)), ","))
	case reflect.Slice, reflect.Array:
		if first.Kind() == reflect.Slice && first.Type().Elem().Kind() == reflect.Uint8 {
			return fmt.Sprintf("[*LI:%d*]", n)
		}
		return fmt.Sprintf("[*CO:%d*]", n)
	default:
		return fmt.Sprintf("[*LI:%d*]", n)
	}
}

// deref unwraps interfaces and pointers; a nil one yields the zero Value.
func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func reflectKeys(rv reflect.Value) []string {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, fmt.Sprint(k.Interface()))
	}
	return keys
}

// sortedKeys sorts in place by natural case-insensitive collation, with byte
// order breaking ties.
func sortedKeys(keys []string) []string {
	// collate.Collator is not safe for concurrent use.
	c := collate.New(language.English, collate.Numeric, collate.IgnoreCase)
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.CompareString(keys[i], keys[j]) < 0
	})
	return keys
}
