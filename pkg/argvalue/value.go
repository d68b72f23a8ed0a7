// Package argvalue models the loosely typed JSON arguments handed to a skill
// as an explicit tagged union. A Value is a finite tree of scalars, ordered
// mappings and sequences; key order from the source document is preserved so
// anything serialized from it is deterministic.
package argvalue

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

// String returns the lower-case name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of an argument tree. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string
	mapping *Mapping
	items   []Value
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// Bool wraps a boolean
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Number wraps a JSON number literal such as "42" or "1.5e3". The literal is
// kept verbatim; formatting is left to the consumer.
func Number(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

// Int wraps an integer
func Int(i int64) Value {
	return Number(strconv.FormatInt(i, 10))
}

// String wraps a string
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// FromMapping wraps m. A nil mapping becomes an empty one.
func FromMapping(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, mapping: m}
}

// Sequence wraps the given items in order
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsStructured reports whether v is a mapping or a sequence
func (v Value) IsStructured() bool {
	return v.kind == KindMapping || v.kind == KindSequence
}

// AsBool returns the boolean payload; false for any other kind
func (v Value) AsBool() bool {
	return v.kind == KindBool && v.boolean
}

// Text returns the string payload or the number literal
func (v Value) Text() string {
	if v.kind == KindString || v.kind == KindNumber {
		return v.text
	}
	return ""
}

// Mapping returns the mapping payload, or nil when v is not a mapping
func (v Value) Mapping() *Mapping {
	if v.kind != KindMapping {
		return nil
	}
	return v.mapping
}

// Items returns the sequence payload, or nil when v is not a sequence
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Truthy follows the usual dynamic-language notion of truth: null, false,
// zero, the empty string and empty containers are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return true
		}
		return f != 0
	case KindString:
		return v.text != ""
	case KindMapping:
		return v.mapping.Len() > 0
	case KindSequence:
		return len(v.items) > 0
	default:
		return false
	}
}

// ScalarText renders strings, numbers and booleans as plain text. Null and
// structured values have no scalar text and yield "".
func (v Value) ScalarText() string {
	switch v.kind {
	case KindString, KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// TrimSpace strips leading and trailing whitespace. Besides unicode.IsSpace
// it treats the information separators U+001C to U+001F as whitespace, the
// same set a Python str.strip() removes.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// DisplayText is ScalarText extended to every kind: null renders as "null"
// and structured values as compact JSON.
func (v Value) DisplayText() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindMapping, KindSequence:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return v.ScalarText()
	}
}

// Interface converts v into plain Go values: nil, bool, json.Number, string,
// map[string]any and []any. Key order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return json.Number(v.text)
	case KindString:
		return v.text
	case KindMapping:
		out := make(map[string]any, v.mapping.Len())
		v.mapping.Each(func(key string, item Value) {
			out[key] = item.Interface()
		})
		return out
	case KindSequence:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes v with mapping keys in insertion order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		if !json.Valid([]byte(v.text)) {
			return errors.Errorf("invalid number literal %q", v.text)
		}
		buf.WriteString(v.text)
	case KindString:
		if err := encodeString(buf, v.text); err != nil {
			return err
		}
	case KindMapping:
		return v.mapping.encode(buf)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return errors.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "failed to encode string")
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Mapping is a string-keyed map that remembers insertion order. Setting an
// existing key replaces its value in place.
type Mapping struct {
	entries *orderedmap.OrderedMap[string, Value]
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{entries: orderedmap.New[string, Value]()}
}

// Set stores value under key and returns m for chaining
func (m *Mapping) Set(key string, value Value) *Mapping {
	m.entries.Set(key, value)
	return m
}

// Get looks up key
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	return m.entries.Get(key)
}

// Len returns the number of keys. A nil mapping is empty.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return m.entries.Len()
}

// Each calls fn for every entry in insertion order
func (m *Mapping) Each(fn func(key string, value Value)) {
	if m == nil {
		return
	}
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Keys returns the keys in insertion order
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Each(func(key string, _ Value) {
		keys = append(keys, key)
	})
	return keys
}

// MarshalJSON encodes m with keys in insertion order
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Mapping) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	var err error
	m.Each(func(key string, value Value) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = encodeString(buf, key); err != nil {
			return
		}
		buf.WriteByte(':')
		err = value.encode(buf)
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}
