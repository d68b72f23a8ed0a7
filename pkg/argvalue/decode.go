package argvalue

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// MaxNesting bounds how deep Parse will follow nested objects and arrays.
const MaxNesting = 10000

var (
	// ErrTooDeep is returned when a document nests deeper than MaxNesting.
	ErrTooDeep = errors.New("input too deeply nested")
	// ErrNotObject is returned by ParseObject for valid JSON that is not an object.
	ErrNotObject = errors.New("payload is not a JSON object")
)

// Parse decodes exactly one JSON value from data, keeping object keys in
// document order and numbers as their literal text.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return Value{}, errors.New("unexpected data after top-level value")
		}
		return Value{}, errors.Wrap(err, "invalid data after top-level value")
	}
	return v, nil
}

// ParseObject decodes a skill payload. Blank input is an empty mapping;
// anything other than a single JSON object is an error.
func ParseObject(data []byte) (*Mapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewMapping(), nil
	}

	v, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse payload")
	}
	if v.Kind() != KindMapping {
		return nil, errors.Wrapf(ErrNotObject, "got %s", v.Kind())
	}
	return v.Mapping(), nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= MaxNesting {
			return Value{}, ErrTooDeep
		}
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
	}
	return Value{}, errors.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	m := NewMapping()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, errors.Errorf("object key must be a string, got %v", tok)
		}
		item, err := decodeValue(dec, depth+1)
		if err != nil {
			return Value{}, err
		}
		m.Set(key, item)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return Value{}, err
	}
	return FromMapping(m), nil
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		item, err := decodeValue(dec, depth+1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return Value{}, err
	}
	return Sequence(items...), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
