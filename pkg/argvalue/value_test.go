package argvalue

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [3, "x"]}`))
	require.NoError(t, err)
	require.Equal(t, KindMapping, v.Kind())

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Mapping().Keys())

	alpha, ok := v.Mapping().Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, alpha.Mapping().Keys())

	mid, ok := v.Mapping().Get("mid")
	require.True(t, ok)
	require.Len(t, mid.Items(), 2)
	assert.Equal(t, KindNumber, mid.Items()[0].Kind())
	assert.Equal(t, "3", mid.Items()[0].Text())
	assert.Equal(t, "x", mid.Items()[1].Text())
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		text  string
	}{
		{name: "null", input: "null", kind: KindNull},
		{name: "true", input: "true", kind: KindBool, text: "true"},
		{name: "integer literal kept", input: "10", kind: KindNumber, text: "10"},
		{name: "float literal kept", input: "1.50", kind: KindNumber, text: "1.50"},
		{name: "exponent literal kept", input: "1e5", kind: KindNumber, text: "1e5"},
		{name: "string", input: `"a:b"`, kind: KindString, text: "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.text, v.ScalarText())
		})
	}
}

func TestParse_DuplicateKeysKeepFirstPositionLastValue(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, v.Mapping().Keys())
	a, _ := v.Mapping().Get("a")
	assert.Equal(t, "3", a.Text())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated object", input: `{"a": 1`},
		{name: "trailing comma", input: `[1,]`},
		{name: "trailing data", input: `{"a": 1} {"b": 2}`},
		{name: "garbage", input: `not json`},
		{name: "missing colon", input: `{"a" 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	deep := strings.Repeat("[", MaxNesting+1) + strings.Repeat("]", MaxNesting+1)
	_, err := Parse([]byte(deep))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooDeep))

	ok := strings.Repeat("[", 100) + strings.Repeat("]", 100)
	_, err = Parse([]byte(ok))
	assert.NoError(t, err)
}

func TestParseObject(t *testing.T) {
	t.Run("blank input is an empty mapping", func(t *testing.T) {
		m, err := ParseObject([]byte("  \n\t"))
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("object", func(t *testing.T) {
		m, err := ParseObject([]byte(`{"name": "deploy"}`))
		require.NoError(t, err)
		name, ok := m.Get("name")
		require.True(t, ok)
		assert.Equal(t, "deploy", name.Text())
	})

	t.Run("array is rejected", func(t *testing.T) {
		_, err := ParseObject([]byte(`[1, 2]`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotObject))
	})

	t.Run("malformed is rejected", func(t *testing.T) {
		_, err := ParseObject([]byte(`{"name":`))
		assert.Error(t, err)
	})
}

func TestValue_MarshalJSONKeepsOrder(t *testing.T) {
	m := NewMapping().
		Set("z", Int(1)).
		Set("a", Sequence(Bool(false), Null(), String("<x>"))).
		Set("m", FromMapping(NewMapping().Set("k", Number("2.5"))))

	b, err := FromMapping(m).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[false,null,"<x>"],"m":{"k":2.5}}`, string(b))

	b, err = json.Marshal(FromMapping(m))
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[false,null,"\u003cx\u003e"],"m":{"k":2.5}}`, string(b), "encoding/json escapes HTML unless told otherwise")
}

func TestValue_MarshalJSONRejectsBadNumber(t *testing.T) {
	_, err := Number("1.2.3").MarshalJSON()
	assert.Error(t, err)
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{name: "null", value: Null(), want: false},
		{name: "false", value: Bool(false), want: false},
		{name: "true", value: Bool(true), want: true},
		{name: "zero", value: Number("0"), want: false},
		{name: "zero float", value: Number("0.0"), want: false},
		{name: "non-zero", value: Number("3"), want: true},
		{name: "empty string", value: String(""), want: false},
		{name: "string", value: String("host"), want: true},
		{name: "empty mapping", value: FromMapping(nil), want: false},
		{name: "mapping", value: FromMapping(NewMapping().Set("a", Null())), want: true},
		{name: "empty sequence", value: Sequence(), want: false},
		{name: "sequence", value: Sequence(Null()), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Truthy())
		})
	}
}

func TestValue_DisplayText(t *testing.T) {
	assert.Equal(t, "null", Null().DisplayText())
	assert.Equal(t, "true", Bool(true).DisplayText())
	assert.Equal(t, "3", Int(3).DisplayText())
	assert.Equal(t, "host", String("host").DisplayText())
	assert.Equal(t, `[1,"a"]`, Sequence(Int(1), String("a")).DisplayText())
	assert.Equal(t, "", Sequence(Int(1)).ScalarText())
}

func TestValue_Interface(t *testing.T) {
	v, err := Parse([]byte(`{"a": [1, "x", true, null], "b": {"c": 2}}`))
	require.NoError(t, err)

	got := v.Interface()
	assert.Equal(t, map[string]any{
		"a": []any{json.Number("1"), "x", true, nil},
		"b": map[string]any{"c": json.Number("2")},
	}, got)
}

func TestMapping_NilIsEmpty(t *testing.T) {
	var m *Mapping
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Empty(t, m.Keys())
}

func TestTrimSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"\t\n\v\f\r x \r\n", "x"},
		{"\x1c\x1d\x1e\x1f", ""},
		{"\x1fa b\x1c", "a b"},
		{"\u0085\u00a0\u2028x\u2029\u3000", "x"},
		{"a\x1cb", "a\x1cb"},
		{"\x1b", "\x1b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimSpace(tt.in), "TrimSpace(%q)", tt.in)
	}
}
