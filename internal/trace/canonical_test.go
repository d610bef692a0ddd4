package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of ints", Array{Int(1), Int(2), Int(3)}, "[1,2,3]"},
		{"simple object", Object{"a": Int(1)}, `{"a":1}`},
		{"go types", map[string]any{"b": true, "a": int64(2), "c": []any{"x"}}, `{"a":2,"b":true,"c":["x"]}`},
		{"string slice", []string{"j_kubi", "j_kao"}, `["j_kubi","j_kao"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Object{"b": Int(1), "a": Int(2)},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"a":2,"b":1},"zebra":1}`, string(result))
}

func TestMarshalUTF16Ordering(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FF61
	// in UTF-16 but after it in UTF-8.
	obj := Object{
		"\uFF61":     Int(1),
		"\U0001F600": Int(2),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF61\":1}", string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	result, err := Marshal(String("<a>&</a>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a>&</a>"`, string(result))
}

func TestMarshalRejectsFloats(t *testing.T) {
	_, err := Marshal(map[string]any{"x": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalRejectsNull(t *testing.T) {
	_, err := Marshal(nil)
	require.Error(t, err)

	_, err = Marshal(map[string]any{"x": nil})
	require.Error(t, err)
}

func TestMarshalNFC(t *testing.T) {
	decomposed := "j_cafe\u0301"
	result, err := Marshal(Object{decomposed: String(decomposed)})
	require.NoError(t, err)
	assert.Equal(t, "{\"j_caf\u00e9\":\"j_caf\u00e9\"}", string(result))
}

func TestMarshalLineSeparators(t *testing.T) {
	result, err := Marshal(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))
}

func TestMarshalLiteralBackslashU2028(t *testing.T) {
	// A literal backslash followed by the text u2028 stays escaped.
	result, err := Marshal(String(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestCompareKeys(t *testing.T) {
	assert.Equal(t, 0, compareKeys("a", "a"))
	assert.Equal(t, -1, compareKeys("a", "b"))
	assert.Equal(t, 1, compareKeys("b", "a"))
	assert.Equal(t, -1, compareKeys("a", "ab"))
	assert.Equal(t, 1, compareKeys("\uFF61", "\U0001F600"))
}
