package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind)

	var keys []string
	for _, m := range v.Obj.Members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{"null", `null`, KindNull},
		{"bool", `true`, KindBool},
		{"integer", `42`, KindNumber},
		{"float", `3.14`, KindNumber},
		{"string", `"hello"`, KindString},
		{"array", `[1, 2]`, KindArray},
		{"object", `{"a": 1}`, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Kind)
		})
	}
}

func TestIsInt(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`30`, true},
		{`-7`, true},
		{`100.0`, false},
		{`1e3`, false},
		{`0.5`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.IsInt())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated object", `{"a":`},
		{"trailing data", `{} {}`},
		{"bare word", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestObjectGetAndRemove(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": {"c": true}, "d": 3}`))
	require.NoError(t, err)

	b, ok := v.Obj.Get("b")
	require.True(t, ok)
	assert.Equal(t, KindObject, b.Kind)

	_, ok = v.Obj.Get("missing")
	assert.False(t, ok)

	removed, ok := v.Obj.Remove("b")
	require.True(t, ok)
	assert.Equal(t, KindObject, removed.Kind)
	assert.False(t, v.Obj.Has("b"))
	assert.Equal(t, 2, v.Obj.Len())

	_, ok = v.Obj.Remove("b")
	assert.False(t, ok)
}

func TestInterface(t *testing.T) {
	v, err := Parse([]byte(`{"n": 7, "f": 1.5, "s": "x", "b": false, "nul": null, "arr": [1, "two"]}`))
	require.NoError(t, err)

	got := v.Interface().(map[string]any)
	assert.Equal(t, int64(7), got["n"])
	assert.Equal(t, 1.5, got["f"])
	assert.Equal(t, "x", got["s"])
	assert.Equal(t, false, got["b"])
	assert.Nil(t, got["nul"])
	assert.Equal(t, []any{int64(1), "two"}, got["arr"])
}
