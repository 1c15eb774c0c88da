package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeric_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Numeric `json:"a"`
		B Numeric `json:"b"`
		C Numeric `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 10, "b": "9", "c": null}`), &v))

	a, ok := v.A.Int()
	assert.True(t, ok)
	assert.Equal(t, 10, a)

	b, ok := v.B.Int()
	assert.True(t, ok)
	assert.Equal(t, 9, b)

	_, ok = v.C.Int()
	assert.False(t, ok)
	assert.Equal(t, 7, v.C.IntOr(7))

	err := json.Unmarshal([]byte(`{"a": {"x": 1}}`), &v)
	assert.Error(t, err)
}

func TestNumeric_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Numeric `json:"a"`
		B Numeric `json:"b"`
	}{A: "12", B: "n/a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 12, "b": "n/a"}`, string(out))
}

func TestNumericGreater(t *testing.T) {
	assert.False(t, NumericGreater("9", "10"))
	assert.True(t, NumericGreater("10", "9"))
	assert.True(t, NumericGreater("2.5", "2"))
	assert.False(t, NumericGreater("Inf", "1"))
	assert.False(t, NumericGreater("1", "abc"))
	assert.False(t, NumericGreater("", ""))
}
