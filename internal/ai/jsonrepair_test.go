package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence(`{"a":1}`))
}

func TestRepairEmbeddedQuotes(t *testing.T) {
	// ק"ג inside a string value breaks parsing; the quote becomes gershayim.
	assert.Equal(t, `{"unit": "ק״ג"}`, RepairEmbeddedQuotes(`{"unit": "ק"ג"}`))
	// Structural quotes survive.
	assert.Equal(t, `{"a": "b"}`, RepairEmbeddedQuotes(`{"a": "b"}`))
}

func TestRepairEmbeddedQuotesOverlapping(t *testing.T) {
	assert.Equal(t, `א״ב״ג`, RepairEmbeddedQuotes(`א"ב"ג`))
}

func TestEscapeControlChars(t *testing.T) {
	escaped := EscapeControlChars("{\"name\": \"שורה\nשניה\"}")
	assert.Equal(t, `{"name": "שורה\nשניה"}`, escaped)
}

func TestUnmarshalLenientPlain(t *testing.T) {
	var v map[string]string
	require.NoError(t, UnmarshalLenient(`{"a": "b"}`, &v))
	assert.Equal(t, "b", v["a"])
}

func TestUnmarshalLenientFenced(t *testing.T) {
	var v map[string]float64
	require.NoError(t, UnmarshalLenient("```json\n{\"total\": 42}\n```", &v))
	assert.Equal(t, 42.0, v["total"])
}

func TestUnmarshalLenientEmbeddedQuote(t *testing.T) {
	var v map[string]string
	require.NoError(t, UnmarshalLenient(`{"unit": "ק"ג"}`, &v))
	assert.Equal(t, "ק״ג", v["unit"])
}

func TestUnmarshalLenientControlChars(t *testing.T) {
	var v map[string]string
	require.NoError(t, UnmarshalLenient("{\"name\": \"עגבניות\nשרי\"}", &v))
	assert.Equal(t, "עגבניות\nשרי", v["name"])
}

func TestUnmarshalLenientUnrepairable(t *testing.T) {
	var v map[string]string
	assert.Error(t, UnmarshalLenient("this is not json at all", &v))
}

func TestFlexibleFloat64(t *testing.T) {
	var v struct {
		A FlexibleFloat64 `json:"a"`
		B FlexibleFloat64 `json:"b"`
		C FlexibleFloat64 `json:"c"`
		D FlexibleFloat64 `json:"d"`
	}
	require.NoError(t, UnmarshalLenient(`{"a": 12.5, "b": "1,250", "c": null, "d": "₪99.90"}`, &v))
	assert.Equal(t, FlexibleFloat64(12.5), v.A)
	assert.Equal(t, FlexibleFloat64(1250), v.B)
	assert.Equal(t, FlexibleFloat64(0), v.C)
	assert.Equal(t, FlexibleFloat64(99.90), v.D)
}
