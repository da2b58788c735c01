package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainObject(t *testing.T) {
	out, err := Extract(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtract_SurroundingProse(t *testing.T) {
	out, err := Extract("Sure, here is the analysis:\n{\"a\": 1}\nLet me know if you need more.")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtract_MarkdownFence(t *testing.T) {
	out, err := Extract("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtract_NoJSON(t *testing.T) {
	_, err := Extract("no json here")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	err := Decode("```json\n{\"a\": 7}\n```", &v)
	require.NoError(t, err)
	assert.Equal(t, 7, v.A)
}

func TestDecode_MalformedJSON(t *testing.T) {
	var v struct{ A int }
	err := Decode(`{"a": }`, &v)
	assert.Error(t, err)
}
