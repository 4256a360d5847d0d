package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalIndentWithNewline(t *testing.T) {
	data, err := MarshalIndentWithNewline(map[string]int{"a": 1}, "", "  ")
	require.NoError(t, err)

	out := string(data)
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n', "output ends with a newline")
	assert.Contains(t, out, "\"a\": 1", "output is indented")
}
