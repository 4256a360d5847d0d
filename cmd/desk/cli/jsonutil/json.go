// Package jsonutil provides the JSON encoding shared by desk's
// on-disk files: workspace records, CLI state, and credentials.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalIndentWithNewline marshals v indented and with a trailing
// newline. Record files end in a newline so they behave in pagers,
// diffs, and shell pipelines.
func MarshalIndentWithNewline(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}
