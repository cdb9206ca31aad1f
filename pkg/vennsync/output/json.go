// Package output serializes command results.
package output

import (
	"bytes"
	"encoding/json"
)

// ToJSON encodes v as JSON, indented by two spaces when pretty is set.
// HTML characters are left unescaped.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
