// Package output serialises report results as JSON.
package output

import (
	"bytes"
	"encoding/json"
	"io"
)

// ToJSON encodes v. With pretty set the output is indented by two spaces.
// HTML characters are not escaped so labels such as "R&D" stay readable.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v, pretty); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON encodes v to w followed by a newline.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
