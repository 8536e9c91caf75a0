package output

import (
	"encoding/json"
	"io"
)

// JSONLWriter streams individual JSON objects one per line (JSON Lines
// format), suitable for large export result sets where each record is
// independent.
type JSONLWriter struct {
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONLWriter that writes to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{enc: enc}
}

// Write encodes a single value as one JSON line.
func (jw *JSONLWriter) Write(v any) error {
	return jw.enc.Encode(v)
}
