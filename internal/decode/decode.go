// Package decode turns raw database values into parsed JSON values.
// The store holds payloads written by another program, so decoding is
// deliberately tolerant: anything that cannot be parsed comes back as nil
// rather than an error.
package decode

import (
	"encoding/json"
	"log/slog"
	"unicode/utf8"
)

// Value parses a raw database value as JSON.
// Returns nil for nil input, invalid UTF-8, or malformed JSON; otherwise the
// decoded value of whatever JSON type the payload holds (object, array,
// string, number, bool, or nil for a JSON null literal). Callers that need
// an object must check the type themselves.
func Value(data []byte) any {
	if data == nil {
		return nil
	}
	if !utf8.Valid(data) {
		slog.Debug("value is not valid UTF-8", "len", len(data))
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Debug("failed to decode JSON value", "error", err)
		return nil
	}
	return v
}

// String parses a string value as JSON with the same contract as Value.
func String(s string) any {
	return Value([]byte(s))
}

// Object parses a raw database value and returns it only if it decoded to a
// JSON object.
func Object(data []byte) (map[string]any, bool) {
	m, ok := Value(data).(map[string]any)
	return m, ok
}
