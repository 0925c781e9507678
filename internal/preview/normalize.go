package preview

import (
	"encoding/json"
	"strings"
)

// FieldValue is a media reference field decoded exactly once at the boundary.
// Historical rows sometimes store a JSON object in place of a plain URL, so
// the ambiguity is modeled here instead of being re-sniffed on every read.
type FieldValue struct {
	URL     string
	Wrapped bool
}

// DecodeField interprets a raw stored value. JSON-looking values are parsed
// and the url, link or id field is taken, first present in that order.
// Malformed JSON is never an error; the raw value passes through unchanged.
func DecodeField(raw string) FieldValue {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return FieldValue{URL: raw}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return FieldValue{URL: raw}
	}
	for _, key := range []string{"url", "link", "id"} {
		if v, ok := obj[key].(string); ok && v != "" {
			return FieldValue{URL: v, Wrapped: true}
		}
	}
	return FieldValue{URL: raw}
}

// Normalize returns the clean URL for a raw stored value.
func Normalize(raw string) string {
	return DecodeField(raw).URL
}
