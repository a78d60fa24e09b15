package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// MarshalPretty renders v in the store's on-disk entry format: map keys
// sorted, 4-space indentation. This form is stable across codecs so that
// external analysis tooling can diff entry files.
func MarshalPretty(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "    ")
}

// Default is the default codec used by the library.
var Default Codec = GoJSON{}
