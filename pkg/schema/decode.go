package schema

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FromJSON decodes a schema document from JSON. Decoding is structural only;
// use the parser package to establish semantic validity.
func FromJSON(data []byte) (*FormSchema, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("schema: empty JSON document")
	}
	var out FormSchema
	if err := gojson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("schema: decode JSON: %w", err)
	}
	return &out, nil
}

// FromYAML decodes a schema document from YAML.
func FromYAML(data []byte) (*FormSchema, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("schema: empty YAML document")
	}
	var out FormSchema
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("schema: decode YAML: %w", err)
	}
	return &out, nil
}
