// Package formkit turns declarative form schemas into live, stateful forms:
// schemas are validated and compiled by the parser, driven by the form
// controller, and materialised through the field registry's renderers.
package formkit

import (
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/parser"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// FormSchema is the declarative form description; alias exported via the root
// package for convenience.
type FormSchema = schema.FormSchema

// Field is one declared input unit.
type Field = schema.Field

// ParsedSchema is the validated, compiled artifact produced by Parse.
type ParsedSchema = parser.ParsedSchema

// Controller owns live form state for one form instance.
type Controller = form.Controller

// Registry maps field type tags to renderers.
type Registry = fields.Registry

// Parse validates a schema, resolves field dependencies, and compiles its
// validation contract.
func Parse(s *schema.FormSchema) (*parser.ParsedSchema, error) {
	return parser.Parse(s)
}

// ParseJSON decodes a JSON schema document and parses it.
func ParseJSON(data []byte) (*parser.ParsedSchema, error) {
	decoded, err := schema.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return parser.Parse(decoded)
}

// ParseYAML decodes a YAML schema document and parses it.
func ParseYAML(data []byte) (*parser.ParsedSchema, error) {
	decoded, err := schema.FromYAML(data)
	if err != nil {
		return nil, err
	}
	return parser.Parse(decoded)
}

// New builds a form controller over a parsed schema.
func New(parsed *parser.ParsedSchema, options ...form.Option) *form.Controller {
	return form.NewController(parsed, options...)
}

// NewRegistry creates an empty field renderer registry.
func NewRegistry() *fields.Registry {
	return fields.NewRegistry()
}

// NewDispatcher builds a renderer dispatcher over a registry.
func NewDispatcher(registry *fields.Registry, options ...fields.DispatchOption) *fields.Dispatcher {
	return fields.NewDispatcher(registry, options...)
}
