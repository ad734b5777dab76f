package parser

import (
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// ParsedField pairs one declared field with its derived artifacts: its
// dependency slice, the flattened conditional rules that reference it, and
// its compiled validation rule. ParsedFields are rebuilt on every parse and
// never mutated in place.
type ParsedField struct {
	Field            schema.Field
	Dependencies     []string
	ConditionalRules []schema.ConditionalRule
	ValidationRule   validation.Rule
}

// ParsedSchema is the validated, dependency-resolved, validation-compiled
// artifact consumers render and drive forms from. It is immutable once
// produced; the form controller treats it as read-only configuration.
type ParsedSchema struct {
	Fields           []ParsedField
	Validation       validation.Rules
	ConditionalRules []schema.ConditionalRule
	Dependencies     DependencyGraph
}

// Field returns the parsed field with the given id.
func (p *ParsedSchema) Field(id string) (ParsedField, bool) {
	if p == nil {
		return ParsedField{}, false
	}
	for _, pf := range p.Fields {
		if pf.Field.ID == id {
			return pf, true
		}
	}
	return ParsedField{}, false
}

// Parse validates a schema, resolves its dependency graph, and compiles its
// validation contract into one ParsedSchema. It fails with a
// *SchemaValidationError when the structure is invalid and with a
// *CircularDependencyError when conditional or option-source references form
// a cycle. This is the only entry point external callers need; Validate,
// ResolveDependencies, and validation.Compile stay separable for reuse.
func Parse(s *schema.FormSchema) (*ParsedSchema, error) {
	if result := Validate(s); !result.Valid {
		return nil, &SchemaValidationError{Errors: result.Errors}
	}

	graph, err := ResolveDependencies(s)
	if err != nil {
		return nil, err
	}

	rules := validation.Compile(s)

	parsed := &ParsedSchema{
		Fields:       make([]ParsedField, 0, len(s.Fields)),
		Validation:   rules,
		Dependencies: graph,
	}

	for _, field := range s.Fields {
		conditionals := flattenConditionals(field.Conditional)
		parsed.Fields = append(parsed.Fields, ParsedField{
			Field:            field,
			Dependencies:     graph[field.ID],
			ConditionalRules: conditionals,
			ValidationRule:   rules.PerField[field.ID],
		})
		parsed.ConditionalRules = append(parsed.ConditionalRules, conditionals...)
	}

	return parsed, nil
}

func flattenConditionals(cfg *schema.ConditionalConfig) []schema.ConditionalRule {
	var rules []schema.ConditionalRule
	for _, list := range cfg.Lists() {
		rules = append(rules, list.Rules...)
	}
	return rules
}
