package parser

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Result is the outcome of a structural validation pass. Errors accumulates
// every violation found; validation never stops at the first problem.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks a schema for structural validity: identity, field shape,
// duplicate ids, and conditional references. It never panics and reports all
// violations it can find. A nil schema yields a single error and no further
// checks.
func Validate(s *schema.FormSchema) Result {
	if s == nil {
		return Result{Valid: false, Errors: []string{"schema is required"}}
	}

	var errs []string
	if s.ID == "" {
		errs = append(errs, "schema id is required")
	}
	if len(s.Fields) == 0 {
		errs = append(errs, "schema must declare at least one field")
	}

	known := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		if field.ID != "" {
			known[field.ID] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		errs = append(errs, validateField(idx, field, known, seen)...)
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func validateField(idx int, field schema.Field, known, seen map[string]struct{}) []string {
	var errs []string

	name := field.ID
	if name == "" {
		name = fmt.Sprintf("fields[%d]", idx)
		errs = append(errs, fmt.Sprintf("%s: id is required", name))
	} else {
		if _, dup := seen[field.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate field id: %s", field.ID))
		}
		seen[field.ID] = struct{}{}
	}
	if field.Label == "" {
		errs = append(errs, fmt.Sprintf("%s: label is required", name))
	}
	if field.Type == "" {
		errs = append(errs, fmt.Sprintf("%s: type is required", name))
	}

	errs = append(errs, validateFieldShape(name, field)...)
	errs = append(errs, validateConditional(name, field.Conditional, known)...)
	return errs
}

// validateFieldShape enforces the type-specific structural requirements for
// the built-in tags. Unknown tags pass through untouched so custom types stay
// open.
func validateFieldShape(name string, field schema.Field) []string {
	var errs []string
	switch field.Type {
	case schema.TypeSelect, schema.TypeMultiSelect, schema.TypeRadio:
		if len(field.Options) == 0 && field.OptionSource == nil {
			errs = append(errs, fmt.Sprintf("%s: options are required for type %s", name, field.Type))
		}
		if field.OptionSource != nil && field.OptionSource.Endpoint == "" {
			errs = append(errs, fmt.Sprintf("%s: optionSource endpoint is required", name))
		}
	case schema.TypeSlider:
		if field.Min == nil || field.Max == nil {
			errs = append(errs, fmt.Sprintf("%s: slider requires numeric min and max", name))
		} else if *field.Min >= *field.Max {
			errs = append(errs, fmt.Sprintf("%s: slider min must be less than max", name))
		}
	case schema.TypeRating:
		if field.Max == nil || *field.Max <= 0 {
			errs = append(errs, fmt.Sprintf("%s: rating requires max greater than zero", name))
		}
	case schema.TypeArray:
		if field.ItemSchema == nil {
			errs = append(errs, fmt.Sprintf("%s: array requires an itemSchema", name))
		}
	case schema.TypeObject:
		if len(field.Fields) == 0 {
			errs = append(errs, fmt.Sprintf("%s: object requires nested fields", name))
		}
	}
	return errs
}

func validateConditional(name string, cfg *schema.ConditionalConfig, known map[string]struct{}) []string {
	if cfg == nil {
		return nil
	}

	var errs []string
	for _, list := range cfg.Lists() {
		for i, rule := range list.Rules {
			ref := fmt.Sprintf("%s: conditional.%s[%d]", name, list.Name, i)
			if rule.Field == "" {
				errs = append(errs, ref+".field is required")
			} else if _, ok := known[rule.Field]; !ok {
				errs = append(errs, fmt.Sprintf("%s.field references unknown field: %s", ref, rule.Field))
			}
			if rule.Operator == "" {
				errs = append(errs, ref+".operator is required")
				continue
			}
			if !knownOperator(rule.Operator) {
				errs = append(errs, fmt.Sprintf("%s.operator is not supported: %s", ref, rule.Operator))
			}
			if rule.Operator == schema.OpCustom && rule.Predicate == nil {
				errs = append(errs, ref+": custom operator requires a predicate")
			}
		}
	}
	return errs
}

func knownOperator(op schema.Operator) bool {
	switch op {
	case schema.OpEquals, schema.OpNotEquals,
		schema.OpContains, schema.OpNotContains,
		schema.OpGreaterThan, schema.OpLessThan,
		schema.OpGreaterOrEqual, schema.OpLessOrEqual,
		schema.OpIn, schema.OpNotIn,
		schema.OpIsEmpty, schema.OpIsNotEmpty,
		schema.OpCustom:
		return true
	default:
		return false
	}
}
