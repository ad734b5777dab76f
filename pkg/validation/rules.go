package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Kind classifies the value shape a compiled rule checks.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindList    Kind = "list"
	KindObject  Kind = "object"
	KindAny     Kind = "any"
)

// Rule is the compiled validation contract for one field. Rules are built
// once at parse time and evaluated later against live values; compiling never
// touches data.
type Rule struct {
	Kind     Kind
	Required bool

	MinLength *int
	MaxLength *int
	Min       *float64
	Max       *float64
	Pattern   *regexp.Regexp

	// RequiredMessage is the message emitted when a required value is absent.
	RequiredMessage string

	// Custom runs after the structural checks when declared on the field's
	// validation block.
	Custom func(value any, values map[string]any) []string
}

// Rules is the compiled validation contract for a whole form.
type Rules struct {
	Global   schema.GlobalValidator
	PerField map[string]Rule
}

// Compile derives the per-field and whole-form validation contract from a
// schema. Fields with an explicit validation block keep it verbatim; the rest
// receive a base rule derived from their type. Required fields reject absent
// values, optional ones accept them.
func Compile(s *schema.FormSchema) Rules {
	rules := Rules{PerField: make(map[string]Rule, len(s.Fields))}
	if s.Validation != nil {
		rules.Global = s.Validation.Global
	}
	for _, field := range s.Fields {
		rules.PerField[field.ID] = CompileField(field)
	}
	return rules
}

// CompileField builds the rule for a single field.
func CompileField(field schema.Field) Rule {
	rule := Rule{
		Kind:            kindForType(field.Type),
		Required:        field.Required,
		RequiredMessage: requiredMessage(field),
	}

	if spec := field.Validation; spec != nil {
		rule.MinLength = spec.MinLength
		rule.MaxLength = spec.MaxLength
		rule.Min = spec.Min
		rule.Max = spec.Max
		rule.Custom = spec.Custom
		if spec.Pattern != "" {
			if re, err := regexp.Compile(spec.Pattern); err == nil {
				rule.Pattern = re
			}
		}
		if spec.Message != "" {
			rule.RequiredMessage = spec.Message
		}
		return rule
	}

	// Base rule tightening: required strings reject empty input.
	if rule.Required && rule.Kind == KindString {
		one := 1
		rule.MinLength = &one
	}
	if field.Min != nil {
		rule.Min = field.Min
	}
	if field.Max != nil {
		rule.Max = field.Max
	}
	return rule
}

func kindForType(t schema.FieldType) Kind {
	switch t {
	case schema.TypeText, schema.TypePassword, schema.TypeEmail,
		schema.TypeTextarea, schema.TypeSelect, schema.TypeRadio:
		return KindString
	case schema.TypeNumber, schema.TypeSlider, schema.TypeRating:
		return KindNumber
	case schema.TypeCheckbox, schema.TypeSwitch:
		return KindBoolean
	case schema.TypeDate, schema.TypeTime, schema.TypeDateTime:
		return KindDate
	case schema.TypeMultiSelect, schema.TypeArray:
		return KindList
	case schema.TypeObject:
		return KindObject
	default:
		return KindAny
	}
}

func requiredMessage(field schema.Field) string {
	if field.Label != "" {
		return fmt.Sprintf("%s is required", field.Label)
	}
	return "This field is required"
}

// Validate evaluates the rule against a value and returns the accumulated
// error messages. Absent values pass unless the rule is required.
func (r Rule) Validate(value any) []string {
	if absent(r.Kind, value) {
		if r.Required {
			return []string{r.RequiredMessage}
		}
		return nil
	}

	var errs []string
	switch r.Kind {
	case KindString:
		errs = r.validateString(value)
	case KindNumber:
		errs = r.validateNumber(value)
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			errs = append(errs, "Expected a boolean value")
		}
	case KindDate:
		errs = r.validateDate(value)
	case KindList:
		errs = r.validateList(value)
	case KindObject:
		if _, ok := value.(map[string]any); !ok {
			errs = append(errs, "Expected a structured value")
		}
	}
	return errs
}

func (r Rule) validateString(value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"Expected a text value"}
	}
	var errs []string
	if r.MinLength != nil && len(s) < *r.MinLength {
		if *r.MinLength == 1 && r.Required {
			errs = append(errs, r.RequiredMessage)
		} else {
			errs = append(errs, fmt.Sprintf("Must be at least %d characters", *r.MinLength))
		}
	}
	if r.MaxLength != nil && len(s) > *r.MaxLength {
		errs = append(errs, fmt.Sprintf("Must be at most %d characters", *r.MaxLength))
	}
	if r.Pattern != nil && !r.Pattern.MatchString(s) {
		errs = append(errs, "Does not match the required pattern")
	}
	return errs
}

func (r Rule) validateNumber(value any) []string {
	n, ok := toFloat(value)
	if !ok {
		return []string{"Expected a numeric value"}
	}
	var errs []string
	if r.Min != nil && n < *r.Min {
		errs = append(errs, fmt.Sprintf("Must be at least %v", *r.Min))
	}
	if r.Max != nil && n > *r.Max {
		errs = append(errs, fmt.Sprintf("Must be at most %v", *r.Max))
	}
	return errs
}

func (r Rule) validateDate(value any) []string {
	switch v := value.(type) {
	case time.Time:
		return nil
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", "15:04", "15:04:05"} {
			if _, err := time.Parse(layout, v); err == nil {
				return nil
			}
		}
		return []string{"Expected a valid date"}
	default:
		return []string{"Expected a valid date"}
	}
}

func (r Rule) validateList(value any) []string {
	list, ok := toList(value)
	if !ok {
		return []string{"Expected a list value"}
	}
	var errs []string
	if r.MinLength != nil && len(list) < *r.MinLength {
		errs = append(errs, fmt.Sprintf("Select at least %d", *r.MinLength))
	}
	if r.MaxLength != nil && len(list) > *r.MaxLength {
		errs = append(errs, fmt.Sprintf("Select at most %d", *r.MaxLength))
	}
	return errs
}

// absent reports whether a value counts as "not provided" for the rule kind.
func absent(kind Kind, value any) bool {
	if value == nil {
		return true
	}
	switch kind {
	case KindString, KindDate:
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s) == ""
		}
	case KindList:
		if list, ok := toList(value); ok {
			return len(list) == 0
		}
	case KindObject:
		if m, ok := value.(map[string]any); ok {
			return len(m) == 0
		}
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
