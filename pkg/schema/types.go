package schema

// FieldType tags a field with the control kind it should materialise as. The
// tag is an open string so host applications can register custom types with
// the field registry without touching this package; the constants below cover
// the built-in controls whose structural shape the parser validates.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypePassword    FieldType = "password"
	TypeEmail       FieldType = "email"
	TypeNumber      FieldType = "number"
	TypeTextarea    FieldType = "textarea"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multiselect"
	TypeRadio       FieldType = "radio"
	TypeCheckbox    FieldType = "checkbox"
	TypeSwitch      FieldType = "switch"
	TypeDate        FieldType = "date"
	TypeTime        FieldType = "time"
	TypeDateTime    FieldType = "datetime"
	TypeSlider      FieldType = "slider"
	TypeRating      FieldType = "rating"
	TypeFile        FieldType = "file"
	TypeArray       FieldType = "array"
	TypeObject      FieldType = "object"
	TypeCustom      FieldType = "custom"
)

// Operator names the comparison a ConditionalRule applies to the value of the
// field it references.
type Operator string

const (
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "not_equals"
	OpContains       Operator = "contains"
	OpNotContains    Operator = "not_contains"
	OpGreaterThan    Operator = "greater_than"
	OpLessThan       Operator = "less_than"
	OpGreaterOrEqual Operator = "greater_or_equal"
	OpLessOrEqual    Operator = "less_or_equal"
	OpIn             Operator = "in"
	OpNotIn          Operator = "not_in"
	OpIsEmpty        Operator = "is_empty"
	OpIsNotEmpty     Operator = "is_not_empty"
	OpCustom         Operator = "custom"
)

// Predicate is the escape hatch for conditions the built-in operators cannot
// express. It receives the referenced field's current value and the full value
// map.
type Predicate func(value any, values map[string]any) bool

// ConditionalRule is a predicate over another field's value. Rules with the
// custom operator must carry a Predicate; every other operator compares the
// referenced value against Value.
type ConditionalRule struct {
	Field     string    `json:"field" yaml:"field"`
	Operator  Operator  `json:"operator" yaml:"operator"`
	Value     any       `json:"value,omitempty" yaml:"value,omitempty"`
	Predicate Predicate `json:"-" yaml:"-"`
}

// ConditionalConfig attaches up to five independent rule lists to a field.
// The lists are evaluated independently, not as alternatives: a field can be
// shown by one list and disabled by another in the same pass.
type ConditionalConfig struct {
	Show    []ConditionalRule `json:"show,omitempty" yaml:"show,omitempty"`
	Hide    []ConditionalRule `json:"hide,omitempty" yaml:"hide,omitempty"`
	Enable  []ConditionalRule `json:"enable,omitempty" yaml:"enable,omitempty"`
	Disable []ConditionalRule `json:"disable,omitempty" yaml:"disable,omitempty"`
	Require []ConditionalRule `json:"require,omitempty" yaml:"require,omitempty"`
}

// Lists returns the rule lists paired with their config key, in declaration
// order. Validators and resolvers iterate this instead of naming each slice.
func (c *ConditionalConfig) Lists() []RuleList {
	if c == nil {
		return nil
	}
	return []RuleList{
		{Name: "show", Rules: c.Show},
		{Name: "hide", Rules: c.Hide},
		{Name: "enable", Rules: c.Enable},
		{Name: "disable", Rules: c.Disable},
		{Name: "require", Rules: c.Require},
	}
}

// RuleList pairs a conditional list with its config key.
type RuleList struct {
	Name  string
	Rules []ConditionalRule
}

// Option is one selectable choice for select/multiselect/radio fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// OptionSource declares a dynamic option endpoint for select-like fields.
// Dependencies lists field ids whose values parameterise the lookup; they are
// folded into the dependency graph alongside conditional references.
type OptionSource struct {
	Endpoint     string            `json:"endpoint" yaml:"endpoint"`
	Method       string            `json:"method,omitempty" yaml:"method,omitempty"`
	LabelField   string            `json:"labelField,omitempty" yaml:"labelField,omitempty"`
	ValueField   string            `json:"valueField,omitempty" yaml:"valueField,omitempty"`
	Params       map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// ValidationSpec is the declarative validation block a field may carry. When
// present it is compiled verbatim instead of the type-derived base rule.
// Async validators run outside the synchronous validate pass; see the form
// controller.
type ValidationSpec struct {
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message   string   `json:"message,omitempty" yaml:"message,omitempty"`

	Custom   func(value any, values map[string]any) []string `json:"-" yaml:"-"`
	Async    AsyncValidator                                  `json:"-" yaml:"-"`
	Debounce int                                             `json:"debounce,omitempty" yaml:"debounce,omitempty"` // milliseconds
}

// AsyncValidator checks a single field value out of band. It returns the
// error messages for that field, or an empty slice when the value passes.
type AsyncValidator func(value any) []string

// Field models one declared input unit inside a schema.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Type        FieldType `json:"type" yaml:"type"`
	Label       string    `json:"label" yaml:"label"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled    bool      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	ReadOnly    bool      `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`

	// Options / OptionSource apply to select, multiselect, and radio fields.
	Options      []Option      `json:"options,omitempty" yaml:"options,omitempty"`
	OptionSource *OptionSource `json:"optionSource,omitempty" yaml:"optionSource,omitempty"`

	// Min/Max/Step apply to slider, rating, and number fields.
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step *float64 `json:"step,omitempty" yaml:"step,omitempty"`

	// ItemSchema applies to array fields, Fields to object fields.
	ItemSchema *Field  `json:"itemSchema,omitempty" yaml:"itemSchema,omitempty"`
	Fields     []Field `json:"fields,omitempty" yaml:"fields,omitempty"`

	Validation  *ValidationSpec    `json:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional *ConditionalConfig `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// GlobalValidator checks the whole value map at once and returns errors keyed
// by field id.
type GlobalValidator func(values map[string]any) map[string][]string

// FormValidation is the optional schema-level validation block.
type FormValidation struct {
	Global GlobalValidator `json:"-" yaml:"-"`
}

// LayoutGroup clusters field ids under an optional heading. Layout carries no
// semantics for parsing or state; renderers are free to ignore it.
type LayoutGroup struct {
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Layout is the optional presentation hint block on a schema.
type Layout struct {
	Columns int           `json:"columns,omitempty" yaml:"columns,omitempty"`
	Groups  []LayoutGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// FormSchema is the declarative description of a form: its identity, its
// fields, and optional whole-form validation and layout hints.
type FormSchema struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title,omitempty" yaml:"title,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field         `json:"fields" yaml:"fields"`
	Validation  *FormValidation `json:"-" yaml:"-"`
	Layout      *Layout         `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// FieldIDs returns the top-level field ids in declaration order.
func (s *FormSchema) FieldIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		ids = append(ids, field.ID)
	}
	return ids
}

// FieldByID returns the top-level field with the given id.
func (s *FormSchema) FieldByID(id string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}
