// Package openapi derives form schemas from OpenAPI documents: an operation's
// request body becomes a FormSchema ready for the parser.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ImportOption configures an Importer.
type ImportOption func(*Importer)

// WithResolveRefs allows the loader to follow external references.
func WithResolveRefs(allow bool) ImportOption {
	return func(i *Importer) {
		i.resolveRefs = allow
	}
}

// Importer loads OpenAPI documents and converts operation request bodies
// into form schemas.
type Importer struct {
	resolveRefs bool
}

// NewImporter constructs an Importer.
func NewImporter(options ...ImportOption) *Importer {
	i := &Importer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// preferred request body media types, in order.
var mediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Operations lists the operation ids found in a document. Operations without
// an explicit operationId are keyed "method:path".
func (i *Importer) Operations(ctx context.Context, data []byte) ([]string, error) {
	spec, err := i.load(ctx, data)
	if err != nil {
		return nil, err
	}

	var ids []string
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range operationsByMethod(item) {
			if op == nil {
				continue
			}
			ids = append(ids, operationID(op, method, path))
		}
	}
	return ids, nil
}

// FormSchema converts one operation's request body into a form schema.
func (i *Importer) FormSchema(ctx context.Context, data []byte, opID string) (*schema.FormSchema, error) {
	spec, err := i.load(ctx, data)
	if err != nil {
		return nil, err
	}

	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range operationsByMethod(item) {
			if op == nil || operationID(op, method, path) != opID {
				continue
			}
			return i.convertOperation(op, opID)
		}
	}
	return nil, fmt.Errorf("openapi: operation %q not found", opID)
}

func (i *Importer) load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.resolveRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return spec, nil
}

func (i *Importer) convertOperation(op *openapi3.Operation, opID string) (*schema.FormSchema, error) {
	body := requestBodySchema(op.RequestBody)
	if body == nil || body.Value == nil {
		return nil, fmt.Errorf("openapi: operation %q has no usable request body", opID)
	}
	src := body.Value
	if firstSchemaType(src.Type) != "object" {
		return nil, fmt.Errorf("openapi: operation %q request body is not an object", opID)
	}

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	out := &schema.FormSchema{
		ID:          opID,
		Title:       op.Summary,
		Description: op.Description,
	}
	for _, name := range sortedPropertyNames(src.Properties) {
		field := convertProperty(name, src.Properties[name], required[name])
		out.Fields = append(out.Fields, field)
	}
	if len(out.Fields) == 0 {
		return nil, fmt.Errorf("openapi: operation %q request body has no properties", opID)
	}
	return out, nil
}

func requestBodySchema(ref *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok {
			return mt.Schema
		}
	}
	for _, mt := range content {
		return mt.Schema
	}
	return nil
}

func convertProperty(name string, ref *openapi3.SchemaRef, required bool) schema.Field {
	field := schema.Field{
		ID:       name,
		Type:     schema.TypeText,
		Label:    humanize(name),
		Required: required,
	}
	if ref == nil || ref.Value == nil {
		return field
	}
	src := ref.Value

	field.Description = src.Description
	field.Default = src.Default
	field.Type = fieldTypeFor(src)

	if len(src.Enum) > 0 {
		field.Options = enumOptions(src.Enum)
	}

	switch field.Type {
	case schema.TypeArray:
		if src.Items != nil && src.Items.Value != nil {
			if len(src.Items.Value.Enum) > 0 {
				field.Type = schema.TypeMultiSelect
				field.Options = enumOptions(src.Items.Value.Enum)
			} else {
				item := convertProperty(name+"_item", src.Items, false)
				field.ItemSchema = &item
			}
		}
	case schema.TypeObject:
		childRequired := make(map[string]bool, len(src.Required))
		for _, child := range src.Required {
			childRequired[child] = true
		}
		for _, childName := range sortedPropertyNames(src.Properties) {
			field.Fields = append(field.Fields, convertProperty(childName, src.Properties[childName], childRequired[childName]))
		}
	}

	if spec := validationFor(src); spec != nil {
		field.Validation = spec
	}
	if src.Min != nil {
		field.Min = src.Min
	}
	if src.Max != nil {
		field.Max = src.Max
	}
	return field
}

func fieldTypeFor(src *openapi3.Schema) schema.FieldType {
	if len(src.Enum) > 0 {
		return schema.TypeSelect
	}
	switch firstSchemaType(src.Type) {
	case "boolean":
		return schema.TypeCheckbox
	case "integer", "number":
		return schema.TypeNumber
	case "array":
		return schema.TypeArray
	case "object":
		return schema.TypeObject
	default:
		switch src.Format {
		case "email":
			return schema.TypeEmail
		case "password":
			return schema.TypePassword
		case "date":
			return schema.TypeDate
		case "time":
			return schema.TypeTime
		case "date-time":
			return schema.TypeDateTime
		case "binary":
			return schema.TypeFile
		case "textarea":
			return schema.TypeTextarea
		default:
			return schema.TypeText
		}
	}
}

func validationFor(src *openapi3.Schema) *schema.ValidationSpec {
	spec := &schema.ValidationSpec{}
	touched := false

	if src.MinLength != 0 {
		value := int(src.MinLength)
		spec.MinLength = &value
		touched = true
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		spec.MaxLength = &value
		touched = true
	}
	if src.Min != nil {
		value := *src.Min
		spec.Min = &value
		touched = true
	}
	if src.Max != nil {
		value := *src.Max
		spec.Max = &value
		touched = true
	}
	if src.Pattern != "" {
		spec.Pattern = src.Pattern
		touched = true
	}
	if !touched {
		return nil
	}
	return spec
}

func enumOptions(values []any) []schema.Option {
	out := make([]schema.Option, 0, len(values))
	for _, value := range values {
		out = append(out, schema.Option{
			Label: humanize(fmt.Sprint(value)),
			Value: value,
		})
	}
	return out
}

func operationsByMethod(item *openapi3.PathItem) map[string]*openapi3.Operation {
	return map[string]*openapi3.Operation{
		"GET":    item.Get,
		"PUT":    item.Put,
		"POST":   item.Post,
		"DELETE": item.Delete,
		"PATCH":  item.Patch,
	}
}

func operationID(op *openapi3.Operation, method, path string) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func sortedPropertyNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	// Stable field order independent of map iteration.
	sort.Strings(names)
	return names
}

// humanize turns snake_case and camelCase identifiers into title-style
// labels: "first_name" and "firstName" both become "First Name".
func humanize(name string) string {
	if name == "" {
		return ""
	}
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			flush()
		case r >= 'A' && r <= 'Z':
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
