package fields

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/conditional"
	"github.com/goliatone/go-formkit/pkg/parser"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// DispatchOption customises a Dispatcher.
type DispatchOption func(*Dispatcher)

// WithObserver injects the fault observer render failures are reported to.
func WithObserver(observer Observer) DispatchOption {
	return func(d *Dispatcher) {
		if observer != nil {
			d.observer = observer
		}
	}
}

// Dispatcher resolves a field's renderer from the registry and isolates its
// failures. A missing renderer and a failing renderer both produce diagnostic
// placeholder nodes; neither aborts the surrounding form render.
type Dispatcher struct {
	registry *Registry
	observer Observer
}

// NewDispatcher builds a dispatcher over the supplied registry. Faults are
// logged through logrus unless WithObserver overrides the sink.
func NewDispatcher(registry *Registry, options ...DispatchOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		observer: NewLogObserver(nil),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Render materialises one parsed field against the render context. It never
// returns an error: unsupported types yield a placeholder node, and renderer
// errors or panics are reported to the observer and substituted with an
// inline diagnostic scoped to this field alone.
func (d *Dispatcher) Render(ctx context.Context, pf parser.ParsedField, rctx RenderContext) Node {
	field := pf.Field

	renderer, ok := d.registry.Get(field.Type)
	if !ok {
		return Node{
			FieldID:    field.ID,
			Type:       field.Type,
			Fallback:   true,
			Diagnostic: fmt.Sprintf("unsupported field type %q", field.Type),
		}
	}

	props, err := d.buildProps(field, rctx)
	if err != nil {
		d.observer.RenderFault(field.ID, err)
		return errorNode(field)
	}

	node, err := renderIsolated(ctx, renderer, props)
	if err != nil {
		d.observer.RenderFault(field.ID, err)
		return errorNode(field)
	}

	node.FieldID = field.ID
	node.Type = field.Type
	return node
}

// RenderAll materialises every field in a parsed schema, skipping fields
// whose resolved state is not visible.
func (d *Dispatcher) RenderAll(ctx context.Context, parsed *parser.ParsedSchema, rctx RenderContext) []Node {
	if parsed == nil {
		return nil
	}
	nodes := make([]Node, 0, len(parsed.Fields))
	evalCtx := conditional.Context{Values: rctx.Values, Extras: rctx.Extras}
	for _, pf := range parsed.Fields {
		state, err := conditional.ResolveState(pf.Field, evalCtx)
		if err != nil {
			d.observer.RenderFault(pf.Field.ID, err)
			nodes = append(nodes, errorNode(pf.Field))
			continue
		}
		if !state.Visible {
			continue
		}
		nodes = append(nodes, d.Render(ctx, pf, rctx))
	}
	return nodes
}

func (d *Dispatcher) buildProps(field schema.Field, rctx RenderContext) (FieldProps, error) {
	state, err := conditional.ResolveState(field, conditional.Context{
		Values: rctx.Values,
		Extras: rctx.Extras,
	})
	if err != nil {
		return FieldProps{}, err
	}

	id := field.ID
	props := FieldProps{
		Field:        field,
		Value:        resolveValue(field, rctx.Values),
		Errors:       rctx.Errors[id],
		Touched:      rctx.Touched[id],
		Disabled:     rctx.Disabled || field.Disabled || !state.Enabled,
		HasSubmitted: rctx.HasSubmitted,
		State:        state,
	}
	if rctx.OnChange != nil {
		onChange := rctx.OnChange
		props.OnChange = func(value any) { onChange(id, value) }
	}
	if rctx.OnBlur != nil {
		onBlur := rctx.OnBlur
		props.OnBlur = func() { onBlur(id) }
	}
	if rctx.OnFocus != nil {
		onFocus := rctx.OnFocus
		props.OnFocus = func() { onFocus(id) }
	}
	return props, nil
}

// resolveValue picks the current value, falling back to the declared default
// and then to the empty value for the field's type.
func resolveValue(field schema.Field, values map[string]any) any {
	if values != nil {
		if v, ok := values[field.ID]; ok {
			return v
		}
	}
	if field.Default != nil {
		return field.Default
	}
	return EmptyValue(field.Type)
}

// EmptyValue returns the zero input for a field type: empty string for
// text-like controls, false for toggles, an empty list for multi-valued
// controls, an empty map for objects, nil otherwise.
func EmptyValue(t schema.FieldType) any {
	switch t {
	case schema.TypeText, schema.TypePassword, schema.TypeEmail,
		schema.TypeTextarea, schema.TypeSelect, schema.TypeRadio,
		schema.TypeDate, schema.TypeTime, schema.TypeDateTime:
		return ""
	case schema.TypeCheckbox, schema.TypeSwitch:
		return false
	case schema.TypeMultiSelect, schema.TypeArray:
		return []any{}
	case schema.TypeObject:
		return map[string]any{}
	default:
		return nil
	}
}

func renderIsolated(ctx context.Context, renderer Renderer, props FieldProps) (node Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fields: renderer panic: %v", r)
		}
	}()
	return renderer.Render(ctx, props)
}

func errorNode(field schema.Field) Node {
	return Node{
		FieldID:    field.ID,
		Type:       field.Type,
		Fallback:   true,
		Diagnostic: fmt.Sprintf("error rendering field %q", field.ID),
	}
}
