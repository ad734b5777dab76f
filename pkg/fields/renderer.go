package fields

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/conditional"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Node is the materialised output for one field: either the renderer's markup
// or a diagnostic placeholder when the type is unregistered or the renderer
// failed. FieldID and Type are always populated so hosts can surface the
// placeholder next to the right control.
type Node struct {
	FieldID    string
	Type       schema.FieldType
	Markup     string
	Fallback   bool
	Diagnostic string
}

// FieldProps is the minimum contract a renderer receives: the declared field,
// its current value and errors, interaction flags, resolved conditional
// state, and callbacks already bound to the field id. Renderers may keep
// local interaction state but must treat these inputs as owned by the form
// controller.
type FieldProps struct {
	Field        schema.Field
	Value        any
	Errors       []string
	Touched      bool
	Disabled     bool
	HasSubmitted bool
	State        conditional.FieldState

	OnChange func(value any)
	OnBlur   func()
	OnFocus  func()
}

// ShowErrors reports whether the field's errors should be visible: there must
// be errors, and the field must have been touched or the form submitted.
func (p FieldProps) ShowErrors() bool {
	return len(p.Errors) > 0 && (p.Touched || p.HasSubmitted)
}

// Renderer materialises one field type into a renderable node.
type Renderer interface {
	Render(ctx context.Context, props FieldProps) (Node, error)
}

// RendererFunc adapts a function into a Renderer.
type RendererFunc func(ctx context.Context, props FieldProps) (Node, error)

// Render delegates to the underlying function.
func (fn RendererFunc) Render(ctx context.Context, props FieldProps) (Node, error) {
	return fn(ctx, props)
}

// RenderContext is the per-pass bundle the form controller hands to the
// dispatcher: live state plus the event handlers renderers forward to.
type RenderContext struct {
	Values       map[string]any
	Errors       map[string][]string
	Touched      map[string]bool
	Disabled     bool
	IsSubmitting bool
	IsValid      bool
	IsDirty      bool
	HasSubmitted bool
	Extras       map[string]any

	OnChange func(fieldID string, value any)
	OnBlur   func(fieldID string)
	OnFocus  func(fieldID string)
}
