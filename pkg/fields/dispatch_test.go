package fields

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/parser"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func staticRenderer(markup string) Renderer {
	return RendererFunc(func(_ context.Context, props FieldProps) (Node, error) {
		return Node{Markup: markup}, nil
	})
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(schema.TypeText, staticRenderer("first"))
	reg.Register(schema.TypeText, staticRenderer("second"))

	renderer, ok := reg.Get(schema.TypeText)
	if !ok {
		t.Fatal("renderer not found")
	}
	node, err := renderer.Render(context.Background(), FieldProps{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if node.Markup != "second" {
		t.Fatalf("want override to win, got %q", node.Markup)
	}
}

func TestRegistry_CustomTypeAndClear(t *testing.T) {
	reg := NewRegistry()
	reg.Register("signature-pad", staticRenderer("<canvas>"))

	if !reg.Has("signature-pad") {
		t.Fatal("custom tag not registered")
	}
	if diff := cmp.Diff([]string{"signature-pad"}, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	reg.Clear()
	if reg.Has("signature-pad") {
		t.Fatal("clear did not drop registrations")
	}
}

func TestDispatcher_UnsupportedTypeFallback(t *testing.T) {
	d := NewDispatcher(NewRegistry(), WithObserver(ObserverFunc(func(string, error) {})))
	pf := parser.ParsedField{Field: schema.Field{ID: "sig", Type: "signature-pad"}}

	node := d.Render(context.Background(), pf, RenderContext{})
	if !node.Fallback {
		t.Fatal("expected fallback node")
	}
	if node.FieldID != "sig" {
		t.Fatalf("fallback node missing field id: %+v", node)
	}
	if !strings.Contains(node.Diagnostic, `unsupported field type "signature-pad"`) {
		t.Fatalf("unexpected diagnostic: %q", node.Diagnostic)
	}
}

func TestDispatcher_IsolatesRendererError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(schema.TypeText, RendererFunc(func(context.Context, FieldProps) (Node, error) {
		return Node{}, errors.New("boom")
	}))

	var faultField string
	var faultErr error
	d := NewDispatcher(reg, WithObserver(ObserverFunc(func(fieldID string, err error) {
		faultField, faultErr = fieldID, err
	})))

	pf := parser.ParsedField{Field: schema.Field{ID: "name", Type: schema.TypeText}}
	node := d.Render(context.Background(), pf, RenderContext{})

	if !node.Fallback {
		t.Fatal("expected fallback node for failing renderer")
	}
	if faultField != "name" || faultErr == nil {
		t.Fatalf("fault not observed: field=%q err=%v", faultField, faultErr)
	}
}

func TestDispatcher_IsolatesRendererPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register(schema.TypeText, RendererFunc(func(context.Context, FieldProps) (Node, error) {
		panic("renderer exploded")
	}))

	var observed error
	d := NewDispatcher(reg, WithObserver(ObserverFunc(func(_ string, err error) {
		observed = err
	})))

	pf := parser.ParsedField{Field: schema.Field{ID: "name", Type: schema.TypeText}}
	node := d.Render(context.Background(), pf, RenderContext{})

	if !node.Fallback {
		t.Fatal("panic should produce a fallback node, not propagate")
	}
	if observed == nil || !strings.Contains(observed.Error(), "renderer panic") {
		t.Fatalf("panic not reported to observer: %v", observed)
	}
}

func TestDispatcher_RenderAllSkipsHiddenFields(t *testing.T) {
	reg := NewRegistry()
	reg.Register(schema.TypeText, staticRenderer("ok"))

	parsed, err := parser.Parse(&schema.FormSchema{
		ID: "f",
		Fields: []schema.Field{
			{ID: "toggle", Type: schema.TypeText, Label: "Toggle"},
			{
				ID: "dep", Type: schema.TypeText, Label: "Dep",
				Conditional: &schema.ConditionalConfig{
					Show: []schema.ConditionalRule{
						{Field: "toggle", Operator: schema.OpEquals, Value: "yes"},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	d := NewDispatcher(reg)

	nodes := d.RenderAll(context.Background(), parsed, RenderContext{
		Values: map[string]any{"toggle": "no"},
	})
	if len(nodes) != 1 || nodes[0].FieldID != "toggle" {
		t.Fatalf("hidden field rendered: %+v", nodes)
	}

	nodes = d.RenderAll(context.Background(), parsed, RenderContext{
		Values: map[string]any{"toggle": "yes"},
	})
	if len(nodes) != 2 {
		t.Fatalf("want both fields visible, got %d", len(nodes))
	}
}

func TestDispatcher_PropsWiring(t *testing.T) {
	var got FieldProps
	reg := NewRegistry()
	reg.Register(schema.TypeText, RendererFunc(func(_ context.Context, props FieldProps) (Node, error) {
		got = props
		return Node{Markup: "ok"}, nil
	}))

	var changed struct {
		id    string
		value any
	}
	rctx := RenderContext{
		Values:       map[string]any{"name": "alice"},
		Errors:       map[string][]string{"name": {"Name is required"}},
		Touched:      map[string]bool{"name": true},
		HasSubmitted: false,
		OnChange: func(fieldID string, value any) {
			changed.id, changed.value = fieldID, value
		},
	}

	pf := parser.ParsedField{Field: schema.Field{ID: "name", Type: schema.TypeText, Label: "Name"}}
	d := NewDispatcher(reg)
	d.Render(context.Background(), pf, rctx)

	if got.Value != "alice" {
		t.Fatalf("value not resolved: %v", got.Value)
	}
	if !got.Touched {
		t.Fatal("touched flag lost")
	}
	if !got.ShowErrors() {
		t.Fatal("touched field with errors should show them")
	}
	got.OnChange("bob")
	if changed.id != "name" || changed.value != "bob" {
		t.Fatalf("change callback not bound to field id: %+v", changed)
	}
}

func TestResolveValue_DefaultAndEmpty(t *testing.T) {
	field := schema.Field{ID: "plan", Type: schema.TypeSelect, Default: "free"}

	if v := resolveValue(field, map[string]any{"plan": "pro"}); v != "pro" {
		t.Fatalf("live value ignored: %v", v)
	}
	if v := resolveValue(field, nil); v != "free" {
		t.Fatalf("default ignored: %v", v)
	}

	field.Default = nil
	if v := resolveValue(field, nil); v != "" {
		t.Fatalf("select empty value should be empty string, got %v", v)
	}

	if v := EmptyValue(schema.TypeCheckbox); v != false {
		t.Fatalf("checkbox empty value: %v", v)
	}
	if v, ok := EmptyValue(schema.TypeMultiSelect).([]any); !ok || len(v) != 0 {
		t.Fatalf("multiselect empty value: %v", v)
	}
}
