package html

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/conditional"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func renderField(t *testing.T, reg *fields.Registry, props fields.FieldProps) string {
	t.Helper()
	renderer, ok := reg.Get(props.Field.Type)
	if !ok {
		t.Fatalf("no renderer for %s", props.Field.Type)
	}
	node, err := renderer.Render(context.Background(), props)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return node.Markup
}

func TestEngine_RenderString(t *testing.T) {
	engine := newTestEngine(t)

	out, err := engine.RenderString(`Hello {{ name }}`, map[string]any{"name": "World"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello World" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEngine_RenderStringParseError(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.RenderString(`{% if %}`, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRegisterDefaults_TextInput(t *testing.T) {
	reg := fields.NewRegistry()
	if err := RegisterDefaults(reg, newTestEngine(t)); err != nil {
		t.Fatalf("register defaults: %v", err)
	}

	markup := renderField(t, reg, fields.FieldProps{
		Field: schema.Field{
			ID: "name", Type: schema.TypeText, Label: "Name",
			Placeholder: "Your name",
		},
		Value: "alice",
		State: conditional.FieldState{Visible: true, Enabled: true, Required: true},
	})

	for _, want := range []string{
		`type="text"`, `id="name"`, `value="alice"`,
		`placeholder="Your name"`, `fk-required`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q:\n%s", want, markup)
		}
	}
}

func TestRegisterDefaults_ErrorVisibilityGating(t *testing.T) {
	reg := fields.NewRegistry()
	if err := RegisterDefaults(reg, newTestEngine(t)); err != nil {
		t.Fatalf("register defaults: %v", err)
	}

	props := fields.FieldProps{
		Field:  schema.Field{ID: "name", Type: schema.TypeText, Label: "Name"},
		Errors: []string{"Name is required"},
	}

	if markup := renderField(t, reg, props); strings.Contains(markup, "Name is required") {
		t.Fatal("untouched field should not show errors")
	}

	props.Touched = true
	if markup := renderField(t, reg, props); !strings.Contains(markup, "Name is required") {
		t.Fatal("touched field should show errors")
	}

	props.Touched = false
	props.HasSubmitted = true
	if markup := renderField(t, reg, props); !strings.Contains(markup, "Name is required") {
		t.Fatal("submitted form should show errors")
	}
}

func TestRegisterDefaults_SelectOptions(t *testing.T) {
	reg := fields.NewRegistry()
	if err := RegisterDefaults(reg, newTestEngine(t)); err != nil {
		t.Fatalf("register defaults: %v", err)
	}

	markup := renderField(t, reg, fields.FieldProps{
		Field: schema.Field{
			ID: "plan", Type: schema.TypeSelect, Label: "Plan",
			Options: []schema.Option{
				{Label: "Free", Value: "free"},
				{Label: "Pro", Value: "pro"},
			},
		},
		Value: "pro",
	})

	if !strings.Contains(markup, `<option value="pro" selected>Pro</option>`) {
		t.Fatalf("selected option not marked:\n%s", markup)
	}
	if !strings.Contains(markup, `<option value="free">Free</option>`) {
		t.Fatalf("unselected option wrong:\n%s", markup)
	}
}

func TestRegisterDefaults_MultiSelectMembership(t *testing.T) {
	reg := fields.NewRegistry()
	if err := RegisterDefaults(reg, newTestEngine(t)); err != nil {
		t.Fatalf("register defaults: %v", err)
	}

	markup := renderField(t, reg, fields.FieldProps{
		Field: schema.Field{
			ID: "tags", Type: schema.TypeMultiSelect, Label: "Tags",
			Options: []schema.Option{
				{Label: "Beta", Value: "beta"},
				{Label: "GA", Value: "ga"},
			},
		},
		Value: []any{"beta"},
	})

	if !strings.Contains(markup, "multiple") {
		t.Fatalf("multiselect missing multiple attr:\n%s", markup)
	}
	if !strings.Contains(markup, `value="beta" selected`) {
		t.Fatalf("membership selection missed:\n%s", markup)
	}
}

func TestRegisterDefaults_CheckboxAndSlider(t *testing.T) {
	reg := fields.NewRegistry()
	if err := RegisterDefaults(reg, newTestEngine(t)); err != nil {
		t.Fatalf("register defaults: %v", err)
	}

	checkbox := renderField(t, reg, fields.FieldProps{
		Field: schema.Field{ID: "tos", Type: schema.TypeCheckbox, Label: "Accept"},
		Value: true,
	})
	if !strings.Contains(checkbox, "checked") {
		t.Fatalf("checked state lost:\n%s", checkbox)
	}

	min, max := 0.0, 100.0
	slider := renderField(t, reg, fields.FieldProps{
		Field: schema.Field{ID: "vol", Type: schema.TypeSlider, Label: "Volume", Min: &min, Max: &max},
		Value: 40.0,
	})
	for _, want := range []string{`type="range"`, `min="0`, `max="100`} {
		if !strings.Contains(slider, want) {
			t.Errorf("slider missing %q:\n%s", want, slider)
		}
	}
}

func TestSanitizeHelpText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> ok", "<b>bold</b> ok"},
		{`<script>alert(1)</script>safe`, "safe"},
		{`<img src=x onerror=alert(1)>caption`, "caption"},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := sanitizeHelpText(tc.in); got != tc.want {
			t.Errorf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildThemeConfig(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Templates: map[string]string{
			"forms.input": "themes/acme/input.html",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321"},
				Templates: map[string]string{
					"forms.checkbox": "themes/acme/dark/checkbox.html",
				},
				Assets: theme.Assets{
					Files: map[string]string{"vendor": "vendor.dark.js"},
				},
			},
		},
	}

	cfg := BuildThemeConfig(&theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: manifest,
	})

	if cfg.Tokens["brand"] != "#654321" {
		t.Fatalf("variant token not merged: %q", cfg.Tokens["brand"])
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css var not derived: %q", cfg.CSSVars["--brand"])
	}
	if cfg.Partials["forms.input"] != "themes/acme/input.html" {
		t.Fatalf("base template override lost: %q", cfg.Partials["forms.input"])
	}
	if cfg.Partials["forms.checkbox"] != "themes/acme/dark/checkbox.html" {
		t.Fatalf("variant template override lost: %q", cfg.Partials["forms.checkbox"])
	}
	if cfg.Partials["forms.textarea"] != defaultPartialFallbacks()["forms.textarea"] {
		t.Fatalf("fallback partial missing: %q", cfg.Partials["forms.textarea"])
	}
	if got := cfg.AssetURL("vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("variant asset url: %q", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("base asset url: %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
}

func TestBuildThemeConfig_NilSelection(t *testing.T) {
	cfg := BuildThemeConfig(nil)
	if len(cfg.Partials) == 0 {
		t.Fatal("fallback partials missing")
	}
	if cfg.Theme != "" || cfg.Variant != "" {
		t.Fatalf("unexpected identity: %+v", cfg)
	}
}
