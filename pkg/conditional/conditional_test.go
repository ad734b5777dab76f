package conditional

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/schema"
)

func TestEvaluate_Operators(t *testing.T) {
	ctx := Context{
		Values: map[string]any{
			"plan":    "pro",
			"seats":   float64(12),
			"tags":    []any{"beta", "internal"},
			"comment": "",
			"profile": map[string]any{"country": "US"},
		},
		Extras: map[string]any{"role": "admin"},
	}

	tests := []struct {
		name string
		rule schema.ConditionalRule
		want bool
	}{
		{"equals", schema.ConditionalRule{Field: "plan", Operator: schema.OpEquals, Value: "pro"}, true},
		{"equals loose number", schema.ConditionalRule{Field: "seats", Operator: schema.OpEquals, Value: 12}, true},
		{"not equals", schema.ConditionalRule{Field: "plan", Operator: schema.OpNotEquals, Value: "free"}, true},
		{"contains list", schema.ConditionalRule{Field: "tags", Operator: schema.OpContains, Value: "beta"}, true},
		{"contains substring", schema.ConditionalRule{Field: "plan", Operator: schema.OpContains, Value: "pr"}, true},
		{"not contains", schema.ConditionalRule{Field: "tags", Operator: schema.OpNotContains, Value: "ga"}, true},
		{"greater than", schema.ConditionalRule{Field: "seats", Operator: schema.OpGreaterThan, Value: 10}, true},
		{"less than fails", schema.ConditionalRule{Field: "seats", Operator: schema.OpLessThan, Value: 10}, false},
		{"greater or equal boundary", schema.ConditionalRule{Field: "seats", Operator: schema.OpGreaterOrEqual, Value: 12}, true},
		{"less or equal boundary", schema.ConditionalRule{Field: "seats", Operator: schema.OpLessOrEqual, Value: 12}, true},
		{"in", schema.ConditionalRule{Field: "plan", Operator: schema.OpIn, Value: []any{"pro", "team"}}, true},
		{"not in", schema.ConditionalRule{Field: "plan", Operator: schema.OpNotIn, Value: []any{"free"}}, true},
		{"is empty", schema.ConditionalRule{Field: "comment", Operator: schema.OpIsEmpty}, true},
		{"is not empty", schema.ConditionalRule{Field: "plan", Operator: schema.OpIsNotEmpty}, true},
		{"missing field is empty", schema.ConditionalRule{Field: "nope", Operator: schema.OpIsEmpty}, true},
		{"dot path lookup", schema.ConditionalRule{Field: "profile.country", Operator: schema.OpEquals, Value: "US"}, true},
		{"extras lookup", schema.ConditionalRule{Field: "extras.role", Operator: schema.OpEquals, Value: "admin"}, true},
		{
			"custom predicate",
			schema.ConditionalRule{
				Field:    "seats",
				Operator: schema.OpCustom,
				Predicate: func(value any, values map[string]any) bool {
					n, _ := value.(float64)
					return n > 10 && values["plan"] == "pro"
				},
			},
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.rule, ctx)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	ctx := Context{Values: map[string]any{"a": 1}}

	_, err := Evaluate(schema.ConditionalRule{Field: "a", Operator: "resembles"}, ctx)
	if err == nil || !strings.Contains(err.Error(), "unsupported operator") {
		t.Fatalf("want unsupported operator error, got %v", err)
	}

	_, err = Evaluate(schema.ConditionalRule{Field: "a", Operator: schema.OpCustom}, ctx)
	if err == nil || !strings.Contains(err.Error(), "no predicate") {
		t.Fatalf("want missing predicate error, got %v", err)
	}
}

func TestEvaluateAll(t *testing.T) {
	ctx := Context{Values: map[string]any{"a": "x", "b": "y"}}
	rules := []schema.ConditionalRule{
		{Field: "a", Operator: schema.OpEquals, Value: "x"},
		{Field: "b", Operator: schema.OpEquals, Value: "y"},
	}

	ok, err := EvaluateAll(rules, ctx)
	if err != nil || !ok {
		t.Fatalf("want all rules to hold, got ok=%v err=%v", ok, err)
	}

	rules[1].Value = "z"
	ok, err = EvaluateAll(rules, ctx)
	if err != nil || ok {
		t.Fatalf("want conjunction to fail, got ok=%v err=%v", ok, err)
	}

	ok, err = EvaluateAll(nil, ctx)
	if err != nil || !ok {
		t.Fatalf("empty list should be vacuously true, got ok=%v err=%v", ok, err)
	}
}

func TestResolveState(t *testing.T) {
	show := &schema.ConditionalConfig{
		Show: []schema.ConditionalRule{{Field: "toggle", Operator: schema.OpEquals, Value: true}},
	}

	tests := []struct {
		name   string
		field  schema.Field
		values map[string]any
		want   FieldState
	}{
		{
			name:   "defaults",
			field:  schema.Field{ID: "plain", Required: true},
			values: map[string]any{},
			want:   FieldState{Visible: true, Enabled: true, Required: true},
		},
		{
			name:   "disabled field never enabled",
			field:  schema.Field{ID: "locked", Disabled: true},
			values: map[string]any{},
			want:   FieldState{Visible: true, Enabled: false},
		},
		{
			name:   "show rule hides when false",
			field:  schema.Field{ID: "dep", Conditional: show},
			values: map[string]any{"toggle": false},
			want:   FieldState{Visible: false, Enabled: true},
		},
		{
			name:   "show rule reveals when true",
			field:  schema.Field{ID: "dep", Conditional: show},
			values: map[string]any{"toggle": true},
			want:   FieldState{Visible: true, Enabled: true},
		},
		{
			name: "hide wins over show",
			field: schema.Field{ID: "dep", Conditional: &schema.ConditionalConfig{
				Show: []schema.ConditionalRule{{Field: "toggle", Operator: schema.OpEquals, Value: true}},
				Hide: []schema.ConditionalRule{{Field: "toggle", Operator: schema.OpEquals, Value: true}},
			}},
			values: map[string]any{"toggle": true},
			want:   FieldState{Visible: false, Enabled: true},
		},
		{
			name: "require adds requiredness",
			field: schema.Field{ID: "state", Conditional: &schema.ConditionalConfig{
				Require: []schema.ConditionalRule{{Field: "country", Operator: schema.OpEquals, Value: "US"}},
			}},
			values: map[string]any{"country": "US"},
			want:   FieldState{Visible: true, Enabled: true, Required: true},
		},
		{
			name: "require cannot remove static flag",
			field: schema.Field{ID: "state", Required: true, Conditional: &schema.ConditionalConfig{
				Require: []schema.ConditionalRule{{Field: "country", Operator: schema.OpEquals, Value: "US"}},
			}},
			values: map[string]any{"country": "DE"},
			want:   FieldState{Visible: true, Enabled: true, Required: true},
		},
		{
			name: "disable overrides enable",
			field: schema.Field{ID: "dep", Conditional: &schema.ConditionalConfig{
				Enable:  []schema.ConditionalRule{{Field: "toggle", Operator: schema.OpEquals, Value: true}},
				Disable: []schema.ConditionalRule{{Field: "toggle", Operator: schema.OpEquals, Value: true}},
			}},
			values: map[string]any{"toggle": true},
			want:   FieldState{Visible: true, Enabled: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveState(tc.field, Context{Values: tc.values})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}
