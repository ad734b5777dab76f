package tui

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/parser"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// scriptDriver replays canned answers keyed by prompt message and records
// every prompt it served.
type scriptDriver struct {
	inputs   map[string][]string
	confirms map[string][]bool
	selects  map[string][]int
	multis   map[string][][]int
	prompts  []string
	infos    []string
}

func (d *scriptDriver) next(kind, message string) string {
	key := kind + ":" + message
	d.prompts = append(d.prompts, key)
	return key
}

func (d *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	key := d.next("input", cfg.Message)
	if answers := d.inputs[key]; len(answers) > 0 {
		d.inputs[key] = answers[1:]
		return answers[0], nil
	}
	return "", fmt.Errorf("scriptDriver: no input scripted for %q", key)
}

func (d *scriptDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	key := d.next("confirm", cfg.Message)
	if answers := d.confirms[key]; len(answers) > 0 {
		d.confirms[key] = answers[1:]
		return answers[0], nil
	}
	return false, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	key := d.next("select", cfg.Message)
	if answers := d.selects[key]; len(answers) > 0 {
		d.selects[key] = answers[1:]
		return answers[0], nil
	}
	return -1, fmt.Errorf("scriptDriver: no selection scripted for %q", key)
}

func (d *scriptDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	key := d.next("multiselect", cfg.Message)
	if answers := d.multis[key]; len(answers) > 0 {
		d.multis[key] = answers[1:]
		return answers[0], nil
	}
	return nil, nil
}

func (d *scriptDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	return d.Input(context.Background(), InputConfig{Message: cfg.Message})
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func mustParse(t *testing.T, s *schema.FormSchema) *parser.ParsedSchema {
	t.Helper()
	parsed, err := parser.Parse(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return parsed
}

func TestSession_PromptsAndSubmits(t *testing.T) {
	parsed := mustParse(t, &schema.FormSchema{
		ID: "signup",
		Fields: []schema.Field{
			{ID: "name", Type: schema.TypeText, Label: "Name", Required: true},
			{
				ID: "plan", Type: schema.TypeSelect, Label: "Plan",
				Options: []schema.Option{
					{Label: "Free", Value: "free"},
					{Label: "Pro", Value: "pro"},
				},
			},
			{ID: "newsletter", Type: schema.TypeCheckbox, Label: "Newsletter"},
		},
	})

	var submitted map[string]any
	controller := form.NewController(parsed, form.WithEvents(form.Events{
		Submit: func(_ context.Context, values map[string]any) error {
			submitted = values
			return nil
		},
	}))

	driver := &scriptDriver{
		inputs:   map[string][]string{"input:Name": {"alice"}},
		selects:  map[string][]int{"select:Plan": {1}},
		confirms: map[string][]bool{"confirm:Newsletter": {true}},
	}

	session := NewSession(parsed, controller, WithDriver(driver))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := map[string]any{"name": "alice", "plan": "pro", "newsletter": true}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted values (-want +got):\n%s", diff)
	}
}

func TestSession_RepromptsOnInvalidAnswer(t *testing.T) {
	parsed := mustParse(t, &schema.FormSchema{
		ID: "signup",
		Fields: []schema.Field{
			{ID: "name", Type: schema.TypeText, Label: "Name", Required: true},
		},
	})
	controller := form.NewController(parsed)

	driver := &scriptDriver{
		inputs: map[string][]string{"input:Name": {"", "alice"}},
	}

	session := NewSession(parsed, controller, WithDriver(driver))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(driver.infos) == 0 {
		t.Fatal("invalid answer should surface a message")
	}
	if controller.GetFieldValue("name") != "alice" {
		t.Fatalf("retry answer not committed: %v", controller.GetFieldValue("name"))
	}
}

func TestSession_SkipsHiddenFields(t *testing.T) {
	parsed := mustParse(t, &schema.FormSchema{
		ID: "addr",
		Fields: []schema.Field{
			{ID: "country", Type: schema.TypeText, Label: "Country"},
			{
				ID: "state", Type: schema.TypeText, Label: "State",
				Conditional: &schema.ConditionalConfig{
					Show: []schema.ConditionalRule{
						{Field: "country", Operator: schema.OpEquals, Value: "US"},
					},
				},
			},
		},
	})
	controller := form.NewController(parsed)

	driver := &scriptDriver{
		inputs: map[string][]string{"input:Country": {"DE"}},
	}

	session := NewSession(parsed, controller, WithDriver(driver))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, prompt := range driver.prompts {
		if prompt == "input:State" {
			t.Fatal("hidden field was prompted")
		}
	}
}

func TestSession_ConditionalGatesOnEarlierAnswer(t *testing.T) {
	parsed := mustParse(t, &schema.FormSchema{
		ID: "addr",
		Fields: []schema.Field{
			{ID: "country", Type: schema.TypeText, Label: "Country"},
			{
				ID: "state", Type: schema.TypeText, Label: "State",
				Conditional: &schema.ConditionalConfig{
					Show: []schema.ConditionalRule{
						{Field: "country", Operator: schema.OpEquals, Value: "US"},
					},
				},
			},
		},
	})
	controller := form.NewController(parsed)

	driver := &scriptDriver{
		inputs: map[string][]string{
			"input:Country": {"US"},
			"input:State":   {"CA"},
		},
	}

	session := NewSession(parsed, controller, WithDriver(driver))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if controller.GetFieldValue("state") != "CA" {
		t.Fatalf("gated field not prompted after answer: %v", controller.GetFieldValue("state"))
	}
}

func TestSession_NumberParsing(t *testing.T) {
	min := 18.0
	parsed := mustParse(t, &schema.FormSchema{
		ID: "profile",
		Fields: []schema.Field{
			{ID: "age", Type: schema.TypeNumber, Label: "Age", Min: &min},
		},
	})
	controller := form.NewController(parsed)

	driver := &scriptDriver{
		inputs: map[string][]string{"input:Age": {"not a number", "7", "21"}},
	}

	session := NewSession(parsed, controller, WithDriver(driver))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := controller.GetFieldValue("age"); got != 21.0 {
		t.Fatalf("want 21, got %v", got)
	}
	if len(driver.infos) < 2 {
		t.Fatalf("expected parse and range messages, got %v", driver.infos)
	}
}
