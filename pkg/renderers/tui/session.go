package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/conditional"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/parser"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDriver swaps the prompt driver, typically for a scripted test driver.
func WithDriver(driver PromptDriver) SessionOption {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithPageSize caps the visible rows in select prompts.
func WithPageSize(size int) SessionOption {
	return func(s *Session) {
		s.pageSize = size
	}
}

// Session walks a parsed schema field by field, prompting through the driver
// and committing each answer to the form controller. Conditional visibility
// is re-resolved against the controller's live values before every prompt, so
// earlier answers gate later questions.
type Session struct {
	parsed     *parser.ParsedSchema
	controller *form.Controller
	driver     PromptDriver
	pageSize   int
}

// NewSession builds a session over a parsed schema and its controller.
func NewSession(parsed *parser.ParsedSchema, controller *form.Controller, options ...SessionOption) *Session {
	s := &Session{
		parsed:     parsed,
		controller: controller,
		driver:     newSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Run prompts for every visible field in declaration order, then submits the
// controller. An interrupted prompt aborts the whole session with ErrAborted.
func (s *Session) Run(ctx context.Context) error {
	if s.parsed == nil || s.controller == nil {
		return fmt.Errorf("tui: session needs a parsed schema and a controller")
	}

	for _, pf := range s.parsed.Fields {
		evalCtx := conditional.Context{Values: s.controller.Values()}
		state, err := conditional.ResolveState(pf.Field, evalCtx)
		if err != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Skipping %s: %v", pf.Field.ID, err))
			continue
		}
		if !state.Visible || !state.Enabled {
			continue
		}
		if err := s.promptField(ctx, pf, state); err != nil {
			return err
		}
	}

	return s.controller.Submit(ctx)
}

func (s *Session) promptField(ctx context.Context, pf parser.ParsedField, state conditional.FieldState) error {
	field := pf.Field
	for {
		value, err := s.promptValue(ctx, field)
		if err != nil {
			return err
		}

		rule := pf.ValidationRule
		rule.Required = state.Required
		if messages := rule.Validate(value); len(messages) > 0 {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.ID, strings.Join(messages, "; ")))
			continue
		}

		s.controller.Change(field.ID, value)
		s.controller.Blur(field.ID)
		return nil
	}
}

func (s *Session) promptValue(ctx context.Context, field schema.Field) (any, error) {
	label := promptLabel(field)
	help := field.Description

	switch field.Type {
	case schema.TypePassword:
		return s.driver.Password(ctx, InputConfig{Message: label, Help: help})

	case schema.TypeTextarea:
		return s.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: stringValue(s.controller.GetFieldValue(field.ID), field.Default),
			Help:    help,
		})

	case schema.TypeCheckbox, schema.TypeSwitch:
		def, _ := s.controller.GetFieldValue(field.ID).(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: help})

	case schema.TypeSelect, schema.TypeRadio:
		options := optionLabels(field.Options)
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: selectedIndex(field.Options, s.controller.GetFieldValue(field.ID)),
			Help:         help,
			PageSize:     s.pageSize,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, nil
		}
		return field.Options[idx].Value, nil

	case schema.TypeMultiSelect:
		options := optionLabels(field.Options)
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  options,
			Defaults: selectedIndices(field.Options, s.controller.GetFieldValue(field.ID)),
			Help:     help,
			PageSize: s.pageSize,
		})
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				out = append(out, field.Options[idx].Value)
			}
		}
		return out, nil

	case schema.TypeNumber, schema.TypeSlider, schema.TypeRating:
		return s.promptNumber(ctx, field, label, help)

	case schema.TypeArray:
		return s.promptArray(ctx, field, label, help)

	case schema.TypeObject:
		return s.promptObject(ctx, field)

	default:
		// text, email, date, time, datetime, file, custom tags
		input, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: stringValue(s.controller.GetFieldValue(field.ID), field.Default),
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return input, nil
	}
}

func (s *Session) promptNumber(ctx context.Context, field schema.Field, label, help string) (any, error) {
	for {
		input, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: stringValue(s.controller.GetFieldValue(field.ID), field.Default),
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: expected a number", field.ID))
			continue
		}
		return parsed, nil
	}
}

func (s *Session) promptArray(ctx context.Context, field schema.Field, label, help string) (any, error) {
	if field.ItemSchema == nil {
		return nil, fmt.Errorf("tui: array field %s missing item schema", field.ID)
	}

	var items []any
	add, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label + ": add items?", Help: help})
	if err != nil {
		return nil, err
	}
	for add {
		item := *field.ItemSchema
		if item.Label == "" {
			item.Label = fmt.Sprintf("%s[%d]", label, len(items))
		}
		value, err := s.promptValue(ctx, item)
		if err != nil {
			return nil, err
		}
		items = append(items, value)

		add, err = s.driver.Confirm(ctx, ConfirmConfig{Message: "Add another?"})
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *Session) promptObject(ctx context.Context, field schema.Field) (any, error) {
	out := make(map[string]any, len(field.Fields))
	for _, child := range field.Fields {
		value, err := s.promptValue(ctx, child)
		if err != nil {
			return nil, err
		}
		out[child.ID] = value
	}
	return out, nil
}

func promptLabel(field schema.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func stringValue(current, def any) string {
	if s, ok := current.(string); ok && s != "" {
		return s
	}
	switch v := current.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	if s, ok := def.(string); ok {
		return s
	}
	return ""
}

func optionLabels(options []schema.Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.Label != "" {
			out = append(out, opt.Label)
			continue
		}
		out = append(out, fmt.Sprint(opt.Value))
	}
	return out
}

func selectedIndex(options []schema.Option, value any) int {
	if value == nil {
		return -1
	}
	want := fmt.Sprint(value)
	for i, opt := range options {
		if fmt.Sprint(opt.Value) == want {
			return i
		}
	}
	return -1
}

func selectedIndices(options []schema.Option, value any) []int {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(list))
	for _, item := range list {
		want[fmt.Sprint(item)] = struct{}{}
	}
	var out []int
	for i, opt := range options {
		if _, ok := want[fmt.Sprint(opt.Value)]; ok {
			out = append(out, i)
		}
	}
	return out
}
