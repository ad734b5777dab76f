package conditional

import (
	"github.com/goliatone/go-formkit/pkg/schema"
)

// FieldState is the resolved presentation state of one field for one pass:
// whether it should render, accept input, and demand a value.
type FieldState struct {
	Visible  bool
	Enabled  bool
	Required bool
}

// ResolveState applies a field's conditional lists against the context. The
// five lists act independently: show and hide both influence visibility,
// enable and disable both influence enablement, and require can only add to
// the field's static required flag, never remove it.
//
// Defaults when a list is absent: visible, enabled unless the field declares
// disabled/readonly, required per the field's own flag.
func ResolveState(field schema.Field, ctx Context) (FieldState, error) {
	state := FieldState{
		Visible:  true,
		Enabled:  !field.Disabled && !field.ReadOnly,
		Required: field.Required,
	}
	cfg := field.Conditional
	if cfg == nil {
		return state, nil
	}

	if len(cfg.Show) > 0 {
		ok, err := EvaluateAll(cfg.Show, ctx)
		if err != nil {
			return state, err
		}
		state.Visible = ok
	}
	if len(cfg.Hide) > 0 {
		ok, err := EvaluateAll(cfg.Hide, ctx)
		if err != nil {
			return state, err
		}
		if ok {
			state.Visible = false
		}
	}
	if len(cfg.Enable) > 0 {
		ok, err := EvaluateAll(cfg.Enable, ctx)
		if err != nil {
			return state, err
		}
		state.Enabled = state.Enabled && ok
	}
	if len(cfg.Disable) > 0 {
		ok, err := EvaluateAll(cfg.Disable, ctx)
		if err != nil {
			return state, err
		}
		if ok {
			state.Enabled = false
		}
	}
	if len(cfg.Require) > 0 {
		ok, err := EvaluateAll(cfg.Require, ctx)
		if err != nil {
			return state, err
		}
		if ok {
			state.Required = true
		}
	}
	return state, nil
}
