package form

import "context"

// SubmitFunc receives the validated value map when a submission passes
// validation. It may block; the controller awaits it and guarantees the
// in-flight flag clears regardless of outcome.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// Events is the external event configuration an embedding application
// supplies. Every callback is optional; absent means no-op.
type Events struct {
	Change           func(values map[string]any)
	Submit           SubmitFunc
	Reset            func()
	ValidationChange func(valid bool, errors map[string][]string)
	Mount            func()
	Unmount          func()
	FieldFocus       func(fieldID string)
	FieldBlur        func(fieldID string)
}
