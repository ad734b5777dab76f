package form

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formkit/pkg/conditional"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/parser"
)

// ErrSubmissionIncomplete is the only error the controller surfaces for a
// failing external submit handler. The underlying error is logged, never
// reinterpreted or returned.
var ErrSubmissionIncomplete = errors.New("form: submission did not complete")

// ErrValidationFailed reports that a submission was blocked by validation.
var ErrValidationFailed = errors.New("form: validation failed")

// Result is the outcome of a validation pass.
type Result struct {
	Valid  bool
	Errors map[string][]string
}

// State is a point-in-time copy of the controller's live form state.
type State struct {
	Values       map[string]any
	Errors       map[string][]string
	Touched      map[string]bool
	IsSubmitting bool
	IsValid      bool
	IsDirty      bool
	HasSubmitted bool
}

// Option customises a Controller at construction.
type Option func(*Controller)

// WithInitialValues seeds the value map and captures the reset snapshot.
func WithInitialValues(values map[string]any) Option {
	return func(c *Controller) {
		c.initial = cloneValues(values)
	}
}

// WithEvents installs the external event configuration.
func WithEvents(events Events) Option {
	return func(c *Controller) {
		c.events = events
	}
}

// WithBridge connects an external store bridge. The controller pushes every
// committed value change through it and applies updates it publishes.
func WithBridge(bridge Bridge) Option {
	return func(c *Controller) {
		c.bridge = bridge
	}
}

// WithLogger overrides the logger submission and validator faults go to.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithExtras injects out-of-band context for conditional rule evaluation.
func WithExtras(extras map[string]any) Option {
	return func(c *Controller) {
		c.extras = extras
	}
}

// Controller owns the live state of one form instance: values, errors,
// touched flags, and the submit lifecycle. It treats its ParsedSchema as
// read-only configuration; replace the controller to replace the schema.
type Controller struct {
	mu     sync.Mutex
	parsed *parser.ParsedSchema
	events Events
	bridge Bridge
	logger *logrus.Logger
	extras map[string]any

	initial map[string]any
	values  map[string]any
	errors  map[string][]string
	touched map[string]bool

	submitting   bool
	valid        bool
	dirty        bool
	hasSubmitted bool

	mounted     bool
	unmounted   bool
	unsubscribe func()

	// generations stamps async validator runs per field; stale completions
	// compare against the current stamp and discard themselves.
	generations map[string]uint64
}

// NewController builds a controller for a parsed schema. The initial values
// snapshot is captured here and only replaced by SetInitialValues.
func NewController(parsed *parser.ParsedSchema, options ...Option) *Controller {
	c := &Controller{
		parsed:      parsed,
		logger:      logrus.StandardLogger(),
		valid:       true,
		generations: make(map[string]uint64),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.initial == nil {
		c.initial = make(map[string]any)
	}
	c.values = cloneValues(c.initial)
	c.errors = make(map[string][]string)
	c.touched = make(map[string]bool)
	return c
}

// Mount fires the external mount callback and connects the store bridge. It
// is idempotent: repeated calls after the first are no-ops, so schema swaps
// inside a mounted host never re-fire the lifecycle.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	bridge := c.bridge
	c.mu.Unlock()

	if bridge != nil {
		if err := bridge.Connect(); err != nil {
			c.logger.WithError(err).Warn("store bridge connect failed")
		} else {
			if seeded, err := bridge.SyncFromExternal(); err == nil && len(seeded) > 0 {
				c.applyExternal(seeded)
			}
			c.mu.Lock()
			c.unsubscribe = bridge.Subscribe(c.applyExternal)
			c.mu.Unlock()
		}
	}

	if c.events.Mount != nil {
		c.events.Mount()
	}
}

// Unmount fires the external unmount callback once and disconnects the
// bridge. The controller's state is considered discarded afterwards.
func (c *Controller) Unmount() {
	c.mu.Lock()
	if !c.mounted || c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	bridge := c.bridge
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if bridge != nil {
		if err := bridge.Disconnect(); err != nil {
			c.logger.WithError(err).Warn("store bridge disconnect failed")
		}
	}
	if c.events.Unmount != nil {
		c.events.Unmount()
	}
}

// Change merges one field edit into the value map. The field's existing
// errors clear eagerly; validity refreshes from the lightweight required-only
// pass so the submit affordance tracks input without surfacing error text.
func (c *Controller) Change(fieldID string, value any) {
	c.mu.Lock()
	c.values[fieldID] = value
	delete(c.errors, fieldID)
	c.dirty = !reflect.DeepEqual(c.values, c.initial)
	c.valid = c.requiredMetLocked()
	snapshot := cloneValues(c.values)
	c.mu.Unlock()

	if c.events.Change != nil {
		c.events.Change(snapshot)
	}
	c.syncToBridge(snapshot)
	c.startAsyncValidator(fieldID, value)
}

// Blur marks a field touched and fires the external blur callback.
func (c *Controller) Blur(fieldID string) {
	c.mu.Lock()
	c.touched[fieldID] = true
	c.mu.Unlock()

	if c.events.FieldBlur != nil {
		c.events.FieldBlur(fieldID)
	}
}

// Focus fires the external focus callback.
func (c *Controller) Focus(fieldID string) {
	if c.events.FieldFocus != nil {
		c.events.FieldFocus(fieldID)
	}
}

// Validate runs the full compiled rule set against current values, rebuilding
// errors and validity from scratch. Hidden fields are skipped; fields whose
// conditional require lists hold are checked as required even when their
// static flag is off. Safe to call independent of submission; idempotent for
// unchanged values.
func (c *Controller) Validate() Result {
	c.mu.Lock()
	result := c.validateLocked()
	snapshot := cloneErrors(result.Errors)
	c.mu.Unlock()

	if c.events.ValidationChange != nil {
		c.events.ValidationChange(result.Valid, snapshot)
	}
	return Result{Valid: result.Valid, Errors: snapshot}
}

func (c *Controller) validateLocked() Result {
	evalCtx := conditional.Context{Values: c.values, Extras: c.extras}
	errs := make(map[string][]string)

	for _, pf := range c.parsed.Fields {
		id := pf.Field.ID
		state, err := conditional.ResolveState(pf.Field, evalCtx)
		if err != nil {
			c.logger.WithError(err).WithField("field", id).Warn("conditional evaluation failed")
			state = conditional.FieldState{Visible: true, Enabled: true, Required: pf.Field.Required}
		}
		if !state.Visible {
			continue
		}

		rule := pf.ValidationRule
		rule.Required = state.Required
		messages := rule.Validate(c.values[id])
		if rule.Custom != nil {
			messages = append(messages, rule.Custom(c.values[id], c.values)...)
		}
		if len(messages) > 0 {
			errs[id] = messages
		}
	}

	if global := c.parsed.Validation.Global; global != nil {
		for id, messages := range global(c.values) {
			if len(messages) == 0 {
				continue
			}
			errs[id] = append(errs[id], messages...)
		}
	}

	c.errors = errs
	c.valid = len(errs) == 0
	return Result{Valid: c.valid, Errors: errs}
}

// requiredMetLocked is the lightweight validity pass: required fields only,
// honouring conditional visibility and require rules, no error text.
func (c *Controller) requiredMetLocked() bool {
	evalCtx := conditional.Context{Values: c.values, Extras: c.extras}
	for _, pf := range c.parsed.Fields {
		state, err := conditional.ResolveState(pf.Field, evalCtx)
		if err != nil {
			continue
		}
		if !state.Visible || !state.Required {
			continue
		}
		rule := pf.ValidationRule
		rule.Required = true
		if messages := rule.Validate(c.values[pf.Field.ID]); len(messages) > 0 {
			return false
		}
	}
	return true
}

// Submit validates and, when valid, awaits the external submit callback with
// the current values. At most one submission runs per controller instance: a
// call while one is in flight is a no-op. The in-flight flag clears on every
// path, including a panicking or failing handler.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil
	}
	c.submitting = true
	c.hasSubmitted = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	result := c.Validate()
	if !result.Valid {
		return ErrValidationFailed
	}

	if c.events.Submit == nil {
		return nil
	}

	c.mu.Lock()
	snapshot := cloneValues(c.values)
	c.mu.Unlock()

	if err := c.invokeSubmit(ctx, snapshot); err != nil {
		c.logger.WithError(err).Error("form submission failed")
		return ErrSubmissionIncomplete
	}
	return nil
}

func (c *Controller) invokeSubmit(ctx context.Context, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("form: submit handler panic")
		}
	}()
	return c.events.Submit(ctx, values)
}

// Reset restores values to the snapshot captured at construction, clears
// errors, touched flags, and submission state, and optimistically marks the
// form valid without re-validating.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.values = cloneValues(c.initial)
	c.errors = make(map[string][]string)
	c.touched = make(map[string]bool)
	c.hasSubmitted = false
	c.submitting = false
	c.dirty = false
	c.valid = true
	snapshot := cloneValues(c.values)
	c.mu.Unlock()

	if c.events.Reset != nil {
		c.events.Reset()
	}
	c.syncToBridge(snapshot)
}

// SetFieldValue routes a programmatic edit through the same transition as a
// user-driven change.
func (c *Controller) SetFieldValue(fieldID string, value any) {
	c.Change(fieldID, value)
}

// GetFieldValue returns the current value for a field.
func (c *Controller) GetFieldValue(fieldID string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[fieldID]
}

// Values returns a copy of the current value map.
func (c *Controller) Values() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneValues(c.values)
}

// SetValues merges a partial value map, recomputes dirty and lightweight
// validity, and fires the change event with the full updated map.
func (c *Controller) SetValues(partial map[string]any) {
	c.mu.Lock()
	for k, v := range partial {
		c.values[k] = v
		delete(c.errors, k)
	}
	c.dirty = !reflect.DeepEqual(c.values, c.initial)
	c.valid = c.requiredMetLocked()
	snapshot := cloneValues(c.values)
	c.mu.Unlock()

	if c.events.Change != nil {
		c.events.Change(snapshot)
	}
	c.syncToBridge(snapshot)
}

// SetInitialValues replaces the reset snapshot wholesale and recomputes
// dirty against it. Live values are untouched.
func (c *Controller) SetInitialValues(values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initial = cloneValues(values)
	c.dirty = !reflect.DeepEqual(c.values, c.initial)
}

// IsValid reports the current validity flag.
func (c *Controller) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid
}

// IsDirty reports whether values differ structurally from the initial
// snapshot.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// IsTouched reports whether the named field has been touched; with no
// argument it reports whether any field has.
func (c *Controller) IsTouched(fieldID ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(fieldID) == 0 {
		for _, touched := range c.touched {
			if touched {
				return true
			}
		}
		return false
	}
	return c.touched[fieldID[0]]
}

// State returns a point-in-time copy of the full form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Values:       cloneValues(c.values),
		Errors:       cloneErrors(c.errors),
		Touched:      cloneTouched(c.touched),
		IsSubmitting: c.submitting,
		IsValid:      c.valid,
		IsDirty:      c.dirty,
		HasSubmitted: c.hasSubmitted,
	}
}

// RenderContext assembles the per-pass bundle field renderers consume, with
// the callbacks wired back into this controller.
func (c *Controller) RenderContext() fields.RenderContext {
	state := c.State()
	return fields.RenderContext{
		Values:       state.Values,
		Errors:       state.Errors,
		Touched:      state.Touched,
		IsSubmitting: state.IsSubmitting,
		IsValid:      state.IsValid,
		IsDirty:      state.IsDirty,
		HasSubmitted: state.HasSubmitted,
		Extras:       c.extras,
		OnChange:     c.Change,
		OnBlur:       c.Blur,
		OnFocus:      c.Focus,
	}
}

// applyExternal merges values pushed by the store bridge without echoing
// them back out, avoiding a sync loop.
func (c *Controller) applyExternal(values map[string]any) {
	c.mu.Lock()
	for k, v := range values {
		c.values[k] = v
	}
	c.dirty = !reflect.DeepEqual(c.values, c.initial)
	c.valid = c.requiredMetLocked()
	snapshot := cloneValues(c.values)
	c.mu.Unlock()

	if c.events.Change != nil {
		c.events.Change(snapshot)
	}
}

func (c *Controller) syncToBridge(values map[string]any) {
	c.mu.Lock()
	bridge := c.bridge
	mounted := c.mounted
	c.mu.Unlock()
	if bridge == nil || !mounted {
		return
	}
	if err := bridge.SyncToExternal(values); err != nil {
		c.logger.WithError(err).Warn("store bridge sync failed")
	}
}

// startAsyncValidator launches the field's declared async validator, stamped
// with a fresh generation. A completion whose stamp or observed value no
// longer matches discards itself instead of overwriting a newer edit.
func (c *Controller) startAsyncValidator(fieldID string, value any) {
	pf, ok := c.parsed.Field(fieldID)
	if !ok || pf.Field.Validation == nil || pf.Field.Validation.Async == nil {
		return
	}
	spec := pf.Field.Validation

	c.mu.Lock()
	c.generations[fieldID]++
	generation := c.generations[fieldID]
	c.mu.Unlock()

	go func() {
		if spec.Debounce > 0 {
			time.Sleep(time.Duration(spec.Debounce) * time.Millisecond)
		}
		messages := c.invokeAsync(spec.Async, fieldID, value)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generations[fieldID] != generation {
			return
		}
		if !reflect.DeepEqual(c.values[fieldID], value) {
			return
		}
		if len(messages) > 0 {
			c.errors[fieldID] = messages
			c.valid = false
		} else {
			delete(c.errors, fieldID)
			c.valid = len(c.errors) == 0 && c.requiredMetLocked()
		}
	}()
}

func (c *Controller) invokeAsync(validator func(any) []string, fieldID string, value any) (messages []string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField("field", fieldID).Errorf("async validator panic: %v", r)
			messages = nil
		}
	}()
	return validator(value)
}

func cloneValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func cloneErrors(errs map[string][]string) map[string][]string {
	out := make(map[string][]string, len(errs))
	for k, v := range errs {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func cloneTouched(touched map[string]bool) map[string]bool {
	out := make(map[string]bool, len(touched))
	for k, v := range touched {
		out[k] = v
	}
	return out
}
