package fields

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Registry maps field type tags to renderers. Tags stay open strings so host
// applications can add custom types without touching the core. The last
// registration for a tag wins: overriding a built-in renderer is deliberate,
// not an error.
type Registry struct {
	mu        sync.RWMutex
	renderers map[schema.FieldType]Renderer
}

// NewRegistry creates an empty registry. Pair it with a renderer set such as
// renderers/html.RegisterDefaults, or register custom renderers directly.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[schema.FieldType]Renderer),
	}
}

// Register associates a renderer with a type tag, silently replacing any
// previous registration. Empty tags and nil renderers are ignored.
func (r *Registry) Register(tag schema.FieldType, renderer Renderer) {
	if r == nil || renderer == nil {
		return
	}
	trimmed := schema.FieldType(strings.TrimSpace(string(tag)))
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[trimmed] = renderer
}

// Get returns the renderer registered for a tag.
func (r *Registry) Get(tag schema.FieldType) (Renderer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[tag]
	return renderer, ok
}

// Has reports whether a tag has a registered renderer.
func (r *Registry) Has(tag schema.FieldType) bool {
	_, ok := r.Get(tag)
	return ok
}

// Types returns the registered tags, sorted.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for tag := range r.renderers {
		out = append(out, string(tag))
	}
	sort.Strings(out)
	return out
}

// Clear drops every registration. Used for test isolation and renderer-set
// reloads.
func (r *Registry) Clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers = make(map[schema.FieldType]Renderer)
}
