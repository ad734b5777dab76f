package form

import "sync"

// Bridge synchronises controller state with an external store. The store's
// write model is opaque to the controller: it pushes committed values out
// through SyncToExternal, seeds itself from SyncFromExternal on mount, and
// applies updates delivered through Subscribe.
type Bridge interface {
	Connect() error
	Disconnect() error
	SyncToExternal(values map[string]any) error
	SyncFromExternal() (map[string]any, error)
	Subscribe(fn func(values map[string]any)) (unsubscribe func())
}

// MemoryBridge is an in-process Bridge backed by a plain map. It exists for
// tests and embedding examples that need store synchronisation without a real
// state container.
type MemoryBridge struct {
	mu        sync.Mutex
	values    map[string]any
	listeners map[int]func(map[string]any)
	nextID    int
	connected bool
}

// NewMemoryBridge creates a bridge seeded with the supplied values.
func NewMemoryBridge(values map[string]any) *MemoryBridge {
	seeded := make(map[string]any, len(values))
	for k, v := range values {
		seeded[k] = v
	}
	return &MemoryBridge{
		values:    seeded,
		listeners: make(map[int]func(map[string]any)),
	}
}

// Connect marks the bridge as active.
func (b *MemoryBridge) Connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = true
	return nil
}

// Disconnect drops every subscription.
func (b *MemoryBridge) Disconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
	b.listeners = make(map[int]func(map[string]any))
	return nil
}

// SyncToExternal stores a copy of the committed values.
func (b *MemoryBridge) SyncToExternal(values map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = make(map[string]any, len(values))
	for k, v := range values {
		b.values[k] = v
	}
	return nil
}

// SyncFromExternal returns a copy of the stored values.
func (b *MemoryBridge) SyncFromExternal() (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out, nil
}

// Subscribe registers a listener for external updates pushed through Update.
func (b *MemoryBridge) Subscribe(fn func(values map[string]any)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Update simulates an external state change: it replaces the stored values
// and notifies subscribers.
func (b *MemoryBridge) Update(values map[string]any) {
	b.mu.Lock()
	b.values = make(map[string]any, len(values))
	for k, v := range values {
		b.values[k] = v
	}
	listeners := make([]func(map[string]any), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	snapshot := make(map[string]any, len(b.values))
	for k, v := range b.values {
		snapshot[k] = v
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
