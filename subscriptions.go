package gami

import (
	"reflect"
	"sync"
)

// Handler processes one event packet. A handler that returns an error
// aborts the remaining handlers of that fire call; the error propagates
// to the caller of fire.
type Handler func(*Packet) error

// Registry maps event name to an ordered list of handlers. It is the Go
// replacement for the original's instance-attribute monkey-patching
// (setattr(self, 'on_'+name, ...)): handlers are data, not methods, so
// list actions can save/restore them without touching the type system.
type Registry struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

// NewRegistry returns an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string][]Handler{}}
}

// Subscribe adds handler for name. Subscribing the same handler twice for
// the same name fails with ErrDuplicateSubscription; handler identity is
// compared by pointer, matching the original's direct callable equality
// check.
func (r *Registry) Subscribe(name string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.handlers[name] {
		if sameHandler(h, handler) {
			return ErrDuplicateSubscription
		}
	}
	r.handlers[name] = append(r.handlers[name], handler)
	return nil
}

// Unsubscribe removes handler from name's list, if present.
func (r *Registry) Unsubscribe(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.handlers[name]
	for i, h := range list {
		if sameHandler(h, handler) {
			r.handlers[name] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Clear destroys all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = map[string][]Handler{}
}

// Fire invokes name's handlers in insertion order, sequentially. It never
// holds the registry mutex while a handler runs, so handlers may
// subscribe or unsubscribe re-entrantly. A handler error aborts the
// remaining handlers and is returned.
func (r *Registry) Fire(name string, p *Packet) error {
	r.mu.Lock()
	list := append([]Handler(nil), r.handlers[name]...)
	r.mu.Unlock()

	for _, h := range list {
		if err := h(p); err != nil {
			return err
		}
	}
	return nil
}

// HasHandler reports whether name has at least one subscriber.
func (r *Registry) HasHandler(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers[name]) > 0
}

// Merge adds every (name, handler) pair from other into r (the "+="
// operator). It is all-or-nothing: if any subscription fails as a
// duplicate, r is left unchanged.
func (r *Registry) Merge(other *Registry) error {
	other.mu.Lock()
	snapshot := make(map[string][]Handler, len(other.handlers))
	for name, hs := range other.handlers {
		snapshot[name] = append([]Handler(nil), hs...)
	}
	other.mu.Unlock()

	r.mu.Lock()
	saved := make(map[string][]Handler, len(r.handlers))
	for name, hs := range r.handlers {
		saved[name] = append([]Handler(nil), hs...)
	}
	r.mu.Unlock()

	for name, hs := range snapshot {
		for _, h := range hs {
			if err := r.Subscribe(name, h); err != nil {
				r.mu.Lock()
				r.handlers = saved
				r.mu.Unlock()
				return err
			}
		}
	}
	return nil
}

// Unmerge removes every (name, handler) pair in other from r (the "-="
// operator).
func (r *Registry) Unmerge(other *Registry) {
	other.mu.Lock()
	snapshot := make(map[string][]Handler, len(other.handlers))
	for name, hs := range other.handlers {
		snapshot[name] = append([]Handler(nil), hs...)
	}
	other.mu.Unlock()

	for name, hs := range snapshot {
		for _, h := range hs {
			r.Unsubscribe(name, h)
		}
	}
}

// capture installs handler for name, saving whatever was previously
// registered so it can be restored later. It does not check for
// duplicates: list-action captures always take exclusive ownership of
// their event names for the duration of one call.
func (r *Registry) capture(name string, handler Handler) (restore func()) {
	r.mu.Lock()
	prev := r.handlers[name]
	r.handlers[name] = []Handler{handler}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		r.handlers[name] = prev
		r.mu.Unlock()
	}
}

// sameHandler compares two Handlers for identity. Go func values are not
// comparable, so this compares the code pointers that reflect reports
// for them. Two closures created from the same function literal share
// one code pointer and therefore compare equal, even when they capture
// different variables.
func sameHandler(a, b Handler) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
