package vent

import "sync"

// Registry remembers which listeners the facade attached, per target and
// event name, so they can later be removed without touching listeners
// registered by other code. It is safe for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	records map[Target]*targetRecord
	order   []Target
}

// targetRecord holds the recorded listeners of one target.
type targetRecord struct {
	events map[string][]Listener
	names  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[Target]*targetRecord),
	}
}

// Record appends l to the list for (t, event).
// It is a no-op if any argument is missing.
func (r *Registry) Record(t Target, event string, l Listener) {
	if t == nil || event == "" || l == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[t]
	if !exists {
		rec = &targetRecord{events: make(map[string][]Listener)}
		r.records[t] = rec
		r.order = append(r.order, t)
	}
	if _, ok := rec.events[event]; !ok {
		rec.names = append(rec.names, event)
	}
	rec.events[event] = append(rec.events[event], l)
}

// Clear removes recorded listeners of t from the host and forgets them.
// With no event names the whole record of t is cleared. Names that were
// never recorded are ignored.
func (r *Registry) Clear(t Target, events ...string) {
	if t == nil {
		return
	}

	detached := r.detach(t, events)
	for _, d := range detached {
		for _, l := range d.listeners {
			t.RemoveListener(d.event, l)
		}
	}
}

// detachedEntry is a registry entry removed under the lock, waiting for
// host removal.
type detachedEntry struct {
	event     string
	listeners []Listener
}

// detach removes entries from the registry and returns them in recorded
// order. Host removal happens outside the lock so listeners removed by the
// host may call back into the registry.
func (r *Registry) detach(t Target, events []string) []detachedEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[t]
	if !exists {
		return nil
	}

	var want map[string]bool
	if len(events) > 0 {
		want = make(map[string]bool, len(events))
		for _, e := range events {
			want[e] = true
		}
	}

	var detached []detachedEntry
	kept := rec.names[:0]
	for _, name := range rec.names {
		if want != nil && !want[name] {
			kept = append(kept, name)
			continue
		}
		detached = append(detached, detachedEntry{event: name, listeners: rec.events[name]})
		delete(rec.events, name)
	}
	rec.names = kept

	if want == nil || len(rec.names) == 0 {
		r.forget(t)
	}
	return detached
}

// forget deletes the record of t. Caller must hold the lock.
func (r *Registry) forget(t Target) {
	delete(r.records, t)
	for i, existing := range r.order {
		if existing == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of listeners recorded for (t, event).
func (r *Registry) Len(t Target, event string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[t]
	if !exists {
		return 0
	}
	return len(rec.events[event])
}

// Listeners returns a copy of the listeners recorded for (t, event).
func (r *Registry) Listeners(t Target, event string) []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[t]
	if !exists || len(rec.events[event]) == 0 {
		return nil
	}
	result := make([]Listener, len(rec.events[event]))
	copy(result, rec.events[event])
	return result
}

// Events returns the event names recorded for t in first-recorded order.
func (r *Registry) Events(t Target) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[t]
	if !exists || len(rec.names) == 0 {
		return nil
	}
	result := make([]string, len(rec.names))
	copy(result, rec.names)
	return result
}

// Targets returns every target with a record, in first-recorded order.
func (r *Registry) Targets() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}
	result := make([]Target, len(r.order))
	copy(result, r.order)
	return result
}

// Count returns the total number of recorded listeners.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.records {
		for _, ls := range rec.events {
			count += len(ls)
		}
	}
	return count
}

// Reset clears every target, removing all recorded listeners from their hosts.
func (r *Registry) Reset() {
	for _, t := range r.Targets() {
		r.Clear(t)
	}
}
