package vent

import "sync"

// fakeTarget is a minimal host target that records every call.
type fakeTarget struct {
	name string

	mu        sync.Mutex
	listeners map[string][]Listener
	added     int
	removed   int
}

func newFakeTarget(name string) *fakeTarget {
	return &fakeTarget{name: name, listeners: make(map[string][]Listener)}
}

func (f *fakeTarget) AddListener(event string, l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added++
	f.listeners[event] = append(f.listeners[event], l)
}

func (f *fakeTarget) RemoveListener(event string, l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed++
	ls := f.listeners[event]
	for i, existing := range ls {
		if existing == l {
			f.listeners[event] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

func (f *fakeTarget) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners[event])
}

// deliver calls every listener for n.Type with n originating at origin.
func (f *fakeTarget) deliver(n *Notification, origin Target) {
	f.mu.Lock()
	ls := make([]Listener, len(f.listeners[n.Type]))
	copy(ls, f.listeners[n.Type])
	f.mu.Unlock()

	if n.Target == nil {
		n.Target = origin
	}
	n.CurrentTarget = f
	for _, l := range ls {
		l.HandleEvent(n)
	}
}

// emitTarget adds the Emit capability and records emitted notifications.
type emitTarget struct {
	*fakeTarget
	emitted []*Notification
}

func newEmitTarget(name string) *emitTarget {
	return &emitTarget{fakeTarget: newFakeTarget(name)}
}

func (e *emitTarget) Emit(n *Notification) {
	e.emitted = append(e.emitted, n)
	e.deliver(n, e)
}

// invokeTarget adds same-named invocable members on top of emitTarget.
type invokeTarget struct {
	*emitTarget
	members map[string]int
}

func newInvokeTarget(name string, members ...string) *invokeTarget {
	t := &invokeTarget{emitTarget: newEmitTarget(name), members: make(map[string]int)}
	for _, m := range members {
		t.members[m] = 0
	}
	return t
}

func (t *invokeTarget) Invocable(name string) (func(), bool) {
	if _, ok := t.members[name]; !ok {
		return nil, false
	}
	return func() { t.members[name]++ }, true
}

// matchTarget matches exactly one selector.
type matchTarget struct {
	*fakeTarget
	selector string
}

func (m *matchTarget) Matches(selector string) bool {
	return selector == m.selector
}

// counter counts handler invocations.
type counter struct {
	mu       sync.Mutex
	calls    int
	payloads []any
	targets  []Target
}

func (c *counter) handle(n *Notification, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.payloads = append(c.payloads, payload)
	c.targets = append(c.targets, n.Target)
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
