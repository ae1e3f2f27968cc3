package vent

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Handler is the caller-supplied callback. payload is the notification's
// Detail, nil for plain notifications.
type Handler func(n *Notification, payload any)

// bindingState is the once-wrapper state machine.
type bindingState int32

const (
	bindingArmed bindingState = iota
	bindingFired
)

// binding is the wrapped handler installed on a host target.
// Each bind call produces its own binding, so two bindings are never equal.
type binding struct {
	id       string
	target   Target
	event    string
	selector string
	once     bool
	handler  Handler
	filter   *DelegationFilter
	state    atomic.Int32
}

func newBinding(t Target, event, selector string, once bool, h Handler, f *DelegationFilter) *binding {
	b := &binding{
		id:       uuid.NewString(),
		target:   t,
		event:    event,
		selector: selector,
		once:     once,
		handler:  h,
		filter:   f,
	}
	b.state.Store(int32(bindingArmed))
	return b
}

// ID returns the binding identifier.
func (b *binding) ID() string {
	return b.id
}

// Fired reports whether a once binding has already delivered.
func (b *binding) Fired() bool {
	return bindingState(b.state.Load()) == bindingFired
}

// HandleEvent implements Listener.
func (b *binding) HandleEvent(n *Notification) {
	if n == nil {
		return
	}
	if !b.filter.Matches(n.Target, b.selector) {
		return
	}

	if !b.once {
		b.handler(n, n.Detail)
		return
	}

	// armed -> fired happens before the handler runs so a synchronous
	// re-dispatch from inside the handler cannot deliver twice.
	if !b.state.CompareAndSwap(int32(bindingArmed), int32(bindingFired)) {
		return
	}
	defer b.target.RemoveListener(b.event, b)
	b.handler(n, n.Detail)
}
