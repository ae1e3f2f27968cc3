package vent

import (
	"sync/atomic"

	"github.com/dshills/vent/internal/logging"
)

// Mode is the delivery decision for one event name on one target.
type Mode int

const (
	// ModeSkip means nothing is delivered.
	ModeSkip Mode = iota

	// ModeInvoke calls the target's same-named member instead of emitting.
	ModeInvoke

	// ModePlain emits a plain notification.
	ModePlain

	// ModeCustom emits a data-carrying notification.
	ModeCustom
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSkip:
		return "skip"
	case ModeInvoke:
		return "invoke"
	case ModePlain:
		return "plain"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Dispatcher synthesizes notifications on targets.
//
// Precedence, evaluated per event name:
//  1. a non-nil payload always produces a custom notification
//  2. a native name whose target exposes a same-named member invokes it,
//     when direct invocation is enabled
//  3. a native name produces a plain notification
//  4. anything else produces a custom notification with nil detail
//
// Targets without an Emitter skip cases 1, 3 and 4.
type Dispatcher struct {
	catalog      atomic.Pointer[Catalog]
	directInvoke atomic.Bool
	logger       *logging.Logger
}

// NewDispatcher creates a dispatcher over catalog. A nil catalog uses the
// DOM event names.
func NewDispatcher(catalog *Catalog, directInvoke bool, logger *logging.Logger) *Dispatcher {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = logging.Null
	}
	d := &Dispatcher{logger: logger}
	d.catalog.Store(catalog)
	d.directInvoke.Store(directInvoke)
	return d
}

// Catalog returns the current native catalog.
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog.Load()
}

// SetCatalog swaps the native catalog. Nil is ignored.
func (d *Dispatcher) SetCatalog(c *Catalog) {
	if c != nil {
		d.catalog.Store(c)
	}
}

// SetDirectInvoke enables or disables the invoke shortcut.
func (d *Dispatcher) SetDirectInvoke(enabled bool) {
	d.directInvoke.Store(enabled)
}

// DirectInvoke reports whether the invoke shortcut is enabled.
func (d *Dispatcher) DirectInvoke() bool {
	return d.directInvoke.Load()
}

// Decide returns the delivery mode for name on t.
func (d *Dispatcher) Decide(t Target, name string, payload any) Mode {
	if t == nil || name == "" {
		return ModeSkip
	}
	_, canEmit := t.(Emitter)

	if payload != nil {
		if !canEmit {
			return ModeSkip
		}
		return ModeCustom
	}

	native := d.Catalog().Has(name)
	if native && d.DirectInvoke() {
		if inv, ok := t.(Invoker); ok {
			if _, ok := inv.Invocable(name); ok {
				return ModeInvoke
			}
		}
	}

	if !canEmit {
		return ModeSkip
	}
	if native {
		return ModePlain
	}
	return ModeCustom
}

// Fire delivers each event name to t according to Decide.
func (d *Dispatcher) Fire(t Target, events []string, payload any, ei EventInit) {
	for _, name := range events {
		mode := d.Decide(t, name, payload)
		switch mode {
		case ModeSkip:
			d.logger.Debug("skipped %q: target cannot emit", name)
		case ModeInvoke:
			if fn, ok := t.(Invoker).Invocable(name); ok {
				fn()
			}
		case ModePlain:
			t.(Emitter).Emit(NewNotification(name, KindPlain, nil, ei))
		case ModeCustom:
			t.(Emitter).Emit(NewNotification(name, KindCustom, payload, ei))
		}
	}
}
