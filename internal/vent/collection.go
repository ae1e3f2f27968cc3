package vent

import "sync"

// Collection is an ordered, deduplicated set of targets with bind, unbind
// and fire operations. Every method returns the collection for chaining.
type Collection struct {
	engine *Engine

	mu      sync.RWMutex
	targets []Target
	index   map[Target]struct{}
}

// Add resolves each source and appends targets not already present.
// Sources may be selector strings, targets, []Target or collections.
// Anything else is ignored.
func (c *Collection) Add(sources ...any) *Collection {
	for _, source := range sources {
		for _, resolved := range c.engine.resolve(source) {
			t, ok := AsTarget(resolved)
			if !ok {
				continue
			}
			c.mu.Lock()
			if _, dup := c.index[t]; !dup {
				c.index[t] = struct{}{}
				c.targets = append(c.targets, t)
			}
			c.mu.Unlock()
		}
	}
	return c
}

// On binds handler to every event in events on every target.
func (c *Collection) On(events string, handler Handler) *Collection {
	return c.bind(events, "", handler, false)
}

// Delegate binds handler so it runs only for notifications whose origin
// matches selector.
func (c *Collection) Delegate(events, selector string, handler Handler) *Collection {
	return c.bind(events, selector, handler, false)
}

// Once binds handler so it runs at most once per target and event.
func (c *Collection) Once(events string, handler Handler) *Collection {
	return c.bind(events, "", handler, true)
}

// DelegateOnce combines Delegate and Once.
func (c *Collection) DelegateOnce(events, selector string, handler Handler) *Collection {
	return c.bind(events, selector, handler, true)
}

func (c *Collection) bind(events, selector string, handler Handler, once bool) *Collection {
	if handler == nil {
		return c
	}
	names := SplitEvents(events)
	if len(names) == 0 {
		return c
	}

	e := c.engine
	for _, t := range c.Targets() {
		for _, name := range names {
			b := newBinding(t, name, selector, once, handler, e.filter)
			t.AddListener(name, b)
			if !once {
				e.registry.Record(t, name, b)
			}
			e.logger.Debug("bound %s to %q (selector=%q once=%t)", b.id, name, selector, once)
		}
	}
	return c
}

// Off removes the listeners this facade bound for events on every target.
// With no names, or only blank ones, everything is removed.
func (c *Collection) Off(events ...string) *Collection {
	names := joinEvents(events)
	reg := c.engine.registry
	for _, t := range c.Targets() {
		reg.Clear(t, names...)
	}
	c.engine.logger.Debug("unbound %v from %d targets", names, c.Len())
	return c
}

// Trigger fires every event in events on every target.
func (c *Collection) Trigger(events string, opts ...TriggerOption) *Collection {
	var cfg triggerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	names := SplitEvents(events)
	if len(names) == 0 {
		return c
	}

	d := c.engine.dispatcher
	for _, t := range c.Targets() {
		d.Fire(t, names, cfg.payload, cfg.init)
	}
	return c
}

// Each calls fn for every target in order.
func (c *Collection) Each(fn func(t Target, index int)) *Collection {
	if fn == nil {
		return c
	}
	for i, t := range c.Targets() {
		fn(t, i)
	}
	return c
}

// ForEach is an alias for Each.
func (c *Collection) ForEach(fn func(t Target, index int)) *Collection {
	return c.Each(fn)
}

// Len returns the number of targets.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.targets)
}

// Has reports whether t is in the collection.
func (c *Collection) Has(t Target) bool {
	if _, ok := AsTarget(t); !ok {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[t]
	return ok
}

// Targets returns a copy of the targets in order.
func (c *Collection) Targets() []Target {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Target, len(c.targets))
	copy(result, c.targets)
	return result
}

// Engine returns the engine the collection was created from.
func (c *Collection) Engine() *Engine {
	return c.engine
}
