package vent

import "github.com/dshills/vent/internal/logging"

// Engine owns the collaborators shared by collections: the handler
// registry, the delegation filter, the dispatcher and the resolver.
// Independent engines never share state unless a registry is injected.
type Engine struct {
	registry   *Registry
	filter     *DelegationFilter
	dispatcher *Dispatcher
	resolver   Resolver
	logger     *logging.Logger
}

// New creates an engine.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}
	logger := cfg.logger.WithComponent("vent")

	return &Engine{
		registry:   cfg.registry,
		filter:     NewDelegationFilter(cfg.matchFunc),
		dispatcher: NewDispatcher(cfg.catalog, cfg.directInvoke, logger),
		resolver:   cfg.resolver,
		logger:     logger,
	}
}

// Collect creates a collection populated from sources.
func (e *Engine) Collect(sources ...any) *Collection {
	c := &Collection{
		engine: e,
		index:  make(map[Target]struct{}),
	}
	return c.Add(sources...)
}

// Registry returns the engine's handler registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Dispatcher returns the engine's dispatcher.
func (e *Engine) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// Filter returns the engine's delegation filter.
func (e *Engine) Filter() *DelegationFilter {
	return e.filter
}

// SetResolver replaces the selector resolver.
func (e *Engine) SetResolver(r Resolver) {
	e.resolver = r
}

// Close removes every listener the engine's registry recorded.
// Once bindings are not recorded and stay attached until they fire.
func (e *Engine) Close() {
	e.registry.Reset()
}

// resolve normalizes one source into targets.
func (e *Engine) resolve(source any) []Target {
	switch s := source.(type) {
	case nil:
		return nil
	case string:
		if s == "" || e.resolver == nil {
			return nil
		}
		return e.resolver.Resolve(s)
	case *Collection:
		if s == nil {
			return nil
		}
		return s.Targets()
	case []Target:
		return s
	}

	if t, ok := AsTarget(source); ok {
		return []Target{t}
	}
	e.logger.Debug("ignored source of type %T", source)
	return nil
}
