package vent

import "github.com/dshills/vent/internal/logging"

// Option configures an Engine.
type Option func(*engineConfig)

// engineConfig contains configuration for an Engine.
type engineConfig struct {
	registry     *Registry
	resolver     Resolver
	matchFunc    MatchFunc
	catalog      *Catalog
	directInvoke bool
	logger       *logging.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		directInvoke: true,
		logger:       logging.Null,
	}
}

// WithRegistry injects a shared registry.
func WithRegistry(r *Registry) Option {
	return func(c *engineConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithResolver sets the selector resolver used by Add.
func WithResolver(r Resolver) Option {
	return func(c *engineConfig) {
		c.resolver = r
	}
}

// WithMatchFunc sets the fallback structural-match primitive.
func WithMatchFunc(fn MatchFunc) Option {
	return func(c *engineConfig) {
		c.matchFunc = fn
	}
}

// WithCatalog sets the native event catalog.
func WithCatalog(cat *Catalog) Option {
	return func(c *engineConfig) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// WithDirectInvoke enables or disables invoking same-named target members
// for native events fired without payload.
func WithDirectInvoke(enabled bool) Option {
	return func(c *engineConfig) {
		c.directInvoke = enabled
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// TriggerOption configures a single Trigger call.
type TriggerOption func(*triggerConfig)

// triggerConfig contains the payload and init overrides of a Trigger call.
type triggerConfig struct {
	payload any
	init    EventInit
}

// WithPayload attaches data to the notification. A nil payload counts as
// absent.
func WithPayload(payload any) TriggerOption {
	return func(c *triggerConfig) {
		c.payload = payload
	}
}

// WithBubbles overrides the default bubbling flag.
func WithBubbles(bubbles bool) TriggerOption {
	return func(c *triggerConfig) {
		c.init.Bubbles = &bubbles
	}
}

// WithCancelable sets the cancelable flag.
func WithCancelable(cancelable bool) TriggerOption {
	return func(c *triggerConfig) {
		c.init.Cancelable = &cancelable
	}
}

// WithComposed sets the composed flag.
func WithComposed(composed bool) TriggerOption {
	return func(c *triggerConfig) {
		c.init.Composed = &composed
	}
}

// WithInit replaces all init overrides at once.
func WithInit(ei EventInit) TriggerOption {
	return func(c *triggerConfig) {
		c.init = ei
	}
}
