// Package config loads vent settings from TOML or YAML files and watches
// them for changes.
//
// A file only needs the keys it wants to change; everything else keeps the
// value from Default:
//
//	[log]
//	level = "debug"
//
//	[dispatch]
//	direct_invoke = false
//	extra_native_events = ["swipe"]
package config

import (
	"fmt"
	"strings"

	"github.com/dshills/vent/internal/logging"
	"github.com/dshills/vent/internal/vent"
)

// Config is the complete vent configuration.
type Config struct {
	Log      LogConfig      `toml:"log" yaml:"log"`
	Dispatch DispatchConfig `toml:"dispatch" yaml:"dispatch"`
	Script   ScriptConfig   `toml:"script" yaml:"script"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// DispatchConfig configures how triggers become notifications.
type DispatchConfig struct {
	// DirectInvoke lets a payload-free trigger of a native name call the
	// target's member of that name.
	DirectInvoke bool `toml:"direct_invoke" yaml:"direct_invoke"`

	// NativeEvents replaces the built-in catalog when non-empty.
	NativeEvents []string `toml:"native_events" yaml:"native_events"`

	// ExtraNativeEvents is appended to the catalog.
	ExtraNativeEvents []string `toml:"extra_native_events" yaml:"extra_native_events"`
}

// ScriptConfig configures the Lua runtime.
type ScriptConfig struct {
	// CallStackSize is the Lua call stack size. Zero uses the runtime default.
	CallStackSize int `toml:"call_stack_size" yaml:"call_stack_size"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Dispatch: DispatchConfig{
			DirectInvoke: true,
		},
		Script: ScriptConfig{
			CallStackSize: 120,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Log.Level)
	}
	if c.Script.CallStackSize < 0 {
		return fmt.Errorf("script.call_stack_size must not be negative, got %d", c.Script.CallStackSize)
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Catalog builds the native event catalog described by the configuration.
func (c *Config) Catalog() *vent.Catalog {
	var catalog *vent.Catalog
	if len(c.Dispatch.NativeEvents) > 0 {
		catalog = vent.NewCatalog(c.Dispatch.NativeEvents...)
	} else {
		catalog = vent.DefaultCatalog()
	}
	catalog.Add(c.Dispatch.ExtraNativeEvents...)
	return catalog
}

// EngineOptions returns the vent options matching the configuration.
func (c *Config) EngineOptions() []vent.Option {
	return []vent.Option{
		vent.WithCatalog(c.Catalog()),
		vent.WithDirectInvoke(c.Dispatch.DirectInvoke),
	}
}

// Apply pushes dispatch settings into a running engine.
func (c *Config) Apply(e *vent.Engine) {
	if e == nil {
		return
	}
	d := e.Dispatcher()
	d.SetCatalog(c.Catalog())
	d.SetDirectInvoke(c.Dispatch.DirectInvoke)
}
