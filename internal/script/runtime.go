// Package script exposes a vent engine to Lua.
//
// Scripts get one global, vent, which collects targets the way
// Engine.Collect does and returns a collection userdata:
//
//	local items = vent("li")
//	items:on("click", function(ev, data) print(ev.type, ev.target) end)
//	vent("ul"):on("click", "li:first-child", function(ev) print("first") end)
//	items:trigger("click", { data = { n = 1 }, options = { bubbles = false } })
//
// on and once decide between a plain and a delegated binding by argument
// count: two arguments bind directly, three delegate on the middle
// selector, anything else does nothing.
//
// A Runtime is not safe for concurrent use. Scripts and the triggers that
// reach their handlers must run on one goroutine.
package script

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vent/internal/logging"
	"github.com/dshills/vent/internal/vent"
)

// DefaultCallStackSize is the Lua call stack size used when none is set.
const DefaultCallStackSize = 120

// Runtime runs Lua scripts against a vent engine.
type Runtime struct {
	L      *lua.LState
	bridge *Bridge
	engine *vent.Engine

	output  io.Writer
	logger  *logging.Logger
	onError func(error)

	mu     sync.Mutex
	closed bool
}

type runtimeConfig struct {
	callStackSize int
	output        io.Writer
	logger        *logging.Logger
	onError       func(error)
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

// WithCallStackSize sets the Lua call stack size.
func WithCallStackSize(n int) Option {
	return func(c *runtimeConfig) {
		if n > 0 {
			c.callStackSize = n
		}
	}
}

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(c *runtimeConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *runtimeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler receives errors raised by Lua event handlers. Handler
// errors are always logged; they cannot be returned to the trigger caller.
func WithErrorHandler(fn func(error)) Option {
	return func(c *runtimeConfig) {
		c.onError = fn
	}
}

// New creates a runtime bound to engine.
func New(engine *vent.Engine, opts ...Option) *Runtime {
	cfg := runtimeConfig{
		callStackSize: DefaultCallStackSize,
		output:        os.Stdout,
		logger:        logging.Null,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	L := lua.NewState(lua.Options{
		CallStackSize: cfg.callStackSize,
		SkipOpenLibs:  true,
	})
	openSafeLibraries(L)

	r := &Runtime{
		L:       L,
		bridge:  NewBridge(L),
		engine:  engine,
		output:  cfg.output,
		logger:  cfg.logger.WithComponent("script"),
		onError: cfg.onError,
	}
	r.install()
	return r
}

// openSafeLibraries opens base, table, string and math. io, os, debug and
// package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Engine returns the engine scripts operate on.
func (r *Runtime) Engine() *vent.Engine {
	return r.engine
}

// Bridge returns the value bridge.
func (r *Runtime) Bridge() *Bridge {
	return r.bridge
}

// DoString runs code.
func (r *Runtime) DoString(code string) error {
	return r.do("<string>", func() error {
		return r.L.DoString(code)
	})
}

// DoFile runs the script at path.
func (r *Runtime) DoFile(path string) error {
	return r.do(path, func() error {
		return r.L.DoFile(path)
	})
}

func (r *Runtime) do(source string, fn func() error) (err error) {
	if r.isClosed() {
		return ErrRuntimeClosed
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &ScriptError{Source: source, Err: fmt.Errorf("lua panic: %v", rec)}
		}
	}()

	if err := fn(); err != nil {
		return &ScriptError{Source: source, Err: err}
	}
	return nil
}

// Close releases the Lua state. Handlers still bound in the engine become
// no-ops.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runtime) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// print replaces the base print so output can be captured.
func (r *Runtime) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, top)
	for i := 1; i <= top; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(r.output, strings.Join(parts, "\t"))
	return 0
}

// handler adapts a Lua function to a vent handler. The function receives
// the event table and the trigger payload.
func (r *Runtime) handler(fn *lua.LFunction) vent.Handler {
	return func(n *vent.Notification, payload any) {
		if r.isClosed() {
			return
		}

		err := r.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, r.eventTable(n), r.bridge.ToLuaValue(payload))
		if err != nil {
			serr := &ScriptError{Source: "handler " + n.Type, Err: err}
			r.logger.Error("%v", serr)
			if r.onError != nil {
				r.onError(serr)
			}
		}
	}
}

// eventTable describes n to Lua.
func (r *Runtime) eventTable(n *vent.Notification) *lua.LTable {
	L := r.L
	t := L.NewTable()
	t.RawSetString("type", lua.LString(n.Type))
	t.RawSetString("kind", lua.LString(n.Kind.String()))
	t.RawSetString("bubbles", lua.LBool(n.Bubbles))
	t.RawSetString("cancelable", lua.LBool(n.Cancelable))
	t.RawSetString("detail", r.bridge.ToLuaValue(n.Detail))
	if n.Target != nil {
		t.RawSetString("target", r.bridge.ToLuaValue(n.Target))
	}
	if n.CurrentTarget != nil {
		t.RawSetString("current_target", r.bridge.ToLuaValue(n.CurrentTarget))
	}
	t.RawSetString("stop_propagation", L.NewFunction(func(*lua.LState) int {
		n.StopPropagation()
		return 0
	}))
	t.RawSetString("prevent_default", L.NewFunction(func(*lua.LState) int {
		n.PreventDefault()
		return 0
	}))
	return t
}
