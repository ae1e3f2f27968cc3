package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vent/internal/vent"
)

const (
	collectionTypeName = "vent.collection"
	targetTypeName     = "vent.target"
)

// install registers the vent global, the userdata metatables and print.
func (r *Runtime) install() {
	L := r.L

	L.SetGlobal("print", L.NewFunction(r.print))
	L.SetGlobal("vent", L.NewFunction(r.luaCollect))

	mt := L.NewTypeMetatable(collectionTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add":     r.luaAdd,
		"on":      r.luaOn,
		"once":    r.luaOnce,
		"off":     r.luaOff,
		"trigger": r.luaTrigger,
		"each":    r.luaEach,
		"len":     r.luaLen,
	}))
	L.SetField(mt, "__len", L.NewFunction(r.luaLen))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		c := checkCollection(L, 1)
		L.Push(lua.LString(fmt.Sprintf("vent.collection(%d)", c.Len())))
		return 1
	}))

	tmt := L.NewTypeMetatable(targetTypeName)
	L.SetField(tmt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"matches": targetMatches,
		"attr":    targetAttr,
		"text":    targetText,
	}))
	L.SetField(tmt, "__tostring", L.NewFunction(targetString))
	L.SetField(tmt, "__eq", L.NewFunction(func(L *lua.LState) int {
		a, b := checkTarget(L, 1), checkTarget(L, 2)
		L.Push(lua.LBool(a == b))
		return 1
	}))
}

func checkCollection(L *lua.LState, n int) *vent.Collection {
	ud := L.CheckUserData(n)
	if c, ok := ud.Value.(*vent.Collection); ok {
		return c
	}
	L.ArgError(n, "vent collection expected")
	return nil
}

func checkTarget(L *lua.LState, n int) vent.Target {
	ud := L.CheckUserData(n)
	if t, ok := vent.AsTarget(ud.Value); ok {
		return t
	}
	L.ArgError(n, "vent target expected")
	return nil
}

// args returns the arguments after self.
func args(L *lua.LState) []lua.LValue {
	top := L.GetTop()
	out := make([]lua.LValue, 0, top)
	for i := 2; i <= top; i++ {
		out = append(out, L.Get(i))
	}
	return out
}

// vent(sources...)
func (r *Runtime) luaCollect(L *lua.LState) int {
	values := make([]lua.LValue, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		values = append(values, L.Get(i))
	}
	c := r.engine.Collect(r.bridge.Sources(values...)...)
	L.Push(r.bridge.NewCollection(c))
	return 1
}

// c:add(sources...)
func (r *Runtime) luaAdd(L *lua.LState) int {
	c := checkCollection(L, 1)
	c.Add(r.bridge.Sources(args(L)...)...)
	L.Push(L.Get(1))
	return 1
}

func (r *Runtime) luaOn(L *lua.LState) int {
	return r.bind(L, false)
}

func (r *Runtime) luaOnce(L *lua.LState) int {
	return r.bind(L, true)
}

// bind handles c:on(events, fn), c:on(events, selector, fn) and the once
// variants. Other argument counts and non-function handlers are ignored.
func (r *Runtime) bind(L *lua.LState, once bool) int {
	c := checkCollection(L, 1)
	a := args(L)

	var events, selector string
	var fn *lua.LFunction
	switch len(a) {
	case 2:
		events = lua.LVAsString(a[0])
		fn, _ = a[1].(*lua.LFunction)
	case 3:
		events = lua.LVAsString(a[0])
		selector = lua.LVAsString(a[1])
		fn, _ = a[2].(*lua.LFunction)
	default:
		r.logger.Debug("ignoring bind with %d arguments", len(a))
	}

	if fn != nil {
		h := r.handler(fn)
		switch {
		case selector == "" && !once:
			c.On(events, h)
		case selector == "":
			c.Once(events, h)
		case !once:
			c.Delegate(events, selector, h)
		default:
			c.DelegateOnce(events, selector, h)
		}
	}

	L.Push(L.Get(1))
	return 1
}

// c:off([events...])
func (r *Runtime) luaOff(L *lua.LState) int {
	c := checkCollection(L, 1)
	var names []string
	for _, v := range args(L) {
		names = append(names, lua.LVAsString(v))
	}
	c.Off(names...)
	L.Push(L.Get(1))
	return 1
}

// c:trigger(events [, { data = ..., options = { bubbles, cancelable, composed } }])
func (r *Runtime) luaTrigger(L *lua.LState) int {
	c := checkCollection(L, 1)
	events := L.CheckString(2)

	var opts []vent.TriggerOption
	if params, ok := L.Get(3).(*lua.LTable); ok {
		if data := params.RawGetString("data"); data != lua.LNil {
			opts = append(opts, vent.WithPayload(r.bridge.ToGoValue(data)))
		}
		if options, ok := params.RawGetString("options").(*lua.LTable); ok {
			opts = append(opts, vent.WithInit(eventInit(options)))
		}
	}

	c.Trigger(events, opts...)
	L.Push(L.Get(1))
	return 1
}

// eventInit reads the boolean flags present in t.
func eventInit(t *lua.LTable) vent.EventInit {
	var ei vent.EventInit
	flag := func(key string) *bool {
		v, ok := t.RawGetString(key).(lua.LBool)
		if !ok {
			return nil
		}
		b := bool(v)
		return &b
	}
	ei.Bubbles = flag("bubbles")
	ei.Cancelable = flag("cancelable")
	ei.Composed = flag("composed")
	return ei
}

// c:each(fn) calls fn(target, index) with 1-based indexes.
func (r *Runtime) luaEach(L *lua.LState) int {
	c := checkCollection(L, 1)
	fn := L.CheckFunction(2)

	c.Each(func(t vent.Target, i int) {
		L.Push(fn)
		L.Push(r.bridge.NewTarget(t))
		L.Push(lua.LNumber(i + 1))
		L.Call(2, 0)
	})

	L.Push(L.Get(1))
	return 1
}

func (r *Runtime) luaLen(L *lua.LState) int {
	c := checkCollection(L, 1)
	L.Push(lua.LNumber(c.Len()))
	return 1
}

type attributer interface {
	Attr(name string) (string, bool)
}

type texter interface {
	Text() string
}

// t:matches(selector)
func targetMatches(L *lua.LState) int {
	t := checkTarget(L, 1)
	selector := L.CheckString(2)
	m, ok := t.(vent.Matcher)
	L.Push(lua.LBool(ok && m.Matches(selector)))
	return 1
}

// t:attr(name) returns nil when the target has no such attribute.
func targetAttr(L *lua.LState) int {
	t := checkTarget(L, 1)
	name := L.CheckString(2)
	if a, ok := t.(attributer); ok {
		if v, ok := a.Attr(name); ok {
			L.Push(lua.LString(v))
			return 1
		}
	}
	L.Push(lua.LNil)
	return 1
}

func targetText(L *lua.LState) int {
	t := checkTarget(L, 1)
	if tx, ok := t.(texter); ok {
		L.Push(lua.LString(tx.Text()))
		return 1
	}
	L.Push(lua.LString(""))
	return 1
}

func targetString(L *lua.LState) int {
	t := checkTarget(L, 1)
	if s, ok := t.(fmt.Stringer); ok {
		L.Push(lua.LString(s.String()))
	} else {
		L.Push(lua.LString(fmt.Sprintf("%T", t)))
	}
	return 1
}
