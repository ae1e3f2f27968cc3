package script

import (
	"fmt"
	"reflect"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vent/internal/vent"
)

// Bridge converts values between Go and Lua. Targets and collections cross
// the boundary as userdata so scripts can hand them back to vent.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a Bridge for L.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value. Tables with contiguous
// integer keys from 1 become []any, other tables map[string]any. Functions
// convert to nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case nil:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && count == n {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value. vent targets and
// collections become userdata; maps are written in sorted key order.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint32:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case *vent.Collection:
		return b.NewCollection(val)
	case vent.Target:
		if t, ok := vent.AsTarget(val); ok {
			return b.NewTarget(t)
		}
		return lua.LNil
	case []any:
		t := b.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, b.ToLuaValue(item))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, b.ToLuaValue(val[k]))
		}
		return t
	default:
		return b.reflectToLua(v)
	}
}

// reflectToLua handles slices, maps, structs and pointers to them.
func (b *Bridge) reflectToLua(v any) lua.LValue {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return lua.LNil
		}
		return b.ToLuaValue(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		t := b.L.NewTable()
		for i := 0; i < rv.Len(); i++ {
			t.RawSetInt(i+1, b.ToLuaValue(rv.Index(i).Interface()))
		}
		return t

	case reflect.Map:
		t := b.L.NewTable()
		iter := rv.MapRange()
		for iter.Next() {
			t.RawSet(b.ToLuaValue(iter.Key().Interface()), b.ToLuaValue(iter.Value().Interface()))
		}
		return t

	case reflect.Struct:
		return b.structToTable(rv)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())

	case reflect.String:
		return lua.LString(rv.String())

	default:
		ud := b.L.NewUserData()
		ud.Value = v
		return ud
	}
}

// structToTable writes exported fields under their lua tag, or the field
// name when untagged. A tag of "-" skips the field.
func (b *Bridge) structToTable(rv reflect.Value) *lua.LTable {
	t := b.L.NewTable()
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("lua"); tag == "-" {
			continue
		} else if tag != "" {
			name = tag
		}
		t.RawSetString(name, b.ToLuaValue(rv.Field(i).Interface()))
	}
	return t
}

// NewTarget wraps t as a target userdata.
func (b *Bridge) NewTarget(t vent.Target) *lua.LUserData {
	ud := b.L.NewUserData()
	ud.Value = t
	b.L.SetMetatable(ud, b.L.GetTypeMetatable(targetTypeName))
	return ud
}

// NewCollection wraps c as a collection userdata.
func (b *Bridge) NewCollection(c *vent.Collection) *lua.LUserData {
	ud := b.L.NewUserData()
	ud.Value = c
	b.L.SetMetatable(ud, b.L.GetTypeMetatable(collectionTypeName))
	return ud
}

// Sources flattens Lua arguments into values the engine can resolve:
// selector strings, targets, collections, and tables of those.
func (b *Bridge) Sources(values ...lua.LValue) []any {
	var out []any
	visited := make(map[*lua.LTable]bool)
	var walk func(lv lua.LValue)
	walk = func(lv lua.LValue) {
		switch v := lv.(type) {
		case lua.LString:
			out = append(out, string(v))
		case *lua.LUserData:
			out = append(out, v.Value)
		case *lua.LTable:
			if visited[v] {
				return
			}
			visited[v] = true
			for i := 1; i <= v.Len(); i++ {
				walk(v.RawGetInt(i))
			}
		}
	}
	for _, lv := range values {
		walk(lv)
	}
	return out
}
