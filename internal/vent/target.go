package vent

import "reflect"

// Listener receives notifications from a host target.
// Hosts store listeners and remove them by interface equality.
type Listener interface {
	HandleEvent(n *Notification)
}

// ListenerFunc adapts a function to the Listener interface.
// Function values are not comparable, so a ListenerFunc can be added to a
// host but never removed from it. Use a pointer type when removal matters.
type ListenerFunc func(n *Notification)

// HandleEvent calls f(n).
func (f ListenerFunc) HandleEvent(n *Notification) {
	f(n)
}

// Target is an addressable object that can register and remove listeners.
// It is the minimum capability the facade requires.
type Target interface {
	AddListener(event string, l Listener)
	RemoveListener(event string, l Listener)
}

// Emitter is implemented by targets that can emit a notification. Emit sets
// the notification's Target to the emitting target when it is unset.
// Targets without it are skipped when firing.
type Emitter interface {
	Emit(n *Notification)
}

// Matcher is implemented by targets that can evaluate a structural selector
// against themselves.
type Matcher interface {
	Matches(selector string) bool
}

// Invoker is implemented by targets exposing invocable members such as
// click or focus. Invocable returns the member for name, if any.
type Invoker interface {
	Invocable(name string) (func(), bool)
}

// MatchFunc is a fallback structural-match primitive used when a target does
// not implement Matcher itself.
type MatchFunc func(t Target, selector string) bool

// Resolver turns a selector string into an ordered list of targets.
type Resolver interface {
	Resolve(selector string) []Target
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(selector string) []Target

// Resolve calls f(selector).
func (f ResolverFunc) Resolve(selector string) []Target {
	return f(selector)
}

// AsTarget reports whether v can be used as a Target.
// Values whose dynamic type is not comparable are rejected because
// target identity is interface equality.
func AsTarget(v any) (Target, bool) {
	if v == nil {
		return nil, false
	}
	t, ok := v.(Target)
	if !ok {
		return nil, false
	}
	rv := reflect.ValueOf(t)
	if !rv.Type().Comparable() {
		return nil, false
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return t, true
}
