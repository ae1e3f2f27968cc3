package vent

import "sync"

// DelegationFilter decides whether a notification's origin satisfies a
// delegation selector. Matching happens at delivery time, so targets added
// to the host after binding are matched too.
type DelegationFilter struct {
	mu       sync.RWMutex
	fallback MatchFunc
}

// NewDelegationFilter creates a filter. fallback is consulted only for
// origins that do not implement Matcher; it may be nil.
func NewDelegationFilter(fallback MatchFunc) *DelegationFilter {
	return &DelegationFilter{fallback: fallback}
}

// SetFallback replaces the fallback match primitive.
func (f *DelegationFilter) SetFallback(fn MatchFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = fn
}

// Matches reports whether origin satisfies selector.
// An empty selector always matches. Without any match primitive the
// filter fails closed.
func (f *DelegationFilter) Matches(origin Target, selector string) bool {
	if selector == "" {
		return true
	}
	if origin == nil {
		return false
	}

	if m, ok := origin.(Matcher); ok {
		return m.Matches(selector)
	}
	if f == nil {
		return false
	}

	f.mu.RLock()
	fallback := f.fallback
	f.mu.RUnlock()

	if fallback != nil {
		return fallback(origin, selector)
	}
	return false
}
