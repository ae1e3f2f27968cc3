package vent

import (
	"sort"
	"sync"
)

// domEventNames is the set of notification types a DOM document exposes
// through its on* handler properties.
var domEventNames = []string{
	"abort", "animationcancel", "animationend", "animationiteration", "animationstart",
	"auxclick", "beforeinput", "beforetoggle", "blur", "cancel", "canplay",
	"canplaythrough", "change", "click", "close", "contextlost", "contextmenu",
	"contextrestored", "copy", "cuechange", "cut", "dblclick", "drag", "dragend",
	"dragenter", "dragleave", "dragover", "dragstart", "drop", "durationchange",
	"emptied", "ended", "error", "focus", "focusin", "focusout", "formdata",
	"fullscreenchange", "fullscreenerror", "gotpointercapture", "input", "invalid",
	"keydown", "keypress", "keyup", "load", "loadeddata", "loadedmetadata",
	"loadstart", "lostpointercapture", "mousedown", "mouseenter", "mouseleave",
	"mousemove", "mouseout", "mouseover", "mouseup", "paste", "pause", "play",
	"playing", "pointercancel", "pointerdown", "pointerenter", "pointerleave",
	"pointerlockchange", "pointerlockerror", "pointermove", "pointerout",
	"pointerover", "pointerup", "progress", "ratechange", "readystatechange",
	"reset", "resize", "scroll", "scrollend", "securitypolicyviolation", "seeked",
	"seeking", "select", "selectionchange", "selectstart", "slotchange", "stalled",
	"submit", "suspend", "timeupdate", "toggle", "touchcancel", "touchend",
	"touchmove", "touchstart", "transitioncancel", "transitionend", "transitionrun",
	"transitionstart", "visibilitychange", "volumechange", "waiting", "wheel",
}

// DOMEventNames returns a copy of the default native event names.
func DOMEventNames() []string {
	result := make([]string, len(domEventNames))
	copy(result, domEventNames)
	return result
}

// Catalog is the set of host-recognized notification types.
// It is safe for concurrent use and can be replaced at runtime.
type Catalog struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewCatalog creates a catalog containing names.
func NewCatalog(names ...string) *Catalog {
	c := &Catalog{}
	c.Replace(names...)
	return c
}

// DefaultCatalog creates a catalog of the DOM event names.
func DefaultCatalog() *Catalog {
	return NewCatalog(domEventNames...)
}

// Has reports whether name is host-recognized.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.names[name]
	return ok
}

// Add adds names to the catalog.
func (c *Catalog) Add(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		if n != "" {
			c.names[n] = struct{}{}
		}
	}
}

// Replace swaps the catalog contents for names.
func (c *Catalog) Replace(names ...string) {
	next := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			next[n] = struct{}{}
		}
	}

	c.mu.Lock()
	c.names = next
	c.mu.Unlock()
}

// Names returns the catalog contents sorted alphabetically.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, 0, len(c.names))
	for n := range c.names {
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

// Len returns the number of names in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
