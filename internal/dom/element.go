package dom

import (
	"reflect"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/vent/internal/vent"
)

// Element is a node of a Document. It implements vent.Target, vent.Emitter,
// vent.Matcher and vent.Invoker.
type Element struct {
	doc  *Document
	node *html.Node

	mu        sync.RWMutex
	listeners map[string][]*listenerEntry
}

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Tag returns the element's tag name, or "" for non-element nodes.
func (e *Element) Tag() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return e.node.Data
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// ID returns the id attribute.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.TrimSpace(b.String())
}

// Parent returns the parent node, or nil at the document root.
func (e *Element) Parent() *Element {
	return e.doc.Element(e.node.Parent)
}

// String returns a short description such as li#first.child1.
func (e *Element) String() string {
	if e.node.Type == html.DocumentNode {
		return "#document"
	}
	var b strings.Builder
	b.WriteString(e.Tag())
	if id := e.ID(); id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	if class, ok := e.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString(".")
			b.WriteString(c)
		}
	}
	return b.String()
}

// listenerEntry is one registration. removed is set when the listener is
// removed so snapshots taken by an in-flight Emit skip it.
type listenerEntry struct {
	listener vent.Listener
	removed  bool
}

// sameListener compares listeners without panicking on non-comparable
// dynamic types such as vent.ListenerFunc.
func sameListener(a, b vent.Listener) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// AddListener appends l to the listeners for event. Adding a listener that
// is already registered for event is ignored.
func (e *Element) AddListener(event string, l vent.Listener) {
	if event == "" || l == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.listeners[event] {
		if sameListener(existing.listener, l) {
			return
		}
	}
	e.listeners[event] = append(e.listeners[event], &listenerEntry{listener: l})
}

// RemoveListener removes l from the listeners for event.
func (e *Element) RemoveListener(event string, l vent.Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.listeners[event]
	for i, existing := range entries {
		if sameListener(existing.listener, l) {
			existing.removed = true
			e.listeners[event] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (e *Element) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}

// snapshot copies the entries for event so listeners can add or remove
// registrations while being called.
func (e *Element) snapshot(event string) []*listenerEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := e.listeners[event]
	if len(entries) == 0 {
		return nil
	}
	result := make([]*listenerEntry, len(entries))
	copy(result, entries)
	return result
}

// isRemoved reads the removed flag under the element lock.
func (e *Element) isRemoved(entry *listenerEntry) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return entry.removed
}

// Emit delivers n to this element and, when n bubbles, to each ancestor up
// to the document node.
func (e *Element) Emit(n *vent.Notification) {
	if n == nil {
		return
	}
	if n.Target == nil {
		n.Target = e
	}

	for cur := e; cur != nil; cur = cur.Parent() {
		n.CurrentTarget = cur
		for _, entry := range cur.snapshot(n.Type) {
			// Listeners removed by an earlier listener are not called.
			if cur.isRemoved(entry) {
				continue
			}
			entry.listener.HandleEvent(n)
		}
		if !n.Bubbles || n.PropagationStopped() {
			break
		}
	}
	n.CurrentTarget = nil
}

// Matches implements vent.Matcher. Non-element nodes and invalid selectors
// never match.
func (e *Element) Matches(selector string) bool {
	if e.node.Type != html.ElementNode {
		return false
	}
	sel, err := e.doc.compile(selector)
	if err != nil {
		return false
	}
	return sel.Match(e.node)
}

// Invocable implements vent.Invoker for click, focus and blur.
func (e *Element) Invocable(name string) (func(), bool) {
	if e.node.Type != html.ElementNode {
		return nil, false
	}
	switch name {
	case "click":
		return e.Click, true
	case "focus":
		return e.Focus, true
	case "blur":
		return e.Blur, true
	default:
		return nil, false
	}
}

// Click emits a bubbling click.
func (e *Element) Click() {
	e.Emit(vent.NewNotification("click", vent.KindPlain, nil, vent.EventInit{}))
}

// Focus makes e the active element. The previously focused element is
// blurred first. focus does not bubble; focusin does.
func (e *Element) Focus() {
	prev := e.doc.ActiveElement()
	if prev == e {
		return
	}
	if prev != nil {
		prev.Blur()
	}
	e.doc.setActive(e)

	noBubble := false
	e.Emit(vent.NewNotification("focus", vent.KindPlain, nil, vent.EventInit{Bubbles: &noBubble}))
	e.Emit(vent.NewNotification("focusin", vent.KindPlain, nil, vent.EventInit{}))
}

// Blur clears focus if e is the active element.
func (e *Element) Blur() {
	if e.doc.ActiveElement() != e {
		return
	}
	e.doc.setActive(nil)

	noBubble := false
	e.Emit(vent.NewNotification("blur", vent.KindPlain, nil, vent.EventInit{Bubbles: &noBubble}))
	e.Emit(vent.NewNotification("focusout", vent.KindPlain, nil, vent.EventInit{}))
}
