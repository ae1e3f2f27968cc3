package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/dshills/vent/internal/vent"
)

// Document is an HTML tree whose nodes are addressable targets.
// Element wrappers are created lazily and are stable: the same node always
// yields the same *Element.
type Document struct {
	root *html.Node

	mu        sync.RWMutex
	elements  map[*html.Node]*Element
	selectors map[string]cascadia.Selector
	active    *Element
}

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		selectors: make(map[string]cascadia.Selector),
	}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Root returns the document node target.
func (d *Document) Root() *Element {
	return d.Element(d.root)
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.QuerySelector("body")
}

// Element returns the stable wrapper for n.
func (d *Document) Element(n *html.Node) *Element {
	if n == nil {
		return nil
	}

	d.mu.RLock()
	el, ok := d.elements[n]
	d.mu.RUnlock()
	if ok {
		return el
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[n]; ok {
		return el
	}
	el = &Element{
		doc:       d,
		node:      n,
		listeners: make(map[string][]*listenerEntry),
	}
	d.elements[n] = el
	return el
}

// compile returns a cached compiled selector.
func (d *Document) compile(selector string) (cascadia.Selector, error) {
	d.mu.RLock()
	sel, ok := d.selectors[selector]
	d.mu.RUnlock()
	if ok {
		return sel, nil
	}

	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &SelectorError{Selector: selector, Err: err}
	}

	d.mu.Lock()
	d.selectors[selector] = sel
	d.mu.Unlock()
	return sel, nil
}

// QuerySelectorAll returns elements matching selector in document order.
// An invalid selector yields no elements.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	sel, err := d.compile(selector)
	if err != nil {
		return nil
	}
	nodes := sel.MatchAll(d.root)
	result := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, d.Element(n))
	}
	return result
}

// QuerySelector returns the first element matching selector, or nil.
func (d *Document) QuerySelector(selector string) *Element {
	sel, err := d.compile(selector)
	if err != nil {
		return nil
	}
	return d.Element(sel.MatchFirst(d.root))
}

// Resolve implements vent.Resolver.
func (d *Document) Resolve(selector string) []vent.Target {
	elements := d.QuerySelectorAll(selector)
	if len(elements) == 0 {
		return nil
	}
	result := make([]vent.Target, len(elements))
	for i, el := range elements {
		result[i] = el
	}
	return result
}

// Match is a vent.MatchFunc for targets of this document.
func (d *Document) Match(t vent.Target, selector string) bool {
	el, ok := t.(*Element)
	if !ok || el.doc != d {
		return false
	}
	return el.Matches(selector)
}

// AppendHTML parses markup as a fragment in the context of parent and
// appends the resulting nodes to it.
func (d *Document) AppendHTML(parent *Element, markup string) ([]*Element, error) {
	if parent == nil || parent.doc != d {
		return nil, ErrForeignElement
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent.node)
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	var added []*Element
	for _, n := range nodes {
		parent.node.AppendChild(n)
		if n.Type == html.ElementNode {
			added = append(added, d.Element(n))
		}
	}
	return added, nil
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// setActive records el as focused and returns the previously focused element.
func (d *Document) setActive(el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.active
	d.active = el
	return prev
}
