// Package dom is an in-process HTML host for vent.
//
// A Document wraps a parsed golang.org/x/net/html tree. Every node is an
// Element that keeps ordered listener lists per event name, bubbles emitted
// notifications to its ancestors, evaluates CSS selectors with cascadia and
// exposes click, focus and blur as invocable members. The Document itself
// resolves selectors to targets.
//
//	doc, _ := dom.ParseString(markup)
//	engine := vent.New(vent.WithResolver(doc), vent.WithMatchFunc(doc.Match))
//	engine.Collect("ul").Delegate("click", "li:first-child", handler)
//	doc.QuerySelector("li").Click()
package dom
