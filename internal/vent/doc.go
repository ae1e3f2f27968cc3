// Package vent binds, unbinds, delegates and fires named events across a
// collection of addressable targets owned by a host.
//
// The host supplies targets through the Target capability interface and,
// optionally, Emitter, Matcher and Invoker. The package never creates or
// destroys targets; it only attaches wrapped handlers to them and remembers
// which ones it attached so Off can remove exactly those.
//
// # Components
//
//	Engine ── Registry          (target, event) -> wrapped handlers
//	       ├─ DelegationFilter  origin x selector -> bool, at delivery time
//	       ├─ Dispatcher        event name x payload -> invoke | plain | custom
//	       └─ Resolver          selector -> targets (host supplied)
//
//	Collection                  ordered, deduplicated targets; On/Once/Off/Trigger
//
// # Basic Usage
//
//	engine := vent.New(vent.WithResolver(doc))
//	items := engine.Collect("li")
//
//	items.On("click mouseenter", func(n *vent.Notification, payload any) {
//	    fmt.Println(n.Type, payload)
//	})
//
//	// Delegated: runs only when the origin matches li:first-child.
//	engine.Collect("ul").Delegate("click", "li:first-child", handler)
//
//	items.Trigger("click")
//	items.Trigger("saved", vent.WithPayload(record), vent.WithBubbles(false))
//	items.Off("click")
//	items.Off()
//
// # Once Bindings
//
// Once and DelegateOnce wrappers move from armed to fired on their first
// matching delivery and then remove themselves from the host. They are
// never recorded in the registry, so Off does not see them.
//
// # Thread Safety
//
// Registry, Catalog, Dispatcher and Collection are safe for concurrent use.
// Handlers run on whatever goroutine the host delivers from.
package vent
