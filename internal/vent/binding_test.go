package vent

import "testing"

func TestBinding_DistinctIdentity(t *testing.T) {
	h := func(*Notification, any) {}
	target := newFakeTarget("a")

	b1 := newBinding(target, "click", "", false, h, nil)
	b2 := newBinding(target, "click", "", false, h, nil)

	if Listener(b1) == Listener(b2) {
		t.Error("expected two bindings of the same handler to differ")
	}
	if b1.ID() == b2.ID() {
		t.Error("expected distinct binding ids")
	}
}

func TestBinding_PassesPayload(t *testing.T) {
	var c counter
	target := newFakeTarget("a")
	b := newBinding(target, "saved", "", false, c.handle, nil)

	b.HandleEvent(&Notification{Type: "saved", Target: target, Detail: 42})
	b.HandleEvent(nil)

	if c.count() != 1 {
		t.Fatalf("expected 1 call, got %d", c.count())
	}
	if c.payloads[0] != 42 {
		t.Errorf("expected payload 42, got %v", c.payloads[0])
	}
}

func TestBinding_Once(t *testing.T) {
	var c counter
	target := newFakeTarget("a")
	b := newBinding(target, "click", "", true, c.handle, nil)
	target.AddListener("click", b)

	b.HandleEvent(&Notification{Type: "click", Target: target})
	b.HandleEvent(&Notification{Type: "click", Target: target})

	if c.count() != 1 {
		t.Errorf("expected 1 call, got %d", c.count())
	}
	if !b.Fired() {
		t.Error("expected binding to be fired")
	}
	if target.count("click") != 0 {
		t.Error("expected once binding to remove itself from the host")
	}
}

func TestBinding_OnceReentrant(t *testing.T) {
	target := newFakeTarget("a")
	var calls int
	var b *binding
	b = newBinding(target, "click", "", true, func(n *Notification, _ any) {
		calls++
		// Re-dispatch synchronously from inside the handler.
		b.HandleEvent(&Notification{Type: "click", Target: target})
	}, nil)
	target.AddListener("click", b)

	b.HandleEvent(&Notification{Type: "click", Target: target})

	if calls != 1 {
		t.Errorf("expected 1 call under re-entrant dispatch, got %d", calls)
	}
	if target.removed != 1 {
		t.Errorf("expected exactly one host removal, got %d", target.removed)
	}
}

func TestBinding_OnceStaysArmedUntilMatch(t *testing.T) {
	var c counter
	host := newFakeTarget("ul")
	filter := NewDelegationFilter(nil)
	b := newBinding(host, "click", "li:first-child", true, c.handle, filter)
	host.AddListener("click", b)

	other := &matchTarget{fakeTarget: newFakeTarget("li2"), selector: "li:last-child"}
	first := &matchTarget{fakeTarget: newFakeTarget("li1"), selector: "li:first-child"}

	b.HandleEvent(&Notification{Type: "click", Target: other})
	if b.Fired() {
		t.Fatal("expected non-matching delivery to leave the binding armed")
	}

	b.HandleEvent(&Notification{Type: "click", Target: first})
	b.HandleEvent(&Notification{Type: "click", Target: first})

	if c.count() != 1 {
		t.Errorf("expected 1 call, got %d", c.count())
	}
	if c.targets[0] != Target(first) {
		t.Error("expected handler to see the matching origin")
	}
}
