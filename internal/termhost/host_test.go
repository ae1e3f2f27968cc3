package termhost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vent/internal/dom"
	"github.com/dshills/vent/internal/vent"
)

const testMarkup = `<!DOCTYPE html>
<html><body>
<ul id="some-list">
	<li class="child1">first</li>
	<li class="child2">second</li>
</ul>
<a href="#!">link</a>
</body></html>`

type fixture struct {
	screen tcell.SimulationScreen
	doc    *dom.Document
	engine *vent.Engine
	host   *Host
	li1    *dom.Element
	li2    *dom.Element
	link   *dom.Element
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doc, err := dom.ParseString(testMarkup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(40, 10)
	t.Cleanup(screen.Fini)

	e := vent.New(vent.WithResolver(doc), vent.WithMatchFunc(doc.Match))
	f := &fixture{
		screen: screen,
		doc:    doc,
		engine: e,
		host:   New(screen, e, doc.Root()),
		li1:    doc.QuerySelector("li.child1"),
		li2:    doc.QuerySelector("li.child2"),
		link:   doc.QuerySelector("a"),
	}
	f.host.AddRegion(Rect{X: 0, Y: 0, Width: 10, Height: 1}, f.li1, "first")
	f.host.AddRegion(Rect{X: 0, Y: 1, Width: 10, Height: 1}, f.li2, "second")
	f.host.AddRegion(Rect{X: 0, Y: 2, Width: 10, Height: 1}, f.link, "link")
	return f
}

type capture struct {
	calls    int
	payloads []any
	targets  []vent.Target
}

func (c *capture) handle(n *vent.Notification, payload any) {
	c.calls++
	c.payloads = append(c.payloads, payload)
	c.targets = append(c.targets, n.Target)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 2, Y: 1, Width: 3, Height: 2}

	tests := []struct {
		x, y     int
		expected bool
	}{
		{2, 1, true},
		{4, 2, true},
		{5, 1, false},
		{2, 3, false},
		{1, 1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.expected {
			t.Errorf("Contains(%d, %d) = %t, expected %t", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestHost_AddRegion(t *testing.T) {
	f := newFixture(t)

	var nilElement *dom.Element
	f.host.AddRegion(Rect{Width: 1, Height: 1}, nilElement, "nil")
	f.host.AddRegion(Rect{Width: 0, Height: 1}, f.li1, "empty")

	if got := len(f.host.Regions()); got != 3 {
		t.Errorf("expected 3 regions, got %d", got)
	}

	f.host.AddRegion(Rect{X: 0, Y: 0, Width: 10, Height: 3}, f.link, "overlay")
	if target, _ := f.host.TargetAt(0, 0); target != vent.Target(f.link) {
		t.Error("expected the last region to sit on top")
	}
	if _, ok := f.host.TargetAt(20, 0); ok {
		t.Error("expected no target outside every region")
	}
}

func TestHost_MouseClick(t *testing.T) {
	f := newFixture(t)
	c := &capture{}
	f.engine.Collect("li").On("click", c.handle)

	f.host.Handle(tcell.NewEventMouse(3, 1, tcell.Button1, tcell.ModNone))
	f.host.Handle(tcell.NewEventMouse(4, 1, tcell.Button1, tcell.ModNone))

	if c.calls != 1 {
		t.Fatalf("expected one click while the button is held, got %d", c.calls)
	}
	if c.targets[0] != vent.Target(f.li2) {
		t.Error("expected click on the second item")
	}
	if f.host.Focused() != vent.Target(f.li2) {
		t.Error("expected click to focus the region")
	}

	f.host.Handle(tcell.NewEventMouse(4, 1, tcell.ButtonNone, tcell.ModNone))
	f.host.Handle(tcell.NewEventMouse(4, 0, tcell.Button1, tcell.ModNone))
	if c.calls != 2 {
		t.Errorf("expected a second click after release, got %d", c.calls)
	}

	f.host.Handle(tcell.NewEventMouse(4, 0, tcell.ButtonNone, tcell.ModNone))
	f.host.Handle(tcell.NewEventMouse(30, 8, tcell.Button1, tcell.ModNone))
	if c.calls != 2 {
		t.Errorf("expected no click outside regions, got %d", c.calls)
	}
}

func TestHost_KeyOnFocused(t *testing.T) {
	f := newFixture(t)
	c := &capture{}
	f.engine.Collect("a").On("keydown", c.handle)

	f.host.Handle(tcell.NewEventMouse(0, 2, tcell.Button1, tcell.ModNone))
	f.host.Handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt))

	if c.calls != 1 {
		t.Fatalf("expected 1 keydown, got %d", c.calls)
	}
	info, ok := c.payloads[0].(KeyInfo)
	if !ok {
		t.Fatalf("expected KeyInfo payload, got %T", c.payloads[0])
	}
	if info.Rune != "x" || !info.Alt || info.Ctrl {
		t.Errorf("unexpected key info %+v", info)
	}
}

func TestHost_KeyWithoutFocus(t *testing.T) {
	f := newFixture(t)
	c := &capture{}
	f.engine.Collect(f.doc.Root()).On("keydown", c.handle)

	f.host.Handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	if c.calls != 1 {
		t.Fatalf("expected keydown on the root, got %d calls", c.calls)
	}
	info := c.payloads[0].(KeyInfo)
	if info.Name != "Enter" || info.Rune != "" {
		t.Errorf("unexpected key info %+v", info)
	}
}

func TestHost_TabFocus(t *testing.T) {
	f := newFixture(t)
	c := &capture{}
	f.engine.Collect("li").On("focus", c.handle)

	f.host.Handle(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if f.doc.ActiveElement() != f.li1 {
		t.Error("expected Tab to focus the first region")
	}

	f.host.Handle(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if f.doc.ActiveElement() != f.li2 {
		t.Error("expected Tab to move focus")
	}
	if c.calls != 2 {
		t.Errorf("expected 2 focus notifications, got %d", c.calls)
	}

	f.host.Handle(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	f.host.Handle(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if f.host.Focused() != vent.Target(f.li1) {
		t.Error("expected focus to wrap around")
	}
}

func TestHost_Resize(t *testing.T) {
	f := newFixture(t)
	c := &capture{}
	f.engine.Collect(f.doc.Root()).On("resize", c.handle)

	f.host.Handle(tcell.NewEventResize(100, 40))

	if c.calls != 1 {
		t.Fatalf("expected 1 resize, got %d", c.calls)
	}
	if size, ok := c.payloads[0].(Size); !ok || size.Width != 100 || size.Height != 40 {
		t.Errorf("unexpected resize payload %#v", c.payloads[0])
	}
}

func TestHost_QuitKeys(t *testing.T) {
	f := newFixture(t)

	if f.host.Handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("expected Escape to stop the host")
	}
	if f.host.Handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("expected Ctrl-C to stop the host")
	}
	if f.host.Handle(tcell.NewEventInterrupt(nil)) {
		t.Error("expected an interrupt to stop the host")
	}
}

func TestHost_Draw(t *testing.T) {
	f := newFixture(t)

	f.host.Draw()

	mainc, _, _, _ := f.screen.GetContent(0, 1) //nolint:staticcheck // GetContent is the simulation screen accessor
	if mainc != 's' {
		t.Errorf("expected label on the second row, got %q", mainc)
	}
}

func TestHost_Run(t *testing.T) {
	f := newFixture(t)
	c := &capture{}
	f.engine.Collect(f.doc.Root()).On("keydown", c.handle)

	errCh := make(chan error, 1)
	go func() { errCh <- f.host.Run(context.Background()) }()

	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to stop")
	}

	if c.calls != 1 {
		t.Errorf("expected 1 keydown before quitting, got %d", c.calls)
	}
}

func TestHost_RunCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- f.host.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to stop")
	}
}
