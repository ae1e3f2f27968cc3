// Package termhost delivers terminal input to vent targets.
//
// Screen rectangles are mapped to targets. A left click triggers click on
// the topmost region under the pointer and focuses it, keys trigger
// keydown on the focused target, Tab moves focus to the next region, and
// a resize triggers resize on the root target. Escape and Ctrl-C stop Run.
package termhost

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vent/internal/logging"
	"github.com/dshills/vent/internal/vent"
)

// Rect is a screen rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Region maps a rectangle to a target.
type Region struct {
	Rect   Rect
	Target vent.Target
	Label  string
}

// KeyInfo is the keydown payload.
type KeyInfo struct {
	Name  string `lua:"name"`
	Rune  string `lua:"rune"`
	Ctrl  bool   `lua:"ctrl"`
	Alt   bool   `lua:"alt"`
	Shift bool   `lua:"shift"`
}

// Size is the resize payload.
type Size struct {
	Width  int `lua:"width"`
	Height int `lua:"height"`
}

// Host routes tcell events into a vent engine.
type Host struct {
	screen tcell.Screen
	engine *vent.Engine
	root   vent.Target
	logger *logging.Logger

	mu      sync.Mutex
	regions []Region
	focus   int
	buttons tcell.ButtonMask
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a host on screen. root receives resize notifications and
// keydown when nothing is focused.
func New(screen tcell.Screen, engine *vent.Engine, root vent.Target, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		engine: engine,
		root:   root,
		logger: logging.Null,
		focus:  -1,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("termhost")
	return h
}

// NewTerminal creates a host on the controlling terminal.
func NewTerminal(engine *vent.Engine, root vent.Target, opts ...Option) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen, engine, root, opts...), nil
}

// Screen returns the underlying screen.
func (h *Host) Screen() tcell.Screen {
	return h.screen
}

// Init initializes the screen and enables mouse reporting.
func (h *Host) Init() error {
	if err := h.screen.Init(); err != nil {
		return err
	}
	h.screen.EnableMouse()
	return nil
}

// Shutdown restores the terminal.
func (h *Host) Shutdown() {
	h.screen.Fini()
}

// AddRegion maps rect to t. Later regions sit on top of earlier ones.
func (h *Host) AddRegion(rect Rect, t vent.Target, label string) {
	target, ok := vent.AsTarget(t)
	if !ok || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.regions = append(h.regions, Region{Rect: rect, Target: target, Label: label})
}

// Regions returns a copy of the regions in stacking order.
func (h *Host) Regions() []Region {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]Region, len(h.regions))
	copy(result, h.regions)
	return result
}

// TargetAt returns the target of the topmost region containing (x, y).
func (h *Host) TargetAt(x, y int) (vent.Target, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.regionAt(x, y)
	if i < 0 {
		return nil, false
	}
	return h.regions[i].Target, true
}

func (h *Host) regionAt(x, y int) int {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Focused returns the focused region's target, or nil.
func (h *Host) Focused() vent.Target {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.focus < 0 || h.focus >= len(h.regions) {
		return nil
	}
	return h.regions[h.focus].Target
}

// FocusNext moves focus to the next region and triggers focus on it.
func (h *Host) FocusNext() {
	h.mu.Lock()
	if len(h.regions) == 0 {
		h.mu.Unlock()
		return
	}
	h.focus = (h.focus + 1) % len(h.regions)
	t := h.regions[h.focus].Target
	h.mu.Unlock()

	h.trigger(t, "focus")
}

// Draw writes each region's label at its origin and shows the screen.
func (h *Host) Draw() {
	h.screen.Clear()
	focused := h.Focused()
	for _, r := range h.Regions() {
		style := tcell.StyleDefault
		if r.Target == focused {
			style = style.Reverse(true)
		}
		x := r.Rect.X
		for _, ch := range r.Label {
			if x >= r.Rect.X+r.Rect.Width {
				break
			}
			h.screen.SetContent(x, r.Rect.Y, ch, nil, style)
			x++
		}
	}
	h.screen.Show()
}

// Handle routes one event. It returns false when the host should stop.
func (h *Host) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ev)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventResize:
		w, ht := ev.Size()
		h.screen.Sync()
		h.trigger(h.root, "resize", vent.WithPayload(Size{Width: w, Height: ht}))
	case *tcell.EventInterrupt:
		return false
	}
	return true
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		h.FocusNext()
		return true
	}

	target := h.Focused()
	if target == nil {
		target = h.root
	}

	mods := ev.Modifiers()
	info := KeyInfo{
		Name:  ev.Name(),
		Ctrl:  mods&tcell.ModCtrl != 0,
		Alt:   mods&tcell.ModAlt != 0,
		Shift: mods&tcell.ModShift != 0,
	}
	if ev.Key() == tcell.KeyRune {
		info.Rune = string(ev.Rune())
	}
	h.trigger(target, "keydown", vent.WithPayload(info))
	return true
}

// handleMouse clicks on the press edge of button 1.
func (h *Host) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()

	h.mu.Lock()
	pressed := buttons&tcell.Button1 != 0 && h.buttons&tcell.Button1 == 0
	h.buttons = buttons
	var target vent.Target
	if pressed {
		x, y := ev.Position()
		if i := h.regionAt(x, y); i >= 0 {
			h.focus = i
			target = h.regions[i].Target
		}
	}
	h.mu.Unlock()

	if target != nil {
		h.trigger(target, "click")
	}
}

func (h *Host) trigger(t vent.Target, event string, opts ...vent.TriggerOption) {
	if t == nil || h.engine == nil {
		return
	}
	h.logger.Debug("%s on %v", event, t)
	h.engine.Collect(t).Trigger(event, opts...)
}

// Run polls events until ctx is done, the screen is finalized, or a quit
// key is pressed. Events are handled on the calling goroutine and the
// screen is redrawn after each one.
func (h *Host) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !h.Handle(ev) {
			return ctx.Err()
		}
		h.Draw()
	}
}
