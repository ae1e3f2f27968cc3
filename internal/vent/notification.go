package vent

// Kind distinguishes plain notifications from data-carrying ones.
type Kind int

const (
	// KindPlain is a host-recognized notification without detail.
	KindPlain Kind = iota

	// KindCustom is a data-carrying notification. Detail may be nil when the
	// event name is not host-recognized.
	KindCustom
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Notification is the unit of delivery handed to a target's Emit primitive.
type Notification struct {
	// Type is the event name.
	Type string

	// Kind is plain or custom.
	Kind Kind

	// Target is the origin of the notification.
	Target Target

	// CurrentTarget is the target whose listeners are currently running.
	// Hosts update it while the notification bubbles.
	CurrentTarget Target

	// Bubbles controls propagation to ancestor targets.
	Bubbles bool

	// Cancelable allows PreventDefault to take effect.
	Cancelable bool

	// Composed is carried for hosts that distinguish shadow boundaries.
	Composed bool

	// Detail is the payload of a custom notification.
	Detail any

	stopped          bool
	defaultPrevented bool
}

// EventInit holds caller overrides for notification construction.
// Nil fields keep the defaults.
type EventInit struct {
	Bubbles    *bool
	Cancelable *bool
	Composed   *bool
}

// apply sets the default flags on n and overrides them with ei.
func (ei EventInit) apply(n *Notification) {
	n.Bubbles = true
	if ei.Bubbles != nil {
		n.Bubbles = *ei.Bubbles
	}
	if ei.Cancelable != nil {
		n.Cancelable = *ei.Cancelable
	}
	if ei.Composed != nil {
		n.Composed = *ei.Composed
	}
}

// NewNotification creates a notification of the given kind with defaults
// {Bubbles: true} merged with ei.
func NewNotification(name string, kind Kind, detail any, ei EventInit) *Notification {
	n := &Notification{
		Type:   name,
		Kind:   kind,
		Detail: detail,
	}
	ei.apply(n)
	return n
}

// StopPropagation prevents further bubbling to ancestors.
func (n *Notification) StopPropagation() {
	n.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (n *Notification) PropagationStopped() bool {
	return n.stopped
}

// PreventDefault marks the notification as handled when it is cancelable.
func (n *Notification) PreventDefault() {
	if n.Cancelable {
		n.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (n *Notification) DefaultPrevented() bool {
	return n.defaultPrevented
}
