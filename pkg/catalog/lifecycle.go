package catalog

import "fmt"

// PricingState is where a version sits within a service.
type PricingState string

const (
	StateAbsent   PricingState = "absent"
	StateActive   PricingState = "active"
	StateArchived PricingState = "archived"
)

// Event drives a pricing version between states.
type Event string

const (
	EventUpload   Event = "upload"
	EventArchive  Event = "archive"
	EventActivate Event = "activate"
	EventDelete   Event = "delete"
)

// Guard vetoes a transition for a specific service and version.
type Guard func(svc *Service, version string) error

// Transition is one edge of the lifecycle table.
type Transition struct {
	From   PricingState
	To     PricingState
	Event  Event
	Guards []Guard
}

// Lifecycle is the transition table of pricing versions. It only decides;
// callers apply the resulting state to the service.
type Lifecycle struct {
	transitions map[PricingState]map[Event]Transition
}

// LifecycleOption configures a Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithTransition registers a transition, replacing any previous one for the
// same state and event.
func WithTransition(from, to PricingState, event Event, guards ...Guard) LifecycleOption {
	return func(l *Lifecycle) {
		if l.transitions[from] == nil {
			l.transitions[from] = make(map[Event]Transition)
		}
		l.transitions[from][event] = Transition{From: from, To: to, Event: event, Guards: guards}
	}
}

// NewLifecycle builds a Lifecycle from transitions.
func NewLifecycle(opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{transitions: make(map[PricingState]map[Event]Transition)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultLifecycle is the catalog's pricing lifecycle:
//
//	absent   --upload-->   active
//	active   --archive-->  archived (not the last active version)
//	archived --activate--> active
//	archived --delete-->   absent
//
// Archiving an archived version and activating an active one are no-ops.
func DefaultLifecycle() *Lifecycle {
	return NewLifecycle(
		WithTransition(StateAbsent, StateActive, EventUpload),
		WithTransition(StateActive, StateArchived, EventArchive, notLastActive),
		WithTransition(StateArchived, StateArchived, EventArchive),
		WithTransition(StateArchived, StateActive, EventActivate),
		WithTransition(StateActive, StateActive, EventActivate),
		WithTransition(StateArchived, StateAbsent, EventDelete),
	)
}

// Next returns the state version moves to on event.
func (l *Lifecycle) Next(svc *Service, version string, event Event) (PricingState, error) {
	from := svc.State(version)

	t, ok := l.transitions[from][event]
	if !ok {
		return from, rejection(from, event)
	}

	for _, guard := range t.Guards {
		if err := guard(svc, version); err != nil {
			return from, err
		}
	}

	return t.To, nil
}

// CanFire reports whether event is allowed for version.
func (l *Lifecycle) CanFire(svc *Service, version string, event Event) bool {
	_, err := l.Next(svc, version, event)
	return err == nil
}

func notLastActive(svc *Service, _ string) error {
	if len(svc.ActivePricings) <= 1 {
		return ErrLastActivePricing
	}
	return nil
}

func rejection(from PricingState, event Event) error {
	switch {
	case event == EventUpload:
		return ErrVersionExists
	case from == StateAbsent:
		return ErrPricingNotFound
	case event == EventDelete:
		return ErrPricingNotArchived
	default:
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}
}
