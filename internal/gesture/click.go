package gesture

import "time"

// DefaultClickWindow is how long the arbiter waits for a second click.
const DefaultClickWindow = 300 * time.Millisecond

// Ticket identifies one pending deferred action. Zero is never issued.
type Ticket uint64

type ClickOutcome int

const (
	// ClickIgnored: a stale expiry, nothing to do.
	ClickIgnored ClickOutcome = iota
	// ClickPending: first click seen, schedule Expire(ticket) after Window.
	ClickPending
	// ClickPrimary: the window ran out with one click.
	ClickPrimary
	// ClickSecondary: a second click arrived in time.
	ClickSecondary
)

func (o ClickOutcome) String() string {
	switch o {
	case ClickPending:
		return "pending"
	case ClickPrimary:
		return "primary"
	case ClickSecondary:
		return "secondary"
	default:
		return "ignored"
	}
}

type clickEvent int

const (
	evClick clickEvent = iota
	evExpire
)

// ClickArbiter is a two-state machine {idle, awaiting second click}.
//
// The driver owns the clock: on ClickPending it schedules Expire with the
// returned ticket. A second click invalidates the ticket, so an expiry that
// arrives afterwards is ignored and the primary action never runs for that
// pair.
type ClickArbiter struct {
	Window time.Duration

	awaiting bool
	ticket   Ticket
	issued   Ticket
}

func NewClickArbiter(window time.Duration) *ClickArbiter {
	if window <= 0 {
		window = DefaultClickWindow
	}
	return &ClickArbiter{Window: window}
}

// Click registers a click on the control.
func (a *ClickArbiter) Click() (ClickOutcome, Ticket) {
	return a.step(evClick, 0)
}

// Expire reports that the window for ticket t has elapsed.
func (a *ClickArbiter) Expire(t Ticket) ClickOutcome {
	out, _ := a.step(evExpire, t)
	return out
}

// Awaiting reports whether a first click is waiting for its partner.
func (a *ClickArbiter) Awaiting() bool { return a.awaiting }

// Reset cancels any pending click.
func (a *ClickArbiter) Reset() {
	a.awaiting = false
	a.ticket = 0
}

func (a *ClickArbiter) step(ev clickEvent, t Ticket) (ClickOutcome, Ticket) {
	switch ev {
	case evClick:
		if a.awaiting {
			a.awaiting = false
			a.ticket = 0
			return ClickSecondary, 0
		}
		a.issued++
		a.awaiting = true
		a.ticket = a.issued
		return ClickPending, a.ticket
	case evExpire:
		if !a.awaiting || t == 0 || t != a.ticket {
			return ClickIgnored, 0
		}
		a.awaiting = false
		a.ticket = 0
		return ClickPrimary, 0
	}
	return ClickIgnored, 0
}
