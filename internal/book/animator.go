package book

import "time"

// DefaultDuration is how long one page turn lasts.
const DefaultDuration = 1200 * time.Millisecond

// State is the animator's phase.
type State int

const (
	StateIdle State = iota
	StateFlippingForward
	StateFlippingBackward
)

func (s State) String() string {
	switch s {
	case StateFlippingForward:
		return "flipping-forward"
	case StateFlippingBackward:
		return "flipping-backward"
	default:
		return "idle"
	}
}

// Ticket identifies one flip. The zero Ticket never matches a live flip.
type Ticket uint64

// Flip describes a started page turn. The host schedules the completion
// after Duration and passes Ticket back.
type Flip struct {
	Ticket    Ticket
	Direction Direction
	StartedAt time.Time
	Duration  time.Duration
}

// Animator drives at most one page turn at a time. Requests made while a
// turn is in flight are dropped, not queued.
type Animator struct {
	state     State
	startedAt time.Time
	duration  time.Duration
	ticket    Ticket
	issued    Ticket
}

// NewAnimator returns an idle animator. A non-positive duration uses
// DefaultDuration.
func NewAnimator(duration time.Duration) *Animator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{duration: duration}
}

// Duration returns the fixed length of a page turn.
func (a *Animator) Duration() time.Duration { return a.duration }

// State returns the current phase.
func (a *Animator) State() State { return a.state }

// Idle reports whether no turn is in flight.
func (a *Animator) Idle() bool { return a.state == StateIdle }

// Ticket returns the ticket of the turn in flight, or zero while idle.
func (a *Animator) Ticket() Ticket { return a.ticket }

// Direction returns the direction of the turn in flight, if any.
func (a *Animator) Direction() Direction {
	switch a.state {
	case StateFlippingForward:
		return Forward
	case StateFlippingBackward:
		return Backward
	default:
		return 0
	}
}

// Start begins a turn in dir. It returns false while another turn is in
// flight or when dir is not a direction.
func (a *Animator) Start(dir Direction, now time.Time) (Flip, bool) {
	if a.state != StateIdle {
		return Flip{}, false
	}
	switch dir {
	case Forward:
		a.state = StateFlippingForward
	case Backward:
		a.state = StateFlippingBackward
	default:
		return Flip{}, false
	}
	a.issued++
	a.ticket = a.issued
	a.startedAt = now
	return Flip{Ticket: a.ticket, Direction: dir, StartedAt: now, Duration: a.duration}, true
}

// Complete finishes the turn identified by t and returns to idle. A stale
// or revoked ticket is ignored.
func (a *Animator) Complete(t Ticket) (Direction, bool) {
	if t == 0 || t != a.ticket || a.state == StateIdle {
		return 0, false
	}
	dir := a.Direction()
	a.reset()
	return dir, true
}

// Cancel revokes the turn in flight without completing it. It reports
// whether there was one.
func (a *Animator) Cancel() bool {
	if a.state == StateIdle {
		return false
	}
	a.reset()
	return true
}

func (a *Animator) reset() {
	a.state = StateIdle
	a.ticket = 0
	a.startedAt = time.Time{}
}

// Progress returns how far the turn in flight has rotated, from 0 to 1.
// It is 0 while idle and saturates at 1 until the completion arrives.
func (a *Animator) Progress(now time.Time) float64 {
	if a.state == StateIdle {
		return 0
	}
	elapsed := now.Sub(a.startedAt)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= a.duration {
		return 1
	}
	return float64(elapsed) / float64(a.duration)
}
