package book

import "time"

// Option configures a Book.
type Option func(*Book)

// WithDuration sets the page-turn duration.
func WithDuration(d time.Duration) Option {
	return func(b *Book) { b.anim = NewAnimator(d) }
}

// WithPlaceholder sets the placeholder kind used when the entry list is empty.
func WithPlaceholder(kind PlaceholderKind) Option {
	return func(b *Book) { b.empty = kind }
}

// Book pairs a Deck with its Animator and is the only way to move the
// spread. Navigation intents that arrive mid-turn or at a boundary are
// ignored.
type Book struct {
	deck   *Deck
	anim   *Animator
	empty  PlaceholderKind
	closed bool
}

// New builds a book at spread 0.
func New(entries []Entry, opts ...Option) *Book {
	b := &Book{anim: NewAnimator(DefaultDuration), empty: PlaceholderEmpty}
	for _, opt := range opts {
		opt(b)
	}
	b.deck = NewDeck(entries, b.empty)
	return b
}

// Deck exposes the deck for read-only lookups.
func (b *Book) Deck() *Deck { return b.deck }

// Animator exposes the animator for read-only state queries.
func (b *Book) Animator() *Animator { return b.anim }

// Spread returns the current spread index.
func (b *Book) Spread() int { return b.deck.Spread() }

// SpreadCount returns the number of spreads.
func (b *Book) SpreadCount() int { return b.deck.SpreadCount() }

// Animating reports whether a page turn is in flight.
func (b *Book) Animating() bool { return !b.anim.Idle() }

// InFlight reports whether t identifies the turn currently in flight.
func (b *Book) InFlight(t Ticket) bool {
	return !b.closed && t != 0 && b.anim.Ticket() == t
}

// Closed reports whether Close has been called.
func (b *Book) Closed() bool { return b.closed }

// CanAdvance reports whether a forward turn would start now.
func (b *Book) CanAdvance() bool {
	return !b.closed && b.anim.Idle() && b.deck.HasNext()
}

// CanRetreat reports whether a backward turn would start now.
func (b *Book) CanRetreat() bool {
	return !b.closed && b.anim.Idle() && b.deck.HasPrev()
}

// Next starts a forward turn. It returns false when the intent is ignored.
func (b *Book) Next(now time.Time) (Flip, bool) {
	if !b.CanAdvance() {
		return Flip{}, false
	}
	return b.anim.Start(Forward, now)
}

// Prev starts a backward turn. It returns false when the intent is ignored.
func (b *Book) Prev(now time.Time) (Flip, bool) {
	if !b.CanRetreat() {
		return Flip{}, false
	}
	return b.anim.Start(Backward, now)
}

// Complete finishes the turn identified by t and commits the spread move.
// It is a no-op for stale or revoked tickets.
func (b *Book) Complete(t Ticket) (Direction, bool) {
	if b.closed {
		return 0, false
	}
	dir, ok := b.anim.Complete(t)
	if !ok {
		return 0, false
	}
	switch dir {
	case Forward:
		b.deck.commitAdvance()
	case Backward:
		b.deck.commitRetreat()
	}
	return dir, true
}

// JumpTo moves straight to spread without animating. It refuses while a
// turn is in flight or when spread is out of range.
func (b *Book) JumpTo(spread int) bool {
	if b.closed || !b.anim.Idle() {
		return false
	}
	return b.deck.jump(spread)
}

// SetEntries replaces the pages, revokes any turn in flight and returns to
// spread 0. kind selects the placeholder shown when entries is empty.
func (b *Book) SetEntries(entries []Entry, kind PlaceholderKind) {
	b.anim.Cancel()
	if kind == 0 {
		kind = b.empty
	}
	b.deck.reset(entries, kind)
}

// Cancel revokes the turn in flight, leaving the spread where it was.
func (b *Book) Cancel() bool { return b.anim.Cancel() }

// Close tears the book down. Pending completions and later intents are ignored.
func (b *Book) Close() {
	b.anim.Cancel()
	b.closed = true
}

// Reopen undoes Close with an empty deck at spread 0. The animator is kept,
// so tickets issued before Close never match a turn started after it.
func (b *Book) Reopen() {
	b.anim.Cancel()
	b.deck.reset(nil, b.empty)
	b.closed = false
}

// Progress returns the rotation progress of the turn in flight.
func (b *Book) Progress(now time.Time) float64 { return b.anim.Progress(now) }

// Surfaces lays out what to draw for the current frame.
func (b *Book) Surfaces() []Surface { return Render(b.deck, b.anim) }
