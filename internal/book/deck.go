// Package book implements the page-flip engine behind the flip-book views:
// a deck of entries paged two at a time, a single-flip animator, and the
// layering rules that turn both into drawable surfaces.
//
// Nothing here blocks or spawns goroutines. The host owns the clock: it
// starts a flip, schedules the completion after Flip.Duration, and hands the
// flip's ticket back to Book.Complete. Revoking a ticket (Cancel, Close,
// SetEntries) makes a late completion a no-op.
package book

// Entry is one page of content. Payload is opaque to the engine.
type Entry struct {
	ID      string
	Payload any
}

// PlaceholderKind distinguishes why a deck has nothing to show.
type PlaceholderKind int

const (
	// PlaceholderEmpty stands in for a provider that supplied no entries.
	PlaceholderEmpty PlaceholderKind = iota + 1
	// PlaceholderNoResults stands in for a search that matched nothing.
	PlaceholderNoResults
)

func (k PlaceholderKind) String() string {
	switch k {
	case PlaceholderEmpty:
		return "empty"
	case PlaceholderNoResults:
		return "no-results"
	default:
		return "unknown"
	}
}

// Placeholder is the payload of a substituted placeholder entry.
type Placeholder struct {
	Kind PlaceholderKind
}

// PlaceholderEntry returns the well-defined entry substituted for an empty list.
func PlaceholderEntry(kind PlaceholderKind) Entry {
	if kind != PlaceholderNoResults {
		kind = PlaceholderEmpty
	}
	return Entry{ID: "placeholder:" + kind.String(), Payload: Placeholder{Kind: kind}}
}

// IsPlaceholder reports whether e was substituted for an empty list.
func IsPlaceholder(e Entry) (PlaceholderKind, bool) {
	p, ok := e.Payload.(Placeholder)
	if !ok {
		return 0, false
	}
	return p.Kind, true
}

// Side selects one page of a spread.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Direction is the way a page turns.
type Direction int

const (
	Forward Direction = iota + 1
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

// Deck holds the ordered entries and the current spread. The spread only
// moves through Book, which commits after a flip completes.
type Deck struct {
	entries     []Entry
	spread      int
	placeholder bool
}

// NewDeck builds a deck at spread 0. An empty list is replaced by a single
// placeholder entry of the given kind.
func NewDeck(entries []Entry, empty PlaceholderKind) *Deck {
	d := &Deck{}
	d.reset(entries, empty)
	return d
}

func (d *Deck) reset(entries []Entry, empty PlaceholderKind) {
	d.spread = 0
	if len(entries) == 0 {
		d.entries = []Entry{PlaceholderEntry(empty)}
		d.placeholder = true
		return
	}
	d.entries = make([]Entry, len(entries))
	copy(d.entries, entries)
	d.placeholder = false
}

// Len returns the number of pages, counting a substituted placeholder.
func (d *Deck) Len() int { return len(d.entries) }

// IsPlaceholder reports whether the deck shows a placeholder instead of entries.
func (d *Deck) IsPlaceholder() bool { return d.placeholder }

// Entries returns a copy of the pages.
func (d *Deck) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Spread returns the current spread index.
func (d *Deck) Spread() int { return d.spread }

// SpreadCount returns how many spreads the deck has (always at least one).
func (d *Deck) SpreadCount() int { return (len(d.entries) + 1) / 2 }

// At returns the entry on side of spread, or false when out of range.
func (d *Deck) At(spread int, side Side) (Entry, bool) {
	if spread < 0 {
		return Entry{}, false
	}
	idx := spread * 2
	if side == SideRight {
		idx++
	}
	if idx >= len(d.entries) {
		return Entry{}, false
	}
	return d.entries[idx], true
}

// Left returns the left page of the current spread.
func (d *Deck) Left() (Entry, bool) { return d.At(d.spread, SideLeft) }

// Right returns the right page of the current spread. It is absent on the
// last spread of an odd-length deck.
func (d *Deck) Right() (Entry, bool) { return d.At(d.spread, SideRight) }

// Adjacent returns the entry on side of the spread one step in dir, used to
// pre-render the page a flip will reveal.
func (d *Deck) Adjacent(dir Direction, side Side) (Entry, bool) {
	switch dir {
	case Forward:
		return d.At(d.spread+1, side)
	case Backward:
		return d.At(d.spread-1, side)
	default:
		return Entry{}, false
	}
}

// HasNext reports whether a later spread exists.
func (d *Deck) HasNext() bool { return (d.spread+1)*2 < len(d.entries) }

// HasPrev reports whether an earlier spread exists.
func (d *Deck) HasPrev() bool { return d.spread > 0 }

func (d *Deck) commitAdvance() bool {
	if !d.HasNext() {
		return false
	}
	d.spread++
	return true
}

func (d *Deck) commitRetreat() bool {
	if !d.HasPrev() {
		return false
	}
	d.spread--
	return true
}

func (d *Deck) jump(spread int) bool {
	if spread < 0 || spread >= d.SpreadCount() || spread == d.spread {
		return false
	}
	d.spread = spread
	return true
}
