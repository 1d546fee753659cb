package book

import (
	"fmt"
	"testing"
)

func makeEntries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{ID: fmt.Sprintf("e%d", i), Payload: i}
	}
	return out
}

func TestDeck_LeftRightAtStart(t *testing.T) {
	t.Parallel()

	d := NewDeck(makeEntries(6), PlaceholderEmpty)
	left, ok := d.Left()
	if !ok || left.ID != "e0" {
		t.Fatalf("Left() = %v, %v; want e0", left.ID, ok)
	}
	right, ok := d.Right()
	if !ok || right.ID != "e1" {
		t.Fatalf("Right() = %v, %v; want e1", right.ID, ok)
	}
	if got := d.SpreadCount(); got != 3 {
		t.Fatalf("SpreadCount() = %d, want 3", got)
	}
}

func TestDeck_OddLengthLastSpreadHasNoRight(t *testing.T) {
	t.Parallel()

	d := NewDeck(makeEntries(5), PlaceholderEmpty)
	d.spread = 2
	if _, ok := d.Right(); ok {
		t.Fatal("Right() on last spread of odd deck should be absent")
	}
	if left, ok := d.Left(); !ok || left.ID != "e4" {
		t.Fatalf("Left() = %v, %v; want e4", left.ID, ok)
	}
	if d.HasNext() {
		t.Fatal("HasNext() on last spread should be false")
	}
}

func TestDeck_Adjacent(t *testing.T) {
	t.Parallel()

	d := NewDeck(makeEntries(6), PlaceholderEmpty)
	tests := []struct {
		spread int
		dir    Direction
		side   Side
		want   string
		ok     bool
	}{
		{0, Forward, SideLeft, "e2", true},
		{0, Forward, SideRight, "e3", true},
		{0, Backward, SideLeft, "", false},
		{1, Backward, SideRight, "e1", true},
		{2, Forward, SideLeft, "", false},
		{1, Direction(0), SideLeft, "", false},
	}
	for _, tt := range tests {
		d.spread = tt.spread
		got, ok := d.Adjacent(tt.dir, tt.side)
		if ok != tt.ok || got.ID != tt.want {
			t.Errorf("spread %d Adjacent(%s, %s) = %q, %v; want %q, %v",
				tt.spread, tt.dir, tt.side, got.ID, ok, tt.want, tt.ok)
		}
	}
}

func TestDeck_EmptyUsesPlaceholder(t *testing.T) {
	t.Parallel()

	for _, kind := range []PlaceholderKind{PlaceholderEmpty, PlaceholderNoResults} {
		d := NewDeck(nil, kind)
		if !d.IsPlaceholder() || d.Len() != 1 {
			t.Fatalf("%s: IsPlaceholder=%v Len=%d", kind, d.IsPlaceholder(), d.Len())
		}
		left, ok := d.Left()
		if !ok {
			t.Fatalf("%s: placeholder not on left page", kind)
		}
		got, ok := IsPlaceholder(left)
		if !ok || got != kind {
			t.Fatalf("%s: IsPlaceholder(left) = %v, %v", kind, got, ok)
		}
		if d.HasNext() || d.HasPrev() {
			t.Fatalf("%s: placeholder deck should not navigate", kind)
		}
	}

	if PlaceholderEntry(PlaceholderEmpty).ID == PlaceholderEntry(PlaceholderNoResults).ID {
		t.Fatal("placeholder kinds must be distinguishable")
	}
}

func TestDeck_CopiesInput(t *testing.T) {
	t.Parallel()

	in := makeEntries(2)
	d := NewDeck(in, PlaceholderEmpty)
	in[0].ID = "mutated"
	if left, _ := d.Left(); left.ID != "e0" {
		t.Fatalf("deck aliases caller slice: left = %s", left.ID)
	}
}

func TestDeck_CommitGuards(t *testing.T) {
	t.Parallel()

	d := NewDeck(makeEntries(4), PlaceholderEmpty)
	if d.commitRetreat() {
		t.Fatal("commitRetreat at spread 0 should refuse")
	}
	if !d.commitAdvance() || d.Spread() != 1 {
		t.Fatalf("commitAdvance: spread = %d, want 1", d.Spread())
	}
	if d.commitAdvance() {
		t.Fatal("commitAdvance past last spread should refuse")
	}
	if d.Spread() != 1 {
		t.Fatalf("spread = %d after refused commit, want 1", d.Spread())
	}
}
