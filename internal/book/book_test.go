package book

import (
	"testing"
	"time"
)

func TestBook_AdvanceCommitsOnCompletion(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	if left, _ := b.Deck().Left(); left.ID != "e0" {
		t.Fatalf("left = %s, want e0", left.ID)
	}

	flip, ok := b.Next(t0)
	if !ok {
		t.Fatal("Next() at spread 0 should start a flip")
	}
	if b.Spread() != 0 {
		t.Fatalf("spread moved before completion: %d", b.Spread())
	}

	dir, ok := b.Complete(flip.Ticket)
	if !ok || dir != Forward {
		t.Fatalf("Complete = %s, %v", dir, ok)
	}
	if b.Spread() != 1 {
		t.Fatalf("spread = %d, want 1", b.Spread())
	}
	if left, _ := b.Deck().Left(); left.ID != "e2" {
		t.Fatalf("left = %s, want e2", left.ID)
	}
}

func TestBook_LastSpreadIgnoresNext(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	if !b.JumpTo(2) {
		t.Fatal("JumpTo(2) should succeed")
	}
	if b.CanAdvance() {
		t.Fatal("CanAdvance() on last spread should be false")
	}
	if _, ok := b.Next(t0); ok {
		t.Fatal("Next() on last spread should be ignored")
	}
	if b.Animating() || b.Spread() != 2 {
		t.Fatalf("state changed: animating=%v spread=%d", b.Animating(), b.Spread())
	}
}

func TestBook_RapidNextOnlyTurnsOnce(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	first, ok := b.Next(t0)
	if !ok {
		t.Fatal("first Next() should start")
	}
	for i := 0; i < 10; i++ {
		if _, ok := b.Next(t0.Add(time.Duration(i) * time.Millisecond)); ok {
			t.Fatal("Next() while animating should be ignored")
		}
		if _, ok := b.Prev(t0); ok {
			t.Fatal("Prev() while animating should be ignored")
		}
		if b.Spread() != 0 {
			t.Fatalf("spread moved mid-flip: %d", b.Spread())
		}
	}

	b.Complete(first.Ticket)
	if b.Spread() != 1 {
		t.Fatalf("spread = %d, want exactly 1", b.Spread())
	}
}

func TestBook_RetreatBoundaryAndFlip(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	if b.CanRetreat() {
		t.Fatal("CanRetreat() at spread 0 should be false")
	}
	if _, ok := b.Prev(t0); ok {
		t.Fatal("Prev() at spread 0 should be ignored")
	}

	b.JumpTo(2)
	flip, ok := b.Prev(t0)
	if !ok {
		t.Fatal("Prev() at spread 2 should start")
	}
	if dir, _ := b.Complete(flip.Ticket); dir != Backward {
		t.Fatalf("direction = %s, want backward", dir)
	}
	if b.Spread() != 1 {
		t.Fatalf("spread = %d, want 1", b.Spread())
	}
}

func TestBook_CanQueriesDoNotMutate(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	for i := 0; i < 5; i++ {
		b.CanAdvance()
		b.CanRetreat()
	}
	if b.Spread() != 0 || b.Animating() {
		t.Fatalf("queries mutated state: spread=%d animating=%v", b.Spread(), b.Animating())
	}
}

func TestBook_CloseRevokesPendingCompletion(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	flip, _ := b.Next(t0)
	b.Close()

	if _, ok := b.Complete(flip.Ticket); ok {
		t.Fatal("completion after Close must be dropped")
	}
	if b.Spread() != 0 {
		t.Fatalf("spread = %d after Close, want 0", b.Spread())
	}
	if _, ok := b.Next(t0); ok {
		t.Fatal("Next() after Close should be ignored")
	}
	if b.JumpTo(1) {
		t.Fatal("JumpTo after Close should be ignored")
	}
}

func TestBook_ReopenKeepsTicketsMonotonic(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	before, _ := b.Next(t0)
	b.Close()

	b.Reopen()
	if b.Closed() || b.Spread() != 0 || b.Animating() {
		t.Fatalf("after Reopen: closed=%v spread=%d animating=%v", b.Closed(), b.Spread(), b.Animating())
	}
	b.SetEntries(makeEntries(6), 0)
	after, ok := b.Next(t0)
	if !ok {
		t.Fatal("Next() after Reopen should start a turn")
	}
	if after.Ticket == before.Ticket {
		t.Fatalf("ticket %d reused after Reopen", after.Ticket)
	}
	if _, ok := b.Complete(before.Ticket); ok {
		t.Fatal("completion from before Close must not finish the new turn")
	}
	if b.Spread() != 0 || !b.InFlight(after.Ticket) {
		t.Fatalf("spread = %d inFlight = %v, want 0 and true", b.Spread(), b.InFlight(after.Ticket))
	}
}

func TestBook_SetEntriesResetsAndRevokes(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(10), WithDuration(time.Second))
	b.JumpTo(3)
	flip, _ := b.Next(t0)

	b.SetEntries(makeEntries(2), 0)
	if b.Spread() != 0 || b.Animating() {
		t.Fatalf("after SetEntries: spread=%d animating=%v", b.Spread(), b.Animating())
	}
	if _, ok := b.Complete(flip.Ticket); ok {
		t.Fatal("flip started before SetEntries must not commit")
	}

	b.SetEntries(nil, PlaceholderNoResults)
	left, _ := b.Deck().Left()
	if kind, ok := IsPlaceholder(left); !ok || kind != PlaceholderNoResults {
		t.Fatalf("placeholder = %v, %v; want no-results", kind, ok)
	}

	b.SetEntries(nil, 0)
	left, _ = b.Deck().Left()
	if kind, _ := IsPlaceholder(left); kind != PlaceholderEmpty {
		t.Fatalf("default placeholder = %v, want empty", kind)
	}
}

func TestBook_JumpToRefusesWhileAnimating(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	b.Next(t0)
	if b.JumpTo(2) {
		t.Fatal("JumpTo while animating should refuse")
	}
	b.Cancel()
	if !b.JumpTo(2) || b.Spread() != 2 {
		t.Fatalf("JumpTo after Cancel: spread = %d", b.Spread())
	}
	for _, bad := range []int{-1, 3, 2} {
		if b.JumpTo(bad) {
			t.Errorf("JumpTo(%d) should refuse", bad)
		}
	}
}

func TestBook_SpreadInvariantUnderRandomIntents(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 7; n++ {
		b := New(makeEntries(n), WithDuration(time.Second))
		var pending []Ticket
		now := t0
		for step := 0; step < 60; step++ {
			now = now.Add(100 * time.Millisecond)
			switch step % 5 {
			case 0, 1:
				if f, ok := b.Next(now); ok {
					pending = append(pending, f.Ticket)
				}
			case 2:
				if f, ok := b.Prev(now); ok {
					pending = append(pending, f.Ticket)
				}
			case 3, 4:
				for _, tk := range pending {
					b.Complete(tk)
				}
				pending = pending[:0]
			}

			length := max(1, n)
			if s := b.Spread(); s < 0 || s*2 >= length {
				t.Fatalf("n=%d step=%d: spread %d violates invariant", n, step, s)
			}
		}
	}
}

func TestBook_InFlight(t *testing.T) {
	t.Parallel()

	b := New(makeEntries(6), WithDuration(time.Second))
	if b.InFlight(0) {
		t.Fatal("zero ticket is never in flight")
	}
	flip, _ := b.Next(t0)
	if !b.InFlight(flip.Ticket) {
		t.Fatal("started flip should be in flight")
	}
	b.Complete(flip.Ticket)
	if b.InFlight(flip.Ticket) {
		t.Fatal("completed flip should not be in flight")
	}
}
