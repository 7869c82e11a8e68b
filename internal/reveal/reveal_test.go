package reveal_test

import (
	"testing"

	"pastaa/internal/reveal"
)

func TestAdvance_Progression(t *testing.T) {
	r := reveal.New(nil)
	if r.State() != reveal.Hidden {
		t.Fatalf("initial state = %v, want Hidden", r.State())
	}

	if got := r.Advance(0.4); got != reveal.Revealing {
		t.Fatalf("state = %v, want Revealing", got)
	}
	if p := r.Progress(); p != 0.4 {
		t.Fatalf("progress = %v, want 0.4", p)
	}

	if got := r.Advance(0.7); got != reveal.FullyRevealed {
		t.Fatalf("state = %v, want FullyRevealed", got)
	}
	if p := r.Progress(); p != 1 {
		t.Fatalf("progress = %v, want clamped to 1", p)
	}
	if !r.Done() {
		t.Fatal("Done() false after full reveal")
	}
}

// Progress never advances automatically and never regresses.
func TestAdvance_Monotonic(t *testing.T) {
	r := reveal.New(nil)
	r.Advance(0.5)
	r.Advance(-0.3)
	if p := r.Progress(); p != 0.5 {
		t.Fatalf("progress = %v after negative delta, want 0.5", p)
	}
	r.Advance(0)
	if p := r.Progress(); p != 0.5 {
		t.Fatalf("progress = %v after zero delta, want 0.5", p)
	}
}

// Completion fires the delete exactly once even when gestures keep
// arriving.
func TestOnDone_SingleFire(t *testing.T) {
	fired := 0
	r := reveal.New(func() { fired++ })

	r.Advance(0.6)
	if fired != 0 {
		t.Fatal("delete fired before completion")
	}
	r.Advance(0.6)
	r.Advance(0.5)
	r.Advance(1.0)
	if fired != 1 {
		t.Fatalf("delete fired %d times, want 1", fired)
	}
	if r.State() != reveal.FullyRevealed {
		t.Fatalf("state = %v, want FullyRevealed", r.State())
	}
}
