// Package reveal gates the display of a burn-after-reading paste. The
// decrypted text stays hidden until cumulative gesture input completes
// the reveal; completion fires a single delete of the paste. This is a
// client-side courtesy on top of the store's delete-on-read; the
// server enforces single consumption regardless.
package reveal

import "sync"

// State is the reveal progression.
type State int

const (
	Hidden State = iota
	Revealing
	FullyRevealed
)

// Reveal is the state machine for one paste. Progress advances only by
// gesture input, never automatically.
type Reveal struct {
	mu       sync.Mutex
	state    State
	progress float64
	fire     sync.Once
	onDone   func()
}

// New returns a Hidden reveal. onDone runs exactly once when the reveal
// completes; it issues the delete request for the paste.
func New(onDone func()) *Reveal {
	return &Reveal{onDone: onDone}
}

// Advance adds gesture progress in [0,1] units and returns the
// resulting state. Progress is monotonic: negative deltas are ignored,
// and a completed reveal never regresses.
func (r *Reveal) Advance(delta float64) State {
	r.mu.Lock()
	if delta > 0 && r.state != FullyRevealed {
		r.progress += delta
		if r.progress >= 1 {
			r.progress = 1
			r.state = FullyRevealed
		} else {
			r.state = Revealing
		}
	}
	state := r.state
	r.mu.Unlock()

	if state == FullyRevealed && r.onDone != nil {
		// Outside the lock; the callback may be slow (network delete).
		r.fire.Do(r.onDone)
	}
	return state
}

// Progress reports cumulative progress in [0,1].
func (r *Reveal) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// State reports the current state.
func (r *Reveal) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done reports whether the reveal reached its terminal state.
func (r *Reveal) Done() bool { return r.State() == FullyRevealed }
