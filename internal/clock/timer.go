// Package clock schedules the single outstanding game tick and tracks
// the movement interval of the current game.
package clock

import (
	"sync"
	"time"
)

// Token identifies one scheduled tick. The zero Token never identifies a
// live schedule.
type Token uint64

// Scheduler arms and cancels ticks. Implementations must never reuse a
// Token, so a tick delivered after Cancel can be recognised as stale.
type Scheduler interface {
	Schedule(d time.Duration) Token
	Cancel(tok Token)
}

// FireFunc receives the token of a tick whose delay elapsed.
type FireFunc func(Token)

// Timer is a Scheduler backed by time.AfterFunc. At most one tick is
// outstanding; scheduling a new one cancels the previous.
type Timer struct {
	fire FireFunc

	mu      sync.Mutex
	timer   *time.Timer
	current Token
	last    Token
	stopped bool
}

// NewTimer creates a timer that calls fire on its own goroutine for every
// tick that elapses.
func NewTimer(fire FireFunc) *Timer {
	return &Timer{fire: fire}
}

// Schedule arms a tick d from now and returns its token.
// After Stop it returns the zero Token and arms nothing.
func (t *Timer) Schedule(d time.Duration) Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return 0
	}
	t.stopLocked()

	t.last++
	tok := t.last
	t.current = tok
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := t.current == tok
		if live {
			t.current = 0
			t.timer = nil
		}
		t.mu.Unlock()

		// A racing Cancel may still lose; the consumer drops stale tokens.
		if live {
			t.fire(tok)
		}
	})
	return tok
}

// Cancel disarms tok if it is still outstanding. Cancelling an elapsed,
// already-cancelled or unknown token is a no-op.
func (t *Timer) Cancel(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tok == 0 || tok != t.current {
		return
	}
	t.stopLocked()
}

// Outstanding returns the token of the armed tick, or zero.
func (t *Timer) Outstanding() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Stop cancels any outstanding tick and refuses further scheduling.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.stopped = true
}

func (t *Timer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = 0
}
