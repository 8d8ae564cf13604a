package event

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrIntakeClosed is returned by Next once the intake has been closed.
var ErrIntakeClosed = errors.New("event: intake closed")

// DefaultIntakeSize is the buffer used when NewIntake is given a size < 1.
const DefaultIntakeSize = 256

// Envelope wraps an event with its arrival order and time.
type Envelope struct {
	Seq    uint64
	At     time.Time
	Source Source
	Event  Event
}

// Intake serializes events from any number of producers for a single
// consumer. Seq increases strictly in delivery order. Push blocks while the
// buffer is full so neither ticks nor keys are lost.
type Intake struct {
	mu  sync.Mutex
	seq uint64
	now func() time.Time

	events    chan Envelope
	done      chan struct{}
	closeOnce sync.Once
}

// NewIntake creates an intake buffering up to size envelopes.
func NewIntake(size int) *Intake {
	if size < 1 {
		size = DefaultIntakeSize
	}
	return &Intake{
		now:    time.Now,
		events: make(chan Envelope, size),
		done:   make(chan struct{}),
	}
}

// Push enqueues e. It returns false if the intake is closed.
func (in *Intake) Push(src Source, e Event) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	select {
	case <-in.done:
		return false
	default:
	}

	in.seq++
	env := Envelope{
		Seq:    in.seq,
		At:     in.now(),
		Source: src,
		Event:  e,
	}

	select {
	case in.events <- env:
		return true
	case <-in.done:
		return false
	}
}

// Next blocks until an envelope is available, ctx is done or the intake
// is closed.
func (in *Intake) Next(ctx context.Context) (Envelope, error) {
	select {
	case env := <-in.events:
		return env, nil
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	case <-in.done:
		return Envelope{}, ErrIntakeClosed
	}
}

// Len returns the number of queued envelopes.
func (in *Intake) Len() int {
	return len(in.events)
}

// Done returns a channel that closes when the intake is closed.
func (in *Intake) Done() <-chan struct{} {
	return in.done
}

// Close stops the intake. Safe to call multiple times.
func (in *Intake) Close() {
	in.closeOnce.Do(func() {
		close(in.done)
	})
}
