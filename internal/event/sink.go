package event

import "sync"

// Notifier receives controller notifications. Notify is called on the
// controller goroutine and must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Fanout delivers each notification to every sink in order.
type Fanout []Notifier

// Notify forwards n to all sinks.
func (f Fanout) Notify(n Notification) {
	for _, s := range f {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Discard drops all notifications.
var Discard Notifier = NotifierFunc(func(Notification) {})

// ChannelSink buffers notifications for a consumer on another goroutine.
// When the buffer is full the oldest notification is dropped so the
// controller never waits on a slow reader.
type ChannelSink struct {
	ch       chan Notification
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.Mutex
	dropped int
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(size int) *ChannelSink {
	if size < 1 {
		size = 64
	}
	return &ChannelSink{
		ch:   make(chan Notification, size),
		done: make(chan struct{}),
	}
}

// Notify enqueues n, dropping the oldest queued notification if full.
func (s *ChannelSink) Notify(n Notification) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.ch <- n:
		return
	default:
	}

	select {
	case <-s.ch:
		s.dropped++
	default:
	}
	select {
	case s.ch <- n:
	default:
		s.dropped++
	}
}

// C returns the channel notifications are delivered on.
func (s *ChannelSink) C() <-chan Notification {
	return s.ch
}

// Done returns a channel that closes when the sink is closed.
func (s *ChannelSink) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many notifications were discarded.
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close marks the sink as done. Safe to call multiple times.
func (s *ChannelSink) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
