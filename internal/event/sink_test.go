package event

import "testing"

func TestChannelSinkDropsOldest(t *testing.T) {
	s := NewChannelSink(2)
	s.Notify(ScoreChanged{Score: 1})
	s.Notify(ScoreChanged{Score: 2})
	s.Notify(ScoreChanged{Score: 3})

	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, expected 1", s.Dropped())
	}

	first := (<-s.C()).(ScoreChanged)
	second := (<-s.C()).(ScoreChanged)
	if first.Score != 2 || second.Score != 3 {
		t.Errorf("received scores %d, %d, expected 2, 3", first.Score, second.Score)
	}
}

func TestChannelSinkClosed(t *testing.T) {
	s := NewChannelSink(2)
	s.Close()
	s.Close()
	s.Notify(ScoreChanged{Score: 1})

	select {
	case n := <-s.C():
		t.Errorf("closed sink delivered %#v", n)
	default:
	}
}

func TestFanout(t *testing.T) {
	var a, b []Notification
	f := Fanout{
		NotifierFunc(func(n Notification) { a = append(a, n) }),
		nil,
		NotifierFunc(func(n Notification) { b = append(b, n) }),
	}

	f.Notify(WaitingForConnection{})
	f.Notify(ModelReady{Model: "snake"})

	if len(a) != 2 || len(b) != 2 {
		t.Errorf("sinks received %d and %d notifications, expected 2 each", len(a), len(b))
	}
}
