package clock

import (
	"testing"
	"time"
)

func TestTimerFires(t *testing.T) {
	fired := make(chan Token, 1)
	tm := NewTimer(func(tok Token) { fired <- tok })

	tok := tm.Schedule(5 * time.Millisecond)
	if tok == 0 {
		t.Fatal("Schedule() returned zero token")
	}

	select {
	case got := <-fired:
		if got != tok {
			t.Errorf("fired token = %d, expected %d", got, tok)
		}
	case <-time.After(time.Second):
		t.Fatal("tick never fired")
	}

	if tm.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d after firing, expected 0", tm.Outstanding())
	}
}

func TestTimerCancel(t *testing.T) {
	fired := make(chan Token, 1)
	tm := NewTimer(func(tok Token) { fired <- tok })

	tok := tm.Schedule(20 * time.Millisecond)
	tm.Cancel(tok)
	tm.Cancel(tok) // idempotent

	select {
	case got := <-fired:
		t.Errorf("cancelled tick %d fired", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestTimerReschedule(t *testing.T) {
	fired := make(chan Token, 2)
	tm := NewTimer(func(tok Token) { fired <- tok })

	first := tm.Schedule(30 * time.Millisecond)
	second := tm.Schedule(5 * time.Millisecond)
	if first == second {
		t.Fatal("tokens must be unique")
	}

	select {
	case got := <-fired:
		if got != second {
			t.Errorf("fired token = %d, expected %d", got, second)
		}
	case <-time.After(time.Second):
		t.Fatal("tick never fired")
	}

	select {
	case got := <-fired:
		t.Errorf("superseded tick %d fired", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestTimerCancelStaleToken(t *testing.T) {
	tm := NewTimer(func(Token) {})
	old := tm.Schedule(time.Hour)
	cur := tm.Schedule(time.Hour)

	tm.Cancel(old)
	if tm.Outstanding() != cur {
		t.Errorf("Cancel(stale) disarmed the live tick")
	}
	tm.Stop()
}

func TestTimerStop(t *testing.T) {
	tm := NewTimer(func(Token) {})
	tm.Schedule(time.Hour)
	tm.Stop()

	if tm.Outstanding() != 0 {
		t.Error("Stop() should cancel the outstanding tick")
	}
	if tok := tm.Schedule(time.Millisecond); tok != 0 {
		t.Errorf("Schedule() after Stop = %d, expected 0", tok)
	}
}

func TestPaceSpeedup(t *testing.T) {
	p := NewPace(100*time.Millisecond, 20*time.Millisecond, 0.99)

	prev := p.Interval
	for i := 0; i < 500; i++ {
		p.Speedup()
		if p.Interval > prev {
			t.Fatalf("interval grew: %v -> %v", prev, p.Interval)
		}
		if p.Interval == prev && p.Interval != p.Floor {
			t.Fatalf("interval stalled above floor at %v", p.Interval)
		}
		prev = p.Interval
	}
	if p.Interval != p.Floor {
		t.Errorf("Interval = %v, expected floor %v", p.Interval, p.Floor)
	}
}

func TestPaceFirstSpeedup(t *testing.T) {
	p := NewPace(100*time.Millisecond, 0, 0.99)
	p.Speedup()
	if p.Interval != 99*time.Millisecond {
		t.Errorf("Interval = %v, expected 99ms", p.Interval)
	}
}
