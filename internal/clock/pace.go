package clock

import "time"

// Pace is the movement interval of one game. A fresh Pace is created for
// every game; it only ever speeds up.
type Pace struct {
	Interval time.Duration
	Floor    time.Duration
	Decay    float64
}

// NewPace creates a pace starting at interval.
func NewPace(interval, floor time.Duration, decay float64) Pace {
	return Pace{Interval: interval, Floor: floor, Decay: decay}
}

// Speedup multiplies the interval by Decay, clamped at Floor.
func (p *Pace) Speedup() {
	next := time.Duration(float64(p.Interval) * p.Decay)
	if next < p.Floor {
		next = p.Floor
	}
	if next < p.Interval {
		p.Interval = next
	}
}
