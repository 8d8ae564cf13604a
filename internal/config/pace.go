package config

import "time"

// PacePreset names a speed profile for the task.
type PacePreset string

const (
	PaceRelaxed  PacePreset = "relaxed"
	PaceStandard PacePreset = "standard"
	PaceFast     PacePreset = "fast"
)

// AllPaces returns all presets in order.
func AllPaces() []PacePreset {
	return []PacePreset{PaceRelaxed, PaceStandard, PaceFast}
}

// ParsePace converts a string to a PacePreset. Unknown names give PaceStandard.
func ParsePace(s string) PacePreset {
	switch s {
	case "relaxed":
		return PaceRelaxed
	case "fast":
		return PaceFast
	default:
		return PaceStandard
	}
}

// ApplyPace overwrites the interval settings for a preset.
// PaceStandard leaves the configured values untouched.
func ApplyPace(t *TaskSettings, p PacePreset) {
	switch p {
	case PaceRelaxed:
		t.InitialInterval = 150 * time.Millisecond
		t.SpeedDecay = 0.995
		t.MinInterval = 60 * time.Millisecond
	case PaceFast:
		t.InitialInterval = 70 * time.Millisecond
		t.SpeedDecay = 0.985
		t.MinInterval = 15 * time.Millisecond
	}
}
