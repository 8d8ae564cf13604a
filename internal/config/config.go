// Package config loads the experiment configuration from YAML.
package config

import (
	"time"

	"github.com/vovakirdan/snake-task/internal/task"
)

// Experiment is the full configuration of one experiment run.
type Experiment struct {
	Player      string            `yaml:"player"`
	Pace        string            `yaml:"pace"`
	Task        TaskSettings      `yaml:"task"`
	ModelBridge ModelBridgeConfig `yaml:"model_bridge"`
	Eyetracker  EyetrackerConfig  `yaml:"eyetracker"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
}

// TaskSettings defines board and pacing parameters.
type TaskSettings struct {
	BoardSize       int           `yaml:"board_size"`
	InitialLength   int           `yaml:"initial_length"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	SpawnDelay      time.Duration `yaml:"spawn_delay"`
	SpeedDecay      float64       `yaml:"speed_decay"`
	MinInterval     time.Duration `yaml:"min_interval"`
	SpawnAttempts   int           `yaml:"spawn_attempts"`
	Seed            int64         `yaml:"seed"`
	CellSize        float64       `yaml:"cell_size"`
}

// ModelBridgeConfig defines where the cognitive model connects.
type ModelBridgeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Path    string `yaml:"path"`
}

// EyetrackerConfig defines the gaze stream listener.
type EyetrackerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// StorageConfig defines where session history is written.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig defines logging output. Interactive commands log to File.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TaskConfig converts the settings into the controller's config, with the
// pace preset applied.
func (e Experiment) TaskConfig() task.Config {
	t := e.Task
	ApplyPace(&t, ParsePace(e.Pace))
	return task.Config{
		HasModelBridge:  e.ModelBridge.Enabled,
		HasEyetracker:   e.Eyetracker.Enabled,
		BoardSize:       t.BoardSize,
		InitialLength:   t.InitialLength,
		InitialInterval: t.InitialInterval,
		SpawnDelay:      t.SpawnDelay,
		SpeedDecay:      t.SpeedDecay,
		MinInterval:     t.MinInterval,
		SpawnAttempts:   t.SpawnAttempts,
		Seed:            t.Seed,
		CellSize:        t.CellSize,
	}
}
