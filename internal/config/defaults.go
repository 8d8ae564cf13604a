package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/experiment.yaml
var defaultExperimentYAML []byte

// DefaultExperiment returns the built-in configuration.
func DefaultExperiment() Experiment {
	return Experiment{
		Player: "human",
		Pace:   string(PaceStandard),
		Task: TaskSettings{
			BoardSize:       41,
			InitialLength:   3,
			InitialInterval: 100 * time.Millisecond,
			SpawnDelay:      2 * time.Second,
			SpeedDecay:      0.99,
			MinInterval:     20 * time.Millisecond,
			CellSize:        10,
		},
		ModelBridge: ModelBridgeConfig{
			Address: ":6666",
			Path:    "/bridge",
		},
		Eyetracker: EyetrackerConfig{
			Listen: ":5555",
		},
		Storage: StorageConfig{
			Path: "~/.snaketask/history.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.snaketask/snaketask.log",
		},
	}
}
