package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the experiment configuration.
// Search order: customPath -> ~/.snaketask/experiment.yaml -> ./configs/experiment.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys
// it changes.
func Load(customPath string) (Experiment, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Experiment{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Experiment{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("experiment.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/experiment.yaml"); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	var cfg Experiment
	if err := yaml.Unmarshal(defaultExperimentYAML, &cfg); err != nil {
		return DefaultExperiment(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (Experiment, error) {
	cfg := DefaultExperiment()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Experiment{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snaketask", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
