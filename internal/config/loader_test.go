package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	embedded, err := parse(defaultExperimentYAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if embedded != DefaultExperiment() {
		t.Errorf("embedded default = %+v, expected %+v", embedded, DefaultExperiment())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	data := `
player: actr
task:
  board_size: 21
  initial_interval: 80ms
model_bridge:
  enabled: true
  address: "127.0.0.1:7000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Player != "actr" {
		t.Errorf("Player = %q, expected actr", cfg.Player)
	}
	if cfg.Task.BoardSize != 21 {
		t.Errorf("BoardSize = %d, expected 21", cfg.Task.BoardSize)
	}
	if cfg.Task.InitialInterval != 80*time.Millisecond {
		t.Errorf("InitialInterval = %v, expected 80ms", cfg.Task.InitialInterval)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Task.SpawnDelay != 2*time.Second {
		t.Errorf("SpawnDelay = %v, expected 2s", cfg.Task.SpawnDelay)
	}
	if cfg.ModelBridge.Path != "/bridge" {
		t.Errorf("ModelBridge.Path = %q, expected /bridge", cfg.ModelBridge.Path)
	}

	tc := cfg.TaskConfig()
	if !tc.HasModelBridge || tc.HasEyetracker {
		t.Errorf("TaskConfig() flags = bridge:%v eyetracker:%v", tc.HasModelBridge, tc.HasEyetracker)
	}
	if err := tc.Validate(); err != nil {
		t.Errorf("TaskConfig().Validate() = %v", err)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("Load() error = %v, expected read failure", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("task: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}
}

func TestApplyPace(t *testing.T) {
	tests := []struct {
		preset   PacePreset
		interval time.Duration
	}{
		{PaceRelaxed, 150 * time.Millisecond},
		{PaceStandard, 100 * time.Millisecond},
		{PaceFast, 70 * time.Millisecond},
	}

	for _, tc := range tests {
		settings := DefaultExperiment().Task
		ApplyPace(&settings, tc.preset)
		if settings.InitialInterval != tc.interval {
			t.Errorf("ApplyPace(%s) interval = %v, expected %v", tc.preset, settings.InitialInterval, tc.interval)
		}
		if settings.MinInterval > settings.InitialInterval {
			t.Errorf("ApplyPace(%s) floor above start", tc.preset)
		}
	}

	if ParsePace("bogus") != PaceStandard {
		t.Error("ParsePace should default to standard")
	}
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/tmp/x.db")
	if err != nil || got != "/tmp/x.db" {
		t.Errorf("ExpandHome(abs) = %q, %v", got, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandHome("~/.snaketask/history.db")
	if err != nil {
		t.Fatalf("ExpandHome() error = %v", err)
	}
	if expected := filepath.Join(home, ".snaketask", "history.db"); got != expected {
		t.Errorf("ExpandHome() = %q, expected %q", got, expected)
	}
}
