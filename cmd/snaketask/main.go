// snaketask runs the snake experiment task in the terminal.
//
// Usage:
//
//	snaketask run              - Run one session (human, actr or human-gaze)
//	snaketask menu             - Pick a player interactively, then run
//	snaketask serve            - Start SSH server for remote participants
//	snaketask history          - Show top scores and recent sessions
//	snaketask players          - List player kinds
//
// Global flags:
//
//	--config <path>     - Experiment config YAML
//	--db <path>         - History database (default: from config)
//	--seed <value>      - RNG seed for food placement (0 = time based)
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Log destination for interactive commands
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-task/internal/config"
	"github.com/vovakirdan/snake-task/internal/storage"

	// Import producers and presenters to register their players
	_ "github.com/vovakirdan/snake-task/internal/bridge"
	_ "github.com/vovakirdan/snake-task/internal/platform/tui"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snaketask",
	Short: "Snake experiment task for humans and cognitive models",
	Long: `snaketask runs a snake game as an experiment task. A session can be
played by a human at the keyboard, by an ACT-R model attached over the
model bridge, or by a human whose gaze is streamed from an eye tracker.

Available commands:
  run      - Run one session
  menu     - Pick a player interactively
  serve    - Start SSH server for remote participants
  history  - Show recorded sessions and scores
  players  - List player kinds

Examples:
  snaketask run
  snaketask run --player actr
  snaketask run --board-size 21 --seed 7
  snaketask serve --ssh :2222
  snaketask history --player human`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to experiment config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default: storage.path from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: log.level from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: log.file from config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(playersCmd)
}

// loadExperiment reads the config and applies the global flags.
func loadExperiment() config.Experiment {
	exp, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagSeed != 0 {
		exp.Task.Seed = flagSeed
	}
	if flagDBPath != "" {
		exp.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		exp.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		exp.Log.File = flagLogFile
	}
	return exp
}

// newLogger builds the root logger writing to stderr, or to file when one
// is given. Interactive sessions need the file since the alt screen covers
// stderr. The returned func closes the file.
func newLogger(level, file string) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if file != "" {
		path, err := config.ExpandHome(file)
		if err == nil {
			err = os.MkdirAll(filepath.Dir(path), 0o755)
		}
		var f *os.File
		if err == nil {
			f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v\n", file, err)
		} else {
			w = f
			closeFn = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snaketask",
	})
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger, closeFn
}

// openStore opens the history database, or returns nil with a warning.
func openStore(path string, logger *log.Logger) *storage.Store {
	if path == "" {
		return nil
	}
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open history database, running without history", "path", path, "err", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
