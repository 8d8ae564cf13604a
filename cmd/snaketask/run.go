package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-task/internal/config"
	"github.com/vovakirdan/snake-task/internal/platform/tui"
	"github.com/vovakirdan/snake-task/internal/registry"
	"github.com/vovakirdan/snake-task/internal/session"
)

var (
	flagPlayer    string
	flagBoardSize int
	flagPace      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one task session",
	Long: `Run one session of the snake task in this terminal.

The player kind decides which collaborators are attached:
  human       - keyboard only
  actr        - waits for an ACT-R model on the model bridge
  human-gaze  - keyboard plus eye tracker, calibrated before the first game

Controls:
  Arrows/WASD  - Change direction
  Space        - New game after game over
  Enter / X    - Calibration succeeded / failed
  Q/Ctrl+C     - Quit

Examples:
  snaketask run
  snaketask run --player actr
  snaketask run --pace fast --board-size 21`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagPlayer, "player", "", "Player kind (default: player from config)")
	runCmd.Flags().IntVar(&flagBoardSize, "board-size", 0, "Board size N, odd (default: from config)")
	runCmd.Flags().StringVar(&flagPace, "pace", "", "Pace preset: relaxed, standard, fast")
}

func runRun(_ *cobra.Command, _ []string) {
	exp := loadExperiment()
	if flagPlayer != "" {
		exp.Player = flagPlayer
	}
	if flagBoardSize != 0 {
		exp.Task.BoardSize = flagBoardSize
	}
	if flagPace != "" {
		exp.Pace = flagPace
	}

	player, err := registry.Lookup(exp.Player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'snaketask players' to see available players.")
		os.Exit(1)
	}

	if err := runSession(exp, player); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runSession plays one session in the terminal and records it.
func runSession(exp config.Experiment, player registry.Player) error {
	logger, closeLog := newLogger(exp.Log.Level, exp.Log.File)
	defer closeLog()

	var opts []session.Option
	if store := openStore(exp.Storage.Path, logger); store != nil {
		defer store.Close()
		opts = append(opts, session.WithStore(store))
	}

	sess, err := session.New(exp, player, logger, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	width, height := terminalSize()
	return tui.Run(ctx, sess, width, height)
}
