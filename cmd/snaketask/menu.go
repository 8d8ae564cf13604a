package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-task/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a player interactively",
	Long: `Start with a player picker. After a session ends you return to the
picker. Tab opens the history screen.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Start a session
  Tab          - History
  Q            - Quit`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	exp := loadExperiment()

	for {
		width, height := terminalSize()
		result, err := tui.RunMenu(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if result.Quit {
			return
		}

		if result.WantsHistory {
			logger, closeLog := newLogger(exp.Log.Level, exp.Log.File)
			store := openStore(exp.Storage.Path, logger)
			goBack, err := tui.RunScoreboard(store, width, height)
			if store != nil {
				store.Close()
			}
			closeLog()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !goBack {
				return
			}
			continue
		}

		if err := runSession(exp, result.Player); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
