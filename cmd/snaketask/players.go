package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-task/internal/registry"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List player kinds",
	Long:  `Shows every player kind a session can be run with.`,
	Run:   runPlayers,
}

func runPlayers(_ *cobra.Command, _ []string) {
	players := registry.List()
	if len(players) == 0 {
		fmt.Println("No players available.")
		return
	}

	maxIDLen := 2 // "ID" header
	for _, p := range players {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Println("Available players:")
	fmt.Println()
	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "ID", "Needs", "Description")
	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "--", "-----", "-----------")
	for _, p := range players {
		needs := "-"
		switch {
		case p.NeedsModelBridge:
			needs = "bridge"
		case p.NeedsEyetracker:
			needs = "tracker"
		}
		fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, p.ID, needs, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'snaketask run --player <id>' to start a session.")
}
