package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-task/internal/registry"
	"github.com/vovakirdan/snake-task/internal/storage"
)

var (
	flagHistoryPlayer string
	flagHistoryLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show top scores and recent sessions",
	Long: `Display the best finished games and the most recent sessions from the
history database. Aborted games are not ranked.

Examples:
  snaketask history
  snaketask history --player actr
  snaketask history --limit 20`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryPlayer, "player", "", "Only show this player kind")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of rows per table")
}

func runHistory(_ *cobra.Command, _ []string) {
	if flagHistoryPlayer != "" && !registry.Exists(flagHistoryPlayer) {
		fmt.Fprintf(os.Stderr, "Error: unknown player %q\n", flagHistoryPlayer)
		fmt.Fprintln(os.Stderr, "Run 'snaketask players' to see available players.")
		os.Exit(1)
	}

	exp := loadExperiment()
	store, err := storage.Open(exp.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores(flagHistoryPlayer, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	title := "all players"
	if flagHistoryPlayer != "" {
		title = flagHistoryPlayer
	}
	fmt.Printf("Top Scores - %s\n\n", title)

	if len(scores) == 0 {
		fmt.Println("No finished games recorded yet.")
	} else {
		fmt.Printf("  %-4s  %-6s  %-6s  %-10s  %s\n", "Rank", "Score", "Ticks", "Player", "Date")
		fmt.Printf("  %-4s  %-6s  %-6s  %-10s  %s\n", "----", "-----", "-----", "------", "----")
		for i, e := range scores {
			fmt.Printf("  %-4d  %-6d  %-6d  %-10s  %s\n",
				i+1, e.Score, e.Ticks, e.Player, e.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	if flagHistoryPlayer != "" {
		if stats, err := store.PlayerStats(flagHistoryPlayer); err == nil && stats.Sessions > 0 {
			fmt.Printf("\nSessions: %d  Games: %d  Best: %d  Mean: %.1f  Last: %s\n",
				stats.Sessions, stats.Games, stats.HighScore, stats.AvgScore,
				stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}

	sessions, err := store.RecentSessions(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nRecent Sessions\n\n")
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return
	}
	fmt.Printf("  %-8s  %-10s  %-5s  %-16s  %s\n", "Session", "Player", "Board", "Started", "Duration")
	fmt.Printf("  %-8s  %-10s  %-5s  %-16s  %s\n", "-------", "------", "-----", "-------", "--------")
	for _, s := range sessions {
		if flagHistoryPlayer != "" && s.Player != flagHistoryPlayer {
			continue
		}
		duration := "open"
		if !s.EndedAt.IsZero() {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		fmt.Printf("  %-8s  %-10s  %-5d  %-16s  %s\n",
			shortID(s.ID), s.Player, s.BoardSize, s.StartedAt.Format("2006-01-02 15:04"), duration)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

