package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagLimit       int
	flagBest        bool
	flagInteractive bool
	flagClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished games",
	Long: `Display recently finished games and overall statistics.

Examples:
  t2048 history
  t2048 history --best --limit 5
  t2048 history -i        # Browse in a table
  t2048 history --clear   # Delete all recorded games`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of games to show")
	historyCmd.Flags().BoolVar(&flagBest, "best", false, "Order by highest tile instead of most recent")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse history in a table")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded games")
}

func runHistory(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatalf("opening history database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearHistory(); err != nil {
			fatalf("%v", err)
		}
		fmt.Println("History cleared.")
		return
	}

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fatalf("%v", err)
		}
		return
	}

	var games []storage.GameEntry
	if flagBest {
		games, err = store.TopGames(flagLimit)
	} else {
		games, err = store.RecentGames(flagLimit)
	}
	if err != nil {
		fatalf("%v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		fatalf("%v", err)
	}

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to record the first one!")
		return
	}

	title := "Recent Games"
	if flagBest {
		title = "Best Games"
	}
	fmt.Println(title)
	fmt.Println()

	fmt.Printf("  %-4s  %-6s  %-6s  %-8s  %-9s  %s\n", "#", "Max", "Moves", "Time", "End", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-8s  %-9s  %s\n", "-", "---", "-----", "----", "---", "----")
	for i, g := range games {
		fmt.Printf("  %-4d  %-6d  %-6d  %-8s  %-9s  %s\n",
			i+1, g.MaxTile, g.Moves, g.Duration.Round(time.Second), g.EndReason,
			g.FinishedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Games: %d  Best tile: %d  Average moves: %.1f\n", stats.GamesCount, stats.BestTile, stats.AvgMoves)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("Last played: %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
