package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

var (
	flagGames  int
	flagRecord bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play random games headlessly",
	Long: `Play games with uniformly random moves and report how far they got.

Prints the distribution of the highest tile reached, the average game
length and the share of spawned tiles that were 4s.

Examples:
  t2048 simulate
  t2048 simulate --games 1000 --seed 7
  t2048 simulate --record   # Also store the games in the history database`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagGames, "games", 100, "Number of games to play")
	simulateCmd.Flags().BoolVar(&flagRecord, "record", false, "Store finished games in the history database")
}

// simResult aggregates a simulation run.
type simResult struct {
	Games    int
	MaxTiles map[int]int // max tile -> games
	Moves    int
	Spawned  int
	Fours    int
}

// FourRatio is the share of spawns that were 4s.
func (r simResult) FourRatio() float64 {
	if r.Spawned == 0 {
		return 0
	}
	return float64(r.Fours) / float64(r.Spawned)
}

// simulate plays games random-move games. rec may be nil.
func simulate(games int, seed int64, rec session.Recorder, logger *log.Logger) (simResult, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	res := simResult{MaxTiles: make(map[int]int)}
	for i := range games {
		opts := []session.Option{
			session.WithRand(rng),
			session.WithAutoRestart(false),
			session.WithID(fmt.Sprintf("sim-%d", i+1)),
			session.WithLogger(logger),
		}
		if rec != nil {
			opts = append(opts, session.WithRecorder(rec))
		}
		s := session.New(opts...)

		for !s.Over() {
			dir := t2048.Directions[rng.Intn(len(t2048.Directions))]
			turn, err := s.Move(dir)
			if err != nil {
				return res, fmt.Errorf("game %d: %w", i+1, err)
			}
			if turn.Spawned != nil {
				res.Spawned++
				if turn.Spawned.Value == 4 {
					res.Fours++
				}
			}
			s.Settle()
		}

		// Records the finished game.
		if _, err := s.Move(t2048.DirUp); err != nil && !errors.Is(err, session.ErrGameOver) {
			return res, fmt.Errorf("game %d: %w", i+1, err)
		}

		stats := s.Stats()
		res.Games++
		res.Moves += stats.Moves
		res.MaxTiles[stats.MaxTile]++
		logger.Debug("game finished", "game", i+1, "max_tile", stats.MaxTile, "moves", stats.Moves)
	}
	return res, nil
}

func runSimulate(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	if flagGames <= 0 {
		fatalf("--games must be positive")
	}

	logger := newLogger(cfg, os.Stderr, "t2048-sim")

	var rec session.Recorder
	if flagRecord {
		store := openStore(cfg, logger)
		if store == nil {
			fatalf("--record needs the history database")
		}
		defer store.Close()
		rec = store
	}

	res, err := simulate(flagGames, cfg.Game.Seed, rec, logger)
	if err != nil {
		fatalf("%v", err)
	}
	printSimResult(os.Stdout, res)
}

func printSimResult(w io.Writer, res simResult) {
	fmt.Fprintf(w, "Random play - %d games\n\n", res.Games)

	tiles := make([]int, 0, len(res.MaxTiles))
	for tile := range res.MaxTiles {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

	fmt.Fprintf(w, "  %-8s  %-6s  %s\n", "Max", "Games", "Share")
	fmt.Fprintf(w, "  %-8s  %-6s  %s\n", "---", "-----", "-----")
	for _, tile := range tiles {
		n := res.MaxTiles[tile]
		fmt.Fprintf(w, "  %-8d  %-6d  %5.1f%%\n", tile, n, 100*float64(n)/float64(res.Games))
	}

	fmt.Fprintln(w)
	if res.Games > 0 {
		fmt.Fprintf(w, "Average moves: %.1f\n", float64(res.Moves)/float64(res.Games))
	}
	fmt.Fprintf(w, "Spawned 4s: %d of %d (%.3f)\n", res.Fours, res.Spawned, res.FourRatio())
}
