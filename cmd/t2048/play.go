package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start a game of 2048.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  R                - New game
  ?                - Toggle help
  Q/Esc/Ctrl+C     - Quit

When no move is left the next slide starts a new game (set
game.auto_restart: false in the config to require R instead).

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)

	// Logs go to a file so they do not draw over the alt screen.
	logFile := os.Stderr
	if cfg.Log.File != "" {
		path, err := config.ExpandPath(cfg.Log.File)
		if err != nil {
			fatalf("%v", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fatalf("cannot create log directory: %v", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fatalf("cannot open log file: %v", err)
		}
		defer f.Close()
		logFile = f
	}
	logger := newLogger(cfg, logFile, "t2048")

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := openStore(cfg, logger)

	opts := sessionOptions(cfg, store, logger)
	opts = append(opts, session.WithID("local"))
	game := session.New(opts...)

	runErr := tui.Run(game, cfg, logger, width, height)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fatalf("running game: %v", runErr)
	}
}
