package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/transport/web"
)

var (
	flagWebAddr string
	flagGate    bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket API",
	Long: `Serve 2048 games over HTTP.

Endpoints:
  POST   /api/games               - Start a game
  GET    /api/games               - List game IDs
  GET    /api/games/{id}          - Current board and stats
  POST   /api/games/{id}/move     - {"direction":"left"}
  POST   /api/games/{id}/settle   - Release input after animating a move
  POST   /api/games/{id}/restart  - Start over
  DELETE /api/games/{id}          - End the game
  GET    /ws?game={id}            - WebSocket with every turn of the game

With --gate a move leaves the game busy until the client settles it,
so input cannot run ahead of the client's animation.

Examples:
  t2048 web
  t2048 web --addr :9000 --gate`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (host:port)")
	webCmd.Flags().BoolVar(&flagGate, "gate", false, "Require clients to settle each move")
}

func runWeb(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)

	if flagWebAddr != "" {
		cfg.Web.Address = flagWebAddr
	}
	if cmd.Flags().Changed("gate") {
		cfg.Web.GateInput = flagGate
	}

	logger := newLogger(cfg, os.Stderr, "t2048-web")
	store := openStore(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := web.NewHub(logger)
	go hub.Run(ctx)

	manager := session.NewManager(logger, sessionOptions(cfg, store, logger)...)
	server := web.NewServer(manager, hub, logger, cfg.Web.GateInput)

	fmt.Printf("Starting 2048 web server on %s\n", cfg.Web.Address)
	fmt.Println("Press Ctrl+C to stop")

	err := server.ListenAndServe(ctx, cfg.Web.Address)

	// Record unfinished games before the database goes away.
	manager.CloseAll()
	if store != nil {
		store.Close()
	}

	if err != nil {
		fatalf("server: %v", err)
	}
}
