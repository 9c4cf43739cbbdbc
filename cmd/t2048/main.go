// t2048 is the 2048 sliding-tile puzzle for the terminal, over SSH and
// over HTTP.
//
// Usage:
//
//	t2048 play               - Play in this terminal
//	t2048 serve              - Start SSH server for remote play
//	t2048 web                - Start the HTTP/WebSocket API
//	t2048 history            - Show finished games
//	t2048 simulate           - Play random games headlessly
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.t2048, ./configs, embedded)
//	--seed <value>      - RNG seed for reproducible games
//	--db <path>         - History database path
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle. Slide the board, merge equal
tiles and reach the biggest tile you can.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  web       - Start the HTTP/WebSocket API
  history   - Show finished games
  simulate  - Play random games headlessly

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 serve --ssh :2222
  t2048 web --addr :8048
  t2048 history --best`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}

	if cmd.Flags().Changed("seed") {
		cfg.Game.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger builds a logger at the configured level.
func newLogger(cfg config.Config, w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the history database. Play goes on without it.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// sessionOptions returns the options shared by every session a command creates.
func sessionOptions(cfg config.Config, store *storage.Store, logger *log.Logger) []session.Option {
	opts := []session.Option{
		session.WithSeed(cfg.Game.Seed),
		session.WithAutoRestart(cfg.Game.AutoRestart),
		session.WithLogger(logger),
	}
	if store != nil {
		opts = append(opts, session.WithRecorder(store))
	}
	return opts
}
