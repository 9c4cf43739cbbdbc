package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			Seed:        0,
			AutoRestart: true,
		},
		TUI: TUIConfig{
			TickRate:   60,
			SlideTicks: 8, // ~133ms at 60fps
			PopTicks:   6, // ~100ms at 60fps
			Colors: map[int]string{
				2:    "255",
				4:    "230",
				8:    "215",
				16:   "209",
				32:   "203",
				64:   "196",
				128:  "227",
				256:  "226",
				512:  "220",
				1024: "214",
				2048: "208",
				4096: "201",
			},
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address:   ":8048",
			GateInput: false,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/history.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.t2048/t2048.log",
		},
	}
}
