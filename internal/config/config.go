// Package config provides YAML-based configuration loading for the 2048
// front-ends: game rules options, terminal presentation, SSH and web
// servers, and the history database.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	TUI     TUIConfig     `yaml:"tui"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig controls session behaviour.
type GameConfig struct {
	Seed        int64 `yaml:"seed"`         // 0 = time based
	AutoRestart bool  `yaml:"auto_restart"` // input on a finished board starts a new game
}

// TUIConfig controls the terminal front-end.
type TUIConfig struct {
	TickRate   int            `yaml:"tick_rate"`   // Animation ticks per second
	SlideTicks int            `yaml:"slide_ticks"` // Ticks for the slide phase
	PopTicks   int            `yaml:"pop_ticks"`   // Ticks for the spawn pop phase
	Colors     map[int]string `yaml:"colors"`      // Tile value -> ANSI 256 color
}

// SSHConfig controls the Wish SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key"` // empty = ~/.t2048/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig controls the HTTP/WebSocket server.
type WebConfig struct {
	Address   string `yaml:"address"`
	GateInput bool   `yaml:"gate_input"` // require "settled" before the next move
}

// StorageConfig controls the history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // used by the local TUI so logs do not clobber the screen
}

// TileColor returns the configured color for a tile value, falling back
// to the color of the largest configured value below it.
func (c TUIConfig) TileColor(value int) string {
	if color, ok := c.Colors[value]; ok {
		return color
	}
	best, bestColor := 0, ""
	for v, color := range c.Colors {
		if v <= value && v > best {
			best, bestColor = v, color
		}
	}
	return bestColor
}
