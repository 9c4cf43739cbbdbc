// Package session owns a single running game: it commits move results,
// enforces the spawn and input-gating rules around the t2048 engine, and
// reports finished games to a Recorder.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

var (
	// ErrNotReady is returned by Move while the previous move is still
	// being presented. Call Settle once the presentation has finished.
	ErrNotReady = errors.New("session: previous move has not settled")

	// ErrGameOver is returned by Move when no move is left and automatic
	// restart is disabled.
	ErrGameOver = errors.New("session: game over")
)

// EndReason describes why a game was recorded.
type EndReason string

const (
	EndGameOver EndReason = "game_over"
	EndRestart  EndReason = "restart"
	EndQuit     EndReason = "quit"
)

// GameRecord summarizes a finished game.
type GameRecord struct {
	SessionID  string
	MaxTile    int
	Moves      int
	Merges     int
	Spawned    int
	Duration   time.Duration
	EndReason  EndReason
	FinishedAt time.Time
}

// Recorder receives finished games.
type Recorder interface {
	RecordGame(rec GameRecord) error
}

// Stats tracks the current game.
type Stats struct {
	Moves     int       `json:"moves"`
	Merges    int       `json:"merges"`
	Spawned   int       `json:"spawned"`
	MaxTile   int       `json:"max_tile"`
	StartedAt time.Time `json:"started_at"`
}

// Turn is what a front-end needs to present one accepted input.
type Turn struct {
	Direction t2048.Direction  `json:"direction"`
	Result    t2048.MoveResult `json:"result"`
	Spawned   *t2048.Tile      `json:"spawned,omitempty"`
	Restarted bool             `json:"restarted"`
	Over      bool             `json:"over"`
}

// Session is a single player's game. It is not safe for concurrent use;
// Manager serializes access for network front-ends.
type Session struct {
	id          string
	rng         t2048.RandSource
	logger      *log.Logger
	recorder    Recorder
	autoRestart bool
	now         func() time.Time

	grid     t2048.Grid
	busy     bool
	over     bool
	recorded bool
	stats    Stats
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for spawns.
func WithRand(rng t2048.RandSource) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSeed seeds a math/rand source. A zero seed uses the current time.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRecorder sets where finished games are reported.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithAutoRestart controls whether an input on a finished board starts a
// new game (true) or is rejected with ErrGameOver (false).
func WithAutoRestart(enabled bool) Option {
	return func(s *Session) { s.autoRestart = enabled }
}

// WithID sets the session identifier.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session and starts its first game.
func New(opts ...Option) *Session {
	s := &Session{
		id:          "local",
		autoRestart: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		WithSeed(0)(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.Start()
	return s
}

// Start clears the board, seeds two tiles and resets the statistics.
func (s *Session) Start() {
	s.grid = t2048.InitGame(s.rng)
	s.busy = false
	s.over = false
	s.recorded = false
	s.stats = Stats{
		MaxTile:   t2048.MaxTile(s.grid),
		StartedAt: s.now(),
	}
	s.logger.Debug("game started", "session", s.id, "grid", s.grid.Values())
}

// Move applies dir. The board is checked for game over before the input
// is accepted. A move that changes the board spawns exactly one tile and
// leaves the session busy until Settle is called; a move that changes
// nothing spawns nothing and keeps the session ready.
func (s *Session) Move(dir t2048.Direction) (Turn, error) {
	if s.busy {
		return Turn{}, ErrNotReady
	}

	if t2048.IsGameOver(s.grid) {
		s.over = true
		s.finish(EndGameOver)
		if !s.autoRestart {
			return Turn{Direction: dir, Result: t2048.MoveResult{Grid: s.grid}, Over: true}, ErrGameOver
		}
		s.logger.Info("game over, restarting", "session", s.id, "max_tile", s.stats.MaxTile, "moves", s.stats.Moves)
		s.Start()
		return Turn{Direction: dir, Result: t2048.MoveResult{Grid: s.grid}, Restarted: true}, nil
	}

	result := t2048.ApplyMove(s.grid, dir)
	turn := Turn{Direction: dir, Result: result}
	if !result.Moved {
		return turn, nil
	}

	next, tile, err := t2048.Spawn(result.Grid, s.rng)
	if err != nil {
		return Turn{}, fmt.Errorf("session: spawn after %s: %w", dir, err)
	}

	s.grid = next
	s.busy = true
	s.stats.Moves++
	s.stats.Merges += len(result.Merged)
	s.stats.Spawned++
	s.stats.MaxTile = t2048.MaxTile(next)

	turn.Result.Grid = next
	turn.Spawned = &tile
	turn.Over = t2048.IsGameOver(next)
	return turn, nil
}

// Settle marks the previous move as fully presented.
func (s *Session) Settle() {
	s.busy = false
}

// Ready reports whether the next Move will be accepted.
func (s *Session) Ready() bool {
	return !s.busy
}

// Restart abandons the current game, recording it if any move was made.
func (s *Session) Restart() {
	if s.stats.Moves > 0 {
		s.finish(EndRestart)
	}
	s.Start()
}

// Close records the current game as quit if any move was made.
func (s *Session) Close() {
	if s.stats.Moves > 0 {
		s.finish(EndQuit)
	}
}

// finish reports the current game to the recorder once.
func (s *Session) finish(reason EndReason) {
	if s.recorded {
		return
	}
	s.recorded = true

	if s.recorder == nil {
		return
	}

	now := s.now()
	rec := GameRecord{
		SessionID:  s.id,
		MaxTile:    s.stats.MaxTile,
		Moves:      s.stats.Moves,
		Merges:     s.stats.Merges,
		Spawned:    s.stats.Spawned,
		Duration:   now.Sub(s.stats.StartedAt),
		EndReason:  reason,
		FinishedAt: now,
	}
	if err := s.recorder.RecordGame(rec); err != nil {
		s.logger.Warn("could not record game", "session", s.id, "error", err)
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Grid returns the current board.
func (s *Session) Grid() t2048.Grid {
	return s.grid
}

// Stats returns statistics for the current game.
func (s *Session) Stats() Stats {
	return s.stats
}

// Over reports whether the board has no move left.
func (s *Session) Over() bool {
	return s.over || t2048.IsGameOver(s.grid)
}

// Snapshot captures the session state for transports.
type Snapshot struct {
	ID    string     `json:"id"`
	Grid  t2048.Grid `json:"grid"`
	Stats Stats      `json:"stats"`
	Ready bool       `json:"ready"`
	Over  bool       `json:"over"`
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:    s.id,
		Grid:  s.grid,
		Stats: s.stats,
		Ready: s.Ready(),
		Over:  s.Over(),
	}
}
