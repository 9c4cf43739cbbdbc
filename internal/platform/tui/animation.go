package tui

import (
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// TileAnimation is a tile drawn between cells during the slide phase.
type TileAnimation struct {
	Value  int     // Value before the merge
	Row    float64 // Interpolated board row
	Col    float64 // Interpolated board column
	Merged bool
}

// Animator presents one accepted move: tiles slide to their targets, then
// the spawned tile pops in. Input stays gated until both phases finish.
type Animator struct {
	slideTicks int
	popTicks   int

	phase    AnimationPhase
	ticks    int
	progress float64

	moves   []t2048.TileMove
	static  []t2048.Tile // tiles that did not move
	spawned *t2048.Tile
}

// NewAnimator creates an animator with per-phase durations in ticks.
// A phase with zero ticks is skipped.
func NewAnimator(slideTicks, popTicks int) *Animator {
	return &Animator{slideTicks: slideTicks, popTicks: popTicks}
}

// Start begins presenting turn. It returns false when there is nothing to
// animate, in which case the caller may settle the session immediately.
func (a *Animator) Start(turn session.Turn) bool {
	a.Reset()
	if !turn.Result.Moved {
		return false
	}

	a.moves = turn.Result.Moves
	a.spawned = turn.Spawned

	targets := make(map[t2048.Position]bool, len(a.moves))
	for _, m := range a.moves {
		targets[m.To] = true
	}
	for _, t := range turn.Result.Grid.Tiles() {
		if targets[t.Pos] {
			continue
		}
		if a.spawned != nil && t.Pos == a.spawned.Pos {
			continue
		}
		a.static = append(a.static, t)
	}

	switch {
	case a.slideTicks > 0:
		a.phase = PhaseSlide
	case a.spawned != nil && a.popTicks > 0:
		a.phase = PhasePop
	default:
		a.Reset()
		return false
	}
	return true
}

// Advance moves the animation forward one tick.
// It returns true on the tick the whole animation finishes.
func (a *Animator) Advance() bool {
	if a.phase == PhaseNone {
		return false
	}

	a.ticks++

	duration := a.slideTicks
	if a.phase == PhasePop {
		duration = a.popTicks
	}

	a.progress = min(float64(a.ticks)/float64(duration), 1.0)

	if a.ticks < duration {
		return false
	}

	if a.phase == PhaseSlide && a.spawned != nil && a.popTicks > 0 {
		a.phase = PhasePop
		a.ticks = 0
		a.progress = 0
		return false
	}

	a.Reset()
	return true
}

// Reset drops any running animation.
func (a *Animator) Reset() {
	a.phase = PhaseNone
	a.ticks = 0
	a.progress = 0
	a.moves = nil
	a.static = nil
	a.spawned = nil
}

// Active reports whether an animation is running.
func (a *Animator) Active() bool {
	return a.phase != PhaseNone
}

// Phase returns the current phase.
func (a *Animator) Phase() AnimationPhase {
	return a.phase
}

// Progress returns the progress of the current phase, 0.0 to 1.0.
func (a *Animator) Progress() float64 {
	return a.progress
}

// Static returns the tiles that stay in place during the slide.
func (a *Animator) Static() []t2048.Tile {
	return a.static
}

// Sliding returns the moving tiles at their current interpolated positions.
func (a *Animator) Sliding() []TileAnimation {
	t := easeOutQuad(a.progress)
	out := make([]TileAnimation, 0, len(a.moves))
	for _, m := range a.moves {
		out = append(out, TileAnimation{
			Value:  m.Value,
			Row:    lerp(float64(m.From.Row), float64(m.To.Row), t),
			Col:    lerp(float64(m.From.Col), float64(m.To.Col), t),
			Merged: m.Merged,
		})
	}
	return out
}

// Spawned returns the tile popping in, if any.
func (a *Animator) Spawned() (t2048.Tile, bool) {
	if a.spawned == nil {
		return t2048.Tile{}, false
	}
	return *a.spawned, true
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
