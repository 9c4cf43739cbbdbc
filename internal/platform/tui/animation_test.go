package tui

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// leftTurn builds a turn for row [2,2,_,4] with an 8 below, moved left.
func leftTurn(t *testing.T) session.Turn {
	t.Helper()
	g, err := t2048.GridFromValues([t2048.Size][t2048.Size]int{
		{2, 2, 0, 4},
		{8, 0, 0, 0},
	})
	if err != nil {
		t.Fatalf("GridFromValues failed: %v", err)
	}

	result := t2048.ApplyMove(g, t2048.DirLeft)
	next, tile, err := t2048.Spawn(result.Grid, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	result.Grid = next
	return session.Turn{Direction: t2048.DirLeft, Result: result, Spawned: &tile}
}

func TestAnimatorNoMove(t *testing.T) {
	a := NewAnimator(4, 2)
	if a.Start(session.Turn{}) {
		t.Error("Start should report nothing to animate for an unchanged board")
	}
	if a.Active() {
		t.Error("animator should be idle")
	}
	if a.Advance() {
		t.Error("Advance on idle animator should not report completion")
	}
}

func TestAnimatorPhases(t *testing.T) {
	a := NewAnimator(3, 2)
	if !a.Start(leftTurn(t)) {
		t.Fatal("Start should animate a changing move")
	}
	if a.Phase() != PhaseSlide {
		t.Fatalf("phase = %v, want slide", a.Phase())
	}

	// 3 slide ticks, then 2 pop ticks; only the last reports completion.
	var finished []bool
	for range 5 {
		finished = append(finished, a.Advance())
	}
	want := []bool{false, false, false, false, true}
	for i := range want {
		if finished[i] != want[i] {
			t.Errorf("tick %d finished = %v, want %v", i+1, finished[i], want[i])
		}
	}
	if a.Active() {
		t.Error("animator should be idle after both phases")
	}
}

func TestAnimatorSkipsZeroLengthPhases(t *testing.T) {
	tests := []struct {
		name       string
		slide, pop int
		active     bool
		phase      AnimationPhase
	}{
		{"no slide", 0, 2, true, PhasePop},
		{"no pop", 2, 0, true, PhaseSlide},
		{"nothing", 0, 0, false, PhaseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnimator(tt.slide, tt.pop)
			if got := a.Start(leftTurn(t)); got != tt.active {
				t.Errorf("Start() = %v, want %v", got, tt.active)
			}
			if a.Phase() != tt.phase {
				t.Errorf("phase = %v, want %v", a.Phase(), tt.phase)
			}
		})
	}
}

func TestAnimatorSlidingPositions(t *testing.T) {
	a := NewAnimator(2, 1)
	a.Start(leftTurn(t))

	static := a.Static()
	if len(static) != 1 || static[0].Value != 8 || static[0].Pos != (t2048.Position{Row: 1, Col: 0}) {
		t.Errorf("static tiles = %+v, want only the 8 at (1,0)", static)
	}

	start := a.Sliding()
	if len(start) != 3 {
		t.Fatalf("sliding tiles = %d, want 3", len(start))
	}
	if start[2].Col != 3 || start[2].Value != 4 {
		t.Errorf("4 should start at col 3, got %+v", start[2])
	}

	a.Advance()
	mid := a.Sliding()
	if mid[2].Col >= 3 || mid[2].Col <= 1 {
		t.Errorf("4 should be between cols 1 and 3 mid-slide, got %v", mid[2].Col)
	}

	a.Advance() // slide done, pop begins
	if a.Phase() != PhasePop {
		t.Fatalf("phase = %v, want pop", a.Phase())
	}
	if _, ok := a.Spawned(); !ok {
		t.Error("pop phase should expose the spawned tile")
	}
}

func TestEaseOutQuad(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.5, 0.75},
		{1, 1},
	}
	for _, tt := range tests {
		if got := easeOutQuad(tt.in); got != tt.want {
			t.Errorf("easeOutQuad(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
