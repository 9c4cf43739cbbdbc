package t2048

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// scriptedRand replays fixed answers.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func TestSpawnPicksEmptyCellAndValue(t *testing.T) {
	g := mustGrid(t, [Size][Size]int{
		{2, 2, 2, 2},
		{2, 0, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 0, 2},
	})

	rng := &scriptedRand{ints: []int{1}, floats: []float64{0.1}}
	next, tile, err := Spawn(g, rng)
	if err != nil {
		t.Fatalf("Spawn() failed: %v", err)
	}

	want := Tile{Value: 4, Pos: Position{Row: 3, Col: 2}}
	if tile != want {
		t.Errorf("spawned %+v, want %+v", tile, want)
	}
	if next.At(want.Pos).Value() != 4 {
		t.Error("spawned tile not placed on the grid")
	}
	if !g.At(want.Pos).IsEmpty() {
		t.Error("Spawn modified its input grid")
	}

	rng = &scriptedRand{ints: []int{0}, floats: []float64{0.2}}
	_, tile, _ = Spawn(g, rng)
	if tile.Value != 2 {
		t.Errorf("Float64 = 0.2 should spawn a 2, got %d", tile.Value)
	}
}

func TestSpawnFullGrid(t *testing.T) {
	g := mustGrid(t, [Size][Size]int{
		{2, 4, 8, 16},
		{4, 8, 16, 32},
		{8, 16, 32, 64},
		{16, 32, 64, 128},
	})

	next, _, err := Spawn(g, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrGridFull) {
		t.Errorf("Spawn on full grid err = %v, want ErrGridFull", err)
	}
	if !next.Equal(g) {
		t.Error("Spawn on full grid must not change the grid")
	}
}

func TestSpawnDistribution(t *testing.T) {
	const n = 100_000
	rng := rand.New(rand.NewSource(42))

	fours := 0
	cells := make(map[Position]int)
	for range n {
		_, tile, err := Spawn(NewGrid(), rng)
		if err != nil {
			t.Fatalf("Spawn() failed: %v", err)
		}
		if tile.Value == 4 {
			fours++
		}
		cells[tile.Pos]++
	}

	ratio := float64(fours) / n
	if math.Abs(ratio-Spawn4Probability) > 0.01 {
		t.Errorf("spawn-4 ratio = %.4f, want %.2f ± 0.01", ratio, Spawn4Probability)
	}

	if len(cells) != Size*Size {
		t.Errorf("spawned into %d distinct cells, want %d", len(cells), Size*Size)
	}
	expected := float64(n) / (Size * Size)
	for pos, count := range cells {
		if math.Abs(float64(count)-expected)/expected > 0.08 {
			t.Errorf("cell %v got %d spawns, expected about %.0f", pos, count, expected)
		}
	}
}

func TestInitGame(t *testing.T) {
	g := InitGame(rand.New(rand.NewSource(12345)))

	if got := TileCount(g); got != 2 {
		t.Errorf("InitGame placed %d tiles, want 2", got)
	}
	for _, tile := range g.Tiles() {
		if tile.Value != 2 && tile.Value != 4 {
			t.Errorf("initial tile value %d, want 2 or 4", tile.Value)
		}
	}
}

func TestDeterministicSpawn(t *testing.T) {
	g1 := InitGame(rand.New(rand.NewSource(12345)))
	g2 := InitGame(rand.New(rand.NewSource(12345)))

	if !g1.Equal(g2) {
		t.Errorf("Same seed should produce same initial board:\n%v\nvs\n%v", g1, g2)
	}
}

func TestStepSpawnsOnlyWhenMoved(t *testing.T) {
	g := mustGrid(t, [Size][Size]int{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	rng := rand.New(rand.NewSource(3))

	result, tile, err := Step(g, DirLeft, rng)
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if result.Moved || tile != nil {
		t.Error("Step should not spawn after a move that changed nothing")
	}
	if TileCount(result.Grid) != 2 {
		t.Errorf("tile count = %d, want 2", TileCount(result.Grid))
	}

	result, tile, err = Step(g, DirRight, rng)
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if !result.Moved || tile == nil {
		t.Fatal("Step should spawn exactly one tile after a changing move")
	}
	if TileCount(result.Grid) != 3 {
		t.Errorf("tile count = %d, want 3", TileCount(result.Grid))
	}
	if result.Grid.At(tile.Pos).Value() != tile.Value {
		t.Errorf("spawned tile %+v missing from grid", *tile)
	}
}
