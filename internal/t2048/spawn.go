package t2048

import "errors"

// Spawn4Probability is the chance a spawned tile is a 4 instead of a 2.
const Spawn4Probability = 0.2

// ErrGridFull is returned by Spawn when no empty cell is available.
var ErrGridFull = errors.New("t2048: no empty cell available")

// RandSource is the randomness Spawn draws from. *math/rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
	Float64() float64
}

// Spawn places a 2 (80%) or 4 (20%) in a uniformly chosen empty cell.
// On a full grid it returns g unchanged together with ErrGridFull.
func Spawn(g Grid, rng RandSource) (Grid, Tile, error) {
	empty := EmptyCells(g)
	if len(empty) == 0 {
		return g, Tile{}, ErrGridFull
	}

	pos := empty[rng.Intn(len(empty))]

	value := 2
	if rng.Float64() < Spawn4Probability {
		value = 4
	}

	g.put(pos, value)
	t, _ := g.At(pos).Tile()
	return g, t, nil
}

// InitGame returns an empty grid seeded with two random tiles.
func InitGame(rng RandSource) Grid {
	g := NewGrid()
	for range 2 {
		// An empty board always has room.
		g, _, _ = Spawn(g, rng)
	}
	return g
}

// Step applies dir and, only if the board changed, spawns one tile.
// The returned tile is nil when nothing spawned.
func Step(g Grid, dir Direction, rng RandSource) (MoveResult, *Tile, error) {
	result := ApplyMove(g, dir)
	if !result.Moved {
		return result, nil, nil
	}

	next, tile, err := Spawn(result.Grid, rng)
	if err != nil {
		return result, nil, err
	}
	result.Grid = next
	return result, &tile, nil
}
