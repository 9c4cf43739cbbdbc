package t2048

import "testing"

func TestGameOver(t *testing.T) {
	tests := []struct {
		name  string
		board [Size][Size]int
		over  bool
	}{
		{
			name: "full board without merges",
			board: [Size][Size]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			over: true,
		},
		{
			name: "checkerboard",
			board: [Size][Size]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			over: true,
		},
		{
			name: "horizontal merge left",
			board: [Size][Size]int{
				{2, 2, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			over: false,
		},
		{
			name: "vertical merge left",
			board: [Size][Size]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 4096},
			},
			over: false,
		},
		{
			name: "one empty cell",
			board: [Size][Size]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 0, 4096},
				{8192, 16384, 32768, 65536},
			},
			over: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.board)
			if got := IsGameOver(g); got != tt.over {
				t.Errorf("IsGameOver = %v, want %v", got, tt.over)
			}

			// The adjacency scan must agree with actually trying every move.
			anyMoved := false
			for _, dir := range Directions {
				if ApplyMove(g, dir).Moved {
					anyMoved = true
				}
			}
			if anyMoved == tt.over {
				t.Errorf("IsGameOver = %v but some move changed the board = %v", tt.over, anyMoved)
			}
		})
	}
}

func TestEmptyGridIsNotOver(t *testing.T) {
	if IsGameOver(NewGrid()) {
		t.Error("an empty grid is not game over")
	}
	if HasPossibleMerge(NewGrid()) {
		t.Error("empty cells must not count as equal neighbours")
	}
}
