package t2048

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(g Grid) bool {
	for row := range Size {
		for col := range Size {
			if g.cells[row][col].IsEmpty() {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any two orthogonally adjacent tiles
// share a value.
func HasPossibleMerge(g Grid) bool {
	for row := range Size {
		for col := range Size {
			val := g.cells[row][col].Value()
			if val == 0 {
				continue
			}
			if col < Size-1 && g.cells[row][col+1].Value() == val {
				return true
			}
			if row < Size-1 && g.cells[row+1][col].Value() == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if some direction would change the board.
func CanMove(g Grid) bool {
	return HasEmptyCell(g) || HasPossibleMerge(g)
}

// IsGameOver returns true if the board is full and no neighbours can merge.
// A full board without equal neighbours is unchanged by every direction,
// so the adjacency scan is sufficient.
func IsGameOver(g Grid) bool {
	return !CanMove(g)
}
