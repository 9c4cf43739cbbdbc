package t2048

// TileMove describes one tile travelling during a move.
// Both tiles of a merge are reported with Merged set; Value is the
// value before the merge.
type TileMove struct {
	From   Position `json:"from"`
	To     Position `json:"to"`
	Value  int      `json:"value"`
	Merged bool     `json:"merged"`
}

// MoveResult is the outcome of applying a direction to a grid.
type MoveResult struct {
	Grid   Grid       `json:"grid"`
	Moved  bool       `json:"moved"`
	Merged []int      `json:"merged"`
	Moves  []TileMove `json:"moves"`
}

// lineCoords maps index i of line k, read in the direction of travel,
// to a board position.
func lineCoords(dir Direction, k int) [Size]Position {
	var coords [Size]Position
	for i := range Size {
		switch dir {
		case DirLeft:
			coords[i] = Position{Row: k, Col: i}
		case DirRight:
			coords[i] = Position{Row: k, Col: Size - 1 - i}
		case DirUp:
			coords[i] = Position{Row: i, Col: k}
		case DirDown:
			coords[i] = Position{Row: Size - 1 - i, Col: k}
		}
	}
	return coords
}

// ApplyMove slides all tiles of g in dir and merges equal neighbours.
// The input grid is not modified. Moved is true when the resulting grid
// differs from g in at least one cell, which includes slides with no merge.
func ApplyMove(g Grid, dir Direction) MoveResult {
	if !dir.Valid() {
		return MoveResult{Grid: g}
	}

	var next Grid
	var result MoveResult

	for k := range Size {
		coords := lineCoords(dir, k)

		var line Line
		for i, p := range coords {
			line[i] = g.At(p)
		}

		collapsed, origins, merged := collapse(line)
		result.Merged = append(result.Merged, merged...)

		for i, p := range coords {
			if v := collapsed[i].Value(); v != 0 {
				next.put(p, v)
			}

			origin := origins[i]
			for _, src := range [2]int{origin.first, origin.second} {
				if src == noSource {
					continue
				}
				from := coords[src]
				if from == p && !origin.merged() {
					continue
				}
				result.Moves = append(result.Moves, TileMove{
					From:   from,
					To:     p,
					Value:  line[src].Value(),
					Merged: origin.merged(),
				})
			}
		}
	}

	result.Grid = next
	result.Moved = !next.Equal(g)
	return result
}
