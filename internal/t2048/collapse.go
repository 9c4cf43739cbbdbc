package t2048

// Line is one row or column read in the direction of travel:
// index 0 is the side tiles slide toward.
type Line [Size]Cell

// LineFromValues builds a line from raw values, 0 meaning empty.
// Tile positions are line-relative (Col holds the index).
func LineFromValues(values [Size]int) Line {
	var line Line
	for i, v := range values {
		if v != 0 {
			line[i] = Occupied(Tile{Value: v, Pos: Position{Col: i}})
		}
	}
	return line
}

// Values returns the line as raw values, 0 meaning empty.
func (l Line) Values() [Size]int {
	var out [Size]int
	for i, c := range l {
		out[i] = c.Value()
	}
	return out
}

// noSource marks an unused slot in a lineOrigin.
const noSource = -1

// lineOrigin records which input indices produced an output slot.
// second is noSource unless the slot is the result of a merge.
type lineOrigin struct {
	first, second int
}

func (o lineOrigin) merged() bool {
	return o.second != noSource
}

// CollapseLine slides every tile to the front of the line and merges equal
// neighbours. Merges resolve strictly front to back and a merged tile does
// not merge again in the same collapse, so [2,2,2,_] becomes [4,2,_,_].
// It returns the collapsed line and the value of every merged tile.
func CollapseLine(line Line) (Line, []int) {
	out, _, merged := collapse(line)
	return out, merged
}

// collapse is CollapseLine plus the origin of every output slot.
func collapse(line Line) (out Line, origins [Size]lineOrigin, merged []int) {
	type entry struct {
		value int
		src   int
	}

	// Dense list of occupied cells, order preserved.
	dense := make([]entry, 0, Size)
	for i, c := range line {
		if t, ok := c.Tile(); ok {
			dense = append(dense, entry{value: t.Value, src: i})
		}
	}

	for i := range origins {
		origins[i] = lineOrigin{first: noSource, second: noSource}
	}

	n := 0
	for i := 0; i < len(dense); i++ {
		value := dense[i].value
		origins[n].first = dense[i].src

		if i+1 < len(dense) && dense[i+1].value == value {
			value *= 2
			origins[n].second = dense[i+1].src
			merged = append(merged, value)
			i++ // the partner is consumed
		}

		out[n] = Occupied(Tile{Value: value, Pos: Position{Col: n}})
		n++
	}

	// Slots n..Size-1 keep their zero value, which is Empty.
	return out, origins, merged
}
