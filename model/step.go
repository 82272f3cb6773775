package model

import "github.com/sheikhrachel/conway-evolved/rules"

// CountAliveNeighbors counts living cells in the Moore neighborhood of (row, col).
// Neighbors outside the grid do not exist; there is no wraparound.
func (g *Grid) CountAliveNeighbors(row, col int) int {
	count := 0

	minRow := max(0, row-1)
	maxRow := min(g.rows-1, row+1)
	minCol := max(0, col-1)
	maxCol := min(g.columns-1, col+1)

	for nr := minRow; nr <= maxRow; nr++ {
		base := nr * g.columns
		for nc := minCol; nc <= maxCol; nc++ {
			if nr == row && nc == col {
				continue
			}
			if g.cells[base+nc].Alive {
				count++
			}
		}
	}

	return count
}

// Step advances the grid by one generation.
//
// Every next state is computed from the current cells into a scratch buffer,
// which then replaces the current one. Change notifications fire after the
// swap, so observers always see a complete generation.
func (g *Grid) Step() {
	if !g.activeBounds.valid {
		g.calculateActiveBounds()
	}
	// No living cells: nothing can be born and tags are left to the driver
	if !g.activeBounds.valid {
		return
	}

	// Only the active region + 1 margin can change
	minRow := max(0, g.activeBounds.minRow-1)
	maxRow := min(g.rows-1, g.activeBounds.maxRow+1)
	minCol := max(0, g.activeBounds.minCol-1)
	maxCol := min(g.columns-1, g.activeBounds.maxCol+1)

	copy(g.next, g.cells)
	g.activeBounds.valid = false

	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			idx := r*g.columns + c
			cur := g.cells[idx]
			neighbors := g.CountAliveNeighbors(r, c)
			alive := rules.ApplyConwayRules(neighbors, cur.Alive)

			next := &g.next[idx]
			next.Alive = alive
			if cur.Alive && alive {
				if rules.ApplyTagRule(neighbors, cur.Tag.IsMarked()) {
					next.Tag = TagSurvivor
				} else {
					next.Tag = TagNone
				}
			}
			if alive {
				g.extendActiveBounds(r, c)
			}
		}
	}

	g.cells, g.next = g.next, g.cells

	if g.onChange == nil {
		return
	}

	// Record every flip before notifying, so hooks that mutate the grid
	// cannot disturb the comparison with the previous generation
	g.flipped = g.flipped[:0]
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			idx := r*g.columns + c
			if g.cells[idx].Alive != g.next[idx].Alive {
				g.flipped = append(g.flipped, idx)
			}
		}
	}
	for _, idx := range g.flipped {
		g.notify(idx/g.columns, idx%g.columns, !g.next[idx].Alive)
	}
}
