package model

import (
	"crypto/md5"
	"fmt"
	"iter"
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDimensions is returned when a grid is built with non-positive rows or columns,
	// or with more cells than fit in an int
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrOutOfBounds is returned when a coordinate lies outside the grid
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// historySize is how many recent grid hashes are kept for cycle detection
const historySize = 5

// Grid is a fixed-size, non-toroidal board of cells stored in row-major order
type Grid struct {
	rows     int
	columns  int
	cells    []Cell
	next     []Cell   // scratch generation, swapped with cells on commit
	history  []string // Store recent grid states for cycle detection
	onChange ChangeFunc
	flipped  []int // indices changed by the last Step, reused across steps

	// Bounding box of living cells, used to limit the work done by Step
	activeBounds struct {
		minRow, maxRow, minCol, maxCol int
		valid                          bool
	}
}

// validDimensions reports whether a rows x columns grid can be allocated.
// The cell count must fit in an int.
func validDimensions(rows, columns int) bool {
	return rows > 0 && columns > 0 && rows <= math.MaxInt/columns
}

// NewGrid creates a grid with every cell dead and untagged
func NewGrid(rows, columns int) (*Grid, error) {
	if !validDimensions(rows, columns) {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewGrid] rows: %d, columns: %d", rows, columns)
	}
	return &Grid{
		rows:    rows,
		columns: columns,
		cells:   make([]Cell, rows*columns),
		next:    make([]Cell, rows*columns),
	}, nil
}

// Rows returns the number of rows in the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Columns returns the number of columns in the grid
func (g *Grid) Columns() int {
	return g.columns
}

// Index returns the linear index of (row, col)
func (g *Grid) Index(row, col int) int {
	return row*g.columns + col
}

// InBounds reports whether (row, col) addresses a cell of the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.columns
}

func (g *Grid) checkBounds(op string, row, col int) error {
	if g.InBounds(row, col) {
		return nil
	}
	return errors.Wrapf(ErrOutOfBounds, "[%s] row: %d, col: %d, grid: %dx%d", op, row, col, g.rows, g.columns)
}

// OnChange registers fn to be called whenever a cell's liveness flips.
// Passing nil removes the hook. During Step the hook runs after the new
// generation is committed and may mutate cells, but must not call Step.
func (g *Grid) OnChange(fn ChangeFunc) {
	g.onChange = fn
}

func (g *Grid) notify(row, col int, alive bool) {
	if g.onChange != nil {
		g.onChange(row, col, alive)
	}
}

// Get returns the cell at (row, col)
func (g *Grid) Get(row, col int) (Cell, error) {
	if err := g.checkBounds("Get", row, col); err != nil {
		return Cell{}, err
	}
	return g.cells[g.Index(row, col)], nil
}

// IsAlive returns the liveness of (row, col), treating out-of-range coordinates as dead
func (g *Grid) IsAlive(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.cells[g.Index(row, col)].Alive
}

// SetAlive sets the liveness of a cell. Setting the current value is a no-op.
func (g *Grid) SetAlive(row, col int, alive bool) error {
	if err := g.checkBounds("SetAlive", row, col); err != nil {
		return err
	}
	g.setAlive(g.Index(row, col), alive)
	return nil
}

// Toggle flips the liveness of a cell and returns the new value
func (g *Grid) Toggle(row, col int) (bool, error) {
	if err := g.checkBounds("Toggle", row, col); err != nil {
		return false, err
	}
	idx := g.Index(row, col)
	alive := !g.cells[idx].Alive
	g.setAlive(idx, alive)
	return alive, nil
}

func (g *Grid) setAlive(idx int, alive bool) {
	if g.cells[idx].Alive == alive {
		return
	}
	g.cells[idx].Alive = alive
	g.activeBounds.valid = false
	g.notify(idx/g.columns, idx%g.columns, alive)
}

// SetTag overwrites the tag of a cell
func (g *Grid) SetTag(row, col int, tag Tag) error {
	if err := g.checkBounds("SetTag", row, col); err != nil {
		return err
	}
	g.cells[g.Index(row, col)].Tag = tag
	return nil
}

// Clear kills every cell. Tags are left as they are.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.setAlive(i, false)
	}
	g.history = nil
	g.activeBounds.valid = false
}

// All returns the cells in row-major order
func (g *Grid) All() iter.Seq[CellView] {
	return func(yield func(CellView) bool) {
		for i, c := range g.cells {
			if !yield(CellView{Row: i / g.columns, Col: i % g.columns, Cell: c}) {
				return
			}
		}
	}
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, c := range g.cells {
		if c.Alive {
			count++
		}
	}
	return
}

// CountTagged returns the number of living cells carrying tag
func (g *Grid) CountTagged(tag Tag) (count int) {
	for _, c := range g.cells {
		if c.Alive && c.Tag == tag {
			count++
		}
	}
	return
}

// calculateActiveBounds calculates the bounding box of living cells
func (g *Grid) calculateActiveBounds() {
	g.activeBounds.valid = false

	for i, c := range g.cells {
		if c.Alive {
			g.extendActiveBounds(i/g.columns, i%g.columns)
		}
	}
}

func (g *Grid) extendActiveBounds(row, col int) {
	if !g.activeBounds.valid {
		g.activeBounds.minRow, g.activeBounds.maxRow = row, row
		g.activeBounds.minCol, g.activeBounds.maxCol = col, col
		g.activeBounds.valid = true
		return
	}
	g.activeBounds.minRow = min(g.activeBounds.minRow, row)
	g.activeBounds.maxRow = max(g.activeBounds.maxRow, row)
	g.activeBounds.minCol = min(g.activeBounds.minCol, col)
	g.activeBounds.maxCol = max(g.activeBounds.maxCol, col)
}

// GetBoundingBoxSize returns the size of the active region
func (g *Grid) GetBoundingBoxSize() int {
	if !g.activeBounds.valid {
		g.calculateActiveBounds()
	}
	if !g.activeBounds.valid {
		return 0
	}
	return (g.activeBounds.maxRow - g.activeBounds.minRow + 1) *
		(g.activeBounds.maxCol - g.activeBounds.minCol + 1)
}

// GetGridHash returns an MD5 hash of liveness and tags
func (g *Grid) GetGridHash() string {
	h := md5.New()
	buf := make([]byte, 0, 2*len(g.cells))
	for _, c := range g.cells {
		if c.Alive {
			buf = append(buf, 1, byte(c.Tag))
		} else {
			buf = append(buf, 0, 0)
		}
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// UpdateHistory adds current state to history and maintains size
func (g *Grid) UpdateHistory() {
	g.history = append(g.history, g.GetGridHash())

	if len(g.history) > historySize {
		g.history = g.history[1:]
	}
}

// IsStagnant checks if the grid is stuck in a static state or a cycle of period 1 to 3.
// UpdateHistory must have been called at least three times.
func (g *Grid) IsStagnant() bool {
	if len(g.history) < 3 {
		return false
	}

	currentHash := g.GetGridHash()
	for back := 1; back <= 3; back++ {
		if g.history[len(g.history)-back] == currentHash {
			return true
		}
	}
	return false
}

// InjectRandomLife adds some random cells to break stagnation
func (g *Grid) InjectRandomLife(count int, rng *rand.Rand) {
	for range count {
		g.setAlive(rng.Intn(len(g.cells)), true)
	}
}

// Randomize brings cells to life with the given probability
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	for i := range g.cells {
		if rng.Float64() < density {
			g.setAlive(i, true)
		}
	}
}

// MarkRandom tags a fraction of the living cells as marked
func (g *Grid) MarkRandom(fraction float64, rng *rand.Rand) {
	for i := range g.cells {
		if g.cells[i].Alive && rng.Float64() < fraction {
			g.cells[i].Tag = TagMarked
		}
	}
}

// setPattern brings the true cells of pattern to life with the top-left corner at (row, col).
// Cells that fall outside the grid are dropped.
func (g *Grid) setPattern(row, col int, pattern [][]bool) {
	for dr, line := range pattern {
		for dc, alive := range line {
			if alive && g.InBounds(row+dr, col+dc) {
				g.setAlive(g.Index(row+dr, col+dc), true)
			}
		}
	}
}

// AddGlider adds a glider pattern at the specified position
func (g *Grid) AddGlider(row, col int) {
	g.setPattern(row, col, [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	})
}

// AddBlinker adds a horizontal blinker oscillator
func (g *Grid) AddBlinker(row, col int) {
	g.setPattern(row, col, [][]bool{{true, true, true}})
}

// AddBlock adds a 2x2 still life
func (g *Grid) AddBlock(row, col int) {
	g.setPattern(row, col, [][]bool{
		{true, true},
		{true, true},
	})
}

// ResetWithInterestingPatterns clears the grid and tags and adds a mix of patterns and random life
func (g *Grid) ResetWithInterestingPatterns(density, markedFraction float64, rng *rand.Rand) {
	g.Clear()
	for i := range g.cells {
		g.cells[i].Tag = TagNone
	}

	if g.rows >= 10 && g.columns >= 10 {
		g.AddGlider(5, 5)
		if g.columns >= 20 && g.rows >= 15 {
			g.AddGlider(5, g.columns-8)
		}

		g.AddBlinker(g.rows/4, g.columns/4)
		if g.columns >= 30 {
			g.AddBlinker(3*g.rows/4, 3*g.columns/4)
		}
		g.AddBlock(g.rows/2, g.columns/2)
	}

	g.Randomize(density, rng)
	g.MarkRandom(markedFraction, rng)
}
