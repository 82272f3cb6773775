package model

import "sync"

// GridToPool returns a grid to the pool for reuse
func GridToPool(grid *Grid, pool *GridPool) {
	if pool == nil || grid == nil {
		return
	}

	pool.Put(grid)
}

// GridPool recycles grids across restarts so their cell buffers are reused
type GridPool struct {
	pool sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Grid{}
			},
		},
	}
}

// Get retrieves a grid from the pool, resized to the requested dimensions with every cell reset
func (p *GridPool) Get(rows, columns int) (*Grid, error) {
	if !validDimensions(rows, columns) {
		return NewGrid(rows, columns)
	}
	g := p.pool.Get().(*Grid)
	g.reset(rows, columns)
	return g, nil
}

// Put returns a grid to the pool, dropping its observer and history
func (p *GridPool) Put(g *Grid) {
	g.onChange = nil
	g.history = nil
	p.pool.Put(g)
}

// reset resizes the grid, reusing the existing buffers when they are large enough
func (g *Grid) reset(rows, columns int) {
	n := rows * columns
	if cap(g.cells) < n {
		g.cells = make([]Cell, n)
		g.next = make([]Cell, n)
	} else {
		g.cells = g.cells[:n]
		g.next = g.next[:n]
		clear(g.cells)
	}
	g.rows = rows
	g.columns = columns
	g.history = nil
	g.onChange = nil
	g.activeBounds.valid = false
}
