package model

// Tag is an auxiliary per-cell marker carried alongside liveness
type Tag uint8

const (
	// TagNone is the default tag every cell starts with
	TagNone Tag = iota
	// TagMarked is set by the driver on cells it wants to follow
	TagMarked
	// TagSurvivor is assigned by Step to marked cells that survive a generation
	TagSurvivor
)

// String returns a readable name for the tag
func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagMarked:
		return "marked"
	case TagSurvivor:
		return "survivor-marked"
	default:
		return "unknown"
	}
}

// IsMarked reports whether the tag participates in the tag rule.
// Survivors stay marked so a lineage keeps its color across generations.
func (t Tag) IsMarked() bool {
	return t == TagMarked || t == TagSurvivor
}

// Cell holds the state of a single grid position
type Cell struct {
	Alive bool
	Tag   Tag
}

// CellView is a read-only snapshot of a cell together with its position
type CellView struct {
	Row int
	Col int
	Cell
}

// ChangeFunc is notified whenever a cell's liveness actually flips
type ChangeFunc func(row, col int, alive bool)
