package engine

import (
	"fmt"

	"github.com/vovakirdan/burrow/internal/core"
)

// FootprintMode selects what the footprint trail records.
type FootprintMode string

const (
	// FootprintsConsumed records the cell of every eaten tile.
	FootprintsConsumed FootprintMode = "consumed"
	// FootprintsVisited records each newly entered cell.
	FootprintsVisited FootprintMode = "visited"
)

// ParseFootprintMode validates a mode name. Empty means FootprintsConsumed.
func ParseFootprintMode(s string) (FootprintMode, error) {
	switch FootprintMode(s) {
	case "", FootprintsConsumed:
		return FootprintsConsumed, nil
	case FootprintsVisited:
		return FootprintsVisited, nil
	default:
		return "", fmt.Errorf("engine: unknown footprint mode %q", s)
	}
}

// Footprints is a bounded trail of positions, oldest first.
type Footprints struct {
	limit int
	cells []core.Position
}

// NewFootprints creates a trail holding at most limit positions.
func NewFootprints(limit int) *Footprints {
	return &Footprints{
		limit: limit,
		cells: make([]core.Position, 0, limit),
	}
}

// Push appends p, evicting and returning the oldest entry once over the limit.
func (f *Footprints) Push(p core.Position) (evicted core.Position, ok bool) {
	f.cells = append(f.cells, p)
	if len(f.cells) <= f.limit {
		return core.Position{}, false
	}
	evicted = f.cells[0]
	f.cells = append(f.cells[:0], f.cells[1:]...)
	return evicted, true
}

// Contains reports whether p is on the trail.
func (f *Footprints) Contains(p core.Position) bool {
	for _, c := range f.cells {
		if c == p {
			return true
		}
	}
	return false
}

// All returns a copy of the trail, oldest first.
func (f *Footprints) All() []core.Position {
	out := make([]core.Position, len(f.cells))
	copy(out, f.cells)
	return out
}

// Len returns the number of positions on the trail.
func (f *Footprints) Len() int {
	return len(f.cells)
}

// Limit returns the capacity of the trail.
func (f *Footprints) Limit() int {
	return f.limit
}
