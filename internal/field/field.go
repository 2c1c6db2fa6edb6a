// Package field generates and holds the obstacle tiles scattered over the grid.
package field

import (
	"sort"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/core"
)

// Tile is a typed object occupying one grid cell.
type Tile struct {
	ID   string // Unique per generation; not preserved across regeneration
	Pos  core.Position
	Type *catalog.TileType
}

// Field maps cells to the tile occupying them. At most one tile per cell.
type Field map[core.Position]Tile

// New creates an empty field.
func New() Field {
	return make(Field)
}

// Of builds a field from tiles; a later tile at the same cell wins.
func Of(tiles ...Tile) Field {
	f := make(Field, len(tiles))
	for _, t := range tiles {
		f.Put(t)
	}
	return f
}

// At returns the tile at p, if any.
func (f Field) At(p core.Position) (Tile, bool) {
	t, ok := f[p]
	return t, ok
}

// Put places t at its position, replacing any tile already there.
func (f Field) Put(t Tile) {
	f[t.Pos] = t
}

// Remove deletes and returns the tile at p.
func (f Field) Remove(p core.Position) (Tile, bool) {
	t, ok := f[p]
	if ok {
		delete(f, p)
	}
	return t, ok
}

// Len returns the number of tiles.
func (f Field) Len() int {
	return len(f)
}

// Clone returns an independent copy. Tile types are shared; they are immutable.
func (f Field) Clone() Field {
	out := make(Field, len(f))
	for p, t := range f {
		out[p] = t
	}
	return out
}

// Tiles returns the tiles sorted row by row, for stable iteration.
func (f Field) Tiles() []Tile {
	out := make([]Tile, 0, len(f))
	for _, t := range f {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

// Count returns how many tiles carry every flag of p.
func (f Field) Count(p catalog.Property) int {
	n := 0
	for _, t := range f {
		if t.Type.Is(p) {
			n++
		}
	}
	return n
}
