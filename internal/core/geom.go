// Package core provides fundamental types shared by the simulation and the
// terminal front end: grid geometry, directional intents and the screen buffer.
// It contains no Bubble Tea dependency to keep game logic pure and testable.
package core

import (
	"fmt"
	"math"
)

// Position is a cell on the unit grid.
// X increases to the right, Y increases downward (screen coordinates).
type Position struct {
	X, Y int
}

// P is a convenience constructor for Position.
func P(x, y int) Position {
	return Position{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Position offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Vec returns the position as the top-left corner of its cell.
func (p Position) Vec() Vec {
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Vec is an exact, possibly sub-cell position in grid units.
type Vec struct {
	X, Y float64
}

// V is a convenience constructor for Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale multiplies both components by k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of the vector.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Cell floors both components to the containing grid cell.
func (v Vec) Cell() Position {
	return Position{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// Rect represents an axis-aligned area of the grid.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the cell p is inside this rectangle.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Center returns the center cell of the rectangle.
func (r Rect) Center() Position {
	return Position{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ClampVec pulls v inside the rectangle, keeping it within the last cell.
func (r Rect) ClampVec(v Vec) Vec {
	if r.Empty() {
		return v
	}
	// Largest float strictly below the exclusive edge still floors into the last cell.
	maxX := math.Nextafter(float64(r.Right()), math.Inf(-1))
	maxY := math.Nextafter(float64(r.Bottom()), math.Inf(-1))
	return Vec{
		X: ClampF(v.X, float64(r.X), maxX),
		Y: ClampF(v.Y, float64(r.Y), maxY),
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
