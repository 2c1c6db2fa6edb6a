package core

import (
	"fmt"
	"strings"
	"time"
)

// Direction is a movement intent on the grid.
type Direction uint8

const (
	DirUp Direction = 1 << iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in a stable order.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return 0
	}
}

// Delta returns the unit vector components for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection converts a name such as "left" to a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("core: unknown direction %q", s)
}

// IntentSet is the set of directions held during one tick.
// The zero value is the empty set.
type IntentSet uint8

// Intents builds a set from the given directions.
func Intents(dirs ...Direction) IntentSet {
	var s IntentSet
	for _, d := range dirs {
		s = s.With(d)
	}
	return s
}

// Has reports whether d is held.
func (s IntentSet) Has(d Direction) bool {
	return s&IntentSet(d) != 0
}

// With returns the set with d added.
func (s IntentSet) With(d Direction) IntentSet {
	return s | IntentSet(d)
}

// Without returns the set with d removed.
func (s IntentSet) Without(d Direction) IntentSet {
	return s &^ IntentSet(d)
}

// Empty reports whether no direction is held.
func (s IntentSet) Empty() bool {
	return s == 0
}

// Axis sums the held unit vectors. Opposing directions cancel to zero.
func (s IntentSet) Axis() (dx, dy int) {
	for _, d := range Directions {
		if s.Has(d) {
			ddx, ddy := d.Delta()
			dx += ddx
			dy += ddy
		}
	}
	return dx, dy
}

// List returns the held directions in stable order.
func (s IntentSet) List() []Direction {
	var out []Direction
	for _, d := range Directions {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String returns the held directions joined with '+'.
func (s IntentSet) String() string {
	if s.Empty() {
		return "none"
	}
	names := make([]string, 0, 4)
	for _, d := range s.List() {
		names = append(names, d.String())
	}
	return strings.Join(names, "+")
}

// DefaultHoldTimeout covers the initial key auto-repeat delay of most terminals.
const DefaultHoldTimeout = 600 * time.Millisecond

// IntentCapture turns raw key presses into the set of held directions.
// A press removes the opposite direction before inserting, so the held set
// never contains both directions of an axis.
//
// Terminals report presses but not releases, so a direction is treated as
// held until it is released explicitly or not refreshed within HoldTimeout.
// Key auto-repeat keeps refreshing a key that is physically held down.
type IntentCapture struct {
	HoldTimeout time.Duration

	held     IntentSet
	lastSeen map[Direction]time.Time
}

// NewIntentCapture creates a capture with the given hold timeout.
// A non-positive timeout disables expiry.
func NewIntentCapture(holdTimeout time.Duration) *IntentCapture {
	return &IntentCapture{
		HoldTimeout: holdTimeout,
		lastSeen:    make(map[Direction]time.Time),
	}
}

// Press marks d as held at time now, dropping its opposite.
func (c *IntentCapture) Press(d Direction, now time.Time) {
	if c.lastSeen == nil {
		c.lastSeen = make(map[Direction]time.Time)
	}
	opp := d.Opposite()
	c.held = c.held.Without(opp).With(d)
	delete(c.lastSeen, opp)
	c.lastSeen[d] = now
}

// Release stops holding d.
func (c *IntentCapture) Release(d Direction) {
	c.held = c.held.Without(d)
	delete(c.lastSeen, d)
}

// Expire releases directions not refreshed within HoldTimeout of now.
func (c *IntentCapture) Expire(now time.Time) {
	if c.HoldTimeout <= 0 {
		return
	}
	for d, seen := range c.lastSeen {
		if now.Sub(seen) >= c.HoldTimeout {
			c.Release(d)
		}
	}
}

// Reset releases every direction.
func (c *IntentCapture) Reset() {
	c.held = 0
	for d := range c.lastSeen {
		delete(c.lastSeen, d)
	}
}

// Held returns a snapshot of the currently held directions.
func (c *IntentCapture) Held() IntentSet {
	return c.held
}
