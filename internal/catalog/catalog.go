package catalog

import (
	"errors"
	"fmt"
	"math/rand"
)

// Catalog holds the loaded tile types and draws them by weight.
type Catalog struct {
	types       []TileType
	byID        map[string]*TileType
	totalWeight int
}

// New creates a catalog from tile definitions.
// A zero weight defaults to 1; IDs must be unique.
func New(types []TileType) (*Catalog, error) {
	if len(types) == 0 {
		return nil, errors.New("catalog: no tile types")
	}

	c := &Catalog{
		types: make([]TileType, len(types)),
		byID:  make(map[string]*TileType, len(types)),
	}
	copy(c.types, types)

	for i := range c.types {
		t := &c.types[i]
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: tile %d has no id", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate tile id %q", t.ID)
		}
		if t.Weight < 0 {
			return nil, fmt.Errorf("catalog: tile %q has negative weight", t.ID)
		}
		if t.Weight == 0 {
			t.Weight = 1
		}
		if t.Amplifier == 0 {
			t.Amplifier = 1
		}
		if t.Is(Equipable) && len(t.Effects) > 0 && t.Duration <= 0 {
			return nil, fmt.Errorf("catalog: equipable tile %q needs a positive duration", t.ID)
		}
		c.byID[t.ID] = t
		c.totalWeight += t.Weight
	}

	return c, nil
}

// Draw selects a tile type using weighted probability.
// With equal weights every type is equally likely.
func (c *Catalog) Draw(rng *rand.Rand) *TileType {
	roll := rng.Intn(c.totalWeight)

	cumulative := 0
	for i := range c.types {
		cumulative += c.types[i].Weight
		if roll < cumulative {
			return &c.types[i]
		}
	}

	// Unreachable while totalWeight matches the sum of weights
	return &c.types[len(c.types)-1]
}

// Get returns the tile type with the given ID, or nil if not found.
func (c *Catalog) Get(id string) *TileType {
	return c.byID[id]
}

// All returns all tile types in definition order.
func (c *Catalog) All() []TileType {
	out := make([]TileType, len(c.types))
	copy(out, c.types)
	return out
}

// Len returns the number of tile types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// TotalWeight returns the sum of all draw weights.
func (c *Catalog) TotalWeight() int {
	return c.totalWeight
}

// Filter returns a catalog with only the types keep accepts.
func (c *Catalog) Filter(keep func(*TileType) bool) (*Catalog, error) {
	var kept []TileType
	for i := range c.types {
		if keep(&c.types[i]) {
			kept = append(kept, c.types[i])
		}
	}
	if len(kept) == 0 {
		return nil, errors.New("catalog: filter removed every tile type")
	}
	return New(kept)
}
