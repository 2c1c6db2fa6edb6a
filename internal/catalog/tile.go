// Package catalog defines tile types and the weighted catalog fields are drawn from.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/burrow/internal/core"
)

// Property is a set of rule flags carried by a tile type.
type Property uint8

const (
	Edible Property = 1 << iota
	Solid
	Dangerous
	Equipable
	Slow
	Fast
	Fly
)

var propertyNames = []struct {
	p    Property
	name string
}{
	{Edible, "edible"},
	{Solid, "solid"},
	{Dangerous, "dangerous"},
	{Equipable, "equipable"},
	{Slow, "slow"},
	{Fast, "fast"},
	{Fly, "fly"},
}

// Has reports whether every flag of q is set.
func (p Property) Has(q Property) bool {
	return p&q == q
}

// String lists the set flags, comma separated.
func (p Property) String() string {
	if p == 0 {
		return "-"
	}
	var names []string
	for _, pn := range propertyNames {
		if p.Has(pn.p) {
			names = append(names, pn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseProperty converts a flag name to a Property.
func ParseProperty(s string) (Property, error) {
	for _, pn := range propertyNames {
		if strings.EqualFold(s, pn.name) {
			return pn.p, nil
		}
	}
	return 0, fmt.Errorf("catalog: unknown property %q", s)
}

// EffectKind is a timed status granted by equipping a tile.
type EffectKind int

const (
	EffectSlow EffectKind = iota
	EffectFast
	EffectFly
)

// EffectKinds lists every effect kind.
var EffectKinds = [...]EffectKind{EffectSlow, EffectFast, EffectFly}

// String returns the name of the effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectSlow:
		return "slow"
	case EffectFast:
		return "fast"
	case EffectFly:
		return "fly"
	default:
		return "unknown"
	}
}

// ModifiesSpeed reports whether the effect's amplifier scales movement.
func (k EffectKind) ModifiesSpeed() bool {
	return k == EffectSlow || k == EffectFast
}

// ParseEffectKind converts a name to an EffectKind.
func ParseEffectKind(s string) (EffectKind, error) {
	for _, k := range EffectKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("catalog: unknown effect %q", s)
}

// TileType is an immutable catalog entry.
type TileType struct {
	ID         string
	Name       string
	Symbol     string // Emoji shown in listings
	Glyph      rune   // Single-width rune drawn on the grid
	Color      core.Color
	Properties Property
	Effects    []EffectKind
	Duration   time.Duration // How long granted effects last
	Amplifier  float64       // Speed multiplier applied while effects last
	Weight     int           // Relative draw weight
}

// Is reports whether the type carries every flag of p.
func (t *TileType) Is(p Property) bool {
	return t.Properties.Has(p)
}

// Consumable reports whether stepping on the tile removes it.
func (t *TileType) Consumable() bool {
	return t.Is(Edible) || t.Is(Equipable)
}
