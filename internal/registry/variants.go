package registry

import (
	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/engine"
)

// DefaultVariant is played when none is given.
const DefaultVariant = "forage"

func init() {
	Register(Variant{
		ID:          "classic",
		Title:       "Classic",
		Description: "trees stop vertical moves only; plain food and scenery",
		Footprints:  engine.FootprintsConsumed,
		Keep:        plainTile,
	})
	Register(Variant{
		ID:                   "forage",
		Title:                "Forage",
		Description:          "solids block both axes; every tile, effects included",
		BlockBothAxesOnSolid: true,
		Footprints:           engine.FootprintsConsumed,
	})
	Register(Variant{
		ID:                   "trail",
		Title:                "Trail",
		Description:          "like forage, but footprints follow every new cell",
		BlockBothAxesOnSolid: true,
		Footprints:           engine.FootprintsVisited,
	})
}

// plainTile keeps food and obstacles, dropping equipables and hazards.
func plainTile(t *catalog.TileType) bool {
	if t.Is(catalog.Equipable) || t.Is(catalog.Dangerous) {
		return false
	}
	return t.Is(catalog.Edible) || t.Is(catalog.Solid)
}
