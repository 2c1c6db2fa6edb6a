// Package registry provides a global registry of rule variants.
// Variants register themselves in init() functions, allowing the CLI and
// the terminal front end to discover them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/engine"
)

// Variant is a named set of movement and catalog rules.
type Variant struct {
	// ID is the unique identifier used on the command line (e.g. "classic").
	ID string

	// Title is a human-readable name for display.
	Title string

	// Description is a one-line summary shown by `burrow list`.
	Description string

	// BlockBothAxesOnSolid selects the solid-collision policy.
	BlockBothAxesOnSolid bool

	// Footprints selects what the trail records.
	Footprints engine.FootprintMode

	// Keep filters the tile catalog. Nil keeps every type.
	Keep func(*catalog.TileType) bool
}

// Catalog returns the subset of base this variant draws tiles from.
func (v Variant) Catalog(base *catalog.Catalog) (*catalog.Catalog, error) {
	if v.Keep == nil {
		return base, nil
	}
	cat, err := base.Filter(v.Keep)
	if err != nil {
		return nil, fmt.Errorf("registry: variant %q: %w", v.ID, err)
	}
	return cat, nil
}

// Apply copies the variant's rules onto opts.
func (v Variant) Apply(opts engine.Options) engine.Options {
	opts.BlockBothAxesOnSolid = v.BlockBothAxesOnSolid
	opts.Footprints = v.Footprints
	return opts
}

var (
	variants = make(map[string]Variant)
	mu       sync.RWMutex
)

// Register adds a variant to the registry.
// Typically called from an init() function.
// Panics if a variant with the same ID is already registered.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()

	if v.ID == "" {
		panic("registry: variant without id")
	}
	if _, exists := variants[v.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", v.ID))
	}

	variants[v.ID] = v
}

// List returns all registered variants, sorted by ID.
func List() []Variant {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Variant, 0, len(variants))
	for _, v := range variants {
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get looks up a variant by its ID.
// Returns an error if the ID is not registered.
func Get(id string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := variants[id]
	if !ok {
		return Variant{}, fmt.Errorf("registry: unknown variant %q", id)
	}

	return v, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := variants[id]
	return ok
}
