package field

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/burrow/internal/catalog"
	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/telemetry"
)

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrInvalidDensity    = errors.New("invalid density")
	ErrInvalidAmount     = errors.New("invalid tile amount")
)

// Mode selects how tiles are placed.
type Mode string

const (
	// ModeDensity rolls each cell independently against the density.
	ModeDensity Mode = "density"
	// ModeScatter drops floor(area*density) tiles on random cells; collisions overwrite.
	ModeScatter Mode = "scatter"
)

// ParseMode validates a mode name. Empty means ModeDensity.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeDensity:
		return ModeDensity, nil
	case ModeScatter:
		return ModeScatter, nil
	default:
		return "", fmt.Errorf("field: unknown mode %q", s)
	}
}

// Generator produces fresh fields from a catalog and an injected random source.
// It is not safe for concurrent use; the random source is shared state.
type Generator struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	tracer  trace.Tracer
}

// Option configures a Generator.
type Option func(*Generator)

// WithTracer overrides the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) {
		g.tracer = t
	}
}

// NewGenerator creates a generator drawing tile types from cat.
func NewGenerator(cat *catalog.Catalog, rng *rand.Rand, opts ...Option) (*Generator, error) {
	if cat == nil {
		return nil, errors.New("field: nil catalog")
	}
	if rng == nil {
		return nil, errors.New("field: nil random source")
	}
	g := &Generator{
		catalog: cat,
		rng:     rng,
		tracer:  telemetry.Tracer("field"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewSeededGenerator is a convenience for NewGenerator with rand.NewSource(seed).
func NewSeededGenerator(cat *catalog.Catalog, seed int64, opts ...Option) (*Generator, error) {
	return NewGenerator(cat, rand.New(rand.NewSource(seed)), opts...)
}

// Catalog returns the catalog tiles are drawn from.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// Generate places a tile on each cell of [0,width)×[0,height) with probability
// density. Zero-area grids and density 0 yield an empty field.
// Tile types are drawn by catalog weight; a weight of n counts as n identical entries.
func (g *Generator) Generate(ctx context.Context, width, height int, density float64) (Field, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("field: %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("field: density %v outside [0,1]: %w", density, ErrInvalidDensity)
	}

	_, span := g.tracer.Start(ctx, "field.generate")
	defer span.End()

	f := New()
	if density > 0 {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if g.rng.Float64() >= density {
					continue
				}
				t, err := g.newTile(core.P(x, y))
				if err != nil {
					span.RecordError(err)
					return nil, err
				}
				f.Put(t)
			}
		}
	}

	span.SetAttributes(
		attribute.String("field.mode", string(ModeDensity)),
		attribute.Int("field.width", width),
		attribute.Int("field.height", height),
		attribute.Float64("field.density", density),
		attribute.Int("field.tiles", f.Len()),
	)
	return f, nil
}

// Scatter drops amount tiles on uniformly random cells of the grid.
// Tiles landing on an occupied cell replace it, so the result may hold fewer.
func (g *Generator) Scatter(ctx context.Context, width, height, amount int) (Field, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("field: %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	if amount < 0 {
		return nil, fmt.Errorf("field: amount %d: %w", amount, ErrInvalidAmount)
	}

	_, span := g.tracer.Start(ctx, "field.generate")
	defer span.End()

	f := New()
	if width > 0 && height > 0 {
		for i := 0; i < amount; i++ {
			p := core.P(g.rng.Intn(width), g.rng.Intn(height))
			t, err := g.newTile(p)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			f.Put(t)
		}
	}

	span.SetAttributes(
		attribute.String("field.mode", string(ModeScatter)),
		attribute.Int("field.width", width),
		attribute.Int("field.height", height),
		attribute.Int("field.amount", amount),
		attribute.Int("field.tiles", f.Len()),
	)
	return f, nil
}

// Build dispatches to Generate or Scatter. Scatter places floor(area*density) tiles.
func (g *Generator) Build(ctx context.Context, mode Mode, width, height int, density float64) (Field, error) {
	switch mode {
	case ModeScatter:
		if density < 0 || density > 1 {
			return nil, fmt.Errorf("field: density %v outside [0,1]: %w", density, ErrInvalidDensity)
		}
		amount := 0
		if width > 0 && height > 0 {
			amount = int(float64(width*height) * density)
		}
		return g.Scatter(ctx, width, height, amount)
	default:
		return g.Generate(ctx, width, height, density)
	}
}

func (g *Generator) newTile(p core.Position) (Tile, error) {
	tt := g.catalog.Draw(g.rng)
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return Tile{}, fmt.Errorf("field: tile id: %w", err)
	}
	return Tile{ID: id.String(), Pos: p, Type: tt}, nil
}
