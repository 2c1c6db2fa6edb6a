package catalog

import (
	_ "embed"
	"fmt"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/burrow/internal/core"
)

//go:embed tiles.yaml
var defaultTilesYAML []byte

// YAMLCatalog represents the YAML structure of a catalog file.
type YAMLCatalog struct {
	Tiles []YAMLTile `yaml:"tiles"`
}

// YAMLTile represents a single tile type in YAML format.
type YAMLTile struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Symbol     string   `yaml:"symbol"`
	Glyph      string   `yaml:"glyph"`
	Color      string   `yaml:"color,omitempty"`
	Properties []string `yaml:"properties,omitempty"`
	Effects    []string `yaml:"effects,omitempty"`
	Duration   string   `yaml:"duration,omitempty"` // Go duration, e.g. "4s"
	Amplifier  float64  `yaml:"amplifier,omitempty"`
	Weight     int      `yaml:"weight,omitempty"`
}

// Parse builds a catalog from YAML data.
func Parse(data []byte) (*Catalog, error) {
	var yc YAMLCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("catalog: yaml unmarshal: %w", err)
	}

	types := make([]TileType, 0, len(yc.Tiles))
	for _, yt := range yc.Tiles {
		t, err := yt.toTileType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	return New(types)
}

func (yt YAMLTile) toTileType() (TileType, error) {
	t := TileType{
		ID:        yt.ID,
		Name:      yt.Name,
		Symbol:    yt.Symbol,
		Amplifier: yt.Amplifier,
		Weight:    yt.Weight,
	}
	if t.Name == "" {
		t.Name = yt.ID
	}

	if utf8.RuneCountInString(yt.Glyph) != 1 {
		return t, fmt.Errorf("catalog: tile %q: glyph must be a single rune, got %q", yt.ID, yt.Glyph)
	}
	t.Glyph, _ = utf8.DecodeRuneInString(yt.Glyph)

	color, ok := core.ParseColor(yt.Color)
	if !ok {
		return t, fmt.Errorf("catalog: tile %q: unknown color %q", yt.ID, yt.Color)
	}
	t.Color = color

	for _, name := range yt.Properties {
		p, err := ParseProperty(name)
		if err != nil {
			return t, fmt.Errorf("catalog: tile %q: %w", yt.ID, err)
		}
		t.Properties |= p
	}

	for _, name := range yt.Effects {
		k, err := ParseEffectKind(name)
		if err != nil {
			return t, fmt.Errorf("catalog: tile %q: %w", yt.ID, err)
		}
		t.Effects = append(t.Effects, k)
	}

	if yt.Duration != "" {
		d, err := time.ParseDuration(yt.Duration)
		if err != nil {
			return t, fmt.Errorf("catalog: tile %q: duration: %w", yt.ID, err)
		}
		t.Duration = d
	}

	return t, nil
}

// Load parses the embedded default catalog.
func Load() (*Catalog, error) {
	return Parse(defaultTilesYAML)
}

// MustLoad parses the embedded default catalog, panicking on error.
// The embedded file is part of the binary, so failure is a build defect.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}
