// Package config provides YAML-based configuration loading, difficulty
// presets and validation for burrow.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/burrow/internal/engine"
	"github.com/vovakirdan/burrow/internal/field"
	"github.com/vovakirdan/burrow/internal/registry"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains all configuration for a play session.
type Config struct {
	Variant  string       `yaml:"variant"`
	TickRate int          `yaml:"tick_rate"` // Ticks per second
	Field    FieldConfig  `yaml:"field"`
	Player   PlayerConfig `yaml:"player"`
}

// FieldConfig defines how obstacle fields are generated.
type FieldConfig struct {
	Mode    string  `yaml:"mode"`    // "density" or "scatter"
	Density float64 `yaml:"density"` // Tiles per cell, in (0,1]
}

// PlayerConfig defines movement parameters.
type PlayerConfig struct {
	Speed        float64       `yaml:"speed"`         // Cells per second
	HistoryLimit int           `yaml:"history_limit"` // Footprints kept
	HoldTimeout  time.Duration `yaml:"hold_timeout"`  // Release keys not repeated within this window
	Footprints   string        `yaml:"footprints"`    // Overrides the variant's mode when set
}

// Validate checks the config, returning an error wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate %d must be positive", c.TickRate))
	}
	if !(c.Field.Density > 0 && c.Field.Density <= 1) {
		errs = append(errs, fmt.Errorf("field.density %v outside (0,1]", c.Field.Density))
	}
	if _, err := field.ParseMode(c.Field.Mode); err != nil {
		errs = append(errs, err)
	}
	if !(c.Player.Speed > 0) {
		errs = append(errs, fmt.Errorf("player.speed %v must be positive", c.Player.Speed))
	}
	if c.Player.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("player.history_limit %d must be at least 1", c.Player.HistoryLimit))
	}
	if c.Player.HoldTimeout <= 0 {
		errs = append(errs, fmt.Errorf("player.hold_timeout %v must be positive", c.Player.HoldTimeout))
	}
	if _, err := engine.ParseFootprintMode(c.Player.Footprints); err != nil {
		errs = append(errs, err)
	}
	if !registry.Exists(c.Variant) {
		errs = append(errs, fmt.Errorf("unknown variant %q", c.Variant))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// BaseSpeed converts the configured speed to cells per tick.
func (c Config) BaseSpeed() float64 {
	if c.TickRate <= 0 {
		return c.Player.Speed
	}
	return c.Player.Speed / float64(c.TickRate)
}

// EngineOptions returns machine options for this config under variant v.
// An explicit footprint mode wins over the variant's.
func (c Config) EngineOptions(v registry.Variant) engine.Options {
	opts := v.Apply(engine.DefaultOptions())
	opts.BaseSpeed = c.BaseSpeed()
	opts.HistoryLimit = c.Player.HistoryLimit
	if c.Player.Footprints != "" {
		opts.Footprints = engine.FootprintMode(c.Player.Footprints)
	}
	return opts
}
