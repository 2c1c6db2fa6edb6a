package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/burrow/internal/core"
	"github.com/vovakirdan/burrow/internal/registry"
)

//go:embed defaults/burrow.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hard-coded configuration used when no file parses.
func Default() Config {
	return Config{
		Variant:  registry.DefaultVariant,
		TickRate: 60,
		Field: FieldConfig{
			Mode:    "density",
			Density: 0.1,
		},
		Player: PlayerConfig{
			Speed:        8,
			HistoryLimit: 10,
			HoldTimeout:  core.DefaultHoldTimeout,
		},
	}
}

// Load loads the configuration.
// Search order: customPath -> ~/.burrow/config.yaml -> ./configs/burrow.yaml -> embedded default.
// Files are decoded over Default(), so they only need the keys they change.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if path := UserConfigPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "burrow.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UserDir returns ~/.burrow, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".burrow")
}

// UserConfigPath returns the path to the user config file, or empty if home is unavailable.
func UserConfigPath() string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown preset %q", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Harder presets crowd the field and make the rabbit quicker to steer past it.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Field.Density = 0.05
		cfg.Player.Speed = 6
		cfg.Player.HistoryLimit = 15
		cfg.Player.HoldTimeout = 800 * time.Millisecond
	case DifficultyNormal:
		cfg.Field.Density = 0.1
		cfg.Player.Speed = 8
		cfg.Player.HistoryLimit = 10
	case DifficultyHard:
		cfg.Field.Density = 0.25
		cfg.Player.Speed = 12
		cfg.Player.HistoryLimit = 5
		cfg.Player.HoldTimeout = 400 * time.Millisecond
	}
}
