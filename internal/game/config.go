package game

import (
	"fmt"
	"os"
	"strconv"

	"github.com/samdwyer/shadowgrid/internal/world"
)

// Config holds session configuration options.
type Config struct {
	// Seed for random number generation. A seed of 0 means a time-based seed.
	Seed int64

	Width      int
	Height     int
	EnemyCount int

	// Vision radii. Zero or negative falls back to the value in actors.json.
	PlayerVision int
	EnemyVision  int
}

// DefaultConfig returns an 80x21 map with five enemies, which leaves room for the status rows on an 80x24 terminal.
func DefaultConfig() Config {
	return Config{
		Width:        world.DefaultWidth,
		Height:       world.DefaultHeight,
		EnemyCount:   5,
		PlayerVision: 10,
		EnemyVision:  8,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies SHADOWGRID_SEED,
// SHADOWGRID_ENEMIES, SHADOWGRID_WIDTH and SHADOWGRID_HEIGHT when set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SHADOWGRID_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("SHADOWGRID_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"SHADOWGRID_ENEMIES", &cfg.EnemyCount},
		{"SHADOWGRID_WIDTH", &cfg.Width},
		{"SHADOWGRID_HEIGHT", &cfg.Height},
	}
	for _, opt := range ints {
		v := os.Getenv(opt.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", opt.name, err)
		}
		if n < 0 {
			return cfg, fmt.Errorf("%s: must not be negative, got %d", opt.name, n)
		}
		*opt.dst = n
	}
	return cfg, nil
}
