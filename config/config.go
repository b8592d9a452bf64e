// Package config loads netscript.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rubiojr/netscript/ramcost"
)

// FileName is the name of the configuration file searched for by Find.
const FileName = "netscript.toml"

// Config is the decoded configuration.
type Config struct {
	RAM    RAMConfig          `toml:"ram"`
	Prices map[string]float64 `toml:"prices"`
	Log    LogConfig          `toml:"log"`
	Cache  CacheConfig        `toml:"cache"`
}

// RAMConfig holds the cost limits and the player state used by dynamic
// prices.
type RAMConfig struct {
	Base             float64 `toml:"base"`
	Max              float64 `toml:"max"`
	BitNode          int     `toml:"bitnode"`
	SingularityLevel int     `toml:"singularity_level"`
	ParseCache       int     `toml:"parse_cache"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig configures the on-disk cost cache. An empty Dir selects
// ramcost.DefaultDiskCacheDir.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	MaxBytes int64  `toml:"max_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RAM: RAMConfig{
			Base:       ramcost.DefaultBaseCost,
			Max:        ramcost.DefaultMaxCost,
			BitNode:    1,
			ParseCache: 256,
		},
		Prices: map[string]float64{},
		Log:    LogConfig{Level: "warn"},
		Cache:  CacheConfig{MaxBytes: ramcost.DefaultDiskCacheBytes},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Prices == nil {
		cfg.Prices = map[string]float64{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents.
func Find(dir string) (string, bool, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.RAM.Base < 0 {
		return fmt.Errorf("ram.base must not be negative, got %g", c.RAM.Base)
	}
	if c.RAM.Max < c.RAM.Base {
		return fmt.Errorf("ram.max (%g) is below ram.base (%g)", c.RAM.Max, c.RAM.Base)
	}
	if c.RAM.SingularityLevel < 0 || c.RAM.SingularityLevel > 3 {
		return fmt.Errorf("ram.singularity_level must be between 0 and 3, got %d", c.RAM.SingularityLevel)
	}
	if c.RAM.ParseCache <= 0 {
		return fmt.Errorf("ram.parse_cache must be positive, got %d", c.RAM.ParseCache)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	var bad []string
	for name, v := range c.Prices {
		if v < 0 {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("negative prices: %s", strings.Join(bad, ", "))
	}
	return nil
}
