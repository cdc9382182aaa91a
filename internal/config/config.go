// Package config loads editor settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexcrawl/internal/editor"
	"github.com/talgya/hexcrawl/internal/history"
	"github.com/talgya/hexcrawl/internal/world"
)

// Environment overrides.
const (
	EnvConfig = "HEXCRAWL_CONFIG"
	EnvAddr   = "HEXCRAWL_ADDR"
	EnvSeed   = "HEXCRAWL_SEED"
)

// TerrainConfig is one terrain type: its colour, blob floor and default
// share of the map.
type TerrainConfig struct {
	Name       world.Terrain `yaml:"name"`
	Color      string        `yaml:"color"`
	MinCluster int           `yaml:"min_cluster"`
	Weight     int           `yaml:"weight"`
	Enabled    bool          `yaml:"enabled"`
}

// ServerConfig holds the HTTP settings.
type ServerConfig struct {
	Addr          string   `yaml:"addr"`
	ExportPerHour int      `yaml:"export_per_hour"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

// Config is the full editor configuration.
type Config struct {
	PPI            float64         `yaml:"ppi"`
	HexSize        float64         `yaml:"hex_size"`
	Page           world.Page      `yaml:"page"`
	Clustering     float64         `yaml:"clustering"`
	Seed           int64           `yaml:"seed"` // 0 draws a random seed
	HistoryLimit   int             `yaml:"history_limit"`
	AutoApply      bool            `yaml:"auto_apply"`
	DefaultTerrain world.Terrain   `yaml:"default_terrain"`
	Terrains       []TerrainConfig `yaml:"terrains"`
	Addons         []string        `yaml:"addons"`
	Server         ServerConfig    `yaml:"server"`
}

// Default returns the built-in configuration: an A4 page of half-inch hexes
// with the six stock terrains.
func Default() Config {
	weights := map[world.Terrain]int{
		world.TerrainSea:       25,
		world.TerrainPlains:    40,
		world.TerrainSwamp:     10,
		world.TerrainSnow:      5,
		world.TerrainDesert:    10,
		world.TerrainWasteland: 10,
	}
	terrains := make([]TerrainConfig, 0, len(world.AllTerrains))
	for _, t := range world.AllTerrains {
		terrains = append(terrains, TerrainConfig{
			Name:       t,
			Color:      world.DefaultColors[t],
			MinCluster: world.DefaultMinClusterSizes[t],
			Weight:     weights[t],
			Enabled:    true,
		})
	}
	return Config{
		PPI:            96,
		HexSize:        0.5,
		Page:           world.A4Page,
		Clustering:     0.5,
		HistoryLimit:   history.DefaultLimit,
		AutoApply:      true,
		DefaultTerrain: world.TerrainPlains,
		Terrains:       terrains,
		Addons:         append([]string(nil), editor.DefaultAddons...),
		Server: ServerConfig{
			Addr:          ":8080",
			ExportPerHour: 30,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values; a terrains list replaces the default list.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// FromEnv loads the file named by HEXCRAWL_CONFIG, or the defaults when it
// is unset, then applies the other environment overrides.
func FromEnv() (Config, error) {
	cfg := Default()
	if path := envOrDefault(EnvConfig, ""); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides the listen address and seed from the environment.
func (c *Config) ApplyEnv() {
	c.Server.Addr = envOrDefault(EnvAddr, c.Server.Addr)
	c.Seed = int64(envIntOrDefault(EnvSeed, int(c.Seed)))
}

var (
	errNoTerrains = errors.New("config: no terrains defined")
)

// Validate checks ranges and cross references.
func (c Config) Validate() error {
	if c.PPI <= 0 {
		return fmt.Errorf("config: ppi must be positive, got %v", c.PPI)
	}
	if c.HexSize <= 0 {
		return fmt.Errorf("config: hex_size must be positive, got %v", c.HexSize)
	}
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		return fmt.Errorf("config: page must have a positive size, got %vx%v", c.Page.Width, c.Page.Height)
	}
	if c.Clustering < 0 || c.Clustering > 1 {
		return fmt.Errorf("config: clustering must be in [0,1], got %v", c.Clustering)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("config: history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if len(c.Terrains) == 0 {
		return errNoTerrains
	}
	seen := make(map[world.Terrain]bool, len(c.Terrains))
	for _, t := range c.Terrains {
		if t.Name == "" {
			return errors.New("config: terrain with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("config: duplicate terrain %q", t.Name)
		}
		seen[t.Name] = true
		if t.Weight < 0 || t.MinCluster < 0 {
			return fmt.Errorf("config: terrain %q has a negative weight or min_cluster", t.Name)
		}
	}
	if !seen[c.DefaultTerrain] {
		return fmt.Errorf("config: default_terrain %q is not a configured terrain", c.DefaultTerrain)
	}
	if c.Server.ExportPerHour < 0 {
		return fmt.Errorf("config: export_per_hour must not be negative")
	}
	return nil
}

// GenConfig returns the generation parameters.
func (c Config) GenConfig() world.GenConfig {
	return world.GenConfig{
		HexSize:         c.HexSize,
		PPI:             c.PPI,
		Page:            c.Page,
		Clustering:      c.Clustering,
		MinClusterSizes: c.MinClusterSizes(),
		Fallback:        c.DefaultTerrain,
	}
}

// Specs returns the terrain weights; disabled terrains get weight 0.
func (c Config) Specs() []world.TerrainSpec {
	out := make([]world.TerrainSpec, 0, len(c.Terrains))
	for _, t := range c.Terrains {
		w := t.Weight
		if !t.Enabled {
			w = 0
		}
		out = append(out, world.TerrainSpec{Type: t.Name, Weight: w})
	}
	return out
}

// TerrainNames returns the configured terrains in order.
func (c Config) TerrainNames() []world.Terrain {
	out := make([]world.Terrain, len(c.Terrains))
	for i, t := range c.Terrains {
		out[i] = t.Name
	}
	return out
}

// MinClusterSizes returns the per-terrain blob floors.
func (c Config) MinClusterSizes() map[world.Terrain]int {
	out := make(map[world.Terrain]int, len(c.Terrains))
	for _, t := range c.Terrains {
		if t.MinCluster > 0 {
			out[t.Name] = t.MinCluster
		}
	}
	return out
}

// Palette returns the configured colours.
func (c Config) Palette() world.Palette {
	p := make(world.Palette, len(c.Terrains))
	for _, t := range c.Terrains {
		if t.Color != "" {
			p[t.Name] = t.Color
		}
	}
	return p
}

// SessionOptions returns editor options for this configuration. The caller
// supplies the renderer and random source.
func (c Config) SessionOptions() editor.Options {
	return editor.Options{
		Gen:          c.GenConfig(),
		Specs:        c.Specs(),
		Terrains:     c.TerrainNames(),
		Addons:       c.Addons,
		Palette:      c.Palette(),
		HistoryLimit: c.HistoryLimit,
		AutoApply:    c.AutoApply,
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
