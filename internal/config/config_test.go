package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/hexcrawl/internal/world"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	sum := 0
	for _, s := range cfg.Specs() {
		sum += s.Weight
	}
	if sum != 100 {
		t.Fatalf("default weights sum to %d", sum)
	}
	if cfg.MinClusterSizes()[world.TerrainSea] != 5 {
		t.Fatalf("sea min cluster = %d", cfg.MinClusterSizes()[world.TerrainSea])
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexcrawl.yaml")
	yml := `
hex_size: 0.75
clustering: 0.9
default_terrain: sea
terrains:
  - name: sea
    color: "#0000ff"
    min_cluster: 4
    weight: 70
    enabled: true
  - name: lava
    color: "#ff3300"
    weight: 30
    enabled: true
  - name: snow
    weight: 50
    enabled: false
server:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HexSize != 0.75 || cfg.Clustering != 0.9 || cfg.PPI != 96 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ExportPerHour != 30 {
		t.Fatalf("server = %+v", cfg.Server)
	}
	specs := cfg.Specs()
	if len(specs) != 3 || specs[1].Type != "lava" || specs[2].Weight != 0 {
		t.Fatalf("specs = %v", specs)
	}
	if cfg.Palette()["lava"] != "#ff3300" {
		t.Fatalf("palette = %v", cfg.Palette())
	}
	opts := cfg.SessionOptions()
	if len(opts.Terrains) != 3 || opts.Gen.Fallback != world.TerrainSea {
		t.Fatalf("options = %+v", opts)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero hex size", func(c *Config) { c.HexSize = 0 }},
		{"clustering above one", func(c *Config) { c.Clustering = 1.5 }},
		{"no terrains", func(c *Config) { c.Terrains = nil }},
		{"duplicate terrain", func(c *Config) { c.Terrains = append(c.Terrains, c.Terrains[0]) }},
		{"unknown default", func(c *Config) { c.DefaultTerrain = "lava" }},
		{"history limit", func(c *Config) { c.HistoryLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvAddr, "127.0.0.1:7000")
	t.Setenv(EnvSeed, "1234")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" || cfg.Seed != 1234 {
		t.Fatalf("cfg server=%+v seed=%d", cfg.Server, cfg.Seed)
	}

	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := FromEnv(); err == nil {
		t.Fatal("missing config file should fail")
	}
}
