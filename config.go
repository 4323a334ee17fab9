package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Collision-core tuning defaults. Cell size sits around 2x the largest
// common entity radius (asteroids at 50); the query padding bounds the
// largest counterpart an entity can meet in the broad phase.
const (
	DefaultCellSize    = 96.0
	DefaultQueryPad    = 50.0
	DefaultCheckBudget = 4000
)

// Config holds server and simulation tunables loaded from YAML
type Config struct {
	Addr      string `yaml:"addr"`
	ClientDir string `yaml:"client_dir"`
	DBPath    string `yaml:"db_path"`

	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`

	CellSize    float64 `yaml:"cell_size"`
	QueryPad    float64 `yaml:"query_pad"`
	CheckBudget int     `yaml:"check_budget"`
}

// DefaultServerConfig returns the config used when no file is given
func DefaultServerConfig() Config {
	return Config{
		Addr:        ":8080",
		ClientDir:   "../client",
		DBPath:      "arena.db",
		WorldWidth:  WorldWidth,
		WorldHeight: WorldHeight,
		CellSize:    DefaultCellSize,
		QueryPad:    DefaultQueryPad,
		CheckBudget: DefaultCheckBudget,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing path
// returns the defaults without error; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultCellSize
	}
	if cfg.QueryPad < 0 {
		cfg.QueryPad = DefaultQueryPad
	}
	if cfg.CheckBudget < 0 {
		cfg.CheckBudget = DefaultCheckBudget
	}
	return cfg, nil
}
