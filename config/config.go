package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type DatabaseConfig struct {
	Driver string `json:"driver"` // sqlite | postgres
	DSN    string `json:"dsn"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.DSN == "" {
		c.DSN = "campusched.db"
	}
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite", "postgres":
		return nil
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
}

type SolverConfig struct {
	// Backend selects the SAT solver: gophersat (in-process, default) or
	// kissat (external binary over DIMACS).
	Backend string `json:"backend"`
	// BudgetSeconds bounds the generation search wall-clock.
	BudgetSeconds int `json:"budgetSeconds"`
}

func (c *SolverConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "gophersat"
	}
	if c.BudgetSeconds == 0 {
		c.BudgetSeconds = 10
	}
}

func (c *SolverConfig) Validate() error {
	if c.Backend != "gophersat" && c.Backend != "kissat" {
		return fmt.Errorf("unsupported solver backend: %q", c.Backend)
	}
	if c.BudgetSeconds <= 0 {
		return fmt.Errorf("solver budget must be positive, got %d", c.BudgetSeconds)
	}
	return nil
}

type LoggingConfig struct {
	Level string `json:"level"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

type Config struct {
	Database DatabaseConfig `json:"database"`
	Solver   SolverConfig   `json:"solver"`
	Logging  LoggingConfig  `json:"logging"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads a yaml or json config file, applies CS_-prefixed environment
// overrides (CS_DATABASE__DSN=... maps to database.dsn), then fills defaults
// and validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("CS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	c.Database.SetDefaults()
	c.Solver.SetDefaults()
	c.Logging.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Solver.Validate()
}
