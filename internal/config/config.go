// Package config loads the engine's YAML configuration: the optimizer
// shape, the checkpoint store backend, and logging.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"darwin/internal/engine"
)

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type EngineConfig struct {
	Seeds          int     `yaml:"seeds"`
	Operators      int     `yaml:"operators"`
	PopulationSize int     `yaml:"population_size"`
	EliteCount     int     `yaml:"elite_count"`
	LearningRate   float64 `yaml:"learning_rate"`
	Encoding       string  `yaml:"encoding"`
	RandSeed       int64   `yaml:"rand_seed"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every optional field filled in.
// Seeds and operators have no sensible defaults; callers must set them.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PopulationSize: engine.DefaultPopulationSize,
			EliteCount:     engine.DefaultEliteCount,
			LearningRate:   engine.DefaultLearningRate,
			Encoding:       string(engine.EncodingBoolean),
		},
		Store: StoreConfig{Kind: "memory", Path: "darwin.db"},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads and parses a configuration file, applying defaults for
// anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into a Config and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Engine.PopulationSize == 0 {
		cfg.Engine.PopulationSize = def.Engine.PopulationSize
	}
	if cfg.Engine.EliteCount == 0 {
		cfg.Engine.EliteCount = def.Engine.EliteCount
	}
	if cfg.Engine.LearningRate == 0 {
		cfg.Engine.LearningRate = def.Engine.LearningRate
	}
	if cfg.Engine.Encoding == "" {
		cfg.Engine.Encoding = def.Engine.Encoding
	}
	if cfg.Store.Kind == "" {
		cfg.Store.Kind = def.Store.Kind
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func (c *Config) Validate() error {
	if c.Engine.Seeds <= 0 {
		return fmt.Errorf("engine.seeds must be positive, got %d", c.Engine.Seeds)
	}
	if c.Engine.Operators <= 0 {
		return fmt.Errorf("engine.operators must be positive, got %d", c.Engine.Operators)
	}

	encoding, err := engine.ParseEncoding(c.Engine.Encoding)
	if err != nil {
		return fmt.Errorf("engine.encoding: %w", err)
	}
	params := engine.Parameters{
		PopulationSize: c.Engine.PopulationSize,
		EliteCount:     c.Engine.EliteCount,
		LearningRate:   c.Engine.LearningRate,
		Encoding:       encoding,
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	switch c.Store.Kind {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.kind must be memory or sqlite, got %s", c.Store.Kind)
	}
	if c.Store.Kind == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite backend")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %s", c.Log.Format)
	}

	return nil
}

// Parameters converts the engine section into validated engine parameters.
func (c *Config) Parameters() (engine.Parameters, error) {
	encoding, err := engine.ParseEncoding(c.Engine.Encoding)
	if err != nil {
		return engine.Parameters{}, err
	}
	params := engine.Parameters{
		PopulationSize: c.Engine.PopulationSize,
		EliteCount:     c.Engine.EliteCount,
		LearningRate:   c.Engine.LearningRate,
		Encoding:       encoding,
	}
	if err := params.Validate(); err != nil {
		return engine.Parameters{}, err
	}
	return params, nil
}
