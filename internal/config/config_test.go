package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  seeds: 3
  operators: 16
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Engine.Seeds)
	assert.Equal(t, 16, cfg.Engine.Operators)
	assert.Equal(t, 20, cfg.Engine.PopulationSize)
	assert.Equal(t, 4, cfg.Engine.EliteCount)
	assert.Equal(t, 0.3, cfg.Engine.LearningRate)
	assert.Equal(t, "boolean", cfg.Engine.Encoding)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  seeds: 8
  operators: 12
  population_size: 40
  elite_count: 8
  learning_rate: 0.25
  encoding: real
  rand_seed: 1234
store:
  kind: sqlite
  path: /tmp/darwin.db
log:
  level: debug
  format: text
`))
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Engine.PopulationSize)
	assert.Equal(t, 8, cfg.Engine.EliteCount)
	assert.Equal(t, 0.25, cfg.Engine.LearningRate)
	assert.Equal(t, "real", cfg.Engine.Encoding)
	assert.Equal(t, int64(1234), cfg.Engine.RandSeed)
	assert.Equal(t, "sqlite", cfg.Store.Kind)
	assert.Equal(t, "/tmp/darwin.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)

	params, err := cfg.Parameters()
	require.NoError(t, err)
	assert.Equal(t, 40, params.PopulationSize)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing seeds", "engine:\n  operators: 4\n"},
		{"missing operators", "engine:\n  seeds: 1\n"},
		{"bad encoding", "engine:\n  seeds: 1\n  operators: 4\n  encoding: analog\n"},
		{"uneven blocks", "engine:\n  seeds: 1\n  operators: 4\n  population_size: 20\n  elite_count: 3\n"},
		{"bad learning rate", "engine:\n  seeds: 1\n  operators: 4\n  learning_rate: 1.5\n"},
		{"bad store kind", "engine:\n  seeds: 1\n  operators: 4\nstore:\n  kind: postgres\n"},
		{"bad log level", "engine:\n  seeds: 1\n  operators: 4\nlog:\n  level: loud\n"},
		{"bad log format", "engine:\n  seeds: 1\n  operators: 4\nlog:\n  format: xml\n"},
		{"not yaml", "engine: ["},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darwin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  seeds: 2\n  operators: 6\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Engine.Seeds)
	assert.Equal(t, 6, cfg.Engine.Operators)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
