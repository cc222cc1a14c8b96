package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tektwister/ai_engineering/micrograd/internal/domain"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Model.Inputs)
	assert.Equal(t, []int{4, 4, 1}, cfg.Model.Layers)
	assert.Equal(t, 0.05, cfg.Training.LearningRate)
	assert.Equal(t, 100, cfg.Training.Iterations)
	assert.Equal(t, 4, cfg.DatasetForTraining().Len())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "micrograd.yaml", `
model:
  inputs: 2
  layers: [3, 1]
  seed: 7
training:
  learning_rate: 0.1
  iterations: 20
dataset:
  inputs:
    - [0, 1]
    - [1, 0]
  targets: [1, -1]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Model.Inputs)
	assert.Equal(t, []int{3, 1}, cfg.Model.Layers)
	assert.Equal(t, int64(7), cfg.Model.Seed)
	assert.Equal(t, 0.1, cfg.Training.LearningRate)
	assert.Equal(t, 20, cfg.Training.Iterations)
	assert.Equal(t, 10, cfg.Training.LogEvery, "fields missing from the file keep their defaults")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, domain.Dataset{
		Inputs:  [][]float64{{0, 1}, {1, 0}},
		Targets: []float64{1, -1},
	}, cfg.DatasetForTraining())
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeFile(t, "c.yaml", "training:\n  iterations: 3\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Training.Iterations)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLearningRate, "0.2")
	t.Setenv(EnvIterations, "5")
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvMetricsAddr, ":9100")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Training.LearningRate)
	assert.Equal(t, 5, cfg.Training.Iterations)
	assert.Equal(t, int64(99), cfg.Model.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	td := cfg.TrainConfig()
	assert.Equal(t, 0.2, td.LearningRate)
	assert.Equal(t, 5, td.Iterations)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "model: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad env number", func(t *testing.T) {
		t.Setenv(EnvIterations, "many")
		_, err := Load("")
		assert.ErrorContains(t, err, EnvIterations)
	})

	invalid := []struct {
		name    string
		yaml    string
		dataset bool
	}{
		{"zero learning rate", "training:\n  learning_rate: 0\n", false},
		{"no iterations", "training:\n  iterations: 0\n", false},
		{"empty layer", "model:\n  layers: [4, 0]\n", false},
		{"no layers", "model:\n  layers: []\n", false},
		{"bad log level", "logging:\n  level: loud\n", false},
		{"bad metrics addr", "metrics:\n  addr: nowhere\n", false},
		{"row width", "dataset:\n  inputs: [[1, 2]]\n  targets: [1]\n", true},
		{"target count", "dataset:\n  inputs: [[1, 2, 3]]\n  targets: [1, 2]\n", true},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", tc.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			if tc.dataset {
				assert.ErrorIs(t, err, domain.ErrInvalidDataset)
			}
		})
	}
}
