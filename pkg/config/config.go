package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tektwister/ai_engineering/micrograd/internal/domain"
)

// Environment variables that override file and default values.
const (
	EnvConfigPath   = "MICROGRAD_CONFIG"
	EnvLearningRate = "MICROGRAD_LEARNING_RATE"
	EnvIterations   = "MICROGRAD_ITERATIONS"
	EnvSeed         = "MICROGRAD_SEED"
	EnvLogLevel     = "MICROGRAD_LOG_LEVEL"
	EnvLogFormat    = "MICROGRAD_LOG_FORMAT"
	EnvMetricsAddr  = "MICROGRAD_METRICS_ADDR"
)

var validate = validator.New()

// Config holds the configuration for a training run.
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Training TrainingConfig `yaml:"training"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ModelConfig describes the MLP shape.
type ModelConfig struct {
	Inputs int   `yaml:"inputs" validate:"gte=1"`
	Layers []int `yaml:"layers" validate:"min=1,dive,gte=1"`
	Seed   int64 `yaml:"seed"`
}

// TrainingConfig holds gradient-descent settings.
type TrainingConfig struct {
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
	Iterations   int     `yaml:"iterations" validate:"gte=1"`
	LogEvery     int     `yaml:"log_every" validate:"gte=0"`
	TargetLoss   float64 `yaml:"target_loss" validate:"gte=0"`
}

// DatasetConfig is an inline dataset.
type DatasetConfig struct {
	Inputs  [][]float64 `yaml:"inputs" validate:"min=1"`
	Targets []float64   `yaml:"targets" validate:"min=1"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=auto text json"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the configuration of the classic four-sample example:
// a 3-4-4-1 MLP trained for 100 steps at learning rate 0.05.
func Default() *Config {
	tc := domain.NewTrainConfig()
	return &Config{
		Model: ModelConfig{
			Inputs: 3,
			Layers: []int{4, 4, 1},
			Seed:   42,
		},
		Training: TrainingConfig{
			LearningRate: tc.LearningRate,
			Iterations:   tc.Iterations,
			LogEvery:     tc.LogEvery,
		},
		Dataset: DatasetConfig{
			Inputs: [][]float64{
				{2.0, 3.0, -1.0},
				{3.0, -1.0, 0.5},
				{0.5, 1.0, 1.0},
				{1.0, 1.0, -1.0},
			},
			Targets: []float64{1.0, -1.0, -1.0, 1.0},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (lowest first).
// It attempts to find a .env file in the current or parent directories.
// When path is empty, MICROGRAD_CONFIG is consulted.
func Load(path string) (*Config, error) {
	// Try to load .env from current or parent directories
	_ = loadEnvFile()

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and that the dataset fits the model.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", domain.ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := c.TrainConfig().Validate(); err != nil {
		return err
	}
	if err := c.Dataset.toDomain().Validate(c.Model.Inputs); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// TrainConfig converts the training section to the domain type.
func (c *Config) TrainConfig() domain.TrainConfig {
	return domain.TrainConfig{
		LearningRate: c.Training.LearningRate,
		Iterations:   c.Training.Iterations,
		LogEvery:     c.Training.LogEvery,
		TargetLoss:   c.Training.TargetLoss,
	}
}

// DatasetForTraining converts the dataset section to the domain type.
func (c *Config) DatasetForTraining() domain.Dataset {
	return c.Dataset.toDomain()
}

func (d DatasetConfig) toDomain() domain.Dataset {
	return domain.Dataset{Inputs: d.Inputs, Targets: d.Targets}
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLearningRate); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLearningRate, err)
		}
		c.Training.LearningRate = f
	}
	if v := os.Getenv(EnvIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIterations, err)
		}
		c.Training.Iterations = n
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Model.Seed = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
	return nil
}

// loadEnvFile attempts to look up until it finds a .env file
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	// Look up to 5 levels
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
