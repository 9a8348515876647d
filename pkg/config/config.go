// Package config holds the run configuration for the waitlab pipeline.
//
// Values come from a YAML file (default config.yaml, overridable with
// WAITLAB_CONFIG) with environment-variable overrides on top. The
// reproducibility knobs — seed and train fraction — live here so the
// pipeline code never hard-codes them.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	waitErrors "github.com/cupstack/waitlab/pkg/errors"
)

// Config is the full run configuration.
type Config struct {
	// DataPath is the input CSV of observed transactions.
	DataPath string `yaml:"data_path"`

	// OutputDir receives every report artifact.
	OutputDir string `yaml:"output_dir"`

	// Seed drives the train/test split and the fold assignment.
	Seed int64 `yaml:"seed"`

	// TrainFraction is the share of rows assigned to the training split.
	TrainFraction float64 `yaml:"train_fraction"`

	// Folds is k for the cross-validated penalty selection.
	Folds int `yaml:"folds"`

	// PathLength is the number of penalties on each regularization path.
	PathLength int `yaml:"path_length"`

	// PathRatio is the ratio of the smallest to the largest path penalty.
	PathRatio float64 `yaml:"path_ratio"`

	// RidgeTopN caps the ridge coefficient table (0 means all).
	RidgeTopN int `yaml:"ridge_top_n"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration matching the reference analysis: seed 0,
// 90/10 split, 10 folds, a 100-point geometric path.
func Default() Config {
	return Config{
		DataPath:      "data/wait_times.csv",
		OutputDir:     "out",
		Seed:          0,
		TrainFraction: 0.9,
		Folds:         10,
		PathLength:    100,
		PathRatio:     0.01,
		RidgeTopN:     20,
		LogLevel:      "info",
	}
}

// Load reads path (if it exists), applies environment overrides, and
// validates. A missing file is not an error: defaults plus environment are a
// complete configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, waitErrors.Wrapf(err, "parse config %s", path)
		}
	} else if !os.IsNotExist(err) {
		return cfg, waitErrors.Wrapf(err, "read config %s", path)
	}

	envOverride(&cfg.DataPath, "WAITLAB_DATA_PATH")
	envOverride(&cfg.OutputDir, "WAITLAB_OUTPUT_DIR")
	envOverrideInt64(&cfg.Seed, "WAITLAB_SEED")
	envOverrideFloat(&cfg.TrainFraction, "WAITLAB_TRAIN_FRACTION")
	envOverrideInt(&cfg.Folds, "WAITLAB_FOLDS")
	envOverrideInt(&cfg.PathLength, "WAITLAB_PATH_LENGTH")
	envOverrideFloat(&cfg.PathRatio, "WAITLAB_PATH_RATIO")
	envOverrideInt(&cfg.RidgeTopN, "WAITLAB_RIDGE_TOP_N")
	envOverride(&cfg.LogLevel, "WAITLAB_LOG_LEVEL")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail deep inside a fit.
func (c Config) Validate() error {
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return waitErrors.NewValueError("Config.Validate", "train_fraction must be in (0, 1)")
	}
	if c.Folds < 2 {
		return waitErrors.NewValueError("Config.Validate", "folds must be at least 2")
	}
	if c.PathLength < 2 {
		return waitErrors.NewValueError("Config.Validate", "path_length must be at least 2")
	}
	if c.PathRatio <= 0 || c.PathRatio >= 1 {
		return waitErrors.NewValueError("Config.Validate", "path_ratio must be in (0, 1)")
	}
	if c.RidgeTopN < 0 {
		return waitErrors.NewValueError("Config.Validate", "ridge_top_n must not be negative")
	}
	return nil
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideInt64(target *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = n
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
