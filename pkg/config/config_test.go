package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cupstack/waitlab/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
	if cfg.Seed != 0 {
		t.Errorf("default seed = %d, want 0", cfg.Seed)
	}
	if cfg.TrainFraction != 0.9 {
		t.Errorf("default train fraction = %v, want 0.9", cfg.TrainFraction)
	}
	if cfg.Folds != 10 {
		t.Errorf("default folds = %d, want 10", cfg.Folds)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.PathLength != 100 {
		t.Errorf("PathLength = %d, want default 100", cfg.PathLength)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("seed: 7\ntrain_fraction: 0.8\nfolds: 5\ndata_path: custom.csv\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.TrainFraction != 0.8 {
		t.Errorf("TrainFraction = %v, want 0.8", cfg.TrainFraction)
	}
	if cfg.Folds != 5 {
		t.Errorf("Folds = %d, want 5", cfg.Folds)
	}
	if cfg.DataPath != "custom.csv" {
		t.Errorf("DataPath = %q, want custom.csv", cfg.DataPath)
	}
	// Untouched keys keep defaults.
	if cfg.PathRatio != 0.01 {
		t.Errorf("PathRatio = %v, want default 0.01", cfg.PathRatio)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WAITLAB_SEED", "99")
	t.Setenv("WAITLAB_TRAIN_FRACTION", "0.75")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want env override 99", cfg.Seed)
	}
	if cfg.TrainFraction != 0.75 {
		t.Errorf("TrainFraction = %v, want env override 0.75", cfg.TrainFraction)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"fraction zero", func(c *config.Config) { c.TrainFraction = 0 }},
		{"fraction one", func(c *config.Config) { c.TrainFraction = 1 }},
		{"one fold", func(c *config.Config) { c.Folds = 1 }},
		{"short path", func(c *config.Config) { c.PathLength = 1 }},
		{"ratio one", func(c *config.Config) { c.PathRatio = 1 }},
		{"negative top n", func(c *config.Config) { c.RidgeTopN = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate should reject %s", tt.name)
			}
		})
	}
}
