package dataset_test

import (
	"reflect"
	"testing"

	"github.com/cupstack/waitlab/dataset"
)

func TestTrainTestSplit_90_10(t *testing.T) {
	split, err := dataset.TrainTestSplit(100, 0.9, 0)
	if err != nil {
		t.Fatalf("TrainTestSplit: %v", err)
	}

	if len(split.Train) != 90 {
		t.Errorf("train size = %d, want 90", len(split.Train))
	}
	if len(split.Test) != 10 {
		t.Errorf("test size = %d, want 10", len(split.Test))
	}

	seen := make(map[int]int)
	for _, i := range split.Train {
		seen[i]++
	}
	for _, i := range split.Test {
		seen[i]++
	}
	if len(seen) != 100 {
		t.Errorf("partition covers %d distinct indices, want 100", len(seen))
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("index %d appears %d times, want exactly once", idx, count)
		}
		if idx < 0 || idx >= 100 {
			t.Errorf("index %d out of range [0, 100)", idx)
		}
	}
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	first, err := dataset.TrainTestSplit(500, 0.9, 0)
	if err != nil {
		t.Fatalf("TrainTestSplit: %v", err)
	}

	for run := 0; run < 5; run++ {
		again, err := dataset.TrainTestSplit(500, 0.9, 0)
		if err != nil {
			t.Fatalf("TrainTestSplit run %d: %v", run, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: split differs for identical (n, fraction, seed)", run)
		}
	}
}

func TestTrainTestSplit_SeedChangesPartition(t *testing.T) {
	a, err := dataset.TrainTestSplit(200, 0.9, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := dataset.TrainTestSplit(200, 0.9, 1)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical partitions")
	}
}

func TestTrainTestSplit_RoundsTrainSize(t *testing.T) {
	tests := []struct {
		n         int
		fraction  float64
		wantTrain int
	}{
		{10, 0.9, 9},
		{11, 0.9, 10}, // round(9.9)
		{15, 0.9, 14}, // round(13.5) rounds half away from zero
		{100, 0.5, 50},
	}
	for _, tt := range tests {
		split, err := dataset.TrainTestSplit(tt.n, tt.fraction, 0)
		if err != nil {
			t.Fatalf("n=%d: %v", tt.n, err)
		}
		if len(split.Train) != tt.wantTrain {
			t.Errorf("n=%d f=%v: train size = %d, want %d",
				tt.n, tt.fraction, len(split.Train), tt.wantTrain)
		}
		if len(split.Train)+len(split.Test) != tt.n {
			t.Errorf("n=%d: partition not exhaustive", tt.n)
		}
	}
}

func TestTrainTestSplit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		fraction float64
	}{
		{"zero rows", 0, 0.9},
		{"negative fraction", 100, -0.1},
		{"fraction one", 100, 1.0},
		{"degenerate tiny table", 1, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dataset.TrainTestSplit(tt.n, tt.fraction, 0); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestKFold_PartitionProperties(t *testing.T) {
	folds, err := dataset.KFold(103, 10, 0)
	if err != nil {
		t.Fatalf("KFold: %v", err)
	}
	if len(folds) != 10 {
		t.Fatalf("fold count = %d, want 10", len(folds))
	}

	seen := make(map[int]bool)
	for fi, fold := range folds {
		if len(fold) == 0 {
			t.Errorf("fold %d is empty", fi)
		}
		// 103 rows over 10 folds: sizes 10 or 11.
		if len(fold) < 10 || len(fold) > 11 {
			t.Errorf("fold %d size = %d, want 10 or 11", fi, len(fold))
		}
		for _, idx := range fold {
			if seen[idx] {
				t.Errorf("index %d assigned to more than one fold", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != 103 {
		t.Errorf("folds cover %d indices, want 103", len(seen))
	}
}

func TestKFold_Deterministic(t *testing.T) {
	a, err := dataset.KFold(100, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := dataset.KFold(100, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("fold assignment differs for identical (n, k, seed)")
	}
}

func TestKFold_FewerRowsThanFolds(t *testing.T) {
	if _, err := dataset.KFold(7, 10, 0); err == nil {
		t.Error("expected error when rows < folds")
	}
	if _, err := dataset.KFold(10, 1, 0); err == nil {
		t.Error("expected error for k < 2")
	}
}
