package parallel_test

import (
	"testing"

	"github.com/cupstack/waitlab/core/parallel"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 10_000} {
		counts := make([]int, n)
		parallel.Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				counts[i]++
			}
		})
		for i, c := range counts {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times, want 1", n, i, c)
			}
		}
	}
}

func TestParallelizeMatchesSequential(t *testing.T) {
	n := 5000
	seq := make([]float64, n)
	par := make([]float64, n)

	work := func(out []float64) func(start, end int) {
		return func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = float64(i)*1.5 + 2
			}
		}
	}

	work(seq)(0, n)
	parallel.ParallelizeWithThreshold(n, 100, work(par))

	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("index %d: sequential %v != parallel %v", i, seq[i], par[i])
		}
	}
}

func TestThresholdKeepsSmallInputSequential(t *testing.T) {
	calls := 0
	parallel.ParallelizeWithThreshold(10, 1000, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("expected single full range, got [%d, %d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected exactly one sequential call, got %d", calls)
	}
}
