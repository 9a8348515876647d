package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cupstack/waitlab/pkg/errors"
)

// Split is a disjoint, exhaustive partition of row indices into a training
// and a test set. Both slices are sorted ascending.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit partitions n rows into a training set of round(n·fraction)
// rows sampled without replacement and a test set of the rest.
//
// The generator is PCG seeded from seed alone, so an identical (n, fraction,
// seed) triple yields a byte-identical partition on every platform — the
// property the reproducibility tests assert.
func TrainTestSplit(n int, fraction float64, seed int64) (Split, error) {
	if n <= 0 {
		return Split{}, errors.NewModelError("TrainTestSplit", "no rows to split", errors.ErrEmptyData)
	}
	if fraction <= 0 || fraction >= 1 {
		return Split{}, errors.NewValueError("TrainTestSplit", "fraction must be in (0, 1)")
	}

	nTrain := int(math.Round(float64(n) * fraction))
	if nTrain == 0 || nTrain == n {
		return Split{}, errors.NewValueError("TrainTestSplit",
			"fraction leaves an empty training or test set")
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	perm := rng.Perm(n)

	train := append([]int(nil), perm[:nTrain]...)
	test := append([]int(nil), perm[nTrain:]...)
	sort.Ints(train)
	sort.Ints(test)

	return Split{Train: train, Test: test}, nil
}

// KFold deals a seeded permutation of n rows round-robin into k folds. Every
// row lands in exactly one fold, fold sizes differ by at most one, and the
// assignment is deterministic in (n, k, seed). Each fold is sorted
// ascending.
//
// The same fold assignment is shared by every cross-validated model in a
// run, so their curves are computed on identical holdouts.
func KFold(n, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, errors.NewValueError("KFold", "need at least 2 folds")
	}
	if n < k {
		return nil, errors.NewValueError("KFold",
			"fewer rows than folds; cannot form non-empty folds")
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	perm := rng.Perm(n)

	folds := make([][]int, k)
	for i, idx := range perm {
		folds[i%k] = append(folds[i%k], idx)
	}
	for _, fold := range folds {
		sort.Ints(fold)
	}
	return folds, nil
}
