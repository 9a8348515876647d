// Package parallel provides a deterministic data-parallel helper.
//
// Work is split into disjoint contiguous index ranges, so results are
// identical to sequential execution regardless of scheduling — the property
// the pipeline requires before any stage may use goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize runs fn over [0, n) split into one contiguous chunk per
// available CPU. fn must only write to state owned by its range.
func Parallelize(n int, fn func(start, end int)) {
	ParallelizeWithThreshold(n, 0, fn)
}

// ParallelizeWithThreshold runs fn sequentially when n is below threshold,
// otherwise in parallel chunks. Small inputs stay on one goroutine because
// the spawn cost exceeds the work.
func ParallelizeWithThreshold(n, threshold int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if n < threshold || workers <= 1 || n < workers {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
