package parallel

import (
	"runtime"
	"sync"
)

// ParallelizeWorkers splits [0, items) into at most workers contiguous chunks
// and runs fn once per chunk. The worker argument is the chunk index in
// [0, workers), so callers can hand each goroutine its own resources.
// workers <= 0 means runtime.NumCPU(). A single worker runs on the caller's
// goroutine.
func ParallelizeWorkers(items, workers int, fn func(worker, start, end int)) {
	if items <= 0 {
		return
	}
	numWorkers := EffectiveWorkers(workers, items)
	if numWorkers == 1 {
		fn(0, 0, items)
		return
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(i, start, end)
	}

	wg.Wait()
}

// EffectiveWorkers resolves a requested worker count against the number of
// items: non-positive means NumCPU, and there are never more workers than items.
func EffectiveWorkers(workers, items int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
