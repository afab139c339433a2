package gravity

import "sync"

// parallelThreshold is the body count below which the force passes stay
// serial regardless of the worker setting; goroutine overhead dominates for
// small systems.
const parallelThreshold = 32

// accelerationsParallel chunks the pair rows across workers. Each worker
// accumulates into its own buffer and the buffers are reduced in worker
// order afterward, so the result is deterministic for a given worker count.
func (s *Simulation) accelerationsParallel(dst []Vec2) {
	n := len(s.bodies)
	workers := s.workers
	if workers > n {
		workers = n
	}

	locals := make([][]Vec2, workers)
	rowsPerWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * rowsPerWorker
		hi := lo + rowsPerWorker
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}

		locals[w] = make([]Vec2, n)
		wg.Add(1)
		go func(buf []Vec2, lo, hi int) {
			defer wg.Done()
			s.accumulatePairs(buf, lo, hi)
		}(locals[w], lo, hi)
	}
	wg.Wait()

	for _, local := range locals {
		if local == nil {
			continue
		}
		for i := range dst {
			dst[i] = dst[i].Add(local[i])
		}
	}
}
