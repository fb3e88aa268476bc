package fn

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// ParMapResult applies f to each item on a bounded worker pool, returning
// Results in input order. Falls back to serial execution if the pool cannot
// be created.
func ParMapResult[T, U any](items []T, workers int, f func(T) Result[U]) []Result[U] {
	out := make([]Result[U], len(items))
	if len(items) == 0 {
		return out
	}
	if workers <= 0 || workers > len(items) {
		workers = len(items)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		for i, v := range items {
			out[i] = f(v)
		}
		return out
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, v := range items {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			out[i] = f(v)
		}); err != nil {
			out[i] = Err[U](err)
			wg.Done()
		}
	}
	wg.Wait()
	return out
}
