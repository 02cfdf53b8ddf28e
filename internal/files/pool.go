package files

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Each calls fn for every path on at most workers goroutines and waits for
// all of them. fn gets the index of its path so results can be stored in
// discovery order. workers <= 0 means GOMAXPROCS.
func Each(paths []string, workers int, fn func(i int, path string)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var group errgroup.Group
	group.SetLimit(workers)
	for i, path := range paths {
		group.Go(func() error {
			fn(i, path)
			return nil
		})
	}
	_ = group.Wait()
}
