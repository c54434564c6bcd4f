// Package pool runs independent jobs over a fixed number of workers.
package pool

import (
	"context"
	"sync"
)

// Map calls fn for every item using at most workers goroutines and returns
// the results in input order. Items not started before ctx is cancelled get
// the zero value of R and are reported as not done.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) R) (results []R, done []bool) {
	results = make([]R, len(items))
	done = make([]bool, len(items))
	if len(items) == 0 {
		return results, done
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	ch := make(chan int, len(items))
	for i := range items {
		ch <- i
	}
	close(ch)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				if ctx.Err() != nil {
					continue
				}
				// Each index is written by exactly one worker.
				results[i] = fn(ctx, items[i])
				done[i] = true
			}
		}()
	}

	wg.Wait()
	return results, done
}

// Batches splits n items into consecutive [start, end) ranges of at most size.
func Batches(n, size int) [][2]int {
	if size < 1 {
		size = 1
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
