// Package parallel splits an index range over a bounded set of goroutines
// and joins before returning.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how For partitions work.
type Config struct {
	Enabled      bool // run on several goroutines
	NumWorkers   int  // upper bound on goroutines per call
	MinChunkSize int  // smallest range handed to one goroutine
}

// DefaultConfig uses one worker per CPU. Outer loops here are board squares,
// each of which carries a lot of work, so a chunk of one square is fine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// Sequential returns a Config that runs everything on the caller's goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// For executes f(i) for every i in [0, n) and returns once all calls are done.
// Each i is visited exactly once; calls for different i may run concurrently.
func For(n int, f func(i int), cfg Config) {
	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	minChunk := cfg.MinChunkSize
	if minChunk < 1 {
		minChunk = 1
	}
	if !cfg.Enabled || workers == 1 || n <= minChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, minChunk)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
