// Package parallel fans independent work items out across goroutines.
//
// It is shared by the projection (one item per output row) and the EXR
// writer (one item per compressed chunk). Items must not depend on each
// other; the only synchronization is the barrier before For returns.
package parallel

import (
	"runtime"
	"sync"
)

// Config configures parallel processing behavior.
type Config struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum number of items per worker before fanning out.
	// If n <= GrainSize * workers, work runs on the calling goroutine.
	GrainSize int
}

// DefaultConfig returns the default parallel configuration.
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		GrainSize:  4,
	}
}

var (
	config   = DefaultConfig()
	configMu sync.RWMutex
)

// SetConfig sets the package-wide configuration.
func SetConfig(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	config = c
}

// GetConfig returns the current configuration.
func GetConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// Workers returns the number of workers c resolves to.
func (c Config) Workers() int {
	if c.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.NumWorkers
}

// chunks splits [0, n) into at most workers contiguous ranges.
func chunks(n, workers int) [][2]int {
	size := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// For runs fn(i) for i in [0, n).
// Small inputs, or a single worker, run sequentially.
func For(n int, fn func(i int)) {
	c := GetConfig()
	workers := c.Workers()

	if workers == 1 || n <= c.GrainSize*workers {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	for _, r := range chunks(n, workers) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(r[0], r[1])
	}
	wg.Wait()
}

// ForWithError runs fn(i) for i in [0, n) and returns the first error seen.
// Which error wins is not defined when several items fail.
func ForWithError(n int, fn func(i int) error) error {
	c := GetConfig()
	workers := c.Workers()

	if workers == 1 || n <= c.GrainSize*workers {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, r := range chunks(n, workers) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := fn(i); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
			}
		}(r[0], r[1])
	}
	wg.Wait()
	return firstErr
}
