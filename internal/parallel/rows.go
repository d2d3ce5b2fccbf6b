package parallel

import "sync"

// minBandRows keeps bands large enough that scheduling overhead stays small
// compared to the per-pixel work.
const minBandRows = 16

var (
	defaultMu   sync.Mutex
	defaultPool *WorkerPool
)

// Default returns the process-wide pool, creating it with GOMAXPROCS workers
// on first use.
func Default() *WorkerPool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool == nil || !defaultPool.IsRunning() {
		defaultPool = NewWorkerPool(0)
	}
	return defaultPool
}

// SetWorkers replaces the process-wide pool with one of n workers.
// The previous pool is closed after its queued work completes. Call it while
// configuring the process, not while operations are running.
func SetWorkers(n int) {
	next := NewWorkerPool(n)

	defaultMu.Lock()
	prev := defaultPool
	defaultPool = next
	defaultMu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// Bands splits [0, height) into at most parts contiguous half-open ranges of
// at least minBandRows rows each (except when height itself is smaller).
func Bands(height, parts int) [][2]int {
	if height <= 0 {
		return nil
	}
	parts = max(1, min(parts, (height+minBandRows-1)/minBandRows))

	bands := make([][2]int, 0, parts)
	step := (height + parts - 1) / parts
	for y0 := 0; y0 < height; y0 += step {
		bands = append(bands, [2]int{y0, min(height, y0+step)})
	}
	return bands
}

// Rows runs fn over [0, height) split into bands on the default pool.
// fn receives the half-open row range [y0, y1) and must only write rows in it.
func Rows(height int, fn func(y0, y1 int)) {
	RowsOn(Default(), height, fn)
}

// RowsOn is Rows with an explicit pool.
func RowsOn(p *WorkerPool, height int, fn func(y0, y1 int)) {
	bands := Bands(height, p.Workers()*2)
	if len(bands) == 1 {
		fn(bands[0][0], bands[0][1])
		return
	}

	p.Run(len(bands), func(i int) {
		fn(bands[i][0], bands[i][1])
	})
}
