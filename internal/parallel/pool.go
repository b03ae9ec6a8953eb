// Package parallel provides the worker pool used by the data-parallel
// pipeline stages.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines for data-parallel work.
//
// Stages submit batches with ExecuteAll, which returns only after every
// item has run. That return is the producer/consumer barrier between
// pipeline stages: a velocity pass submitted through ExecuteAll is fully
// written before the resolve pass starts reading it.
//
// Thread safety: Pool is safe for concurrent use, but ExecuteAll must not
// be called from inside a work item.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	closed  atomic.Bool
	once    sync.Once
}

// New creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		fn()
	}
}

// ExecuteAll runs every work item on the pool and waits for all of them to
// complete. After a Close, work runs inline on the calling goroutine so
// callers degrade to serial execution instead of failing.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if p.closed.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var done sync.WaitGroup
	done.Add(len(work))
	for _, fn := range work {
		fn := fn
		p.tasks <- func() {
			defer done.Done()
			fn()
		}
	}
	done.Wait()
}

// ForRows splits the half-open row range [0, rows) into contiguous bands
// and runs fn on each band in parallel, waiting for completion. Band count
// is a small multiple of the worker count so uneven bands still balance.
func (p *Pool) ForRows(rows int, fn func(y0, y1 int)) {
	if rows <= 0 {
		return
	}
	bands := p.workers * 4
	if bands > rows {
		bands = rows
	}
	band := (rows + bands - 1) / bands

	work := make([]func(), 0, bands)
	for y := 0; y < rows; y += band {
		y0, y1 := y, y+band
		if y1 > rows {
			y1 = rows
		}
		work = append(work, func() { fn(y0, y1) })
	}
	p.ExecuteAll(work)
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Close stops the workers after draining queued work.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
		p.wg.Wait()
	})
}
