// Copyright 2025 GEMM-FP16 Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// scheduling independent work items such as the block grid of a tiled GEMM.
// A Pool is created once and reused across many launches, so steady-state
// scheduling costs no goroutine spawns and no channel allocation.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, shape := range shapes {
//	    hgemm.GemmAsync(pool, a, b, c, shape.M, shape.N, shape.K)
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Executor schedules parallel for-loops. *Pool implements it; callers with
// their own scheduler substitute it here.
type Executor interface {
	// ParallelFor executes fn over [0, n) in contiguous [start, end)
	// ranges and returns when all of them completed.
	ParallelFor(n int, fn func(start, end int))

	// NumWorkers returns the executor's parallelism.
	NumWorkers() int
}

// Pool is a persistent worker pool. Workers are spawned once at creation
// and live until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with the given number of workers, spawned immediately.
// If numWorkers <= 0, GOMAXPROCS is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts the pool down after pending work completes. Safe to call more
// than once. A closed pool degrades to sequential execution rather than
// failing, so shutdown ordering between the pool and its users is not
// load-bearing.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor executes fn for each index in [0, n), handing each worker one
// contiguous [start, end) range. The partition depends only on n and the
// worker count, never on timing. Blocks until all work completes.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p.closed.Load() {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelForAtomic executes fn for each index in [0, n) with atomic work
// stealing, which balances better when per-item cost varies (for a GEMM
// grid: when blocks of one launch contend with other tenants for cores).
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p.closed.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var nextIdx atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(idx)
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
