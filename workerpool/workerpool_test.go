// Copyright 2025 GEMM-FP16 Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

// TestParallelForPartition checks the contract launch determinism rests on:
// ranges are contiguous, cover [0, n) exactly once, and repeat identically
// across calls.
func TestParallelForPartition(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	collect := func(n int) [][2]int {
		var mu sync.Mutex
		var ranges [][2]int
		pool.ParallelFor(n, func(start, end int) {
			mu.Lock()
			ranges = append(ranges, [2]int{start, end})
			mu.Unlock()
		})
		sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })
		return ranges
	}

	for _, n := range []int{1, 2, 3, 7, 100} {
		first := collect(n)
		next := 0
		for _, r := range first {
			if r[0] != next || r[1] <= r[0] {
				t.Fatalf("n=%d: ranges %v are not a contiguous partition", n, first)
			}
			next = r[1]
		}
		if next != n {
			t.Fatalf("n=%d: ranges %v do not cover [0, %d)", n, first, n)
		}

		second := collect(n)
		if len(second) != len(first) {
			t.Fatalf("n=%d: partition changed between calls: %v then %v", n, first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("n=%d: partition changed between calls: %v then %v", n, first, second)
			}
		}
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelForAtomic(n, func(i int) {
		results[i] = i * 2
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Test with n smaller than workers
	n := 3
	var count atomic.Int32

	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})

	if called {
		t.Error("ParallelFor with n=0 should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Should still work (sequential fallback)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0) // Use GOMAXPROCS
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelFor(n, func(start, end int) {
			// Simulate work
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}

func BenchmarkParallelForAtomic(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelForAtomic(n, func(i int) {
			_ = i * i
		})
	}
}
