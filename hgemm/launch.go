// Copyright 2025 GEMM-FP16 Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hgemm

import (
	"fmt"
	"sync"

	"github.com/annp0/GEMM-FP16/workerpool"
)

// Gemm computes C = A·B for row-major half-precision matrices: A is M×K, B
// is K×N, C is M×N. It runs the pipeline selected at init (see
// CurrentPipeline) and schedules blocks on a shared package-level pool.
//
// Preconditions: M and N must be multiples of 128, K a multiple of 16, and
// every buffer exactly its declared length. Violations return a descriptive
// error before any kernel work begins. C's prior contents are ignored and
// fully overwritten.
func Gemm(a, b, c []Float16, m, n, k int) error {
	return gemm(currentPipeline, defaultPool(), a, b, c, m, n, k)
}

// GemmSync computes C = A·B with the single-buffered synchronous pipeline.
// pool schedules the block grid; a nil pool runs blocks sequentially on the
// calling goroutine.
func GemmSync(pool workerpool.Executor, a, b, c []Float16, m, n, k int) error {
	return gemm(PipelineSync, pool, a, b, c, m, n, k)
}

// GemmAsync computes C = A·B with the double-buffered asynchronous pipeline.
// pool schedules the block grid; a nil pool runs blocks sequentially on the
// calling goroutine.
func GemmAsync(pool workerpool.Executor, a, b, c []Float16, m, n, k int) error {
	return gemm(PipelineAsync, pool, a, b, c, m, n, k)
}

func gemm(pipe Pipeline, pool workerpool.Executor, a, b, c []Float16, m, n, k int) error {
	if err := checkArgs(a, b, c, m, n, k); err != nil {
		return err
	}

	gridRows, gridCols := gridDims(m, n)
	numBlocks := gridRows * gridCols

	run := func(start, end int) {
		for blk := start; blk < end; blk++ {
			args := blockArgs{
				a: a, b: b, c: c,
				m: m, n: n, k: k,
				blockRow: blk / gridCols,
				blockCol: blk % gridCols,
			}
			runBlock(pipe, &args, newPrefetcher)
		}
	}

	if pool == nil {
		run(0, numBlocks)
		return nil
	}
	pool.ParallelFor(numBlocks, run)
	return nil
}

func newPrefetcher() prefetcher {
	return newAsyncPrefetcher()
}

// checkArgs enforces every launch precondition. The kernels themselves do
// no shape validation, so nothing may reach them that fails here.
func checkArgs(a, b, c []Float16, m, n, k int) error {
	if m <= 0 || n <= 0 || k <= 0 {
		return fmt.Errorf("hgemm: dimensions must be positive, got M=%d N=%d K=%d", m, n, k)
	}
	if m%BlockM != 0 {
		return fmt.Errorf("hgemm: M=%d is not a multiple of the block tile height %d", m, BlockM)
	}
	if n%BlockN != 0 {
		return fmt.Errorf("hgemm: N=%d is not a multiple of the block tile width %d", n, BlockN)
	}
	if k%BlockK != 0 {
		return fmt.Errorf("hgemm: K=%d is not a multiple of the reduction slice depth %d", k, BlockK)
	}
	if len(a) != m*k {
		return fmt.Errorf("hgemm: A has %d elements, want M×K = %d", len(a), m*k)
	}
	if len(b) != k*n {
		return fmt.Errorf("hgemm: B has %d elements, want K×N = %d", len(b), k*n)
	}
	if len(c) != m*n {
		return fmt.Errorf("hgemm: C has %d elements, want M×N = %d", len(c), m*n)
	}
	return nil
}

// The shared pool behind Gemm, created on first use and sized to
// GOMAXPROCS. Callers who want control over scheduling use GemmSync or
// GemmAsync with their own Executor.
var (
	sharedPoolOnce sync.Once
	sharedPool     *workerpool.Pool
)

func defaultPool() workerpool.Executor {
	sharedPoolOnce.Do(func() {
		sharedPool = workerpool.New(0)
	})
	return sharedPool
}
