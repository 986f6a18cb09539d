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

// Package hgemm implements a block- and warp-tiled half-precision matrix
// multiply (C = A·B) built around fixed-shape 16×16×16 fragment
// multiply-accumulate units, the execution model of tensor-core HGEMM
// kernels.
//
// # Tiling
//
// The output matrix is tiled by a grid of independent 128×128 blocks. Each
// block runs 8 warps (a 4×2 grid); each warp owns a 32×64 warp tile holding
// a 2×4 grid of 16×16 accumulator fragments. The reduction dimension is
// consumed in 16-wide slices: per step, the block stages the current
// 128×16 slice of A and 16×128 slice of B in an on-chip-style staging
// buffer, and every warp multiplies its staged fragments into its
// accumulators.
//
// # Pipelines
//
// Two pipelines produce bit-identical results:
//   - Synchronous: stage the slice, barrier, compute, barrier, repeat.
//   - Asynchronous: double-buffered staging with a prefetch engine
//     (issue / commit / wait) so the transfer of slice k+1 overlaps the
//     compute of slice k, plus a fill step before and a drain step after
//     the main loop.
//
// # Preconditions
//
// M must be a multiple of 128, N a multiple of 128, and K a multiple of 16.
// All three buffers are row-major []Float16 with exact lengths. Violations
// are rejected with descriptive errors before any kernel work starts; the
// kernels themselves perform no validation.
//
// # Example Usage
//
//	m, n, k := 256, 256, 1024
//	a := make([]hgemm.Float16, m*k)
//	b := make([]hgemm.Float16, k*n)
//	c := make([]hgemm.Float16, m*n)
//	// ... fill a and b ...
//	if err := hgemm.Gemm(a, b, c, m, n, k); err != nil {
//		log.Fatal(err)
//	}
//
// Accumulation is performed in half precision (one rounding per fragment
// multiply-accumulate), trading accuracy for the throughput profile of the
// modeled hardware. Expect relative error around 1e-2 for large K.
package hgemm
