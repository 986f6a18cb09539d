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

// Tile geometry. Everything below is fixed at compile time; the kernels are
// specialized to these numbers and never consult runtime configuration. The
// derived block tile is 128×128 with a 16-deep reduction slice, computed by
// 8 warps of 32 threads.
const (
	// FragM×FragN is the accumulator fragment shape and FragK the depth of
	// one fragment multiply-accumulate, matching 16×16×16 MMA hardware.
	FragM = 16
	FragN = 16
	FragK = 16

	// WarpSize is the number of lock-step threads that jointly execute one
	// fragment operation.
	WarpSize = 32

	// Warps per block, arranged as a WarpGridM×WarpGridN grid over the
	// block tile.
	WarpGridM = 4
	WarpGridN = 2
	NumWarps  = WarpGridM * WarpGridN

	// Accumulator fragments per warp along each axis.
	WarpFragM = 2
	WarpFragN = 4

	// Derived tile sizes.
	WarpTileM = FragM * WarpFragM // 32 rows of C per warp
	WarpTileN = FragN * WarpFragN // 64 cols of C per warp
	BlockM    = WarpTileM * WarpGridM
	BlockN    = WarpTileN * WarpGridN
	BlockK    = FragK

	// BlockThreads is the modeled thread count per block.
	BlockThreads = NumWarps * WarpSize

	// CopyElems is the width of one staging transfer: 8 half-precision
	// elements, a 128-bit vectorized load.
	CopyElems = 8

	// StagePad widens the staging buffers' leading dimension so that
	// consecutive fragment rows start in different on-chip memory banks.
	// Padding never changes logical content.
	StagePad = 8

	// Leading dimensions of the staged A (BlockM×BlockK) and B
	// (BlockK×BlockN) slices.
	stageLDA = BlockK + StagePad
	stageLDB = BlockN + StagePad

	// Transfers needed to stage one row of each operand slice.
	aCopiesPerRow = BlockK / CopyElems
	bCopiesPerRow = BlockN / CopyElems
)

// Coverage contracts, checked at compile time: each of the BlockThreads
// threads owns exactly one CopyElems-wide transfer of the A slice and one of
// the B slice per reduction step, with no gaps and no overlap, and every
// staged row is a whole number of transfers. A geometry change that breaks
// these fails the build with a constant-overflow error.
const (
	_ uint = BlockM*BlockK - BlockThreads*CopyElems
	_ uint = BlockThreads*CopyElems - BlockM*BlockK
	_ uint = BlockK*BlockN - BlockThreads*CopyElems
	_ uint = BlockThreads*CopyElems - BlockK*BlockN
	_ uint = -(BlockK % CopyElems)
	_ uint = -(BlockN % CopyElems)
	_ uint = -(BlockM % WarpTileM)
	_ uint = -(BlockN % WarpTileN)
)

// aCopyOrigin returns the (row, col) origin inside the BlockM×BlockK A slice
// of the transfer owned by the given block thread.
func aCopyOrigin(thread int) (row, col int) {
	return thread / aCopiesPerRow, thread % aCopiesPerRow * CopyElems
}

// bCopyOrigin returns the (row, col) origin inside the BlockK×BlockN B slice
// of the transfer owned by the given block thread.
func bCopyOrigin(thread int) (row, col int) {
	return thread / bCopiesPerRow, thread % bCopiesPerRow * CopyElems
}

// warpTileOrigin returns the (row, col) origin of a warp's tile inside the
// block tile. Warps are laid out row-major over the WarpGridM×WarpGridN grid.
func warpTileOrigin(warp int) (row, col int) {
	return warp / WarpGridN * WarpTileM, warp % WarpGridN * WarpTileN
}

// gridDims returns the block-grid shape tiling an M×N output. Callers have
// already validated divisibility.
func gridDims(m, n int) (rows, cols int) {
	return m / BlockM, n / BlockN
}
