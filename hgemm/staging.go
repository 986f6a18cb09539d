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

// stage is one staging-buffer slot: the current BlockM×BlockK slice of A and
// BlockK×BlockN slice of B, stored with padded leading dimensions (stageLDA,
// stageLDB) to stagger fragment-row starts across memory banks. A block owns
// one slot in the synchronous pipeline and two in the double-buffered one.
//
// The buffer is shared-write across the block's threads, but each thread's
// transfer targets a disjoint CopyElems-wide region, so staging needs no
// coordination beyond the barrier that separates writing from reading.
type stage struct {
	a [BlockM * stageLDA]Float16
	b [BlockK * stageLDB]Float16
}

// blockArgs is the per-block view of one GEMM call: the operand and output
// buffers plus the block's position in the grid. Immutable for the duration
// of the block.
type blockArgs struct {
	a, b, c  []Float16
	m, n, k  int
	blockRow int
	blockCol int
}

// transfer returns the (destination, source) slice pairs for block thread t's
// two staging transfers of the given reduction step: one CopyElems-wide
// 128-bit vector of the A slice and one of the B slice. All four slices are
// cut to exactly CopyElems elements.
func (st *stage) transfer(t int, args *blockArgs, step int) (dstA, srcA, dstB, srcB []Float16) {
	ar, ac := aCopyOrigin(t)
	aOff := (args.blockRow*BlockM+ar)*args.k + step*BlockK + ac
	dstA = st.a[ar*stageLDA+ac : ar*stageLDA+ac+CopyElems]
	srcA = args.a[aOff : aOff+CopyElems]

	br, bc := bCopyOrigin(t)
	bOff := (step*BlockK+br)*args.n + args.blockCol*BlockN + bc
	dstB = st.b[br*stageLDB+bc : br*stageLDB+bc+CopyElems]
	srcB = args.b[bOff : bOff+CopyElems]
	return
}

// loadSync copies the given warp's share of one reduction step's operand
// slices into the slot, immediately and in lane order. Callers barrier
// before reading the slot: the other warps' shares land concurrently.
func (st *stage) loadSync(warp int, args *blockArgs, step int) {
	for lane := 0; lane < WarpSize; lane++ {
		dstA, srcA, dstB, srcB := st.transfer(warp*WarpSize+lane, args, step)
		copy(dstA, srcA)
		copy(dstB, srcB)
	}
}

// issueLoad stages the same transfers through a prefetch engine without
// waiting. The data must not be read until the engine's wait confirms the
// committed group and a barrier publishes it block-wide.
func (st *stage) issueLoad(eng prefetcher, warp int, args *blockArgs, step int) {
	for lane := 0; lane < WarpSize; lane++ {
		dstA, srcA, dstB, srcB := st.transfer(warp*WarpSize+lane, args, step)
		eng.issue(dstA, srcA)
		eng.issue(dstB, srcB)
	}
}
