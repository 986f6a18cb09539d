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

import "sync"

// warpState is the register file of one warp: its position in the block and
// its WarpFragM×WarpFragN persistent accumulator fragments. Accumulators
// start zeroed at block entry, are updated in place across every reduction
// step, and are written out exactly once at the end. Nothing here is ever
// shared between warps.
type warpState struct {
	warp   int
	rowOff int // warp tile origin inside the block tile
	colOff int
	acc    [WarpFragM][WarpFragN]FragAcc
}

// computeStep multiplies the warp's share of one staged reduction slice into
// its accumulators: load the WarpFragN B fragments once, then stream the
// WarpFragM A fragments against them. The slot must have been published by a
// barrier after its population completed.
func (w *warpState) computeStep(st *stage) {
	var fb [WarpFragN]FragB
	for fj := range fb {
		fragOps.LoadB(&fb[fj], st.b[w.colOff+fj*FragN:], stageLDB)
	}
	var fa FragA
	for fi := 0; fi < WarpFragM; fi++ {
		fragOps.LoadA(&fa, st.a[(w.rowOff+fi*FragM)*stageLDA:], stageLDA)
		for fj := 0; fj < WarpFragN; fj++ {
			fragOps.MulAcc(&w.acc[fi][fj], &fa, &fb[fj])
		}
	}
}

// writeOutput commits the warp's accumulators to its exclusive region of C.
// No synchronization: the grid and tile assignment guarantee no other warp
// in the entire grid touches these elements.
func (w *warpState) writeOutput(args *blockArgs) {
	cRow := args.blockRow*BlockM + w.rowOff
	cCol := args.blockCol*BlockN + w.colOff
	for fi := 0; fi < WarpFragM; fi++ {
		for fj := 0; fj < WarpFragN; fj++ {
			off := (cRow+fi*FragM)*args.n + cCol + fj*FragN
			fragOps.Store(args.c[off:], &w.acc[fi][fj], args.n)
		}
	}
}

// warpSync is the baseline pipeline: stage, barrier, compute, barrier, for
// each reduction step, all through staging slot 0. The first barrier keeps
// any warp from reading the slot before every thread finished writing it;
// the second keeps the next step's writers from overwriting it while a
// slower warp still reads.
func warpSync(w *warpState, st *stage, bar *barrier, args *blockArgs, steps int) {
	for step := 0; step < steps; step++ {
		st.loadSync(w.warp, args, step)
		bar.await()
		w.computeStep(st)
		bar.await()
	}
	w.writeOutput(args)
}

// warpAsync is the double-buffered pipeline. Fill: prefetch step 0 into slot
// 0, wait it down, barrier. Steady state, one step behind the prefetch: issue
// step s into slot s%2, compute step s-1 from the other slot, then wait and
// barrier before the slots flip. Drain: one final compute pass on the last
// prefetched slot.
//
// The single barrier per iteration is sufficient: issuing into slot s%2 can
// never race with reads of slot (s-1)%2, and by the time slot s%2 is issued
// every warp has passed the previous iteration's barrier, which followed
// their last read of that slot. The wait precedes the barrier because wait
// only proves completion to the issuing warp; the barrier publishes it to
// the block.
func warpAsync(w *warpState, st *[2]stage, bar *barrier, args *blockArgs, steps int, eng prefetcher) {
	st[0].issueLoad(eng, w.warp, args, 0)
	eng.commit()
	eng.wait(0)
	bar.await()

	for step := 1; step < steps; step++ {
		st[step&1].issueLoad(eng, w.warp, args, step)
		eng.commit()

		w.computeStep(&st[(step-1)&1])

		eng.wait(0)
		bar.await()
	}

	w.computeStep(&st[(steps-1)&1])
	eng.close()

	w.writeOutput(args)
}

// runBlock executes one block tile to completion: NumWarps goroutines over a
// shared staging buffer and barrier, each running the selected pipeline.
// newEng supplies the async pipeline's per-warp prefetch engines and is
// ignored by the synchronous pipeline. Blocks are fully independent; nothing
// in here synchronizes with any other block.
func runBlock(pipe Pipeline, args *blockArgs, newEng func() prefetcher) {
	steps := args.k / BlockK
	st := new([2]stage)
	bar := newBarrier(NumWarps)

	var wg sync.WaitGroup
	for warp := 0; warp < NumWarps; warp++ {
		wg.Add(1)
		go func(warp int) {
			defer wg.Done()
			var w warpState
			w.warp = warp
			w.rowOff, w.colOff = warpTileOrigin(warp)
			if pipe == PipelineSync {
				warpSync(&w, &st[0], bar, args, steps)
			} else {
				warpAsync(&w, st, bar, args, steps, newEng())
			}
		}(warp)
	}
	wg.Wait()
}
