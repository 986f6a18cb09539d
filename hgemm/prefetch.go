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

// prefetcher models a DMA-style asynchronous copy engine with copy groups:
// issue stages transfers without waiting, commit seals everything issued
// since the previous commit into one group, and wait blocks the caller until
// at most maxOutstanding groups remain in flight.
//
// Completion of a group via wait guarantees the group's destinations hold
// the copied data for the waiting thread only. The buffers are shared
// block-wide, so the pipeline always follows wait with a block barrier
// before anyone reads.
type prefetcher interface {
	issue(dst, src []Float16)
	commit()
	wait(maxOutstanding int)
	close()
}

// copyOp is one issued transfer.
type copyOp struct {
	dst, src []Float16
}

// asyncPrefetcher runs copy groups on a dedicated goroutine, one engine per
// warp. Groups complete in commit order. The done channel carries one token
// per completed group; receiving it is the happens-before edge that makes
// the copied data visible to the waiter.
//
// The engine keeps two group buffers and alternates them on commit, so the
// steady state allocates nothing. That bounds the engine at one group in
// flight beyond the one being assembled, which is exactly the pipeline's
// discipline: every step commits one group and waits it down to zero before
// committing the next.
type asyncPrefetcher struct {
	groups   chan []copyOp
	done     chan struct{}
	bufs     [2][]copyOp
	cur      int
	inFlight int
}

// groupCap is the transfer count of one full staging group: each of the
// warp's lanes issues one A and one B vector.
const groupCap = 2 * WarpSize

func newAsyncPrefetcher() *asyncPrefetcher {
	e := &asyncPrefetcher{
		groups: make(chan []copyOp, 2),
		done:   make(chan struct{}, 2),
	}
	e.bufs[0] = make([]copyOp, 0, groupCap)
	e.bufs[1] = make([]copyOp, 0, groupCap)
	go e.run()
	return e
}

func (e *asyncPrefetcher) run() {
	for ops := range e.groups {
		for _, op := range ops {
			copy(op.dst, op.src)
		}
		e.done <- struct{}{}
	}
}

func (e *asyncPrefetcher) issue(dst, src []Float16) {
	e.bufs[e.cur] = append(e.bufs[e.cur], copyOp{dst, src})
}

func (e *asyncPrefetcher) commit() {
	ops := e.bufs[e.cur]
	if len(ops) == 0 {
		return
	}
	e.groups <- ops
	e.inFlight++
	e.cur ^= 1
	e.bufs[e.cur] = e.bufs[e.cur][:0]
}

func (e *asyncPrefetcher) wait(maxOutstanding int) {
	for e.inFlight > maxOutstanding {
		<-e.done
		e.inFlight--
	}
}

func (e *asyncPrefetcher) close() {
	e.wait(0)
	close(e.groups)
}

// syncPrefetcher is the fallback for platforms without an asynchronous copy
// engine: issue copies immediately, commit and wait are no-ops. Every read
// is still preceded by a completed write, so the pipeline stays correct and
// only loses the overlap.
type syncPrefetcher struct{}

func (syncPrefetcher) issue(dst, src []Float16) { copy(dst, src) }
func (syncPrefetcher) commit()                  {}
func (syncPrefetcher) wait(int)                 {}
func (syncPrefetcher) close()                   {}
