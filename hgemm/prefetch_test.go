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

import "testing"

func fillBits(s []Float16, base uint16) {
	for i := range s {
		s[i] = Float16FromBits(base + uint16(i))
	}
}

func checkCopied(t *testing.T, dst, src []Float16, label string) {
	t.Helper()
	for i := range dst {
		if dst[i] != src[i] {
			t.Fatalf("%s: dst[%d] = 0x%04X, want 0x%04X", label, i, dst[i].Bits(), src[i].Bits())
		}
	}
}

// TestAsyncPrefetcherGroups commits two groups and drains them with the
// wait ladder the pipeline uses: wait(1) must complete the older group,
// wait(0) the rest.
func TestAsyncPrefetcherGroups(t *testing.T) {
	src1 := make([]Float16, 64)
	src2 := make([]Float16, 64)
	dst1 := make([]Float16, 64)
	dst2 := make([]Float16, 64)
	fillBits(src1, 100)
	fillBits(src2, 1000)

	eng := newAsyncPrefetcher()
	eng.issue(dst1[:32], src1[:32])
	eng.issue(dst1[32:], src1[32:])
	eng.commit()
	eng.issue(dst2[:32], src2[:32])
	eng.issue(dst2[32:], src2[32:])
	eng.commit()

	// Groups complete oldest first.
	eng.wait(1)
	checkCopied(t, dst1, src1, "after wait(1)")

	eng.wait(0)
	checkCopied(t, dst2, src2, "after wait(0)")
	eng.close()
}

// TestAsyncPrefetcherReuse runs many issue/commit/wait iterations through
// the engine's two alternating group buffers, mutating the source between
// steps the way successive reduction steps do.
func TestAsyncPrefetcherReuse(t *testing.T) {
	src := make([]Float16, groupCap)
	dst := make([]Float16, groupCap)

	eng := newAsyncPrefetcher()
	for step := 0; step < 200; step++ {
		fillBits(src, uint16(step*31))
		for i := 0; i < groupCap; i++ {
			eng.issue(dst[i:i+1], src[i:i+1])
		}
		eng.commit()
		eng.wait(0)
		checkCopied(t, dst, src, "step")
	}
	eng.close()
}

// TestAsyncPrefetcherEmptyCommit checks that a commit with nothing issued
// creates no group, so the following waits return immediately instead of
// expecting a completion that never comes.
func TestAsyncPrefetcherEmptyCommit(t *testing.T) {
	eng := newAsyncPrefetcher()
	eng.commit()
	eng.wait(0)

	src := []Float16{Float16One}
	dst := []Float16{0}
	eng.issue(dst, src)
	eng.commit()
	eng.wait(0)
	checkCopied(t, dst, src, "after empty commit")
	eng.close()
}

// TestSyncPrefetcherImmediate checks the fallback engine: the copy lands at
// issue time and the group operations are no-ops.
func TestSyncPrefetcherImmediate(t *testing.T) {
	src := make([]Float16, 16)
	dst := make([]Float16, 16)
	fillBits(src, 7)

	var eng syncPrefetcher
	eng.issue(dst, src)
	checkCopied(t, dst, src, "before commit")

	eng.commit()
	eng.wait(0)
	eng.close()
}
