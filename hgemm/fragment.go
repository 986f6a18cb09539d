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

// FragA, FragB, and FragAcc are register-resident fragments: the fixed-shape
// operand and accumulator tiles the multiply-accumulate unit consumes.
// Distinct types keep A-operand, B-operand, and accumulator roles from being
// mixed up at a call site. Payloads are row-major arrays so fragments live
// on the warp's stack and never alias staging or global memory.
type (
	FragA struct{ d [FragM * FragK]Float16 }
	FragB struct{ d [FragK * FragN]Float16 }

	// FragAcc holds one 16×16 accumulator tile. It stays half precision
	// for the whole reduction; there is no hidden wide accumulator
	// between steps.
	FragAcc struct{ d [FragM * FragN]Float16 }
)

// FragmentOps is the hardware capability boundary: load operand fragments
// from a strided buffer, multiply-accumulate, and store an accumulator back
// out. Every operation is collective over a full warp; the kernels in this
// package only ever call these from a warp's single execution context, so
// partial participation cannot occur.
//
// Alternative backends (native intrinsics, emulators with different
// rounding) substitute here without touching the tiling or pipeline code.
type FragmentOps interface {
	// LoadA reads a row-major FragM×FragK tile from src with leading
	// dimension ld. ld may exceed FragK when the source carries padding.
	LoadA(dst *FragA, src []Float16, ld int)

	// LoadB reads a row-major FragK×FragN tile from src with leading
	// dimension ld.
	LoadB(dst *FragB, src []Float16, ld int)

	// MulAcc performs acc += a·b over one 16×16×16 fragment step with
	// half-precision accumulation: each output element is rounded to
	// Float16 exactly once per call.
	MulAcc(acc *FragAcc, a *FragA, b *FragB)

	// Store writes acc row-major to dst with leading dimension ld.
	Store(dst []Float16, acc *FragAcc, ld int)
}

// fragOps is the active fragment backend, assigned in init. The scalar
// emulation is always available; architecture-specific files may replace it.
var fragOps FragmentOps

func init() {
	fragOps = scalarFrag{}
}

// scalarFrag emulates the fragment unit one element at a time. Products and
// the 16-term dot sum are carried in float32 and the result is rounded to
// Float16 once per MulAcc, matching hardware that keeps wide internal
// precision inside a single MMA issue but half-precision accumulators
// between issues.
type scalarFrag struct{}

func (scalarFrag) LoadA(dst *FragA, src []Float16, ld int) {
	if len(src) < (FragM-1)*ld+FragK {
		panic("hgemm: fragment A source too short")
	}
	for i := 0; i < FragM; i++ {
		copy(dst.d[i*FragK:(i+1)*FragK], src[i*ld:])
	}
}

func (scalarFrag) LoadB(dst *FragB, src []Float16, ld int) {
	if len(src) < (FragK-1)*ld+FragN {
		panic("hgemm: fragment B source too short")
	}
	for i := 0; i < FragK; i++ {
		copy(dst.d[i*FragN:(i+1)*FragN], src[i*ld:])
	}
}

func (scalarFrag) MulAcc(acc *FragAcc, a *FragA, b *FragB) {
	for i := 0; i < FragM; i++ {
		arow := a.d[i*FragK : (i+1)*FragK]
		for j := 0; j < FragN; j++ {
			sum := Float16ToFloat32(acc.d[i*FragN+j])
			for kk := 0; kk < FragK; kk++ {
				// The explicit conversion pins the product to a
				// float32 rounding step, so no platform fuses it
				// with the add and every platform computes the
				// same bits.
				sum += float32(Float16ToFloat32(arow[kk]) * Float16ToFloat32(b.d[kk*FragN+j]))
			}
			acc.d[i*FragN+j] = Float32ToFloat16(sum)
		}
	}
}

func (scalarFrag) Store(dst []Float16, acc *FragAcc, ld int) {
	if len(dst) < (FragM-1)*ld+FragN {
		panic("hgemm: fragment store destination too short")
	}
	for i := 0; i < FragM; i++ {
		copy(dst[i*ld:i*ld+FragN], acc.d[i*FragN:(i+1)*FragN])
	}
}

// zero resets the accumulator for reuse. Fresh accumulators are already
// zero; kernels get theirs from zero-valued warp state.
func (f *FragAcc) zero() {
	for i := range f.d {
		f.d[i] = 0
	}
}

// At returns the accumulator element at (row, col). Test helper.
func (f *FragAcc) At(row, col int) Float16 {
	return f.d[row*FragN+col]
}
