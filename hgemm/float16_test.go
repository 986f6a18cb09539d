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
	"math"
	"math/rand"
	"testing"

	"github.com/x448/float16"
)

// TestFloat16Constants verifies the predefined Float16 constants.
func TestFloat16Constants(t *testing.T) {
	tests := []struct {
		name     string
		value    Float16
		expected float32
	}{
		{"Zero", Float16Zero, 0.0},
		{"One", Float16One, 1.0},
		{"NegOne", Float16NegOne, -1.0},
		{"MaxValue", Float16MaxValue, 65504.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Float16ToFloat32(tt.value)
			if got != tt.expected {
				t.Errorf("Float16%s: got %v, want %v", tt.name, got, tt.expected)
			}
		})
	}

	t.Run("Infinity", func(t *testing.T) {
		if !Float16Inf.IsInf() || !Float16NegInf.IsInf() {
			t.Error("Float16Inf and Float16NegInf should both be infinite")
		}
		if Float16ToFloat32(Float16Inf) != float32(math.Inf(1)) {
			t.Error("Float16Inf should convert to +Inf")
		}
		if Float16ToFloat32(Float16NegInf) != float32(math.Inf(-1)) {
			t.Error("Float16NegInf should convert to -Inf")
		}
	})

	t.Run("NaN", func(t *testing.T) {
		if !Float16NaN.IsNaN() {
			t.Error("Float16NaN should be NaN")
		}
		if !math.IsNaN(float64(Float16ToFloat32(Float16NaN))) {
			t.Error("Float16NaN should convert to a float32 NaN")
		}
	})

	t.Run("MinValue", func(t *testing.T) {
		got := Float16ToFloat32(Float16MinValue)
		want := float32(math.Ldexp(1, -24))
		if got != want {
			t.Errorf("Float16MinValue: got %g, want %g", got, want)
		}
	})
}

// TestFloat32ToFloat16 tests conversion from float32 to Float16 on exact and
// rounding cases.
func TestFloat32ToFloat16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected Float16
	}{
		{"Zero", 0.0, 0x0000},
		{"NegZero", float32(math.Copysign(0, -1)), 0x8000},
		{"One", 1.0, 0x3C00},
		{"Two", 2.0, 0x4000},
		{"Half", 0.5, 0x3800},
		{"NegOne", -1.0, 0xBC00},
		{"ThirtyTwo", 32.0, 0x5000},
		{"MaxFinite", 65504.0, 0x7BFF},
		{"OverflowToInf", 65520.0, 0x7C00},
		{"LargeToInf", 1e10, 0x7C00},
		{"SmallestNormal", float32(math.Ldexp(1, -14)), 0x0400},
		{"SmallestDenormal", float32(math.Ldexp(1, -24)), 0x0001},
		{"HalfDenormalTiesToZero", float32(math.Ldexp(1, -25)), 0x0000},
		{"UnderflowToZero", 1e-10, 0x0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Float32ToFloat16(tt.input)
			if got != tt.expected {
				t.Errorf("Float32ToFloat16(%v): got 0x%04X, want 0x%04X", tt.input, got.Bits(), tt.expected.Bits())
			}
		})
	}
}

// TestFloat16ToFloat32Exhaustive sweeps every half-precision bit pattern and
// compares the widening conversion against the x448 reference. The two must
// agree on the exact float32 bits everywhere except NaN payloads.
func TestFloat16ToFloat32Exhaustive(t *testing.T) {
	for bits := 0; bits <= 0xFFFF; bits++ {
		h := Float16FromBits(uint16(bits))
		got := Float16ToFloat32(h)
		want := float16.Frombits(uint16(bits)).Float32()

		if h.IsNaN() {
			if !math.IsNaN(float64(got)) || !math.IsNaN(float64(want)) {
				t.Fatalf("0x%04X: NaN disagreement, got %v, reference %v", bits, got, want)
			}
			continue
		}
		if math.Float32bits(got) != math.Float32bits(want) {
			t.Fatalf("0x%04X: got %v (0x%08X), reference %v (0x%08X)",
				bits, got, math.Float32bits(got), want, math.Float32bits(want))
		}
	}
}

// TestFloat32ToFloat16Reference compares the narrowing conversion against
// the x448 reference on edge cases plus a large random sample of raw bit
// patterns, which covers normals, denormals, infinities, and NaNs.
func TestFloat32ToFloat16Reference(t *testing.T) {
	check := func(f float32) {
		t.Helper()
		got := Float32ToFloat16(f)
		want := float16.Fromfloat32(f)
		if got.IsNaN() || want.IsNaN() {
			if !got.IsNaN() || !want.IsNaN() {
				t.Fatalf("Float32ToFloat16(%v): NaN disagreement, got 0x%04X, reference 0x%04X",
					f, got.Bits(), want.Bits())
			}
			return
		}
		if got.Bits() != want.Bits() {
			t.Fatalf("Float32ToFloat16(%v, bits 0x%08X): got 0x%04X, reference 0x%04X",
				f, math.Float32bits(f), got.Bits(), want.Bits())
		}
	}

	edges := []uint32{
		0x00000000, 0x80000000, // +-0
		0x3F800000, 0xBF800000, // +-1
		0x7F800000, 0xFF800000, // +-Inf
		0x7FC00000, 0x7F800001, // quiet and signaling NaN
		0x477FE000, 0x477FF000, // 65504 and the overflow tie 65520
		0x477FEFFF, 0x477FF001, // just below and above the tie
		0x38800000, 0x33800000, // smallest normal and denormal targets
		0x33000000, 0x33000001, // the denormal tie and just above
		0x337FFFFF, 0x00000001, // sticky-only denormal, f32 denormal
		0x387FC000, 0x387FE000, // carry across the denormal-normal boundary
		0x3F801000, 0x3F803000, // ties to even, rounding down and up
	}
	for _, bits := range edges {
		check(math.Float32frombits(bits))
	}

	for i := 0; i < 500000; i++ {
		check(math.Float32frombits(rand.Uint32()))
	}
}

// TestFloat16RoundTrip checks that widening then narrowing restores every
// non-NaN bit pattern: float16 values are a subset of float32, so the trip
// must be lossless.
func TestFloat16RoundTrip(t *testing.T) {
	for bits := 0; bits <= 0xFFFF; bits++ {
		h := Float16FromBits(uint16(bits))
		if h.IsNaN() {
			if !Float32ToFloat16(Float16ToFloat32(h)).IsNaN() {
				t.Fatalf("0x%04X: NaN did not survive the round trip", bits)
			}
			continue
		}
		back := Float32ToFloat16(Float16ToFloat32(h))
		if back != h {
			t.Fatalf("0x%04X: round trip produced 0x%04X", bits, back.Bits())
		}
	}
}

// TestFloat16Predicates tests the classification methods.
func TestFloat16Predicates(t *testing.T) {
	tests := []struct {
		name  string
		value Float16
		nan   bool
		inf   bool
		zero  bool
	}{
		{"Zero", Float16Zero, false, false, true},
		{"NegZero", Float16NegZero, false, false, true},
		{"One", Float16One, false, false, false},
		{"Inf", Float16Inf, false, true, false},
		{"NegInf", Float16NegInf, false, true, false},
		{"NaN", Float16NaN, true, false, false},
		{"NaNPayload", Float16FromBits(0x7C01), true, false, false},
		{"MaxValue", Float16MaxValue, false, false, false},
		{"Denormal", Float16MinValue, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsNaN(); got != tt.nan {
				t.Errorf("IsNaN() = %v, want %v", got, tt.nan)
			}
			if got := tt.value.IsInf(); got != tt.inf {
				t.Errorf("IsInf() = %v, want %v", got, tt.inf)
			}
			if got := tt.value.IsZero(); got != tt.zero {
				t.Errorf("IsZero() = %v, want %v", got, tt.zero)
			}
		})
	}
}

// TestFloat16Slices tests the bulk conversion helpers.
func TestFloat16Slices(t *testing.T) {
	src := []float32{0, 1, -1, 0.5, 32, 65504, 0.333984375}
	h := ToFloat16(src)
	if len(h) != len(src) {
		t.Fatalf("ToFloat16 length %d, want %d", len(h), len(src))
	}
	back := ToFloat32(h)
	for i := range src {
		if back[i] != src[i] {
			t.Errorf("element %d: %v survived as %v", i, src[i], back[i])
		}
	}
}
