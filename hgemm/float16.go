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

import "math"

// Float16 is an IEEE 754 half-precision (binary16) value, the element type
// of every operand, staging, fragment, and output buffer in this package.
// It wraps uint16 for storage but provides float semantics.
//
// Format: Sign (1 bit) | Exponent (5 bits, bias 15) | Mantissa (10 bits)
//
//	S | EEEEE | MMMMMMMMMM
//
// Max finite value 65504; smallest positive normal ~6.10e-5; roughly 3.3
// decimal digits of precision.
type Float16 uint16

// Special values.
const (
	Float16Zero     Float16 = 0x0000
	Float16NegZero  Float16 = 0x8000
	Float16One      Float16 = 0x3C00
	Float16NegOne   Float16 = 0xBC00
	Float16MaxValue Float16 = 0x7BFF // 65504, largest finite value
	Float16MinValue Float16 = 0x0001 // smallest denormal (~5.96e-8)
	Float16Inf      Float16 = 0x7C00
	Float16NegInf   Float16 = 0xFC00
	Float16NaN      Float16 = 0x7E00 // canonical quiet NaN
)

// Float16ToFloat32 converts h to float32 exactly (binary16 is a subset of
// binary32). Zero, denormals, infinity, and NaN are all handled.
func Float16ToFloat32(h Float16) float32 {
	bits := uint32(h)
	sign := bits >> 15
	exp := (bits >> 10) & 0x1F
	mant := bits & 0x3FF

	switch {
	case exp == 0:
		if mant == 0 {
			return math.Float32frombits(sign << 31)
		}
		// Denormal: normalize by shifting the mantissa up to the
		// implicit-1 position, adjusting the exponent as we go.
		exp = 1
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		mant &= 0x3FF
		exp = uint32(int32(exp) + 127 - 15)
	case exp == 31:
		if mant == 0 {
			return math.Float32frombits((sign << 31) | 0x7F800000)
		}
		return math.Float32frombits((sign << 31) | 0x7FC00000 | (mant << 13))
	default:
		exp = exp + 127 - 15
	}

	return math.Float32frombits((sign << 31) | (exp << 23) | (mant << 13))
}

// Float32ToFloat16 converts f to Float16 with round-to-nearest-even,
// overflowing to infinity and underflowing through the denormal range to
// zero. This is the single rounding point for all half-precision arithmetic
// in the package.
func Float32ToFloat16(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int((bits>>23)&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF

	if exp <= 0 {
		if exp < -10 {
			// Below half the smallest denormal; rounds to zero.
			return Float16(sign)
		}
		// Denormal result: restore the implicit 1 and shift the whole
		// significand down in one step so the dropped bits stay
		// visible to the rounding decision. A carry out of the
		// mantissa lands in the exponent field and produces the
		// smallest normal, which is exactly right.
		sig := mant | 0x800000
		shift := uint(14 - exp)
		half := uint32(1) << (shift - 1)
		res := sig >> shift
		if sig&half != 0 && (sig&(half-1) != 0 || res&1 != 0) {
			res++
		}
		return Float16(sign | uint16(res))
	}
	if exp == 0xFF-127+15 {
		if mant != 0 {
			return Float16(sign | 0x7E00 | uint16(mant>>13))
		}
		return Float16(sign | 0x7C00)
	}
	if exp >= 31 {
		return Float16(sign | 0x7C00)
	}

	// Round to nearest even: bit 12 rounds, bits 0-11 are sticky, bit 13
	// is the result's low mantissa bit.
	if mant&0x1000 != 0 && mant&0x2FFF != 0 {
		mant += 0x2000
		if mant&0x800000 != 0 {
			mant = 0
			exp++
			if exp >= 31 {
				return Float16(sign | 0x7C00)
			}
		}
	}

	return Float16(sign | uint16(exp<<10) | uint16(mant>>13))
}

// NewFloat16 creates a Float16 from a float32 value.
func NewFloat16(f float32) Float16 {
	return Float32ToFloat16(f)
}

// Float16FromBits creates a Float16 from its raw bit pattern.
func Float16FromBits(bits uint16) Float16 {
	return Float16(bits)
}

// Bits returns the raw uint16 representation.
func (h Float16) Bits() uint16 {
	return uint16(h)
}

// Float32 converts h to float32.
func (h Float16) Float32() float32 {
	return Float16ToFloat32(h)
}

// Float64 converts h to float64.
func (h Float16) Float64() float64 {
	return float64(Float16ToFloat32(h))
}

// IsNaN reports whether h is a NaN value.
func (h Float16) IsNaN() bool {
	return h&0x7C00 == 0x7C00 && h&0x3FF != 0
}

// IsInf reports whether h is positive or negative infinity.
func (h Float16) IsInf() bool {
	return h&0x7FFF == 0x7C00
}

// IsZero reports whether h is positive or negative zero.
func (h Float16) IsZero() bool {
	return h&0x7FFF == 0
}

// ToFloat16 converts a float32 slice to a freshly allocated Float16 slice,
// rounding each element to nearest even.
func ToFloat16(src []float32) []Float16 {
	dst := make([]Float16, len(src))
	for i, f := range src {
		dst[i] = Float32ToFloat16(f)
	}
	return dst
}

// ToFloat32 converts a Float16 slice to a freshly allocated float32 slice.
func ToFloat32(src []Float16) []float32 {
	dst := make([]float32, len(src))
	for i, h := range src {
		dst[i] = Float16ToFloat32(h)
	}
	return dst
}
