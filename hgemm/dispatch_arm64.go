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

//go:build arm64

package hgemm

import "golang.org/x/sys/cpu"

var hasARMFP16 bool

func init() {
	// FEAT_FP16: scalar and SIMD half-precision arithmetic (ARMv8.2-A,
	// e.g. Apple M1+ and Neoverse cores).
	hasARMFP16 = cpu.ARM64.HasFPHP && cpu.ARM64.HasASIMDHP
}

// HasARMFP16 returns true if the CPU supports native half-precision
// arithmetic. Informational: the portable kernels convert in software
// either way.
func HasARMFP16() bool {
	return hasARMFP16
}

// HasF16C returns false on ARM (F16C is x86-specific).
func HasF16C() bool {
	return false
}
