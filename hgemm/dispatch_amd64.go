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

//go:build amd64

package hgemm

import "golang.org/x/sys/cpu"

var hasF16C bool

func init() {
	// F16C detection: use FMA as a proxy (F16C is present on all
	// FMA-capable CPUs).
	if cpu.X86.HasAVX {
		hasF16C = cpu.X86.HasFMA
	}
}

// HasF16C returns true if the CPU supports F16C instructions, the x86
// hardware path for float16 <-> float32 conversion. Present on Intel
// Haswell+ and AMD Piledriver+ CPUs. Informational: the portable kernels
// convert in software either way.
func HasF16C() bool {
	return hasF16C
}

// HasARMFP16 returns false on x86 (ARM FP16 is ARM-specific).
func HasARMFP16() bool {
	return false
}
