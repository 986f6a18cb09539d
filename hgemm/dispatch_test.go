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

func TestPipelineString(t *testing.T) {
	tests := []struct {
		pipe Pipeline
		want string
	}{
		{PipelineSync, "sync"},
		{PipelineAsync, "async"},
		{Pipeline(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.pipe.String(); got != tt.want {
			t.Errorf("Pipeline(%d).String() = %q, want %q", int(tt.pipe), got, tt.want)
		}
	}
}

func TestSyncEnv(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true}, // non-bool values force the synchronous pipeline
	}
	for _, tt := range tests {
		t.Run("HGEMM_SYNC="+tt.val, func(t *testing.T) {
			t.Setenv("HGEMM_SYNC", tt.val)
			if got := SyncEnv(); got != tt.want {
				t.Errorf("SyncEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCurrentPipeline logs the process-wide selection and the platform
// capability bits, and runs one product through the default entry point
// with the selection in effect.
func TestCurrentPipeline(t *testing.T) {
	t.Logf("Pipeline: %s", CurrentPipelineName())
	t.Logf("F16C: %v, ARM FP16: %v", HasF16C(), HasARMFP16())

	if name := CurrentPipeline().String(); name != "sync" && name != "async" {
		t.Errorf("CurrentPipeline() = %q, want sync or async", name)
	}
	if CurrentPipelineName() != CurrentPipeline().String() {
		t.Error("CurrentPipelineName disagrees with CurrentPipeline")
	}

	const m, n, k = BlockM, BlockN, BlockK
	a := make([]Float16, m*k)
	b := make([]Float16, k*n)
	c := make([]Float16, m*n)
	for i := range a {
		a[i] = Float32ToFloat16(float32(i%7) + 0.5)
	}
	for i := range b {
		b[i] = Float32ToFloat16(float32(i%11) + 0.25)
	}
	if err := Gemm(a, b, c, m, n, k); err != nil {
		t.Fatalf("Gemm: %v", err)
	}
	if c[0].IsZero() || c[0].IsNaN() {
		t.Errorf("C[0,0] = %v, want a finite nonzero product", c[0].Float32())
	}
}
