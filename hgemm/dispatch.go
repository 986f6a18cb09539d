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
	"os"
	"strconv"
)

// Pipeline selects how a block moves operand slices through its staging
// buffer: the synchronous baseline or the double-buffered asynchronous
// pipeline. Both produce bit-identical output; they differ only in whether
// the next slice's transfer overlaps the current slice's compute.
type Pipeline int

const (
	PipelineSync Pipeline = iota
	PipelineAsync
)

func (p Pipeline) String() string {
	switch p {
	case PipelineSync:
		return "sync"
	case PipelineAsync:
		return "async"
	}
	return "unknown"
}

// currentPipeline is what Gemm runs with. Set once at init: asynchronous
// unless the environment forces the baseline.
var currentPipeline Pipeline

func init() {
	if SyncEnv() {
		currentPipeline = PipelineSync
		return
	}
	currentPipeline = PipelineAsync
}

// SyncEnv reports whether the HGEMM_SYNC environment variable requests the
// synchronous pipeline. Any value that doesn't parse as a bool counts as
// true, so HGEMM_SYNC=1, =true, or just HGEMM_SYNC=yes all force it.
func SyncEnv() bool {
	val := os.Getenv("HGEMM_SYNC")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// CurrentPipeline returns the pipeline Gemm uses by default.
func CurrentPipeline() Pipeline {
	return currentPipeline
}

// CurrentPipelineName returns the default pipeline's name, for logs and
// benchmark reports.
func CurrentPipelineName() string {
	return currentPipeline.String()
}
