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

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Shape is one GEMM problem size. M and N must be multiples of the 128-wide
// block tile and K a multiple of 16; the launch rejects anything else.
type Shape struct {
	M int64 `yaml:"m" json:"m"`
	N int64 `yaml:"n" json:"n"`
	K int64 `yaml:"k" json:"k"`
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.M, s.N, s.K)
}

// SweepConfig is a benchmark sweep file: a list of shapes plus optional
// overrides for the run counts and pipeline selection.
//
//	shapes:
//	  - {m: 128, n: 128, k: 128}
//	  - {m: 512, n: 512, k: 512}
//	runs: 5
//	warmup: 2
//	pipeline: both
type SweepConfig struct {
	Shapes   []Shape `yaml:"shapes"`
	Runs     int64   `yaml:"runs"`
	Warmup   int64   `yaml:"warmup"`
	Pipeline string  `yaml:"pipeline"`
}

// loadSweep reads and validates a sweep file.
func loadSweep(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep file: %w", err)
	}

	var cfg SweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse sweep file %q: %w", path, err)
	}
	if len(cfg.Shapes) == 0 {
		return nil, fmt.Errorf("sweep file %q lists no shapes", path)
	}
	for _, s := range cfg.Shapes {
		if s.M <= 0 || s.N <= 0 || s.K <= 0 {
			return nil, fmt.Errorf("sweep file %q: shape %s has non-positive dimensions", path, s)
		}
	}
	return &cfg, nil
}
