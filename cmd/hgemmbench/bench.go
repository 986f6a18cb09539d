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
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/annp0/GEMM-FP16/hgemm"
	"github.com/annp0/GEMM-FP16/internal/logger"
	"github.com/annp0/GEMM-FP16/workerpool"
)

type runResult struct {
	Millis float64 `json:"millis"`
	GFLOPS float64 `json:"gflops"`
}

type shapeResult struct {
	Shape     Shape       `json:"shape"`
	Pipeline  string      `json:"pipeline"`
	Runs      []runResult `json:"runs"`
	AvgGFLOPS float64     `json:"avg_gflops"`
	MaxGFLOPS float64     `json:"max_gflops"`
}

type benchReport struct {
	GOOS       string        `json:"goos"`
	GOARCH     string        `json:"goarch"`
	NumCPU     int           `json:"num_cpu"`
	Workers    int           `json:"workers"`
	HasF16C    bool          `json:"has_f16c"`
	HasARMFP16 bool          `json:"has_arm_fp16"`
	Results    []shapeResult `json:"results"`
}

func benchCmd() *cli.Command {
	var (
		mDim      int64
		nDim      int64
		kDim      int64
		runs      int64
		warmup    int64
		pipeline  string
		workers   int64
		sweepPath string
		jsonPath  string
	)

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "m",
			Usage:       "output rows (multiple of 128)",
			Value:       512,
			Destination: &mDim,
		},
		&cli.Int64Flag{
			Name:        "n",
			Usage:       "output columns (multiple of 128)",
			Value:       512,
			Destination: &nDim,
		},
		&cli.Int64Flag{
			Name:        "k",
			Usage:       "reduction depth (multiple of 16)",
			Value:       512,
			Destination: &kDim,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of timed runs per shape",
			Value:       5,
			Destination: &runs,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs per shape",
			Value:       1,
			Destination: &warmup,
		},
		&cli.StringFlag{
			Name:        "pipeline",
			Aliases:     []string{"p"},
			Usage:       "pipeline to benchmark: sync, async, or both",
			Value:       "both",
			Destination: &pipeline,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Usage:       "worker pool size for the block grid (0 = GOMAXPROCS)",
			Destination: &workers,
		},
		&cli.StringFlag{
			Name:        "sweep",
			Usage:       "YAML sweep file; overrides the single-shape flags",
			Destination: &sweepPath,
		},
		&cli.StringFlag{
			Name:        "json",
			Usage:       "write a JSON report to this path",
			Destination: &jsonPath,
		},
	}

	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark GEMM throughput over one shape or a sweep",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			shapes := []Shape{{M: mDim, N: nDim, K: kDim}}
			if sweepPath != "" {
				cfg, err := loadSweep(sweepPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				shapes = cfg.Shapes
				if cfg.Runs > 0 {
					runs = cfg.Runs
				}
				if cfg.Warmup > 0 {
					warmup = cfg.Warmup
				}
				if cfg.Pipeline != "" {
					pipeline = cfg.Pipeline
				}
				log.Info("loaded sweep", "path", sweepPath, "shapes", len(shapes))
			}

			pipelines, err := pipelinesFor(pipeline)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			pool := workerpool.New(int(workers))
			defer pool.Close()

			fmt.Println("=== hgemmbench ===")
			fmt.Printf("GOOS/GOARCH: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("CPUs:        %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS:  %d\n", runtime.GOMAXPROCS(0))
			fmt.Printf("Workers:     %d\n", pool.NumWorkers())
			fmt.Printf("Warmup:      %d runs\n", warmup)
			fmt.Printf("Runs:        %d\n", runs)
			fmt.Println()

			report := benchReport{
				GOOS:       runtime.GOOS,
				GOARCH:     runtime.GOARCH,
				NumCPU:     runtime.NumCPU(),
				Workers:    pool.NumWorkers(),
				HasF16C:    hgemm.HasF16C(),
				HasARMFP16: hgemm.HasARMFP16(),
			}

			p := message.NewPrinter(language.English)
			for _, s := range shapes {
				m, n, k := int(s.M), int(s.N), int(s.K)
				a := make([]hgemm.Float16, m*k)
				b := make([]hgemm.Float16, k*n)
				c := make([]hgemm.Float16, m*n)
				for i := range a {
					a[i] = hgemm.Float32ToFloat16(rand.Float32() - 0.5)
				}
				for i := range b {
					b[i] = hgemm.Float32ToFloat16(rand.Float32() - 0.5)
				}

				flop := 2 * int64(m) * int64(n) * int64(k)
				p.Printf("--- %s (%d FLOPs per run) ---\n", s, flop)

				for _, pipe := range pipelines {
					res, err := benchShape(pool, pipe, a, b, c, m, n, k, int(warmup), int(runs))
					if err != nil {
						return cli.Exit(fmt.Sprintf("error: %s %s: %v", s, pipe, err), 1)
					}
					res.Shape = s
					report.Results = append(report.Results, res)

					fmt.Printf("%s:\n", pipe)
					fmt.Printf("  %-4s %10s %12s\n", "Run", "ms", "GFLOPS")
					for i, r := range res.Runs {
						fmt.Printf("  %-4d %10.2f %12.2f\n", i+1, r.Millis, r.GFLOPS)
					}
					fmt.Printf("  %-4s %10s %12.2f (max %.2f)\n", "Avg", "", res.AvgGFLOPS, res.MaxGFLOPS)
				}
				fmt.Println()
			}

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			fmt.Printf("Memory: %.1f MB alloc, %.1f MB sys\n",
				float64(mem.Alloc)/(1024*1024),
				float64(mem.Sys)/(1024*1024))

			if jsonPath != "" {
				data, err := gojson.MarshalIndent(report, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode report: %v", err), 1)
				}
				if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
					return cli.Exit(fmt.Sprintf("error: write report: %v", err), 1)
				}
				log.Info("wrote report", "path", jsonPath)
			}
			return nil
		},
	}
}

// benchShape times one pipeline on one shape and aggregates GFLOPS.
func benchShape(pool *workerpool.Pool, pipe hgemm.Pipeline, a, b, c []hgemm.Float16, m, n, k, warmup, runs int) (shapeResult, error) {
	launch := hgemm.GemmAsync
	if pipe == hgemm.PipelineSync {
		launch = hgemm.GemmSync
	}

	for i := 0; i < warmup; i++ {
		if err := launch(pool, a, b, c, m, n, k); err != nil {
			return shapeResult{}, err
		}
	}

	res := shapeResult{Pipeline: pipe.String()}
	flop := 2 * float64(m) * float64(n) * float64(k)
	var sum float64
	for i := 0; i < runs; i++ {
		start := time.Now()
		if err := launch(pool, a, b, c, m, n, k); err != nil {
			return shapeResult{}, err
		}
		secs := time.Since(start).Seconds()
		gflops := flop / secs / 1e9
		res.Runs = append(res.Runs, runResult{Millis: secs * 1000, GFLOPS: gflops})
		sum += gflops
		if gflops > res.MaxGFLOPS {
			res.MaxGFLOPS = gflops
		}
	}
	res.AvgGFLOPS = sum / float64(len(res.Runs))
	return res, nil
}

// pipelinesFor resolves the --pipeline flag.
func pipelinesFor(name string) ([]hgemm.Pipeline, error) {
	switch name {
	case "sync":
		return []hgemm.Pipeline{hgemm.PipelineSync}, nil
	case "async":
		return []hgemm.Pipeline{hgemm.PipelineAsync}, nil
	case "both", "":
		return []hgemm.Pipeline{hgemm.PipelineSync, hgemm.PipelineAsync}, nil
	}
	return nil, fmt.Errorf("unknown pipeline %q, want sync, async, or both", name)
}
