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
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/annp0/GEMM-FP16/hgemm"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print tile geometry and the pipeline selected on this machine",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Println("=== Tile geometry ===")
			fmt.Printf("Fragment:     %dx%dx%d\n", hgemm.FragM, hgemm.FragN, hgemm.FragK)
			fmt.Printf("Warp tile:    %dx%d (%dx%d fragments)\n",
				hgemm.WarpTileM, hgemm.WarpTileN, hgemm.WarpFragM, hgemm.WarpFragN)
			fmt.Printf("Block tile:   %dx%d, reduction slice %d\n",
				hgemm.BlockM, hgemm.BlockN, hgemm.BlockK)
			fmt.Printf("Warps:        %d of %d threads (%d per block)\n",
				hgemm.NumWarps, hgemm.WarpSize, hgemm.BlockThreads)
			fmt.Printf("Transfer:     %d elements (128-bit)\n", hgemm.CopyElems)
			fmt.Println()

			fmt.Println("=== Host ===")
			fmt.Printf("GOOS/GOARCH:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("CPUs:         %d (GOMAXPROCS %d)\n", runtime.NumCPU(), runtime.GOMAXPROCS(0))
			fmt.Printf("Pipeline:     %s\n", hgemm.CurrentPipelineName())
			fmt.Printf("HGEMM_SYNC:   %v\n", hgemm.SyncEnv())
			fmt.Printf("F16C:         %v\n", hgemm.HasF16C())
			fmt.Printf("ARM FP16:     %v\n", hgemm.HasARMFP16())
			return nil
		},
	}
}
