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

	"github.com/urfave/cli/v3"

	"github.com/annp0/GEMM-FP16/hgemm"
	"github.com/annp0/GEMM-FP16/internal/logger"
	"github.com/annp0/GEMM-FP16/workerpool"
)

func verifyCmd() *cli.Command {
	var (
		mDim int64
		nDim int64
		kDim int64
	)

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "m",
			Usage:       "output rows (multiple of 128)",
			Value:       256,
			Destination: &mDim,
		},
		&cli.Int64Flag{
			Name:        "n",
			Usage:       "output columns (multiple of 128)",
			Value:       256,
			Destination: &nDim,
		},
		&cli.Int64Flag{
			Name:        "k",
			Usage:       "reduction depth (multiple of 16)",
			Value:       64,
			Destination: &kDim,
		},
	}

	return &cli.Command{
		Name:  "verify",
		Usage: "Verify kernel correctness and determinism on this machine",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			m, n, k := int(mDim), int(nDim), int(kDim)

			pool := workerpool.New(0)
			defer pool.Close()

			a := make([]hgemm.Float16, m*k)
			b := make([]hgemm.Float16, k*n)
			for i := range a {
				a[i] = hgemm.Float32ToFloat16(rand.Float32() - 0.5)
			}
			for i := range b {
				b[i] = hgemm.Float32ToFloat16(rand.Float32() - 0.5)
			}

			// The two pipelines must agree bit for bit.
			cSync := make([]hgemm.Float16, m*n)
			cAsync := make([]hgemm.Float16, m*n)
			if err := hgemm.GemmSync(pool, a, b, cSync, m, n, k); err != nil {
				return cli.Exit(fmt.Sprintf("error: sync pipeline: %v", err), 1)
			}
			if err := hgemm.GemmAsync(pool, a, b, cAsync, m, n, k); err != nil {
				return cli.Exit(fmt.Sprintf("error: async pipeline: %v", err), 1)
			}
			for i := range cSync {
				if cSync[i] != cAsync[i] {
					return cli.Exit(fmt.Sprintf("FAIL: pipelines disagree at [%d,%d]: sync 0x%04X, async 0x%04X",
						i/n, i%n, cSync[i].Bits(), cAsync[i].Bits()), 1)
				}
			}
			log.Info("pipelines agree", "shape", fmt.Sprintf("%dx%dx%d", m, n, k))

			// A rerun must reproduce the same bits.
			if err := hgemm.GemmAsync(pool, a, b, cAsync, m, n, k); err != nil {
				return cli.Exit(fmt.Sprintf("error: rerun: %v", err), 1)
			}
			for i := range cSync {
				if cSync[i] != cAsync[i] {
					return cli.Exit(fmt.Sprintf("FAIL: rerun differs at [%d,%d]", i/n, i%n), 1)
				}
			}
			log.Info("rerun is bit-identical")

			// Spot-check corners against a directly computed stepped dot
			// product with the same per-step rounding as the kernels.
			for _, ij := range [][2]int{{0, 0}, {0, n - 1}, {m - 1, 0}, {m - 1, n - 1}, {m / 2, n / 2}} {
				i, j := ij[0], ij[1]
				want := steppedDot(a, b, i, j, n, k)
				if cSync[i*n+j] != want {
					return cli.Exit(fmt.Sprintf("FAIL: C[%d,%d] = 0x%04X, reference 0x%04X",
						i, j, cSync[i*n+j].Bits(), want.Bits()), 1)
				}
			}
			log.Info("reference spot checks pass")

			// Known value: A all ones and B all twos over one reduction
			// step gives exactly 32 everywhere.
			one := hgemm.Float32ToFloat16(1.0)
			two := hgemm.Float32ToFloat16(2.0)
			ka := make([]hgemm.Float16, hgemm.BlockM*hgemm.BlockK)
			kb := make([]hgemm.Float16, hgemm.BlockK*hgemm.BlockN)
			kc := make([]hgemm.Float16, hgemm.BlockM*hgemm.BlockN)
			for i := range ka {
				ka[i] = one
			}
			for i := range kb {
				kb[i] = two
			}
			if err := hgemm.Gemm(ka, kb, kc, hgemm.BlockM, hgemm.BlockN, hgemm.BlockK); err != nil {
				return cli.Exit(fmt.Sprintf("error: known value: %v", err), 1)
			}
			want := hgemm.Float32ToFloat16(32.0)
			for i := range kc {
				if kc[i] != want {
					return cli.Exit(fmt.Sprintf("FAIL: known value C[%d] = %v, want 32", i, kc[i].Float32()), 1)
				}
			}
			log.Info("known value check passes")

			fmt.Println("PASS")
			return nil
		},
	}
}

// steppedDot computes one output element with the kernel's arithmetic: each
// 16-deep slice summed in float32 on top of the running half-precision
// accumulator, one rounding per slice.
func steppedDot(a, b []hgemm.Float16, i, j, n, k int) hgemm.Float16 {
	var acc hgemm.Float16
	for step := 0; step < k/hgemm.BlockK; step++ {
		sum := hgemm.Float16ToFloat32(acc)
		for kk := step * hgemm.BlockK; kk < (step+1)*hgemm.BlockK; kk++ {
			sum += float32(hgemm.Float16ToFloat32(a[i*k+kk]) * hgemm.Float16ToFloat32(b[kk*n+j]))
		}
		acc = hgemm.Float32ToFloat16(sum)
	}
	return acc
}
