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

// Command hgemmbench benchmarks and verifies the half-precision GEMM
// kernels on the host machine.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/annp0/GEMM-FP16/internal/logger"
)

func main() {
	var (
		logLevel string
		logJSON  bool
	)

	app := &cli.Command{
		Name:  "hgemmbench",
		Usage: "Half-precision GEMM kernel benchmark and verification CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.BoolFlag{
				Name:        "log-json",
				Usage:       "emit logs as JSON",
				Destination: &logJSON,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logger.ParseLevel(logLevel)
			var log logger.Logger
			if logJSON {
				log = logger.JSON(os.Stderr, level)
			} else {
				log = logger.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: level,
				}))
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			benchCmd(),
			verifyCmd(),
			infoCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
