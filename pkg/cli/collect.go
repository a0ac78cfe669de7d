// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/fleetscope/fleetscope/pkg/admission"
	"github.com/fleetscope/fleetscope/pkg/collectors"
	"github.com/fleetscope/fleetscope/pkg/defaults"
	"github.com/fleetscope/fleetscope/pkg/refresh"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		Aliases:               []string{"c"},
		EnableShellCompletion: true,
		Usage:                 "Run one collection cycle and persist the snapshot",
		Description: `Run every enabled collector once, merge the results into a fleet
snapshot, and commit it to the local cache and history.

Collection against login nodes is admission controlled: concurrent
sessions are capped, per-target polls are spaced out, and targets that
keep failing are paused before being retried.

# Examples

Collect with the configured collectors:
  fleetscope collect

Collect and write the snapshot to a file as YAML:
  fleetscope collect --output fleet.yaml --format yaml

Collect with a shorter overall deadline:
  fleetscope collect --timeout 2m`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "overall deadline for the collection cycle",
				Value: defaults.CLICollectTimeout,
			},
			&cli.BoolFlag{
				Name:  "summary-only",
				Usage: "print only the fleet summary instead of the full snapshot",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			cfg := configFromContext(ctx)

			cols := collectors.FromConfig(cfg)
			if len(cols) == 0 {
				return fmt.Errorf("no collectors enabled, check the collectors section of the configuration")
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			admit := admission.New(cfg.AdmissionConfig())

			orch := refresh.New(refresh.Config{
				Interval: cfg.RefreshInterval(),
				Timeout:  cfg.RefreshTimeout(),
			}, admit, st, cols...)

			runCtx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			start := time.Now()
			snap, err := orch.Refresh(runCtx)
			if err != nil {
				return fmt.Errorf("collection cycle failed: %w", err)
			}

			slog.Info("collection cycle completed",
				"snapshot", snap.ID,
				"clusters", len(snap.Clusters),
				"duration", time.Since(start).Round(time.Millisecond).String())

			if cmd.Bool("summary-only") {
				return writeResult(ctx, cmd, snap.Summary)
			}
			return writeResult(ctx, cmd, snap)
		},
	}
}
