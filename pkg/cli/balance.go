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
	"time"

	"github.com/urfave/cli/v3"

	"github.com/fleetscope/fleetscope/pkg/insight"
)

func balanceCmd() *cli.Command {
	return &cli.Command{
		Name:                  "balance",
		Aliases:               []string{"bal"},
		EnableShellCompletion: true,
		Usage:                 "Split a batch of jobs across recommended queues",
		Description: `Split a batch of identical jobs across the fleet's systems in
proportion to each system's available capacity: the idle cores of its
eligible queues, discounted for backlog. The assigned counts always
sum to the requested job count, and each assignment names the
system's best queue for the requirements.

Reads only the cached snapshot; run "fleetscope collect" to refresh it.

# Examples

Spread 100 jobs across the fleet:
  fleetscope balance --jobs 100

Spread 40 GPU jobs needing 8-hour walltime, avoiding one system:
  fleetscope balance --jobs 40 --type gpu --walltime 8h --avoid mustang`,
		Flags: append(requirementFlags(),
			&cli.IntFlag{
				Name:     "jobs",
				Aliases:  []string{"j"},
				Usage:    "number of jobs to distribute",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "storage",
				Usage: "scratch space each job needs in GB; systems without it are excluded",
			},
			&cli.StringSliceFlag{
				Name:  "avoid",
				Usage: "systems to exclude from the plan (repeatable)",
			},
			outputFlag,
			formatFlag,
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			jobs := cmd.Int("jobs")
			if jobs <= 0 {
				return fmt.Errorf("jobs must be positive, got %d", jobs)
			}

			req, err := requirementsFromFlags(cmd)
			if err != nil {
				return err
			}
			req.StorageGB = cmd.Float64("storage")
			req.AvoidSystems = cmd.StringSlice("avoid")

			cfg := configFromContext(ctx)
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			plan := insight.SuggestLoadBalance(snap.Clusters, req, jobs)
			if len(plan) == 0 {
				return fmt.Errorf("no eligible systems for the given requirements")
			}

			out := struct {
				Snapshot    string               `json:"snapshot" yaml:"snapshot"`
				GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
				Jobs        int                  `json:"jobs" yaml:"jobs"`
				Assignments []insight.Assignment `json:"assignments" yaml:"assignments"`
			}{
				Snapshot:    snap.ID,
				GeneratedAt: time.Now().UTC(),
				Jobs:        jobs,
				Assignments: plan,
			}

			return writeResult(ctx, cmd, out)
		},
	}
}
