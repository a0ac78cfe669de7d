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
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/fleetscope/fleetscope/pkg/model"
)

// fleetStatus is the status command output.
type fleetStatus struct {
	Snapshot   string              `json:"snapshot" yaml:"snapshot"`
	CollectedAt time.Time          `json:"collected_at" yaml:"collected_at"`
	Age        string              `json:"age" yaml:"age"`
	Summary    *model.FleetSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Systems    []systemLine        `json:"systems,omitempty" yaml:"systems,omitempty"`
}

// systemLine is one system's row in the status output.
type systemLine struct {
	System    string `json:"system" yaml:"system"`
	Site      string `json:"site,omitempty" yaml:"site,omitempty"`
	Scheduler string `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`
	Status    string `json:"status" yaml:"status"`
	Queues    int    `json:"queues" yaml:"queues"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		Aliases:               []string{"s"},
		EnableShellCompletion: true,
		Usage:                 "Show fleet summary from the cached snapshot",
		Description: `Show the fleet summary from the most recent snapshot: per-system
operational status, counts by site and scheduler, and the snapshot age.

Reads only the local cache; run "fleetscope collect" to refresh it.

# Examples

Fleet summary as a table:
  fleetscope status --format table

Per-system detail as YAML:
  fleetscope status --systems --format yaml`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "systems",
				Usage: "include a per-system status listing",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			cfg := configFromContext(ctx)

			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			out := fleetStatus{
				Snapshot:    snap.ID,
				CollectedAt: snap.CreatedAt,
				Age:         snap.Age(time.Now()).Round(time.Second).String(),
				Summary:     snap.Summary,
			}

			if cmd.Bool("systems") {
				for _, cs := range snap.Clusters {
					out.Systems = append(out.Systems, systemLine{
						System:    cs.Status.System,
						Site:      cs.Status.Site,
						Scheduler: cs.Status.Scheduler,
						Status:    cs.Status.Status.String(),
						Queues:    len(cs.Queues),
					})
				}
				sort.Slice(out.Systems, func(i, j int) bool {
					return out.Systems[i].System < out.Systems[j].System
				})
			}

			return writeResult(ctx, cmd, out)
		},
	}
}
