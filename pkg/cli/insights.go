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
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/fleetscope/fleetscope/pkg/insight"
	"github.com/fleetscope/fleetscope/pkg/model"
)

func insightsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "insights",
		Aliases:               []string{"in"},
		EnableShellCompletion: true,
		Usage:                 "List notable conditions across the fleet",
		Description: `Derive notable conditions from the cached snapshot: systems down or
degraded, allocations running low or expiring, filesystems filling up,
and queues with unusual backlogs. Insights are ordered most urgent
first.

Reads only the cached snapshot; run "fleetscope collect" to refresh it.

# Examples

All insights:
  fleetscope insights

Only critical ones, as a table:
  fleetscope insights --min-severity critical --format table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "min-severity",
				Usage: "least urgent severity to include (critical, warning, info, suggestion)",
				Value: "suggestion",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			minSev := model.InsightSeverity(strings.ToUpper(cmd.String("min-severity")))
			if minSev.Rank() > model.SeveritySuggestion.Rank() {
				return fmt.Errorf("unknown severity: %q", cmd.String("min-severity"))
			}

			cfg := configFromContext(ctx)
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			all := insight.GenerateInsights(snap.Clusters, time.Now())

			insights := all[:0:0]
			for _, in := range all {
				if in.Severity.Rank() <= minSev.Rank() {
					insights = append(insights, in)
				}
			}

			out := struct {
				Snapshot    string                `json:"snapshot" yaml:"snapshot"`
				GeneratedAt time.Time             `json:"generated_at" yaml:"generated_at"`
				Insights    []model.SystemInsight `json:"insights" yaml:"insights"`
			}{
				Snapshot:    snap.ID,
				GeneratedAt: time.Now().UTC(),
				Insights:    insights,
			}

			return writeResult(ctx, cmd, out)
		},
	}
}
