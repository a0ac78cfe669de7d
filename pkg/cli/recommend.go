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

// requirementsFromFlags builds queue requirements from the shared
// recommend/balance flags.
func requirementsFromFlags(cmd *cli.Command) (insight.Requirements, error) {
	req := insight.Requirements{
		WalltimeSeconds: int64(cmd.Duration("walltime").Seconds()),
		Cores:           cmd.Int64("cores"),
		GPUs:            cmd.Int64("gpus"),
	}

	if qt := cmd.String("type"); qt != "" {
		t := model.QueueType(strings.ToUpper(qt))
		switch t {
		case model.QueueTypeBatch, model.QueueTypeDebug, model.QueueTypeGPU,
			model.QueueTypeBigMem, model.QueueTypeInteractive:
			req.Type = t
		default:
			return req, fmt.Errorf("unknown queue type: %q, supported types: batch, debug, gpu, bigmem, interactive", qt)
		}
	}

	return req, nil
}

// requirementFlags are shared by recommend and balance.
func requirementFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:    "walltime",
			Aliases: []string{"w"},
			Usage:   "walltime the job needs (e.g. 4h, 30m)",
		},
		&cli.Int64Flag{
			Name:    "cores",
			Aliases: []string{"c"},
			Usage:   "cores the job needs",
		},
		&cli.Int64Flag{
			Name:    "gpus",
			Aliases: []string{"g"},
			Usage:   "GPUs the job needs",
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "restrict to one queue type (batch, debug, gpu, bigmem, interactive)",
		},
	}
}

func recommendCmd() *cli.Command {
	return &cli.Command{
		Name:                  "recommend",
		Aliases:               []string{"rec"},
		EnableShellCompletion: true,
		Usage:                 "Rank queues for a job's requirements",
		Description: `Rank queues across the fleet for a job with the given requirements.

Queues on systems that are not up, queues not accepting jobs, and
queues that cannot satisfy a stated requirement are excluded. The rest
are scored by expected wait, queue type, and backlog.

Reads only the cached snapshot; run "fleetscope collect" to refresh it.

# Examples

Best queues for a 4-hour, 256-core job:
  fleetscope recommend --walltime 4h --cores 256

Debug queues only, as a table:
  fleetscope recommend --type debug --format table`,
		Flags: append(requirementFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "maximum number of recommendations",
				Value:   insight.MaxRecommendations,
			},
			outputFlag,
			formatFlag,
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			req, err := requirementsFromFlags(cmd)
			if err != nil {
				return err
			}

			cfg := configFromContext(ctx)
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			recs := insight.RecommendQueues(snap.Clusters, req)
			if limit := cmd.Int("limit"); limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}

			out := struct {
				Snapshot        string                        `json:"snapshot" yaml:"snapshot"`
				GeneratedAt     time.Time                     `json:"generated_at" yaml:"generated_at"`
				Recommendations []insight.QueueRecommendation `json:"recommendations" yaml:"recommendations"`
			}{
				Snapshot:        snap.ID,
				GeneratedAt:     time.Now().UTC(),
				Recommendations: recs,
			}

			return writeResult(ctx, cmd, out)
		},
	}
}
