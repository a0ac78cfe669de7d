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

	"github.com/fleetscope/fleetscope/pkg/defaults"
)

func pruneCmd() *cli.Command {
	return &cli.Command{
		Name:                  "prune",
		EnableShellCompletion: true,
		Usage:                 "Drop history entries past the retention window",
		Description: `Remove snapshot history entries older than the retention window.
The current cache file is never touched.

# Examples

Keep the default retention window:
  fleetscope prune

Keep only the last two days:
  fleetscope prune --retention 48h`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "retention",
				Aliases: []string{"r"},
				Usage:   "how far back to keep history entries",
				Value:   defaults.HistoryRetention,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			retention := cmd.Duration("retention")
			if retention <= 0 {
				return fmt.Errorf("retention must be positive, got %s", retention)
			}

			cfg := configFromContext(ctx)

			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			removed, err := st.Prune(retention)
			if err != nil {
				return fmt.Errorf("failed to prune history: %w", err)
			}

			slog.Info("history pruned",
				"removed", removed,
				"retention", retention.String(),
				"duration", time.Since(start).Round(time.Millisecond).String())

			fmt.Fprintf(cmd.Writer, "removed %d history entries older than %s\n", removed, retention)
			return nil
		},
	}
}
