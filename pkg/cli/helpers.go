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

	"github.com/fleetscope/fleetscope/pkg/config"
	"github.com/fleetscope/fleetscope/pkg/serializer"
	"github.com/fleetscope/fleetscope/pkg/store"
)

type contextKey string

const contextKeyConfig contextKey = "config"

// withConfig attaches the loaded configuration to the context.
func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, contextKeyConfig, cfg)
}

// configFromContext returns the configuration loaded by the root
// command, falling back to defaults if the Before hook did not run
// (direct command invocation in tests).
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(contextKeyConfig).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// Shared output flags.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format (json, yaml, table)",
		Value:   "json",
	}
)

// parseOutputFormat validates the format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported formats: %v",
			cmd.String("format"), serializer.SupportedFormats())
	}
	return f, nil
}

// writeResult serializes v per the output flags.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, v)
}

// openStore opens the snapshot store under the configured data dir.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data dir %q: %w", cfg.DataDir, err)
	}
	return st, nil
}

// loadSnapshot returns the most recent persisted snapshot, warning
// when it is older than the configured cache window.
func loadSnapshot(cfg *config.Config) (*store.Snapshot, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	snap, err := st.Latest(0)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("no fleet snapshot available, run %q first", "fleetscope collect")
	}

	if age := snap.Age(time.Now()); age > cfg.RefreshInterval() {
		slog.Warn("snapshot is stale",
			"age", age.Round(time.Second).String(),
			"snapshot", snap.ID)
	}

	return snap, nil
}
