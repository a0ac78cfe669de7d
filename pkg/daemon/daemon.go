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

package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/fleetscope/fleetscope/pkg/admission"
	"github.com/fleetscope/fleetscope/pkg/collectors"
	"github.com/fleetscope/fleetscope/pkg/config"
	"github.com/fleetscope/fleetscope/pkg/logging"
	"github.com/fleetscope/fleetscope/pkg/refresh"
	"github.com/fleetscope/fleetscope/pkg/server"
	"github.com/fleetscope/fleetscope/pkg/store"
)

const (
	name           = "fleetscoped"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/fleetscope/fleetscope/pkg/daemon.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve assembles the daemon from configuration and runs the refresh
// loop alongside the ops HTTP server until a termination signal.
func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv(config.EnvConfig))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"deployment", cfg.Deployment,
	)

	return serve(ctx, cfg)
}

func serve(ctx context.Context, cfg *config.Config) error {
	cols := collectors.FromConfig(cfg)
	if len(cols) == 0 {
		return fmt.Errorf("no collectors enabled, check the collectors section of the configuration")
	}
	for _, c := range cols {
		slog.Info("collector enabled", "collector", c.Name())
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data dir %q: %w", cfg.DataDir, err)
	}

	admit := admission.New(cfg.AdmissionConfig())

	orch := refresh.New(refresh.Config{
		Interval: cfg.RefreshInterval(),
		Timeout:  cfg.RefreshTimeout(),
	}, admit, st, cols...)

	srv := server.New(server.Config{
		Name:    name,
		Version: version,
		Address: cfg.Server.Address,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(gctx)
	})

	g.Go(func() error {
		// Readiness means "a snapshot exists", not "the loop is
		// running", so flip it only after the first cycle.
		if _, err := orch.Refresh(gctx); err != nil {
			slog.Warn("initial refresh failed", "error", err)
		}
		srv.SetReady(true)
		return orch.Run(gctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		slog.Error("daemon exited with error", "error", err)
		return err
	}

	slog.Info("daemon stopped")
	return nil
}
