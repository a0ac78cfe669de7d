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

// Package server implements the fleetscoped ops HTTP endpoint.
//
// The daemon exposes no fleet data over HTTP; this server carries only
// the operational surface:
//
//   - GET /        - identity and route listing
//   - GET /health  - liveness probe
//   - GET /ready   - readiness probe, false until the first refresh lands
//   - GET /metrics - Prometheus metrics
//
// # Architecture
//
//   - Rate limiting using token bucket algorithm (golang.org/x/time/rate)
//   - Request ID tracking via X-Request-Id
//   - Panic recovery for resilience
//   - Graceful shutdown handling
//
// # Usage
//
//	srv := server.New(server.Config{
//	    Name:    "fleetscoped",
//	    Version: version,
//	    Address: ":8080",
//	})
//	srv.SetReady(true)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until the context is canceled, then shuts down
// gracefully within Config.ShutdownTimeout.
package server
