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

package defaults

import "time"

// Collection timeouts and intervals.
const (
	// CollectorTimeout is the default timeout for a collector pass.
	// Collectors should respect parent context deadlines when shorter.
	CollectorTimeout = 60 * time.Second

	// GatewayCommandTimeout bounds a single login-node command.
	// Should be less than CollectorTimeout so a slow command cannot
	// consume the whole collection budget.
	GatewayCommandTimeout = 30 * time.Second

	// StatusPageTimeout is the timeout for the fleet status page fetch.
	StatusPageTimeout = 20 * time.Second

	// RefreshInterval is the default period between refresh cycles.
	RefreshInterval = 5 * time.Minute

	// CacheMaxAge is how old a cached snapshot may be before readers
	// treat it as stale.
	CacheMaxAge = time.Hour

	// HistoryRetention is how far back snapshot history is kept before
	// pruning.
	HistoryRetention = 7 * 24 * time.Hour
)

// Admission defaults for scheduler-facing request gating.
const (
	// AdmissionMaxConcurrent is the fleet-wide in-flight collection cap.
	AdmissionMaxConcurrent = 3

	// AdmissionMinInterval is the minimum spacing between collections
	// against the same target.
	AdmissionMinInterval = 60 * time.Second

	// AdmissionFailureThreshold is the consecutive-failure count that
	// pauses a target.
	AdmissionFailureThreshold = 3

	// AdmissionPauseDuration is how long a failing target stays paused
	// before collection is retried.
	AdmissionPauseDuration = 5 * time.Minute
)

// Server timeouts for the ops HTTP endpoint.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLICollectTimeout is the default timeout for a one-shot collect.
	CLICollectTimeout = 5 * time.Minute
)
