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

// Package defaults provides centralized configuration constants for fleetscope.
//
// This package defines timeout values, admission parameters, and other
// configuration defaults used across the codebase. Centralizing these values
// ensures consistency and makes tuning easier.
//
// # Constant Categories
//
// Constants are organized by component:
//
//   - Collection timeouts: For scheduler and storage data collection
//   - Admission defaults: Concurrency caps, rate limits, pause behavior
//   - Server timeouts: For the ops HTTP server configuration
//   - HTTP client timeouts: For outbound HTTP requests
//   - CLI timeouts: For one-shot command-line operations
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/fleetscope/fleetscope/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// When choosing timeout values:
//
//   - Collectors: 60s per pass, 30s per login-node command
//   - Refresh: 5m between cycles, matching status page update cadence
//   - Admission: 60s minimum spacing per target, 5m pause after repeated failures
//   - Server shutdown: 30s for graceful shutdown
package defaults
