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

package collector

import (
	"context"
	"time"

	"github.com/fleetscope/fleetscope/pkg/errors"
	"github.com/fleetscope/fleetscope/pkg/model"
)

// Collector gathers scheduler state from one source.
type Collector interface {
	// Name is the stable identifier used in config, logs, and metrics.
	Name() string

	// DisplayName is the human-readable source name.
	DisplayName() string

	// Available reports whether the source can currently be reached.
	// It must be fast and side-effect free.
	Available(ctx context.Context) bool

	// Collect gathers the source's current view. Implementations must
	// honor ctx cancellation and return partial data with nil error
	// only when the partial data is usable on its own.
	Collect(ctx context.Context) (*Result, error)
}

// Result is one collector's contribution to a snapshot: cluster state
// keyed by system slug. A collector fills only the fields it observes;
// the refresh layer merges results from all sources.
type Result struct {
	Collector   string                         `json:"collector" yaml:"collector"`
	CollectedAt time.Time                      `json:"collected_at" yaml:"collected_at"`
	Clusters    map[string]*model.ClusterState `json:"clusters" yaml:"clusters"`
}

// NewResult creates an empty result stamped with the collector name
// and current time.
func NewResult(name string) *Result {
	return &Result{
		Collector:   name,
		CollectedAt: time.Now().UTC(),
		Clusters:    make(map[string]*model.ClusterState),
	}
}

// Cluster returns the result's state for the given slug, creating it
// on first use.
func (r *Result) Cluster(slug string) *model.ClusterState {
	cs, ok := r.Clusters[slug]
	if !ok {
		cs = &model.ClusterState{}
		r.Clusters[slug] = cs
	}
	return cs
}

// TimeoutError builds the structured error collectors return when a
// source exceeds its deadline.
func TimeoutError(name string, timeout time.Duration, cause error) error {
	return errors.WrapWithContext(cause, errors.ErrCodeTimeout,
		"collection exceeded deadline",
		map[string]any{"collector": name, "timeout": timeout.String()})
}

// CollectError wraps a source failure with the collector name attached.
func CollectError(name string, cause error) error {
	return errors.WrapWithContext(cause, errors.ErrCodeCollector,
		"collection failed",
		map[string]any{"collector": name})
}
