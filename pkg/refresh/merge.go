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

package refresh

import (
	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/store"
)

// mergeResults folds per-collector results into one cluster map. Later
// results in the slice win on conflicting fields, so collector
// registration order sets precedence.
func mergeResults(results []*collector.Result) map[string]*model.ClusterState {
	merged := make(map[string]*model.ClusterState)
	for _, res := range results {
		if res == nil {
			continue
		}
		for slug, in := range res.Clusters {
			cur, ok := merged[slug]
			if !ok {
				cur = &model.ClusterState{}
				merged[slug] = cur
			}
			mergeCluster(cur, in)
		}
	}
	return merged
}

// fillFromPrevious overlays this cycle's clusters on the last known
// snapshot. A cluster no collector reported this cycle carries over
// wholesale; a reported cluster keeps the previous cycle's queues,
// allocations, or storage when this cycle brought none. Stale entries
// keep their original ObservedAt.
func fillFromPrevious(prev *store.Snapshot, fresh map[string]*model.ClusterState) map[string]*model.ClusterState {
	if prev == nil || len(prev.Clusters) == 0 {
		return fresh
	}
	out := make(map[string]*model.ClusterState, len(prev.Clusters)+len(fresh))
	for slug, cs := range prev.Clusters {
		out[slug] = cs
	}
	for slug, cs := range fresh {
		if old, ok := out[slug]; ok && old != nil {
			if len(cs.Queues) == 0 {
				cs.Queues = old.Queues
			}
			if len(cs.Allocations) == 0 {
				cs.Allocations = old.Allocations
			}
			if len(cs.Storage) == 0 {
				cs.Storage = old.Storage
			}
		}
		out[slug] = cs
	}
	return out
}

// mergeCluster folds src into dst. Queue and allocation lists replace
// wholesale because each source reports a complete view of them;
// storage entries accumulate because sources report disjoint mounts.
func mergeCluster(dst, src *model.ClusterState) {
	mergeStatus(&dst.Status, src.Status)
	if len(src.Queues) > 0 {
		dst.Queues = src.Queues
	}
	if len(src.Allocations) > 0 {
		dst.Allocations = src.Allocations
	}
	dst.Storage = append(dst.Storage, src.Storage...)
}

// mergeStatus overlays a later observation on an earlier one. A later
// definitive operational status wins; identity fields fill gaps only,
// so the first source to name a scheduler or login host keeps it.
func mergeStatus(dst *model.SystemStatus, src model.SystemStatus) {
	if src.System == "" {
		return
	}
	if dst.System == "" {
		*dst = src
		return
	}

	if src.Status != "" && src.Status != model.StatusUnknown {
		dst.Status = src.Status
		if src.StatusReason != "" {
			dst.StatusReason = src.StatusReason
		}
		if src.RawStatus != "" {
			dst.RawStatus = src.RawStatus
		}
	}
	if dst.DisplayName == "" {
		dst.DisplayName = src.DisplayName
	}
	if dst.Site == "" {
		dst.Site = src.Site
	}
	if dst.Organization == "" {
		dst.Organization = src.Organization
	}
	if dst.Scheduler == "" {
		dst.Scheduler = src.Scheduler
	}
	if dst.LoginHost == "" {
		dst.LoginHost = src.LoginHost
	}
	if dst.SourceURL == "" {
		dst.SourceURL = src.SourceURL
	}
	if dst.Cores == nil {
		dst.Cores = src.Cores
	}
	if dst.Nodes == nil {
		dst.Nodes = src.Nodes
	}
	if src.ObservedAt.After(dst.ObservedAt) {
		dst.ObservedAt = src.ObservedAt
	}
}

// summarize computes the fleet summary over the merged clusters.
func summarize(clusters map[string]*model.ClusterState) model.FleetSummary {
	systems := make([]model.SystemStatus, 0, len(clusters))
	for _, cs := range clusters {
		if cs.Status.System != "" {
			systems = append(systems, cs.Status)
		}
	}
	return model.Summarize(systems)
}
