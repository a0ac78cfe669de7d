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

package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/fleetscope/fleetscope/pkg/model"
)

// Allocation thresholds, percent remaining.
const (
	allocCriticalPct = 5
	allocLowPct      = 20
	allocWatchPct    = 40
)

// Queue backlog thresholds, pending jobs.
const (
	backlogHighJobs  = 100
	backlogWatchJobs = 50
)

// GenerateInsights evaluates every cluster in the snapshot and emits
// severity-ranked observations: system availability, allocation
// exhaustion, storage pressure, and queue congestion. The output is
// sorted by severity, then priority descending, and is stable for
// identical input, so generating twice yields identical slices.
func GenerateInsights(clusters map[string]*model.ClusterState, now time.Time) []model.SystemInsight {
	var out []model.SystemInsight

	for _, key := range sortedKeys(clusters) {
		cs := clusters[key]
		if cs == nil {
			continue
		}
		out = append(out, systemInsights(cs.Status)...)
		for _, a := range cs.Allocations {
			out = append(out, allocationInsights(a, now)...)
		}
		for _, st := range cs.Storage {
			out = append(out, storageInsights(st)...)
		}
		for _, q := range cs.Queues {
			out = append(out, queueInsights(q)...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() < out[j].Severity.Rank()
		}
		return out[i].Priority > out[j].Priority
	})
	insightsGenerated.Add(float64(len(out)))
	return out
}

func systemInsights(s model.SystemStatus) []model.SystemInsight {
	switch s.Status {
	case model.StatusDown:
		msg := fmt.Sprintf("%s is down", s.System)
		if s.StatusReason != "" {
			msg = fmt.Sprintf("%s is down: %s", s.System, s.StatusReason)
		}
		return []model.SystemInsight{{
			Type:              model.InsightAlert,
			Severity:          model.SeverityCritical,
			Priority:          100,
			System:            s.System,
			Metric:            "system_status",
			Message:           msg,
			ActionDescription: "submit work to another system until it recovers",
		}}
	case model.StatusDegraded:
		return []model.SystemInsight{{
			Type:              model.InsightWarning,
			Severity:          model.SeverityWarning,
			Priority:          80,
			System:            s.System,
			Metric:            "system_status",
			Message:           fmt.Sprintf("%s is degraded, expect reduced capacity", s.System),
			ActionDescription: "check queue depths before submitting large jobs",
		}}
	case model.StatusMaintenance:
		return []model.SystemInsight{{
			Type:     model.InsightInfo,
			Severity: model.SeverityInfo,
			Priority: 40,
			System:   s.System,
			Metric:   "system_status",
			Message:  fmt.Sprintf("%s is in maintenance", s.System),
		}}
	}
	return nil
}

func allocationInsights(a model.AllocationInfo, now time.Time) []model.SystemInsight {
	status := a.StatusAt(now)
	pct := a.PercentRemaining()

	switch status {
	case model.AllocationExpired:
		return []model.SystemInsight{{
			Type:              model.InsightAlert,
			Severity:          model.SeverityWarning,
			Priority:          70,
			System:            a.System,
			Project:           a.Project,
			Metric:            "allocation_period",
			Message:           fmt.Sprintf("allocation period for %s on %s has ended", a.Project, a.System),
			ActionDescription: "request a new allocation period",
		}}
	case model.AllocationExhausted, model.AllocationCritical:
		in := model.SystemInsight{
			Type:              model.InsightAlert,
			Severity:          model.SeverityCritical,
			Priority:          95,
			System:            a.System,
			Project:           a.Project,
			Metric:            "allocation_remaining_percent",
			Message:           fmt.Sprintf("allocation for %s on %s is nearly exhausted (%.1f%% remaining)", a.Project, a.System, pct),
			ActionDescription: "shift work to background queues or request supplemental hours",
		}
		if days := a.DaysRemainingAtCurrentRate(); days >= 0 {
			in.Message = fmt.Sprintf("%s, about %d days at the current burn rate", in.Message, days)
		}
		return []model.SystemInsight{in}
	case model.AllocationLow:
		return []model.SystemInsight{{
			Type:              model.InsightWarning,
			Severity:          model.SeverityWarning,
			Priority:          60,
			System:            a.System,
			Project:           a.Project,
			Metric:            "allocation_remaining_percent",
			Message:           fmt.Sprintf("allocation for %s on %s is low (%.1f%% remaining)", a.Project, a.System, pct),
			ActionDescription: "review job sizing and prioritize essential runs",
		}}
	}

	if pct < allocWatchPct {
		return []model.SystemInsight{{
			Type:     model.InsightInfo,
			Severity: model.SeverityInfo,
			Priority: 35,
			System:   a.System,
			Project:  a.Project,
			Metric:   "allocation_remaining_percent",
			Message:  fmt.Sprintf("allocation for %s on %s is below %d%%, worth watching the burn rate", a.Project, a.System, allocWatchPct),
		}}
	}
	return nil
}

func storageInsights(st model.StorageInfo) []model.SystemInsight {
	switch st.Status() {
	case model.StorageCritical:
		return []model.SystemInsight{{
			Type:              model.InsightAlert,
			Severity:          model.SeverityCritical,
			Priority:          90,
			System:            st.System,
			Storage:           st.MountPoint,
			Metric:            "storage_percent_used",
			Message:           fmt.Sprintf("%s on %s is %.1f%% full", st.MountPoint, st.System, st.PercentUsed),
			ActionDescription: "archive or delete data before jobs start failing on writes",
			ActionCommand:     fmt.Sprintf("du -sh %s/*", st.MountPoint),
		}}
	case model.StorageWarning:
		return []model.SystemInsight{{
			Type:              model.InsightWarning,
			Severity:          model.SeverityWarning,
			Priority:          50,
			System:            st.System,
			Storage:           st.MountPoint,
			Metric:            "storage_percent_used",
			Message:           fmt.Sprintf("%s on %s is %.1f%% full", st.MountPoint, st.System, st.PercentUsed),
			ActionDescription: "clean up scratch data",
		}}
	}
	return nil
}

func queueInsights(q model.QueueInfo) []model.SystemInsight {
	if q.State != model.QueueActive {
		return nil
	}
	switch {
	case q.PendingJobs > backlogHighJobs:
		return []model.SystemInsight{{
			Type:              model.InsightWarning,
			Severity:          model.SeverityWarning,
			Priority:          55,
			System:            q.System,
			Queue:             q.Name,
			Metric:            "pending_jobs",
			Message:           fmt.Sprintf("queue %s on %s is congested with %d pending jobs", q.Name, q.System, q.PendingJobs),
			ActionDescription: "consider an alternate queue or system for new submissions",
		}}
	case q.PendingJobs > backlogWatchJobs:
		return []model.SystemInsight{{
			Type:     model.InsightRecommendation,
			Severity: model.SeveritySuggestion,
			Priority: 30,
			System:   q.System,
			Queue:    q.Name,
			Metric:   "pending_jobs",
			Message:  fmt.Sprintf("queue %s on %s has a growing backlog (%d pending)", q.Name, q.System, q.PendingJobs),
		}}
	}
	return nil
}
