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

	"github.com/fleetscope/fleetscope/pkg/model"
)

// MaxRecommendations caps how many queue recommendations are returned.
const MaxRecommendations = 5

// Requirements describes what a submission needs from a queue. Zero
// fields mean "no requirement".
type Requirements struct {
	// WalltimeSeconds the job needs; queues with a lower limit are
	// excluded. Unlimited queues satisfy any value.
	WalltimeSeconds int64

	// Cores the job needs; queues whose total core pool is known and
	// smaller are excluded.
	Cores int64

	// GPUs the job needs. GPU jobs are steered toward GPU queues and
	// CPU-only jobs away from them.
	GPUs int64

	// StorageGB of scratch space the job needs; load balancing excludes
	// systems whose reported mounts cannot provide it.
	StorageGB float64

	// AvoidSystems excludes specific systems from load balancing.
	AvoidSystems []string

	// Type restricts recommendations to one queue type.
	Type model.QueueType
}

// QueueRecommendation is one ranked queue suggestion.
type QueueRecommendation struct {
	System      string          `json:"system" yaml:"system"`
	Queue       string          `json:"queue" yaml:"queue"`
	Type        model.QueueType `json:"queue_type" yaml:"queue_type"`
	Score       float64         `json:"score" yaml:"score"`
	PendingJobs int             `json:"pending_jobs" yaml:"pending_jobs"`
	WaitSeconds int64           `json:"wait_seconds" yaml:"wait_seconds"`
	Reason      string          `json:"reason" yaml:"reason"`
}

// waitSeconds returns the queue's wait estimate, deriving one from
// queue depth when the collector did not.
func waitSeconds(q model.QueueInfo) int64 {
	if q.WaitEstimateSeconds != nil {
		return *q.WaitEstimateSeconds
	}
	return model.EstimateWaitSeconds(q.PendingJobs)
}

// ScoreQueue rates a queue for submission, higher is better. Queues
// that cannot run the job at all score zero: the system is not up, the
// queue is not accepting jobs, or a stated requirement is not met.
//
// The score starts from the wait estimate (100 minus one point per
// minute of expected wait, floored at zero), adds a type-match bonus
// that steers GPU jobs onto GPU queues (+20) and CPU-only jobs off
// them (+10), and subtracts a backlog penalty of 0.2 per pending job
// capped at 30.
func ScoreQueue(sys model.SystemStatus, q model.QueueInfo, req Requirements) float64 {
	if sys.Status != model.StatusUp {
		return 0
	}
	if q.State != model.QueueActive {
		return 0
	}
	if req.WalltimeSeconds > 0 && !q.WalltimeUnlimited && q.MaxWalltimeSeconds < req.WalltimeSeconds {
		return 0
	}
	if req.Cores > 0 && q.Cores.Capacity.Total > 0 && q.Cores.Capacity.Total < req.Cores {
		return 0
	}
	if req.Type != "" && q.Type != req.Type {
		return 0
	}

	score := 100 - float64(waitSeconds(q))/60
	if score < 0 {
		score = 0
	}

	switch {
	case req.GPUs > 0 && q.Type == model.QueueTypeGPU:
		score += 20
	case req.GPUs == 0 && q.Type != model.QueueTypeGPU:
		score += 10
	}

	penalty := float64(q.PendingJobs) * 0.2
	if penalty > 30 {
		penalty = 30
	}
	score -= penalty
	if score < 0 {
		score = 0
	}
	return score
}

// RecommendQueues ranks every eligible queue in the fleet and returns
// the best candidates, at most MaxRecommendations. Ordering is total:
// score descending, then fewer pending jobs, then system and queue
// name, so equal inputs always produce identical output.
func RecommendQueues(clusters map[string]*model.ClusterState, req Requirements) []QueueRecommendation {
	var recs []QueueRecommendation

	for _, key := range sortedKeys(clusters) {
		cs := clusters[key]
		if cs == nil {
			continue
		}
		for _, q := range cs.Queues {
			score := ScoreQueue(cs.Status, q, req)
			if score <= 0 {
				continue
			}
			wait := waitSeconds(q)
			recs = append(recs, QueueRecommendation{
				System:      cs.Status.System,
				Queue:       q.Name,
				Type:        q.Type,
				Score:       score,
				PendingJobs: q.PendingJobs,
				WaitSeconds: wait,
				Reason:      recommendReason(q, wait),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].PendingJobs != recs[j].PendingJobs {
			return recs[i].PendingJobs < recs[j].PendingJobs
		}
		if recs[i].System != recs[j].System {
			return recs[i].System < recs[j].System
		}
		return recs[i].Queue < recs[j].Queue
	})

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	recommendationsGenerated.Add(float64(len(recs)))
	return recs
}

func recommendReason(q model.QueueInfo, wait int64) string {
	switch {
	case q.PendingJobs == 0:
		return "queue is empty, jobs should start promptly"
	case wait >= 8*60*60:
		return fmt.Sprintf("%d jobs pending, expect long waits", q.PendingJobs)
	default:
		return fmt.Sprintf("%d jobs pending, estimated wait %d minutes", q.PendingJobs, wait/60)
	}
}

func sortedKeys(clusters map[string]*model.ClusterState) []string {
	keys := make([]string, 0, len(clusters))
	for k := range clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
