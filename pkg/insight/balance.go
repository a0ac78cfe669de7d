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
	"math"
	"sort"
	"strings"

	"github.com/fleetscope/fleetscope/pkg/model"
)

const (
	// nominalQueueCores stands in for a queue's core pool when the
	// collector reported no core accounting, so systems without that
	// telemetry still participate in load balancing.
	nominalQueueCores = 1000

	// pendingCoreDiscount weights cores already waiting in queue: each
	// pending core costs the system two cores of effective capacity.
	pendingCoreDiscount = 2
)

// Assignment is one slice of a load-balance plan: how many jobs to
// send to a system, through which queue, and why.
type Assignment struct {
	System        string  `json:"system" yaml:"system"`
	Queue         string  `json:"queue" yaml:"queue"`
	Jobs          int     `json:"jobs" yaml:"jobs"`
	CapacityShare float64 `json:"capacity_share" yaml:"capacity_share"`
	Reason        string  `json:"reason" yaml:"reason"`
}

// SuggestLoadBalance splits jobCount jobs across systems in proportion
// to each system's available capacity: the idle cores of its eligible
// queues, discounted by cores already waiting. Systems that are not
// up, are explicitly avoided, lack the required storage, or whose
// allocation is nearly depleted are excluded. The assigned counts
// always sum to exactly jobCount: fractional shares are settled by
// largest remainder, with ties going to the higher-capacity system.
// Each assignment names the system's best queue for the requirements.
// Returns nil when no system is eligible or jobCount is not positive.
func SuggestLoadBalance(clusters map[string]*model.ClusterState, req Requirements, jobCount int) []Assignment {
	if jobCount <= 0 {
		return nil
	}

	type candidate struct {
		system   string
		queue    string
		pending  int
		score    float64
		capacity float64
	}
	var cands []candidate
	for _, key := range sortedKeys(clusters) {
		cs := clusters[key]
		if cs == nil || avoided(cs.Status.System, req.AvoidSystems) {
			continue
		}
		if lacksRequiredStorage(cs, req) {
			continue
		}
		if pct, ok := cs.AllocationRemainingPercent(); ok && pct < allocCriticalPct {
			continue
		}

		var c candidate
		c.system = cs.Status.System
		for _, q := range cs.Queues {
			score := ScoreQueue(cs.Status, q, req)
			if score <= 0 {
				continue
			}
			c.capacity += queueFreeCores(q)
			if c.queue == "" || score > c.score ||
				(score == c.score && q.PendingJobs < c.pending) {
				c.queue, c.score, c.pending = q.Name, score, q.PendingJobs
			}
		}
		if c.queue == "" || c.capacity <= 0 {
			continue
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return nil
	}

	var total float64
	for _, c := range cands {
		total += c.capacity
	}

	type share struct {
		whole     int
		remainder float64
	}
	shares := make([]share, len(cands))
	assigned := 0
	for i, c := range cands {
		exact := float64(jobCount) * c.capacity / total
		whole := int(math.Floor(exact))
		shares[i] = share{whole: whole, remainder: exact - float64(whole)}
		assigned += whole
	}

	// Hand the leftover jobs to the largest remainders; capacity breaks
	// remainder ties so the plan is deterministic.
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := shares[order[a]], shares[order[b]]
		if sa.remainder != sb.remainder {
			return sa.remainder > sb.remainder
		}
		return cands[order[a]].capacity > cands[order[b]].capacity
	})
	leftover := jobCount - assigned
	for i := 0; i < leftover; i++ {
		shares[order[i%len(order)]].whole++
	}

	out := make([]Assignment, 0, len(cands))
	for i, c := range cands {
		if shares[i].whole == 0 {
			continue
		}
		pct := c.capacity / total * 100
		out = append(out, Assignment{
			System:        c.system,
			Queue:         c.queue,
			Jobs:          shares[i].whole,
			CapacityShare: pct,
			Reason:        fmt.Sprintf("%.0f%% of available capacity", pct),
		})
	}
	return out
}

// queueFreeCores estimates how many cores a queue can absorb: idle
// cores discounted by cores already pending. A queue that reported no
// core accounting at all assumes a nominal pool discounted by queue
// depth instead.
func queueFreeCores(q model.QueueInfo) float64 {
	pool := q.Cores
	av := pool.Availability
	if pool.Capacity.Total == 0 && av == (model.Availability{}) {
		free := nominalQueueCores - pendingCoreDiscount*int64(q.PendingJobs)
		if free < 0 {
			return 0
		}
		return float64(free)
	}

	idle := av.Idle
	if idle == 0 && pool.Capacity.Total > 0 {
		idle = pool.Capacity.EffectiveAllocatable() - av.Allocated - av.Reserved - av.Offline
		if idle < 0 {
			idle = 0
		}
	}
	free := idle - pendingCoreDiscount*av.Pending
	if free < 0 {
		return 0
	}
	return float64(free)
}

func avoided(system string, avoid []string) bool {
	for _, a := range avoid {
		if strings.EqualFold(a, system) {
			return true
		}
	}
	return false
}

// lacksRequiredStorage reports whether the job's scratch requirement
// rules the system out. Systems reporting no storage at all are not
// excluded: absent data is not evidence of a full filesystem.
func lacksRequiredStorage(cs *model.ClusterState, req Requirements) bool {
	if req.StorageGB <= 0 || len(cs.Storage) == 0 {
		return false
	}
	need := int64(req.StorageGB * float64(1<<30))
	for _, st := range cs.Storage {
		if st.AvailableBytes >= need {
			return false
		}
		if st.AvailableBytes == 0 && st.Status() != model.StorageCritical {
			// Only a percentage was reported; trust any mount that is
			// not critically full.
			return false
		}
	}
	return true
}
