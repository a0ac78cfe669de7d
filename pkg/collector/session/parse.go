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

package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/normalize"
)

// ParseClusterTable extracts cluster URIs from a gateway cluster
// listing. The listing is a pipe-drawn table; only rows with status
// "on" and type "existing" are live login targets. Separator and
// header lines are skipped, and rows that do not look like table rows
// are ignored rather than failing the whole parse.
func ParseClusterTable(out string) []string {
	var uris []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasPrefix(line, "+") || strings.TrimSpace(line) == "" {
			continue
		}
		up := strings.ToUpper(line)
		if strings.Contains(up, "URI") || strings.Contains(up, "STATUS") || strings.Contains(up, "TYPE") {
			continue
		}

		clean := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "|"))
		if clean == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(clean, "|") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) < 3 {
			continue
		}
		if parts[1] == "on" && parts[2] == "existing" {
			uris = append(uris, parts[0])
		}
	}
	return uris
}

// ParseUsage extracts allocation rows from the output of the login-node
// usage summary command. The table starts at a header line mentioning
// System, Subproject, and Allocated, followed by a separator; each data
// row carries at least seven whitespace-separated columns:
//
//	system subproject allocated used remaining percent_remaining background
//
// Rows that fail to parse are skipped.
func ParseUsage(out string, observed time.Time) []model.AllocationInfo {
	var (
		allocs    []model.AllocationInfo
		inTable   bool
		separator bool
	)
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "System") && strings.Contains(line, "Subproject") &&
			strings.Contains(line, "Allocated") {
			inTable = true
			separator = false
			continue
		}
		if !inTable {
			continue
		}
		if strings.HasPrefix(line, "=") || strings.HasPrefix(line, "--------") {
			separator = true
			continue
		}
		if !separator || strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 7 {
			continue
		}
		allocated, err1 := strconv.ParseFloat(parts[2], 64)
		used, err2 := strconv.ParseFloat(parts[3], 64)
		remaining, err3 := strconv.ParseFloat(parts[4], 64)
		background, err4 := strconv.ParseFloat(parts[6], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSuffix(parts[5], "%"), 64); err != nil {
			continue
		}
		allocs = append(allocs, model.AllocationInfo{
			System:          parts[0],
			Project:         parts[1],
			AllocatedHours:  allocated,
			UsedHours:       used,
			RemainingHours:  remaining,
			BackgroundHours: background,
			ObservedAt:      observed,
		})
	}
	return allocs
}

// NodeLine is one row of the node-information table: a node class with
// its capacity and current core occupancy.
type NodeLine struct {
	Type           string
	Nodes          int64
	CoresPerNode   int64
	CoresAvailable int64
	CoresRunning   int64
	CoresFree      int64
}

// QueueTables holds the parsed sections of the login-node queue
// summary output.
type QueueTables struct {
	Queues []model.QueueInfo
	Nodes  []NodeLine
}

// ParseQueueTables extracts the queue and node tables from the output
// of the login-node queue summary command. Queue rows carry at least
// ten columns:
//
//	name max_walltime max_jobs max_cores max_cores_per_job
//	jobs_running jobs_pending cores_running cores_pending type
//
// and node rows at least five:
//
//	type nodes cores_per_node cores_available cores_running [cores_free]
//
// Malformed rows are skipped; both tables may be absent.
func ParseQueueTables(system, out string, observed time.Time) QueueTables {
	var (
		qt      QueueTables
		inQueue bool
		inNode  bool
	)
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "QUEUE INFORMATION:") || strings.Contains(line, "Queue Name"):
			inQueue, inNode = true, false
			continue
		case strings.Contains(line, "NODE INFORMATION:") || strings.Contains(line, "Node Type"):
			inQueue, inNode = false, true
			continue
		}
		if strings.HasPrefix(line, "=") || strings.HasPrefix(line, "-") ||
			strings.HasPrefix(line, "|") || strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Fields(line)
		switch {
		case inQueue && len(parts) >= 10:
			if q, ok := parseQueueRow(system, parts, observed); ok {
				qt.Queues = append(qt.Queues, q)
			}
		case inNode && len(parts) >= 5:
			if n, ok := parseNodeRow(parts); ok {
				qt.Nodes = append(qt.Nodes, n)
			}
		}
	}
	return qt
}

func parseQueueRow(system string, parts []string, observed time.Time) (model.QueueInfo, bool) {
	maxCores, err1 := strconv.ParseInt(parts[3], 10, 64)
	running, err2 := strconv.Atoi(parts[5])
	pending, err3 := strconv.Atoi(parts[6])
	coresRunning, err4 := strconv.ParseInt(parts[7], 10, 64)
	coresPending, err5 := strconv.ParseInt(parts[8], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return model.QueueInfo{}, false
	}

	secs, display := normalize.ParseWalltime(parts[1])
	q := model.QueueInfo{
		System:             system,
		Name:               parts[0],
		State:              model.QueueActive,
		Type:               queueType(parts[9], parts[0]),
		MaxWalltimeSeconds: secs,
		MaxWalltimeDisplay: display,
		WalltimeUnlimited:  display == "unlimited",
		RunningJobs:        running,
		PendingJobs:        pending,
		Cores: model.ResourcePool{
			Unit:     model.UnitCores,
			Capacity: model.Capacity{Total: maxCores},
			Availability: model.Availability{
				Allocated: coresRunning,
				Pending:   coresPending,
			},
		},
		ObservedAt: observed,
	}
	return q, true
}

// queueType prefers the table's own type column and falls back to
// name-based classification when the column is uninformative.
func queueType(column, name string) model.QueueType {
	switch strings.ToLower(column) {
	case "debug", "test":
		return model.QueueTypeDebug
	case "gpu":
		return model.QueueTypeGPU
	case "bigmem", "himem":
		return model.QueueTypeBigMem
	case "interactive":
		return model.QueueTypeInteractive
	}
	return model.QueueTypeFromName(name)
}

func parseNodeRow(parts []string) (NodeLine, bool) {
	nodes, err1 := strconv.ParseInt(parts[1], 10, 64)
	perNode, err2 := strconv.ParseInt(parts[2], 10, 64)
	avail, err3 := strconv.ParseInt(parts[3], 10, 64)
	running, err4 := strconv.ParseInt(parts[4], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return NodeLine{}, false
	}
	n := NodeLine{
		Type:           parts[0],
		Nodes:          nodes,
		CoresPerNode:   perNode,
		CoresAvailable: avail,
		CoresRunning:   running,
	}
	if len(parts) > 5 {
		if free, err := strconv.ParseInt(parts[5], 10, 64); err == nil {
			n.CoresFree = free
		}
	}
	return n, true
}

// pools aggregates node lines into system-level node and core pools.
// Returns nil pools when there are no node lines.
func pools(nodes []NodeLine) (corePool, nodePool *model.ResourcePool) {
	if len(nodes) == 0 {
		return nil, nil
	}
	cores := &model.ResourcePool{Unit: model.UnitCores}
	nodeTotals := &model.ResourcePool{Unit: model.UnitNodes}
	for _, n := range nodes {
		nodeTotals.Capacity.Total += n.Nodes
		cores.Capacity.Total += n.Nodes * n.CoresPerNode
		cores.Capacity.Allocatable += n.CoresAvailable
		cores.Availability.Allocated += n.CoresRunning
		cores.Availability.Idle += n.CoresFree
	}
	if cores.Capacity.Allocatable > cores.Capacity.Total {
		cores.Capacity.Total = cores.Capacity.Allocatable
	}
	return cores, nodeTotals
}
