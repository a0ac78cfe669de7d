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

package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_store_commit_total",
			Help: "Total number of snapshot commit attempts",
		},
		[]string{"status"}, // success or error
	)

	commitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleetscope_store_commit_duration_seconds",
			Help:    "Time taken to persist a snapshot",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetscope_store_cache_hits_total",
			Help: "Total number of cache reads that returned a usable snapshot",
		},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_store_cache_misses_total",
			Help: "Total number of cache reads that found no usable snapshot",
		},
		[]string{"reason"}, // absent, stale, corrupt
	)

	pruneDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetscope_store_prune_dropped_total",
			Help: "Total number of history records removed by pruning",
		},
	)

	snapshotClusters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetscope_store_snapshot_clusters",
			Help: "Number of clusters in the last committed snapshot",
		},
	)
)
