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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_refresh_total",
			Help: "Total number of refresh cycles",
		},
		[]string{"status"}, // success, uncommitted, or empty
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleetscope_refresh_duration_seconds",
			Help:    "Time taken by full refresh cycles",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	refreshClusters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetscope_refresh_clusters",
			Help: "Number of clusters in the last merged snapshot",
		},
	)

	collectorSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_refresh_collector_skips_total",
			Help: "Collectors skipped during refresh cycles",
		},
		[]string{"collector", "reason"},
	)
)
