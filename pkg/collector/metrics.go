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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_collect_total",
			Help: "Total number of collection attempts",
		},
		[]string{"collector", "status"}, // success or error
	)

	collectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetscope_collect_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"collector"},
	)
)

// ObserveCollect records the outcome of one collection attempt. Every
// Collector implementation calls it from Collect.
func ObserveCollect(name string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	collectTotal.WithLabelValues(name, status).Inc()
	collectDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
