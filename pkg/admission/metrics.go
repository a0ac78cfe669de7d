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

package admission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	acquireTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_admission_acquire_total",
			Help: "Total number of admitted collection attempts",
		},
		[]string{"target"},
	)

	denialTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_admission_denial_total",
			Help: "Total number of denied collection attempts",
		},
		[]string{"target", "reason"}, // rate_limited, circuit_open, timeout
	)

	failureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_admission_failure_total",
			Help: "Total number of failed collection attempts reported on release",
		},
		[]string{"target"},
	)

	breakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetscope_admission_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"target", "state"}, // open or closed
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetscope_admission_in_flight",
			Help: "Number of collection permits currently held",
		},
	)
)
