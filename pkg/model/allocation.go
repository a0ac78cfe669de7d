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

package model

import "time"

// AllocationInfo is one project's compute-time grant on one system.
// There is exactly one AllocationInfo per (project, system) pair; each
// poll replaces it wholesale.
type AllocationInfo struct {
	System  string `json:"system" yaml:"system"`
	Project string `json:"project" yaml:"project"`

	// PeriodStart and PeriodEnd bound the allocation period. Zero
	// values mean the period is unknown.
	PeriodStart time.Time `json:"period_start,omitempty" yaml:"period_start,omitempty"`
	PeriodEnd   time.Time `json:"period_end,omitempty" yaml:"period_end,omitempty"`

	AllocatedHours float64 `json:"allocated_hours" yaml:"allocated_hours"`
	UsedHours      float64 `json:"used_hours" yaml:"used_hours"`
	RemainingHours float64 `json:"remaining_hours" yaml:"remaining_hours"`

	// PendingHours is compute time committed to queued jobs.
	PendingHours float64 `json:"pending_hours,omitempty" yaml:"pending_hours,omitempty"`

	// BackgroundHours is low-priority usage not charged to the grant.
	BackgroundHours float64 `json:"background_hours,omitempty" yaml:"background_hours,omitempty"`

	// BurnRateHoursPerDay is the observed consumption rate; 0 when no
	// trend data is available.
	BurnRateHoursPerDay float64 `json:"burn_rate_hours_per_day,omitempty" yaml:"burn_rate_hours_per_day,omitempty"`

	ObservedAt time.Time `json:"observed_at" yaml:"observed_at"`
}

// PercentUsed returns used hours as a percentage of the grant.
func (a AllocationInfo) PercentUsed() float64 {
	if a.AllocatedHours <= 0 {
		return 0
	}
	return a.UsedHours / a.AllocatedHours * 100
}

// PercentRemaining returns remaining hours as a percentage of the grant.
func (a AllocationInfo) PercentRemaining() float64 {
	if a.AllocatedHours <= 0 {
		return 0
	}
	return a.RemainingHours / a.AllocatedHours * 100
}

// EffectiveRemainingHours returns hours remaining after subtracting the
// time already committed to queued jobs. Derived convenience only,
// never negative.
func (a AllocationInfo) EffectiveRemainingHours() float64 {
	eff := a.RemainingHours - a.PendingHours
	if eff < 0 {
		return 0
	}
	return eff
}

// DaysRemainingAtCurrentRate estimates how many days the remaining
// grant lasts at the observed burn rate. Returns -1 when no burn rate
// is known.
func (a AllocationInfo) DaysRemainingAtCurrentRate() int {
	if a.BurnRateHoursPerDay <= 0 {
		return -1
	}
	return int(a.RemainingHours / a.BurnRateHoursPerDay)
}

// StatusAt derives the allocation health at the given instant. An
// ended period is EXPIRED regardless of hours; otherwise the thresholds
// are on percent remaining: 0 is exhausted, under 5% critical, under
// 20% low, 20% and above healthy.
func (a AllocationInfo) StatusAt(now time.Time) AllocationStatus {
	if !a.PeriodEnd.IsZero() && now.After(a.PeriodEnd) {
		return AllocationExpired
	}
	pct := a.PercentRemaining()
	switch {
	case pct <= 0:
		return AllocationExhausted
	case pct < 5:
		return AllocationCritical
	case pct < 20:
		return AllocationLow
	default:
		return AllocationHealthy
	}
}

// Status derives the allocation health at the current time.
func (a AllocationInfo) Status() AllocationStatus {
	return a.StatusAt(time.Now())
}
