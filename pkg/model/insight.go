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

// InsightType categorizes what kind of statement an insight makes.
type InsightType string

const (
	InsightRecommendation InsightType = "RECOMMENDATION"
	InsightWarning        InsightType = "WARNING"
	InsightAlert          InsightType = "ALERT"
	InsightInfo           InsightType = "INFO"
)

// InsightSeverity ranks how urgent an insight is.
type InsightSeverity string

const (
	SeverityCritical   InsightSeverity = "CRITICAL"
	SeverityWarning    InsightSeverity = "WARNING"
	SeverityInfo       InsightSeverity = "INFO"
	SeveritySuggestion InsightSeverity = "SUGGESTION"
)

// Rank returns the sort rank of a severity, lower is more urgent.
// Unknown severities sort last.
func (s InsightSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	case SeveritySuggestion:
		return 3
	default:
		return 4
	}
}

// SystemInsight is one generated observation about the fleet. Insights
// are emitted fresh on every evaluation cycle and never persisted as
// mutable entities. Scope fields reference systems, queues, projects,
// and filesystems by identifier only.
type SystemInsight struct {
	Type     InsightType     `json:"type" yaml:"type"`
	Severity InsightSeverity `json:"severity" yaml:"severity"`
	Message  string          `json:"message" yaml:"message"`

	// Priority orders insights of equal severity, higher first.
	Priority int `json:"priority" yaml:"priority"`

	// Scope identifiers. Weak references: lookup by id, never ownership.
	System  string `json:"system,omitempty" yaml:"system,omitempty"`
	Queue   string `json:"queue,omitempty" yaml:"queue,omitempty"`
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
	Storage string `json:"storage,omitempty" yaml:"storage,omitempty"`

	Metric string `json:"metric,omitempty" yaml:"metric,omitempty"`

	// ActionDescription and ActionCommand suggest a remediation.
	ActionDescription string `json:"action_description,omitempty" yaml:"action_description,omitempty"`
	ActionCommand     string `json:"action_command,omitempty" yaml:"action_command,omitempty"`
}
