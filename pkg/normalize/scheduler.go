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

package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Scheduler identifies a scheduler family.
type Scheduler string

const (
	SchedulerPBS     Scheduler = "PBS"
	SchedulerSlurm   Scheduler = "SLURM"
	SchedulerLSF     Scheduler = "LSF"
	SchedulerSGE     Scheduler = "SGE"
	SchedulerUnknown Scheduler = "UNKNOWN"
)

// String returns the string representation of the scheduler family.
func (s Scheduler) String() string {
	return string(s)
}

// Hints carries the cues available for scheduler detection: an explicit
// scheduler name if one was reported, indicator keys seen in the raw
// output (command or field names), and queue names.
type Hints struct {
	Scheduler  string
	Indicators []string
	QueueNames []string
}

// pbsIndicators and slurmIndicators are field or command names whose
// presence in raw output identifies the scheduler.
var (
	pbsIndicators   = []string{"pbs_version", "pbsadmin", "qmgr", "pbsnodes", "qstat"}
	slurmIndicators = []string{"slurm_version", "sinfo", "squeue", "sbatch", "scontrol"}
)

// DetectScheduler determines the scheduler family from the available
// hints. An explicit scheduler name wins; otherwise indicator keys are
// checked, then queue-name structure (PBS queues carry an @server
// suffix). Returns SchedulerUnknown when nothing matches.
func DetectScheduler(h Hints) Scheduler {
	name := strings.ToUpper(h.Scheduler)
	switch {
	case strings.Contains(name, "PBS"), strings.Contains(name, "TORQUE"), strings.Contains(name, "OPENPBS"):
		return SchedulerPBS
	case strings.Contains(name, "SLURM"):
		return SchedulerSlurm
	case strings.Contains(name, "LSF"):
		return SchedulerLSF
	case strings.Contains(name, "SGE"), strings.Contains(name, "GRID"):
		return SchedulerSGE
	}

	for _, ind := range h.Indicators {
		key := strings.ToLower(strings.TrimSpace(ind))
		for _, p := range pbsIndicators {
			if key == p {
				return SchedulerPBS
			}
		}
		for _, s := range slurmIndicators {
			if key == s {
				return SchedulerSlurm
			}
		}
	}

	for _, q := range h.QueueNames {
		if strings.Contains(q, "@") {
			return SchedulerPBS
		}
	}

	return SchedulerUnknown
}

var titleCaser = cases.Title(language.English)

// DisplayName renders an identifier as a human-readable name:
// separators become spaces and each word is title-cased.
func DisplayName(id string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(id))
	return titleCaser.String(s)
}
