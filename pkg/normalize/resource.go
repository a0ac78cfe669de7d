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
	"strconv"
	"strings"
)

var resourceNames = map[string]string{
	// CPU/core variations
	"ncpus": "cores", "cpus": "cores", "cpu": "cores", "cores": "cores",
	"core": "cores", "procs": "cores", "processors": "cores", "np": "cores",
	"ppn": "cores",
	// Node variations
	"nodes": "nodes", "node": "nodes", "nodect": "nodes", "nnodes": "nodes",
	// GPU variations
	"gpus": "gpus", "gpu": "gpus", "ngpus": "gpus", "gres/gpu": "gpus",
	"gres": "gpus",
	// Memory variations
	"mem": "memory_gb", "memory": "memory_gb", "vmem": "memory_gb", "pmem": "memory_gb",
}

// ResourceName collapses scheduler resource-name variations onto
// consistent terms: cores, nodes, gpus, memory_gb. Unrecognized names
// pass through lowercased.
func ResourceName(raw string) string {
	n := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := resourceNames[n]; ok {
		return canonical
	}
	return n
}

// MemoryGB converts a scheduler memory string (128gb, 131072mb,
// 134217728kb, plain bytes) to gigabytes. Returns (0, false) for
// unparsable input.
func MemoryGB(raw string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, false
	}

	// Split the leading number from the unit suffix.
	i := 0
	for i < len(v) && (v[i] >= '0' && v[i] <= '9' || v[i] == '.') {
		i++
	}
	num, err := strconv.ParseFloat(v[:i], 64)
	if err != nil {
		return 0, false
	}

	switch strings.TrimSpace(v[i:]) {
	case "gb", "g":
		return num, true
	case "mb", "m":
		return num / 1024, true
	case "kb", "k":
		return num / (1024 * 1024), true
	case "b", "":
		// PBS reports bare values in bytes.
		return num / (1024 * 1024 * 1024), true
	case "tb", "t":
		return num * 1024, true
	default:
		return num, true // unknown suffix, assume GB
	}
}
