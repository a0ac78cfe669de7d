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

// Package normalize translates scheduler-native vocabulary into the
// canonical vocabulary of pkg/model.
//
// Every function in this package is pure, stateless, and total:
// unknown input degrades to an UNKNOWN or best-effort value, it never
// produces an error. Collectors route every consumed field through this
// package before storage so that PBS, Slurm, and ad-hoc sources can be
// compared in one view.
//
// The normalizations are:
//
//  1. Scheduler detection from explicit hints or structural cues.
//  2. Node, queue, and job states onto canonical enumerations.
//  3. Walltime strings onto integer seconds plus a display form.
//  4. Resource names onto consistent terms (cores, nodes, gpus).
//  5. Memory strings onto gigabytes.
package normalize
