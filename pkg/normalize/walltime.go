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
	"fmt"
	"strconv"
	"strings"
)

// IsUnlimitedWalltime reports whether the raw value means "no limit".
func IsUnlimitedWalltime(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "-", "INFINITE", "UNLIMITED", "NONE", "N/A":
		return true
	}
	return false
}

// ParseWalltime converts a scheduler walltime string to seconds plus a
// humanized display string. Accepted forms:
//
//	HH:MM:SS      PBS standard
//	DD:HH:MM:SS   PBS extended
//	D-HH:MM:SS    Slurm standard
//	HH:MM         short form
//	MINUTES       bare integer minutes (Slurm default)
//	INFINITE, UNLIMITED, "-", ""
//
// Unlimited values yield (0, "unlimited"); anything unparsable yields
// (0, raw) rather than an error.
func ParseWalltime(raw string) (int64, string) {
	if IsUnlimitedWalltime(raw) {
		return 0, "unlimited"
	}
	w := strings.TrimSpace(raw)

	// Bare integer minutes.
	if mins, err := strconv.ParseInt(w, 10, 64); err == nil && mins >= 0 {
		secs := mins * 60
		return secs, humanDuration(secs)
	}

	// Slurm D-HH:MM:SS.
	if day, rest, ok := strings.Cut(w, "-"); ok {
		d, derr := parseIntField(day)
		h, m, s, perr := parseHMS(rest)
		if derr == nil && perr == nil {
			secs := d*86400 + h*3600 + m*60 + s
			return secs, humanDuration(secs)
		}
		return 0, raw
	}

	parts := strings.Split(w, ":")
	fields := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := parseIntField(p)
		if err != nil {
			return 0, raw
		}
		fields = append(fields, v)
	}

	var secs int64
	switch len(fields) {
	case 4: // DD:HH:MM:SS
		secs = fields[0]*86400 + fields[1]*3600 + fields[2]*60 + fields[3]
	case 3: // HH:MM:SS
		secs = fields[0]*3600 + fields[1]*60 + fields[2]
	case 2: // HH:MM
		secs = fields[0]*3600 + fields[1]*60
	default:
		return 0, raw
	}
	return secs, humanDuration(secs)
}

// FormatWalltime renders seconds in canonical scheduler form: HH:MM:SS
// below one day, D-HH:MM:SS from one day up. The output re-parses to
// the same seconds via ParseWalltime.
func FormatWalltime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	rem := seconds % 86400
	h := rem / 3600
	m := rem % 3600 / 60
	s := rem % 60
	if days > 0 {
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func parseHMS(s string) (h, m, sec int64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
	}
	if h, err = parseIntField(parts[0]); err != nil {
		return
	}
	if m, err = parseIntField(parts[1]); err != nil {
		return
	}
	sec, err = parseIntField(parts[2])
	return
}

func parseIntField(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad field %q", s)
	}
	return v, nil
}

// humanDuration renders seconds in a readable form for UI display:
// "30 minutes", "24 hours", "2 days, 6 hours".
func humanDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, plural("minute", minutes))
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%d %s", hours, plural("hour", hours))
	}
	days := hours / 24
	remHours := hours % 24
	if remHours == 0 {
		return fmt.Sprintf("%d %s", days, plural("day", days))
	}
	return fmt.Sprintf("%d %s, %d %s", days, plural("day", days), remHours, plural("hour", remHours))
}

func plural(unit string, n int64) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
