// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines corners and the run tags derived from them.
package model

import "strings"

// DefaultSentinel is the corner token a template uses for the typical corner.
const DefaultSentinel = "tt"

// Corner names a process/mismatch variation, e.g. "ss_ll_mm".
type Corner string

// DefaultCorners is the 16-corner process/mismatch set used when no corner
// list is configured.
var DefaultCorners = []Corner{
	"ss_ll_mm", "ss_hl_mm", "ss_lh_mm", "ss_hh_mm",
	"sf_ll_mm", "sf_hl_mm", "sf_lh_mm", "sf_hh_mm",
	"fs_ll_mm", "fs_hl_mm", "fs_lh_mm", "fs_hh_mm",
	"ff_ll_mm", "ff_hl_mm", "ff_lh_mm", "ff_hh_mm",
}

// ParseCornerList parses a comma separated list of corner names.
func ParseCornerList(s string) []Corner {
	var corners []Corner
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		corners = append(corners, Corner(part))
	}
	return corners
}

// RunTag identifies a (corner, temperature) combination, e.g. "ss_ll_mm_m40C".
func RunTag(c Corner, t Temperature) string {
	return string(c) + "_" + TemperatureTag(t)
}

// CornerTag is the run tag used when temperature sweeping is disabled.
func CornerTag(c Corner) string {
	return string(c)
}

// RunName joins a template base name and a run tag.
func RunName(baseName, tag string) string {
	return baseName + "_" + tag
}
