// nav/log.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

// Available logging categories
const (
	NavLogILS    = "ils"
	NavLogVisual = "visual"
	NavLogPlan   = "plan"
)
