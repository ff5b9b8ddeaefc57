//go:build navlog

// nav/log_debug.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"strings"
	"time"
)

// Navigation logging configuration
var (
	navlogEnabled    bool
	navlogCategories map[string]bool
	navlogRunway     string // filter to only log guidance for this runway (empty = log all)
)

// InitNavLog initializes the navigation logging system
func InitNavLog(enabled bool, categories string, runway string) {
	navlogEnabled = enabled
	navlogCategories = make(map[string]bool)
	navlogRunway = strings.ToUpper(strings.TrimSpace(runway))

	if !enabled {
		return
	}

	if categories == "" || categories == "all" {
		navlogCategories[NavLogILS] = true
		navlogCategories[NavLogVisual] = true
		navlogCategories[NavLogPlan] = true
	} else {
		for _, cat := range strings.Split(categories, ",") {
			navlogCategories[strings.TrimSpace(cat)] = true
		}
	}
}

// NavLog logs a message with timestamp, runway, and category
func NavLog(runway string, category string, format string, args ...interface{}) {
	if !navlogEnabled || !navlogCategories[category] {
		return
	}
	if navlogRunway != "" && navlogRunway != runway {
		return
	}

	// Format: [HH:MM:SS.mmm] [runway] [category] message
	timeStr := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] [%s] [%s] %s\n", timeStr, runway, category, fmt.Sprintf(format, args...))
}

// NavLogEnabled returns whether navigation logging is enabled for a given category
func NavLogEnabled(category string) bool {
	return navlogEnabled && navlogCategories[category]
}
