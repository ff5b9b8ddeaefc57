// aviation/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "errors"

var (
	ErrEmptyProcedure          = errors.New("Procedure has no waypoints")
	ErrInvalidSection          = errors.New("Invalid flight plan section")
	ErrInvalidSlot             = errors.New("Tracking slot must be between 1 and 5")
	ErrNilWaypoint             = errors.New("No waypoint provided")
	ErrProcedureKindMismatch   = errors.New("Procedure is not of the requested kind")
	ErrSlotEmpty               = errors.New("No waypoint is tracked in that slot")
	ErrUnknownAirport          = errors.New("Unknown airport")
	ErrUnknownProcedure        = errors.New("Unknown procedure")
	ErrUnknownRunway           = errors.New("Unknown runway")
	ErrWaypointNotInFlightPlan = errors.New("waypoint not in current flight plan")
)
