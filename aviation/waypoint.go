// aviation/waypoint.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skyvoice/navguide/math"
)

// Section identifies one of the six parts of a flight plan. The numeric
// order of the sections is the order in which they are flown.
type Section int

const (
	SectionDepartureAirport Section = iota
	SectionSID
	SectionEnroute
	SectionSTAR
	SectionApproach
	SectionArrivalAirport
	NumSections
)

var sectionNames = [NumSections]string{"DepartureAirport", "SID", "Enroute", "STAR", "Approach", "ArrivalAirport"}

func (s Section) Valid() bool {
	return s >= 0 && s < NumSections
}

func (s Section) String() string {
	if !s.Valid() {
		return "Section(" + strconv.Itoa(int(s)) + ")"
	}
	return sectionNames[s]
}

func ParseSection(s string) (Section, error) {
	for i, name := range sectionNames {
		if strings.EqualFold(s, name) {
			return Section(i), nil
		}
	}
	return 0, fmt.Errorf("%s: %w", s, ErrInvalidSection)
}

func (s Section) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidSection
	}
	return []byte(s.String()), nil
}

func (s *Section) UnmarshalText(b []byte) error {
	sec, err := ParseSection(string(b))
	if err == nil {
		*s = sec
	}
	return err
}

// WaypointFix is a single fix in the flight plan. Section always matches
// the flight plan section the fix is stored in; FlightPlan.UpdateSection
// enforces this.
type WaypointFix struct {
	Ident    string        `json:"ident"`
	Section  Section       `json:"section"`
	Location math.Point2LL `json:"location"`
	Altitude float64       `json:"altitude,omitempty"` // feet; 0 if unspecified
	Marker   string        `json:"marker,omitempty"`

	// Set by FlightPlan.UpdateAircraftPosition; nil until the first
	// position update. The bearing is magnetic.
	DistanceFromAircraft *float64 `json:"distance_from_aircraft,omitempty"`
	BearingFromAircraft  *float64 `json:"bearing_from_aircraft,omitempty"`
}

// Range returns the fix's distance and magnetic bearing from the
// aircraft as of the last position update, if there has been one.
func (wp WaypointFix) Range() (distance, bearing float64, ok bool) {
	if wp.DistanceFromAircraft == nil || wp.BearingFromAircraft == nil {
		return 0, 0, false
	}
	return *wp.DistanceFromAircraft, *wp.BearingFromAircraft, true
}

func (wp WaypointFix) String() string {
	s := wp.Ident + " (" + wp.Section.String() + ")"
	if d, b, ok := wp.Range(); ok {
		s += fmt.Sprintf(" %.1fnm %03.0f %s", d, b, math.ShortCompass(b))
	}
	return s
}

// ClockPosition returns the waypoint's position relative to the nose of
// an aircraft flying the given magnetic heading, as an o'clock value in
// [1,12]. ok is false if the waypoint has no range yet.
func (wp WaypointFix) ClockPosition(heading float64) (hour int, ok bool) {
	_, b, ok := wp.Range()
	if !ok {
		return 0, false
	}
	return math.HeadingAsHour(b - heading), true
}

// stampMarkers marks the first waypoint of a loaded procedure with the
// procedure's marker and the rest with its continuation marker, leaving
// any marker the data source already supplied in place.
func stampMarkers(wps []WaypointFix, kind ProcedureKind) {
	for i := range wps {
		if wps[i].Marker != "" {
			continue
		}
		if i == 0 {
			wps[i].Marker = kind.Marker()
		} else {
			wps[i].Marker = kind.ContinuationMarker()
		}
	}
}
