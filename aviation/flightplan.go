// aviation/flightplan.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/iancoleman/orderedmap"
	"github.com/skyvoice/navguide/math"
	"github.com/skyvoice/navguide/util"
)

// ArrivalContext records the destination airport and, once known, the
// landing runway; approach guidance is computed against it.
type ArrivalContext struct {
	Airport      Airport `json:"airport"`
	Runway       *Runway `json:"runway,omitempty"`
	ApproachName string  `json:"approach,omitempty"`

	// Set when Runway was supplied by the loaded approach rather than
	// chosen along with the airport.
	RunwayFromApproach bool `json:"runway_from_approach,omitempty"`
}

// FlightPlan holds the waypoints of a flight in six sections. The
// canonical waypoint sequence is the concatenation of the sections in
// Section order; no other ordering is ever derived.
//
// Section lists are only ever replaced wholesale, never modified in
// place, so a shallow copy of a FlightPlan is an independent plan as far
// as its own methods are concerned.
type FlightPlan struct {
	sections  [NumSections][]WaypointFix
	departure *Airport
	arrival   *ArrivalContext
}

// UpdateSection stamps section on each of the given waypoints and then
// replaces the section's list with them. The caller's slice is not
// modified.
func (fp *FlightPlan) UpdateSection(section Section, wps []WaypointFix) error {
	if !section.Valid() {
		return ErrInvalidSection
	}

	wps = util.DuplicateSlice(wps)
	for i := range wps {
		wps[i].Section = section
	}
	fp.sections[section] = wps
	return nil
}

func (fp *FlightPlan) ClearSection(section Section) error {
	return fp.UpdateSection(section, nil)
}

// Clear empties every section and forgets the departure and arrival.
func (fp *FlightPlan) Clear() {
	*fp = FlightPlan{}
}

// Section returns a copy of the waypoints in the given section.
func (fp FlightPlan) Section(section Section) []WaypointFix {
	if !section.Valid() {
		return nil
	}
	return util.DuplicateSlice(fp.sections[section])
}

// GetAllWaypoints returns all of the flight plan's waypoints in flown
// order: departure airport, SID, enroute, STAR, approach, arrival
// airport.
func (fp FlightPlan) GetAllWaypoints() []WaypointFix {
	all := make([]WaypointFix, 0, fp.Count())
	for _, wps := range fp.sections {
		all = append(all, wps...)
	}
	return all
}

func (fp FlightPlan) Count() int {
	n := 0
	for _, wps := range fp.sections {
		n += len(wps)
	}
	return n
}

func (fp FlightPlan) IsEmpty() bool {
	return fp.Count() == 0
}

// UpdateAircraftPosition recomputes the distance and magnetic bearing
// from the aircraft to every waypoint in the plan. The whole plan is
// always refreshed together so that no waypoint is left with a stale
// range.
func (fp *FlightPlan) UpdateAircraftPosition(p math.Point2LL, magneticVariation float64) {
	for s, wps := range fp.sections {
		if len(wps) == 0 {
			continue
		}
		updated := make([]WaypointFix, len(wps))
		for i, wp := range wps {
			d := math.NMDistance2LL(p, wp.Location)
			b := math.MagneticBearing2LL(p, wp.Location, magneticVariation)
			wp.DistanceFromAircraft, wp.BearingFromAircraft = &d, &b
			updated[i] = wp
		}
		fp.sections[s] = updated
	}
}

// Departure returns the departure airport, if one has been loaded.
func (fp FlightPlan) Departure() (Airport, bool) {
	if fp.departure == nil {
		return Airport{}, false
	}
	return *fp.departure, true
}

// Arrival returns the arrival airport and runway context, if loaded.
func (fp FlightPlan) Arrival() (ArrivalContext, bool) {
	if fp.arrival == nil {
		return ArrivalContext{}, false
	}
	return *fp.arrival, true
}

// ArrivalRunway returns the landing runway and its airport if both are
// known.
func (fp FlightPlan) ArrivalRunway() (Runway, Airport, bool) {
	if fp.arrival == nil || fp.arrival.Runway == nil {
		return Runway{}, Airport{}, false
	}
	return *fp.arrival.Runway, fp.arrival.Airport, true
}

// FindWaypoint returns all waypoints with the given identifier in flown
// order. If there are none, it instead returns up to three identifiers
// from the plan that are within two edits of it, closest first.
func (fp FlightPlan) FindWaypoint(ident string) ([]WaypointFix, []string) {
	ident = strings.ToUpper(strings.TrimSpace(ident))
	all := fp.GetAllWaypoints()

	matches := util.FilterSlice(all, func(wp WaypointFix) bool { return strings.EqualFold(wp.Ident, ident) })
	if len(matches) > 0 {
		return matches, nil
	}

	type candidate struct {
		ident string
		dist  int
	}
	var cands []candidate
	for _, wp := range all {
		id := strings.ToUpper(wp.Ident)
		if slices.ContainsFunc(cands, func(c candidate) bool { return c.ident == id }) {
			continue
		}
		if d := levenshtein.ComputeDistance(ident, id); d <= 2 {
			cands = append(cands, candidate{ident: id, dist: d})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int { return a.dist - b.dist })
	if len(cands) > 3 {
		cands = cands[:3]
	}
	return nil, util.MapSlice(cands, func(c candidate) string { return c.ident })
}

// ClosestWaypoint returns the waypoint nearest to the aircraft as of the
// last position update.
func (fp FlightPlan) ClosestWaypoint() (WaypointFix, bool) {
	var best WaypointFix
	found := false
	for _, wp := range fp.GetAllWaypoints() {
		d, _, ok := wp.Range()
		if !ok {
			continue
		}
		if bd, _, _ := best.Range(); !found || d < bd {
			best, found = wp, true
		}
	}
	return best, found
}

// NextWaypoint returns the waypoint the aircraft is heading for: starting
// from the closest waypoint, the first one in flown order that is within
// 90 degrees of the aircraft's magnetic heading.
func (fp FlightPlan) NextWaypoint(heading float64) (WaypointFix, bool) {
	all := fp.GetAllWaypoints()

	start, best := -1, 0.
	for i, wp := range all {
		if d, _, ok := wp.Range(); ok && (start == -1 || d < best) {
			start, best = i, d
		}
	}
	if start == -1 {
		return WaypointFix{}, false
	}

	for _, wp := range all[start:] {
		if _, b, ok := wp.Range(); ok && math.HeadingDifference(heading, b) < 90 {
			return wp, true
		}
	}
	return WaypointFix{}, false
}

// MarshalJSON encodes the plan as an object whose keys are the section
// names, in flown order, followed by the departure and arrival context.
func (fp FlightPlan) MarshalJSON() ([]byte, error) {
	o := orderedmap.New()
	for s, wps := range fp.sections {
		if wps == nil {
			wps = []WaypointFix{}
		}
		o.Set(Section(s).String(), wps)
	}
	if fp.departure != nil {
		o.Set("departure", fp.departure)
	}
	if fp.arrival != nil {
		o.Set("arrival", fp.arrival)
	}
	return json.Marshal(o)
}

// flightPlanRecord is the exported form of a FlightPlan used for
// encoding and deep copies.
type flightPlanRecord struct {
	Sections  [NumSections][]WaypointFix
	Departure *Airport
	Arrival   *ArrivalContext
}

func (fp FlightPlan) record() flightPlanRecord {
	return flightPlanRecord{Sections: fp.sections, Departure: fp.departure, Arrival: fp.arrival}
}

func (r flightPlanRecord) flightPlan() FlightPlan {
	fp := FlightPlan{departure: r.Departure, arrival: r.Arrival}
	for s, wps := range r.Sections {
		// Re-stamp in case the record came from elsewhere.
		_ = fp.UpdateSection(Section(s), wps)
	}
	return fp
}
