// aviation/tracker_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"strings"
	"testing"

	"github.com/skyvoice/navguide/log"
	"github.com/skyvoice/navguide/math"
)

func TestTrackerReplacedSection(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.LoadSTAR(2); err != nil {
		t.Fatal(err)
	}
	m.UpdateAircraftPosition(math.LL(46.5, -122.5), 15)

	tr := NewWaypointTracker(log.Discard())
	x := m.Current().Section(SectionSTAR)[2]
	if err := tr.Track(3, &x); err != nil {
		t.Fatal(err)
	}

	wp, err := tr.Resolve(3, m.Current())
	if err != nil || wp.Ident != "JAWBN" {
		t.Fatalf("Resolve(3) = %v, %v", wp, err)
	}
	if _, _, ok := wp.Range(); !ok {
		t.Errorf("resolved waypoint has no range")
	}

	// Replace the STAR with one that doesn't include JAWBN.
	if err := m.UpdateSection(SectionSTAR, []WaypointFix{wp0("HAWKZ"), wp0("ELMAA")}); err != nil {
		t.Fatal(err)
	}
	wp, err = tr.Resolve(3, m.Current())
	if !errors.Is(err, ErrWaypointNotInFlightPlan) {
		t.Errorf("Resolve(3) after replacing the section: got %v, %v; expected ErrWaypointNotInFlightPlan", wp, err)
	}
	if !wp.Location.IsZero() {
		t.Errorf("stale coordinates returned: %v", wp.Location)
	}
	if s := tr.Describe(3, m.Current()); !strings.Contains(s, "waypoint not in current flight plan") {
		t.Errorf("Describe(3) = %q", s)
	}

	// The slot still holds the identity; it resolves again once the
	// waypoint is back.
	if err := m.LoadSTAR(2); err != nil {
		t.Fatal(err)
	}
	if wp, err := tr.Resolve(3, m.Current()); err != nil || wp.Ident != "JAWBN" {
		t.Errorf("Resolve(3) after reload = %v, %v", wp, err)
	}
}

func wp0(ident string) WaypointFix {
	return WaypointFix{Ident: ident, Location: math.LL(47, -122)}
}

func TestTrackerInvalidArguments(t *testing.T) {
	tr := NewWaypointTracker(nil)
	x := wp("OLM", 46.9716, -122.9017)

	for _, slot := range []int{-1, 0, 6, 100} {
		if err := tr.Track(slot, &x); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Track(%d): got %v, expected ErrInvalidSlot", slot, err)
		}
		if err := tr.Clear(slot); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Clear(%d): got %v, expected ErrInvalidSlot", slot, err)
		}
		if _, err := tr.Resolve(slot, FlightPlan{}); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Resolve(%d): got %v, expected ErrInvalidSlot", slot, err)
		}
	}

	if err := tr.Track(1, &x); err != nil {
		t.Fatal(err)
	}
	if err := tr.Track(1, nil); !errors.Is(err, ErrNilWaypoint) {
		t.Errorf("Track(1, nil): got %v, expected ErrNilWaypoint", err)
	}
	if tw, ok, err := tr.Tracked(1); err != nil || !ok || tw.Ident != "OLM" {
		t.Errorf("slot 1 after rejected Track = %v, %v, %v", tw, ok, err)
	}

	if _, err := tr.Resolve(2, FlightPlan{}); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Resolve(2) on empty slot: got %v, expected ErrSlotEmpty", err)
	}
	if s := tr.Describe(2, FlightPlan{}); s != "Slot 2 empty" {
		t.Errorf("Describe(2) = %q", s)
	}
	if s := tr.Describe(7, FlightPlan{}); s != ErrInvalidSlot.Error() {
		t.Errorf("Describe(7) = %q", s)
	}
}

func TestTrackerResolution(t *testing.T) {
	var fp FlightPlan
	// Two fixes with the same name in the same section.
	dup := []WaypointFix{wp("ALPHA", 47.0, -122.0), wp("ALPHA", 47.5, -122.5), wp("BRAVO", 47.2, -122.2)}
	if err := fp.UpdateSection(SectionEnroute, dup); err != nil {
		t.Fatal(err)
	}
	if err := fp.UpdateSection(SectionSTAR, []WaypointFix{wp("ALPHA", 45.0, -120.0)}); err != nil {
		t.Fatal(err)
	}

	tr := NewWaypointTracker(nil)
	second := fp.Section(SectionEnroute)[1]
	if err := tr.Track(5, &second); err != nil {
		t.Fatal(err)
	}

	// Location disambiguates between same-named fixes.
	if wp, err := tr.Resolve(5, fp); err != nil || wp.Location != second.Location {
		t.Errorf("Resolve(5) = %v, %v; expected %v", wp, err, second.Location)
	}

	// Small movements are tolerated.
	moved := []WaypointFix{wp("ALPHA", 47.0, -122.0), wp("ALPHA", 47.505, -122.495)}
	if err := fp.UpdateSection(SectionEnroute, moved); err != nil {
		t.Fatal(err)
	}
	if wp, err := tr.Resolve(5, fp); err != nil || wp.Location != moved[1].Location {
		t.Errorf("Resolve(5) after small move = %v, %v", wp, err)
	}

	// Otherwise fall back to identifier and section; the STAR's ALPHA
	// is never a candidate.
	far := []WaypointFix{wp("ALPHA", 40.0, -110.0)}
	if err := fp.UpdateSection(SectionEnroute, far); err != nil {
		t.Fatal(err)
	}
	if wp, err := tr.Resolve(5, fp); err != nil || wp.Section != SectionEnroute || wp.Location != far[0].Location {
		t.Errorf("Resolve(5) fallback = %v, %v", wp, err)
	}

	if err := fp.ClearSection(SectionEnroute); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Resolve(5, fp); !errors.Is(err, ErrWaypointNotInFlightPlan) {
		t.Errorf("Resolve(5) with the section cleared: got %v", err)
	}

	if err := tr.Clear(5); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := tr.Tracked(5); ok {
		t.Errorf("slot 5 not empty after Clear")
	}
}

func TestTrackerResolutionAntimeridian(t *testing.T) {
	var fp FlightPlan
	fixes := []WaypointFix{wp("DATEL", -17.0, 179.5), wp("DATEL", -17.0, 179.999)}
	if err := fp.UpdateSection(SectionEnroute, fixes); err != nil {
		t.Fatal(err)
	}

	tr := NewWaypointTracker(nil)
	tracked := fp.Section(SectionEnroute)[1]
	if err := tr.Track(2, &tracked); err != nil {
		t.Fatal(err)
	}

	// The fix moves slightly, across 180 degrees longitude.
	moved := []WaypointFix{wp("DATEL", -17.0, 179.5), wp("DATEL", -17.0, -179.999)}
	if err := fp.UpdateSection(SectionEnroute, moved); err != nil {
		t.Fatal(err)
	}
	if wp, err := tr.Resolve(2, fp); err != nil || wp.Location != moved[1].Location {
		t.Errorf("Resolve(2) = %v, %v; expected %v", wp, err, moved[1].Location)
	}
}

func TestTrackerDescribe(t *testing.T) {
	var fp FlightPlan
	fix := WaypointFix{Ident: "FOURT", Location: math.LL(47.3340, -122.2440), Altitude: 2000}
	if err := fp.UpdateSection(SectionApproach, []WaypointFix{fix}); err != nil {
		t.Fatal(err)
	}
	fp.UpdateAircraftPosition(math.LL(47.3340, -122.5), 0)

	tr := NewWaypointTracker(nil)
	tracked := fp.Section(SectionApproach)[0]
	if err := tr.Track(1, &tracked); err != nil {
		t.Fatal(err)
	}

	s := tr.Describe(1, fp)
	if !strings.HasPrefix(s, "FOURT, ") || !strings.Contains(s, "miles east, bearing 0") || !strings.HasSuffix(s, "altitude 2000") {
		t.Errorf("Describe(1) = %q", s)
	}

	tr.ClearAll()
	if _, ok, _ := tr.Tracked(1); ok {
		t.Errorf("slot 1 not empty after ClearAll")
	}
}
