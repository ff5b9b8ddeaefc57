// aviation/tracker.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/skyvoice/navguide/log"
	"github.com/skyvoice/navguide/math"
)

const NumTrackerSlots = 5

// Two fixes with the same identifier and section are taken to be the
// same fix if their coordinates agree to within this many degrees
// (roughly 1km).
const trackedLocationTolerance = 0.01

// TrackedWaypoint is the identity of a waypoint captured when it was
// tracked. It is not a reference into the flight plan, since
// sections are replaced wholesale.
type TrackedWaypoint struct {
	Ident    string
	Section  Section
	Location math.Point2LL
}

func (tw TrackedWaypoint) matches(wp WaypointFix) bool {
	return strings.EqualFold(tw.Ident, wp.Ident) && tw.Section == wp.Section
}

func (tw TrackedWaypoint) near(wp WaypointFix) bool {
	return math.Abs(math.NormalizeSignedAngle(tw.Location[0]-wp.Location[0])) <= trackedLocationTolerance &&
		math.Abs(tw.Location[1]-wp.Location[1]) <= trackedLocationTolerance
}

// Resolve finds the tracked waypoint in the given flight plan: first by
// identifier, section and location, then by identifier and section
// alone.
func (tw TrackedWaypoint) Resolve(fp FlightPlan) (WaypointFix, error) {
	if !tw.Section.Valid() {
		return WaypointFix{}, ErrWaypointNotInFlightPlan
	}
	wps := fp.sections[tw.Section]

	for _, wp := range wps {
		if tw.matches(wp) && tw.near(wp) {
			return wp, nil
		}
	}
	for _, wp := range wps {
		if tw.matches(wp) {
			return wp, nil
		}
	}
	return WaypointFix{}, fmt.Errorf("%s: %w", tw.Ident, ErrWaypointNotInFlightPlan)
}

// WaypointTracker has five numbered slots, each of which may hold a
// waypoint the pilot wants to hear about on demand.
type WaypointTracker struct {
	mu    sync.Mutex
	slots [NumTrackerSlots]*TrackedWaypoint
	lg    *log.Logger
}

func NewWaypointTracker(lg *log.Logger) *WaypointTracker {
	return &WaypointTracker{lg: lg}
}

func checkSlot(slot int) error {
	if slot < 1 || slot > NumTrackerSlots {
		return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
	}
	return nil
}

// Track stores wp's identity in the given slot (1-5), replacing whatever
// was there.
func (t *WaypointTracker) Track(slot int, wp *WaypointFix) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if wp == nil {
		return ErrNilWaypoint
	}

	tw := &TrackedWaypoint{Ident: wp.Ident, Section: wp.Section, Location: wp.Location}

	t.mu.Lock()
	t.slots[slot-1] = tw
	t.mu.Unlock()

	t.lg.Info("tracking waypoint", slog.Int("slot", slot), slog.String("ident", wp.Ident),
		slog.String("section", wp.Section.String()))
	return nil
}

func (t *WaypointTracker) Clear(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}

	t.mu.Lock()
	t.slots[slot-1] = nil
	t.mu.Unlock()
	return nil
}

func (t *WaypointTracker) ClearAll() {
	t.mu.Lock()
	t.slots = [NumTrackerSlots]*TrackedWaypoint{}
	t.mu.Unlock()
}

// Tracked returns what is stored in the slot; ok is false if the slot is
// empty.
func (t *WaypointTracker) Tracked(slot int) (tw TrackedWaypoint, ok bool, err error) {
	if err := checkSlot(slot); err != nil {
		return TrackedWaypoint{}, false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.slots[slot-1]; p != nil {
		return *p, true, nil
	}
	return TrackedWaypoint{}, false, nil
}

// Resolve returns the live flight plan entry for the waypoint tracked in
// the slot. If it is no longer in the plan, the returned error wraps
// ErrWaypointNotInFlightPlan; stale coordinates are never returned.
func (t *WaypointTracker) Resolve(slot int, fp FlightPlan) (WaypointFix, error) {
	tw, ok, err := t.Tracked(slot)
	if err != nil {
		return WaypointFix{}, err
	} else if !ok {
		return WaypointFix{}, fmt.Errorf("slot %d: %w", slot, ErrSlotEmpty)
	}
	return tw.Resolve(fp)
}

// Describe returns the readback text for a slot.
func (t *WaypointTracker) Describe(slot int, fp FlightPlan) string {
	wp, err := t.Resolve(slot, fp)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSlot):
			return ErrInvalidSlot.Error()
		case errors.Is(err, ErrSlotEmpty):
			return fmt.Sprintf("Slot %d empty", slot)
		default:
			tw, _, _ := t.Tracked(slot)
			return fmt.Sprintf("%s: %s", tw.Ident, ErrWaypointNotInFlightPlan.Error())
		}
	}

	s := wp.Ident
	if d, b, ok := wp.Range(); ok {
		s += fmt.Sprintf(", %.1f miles %s, bearing %03.0f", d, strings.ToLower(math.Compass(b)), b)
	}
	if wp.Altitude != 0 {
		s += fmt.Sprintf(", altitude %.0f", wp.Altitude)
	}
	return s
}
