// aviation/manager.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brunoga/deep"
	"github.com/google/uuid"
	"github.com/skyvoice/navguide/log"
	"github.com/skyvoice/navguide/math"
	"github.com/skyvoice/navguide/util"
)

// FlightPlanManager owns the current flight plan. Writers are serialized
// and publish a new FlightPlan by swapping an atomic pointer; a plan is
// never modified after it has been published, so readers may use the
// result of Current from any goroutine without locking.
//
// The manager does not notify anyone of changes; callers that want to
// hand the plan to other components call PublishTo after mutating it.
type FlightPlanManager struct {
	mu   sync.Mutex
	plan atomic.Pointer[FlightPlan]
	seq  atomic.Uint64

	// Last aircraft position, so that newly loaded waypoints get ranges
	// consistent with the rest of the plan.
	fix *aircraftFix

	airports   AirportProvider
	procedures ProcedureProvider
	lg         *log.Logger
}

type aircraftFix struct {
	p                 math.Point2LL
	magneticVariation float64
}

// SnapshotSink receives published flight plans, e.g. the UI or a readback
// hotkey handler.
type SnapshotSink interface {
	PublishFlightPlan(Snapshot)
}

func NewFlightPlanManager(airports AirportProvider, procedures ProcedureProvider, lg *log.Logger) *FlightPlanManager {
	m := &FlightPlanManager{
		airports:   airports,
		procedures: procedures,
		lg:         lg,
	}
	m.plan.Store(&FlightPlan{})
	return m
}

// Current returns the current flight plan.
func (m *FlightPlanManager) Current() FlightPlan {
	return *m.plan.Load()
}

// Seq returns a counter that is incremented on every change to the plan.
func (m *FlightPlanManager) Seq() uint64 {
	return m.seq.Load()
}

// update applies fn to a copy of the current plan and publishes the
// result if fn succeeds. On error the current plan is left untouched.
func (m *FlightPlanManager) update(fn func(fp *FlightPlan) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fp := *m.plan.Load()
	if err := fn(&fp); err != nil {
		return err
	}
	if m.fix != nil {
		fp.UpdateAircraftPosition(m.fix.p, m.fix.magneticVariation)
	}
	m.plan.Store(&fp)
	m.seq.Add(1)
	return nil
}

func (m *FlightPlanManager) UpdateSection(section Section, wps []WaypointFix) error {
	return m.update(func(fp *FlightPlan) error { return fp.UpdateSection(section, wps) })
}

func (m *FlightPlanManager) ClearSection(section Section) error {
	return m.update(func(fp *FlightPlan) error {
		switch section {
		case SectionArrivalAirport:
			fp.arrival = nil
		case SectionDepartureAirport:
			fp.departure = nil
		case SectionApproach:
			if fp.arrival != nil {
				// Published plans share the context, so replace it.
				arr := *fp.arrival
				arr.ApproachName = ""
				if arr.RunwayFromApproach {
					arr.Runway, arr.RunwayFromApproach = nil, false
				}
				fp.arrival = &arr
			}
		}
		return fp.ClearSection(section)
	})
}

// ClearFlightPlan discards the current plan and replaces it with an
// empty one.
func (m *FlightPlanManager) ClearFlightPlan() {
	_ = m.update(func(fp *FlightPlan) error {
		fp.Clear()
		return nil
	})
	m.lg.Info("flight plan cleared")
}

// UpdateAircraftPosition refreshes the distance and bearing to every
// waypoint in the plan.
func (m *FlightPlanManager) UpdateAircraftPosition(p math.Point2LL, magneticVariation float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fix = &aircraftFix{p: p, magneticVariation: magneticVariation}
	fp := *m.plan.Load()
	fp.UpdateAircraftPosition(p, magneticVariation)
	m.plan.Store(&fp)
	m.seq.Add(1)
}

func airportFix(ap Airport) WaypointFix {
	return WaypointFix{
		Ident:    ap.ICAO,
		Location: ap.Location,
		Altitude: ap.Elevation,
	}
}

func (m *FlightPlanManager) lookupAirport(icao string) (Airport, error) {
	if m.airports == nil {
		return Airport{}, fmt.Errorf("%s: %w", icao, ErrUnknownAirport)
	}
	ap, err := m.airports.Airport(icao)
	if err != nil {
		m.lg.Warn("airport lookup failed", slog.String("icao", icao), slog.Any("error", err))
		return Airport{}, err
	}
	return ap, nil
}

// LoadDeparture replaces the departure airport section.
func (m *FlightPlanManager) LoadDeparture(icao string) error {
	ap, err := m.lookupAirport(icao)
	if err != nil {
		return err
	}

	err = m.update(func(fp *FlightPlan) error {
		fp.departure = &ap
		return fp.UpdateSection(SectionDepartureAirport, []WaypointFix{airportFix(ap)})
	})
	if err == nil {
		m.lg.Info("loaded departure", slog.String("airport", ap.ICAO))
	}
	return err
}

// LoadArrival replaces the arrival airport section. If runway is
// non-empty, it is recorded as the landing runway for approach guidance.
func (m *FlightPlanManager) LoadArrival(icao string, runway string) error {
	ap, err := m.lookupAirport(icao)
	if err != nil {
		return err
	}

	arr := &ArrivalContext{Airport: ap}
	if runway != "" {
		rwy, ok := ap.Runway(runway)
		if !ok {
			return fmt.Errorf("%s runway %s: %w", ap.ICAO, runway, ErrUnknownRunway)
		}
		arr.Runway = &rwy
	}

	err = m.update(func(fp *FlightPlan) error {
		// Keep the approach name if the runway didn't change.
		if fp.arrival != nil && arr.Runway != nil && fp.arrival.Runway != nil &&
			fp.arrival.Airport.ICAO == ap.ICAO && fp.arrival.Runway.Id == arr.Runway.Id {
			arr.ApproachName = fp.arrival.ApproachName
		}
		fp.arrival = arr
		return fp.UpdateSection(SectionArrivalAirport, []WaypointFix{airportFix(ap)})
	})
	if err == nil {
		m.lg.Info("loaded arrival", slog.String("airport", ap.ICAO), slog.String("runway", runway))
	}
	return err
}

func (m *FlightPlanManager) LoadSID(id int) error {
	return m.loadProcedure(id, ProcedureSID)
}

func (m *FlightPlanManager) LoadSTAR(id int) error {
	return m.loadProcedure(id, ProcedureSTAR)
}

// LoadApproach replaces the approach section. If the procedure names its
// airport and runway, the arrival context is updated to match so that
// approach guidance follows the loaded approach. An approach that names
// only the airport keeps the runway already chosen there; the arrival
// airport section is only replaced when the airport changes.
func (m *FlightPlanManager) LoadApproach(id int) error {
	return m.loadProcedure(id, ProcedureApproach)
}

// loadProcedure resolves everything the load needs before touching the
// plan; any failure leaves the plan as it was.
func (m *FlightPlanManager) loadProcedure(id int, kind ProcedureKind) error {
	if m.procedures == nil {
		return fmt.Errorf("%d: %w", id, ErrUnknownProcedure)
	}
	proc, err := m.procedures.Procedure(id)
	if err != nil {
		m.lg.Warn("procedure lookup failed", slog.Int("id", id), slog.Any("error", err))
		return err
	}
	if proc.Kind != kind {
		return fmt.Errorf("%d (%s) is a %s, not a %s: %w", id, proc.Name, proc.Kind, kind, ErrProcedureKindMismatch)
	}
	if len(proc.Waypoints) == 0 {
		return fmt.Errorf("%d (%s): %w", id, proc.Name, ErrEmptyProcedure)
	}

	var arr *ArrivalContext
	if kind == ProcedureApproach && proc.Airport != "" {
		ap, err := m.lookupAirport(proc.Airport)
		if err != nil {
			return err
		}
		arr = &ArrivalContext{Airport: ap, ApproachName: proc.Name}
		if proc.Runway != "" {
			rwy, ok := ap.Runway(proc.Runway)
			if !ok {
				return fmt.Errorf("%s runway %s: %w", ap.ICAO, proc.Runway, ErrUnknownRunway)
			}
			arr.Runway, arr.RunwayFromApproach = &rwy, true
		}
	}

	// The provider may hand out shared slices.
	wps := util.DuplicateSlice(proc.Waypoints)
	for i := range wps {
		wps[i].DistanceFromAircraft, wps[i].BearingFromAircraft = nil, nil
	}
	stampMarkers(wps, kind)

	err = m.update(func(fp *FlightPlan) error {
		if arr != nil {
			sameAirport := fp.arrival != nil && fp.arrival.Airport.ICAO == arr.Airport.ICAO
			if sameAirport && arr.Runway == nil {
				arr.Runway, arr.RunwayFromApproach = fp.arrival.Runway, fp.arrival.RunwayFromApproach
			}
			fp.arrival = arr
			if !sameAirport {
				if err := fp.UpdateSection(SectionArrivalAirport, []WaypointFix{airportFix(arr.Airport)}); err != nil {
					return err
				}
			}
		}
		return fp.UpdateSection(kind.Section(), wps)
	})
	if err == nil {
		m.lg.Info("loaded procedure", slog.Int("id", id), slog.String("name", proc.Name),
			slog.String("kind", kind.String()), slog.Int("waypoints", len(wps)))
	}
	return err
}

///////////////////////////////////////////////////////////////////////////
// Snapshots

// Snapshot returns a deep copy of the current plan that shares nothing
// with the manager.
func (m *FlightPlanManager) Snapshot() Snapshot {
	m.mu.Lock()
	fp, seq := *m.plan.Load(), m.seq.Load()
	m.mu.Unlock()

	rec := deep.MustCopy(fp.record())
	return Snapshot{
		ID:    uuid.New(),
		Seq:   seq,
		Taken: time.Now(),
		Plan:  rec.flightPlan(),
	}
}

// PublishTo takes a snapshot of the current plan and hands it to sink.
func (m *FlightPlanManager) PublishTo(sink SnapshotSink) Snapshot {
	s := m.Snapshot()
	if sink != nil {
		sink.PublishFlightPlan(s)
	}
	m.lg.Debug("published flight plan", slog.String("id", s.ID.String()), slog.Uint64("seq", s.Seq),
		slog.Int("waypoints", s.Plan.Count()))
	return s
}
