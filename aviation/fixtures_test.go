// aviation/fixtures_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"sync"
	"testing"

	"github.com/skyvoice/navguide/log"
	"github.com/skyvoice/navguide/math"
)

var ksea34RThreshold = math.LL(47.4502, -122.3088)

func wp(ident string, lat, lon float64) WaypointFix {
	return WaypointFix{Ident: ident, Location: math.LL(lat, lon)}
}

// testNavData returns a small validated database with KSEA and KPDX and a
// handful of procedures. Procedure 4 is deliberately empty and is added
// after validation; approach 5 names KSEA but no runway.
func testNavData(t *testing.T) *StaticDB {
	t.Helper()

	db := &StaticDB{
		Airports: map[string]Airport{
			"ksea": {
				Name:              "Seattle-Tacoma Intl",
				Location:          math.LL(47.4490, -122.3093),
				Elevation:         433,
				MagneticVariation: 15,
				Runways: []Runway{{
					Id:        "34R",
					Threshold: ksea34RThreshold,
					End:       math.Destination2LL(ksea34RThreshold, 340, 1.96),
					LengthFt:  11900,
					WidthFt:   150,
				}},
			},
			"KPDX": {
				ICAO:              "KPDX",
				Name:              "Portland Intl",
				Location:          math.LL(45.5887, -122.5975),
				Elevation:         31,
				MagneticVariation: 15,
				Runways: []Runway{{
					Id:              "28L",
					Threshold:       math.LL(45.5927, -122.5830),
					End:             math.LL(45.5946, -122.6180),
					TrueHeading:     275,
					MagneticHeading: 260,
				}},
			},
		},
		Procedures: map[int]Procedure{
			1: {
				Kind:    ProcedureSID,
				Name:    "LAVAA7",
				Airport: "kpdx",
				Waypoints: []WaypointFix{
					wp("DUCKE", 45.6012, -122.7330),
					wp("LAVAA", 45.7240, -122.9500),
				},
			},
			2: {
				Kind:    ProcedureSTAR,
				Name:    "HAWKZ7",
				Airport: "KSEA",
				Waypoints: []WaypointFix{
					wp("HAWKZ", 46.9460, -122.3680),
					{Ident: "ELMAA", Location: math.LL(47.0930, -122.3400), Marker: "IAF"},
					wp("JAWBN", 47.2310, -122.3160),
				},
			},
			3: {
				Kind:    ProcedureApproach,
				Name:    "ILS 34R",
				Airport: "KSEA",
				Runway:  "34R",
				Waypoints: []WaypointFix{
					wp("MLTON", 47.2000, -122.2000),
					{Ident: "FOURT", Location: math.LL(47.3340, -122.2440), Altitude: 2000},
				},
			},
			5: {
				Kind:    ProcedureApproach,
				Name:    "RNAV Z",
				Airport: "KSEA",
				Waypoints: []WaypointFix{
					wp("SUMMA", 47.1720, -122.2460),
					wp("CORMO", 47.3080, -122.2890),
				},
			},
		},
	}
	if err := db.PostDeserialize(); err != nil {
		t.Fatalf("test nav data: %v", err)
	}
	db.Procedures[4] = Procedure{Id: 4, Kind: ProcedureSTAR, Name: "EMPTY"}

	return db
}

func newTestManager(t *testing.T) (*FlightPlanManager, *StaticDB) {
	t.Helper()
	db := testNavData(t)
	return NewFlightPlanManager(db, db, log.Discard()), db
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *recordingSink) PublishFlightPlan(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}
