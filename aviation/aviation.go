// aviation/aviation.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/skyvoice/navguide/math"
)

// Position is a single aircraft position sample as polled by the host.
type Position struct {
	Location math.Point2LL
	Altitude float64 // feet MSL
	Heading  float64 // magnetic
}

type Runway struct {
	Id              string        `json:"id"`
	Threshold       math.Point2LL `json:"threshold"`
	End             math.Point2LL `json:"end"`
	TrueHeading     float64       `json:"true_heading"`
	MagneticHeading float64       `json:"magnetic_heading"`
	LengthFt        float64       `json:"length_ft"`
	WidthFt         float64       `json:"width_ft"`
}

// OppositeId returns the runway ID for the opposite end of the runway.
// E.g., "13L" -> "31R", "22R" -> "4L", "9" -> "27".
func (r Runway) OppositeId() string {
	return OppositeRunwayId(r.Id)
}

type Airport struct {
	ICAO              string        `json:"icao"`
	Name              string        `json:"name,omitempty"`
	Location          math.Point2LL `json:"location"`
	Elevation         float64       `json:"elevation"`          // feet MSL
	MagneticVariation float64       `json:"magnetic_variation"` // degrees, east positive
	Runways           []Runway      `json:"runways,omitempty"`
}

// Runway returns the airport's runway with the given identifier; leading
// zeros and distinguishing suffixes are ignored, so "04L" finds "4L".
func (ap Airport) Runway(id string) (Runway, bool) {
	id = cleanRunway(id)
	idx := slices.IndexFunc(ap.Runways, func(r Runway) bool { return cleanRunway(r.Id) == id })
	if idx == -1 {
		return Runway{}, false
	}
	return ap.Runways[idx], true
}

func cleanRunway(rwy string) string {
	rwy = strings.ToUpper(strings.TrimSpace(rwy))
	rwy = strings.TrimPrefix(rwy, "RW")
	rwy = strings.TrimLeft(rwy, "0")
	// The runway may have extra text to distinguish different
	// configurations (e.g., "13.ILS"). Find the prefix that is an actual
	// runway specifier.
	for i, ch := range rwy {
		if ch >= '0' && ch <= '9' {
			continue
		} else if ch == 'L' || ch == 'R' || ch == 'C' || ch == 'W' {
			return rwy[:i+1]
		} else {
			return rwy[:i]
		}
	}
	return rwy
}

func OppositeRunwayId(rwy string) string {
	rwy = cleanRunway(rwy)
	if rwy == "" {
		return ""
	}

	n := len(rwy)
	num, ext := rwy, ""
	switch rwy[n-1] {
	case 'R':
		ext, num = "L", rwy[:n-1]
	case 'L':
		ext, num = "R", rwy[:n-1]
	case 'C', 'W':
		ext, num = rwy[n-1:], rwy[:n-1]
	}

	v, err := strconv.Atoi(num)
	if err != nil {
		return ""
	}

	// (v+18)%36 would give 0 for runway 36, so handle 18 specially.
	if v == 18 {
		return "36" + ext
	}
	return strconv.Itoa((v+18)%36) + ext
}

///////////////////////////////////////////////////////////////////////////
// Procedures

type ProcedureKind int

const (
	ProcedureSID ProcedureKind = iota
	ProcedureSTAR
	ProcedureApproach
)

func (k ProcedureKind) String() string {
	switch k {
	case ProcedureSID:
		return "SID"
	case ProcedureSTAR:
		return "STAR"
	case ProcedureApproach:
		return "APPROACH"
	default:
		return "ProcedureKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Marker is the inbound-procedure marker placed on the first waypoint of
// a loaded procedure.
func (k ProcedureKind) Marker() string {
	return k.String()
}

// ContinuationMarker is placed on the procedure's subsequent waypoints.
func (k ProcedureKind) ContinuationMarker() string {
	return k.String() + "_CONT"
}

// Section returns the flight plan section that holds procedures of the
// kind.
func (k ProcedureKind) Section() Section {
	switch k {
	case ProcedureSID:
		return SectionSID
	case ProcedureSTAR:
		return SectionSTAR
	default:
		return SectionApproach
	}
}

func (k ProcedureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ProcedureKind) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "SID":
		*k = ProcedureSID
	case "STAR":
		*k = ProcedureSTAR
	case "APPROACH", "IAP":
		*k = ProcedureApproach
	default:
		return fmt.Errorf("%s: unknown procedure kind", string(b))
	}
	return nil
}

// Procedure is an ordered list of fixes as supplied by the navigation
// database, keyed by its numeric id.
type Procedure struct {
	Id        int           `json:"id"`
	Kind      ProcedureKind `json:"kind"`
	Name      string        `json:"name"`
	Airport   string        `json:"airport,omitempty"`
	Runway    string        `json:"runway,omitempty"`
	Waypoints []WaypointFix `json:"waypoints"`
}
