// nav/visual.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"strconv"
	"strings"
	"time"

	av "github.com/skyvoice/navguide/aviation"
	"github.com/skyvoice/navguide/math"
)

// VisualParams holds the tolerances used when monitoring a visual
// approach.
type VisualParams struct {
	AlignedTolerance    float64       `yaml:"aligned_tolerance_deg"`
	OnSlopeTolerance    float64       `yaml:"on_slope_tolerance_ft"`
	MinimumAGL          float64       `yaml:"minimum_agl_ft"`
	MaxLateralDeviation float64       `yaml:"max_lateral_deviation_deg"`
	GlideslopeGradient  float64       `yaml:"glideslope_ft_per_nm"`
	FastUpdateBelowAGL  float64       `yaml:"fast_update_below_agl_ft"`
	FastUpdateInterval  time.Duration `yaml:"fast_update_interval"`
	SlowUpdateInterval  time.Duration `yaml:"slow_update_interval"`
}

func DefaultVisualParams() VisualParams {
	return VisualParams{
		AlignedTolerance:    0.5,
		OnSlopeTolerance:    50,
		MinimumAGL:          50,
		MaxLateralDeviation: 5,
		GlideslopeGradient:  GlideslopeFeetPerNM,
		FastUpdateBelowAGL:  1000,
		FastUpdateInterval:  1000 * time.Millisecond,
		SlowUpdateInterval:  3000 * time.Millisecond,
	}
}

type LateralState int

const (
	Aligned LateralState = iota
	Left
	Right
)

var lateralStateNames = [...]string{"Aligned", "Left", "Right"}

func (l LateralState) String() string {
	if l < 0 || int(l) >= len(lateralStateNames) {
		return "LateralState(" + strconv.Itoa(int(l)) + ")"
	}
	return lateralStateNames[l]
}

func (l LateralState) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

type VerticalState int

const (
	OnSlope VerticalState = iota
	Up
	Down
)

var verticalStateNames = [...]string{"OnSlope", "Up", "Down"}

func (v VerticalState) String() string {
	if v < 0 || int(v) >= len(verticalStateNames) {
		return "VerticalState(" + strconv.Itoa(int(v)) + ")"
	}
	return verticalStateNames[v]
}

func (v VerticalState) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// LateralDeviation returns the angle in degrees between the bearing from
// p to the threshold and the runway heading, in [-180,180]. Positive
// values mean the threshold is to the right of the runway heading.
func LateralDeviation(p math.Point2LL, rwy av.Runway) float64 {
	return math.NormalizeSignedAngle(math.TrueBearing2LL(p, rwy.Threshold) - rwy.TrueHeading)
}

// VerticalDeviation returns how far in feet the aircraft is above (or, if
// negative, below) a 3 degree glideslope to the threshold.
func VerticalDeviation(altitude, distanceToThreshold, fieldElevation float64) float64 {
	return altitude - GlideslopeAltitude(distanceToThreshold, fieldElevation)
}

func (vp VisualParams) ClassifyLateral(deviation float64) LateralState {
	if math.Abs(deviation) <= vp.AlignedTolerance {
		return Aligned
	} else if deviation > 0 {
		return Right
	}
	return Left
}

func (vp VisualParams) ClassifyVertical(deviation float64) VerticalState {
	if math.Abs(deviation) <= vp.OnSlopeTolerance {
		return OnSlope
	} else if deviation > 0 {
		return Up
	}
	return Down
}

// ShouldContinue reports whether visual approach monitoring should carry
// on: it stops close to the ground and when the aircraft is grossly off
// the runway alignment.
func (vp VisualParams) ShouldContinue(agl, lateralDeviation, distanceToThreshold float64) bool {
	if agl < vp.MinimumAGL {
		return false
	}
	if math.Abs(lateralDeviation) > vp.MaxLateralDeviation {
		return false
	}
	return true
}

// UpdateInterval returns how often the caller should sample the aircraft
// position at the given height above the field.
func (vp VisualParams) UpdateInterval(agl float64) time.Duration {
	if agl < vp.FastUpdateBelowAGL {
		return vp.FastUpdateInterval
	}
	return vp.SlowUpdateInterval
}

func ClassifyLateral(deviation float64) LateralState {
	return DefaultVisualParams().ClassifyLateral(deviation)
}

func ClassifyVertical(deviation float64) VerticalState {
	return DefaultVisualParams().ClassifyVertical(deviation)
}

func ShouldContinue(agl, lateralDeviation, distanceToThreshold float64) bool {
	return DefaultVisualParams().ShouldContinue(agl, lateralDeviation, distanceToThreshold)
}

func UpdateInterval(agl float64) time.Duration {
	return DefaultVisualParams().UpdateInterval(agl)
}

func lateralText(l LateralState) string {
	switch l {
	case Left:
		return "correct left"
	case Right:
		return "correct right"
	default:
		return "aligned"
	}
}

func verticalText(v VerticalState) string {
	switch v {
	case Up:
		return "above slope"
	case Down:
		return "below slope"
	default:
		return "on slope"
	}
}

// ComposeAnnouncement returns the text describing the aircraft's
// alignment. Only the axes that are off are mentioned, unless both are
// centered.
func ComposeAnnouncement(l LateralState, v VerticalState) string {
	var parts []string
	if l == Aligned && v == OnSlope {
		parts = []string{lateralText(l), verticalText(v)}
	} else {
		if l != Aligned {
			parts = append(parts, lateralText(l))
		}
		if v != OnSlope {
			parts = append(parts, verticalText(v))
		}
	}

	s := strings.Join(parts, ", ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// VisualResult is the state of a visual approach at a single instant.
type VisualResult struct {
	Runway string `json:"runway"`
	Valid  bool   `json:"valid"`

	LateralDeviation    float64       `json:"lateral_deviation"`  // degrees
	VerticalDeviation   float64       `json:"vertical_deviation"` // feet
	Lateral             LateralState  `json:"lateral"`
	Vertical            VerticalState `json:"vertical"`
	DistanceToThreshold float64       `json:"distance_to_threshold"`
	RequiredAltitude    float64       `json:"required_altitude"`
	AGL                 float64       `json:"agl"`

	Continue       bool          `json:"continue"`
	UpdateInterval time.Duration `json:"update_interval"`
}

func (r VisualResult) Announcement() string {
	if !r.Valid {
		return ""
	}
	return ComposeAnnouncement(r.Lateral, r.Vertical)
}

func EvaluateVisual(pos av.Position, rwy av.Runway, ap av.Airport) VisualResult {
	return DefaultVisualParams().Evaluate(pos, rwy, ap)
}

// Evaluate computes the visual approach state from a single position
// sample.
func (vp VisualParams) Evaluate(pos av.Position, rwy av.Runway, ap av.Airport) VisualResult {
	r := VisualResult{
		Runway:              rwy.Id,
		Valid:               true,
		LateralDeviation:    LateralDeviation(pos.Location, rwy),
		DistanceToThreshold: math.NMDistance2LL(pos.Location, rwy.Threshold),
		AGL:                 pos.Altitude - ap.Elevation,
	}
	r.RequiredAltitude = glideslopeAltitude(r.DistanceToThreshold, ap.Elevation, vp.GlideslopeGradient)
	r.VerticalDeviation = pos.Altitude - r.RequiredAltitude
	r.Lateral = vp.ClassifyLateral(r.LateralDeviation)
	r.Vertical = vp.ClassifyVertical(r.VerticalDeviation)
	r.Continue = vp.ShouldContinue(r.AGL, r.LateralDeviation, r.DistanceToThreshold)
	r.UpdateInterval = vp.UpdateInterval(r.AGL)

	NavLog(rwy.Id, NavLogVisual, "lat %+.2f (%s) vert %+.0fft (%s) agl %.0f continue %v",
		r.LateralDeviation, r.Lateral, r.VerticalDeviation, r.Vertical, r.AGL, r.Continue)

	return r
}

// EvaluatePlan evaluates the visual approach to the flight plan's
// arrival runway. If the plan has no arrival runway, prev is returned
// unchanged.
func (vp VisualParams) EvaluatePlan(prev VisualResult, fp av.FlightPlan, pos av.Position) VisualResult {
	rwy, ap, ok := fp.ArrivalRunway()
	if !ok {
		NavLog("", NavLogPlan, "no arrival runway; visual guidance unchanged")
		return prev
	}
	return vp.Evaluate(pos, rwy, ap)
}

func EvaluatePlanVisual(prev VisualResult, fp av.FlightPlan, pos av.Position) VisualResult {
	return DefaultVisualParams().EvaluatePlan(prev, fp, pos)
}
