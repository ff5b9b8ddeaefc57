// nav/ils.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"strconv"

	av "github.com/skyvoice/navguide/aviation"
	"github.com/skyvoice/navguide/math"
)

// ILSParams holds the thresholds used to classify an aircraft's progress
// towards an instrument approach. Distances are in nautical miles.
type ILSParams struct {
	TooFar                float64 `yaml:"too_far_nm"`
	EstablishedCrossTrack float64 `yaml:"established_cross_track_nm"`
	SetupCapture          float64 `yaml:"setup_capture_nm"`
	InterceptCrossTrack   float64 `yaml:"intercept_cross_track_nm"`
	InterceptOffset       float64 `yaml:"intercept_offset_nm"`
	SetupDistance         float64 `yaml:"setup_distance_nm"`
	CenterlineLead        float64 `yaml:"centerline_lead_nm"`
	LocalizerTolerance    float64 `yaml:"localizer_tolerance_deg"`
	GlideslopeGradient    float64 `yaml:"glideslope_ft_per_nm"`
	GlideslopeToleranceFt float64 `yaml:"glideslope_tolerance_ft"`
}

func DefaultILSParams() ILSParams {
	return ILSParams{
		TooFar:                100,
		EstablishedCrossTrack: 0.5,
		SetupCapture:          3,
		InterceptCrossTrack:   1,
		InterceptOffset:       DefaultInterceptOffsetNM,
		SetupDistance:         DefaultSetupDistanceNM,
		CenterlineLead:        2,
		LocalizerTolerance:    LocalizerToleranceDegrees,
		GlideslopeGradient:    GlideslopeFeetPerNM,
		GlideslopeToleranceFt: 50,
	}
}

// Stage is where an aircraft is in the process of joining an instrument
// approach.
type Stage int

const (
	NoGuidance Stage = iota
	TooFar
	VectoringToSetup
	TurningToIntercept
	Intercepting
	Established
)

var stageNames = [...]string{"NoGuidance", "TooFar", "VectoringToSetup", "TurningToIntercept", "Intercepting", "Established"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "Stage(" + strconv.Itoa(int(s)) + ")"
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type TurnDirection int

const (
	TurnNone TurnDirection = iota
	TurnLeft
	TurnRight
)

func (t TurnDirection) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return ""
	}
}

func (t TurnDirection) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// turnTo returns the shorter direction to turn from heading cur to
// target.
func turnTo(cur, target float64) TurnDirection {
	d := math.HeadingSignedTurn(cur, target)
	switch {
	case d > 0:
		return TurnRight
	case d < 0:
		return TurnLeft
	default:
		return TurnNone
	}
}

// GuidanceResult describes the aircraft's state with respect to an
// instrument approach at a single instant. Headings are magnetic,
// distances in nautical miles and altitudes in feet.
type GuidanceResult struct {
	Stage              Stage         `json:"stage"`
	Runway             string        `json:"runway"`
	Side               InterceptSide `json:"side"`
	RecommendedHeading float64       `json:"recommended_heading"`
	Turn               TurnDirection `json:"turn"`

	// Signed; positive when right of the final approach course.
	CrossTrack           float64 `json:"cross_track"`
	DistanceToCenterline float64 `json:"distance_to_centerline"`
	DistanceToThreshold  float64 `json:"distance_to_threshold"`
	DistanceToSetupPoint float64 `json:"distance_to_setup_point"`
	OnLocalizer          bool    `json:"on_localizer"`

	RequiredAltitude    float64 `json:"required_altitude"`
	// Aircraft altitude minus RequiredAltitude; positive when high.
	GlideslopeDeviation float64 `json:"glideslope_deviation"`
	OnGlideslope        bool    `json:"on_glideslope"`
}

// EvaluateILS classifies the aircraft's position against the given
// runway using the default parameters.
func EvaluateILS(pos av.Position, rwy av.Runway, ap av.Airport) GuidanceResult {
	return DefaultILSParams().Evaluate(pos, rwy, ap)
}

// Evaluate classifies the aircraft's position against the runway's final
// approach course. The result depends only on the arguments; there is no
// memory of earlier calls, so it may be called at any rate.
func (p ILSParams) Evaluate(pos av.Position, rwy av.Runway, ap av.Airport) GuidanceResult {
	side := BestInterceptSide(pos.Location, rwy)
	setup := InterceptSetupPoint(rwy, side, p.InterceptOffset, p.SetupDistance)
	xtrack := centerlineCrossTrack(pos.Location, rwy)

	r := GuidanceResult{
		Runway:               rwy.Id,
		Side:                 side,
		CrossTrack:           xtrack,
		DistanceToCenterline: math.Abs(xtrack),
		DistanceToThreshold:  math.NMDistance2LL(pos.Location, rwy.Threshold),
		DistanceToSetupPoint: math.NMDistance2LL(pos.Location, setup),
		OnLocalizer:          onLocalizer(pos.Heading, rwy.MagneticHeading, p.LocalizerTolerance),
	}
	r.RequiredAltitude = glideslopeAltitude(r.DistanceToThreshold, ap.Elevation, p.GlideslopeGradient)
	r.GlideslopeDeviation = pos.Altitude - r.RequiredAltitude
	r.OnGlideslope = math.Abs(r.GlideslopeDeviation) <= p.GlideslopeToleranceFt

	magVar := ap.MagneticVariation
	switch {
	case r.DistanceToThreshold > p.TooFar:
		r.Stage = TooFar
		r.RecommendedHeading = math.MagneticBearing2LL(pos.Location, rwy.Threshold, magVar)

	case r.OnLocalizer && r.DistanceToCenterline < p.EstablishedCrossTrack:
		r.Stage = Established
		r.RecommendedHeading = rwy.MagneticHeading

	case r.DistanceToSetupPoint > p.SetupCapture:
		r.Stage = VectoringToSetup
		r.RecommendedHeading = math.MagneticBearing2LL(pos.Location, setup, magVar)

	case r.DistanceToCenterline > p.InterceptCrossTrack:
		r.Stage = TurningToIntercept
		r.RecommendedHeading = ThirtyDegreeInterceptHeading(rwy, side)

	default:
		r.Stage = Intercepting
		ref := centerlineReferencePoint(pos.Location, rwy, p.CenterlineLead)
		r.RecommendedHeading = math.MagneticBearing2LL(pos.Location, ref, magVar)
	}
	r.Turn = turnTo(pos.Heading, r.RecommendedHeading)

	NavLog(rwy.Id, NavLogILS, "%s: thr %.2fnm setup %.2fnm xtk %+.2fnm hdg %03.0f->%03.0f gs %+.0fft",
		r.Stage, r.DistanceToThreshold, r.DistanceToSetupPoint, r.CrossTrack, pos.Heading,
		r.RecommendedHeading, r.GlideslopeDeviation)

	return r
}

// EvaluatePlan evaluates guidance for the flight plan's arrival
// runway. If the plan has no arrival runway, prev is returned unchanged.
func (p ILSParams) EvaluatePlan(prev GuidanceResult, fp av.FlightPlan, pos av.Position) GuidanceResult {
	rwy, ap, ok := fp.ArrivalRunway()
	if !ok {
		NavLog("", NavLogPlan, "no arrival runway; ILS guidance unchanged")
		return prev
	}
	return p.Evaluate(pos, rwy, ap)
}

func EvaluatePlanILS(prev GuidanceResult, fp av.FlightPlan, pos av.Position) GuidanceResult {
	return DefaultILSParams().EvaluatePlan(prev, fp, pos)
}

func headingString(h float64) string {
	hdg := int(math.Round(h)) % 360
	if hdg == 0 {
		hdg = 360
	}
	return fmt.Sprintf("%03d", hdg)
}

func glideslopeString(dev float64, onSlope bool) string {
	if onSlope {
		return "on glideslope"
	} else if dev > 0 {
		return fmt.Sprintf("%.0f feet high", dev)
	}
	return fmt.Sprintf("%.0f feet low", -dev)
}

// Announcement returns the text to be spoken for the guidance.
func (r GuidanceResult) Announcement() string {
	turn := "Fly"
	if r.Turn != TurnNone {
		turn = "Turn " + r.Turn.String()
	}

	switch r.Stage {
	case TooFar:
		return fmt.Sprintf("Runway %s is %.0f miles away. %s heading %s", r.Runway, r.DistanceToThreshold,
			turn, headingString(r.RecommendedHeading))
	case VectoringToSetup:
		return fmt.Sprintf("%s heading %s to the intercept point, %.1f miles", turn,
			headingString(r.RecommendedHeading), r.DistanceToSetupPoint)
	case TurningToIntercept:
		return fmt.Sprintf("%s heading %s to intercept the runway %s localizer, %.1f miles %s of centerline",
			turn, headingString(r.RecommendedHeading), r.Runway, r.DistanceToCenterline, r.Side)
	case Intercepting:
		return fmt.Sprintf("Intercepting localizer, %.1f miles %s of centerline. %s heading %s",
			r.DistanceToCenterline, r.Side, turn, headingString(r.RecommendedHeading))
	case Established:
		return fmt.Sprintf("Established on runway %s localizer, %.1f miles, %s", r.Runway,
			r.DistanceToThreshold, glideslopeString(r.GlideslopeDeviation, r.OnGlideslope))
	default:
		return ""
	}
}
