// nav/approach.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	av "github.com/skyvoice/navguide/aviation"
	"github.com/skyvoice/navguide/math"
	"github.com/skyvoice/navguide/util"
)

const (
	// Feet of altitude per nautical mile along a 3 degree glideslope.
	GlideslopeFeetPerNM = 320

	DefaultInterceptOffsetNM = 8
	DefaultSetupDistanceNM   = 17

	// Maximum difference between aircraft and runway heading for the
	// aircraft to be considered to be tracking the localizer.
	LocalizerToleranceDegrees = 5.0
)

// InterceptSide gives the side of the final approach course, as seen
// looking along the runway heading, that an aircraft is set up on.
type InterceptSide int

const (
	InterceptLeft  InterceptSide = -1
	InterceptRight InterceptSide = 1
)

func (s InterceptSide) String() string {
	return util.Select(s == InterceptLeft, "left", "right")
}

// ReciprocalPoint returns the point on the extended runway centerline
// dist nautical miles out from the threshold, on the approach side.
func ReciprocalPoint(rwy av.Runway, dist float64) math.Point2LL {
	return math.Destination2LL(rwy.Threshold, math.OppositeHeading(rwy.TrueHeading), dist)
}

// InterceptSetupPoint returns the point from which an aircraft can turn
// to intercept the final approach course: distanceFromThreshold out along
// the extended centerline and lateralOffset off to the given side.
func InterceptSetupPoint(rwy av.Runway, side InterceptSide, lateralOffset, distanceFromThreshold float64) math.Point2LL {
	p := ReciprocalPoint(rwy, distanceFromThreshold)
	return math.Destination2LL(p, math.NormalizeHeading(rwy.TrueHeading+float64(side)*90), lateralOffset)
}

// BestInterceptSide returns the side of the final approach course the
// aircraft is already on.
func BestInterceptSide(p math.Point2LL, rwy av.Runway) InterceptSide {
	rel := math.NormalizeHeading(math.TrueBearing2LL(rwy.Threshold, p) - rwy.TrueHeading)
	return util.Select(rel > 0 && rel <= 180, InterceptRight, InterceptLeft)
}

// ThirtyDegreeInterceptHeading returns the magnetic heading that
// intercepts the final approach course at 30 degrees from the given side.
func ThirtyDegreeInterceptHeading(rwy av.Runway, side InterceptSide) float64 {
	return math.NormalizeHeading(rwy.MagneticHeading - float64(side)*30)
}

// GlideslopeAltitude returns the altitude in feet MSL of a 3 degree
// glideslope dist nautical miles from the threshold.
func GlideslopeAltitude(dist float64, fieldElevation float64) float64 {
	return glideslopeAltitude(dist, fieldElevation, GlideslopeFeetPerNM)
}

func glideslopeAltitude(dist, fieldElevation, feetPerNM float64) float64 {
	return dist*feetPerNM + fieldElevation
}

// IsOnLocalizer reports whether the aircraft's magnetic heading is within
// five degrees of the runway's.
func IsOnLocalizer(aircraftHeading, runwayHeading float64) bool {
	return onLocalizer(aircraftHeading, runwayHeading, LocalizerToleranceDegrees)
}

func onLocalizer(aircraftHeading, runwayHeading, tolerance float64) bool {
	return math.HeadingDifference(aircraftHeading, runwayHeading) <= tolerance
}

// PerpendicularDistanceToCenterline returns the unsigned great-circle
// distance from p to the runway's extended centerline.
func PerpendicularDistanceToCenterline(p math.Point2LL, rwy av.Runway) float64 {
	return math.Abs(centerlineCrossTrack(p, rwy))
}

// centerlineCrossTrack returns the signed distance from the extended
// centerline; positive is to the right looking along the runway heading.
func centerlineCrossTrack(p math.Point2LL, rwy av.Runway) float64 {
	return math.CrossTrackDistance(rwy.Threshold, rwy.TrueHeading, p)
}

// centerlineReferencePoint returns the point on the extended centerline
// lead nautical miles closer to the threshold than the aircraft's
// projection onto it, but never past the threshold.
func centerlineReferencePoint(p math.Point2LL, rwy av.Runway, lead float64) math.Point2LL {
	out := -math.AlongTrackDistance(rwy.Threshold, rwy.TrueHeading, p)
	return ReciprocalPoint(rwy, math.Max(out-lead, 0))
}
