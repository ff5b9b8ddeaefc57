// math/geodesy.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Great-circle navigation on a spherical earth. The formulas follow
// https://www.movable-type.co.uk/scripts/latlong.html; all angles are in
// degrees and all distances in nautical miles.

// EarthRadiusNM is the mean earth radius (6371 km / 1.852 km/nm).
const EarthRadiusNM = 3440.065

const NMPerLatitude = 60

// NMDistance2LL returns the haversine distance in nautical miles between
// two provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(Sin(dlat/2)) + Cos(lat1)*Cos(lat2)*Sqr(Sin(dlon/2))
	x = Clamp(x, 0, 1)
	c := 2 * Atan2(Sqrt(x), Sqrt(1-x))

	return EarthRadiusNM * c
}

// TrueBearing2LL returns the initial great-circle bearing from |from| to
// |to| with respect to true north, in [0,360).
func TrueBearing2LL(from Point2LL, to Point2LL) float64 {
	lat1, lat2 := Radians(from[1]), Radians(to[1])
	dlon := Radians(to[0] - from[0])

	y := Sin(dlon) * Cos(lat2)
	x := Cos(lat1)*Sin(lat2) - Sin(lat1)*Cos(lat2)*Cos(dlon)
	return NormalizeHeading(Degrees(Atan2(y, x)))
}

// MagneticBearing2LL returns the initial bearing from |from| to |to| with
// respect to magnetic north. The magnetic variation is positive east.
func MagneticBearing2LL(from Point2LL, to Point2LL, magneticVariation float64) float64 {
	return NormalizeHeading(TrueBearing2LL(from, to) - magneticVariation)
}

// Destination2LL returns the point reached by travelling dist nautical
// miles from p along the great circle with initial true bearing hdg.
func Destination2LL(p Point2LL, hdg float64, dist float64) Point2LL {
	lat1, lon1 := Radians(p[1]), Radians(p[0])
	theta := Radians(hdg)
	delta := dist / EarthRadiusNM

	lat2 := SafeASin(Sin(lat1)*Cos(delta) + Cos(lat1)*Sin(delta)*Cos(theta))
	lon2 := lon1 + Atan2(Sin(theta)*Sin(delta)*Cos(lat1), Cos(delta)-Sin(lat1)*Sin(lat2))

	// Keep longitude in [-180,180].
	return Point2LL{NormalizeSignedAngle(Degrees(lon2)), Degrees(lat2)}
}

// CrossTrackDistance returns the signed distance in nautical miles from p
// to the great circle that passes through start with initial true bearing
// course. Positive values are to the right of the course.
func CrossTrackDistance(start Point2LL, course float64, p Point2LL) float64 {
	d := NMDistance2LL(start, p) / EarthRadiusNM
	theta := Radians(TrueBearing2LL(start, p) - course)
	return SafeASin(Sin(d)*Sin(theta)) * EarthRadiusNM
}

// AlongTrackDistance returns the distance from start, along the great
// circle with initial true bearing course, to the point on it closest to
// p. The result is negative when p is behind start.
func AlongTrackDistance(start Point2LL, course float64, p Point2LL) float64 {
	d := NMDistance2LL(start, p) / EarthRadiusNM
	xt := CrossTrackDistance(start, course, p) / EarthRadiusNM
	at := SafeACos(Cos(d) / Cos(xt))
	if HeadingDifference(TrueBearing2LL(start, p), course) > 90 {
		at = -at
	}
	return at * EarthRadiusNM
}
