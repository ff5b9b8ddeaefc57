// math/heading.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// headings and directions

// NormalizeHeading reduces h to [0,360).
func NormalizeHeading(h float64) float64 {
	h = Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		// -1e-15 + 360 rounds to 360.
		h = 0
	}
	return h
}

// NormalizeSignedAngle reduces a to (-180,180].
func NormalizeSignedAngle(a float64) float64 {
	a = NormalizeHeading(a)
	if a > 180 {
		a -= 360
	}
	return a
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float64, b float64) float64 {
	d := Abs(NormalizeHeading(a) - NormalizeHeading(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Figure out which way is closest: first find the angle to rotate the
// target heading by so that it's aligned with 180 degrees. This lets us
// not worry about the complexities of the wrap around at 0/360..
// Positive results are right turns.
func HeadingSignedTurn(cur, target float64) float64 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot) // w.r.t. 180 target
}

func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

// Compass converts a heading expressed into degrees into a string
// corresponding to the closest compass direction.
func Compass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"North", "Northeast", "East", "Southeast",
		"South", "Southwest", "West", "Northwest"}[idx]
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float64) string {
	h := NormalizeHeading(heading + 22.5)
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx]
}

// HeadingAsHour converts a relative bearing expressed in degrees into the
// closest "o'clock" value, with an integer result in the range [1,12].
func HeadingAsHour(heading float64) int {
	heading = NormalizeHeading(heading - 15)
	// now [0,30] is 1 o'clock, etc
	return 1 + int(heading/30)
}
