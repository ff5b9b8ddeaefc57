// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

///////////////////////////////////////////////////////////////////////////
// Point2LL

const NauticalMilesToFeet = 6076.12
const FeetToNauticalMiles = 1 / NauticalMilesToFeet

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

// LL returns the Point2LL for the given latitude and longitude; it saves
// callers from remembering the index order.
func LL(lat, lon float64) Point2LL {
	return Point2LL{lon, lat}
}

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// DMSString returns the position in degrees minutes, seconds, e.g.
// N039.51.39.243,W075.16.29.511
func (p Point2LL) DMSString() string {
	format := func(v float64) string {
		s := fmt.Sprintf("%03d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 1000
		s += fmt.Sprintf(".%03d", Min(int(Round(v)), 999))
		return s
	}

	var s string
	if p[1] >= 0 {
		s = "N"
	} else {
		s = "S"
	}
	s += format(Abs(p[1]))

	if p[0] >= 0 {
		s += ",E"
	} else {
		s += ",W"
	}
	s += format(Abs(p[0]))

	return s
}

var (
	// pair of floats (no exponents)
	reWaypointFloat = regexp.MustCompile(`^(\-?[0-9]+\.[0-9]+), *(\-?[0-9]+\.[0-9]+)$`)
	// e.g. N40.37.58.400, W073.46.17.000
	reWaypointDotted = regexp.MustCompile(`^([NS])([0-9]+)\.([0-9]+)\.([0-9]+)\.([0-9]+), *([EW])([0-9]+)\.([0-9]+)\.([0-9]+)\.([0-9]+)$`)
)

// ParseLatLong parses either a decimal-degrees pair ("47.4502, -122.3088",
// latitude first) or a dotted degrees-minutes-seconds pair
// ("N47.27.00.720,W122.18.31.680").
func ParseLatLong(llstr []byte) (Point2LL, error) {
	if strs := reWaypointFloat.FindStringSubmatch(string(llstr)); len(strs) == 3 {
		lat, err := strconv.ParseFloat(strs[1], 64)
		if err != nil {
			return Point2LL{}, err
		}
		lon, err := strconv.ParseFloat(strs[2], 64)
		if err != nil {
			return Point2LL{}, err
		}
		if Abs(lat) > 90 || Abs(lon) > 180 {
			return Point2LL{}, fmt.Errorf("%s: latlong out of range", llstr)
		}
		return LL(lat, lon), nil
	} else if strs := reWaypointDotted.FindStringSubmatch(string(llstr)); len(strs) == 11 {
		parse := func(hemi, deg, min, sec, frac string) float64 {
			d, _ := strconv.Atoi(deg)
			m, _ := strconv.Atoi(min)
			s, _ := strconv.Atoi(sec)
			// Treat the last set of digits as a decimal, so that
			// Nxx.yy.zz.1 is handled like Nxx.yy.zz.100.
			f, _ := strconv.ParseFloat("0."+frac, 64)
			v := float64(d) + float64(m)/60 + (float64(s)+f)/3600
			if hemi == "S" || hemi == "W" {
				v = -v
			}
			return v
		}
		return LL(parse(strs[1], strs[2], strs[3], strs[4], strs[5]),
			parse(strs[6], strs[7], strs[8], strs[9], strs[10])), nil
	}
	return Point2LL{}, fmt.Errorf("%s: invalid latlong string", llstr)
}

// Store Point2LLs as strings is JSON, for compactness/friendliness...
func (p Point2LL) MarshalJSON() ([]byte, error) {
	return []byte("\"" + p.DMSString() + "\""), nil
}

func (p *Point2LL) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		// [lon, lat] arrays are accepted as well.
		var pt [2]float64
		err := json.Unmarshal(b, &pt)
		if err == nil {
			*p = pt
		}
		return err
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	pt, err := ParseLatLong([]byte(s))
	if err == nil {
		*p = pt
	}
	return err
}
