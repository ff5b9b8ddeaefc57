// math/math_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"encoding/json"
	"testing"
)

func TestParseLatLong(t *testing.T) {
	type LL struct {
		str string
		pos Point2LL
	}
	latlongs := []LL{
		{str: "N40.37.58.400, W073.46.17.000", pos: Point2LL{-73.771388888889, 40.632888888889}}, // JFK VOR
		{str: "N40.37.58.4,W073.46.17.000", pos: Point2LL{-73.771388888889, 40.632888888889}},    // JFK VOR
		{str: "40.6328888, -73.771385", pos: Point2LL{-73.771385, 40.6328888}},
		{str: "47.4502, -122.3088", pos: Point2LL{-122.3088, 47.4502}},
	}

	for _, ll := range latlongs {
		p, err := ParseLatLong([]byte(ll.str))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", ll.str, err)
		}
		if Abs(p[0]-ll.pos[0]) > 1e-9 {
			t.Errorf("%s: got %.12g for longitude, expected %.12g", ll.str, p[0], ll.pos[0])
		}
		if Abs(p[1]-ll.pos[1]) > 1e-9 {
			t.Errorf("%s: got %.12g for latitude, expected %.12g", ll.str, p[1], ll.pos[1])
		}
	}

	for _, invalid := range []string{
		"E40.37.58.400, W073.46.17.000",
		"40.37.58.400, W073.46.17.000",
		"N40.37.58.400, -73.22",
		"N40.37.58.400, W073.46.17",
		"95.0, 10.0",
	} {
		if _, err := ParseLatLong([]byte(invalid)); err == nil {
			t.Errorf("%s: no error was returned for invalid latlong string!", invalid)
		}
	}
}

func TestPoint2LLJSON(t *testing.T) {
	p := LL(47.4502, -122.3088)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var q Point2LL
	if err := json.Unmarshal(b, &q); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	// DMS strings carry milliseconds of arc.
	if NMDistance2LL(p, q) > 0.001 {
		t.Errorf("%s round tripped to %s", p.DDString(), q.DDString())
	}

	if err := json.Unmarshal([]byte("[-122.3088, 47.4502]"), &q); err != nil {
		t.Errorf("array form: %v", err)
	} else if q != p {
		t.Errorf("array form gave %s", q.DDString())
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Errorf("Clamp misbehaves")
	}
	if Abs(-2.5) != 2.5 || Sqr(3) != 9 {
		t.Errorf("Abs/Sqr misbehave")
	}
}
