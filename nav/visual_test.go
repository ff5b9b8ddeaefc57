// nav/visual_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"testing"
	"time"

	av "github.com/skyvoice/navguide/aviation"
	"github.com/skyvoice/navguide/math"
)

func TestLateralDeviation(t *testing.T) {
	if d := LateralDeviation(ReciprocalPoint(rwy34R, 10), rwy34R); math.Abs(d) > 0.1 {
		t.Errorf("on centerline: deviation %f", d)
	}

	// Left of the centerline, the threshold is to the right.
	left := LateralDeviation(offsetFromCenterline(rwy34R, 5, -0.5), rwy34R)
	if left < 5.5 || left > 6 {
		t.Errorf("0.5nm left at 5nm: deviation %f, expected about 5.7", left)
	}
	right := LateralDeviation(offsetFromCenterline(rwy34R, 5, 0.2), rwy34R)
	if right > -2 || right < -2.5 {
		t.Errorf("0.2nm right at 5nm: deviation %f, expected about -2.3", right)
	}

	// Past the threshold the result is still in [-180,180].
	if d := LateralDeviation(math.Destination2LL(rwy34R.Threshold, 340, 3), rwy34R); math.Abs(d) > 180 || math.Abs(d) < 179 {
		t.Errorf("beyond the threshold: deviation %f", d)
	}
}

func TestVerticalDeviation(t *testing.T) {
	for _, test := range []struct{ alt, dist, elev, dev float64 }{
		{2033, 5, 433, 0},
		{2133, 5, 433, 100},
		{1000, 5, 0, -600},
		{433, 0, 433, 0},
	} {
		if d := VerticalDeviation(test.alt, test.dist, test.elev); d != test.dev {
			t.Errorf("VerticalDeviation(%f, %f, %f) = %f, expected %f", test.alt, test.dist, test.elev, d, test.dev)
		}
	}
}

func TestClassify(t *testing.T) {
	for _, test := range []struct {
		dev float64
		l   LateralState
	}{
		{0, Aligned}, {0.5, Aligned}, {-0.5, Aligned}, {0.51, Right}, {-0.6, Left}, {12, Right},
	} {
		if l := ClassifyLateral(test.dev); l != test.l {
			t.Errorf("ClassifyLateral(%f) = %s, expected %s", test.dev, l, test.l)
		}
	}

	for _, test := range []struct {
		dev float64
		v   VerticalState
	}{
		{0, OnSlope}, {50, OnSlope}, {-50, OnSlope}, {51, Up}, {-51, Down}, {-500, Down},
	} {
		if v := ClassifyVertical(test.dev); v != test.v {
			t.Errorf("ClassifyVertical(%f) = %s, expected %s", test.dev, v, test.v)
		}
	}
}

func TestStateNames(t *testing.T) {
	for _, test := range []struct {
		got, expected string
	}{
		{Aligned.String(), "Aligned"},
		{Right.String(), "Right"},
		{LateralState(3).String(), "LateralState(3)"},
		{LateralState(-1).String(), "LateralState(-1)"},
		{Down.String(), "Down"},
		{VerticalState(7).String(), "VerticalState(7)"},
		{Established.String(), "Established"},
		{Stage(9).String(), "Stage(9)"},
	} {
		if test.got != test.expected {
			t.Errorf("got %q, expected %q", test.got, test.expected)
		}
	}
}

func TestShouldContinue(t *testing.T) {
	for _, test := range []struct {
		agl, lat, dist float64
		cont           bool
	}{
		{40, 0, 5, false},
		{200, 6, 5, false},
		{200, 2, 5, true},
		{200, -6, 5, false},
		{200, -5, 5, true},
		{50, 0, 0.2, true},
		{49.9, 0, 0.2, false},
	} {
		if c := ShouldContinue(test.agl, test.lat, test.dist); c != test.cont {
			t.Errorf("ShouldContinue(%f, %f, %f) = %v, expected %v", test.agl, test.lat, test.dist, c, test.cont)
		}
	}
}

func TestUpdateInterval(t *testing.T) {
	for _, test := range []struct {
		agl      float64
		interval time.Duration
	}{
		{0, time.Second},
		{999, time.Second},
		{1000, 3 * time.Second},
		{8000, 3 * time.Second},
	} {
		if i := UpdateInterval(test.agl); i != test.interval {
			t.Errorf("UpdateInterval(%f) = %s, expected %s", test.agl, i, test.interval)
		}
	}
}

func TestComposeAnnouncement(t *testing.T) {
	for _, test := range []struct {
		l    LateralState
		v    VerticalState
		text string
	}{
		{Aligned, OnSlope, "Aligned, on slope"},
		{Right, OnSlope, "Correct right"},
		{Left, OnSlope, "Correct left"},
		{Aligned, Up, "Above slope"},
		{Aligned, Down, "Below slope"},
		{Left, Up, "Correct left, above slope"},
		{Right, Down, "Correct right, below slope"},
	} {
		if s := ComposeAnnouncement(test.l, test.v); s != test.text {
			t.Errorf("ComposeAnnouncement(%s, %s) = %q, expected %q", test.l, test.v, s, test.text)
		}
	}
}

func TestEvaluateVisual(t *testing.T) {
	p := ReciprocalPoint(rwy34R, 5)
	dist := math.NMDistance2LL(p, rwy34R.Threshold)
	pos := av.Position{Location: p, Heading: 325, Altitude: GlideslopeAltitude(dist, 433)}

	r := EvaluateVisual(pos, rwy34R, ksea)
	if !r.Valid || r.Lateral != Aligned || r.Vertical != OnSlope || !r.Continue {
		t.Errorf("on centerline and slope: %+v", r)
	}
	if r.Announcement() != "Aligned, on slope" {
		t.Errorf("announcement %q", r.Announcement())
	}
	if r.AGL != pos.Altitude-433 || r.UpdateInterval != 3*time.Second {
		t.Errorf("agl %f interval %s", r.AGL, r.UpdateInterval)
	}

	// Low and left, close in.
	p = offsetFromCenterline(rwy34R, 1.5, -0.05)
	dist = math.NMDistance2LL(p, rwy34R.Threshold)
	pos = av.Position{Location: p, Heading: 325, Altitude: 433 + 300}
	r = EvaluateVisual(pos, rwy34R, ksea)
	if r.VerticalDeviation != pos.Altitude-(dist*320+433) {
		t.Errorf("vertical deviation %f", r.VerticalDeviation)
	}
	if r.Lateral != Right || r.Vertical != Down || r.Announcement() != "Correct right, below slope" {
		t.Errorf("low and left: %s %s %q", r.Lateral, r.Vertical, r.Announcement())
	}
	if r.UpdateInterval != time.Second || !r.Continue {
		t.Errorf("interval %s continue %v", r.UpdateInterval, r.Continue)
	}

	// On the ground: stop monitoring.
	pos.Altitude = 433 + 20
	if r := EvaluateVisual(pos, rwy34R, ksea); r.Continue {
		t.Errorf("continuing at %f AGL", r.AGL)
	}
}

func TestEvaluatePlanVisual(t *testing.T) {
	pos := av.Position{Location: ReciprocalPoint(rwy34R, 4), Heading: 325, Altitude: 1700}
	prev := VisualResult{Runway: "16L", Valid: true, Lateral: Left}

	if r := EvaluatePlanVisual(prev, av.FlightPlan{}, pos); r != prev {
		t.Errorf("EvaluatePlanVisual with an empty plan = %+v", r)
	}
	if (VisualResult{}).Announcement() != "" {
		t.Errorf("announcement for an invalid result")
	}

	db := &av.StaticDB{Airports: map[string]av.Airport{"KSEA": ksea}}
	m := av.NewFlightPlanManager(db, db, nil)
	if err := m.LoadArrival("ksea", "34r"); err != nil {
		t.Fatal(err)
	}
	if r := EvaluatePlanVisual(prev, m.Current(), pos); r != EvaluateVisual(pos, rwy34R, ksea) {
		t.Errorf("EvaluatePlanVisual = %+v", r)
	}
}
