// util/util_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"strings"
	"testing"
)

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() || e.Err() != nil {
		t.Errorf("fresh ErrorLogger reports errors")
	}

	e.Push("KSEA")
	e.Push("Runway 34R")
	e.ErrorString("zero length")
	e.Pop()
	if e.CurrentDepth() != 1 {
		t.Errorf("depth %d, expected 1", e.CurrentDepth())
	}
	e.Pop()

	if !e.HaveErrors() {
		t.Fatalf("expected errors")
	}
	if s := e.String(); s != "KSEA / Runway 34R: zero length" {
		t.Errorf("unexpected error string %q", s)
	}
	if err := e.Err(); err == nil || !strings.Contains(err.Error(), "zero length") {
		t.Errorf("Err() = %v", err)
	}
}

func TestSlices(t *testing.T) {
	s := []int{1, 2, 3, 4}
	d := DuplicateSlice(s)
	d[0] = 10
	if s[0] != 1 {
		t.Errorf("DuplicateSlice aliases its input")
	}
	if DuplicateSlice[int](nil) != nil {
		t.Errorf("DuplicateSlice(nil) should be nil")
	}

	if m := MapSlice(s, func(v int) int { return v * v }); !slices.Equal(m, []int{1, 4, 9, 16}) {
		t.Errorf("MapSlice gave %v", m)
	}
	if f := FilterSlice(s, func(v int) bool { return v%2 == 0 }); !slices.Equal(f, []int{2, 4}) {
		t.Errorf("FilterSlice gave %v", f)
	}
	if k := SortedMapKeys(map[string]int{"b": 1, "a": 2, "c": 3}); !slices.Equal(k, []string{"a", "b", "c"}) {
		t.Errorf("SortedMapKeys gave %v", k)
	}
	if Select(true, "a", "b") != "a" || Select(false, "a", "b") != "b" {
		t.Errorf("Select misbehaves")
	}
}
