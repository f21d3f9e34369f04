// README: Boundary-table classification and adjacency tests.
package zone

import (
	"math"
	"testing"
)

func TestClassifyKnownPoints(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		want     Code
	}{
		{"southwest cell interior", 24.91, 121.46, "A2"},
		{"northeast cell interior", 25.16, 121.63, "D7"},
		{"center of grid", 25.06, 121.57, "C5"},
		{"sw corner wins over A1", 24.92, 121.42, CornerSW},
		{"se corner wins over A8", 24.94, 121.68, CornerSE},
		{"nw corner wins over D1", 25.18, 121.42, CornerNW},
		{"ne corner wins over D8", 25.16, 121.66, CornerNE},
		{"just past corner extent", 24.96, 121.42, "A1"},
		{"south of area", 24.80, 121.55, Undefined},
		{"west of area", 25.05, 121.30, Undefined},
		{"north edge excluded", 25.20, 121.55, Undefined},
		{"origin", 0, 0, Undefined},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.lat, tc.lng); got != tc.want {
				t.Fatalf("Classify(%v, %v) = %s, want %s", tc.lat, tc.lng, got, tc.want)
			}
		})
	}
}

// TestClassifyTotal sweeps a lattice well beyond the service area and
// checks every point lands on exactly one defined code or Undefined.
func TestClassifyTotal(t *testing.T) {
	defined := make(map[Code]bool, len(All))
	for _, c := range All {
		defined[c] = true
	}
	for lat := 24.0; lat <= 26.0; lat += 0.013 {
		for lng := 120.5; lng <= 122.5; lng += 0.017 {
			got := Classify(lat, lng)
			if got != Undefined && !defined[got] {
				t.Fatalf("Classify(%v, %v) produced unknown code %s", lat, lng, got)
			}
		}
	}
	if got := Classify(math.NaN(), math.NaN()); got != Undefined {
		t.Fatalf("Classify(NaN, NaN) = %s, want Undefined", got)
	}
}

// TestClassifyInteriorStable verifies points strictly inside a cell never
// map to a neighbor: nudging by a sliver of the cell size keeps the code.
func TestClassifyInteriorStable(t *testing.T) {
	lat, lng := 25.08, 121.56
	base := Classify(lat, lng)
	for _, d := range []float64{-1e-6, 1e-6} {
		if got := Classify(lat+d, lng); got != base {
			t.Fatalf("lat nudge %v moved %s to %s", d, base, got)
		}
		if got := Classify(lat, lng+d); got != base {
			t.Fatalf("lng nudge %v moved %s to %s", d, base, got)
		}
	}
}

func TestAdjacency(t *testing.T) {
	if got := Adjacent(Undefined); len(got) != 0 {
		t.Fatalf("Undefined has neighbors: %v", got)
	}

	// Interior cell touches its full 8-neighborhood.
	neighbors := Adjacent("B4")
	want := map[Code]bool{
		"A3": true, "A4": true, "A5": true,
		"B3": true, "B5": true,
		"C3": true, "C4": true, "C5": true,
	}
	for w := range want {
		if !containsCode(neighbors, w) {
			t.Fatalf("B4 adjacency missing %s (got %v)", w, neighbors)
		}
	}

	// Corner regions neighbor the cells they overlap.
	if !containsCode(Adjacent(CornerSW), "A1") {
		t.Fatalf("SW corner should neighbor A1, got %v", Adjacent(CornerSW))
	}
	if !containsCode(Adjacent("A1"), CornerSW) {
		t.Fatalf("adjacency should be symmetric for A1/SW")
	}

	// Every zone's neighbor set excludes itself.
	for _, c := range All {
		if containsCode(Adjacent(c), c) {
			t.Fatalf("%s is adjacent to itself", c)
		}
	}
}

func containsCode(list []Code, c Code) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
