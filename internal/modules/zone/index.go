// README: Coordinate classification against the static boundary table, plus adjacency.
package zone

import "strconv"

// The boundary table covers the greater Taipei service area. Bounds are
// half-open on the north and east edges so every point maps to at most
// one cell.
const (
	minLat = 24.90
	maxLat = 25.20
	minLng = 121.40
	maxLng = 121.70

	rows = 4
	cols = 8

	cellHeight = (maxLat - minLat) / rows
	cellWidth  = (maxLng - minLng) / cols
)

type rect struct {
	latLo, latHi float64
	lngLo, lngHi float64
}

func (r rect) contains(lat, lng float64) bool {
	return lat >= r.latLo && lat < r.latHi && lng >= r.lngLo && lng < r.lngHi
}

// Corner regions overlap the grid cells beneath them and win on Classify.
var corners = map[Code]rect{
	CornerSW: {latLo: minLat, latHi: minLat + 0.05, lngLo: minLng, lngHi: minLng + 0.05},
	CornerSE: {latLo: minLat, latHi: minLat + 0.05, lngLo: maxLng - 0.05, lngHi: maxLng},
	CornerNW: {latLo: maxLat - 0.05, latHi: maxLat, lngLo: minLng, lngHi: minLng + 0.05},
	CornerNE: {latLo: maxLat - 0.05, latHi: maxLat, lngLo: maxLng - 0.05, lngHi: maxLng},
}

const rowLetters = "ABCD"

func cellCode(row, col int) Code {
	return Code(string(rowLetters[row]) + strconv.Itoa(col+1))
}

// Classify maps a coordinate to its zone code. It is total: any input,
// including NaN or out-of-range values, yields a code or Undefined.
func Classify(lat, lng float64) Code {
	for code, r := range corners {
		if r.contains(lat, lng) {
			return code
		}
	}
	if lat < minLat || lat >= maxLat || lng < minLng || lng >= maxLng {
		return Undefined
	}
	row := int((lat - minLat) / cellHeight)
	col := int((lng - minLng) / cellWidth)
	// Float division can land exactly on the upper edge; NaN input falls
	// through the range checks above and converts unpredictably.
	if row < 0 || col < 0 {
		return Undefined
	}
	if row >= rows {
		row = rows - 1
	}
	if col >= cols {
		col = cols - 1
	}
	return cellCode(row, col)
}

// adjacency is precomputed once from the boundary rects: two zones are
// neighbors when their rects touch or overlap.
var adjacency = buildAdjacency()

// Adjacent returns the static neighbor set of a zone. The result is
// shared; callers must not mutate it. Undefined has no neighbors.
func Adjacent(code Code) []Code {
	return adjacency[code]
}

func bounds(code Code) (rect, bool) {
	if r, ok := corners[code]; ok {
		return r, true
	}
	if len(code) != 2 {
		return rect{}, false
	}
	row := -1
	for i := 0; i < rows; i++ {
		if code[0] == rowLetters[i] {
			row = i
		}
	}
	col := int(code[1] - '1')
	if row < 0 || col < 0 || col >= cols {
		return rect{}, false
	}
	return rect{
		latLo: minLat + float64(row)*cellHeight,
		latHi: minLat + float64(row+1)*cellHeight,
		lngLo: minLng + float64(col)*cellWidth,
		lngHi: minLng + float64(col+1)*cellWidth,
	}, true
}

func buildAdjacency() map[Code][]Code {
	const eps = 1e-9
	touches := func(a, b rect) bool {
		return a.latLo <= b.latHi+eps && b.latLo <= a.latHi+eps &&
			a.lngLo <= b.lngHi+eps && b.lngLo <= a.lngHi+eps
	}
	adj := make(map[Code][]Code, len(All))
	for _, a := range All {
		ra, _ := bounds(a)
		for _, b := range All {
			if a == b {
				continue
			}
			rb, _ := bounds(b)
			if touches(ra, rb) {
				adj[a] = append(adj[a], b)
			}
		}
	}
	return adj
}
