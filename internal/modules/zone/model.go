// README: Zone codes for the service-area grid and its corner regions.
package zone

// Code identifies one discrete cell of the service area. The area is an
// 8x4 grid (rows A-D south to north, columns 1-8 west to east) plus four
// corner regions that take precedence over the cells they overlap.
type Code string

const (
	// Undefined is returned for coordinates outside every configured bound.
	Undefined Code = "UNDEFINED"

	CornerSW Code = "SW"
	CornerSE Code = "SE"
	CornerNW Code = "NW"
	CornerNE Code = "NE"
)

// All is the fixed list of every defined zone code. Callers seeding
// per-zone maps (supply counters, dashboards) iterate this list rather
// than ranging over an enum.
var All = []Code{
	"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8",
	"B1", "B2", "B3", "B4", "B5", "B6", "B7", "B8",
	"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8",
	"D1", "D2", "D3", "D4", "D5", "D6", "D7", "D8",
	CornerSW, CornerSE, CornerNW, CornerNE,
}
