// README: Common identifier and coordinate value objects used across modules.
package types

type ID string

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}
