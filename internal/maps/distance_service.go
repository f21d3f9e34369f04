// README: Google Distance Matrix client for batched travel estimates.
package maps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"

	"ryde/internal/types"
)

// MaxDestinations is the Distance Matrix per-call destination limit.
// Callers batch below it; larger inputs are rejected outright.
const MaxDestinations = 25

// Leg is one origin-to-destination travel estimate.
type Leg struct {
	Meters   int
	Duration time.Duration
}

// DistanceService handles interactions with the Google Distance Matrix API.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a new DistanceService with the given API Key.
func NewDistanceService(apiKey string) (*DistanceService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// Distances returns driving legs from origin to every destination, in
// destination order. The batch is all-or-nothing: a transport error, a
// count mismatch, or any per-destination non-OK status fails the whole
// call, so callers never see partially trusted distances.
func (s *DistanceService) Distances(ctx context.Context, origin types.Point, dests []types.Point) ([]Leg, error) {
	if len(dests) == 0 {
		return nil, nil
	}
	if len(dests) > MaxDestinations {
		return nil, fmt.Errorf("distance matrix: %d destinations exceeds limit of %d", len(dests), MaxDestinations)
	}

	r := &maps.DistanceMatrixRequest{
		Origins:      []string{formatLatLng(origin)},
		Destinations: make([]string, len(dests)),
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}
	for i, d := range dests {
		r.Destinations[i] = formatLatLng(d)
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(resp.Rows) != 1 {
		return nil, fmt.Errorf("distance matrix: expected 1 row, got %d", len(resp.Rows))
	}
	elements := resp.Rows[0].Elements
	if len(elements) != len(dests) {
		return nil, fmt.Errorf("distance matrix: expected %d elements, got %d", len(dests), len(elements))
	}

	legs := make([]Leg, len(elements))
	for i, el := range elements {
		if el.Status != "OK" {
			return nil, fmt.Errorf("distance matrix: element %d status %s", i, el.Status)
		}
		legs[i] = Leg{Meters: el.Distance.Meters, Duration: el.Duration}
	}
	return legs, nil
}

func formatLatLng(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
