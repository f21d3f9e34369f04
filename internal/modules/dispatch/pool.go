// README: Candidate pool: filter available partners, widen zones, route the batch.
package dispatch

import (
	"context"
	"fmt"

	"ryde/internal/maps"
	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

// Pool queries and enriches the candidate set for one trip.
type Pool struct {
	partners PartnerStore
	router   Router
}

func NewPool(partners PartnerStore, router Router) *Pool {
	return &Pool{partners: partners, router: router}
}

// FindCandidates builds the enriched candidate set for a trip.
//
// Zone narrowing prefers partners sitting in the trip's origin zone;
// when that yields nobody, or when retry forces a wider net, the search
// takes the origin zone plus its neighbors, and as a last resort the
// whole eligible set rather than failing. The set is capped at the
// routing batch limit before distances are fetched; a routing failure
// fails the whole call since partial distances cannot be trusted.
func (p *Pool) FindCandidates(ctx context.Context, t *trip.Trip, retry bool) ([]Candidate, error) {
	available, err := p.partners.ListByStatus(ctx, partner.StatusAvailable)
	if err != nil {
		return nil, err
	}

	eligible := make([]partner.Partner, 0, len(available))
	for _, pt := range available {
		if !pt.Approved || pt.Position == nil {
			continue
		}
		if t.Payment == trip.PayCard && !pt.AcceptsCard {
			continue
		}
		eligible = append(eligible, pt)
	}
	if len(eligible) == 0 {
		return nil, ErrNoCandidates
	}

	picked := narrowByZone(eligible, t.OriginZone, retry)
	if len(picked) > maps.MaxDestinations {
		picked = picked[:maps.MaxDestinations]
	}

	dests := make([]types.Point, len(picked))
	for i, pt := range picked {
		dests[i] = *pt.Position
	}
	legs, err := p.router.Distances(ctx, t.Origin, dests)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoutingFailed, err)
	}

	candidates := make([]Candidate, len(picked))
	for i, pt := range picked {
		candidates[i] = Candidate{
			Partner:        pt,
			DistanceMeters: legs[i].Meters,
			TravelTime:     legs[i].Duration,
		}
	}
	return candidates, nil
}

func narrowByZone(eligible []partner.Partner, origin zone.Code, retry bool) []partner.Partner {
	if !retry {
		if same := inZones(eligible, map[zone.Code]bool{origin: true}); len(same) > 0 {
			return same
		}
	}
	widened := map[zone.Code]bool{origin: true}
	for _, z := range zone.Adjacent(origin) {
		widened[z] = true
	}
	if near := inZones(eligible, widened); len(near) > 0 {
		return near
	}
	return eligible
}

func inZones(partners []partner.Partner, zones map[zone.Code]bool) []partner.Partner {
	var out []partner.Partner
	for _, p := range partners {
		if zones[p.Zone] {
			out = append(out, p)
		}
	}
	return out
}
