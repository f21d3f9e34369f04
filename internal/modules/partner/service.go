// README: Partner service handles availability, location updates, and zone supply.
package partner

import (
	"context"
	"errors"
	"log"
	"time"

	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

var (
	ErrBadRequest = errors.New("partner: bad request")
	// ErrEngaged means the partner is mid-trip and cannot change
	// availability until the trip resolves.
	ErrEngaged = errors.New("partner: engaged in a trip")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SetAvailability toggles a partner between available and offline. A
// partner holding a reservation or an active trip cannot go offline;
// the dispatch round or the trip must release them first.
func (s *Service) SetAvailability(ctx context.Context, id types.ID, online bool) error {
	return s.store.UpdateTx(ctx, id, func(p *Partner) error {
		if p.Status == StatusRequested || p.Status == StatusBusy {
			return ErrEngaged
		}
		if online {
			if p.Status != StatusAvailable {
				p.IdleSince = time.Now()
			}
			p.Status = StatusAvailable
		} else {
			p.Status = StatusOffline
		}
		return nil
	})
}

// UpdateLocation records a device position fix, reclassifies the zone,
// and mirrors the point into Redis GEO. The mirror is best effort; the
// row is the source of truth.
func (s *Service) UpdateLocation(ctx context.Context, id types.ID, pos types.Point) error {
	err := s.store.UpdateTx(ctx, id, func(p *Partner) error {
		p.Position = &pos
		p.Zone = zone.Classify(pos.Lat, pos.Lng)
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.store.SetGeo(ctx, id, pos); err != nil {
		log.Printf("partner %s: geo mirror update failed: %v", id, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Partner, error) {
	return s.store.Get(ctx, id)
}

// SupplyByZone reports available-partner counts for every known zone,
// zero-filled so dashboards always see the full grid.
func (s *Service) SupplyByZone(ctx context.Context) (map[zone.Code]int, error) {
	counts, err := s.store.CountAvailableByZone(ctx)
	if err != nil {
		return nil, err
	}
	supply := make(map[zone.Code]int, len(zone.All))
	for _, code := range zone.All {
		supply[code] = counts[code]
	}
	return supply, nil
}
