// README: In-memory collaborator fakes for dispatch tests.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"ryde/internal/maps"
	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
	"ryde/internal/types"
)

type memPartnerStore struct {
	mu       sync.Mutex
	partners map[types.ID]partner.Partner
}

func newMemPartnerStore(ps ...partner.Partner) *memPartnerStore {
	s := &memPartnerStore{partners: make(map[types.ID]partner.Partner)}
	for _, p := range ps {
		s.partners[p.ID] = p
	}
	return s
}

func (s *memPartnerStore) ListByStatus(ctx context.Context, status partner.Status) ([]partner.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []partner.Partner
	for _, p := range s.partners {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memPartnerStore) UpdateTx(ctx context.Context, id types.ID, fn func(*partner.Partner) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[id]
	if !ok {
		return partner.ErrNotFound
	}
	if err := fn(&p); err != nil {
		return err
	}
	p.Version++
	s.partners[id] = p
	return nil
}

func (s *memPartnerStore) get(id types.ID) partner.Partner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partners[id]
}

type memTripStore struct {
	mu       sync.Mutex
	trips    map[types.ID]trip.Trip
	watchers map[types.ID][]chan types.ID
}

func newMemTripStore(ts ...trip.Trip) *memTripStore {
	s := &memTripStore{
		trips:    make(map[types.ID]trip.Trip),
		watchers: make(map[types.ID][]chan types.ID),
	}
	for _, t := range ts {
		s.trips[t.ID] = t
	}
	return s
}

func (s *memTripStore) Get(ctx context.Context, id types.ID) (*trip.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, trip.ErrNotFound
	}
	return &t, nil
}

func (s *memTripStore) UpdateTx(ctx context.Context, id types.ID, fn func(*trip.Trip) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return trip.ErrNotFound
	}
	if err := fn(&t); err != nil {
		return err
	}
	t.Version++
	s.trips[id] = t
	return nil
}

func (s *memTripStore) WatchAssignment(ctx context.Context, id types.ID) (<-chan types.ID, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan types.ID, 1)
	s.watchers[id] = append(s.watchers[id], ch)
	return ch, func() {}, nil
}

func (s *memTripStore) announce(id, partnerID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers[id] {
		select {
		case ch <- partnerID:
		default:
		}
	}
}

// accept mirrors the trip service's arbitration: compare-and-set the
// trip's assigned partner, promote the reservation, announce the win.
func (s *memTripStore) accept(partners *memPartnerStore, tripID, partnerID types.ID) error {
	err := s.UpdateTx(context.Background(), tripID, func(t *trip.Trip) error {
		if t.AssignedPartner != "" {
			return trip.ErrAlreadyAssigned
		}
		if t.Status != trip.StatusDispatching {
			return trip.ErrInvalidState
		}
		t.AssignedPartner = partnerID
		return nil
	})
	if err != nil {
		return err
	}
	_ = partners.UpdateTx(context.Background(), partnerID, func(p *partner.Partner) error {
		if p.Status != partner.StatusRequested || p.CurrentClientUID != tripID {
			return partner.ErrConflict
		}
		p.Status = partner.StatusBusy
		return nil
	})
	s.announce(tripID, partnerID)
	return nil
}

type stubRouter struct {
	mu    sync.Mutex
	calls [][]types.Point
	// metersFor returns the distance for the i-th destination; nil means
	// a flat 1000m for everyone.
	metersFor func(i int, dest types.Point) int
	err       error
}

func (r *stubRouter) Distances(ctx context.Context, origin types.Point, dests []types.Point) ([]maps.Leg, error) {
	r.mu.Lock()
	r.calls = append(r.calls, dests)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	legs := make([]maps.Leg, len(dests))
	for i, d := range dests {
		m := 1000
		if r.metersFor != nil {
			m = r.metersFor(i, d)
		}
		legs[i] = maps.Leg{Meters: m}
	}
	return legs, nil
}

func (r *stubRouter) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type recordingNotifier struct {
	mu     sync.Mutex
	tokens []string
}

func (n *recordingNotifier) OfferCreated(ctx context.Context, deviceToken string, t *trip.Trip) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, deviceToken)
	return nil
}

// conflictingPartnerStore injects a one-shot reservation conflict for a
// chosen partner, simulating a concurrent grab between listing and
// reserving.
type conflictingPartnerStore struct {
	*memPartnerStore
	target types.ID
	once   sync.Once
}

func (s *conflictingPartnerStore) UpdateTx(ctx context.Context, id types.ID, fn func(*partner.Partner) error) error {
	if id == s.target {
		conflicted := false
		s.once.Do(func() { conflicted = true })
		if conflicted {
			return partner.ErrConflict
		}
	}
	return s.memPartnerStore.UpdateTx(ctx, id, fn)
}

var errRouterDown = errors.New("matrix unavailable")
