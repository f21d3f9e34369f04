// README: The dispatch coordinator runs the time-boxed cascading-offer protocol.
package dispatch

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"ryde/internal/config"
	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

// Coordinator runs one dispatch round per confirmed trip: reserve ranked
// candidates in order with a priority delay between offers, arbitrate
// the single winner through the trip's AssignedPartner field, and revert
// every losing reservation before the round closes.
//
// Every shared mutation is a single-record compare-and-set against the
// store, so no locks are held across suspension points. Reservations for
// later candidates may start while earlier offers are still pending;
// that simultaneous-offer window keeps the round from stalling on an
// unresponsive high-ranked candidate.
type Coordinator struct {
	partners PartnerStore
	trips    TripStore
	pool     *Pool
	notifier Notifier
	clock    Clock
	cfg      config.DispatchConfig
}

// NewCoordinator wires a coordinator. notifier may be nil when push is
// not configured; clock is normally SystemClock.
func NewCoordinator(partners PartnerStore, trips TripStore, pool *Pool, notifier Notifier, clock Clock, cfg config.DispatchConfig) *Coordinator {
	return &Coordinator{
		partners: partners,
		trips:    trips,
		pool:     pool,
		notifier: notifier,
		clock:    clock,
		cfg:      cfg,
	}
}

// round is the ephemeral state of one run. It lives on the coordinator
// goroutine's stack and is never persisted.
type round struct {
	trip     *trip.Trip
	offers   []Candidate
	reserved []types.ID
	winner   types.ID
	// closing is the single source of truth that the round is over;
	// checked before every reservation and every wait.
	closing bool
}

// DispatchAsync runs a round in the background with its own lifetime,
// padded past the global deadline so compensation always gets to finish.
func (c *Coordinator) DispatchAsync(tripID types.ID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.GlobalTimeout+10*time.Second)
		defer cancel()
		if err := c.Dispatch(ctx, tripID); err != nil {
			log.Printf("trip %s: dispatch round closed: %v", tripID, err)
		}
	}()
}

// Dispatch runs the full protocol for one trip and blocks until the
// round reaches a terminal state. Visible errors map one-to-one onto
// terminal trip statuses; store conflicts are resolved internally and
// never escape.
func (c *Coordinator) Dispatch(ctx context.Context, tripID types.ID) error {
	t, err := c.trips.Get(ctx, tripID)
	if err != nil {
		return err
	}
	if t.OriginZone == zone.Undefined {
		c.closeTrip(ctx, tripID, trip.StatusFailed)
		return ErrOutsideServiceArea
	}

	if err := c.trips.UpdateTx(ctx, tripID, func(t *trip.Trip) error {
		if t.Status != trip.StatusRequested {
			return trip.ErrConflict
		}
		t.Status = trip.StatusDispatching
		return nil
	}); err != nil {
		return err
	}
	t.Status = trip.StatusDispatching

	candidates, err := c.pool.FindCandidates(ctx, t, false)
	if errors.Is(err, ErrNoCandidates) && c.cfg.ZoneRetryOnEmpty {
		candidates, err = c.pool.FindCandidates(ctx, t, true)
	}
	switch {
	case errors.Is(err, ErrNoCandidates):
		c.closeTrip(ctx, tripID, trip.StatusNoDrivers)
		return ErrNoCandidates
	case err != nil:
		// Routing failure or store trouble; distances cannot be trusted.
		c.closeTrip(ctx, tripID, trip.StatusFailed)
		return err
	}

	r := &round{
		trip:   t,
		offers: TopK(Rank(candidates, c.clock.Now()), c.cfg.CandidateCount),
	}

	// Subscribe before the first reservation so the win cannot be missed.
	watch, stop, err := c.trips.WatchAssignment(ctx, tripID)
	if err != nil {
		c.closeTrip(ctx, tripID, trip.StatusFailed)
		return err
	}
	defer stop()

	deadline := c.clock.After(c.cfg.GlobalTimeout)

	for _, cand := range r.offers {
		if r.closing {
			break
		}
		if !c.reserve(ctx, r, cand) {
			continue
		}
		// Give this candidate priority time before the next offer.
		r.await(ctx, c.clock.After(c.cfg.OfferDelay), deadline, watch)
	}

	// Offers exhausted with reservations still open: wait out the win or
	// the deadline. With nothing reserved the round closes immediately.
	if !r.closing && len(r.reserved) > 0 {
		r.await(ctx, nil, deadline, watch)
	}

	return c.close(ctx, r)
}

// reserve attempts the transactional hold on one candidate. A stale
// precondition (went offline, grabbed by a concurrent round) skips the
// candidate without error.
func (c *Coordinator) reserve(ctx context.Context, r *round, cand Candidate) bool {
	err := c.partners.UpdateTx(ctx, cand.Partner.ID, func(p *partner.Partner) error {
		if p.Status != partner.StatusAvailable || p.CurrentClientUID != "" {
			return partner.ErrConflict
		}
		p.Status = partner.StatusRequested
		p.CurrentClientUID = r.trip.ID
		return nil
	})
	if errors.Is(err, partner.ErrConflict) {
		return false
	}
	if err != nil {
		log.Printf("trip %s: reserving partner %s: %v", r.trip.ID, cand.Partner.ID, err)
		return false
	}
	r.reserved = append(r.reserved, cand.Partner.ID)

	if c.notifier != nil {
		if err := c.notifier.OfferCreated(ctx, cand.Partner.DeviceToken, r.trip); err != nil {
			log.Printf("trip %s: offer push to partner %s: %v", r.trip.ID, cand.Partner.ID, err)
		}
	}
	return true
}

// await blocks until the per-offer delay elapses (round stays open), or
// a win, the global deadline, or context cancellation closes the round.
// A nil delay waits for a closing event only.
func (r *round) await(ctx context.Context, delay, deadline <-chan time.Time, watch <-chan types.ID) {
	for {
		select {
		case pid, ok := <-watch:
			if !ok {
				// Subscription tore down; the deadline still bounds us.
				watch = nil
				continue
			}
			r.winner = pid
			r.closing = true
			return
		case <-deadline:
			r.closing = true
			return
		case <-ctx.Done():
			r.closing = true
			return
		case <-delay:
			return
		}
	}
}

// close drives the round to its terminal state. Compensation runs on
// every exit path; detached from ctx so shutdown cannot orphan a
// reservation.
func (c *Coordinator) close(ctx context.Context, r *round) error {
	cctx := context.WithoutCancel(ctx)

	if r.winner == "" {
		// Shut the arbitration window first: once the trip leaves
		// dispatching, a late accept fails its compare-and-set and can no
		// longer interleave with the reverts below.
		err := c.trips.UpdateTx(cctx, r.trip.ID, func(t *trip.Trip) error {
			if t.AssignedPartner != "" || t.Status != trip.StatusDispatching {
				return trip.ErrConflict
			}
			t.Status = trip.StatusNoDrivers
			return nil
		})
		if errors.Is(err, trip.ErrConflict) {
			// An accept landed while the round was closing, or the rider
			// cancelled. Honor whatever the trip record now says.
			if cur, gerr := c.trips.Get(cctx, r.trip.ID); gerr == nil {
				r.winner = cur.AssignedPartner
			}
		} else if err != nil {
			log.Printf("trip %s: closing round: %v", r.trip.ID, err)
		}
	}

	c.compensate(cctx, r)

	if r.winner != "" {
		if err := c.trips.UpdateTx(cctx, r.trip.ID, func(t *trip.Trip) error {
			if t.Status != trip.StatusDispatching || t.AssignedPartner != r.winner {
				return trip.ErrConflict
			}
			t.Status = trip.StatusAssigned
			return nil
		}); err != nil && !errors.Is(err, trip.ErrConflict) {
			log.Printf("trip %s: finalizing assignment: %v", r.trip.ID, err)
		}
		log.Printf("trip %s: assigned to partner %s", r.trip.ID, r.winner)
		return nil
	}
	return ErrNoAcceptance
}

// compensate reverts every reserved non-winner. Reverts are idempotent:
// a precondition mismatch means the partner already moved on through a
// legitimate path and is left alone.
func (c *Coordinator) compensate(ctx context.Context, r *round) {
	g := new(errgroup.Group)
	for _, id := range r.reserved {
		if id == r.winner {
			continue
		}
		g.Go(func() error { return c.release(ctx, id, r.trip.ID) })
	}
	if err := g.Wait(); err != nil {
		log.Printf("trip %s: compensation: %v", r.trip.ID, err)
	}
}

func (c *Coordinator) release(ctx context.Context, partnerID, tripID types.ID) error {
	err := c.partners.UpdateTx(ctx, partnerID, func(p *partner.Partner) error {
		if p.Status != partner.StatusRequested || p.CurrentClientUID != tripID {
			return partner.ErrConflict
		}
		p.Status = partner.StatusAvailable
		p.CurrentClientUID = ""
		return nil
	})
	if errors.Is(err, partner.ErrConflict) {
		return nil
	}
	return err
}

// closeTrip moves a trip that never opened an offer window straight to a
// terminal status. Conflicts mean someone else already settled it.
func (c *Coordinator) closeTrip(ctx context.Context, tripID types.ID, status trip.Status) {
	err := c.trips.UpdateTx(context.WithoutCancel(ctx), tripID, func(t *trip.Trip) error {
		if t.AssignedPartner != "" || !trip.CanTransition(t.Status, status) {
			return trip.ErrConflict
		}
		t.Status = status
		return nil
	})
	if err != nil && !errors.Is(err, trip.ErrConflict) {
		log.Printf("trip %s: marking %s: %v", tripID, status, err)
	}
}
