// README: Trip service: creation, the accept arbitration point, decline, cancel.
package trip

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"ryde/internal/modules/partner"
	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

var (
	ErrBadRequest = errors.New("trip: bad request")
	// ErrOutsideServiceArea means the pickup classifies to no zone; the
	// request is rejected before any round starts.
	ErrOutsideServiceArea = errors.New("trip: pickup outside service area")
	ErrInvalidState       = errors.New("trip: invalid state transition")
	// ErrAlreadyAssigned means another partner won the arbitration first.
	ErrAlreadyAssigned = errors.New("trip: already assigned")
)

type Service struct {
	trips    *Store
	partners *partner.Store
}

func NewService(trips *Store, partners *partner.Store) *Service {
	return &Service{trips: trips, partners: partners}
}

type CreateCommand struct {
	RiderID     types.ID
	Origin      types.Point
	Destination types.Point
	Payment     PaymentMethod
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.RiderID == "" {
		return "", ErrBadRequest
	}
	if cmd.Payment == "" {
		cmd.Payment = PayCash
	}
	if cmd.Payment != PayCash && cmd.Payment != PayCard {
		return "", ErrBadRequest
	}
	originZone := zone.Classify(cmd.Origin.Lat, cmd.Origin.Lng)
	if originZone == zone.Undefined {
		return "", ErrOutsideServiceArea
	}

	now := time.Now()
	t := &Trip{
		ID:          types.ID(uuid.NewString()),
		RiderID:     cmd.RiderID,
		Origin:      cmd.Origin,
		Destination: cmd.Destination,
		OriginZone:  originZone,
		Payment:     cmd.Payment,
		Status:      StatusRequested,
		RequestedAt: now,
		ConfirmedAt: now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.trips.Get(ctx, id)
}

// Accept is the single arbitration point of a dispatch round: the first
// compare-and-set to move AssignedPartner off empty wins; every
// concurrent attempt fails the precondition. On success the partner's
// reservation is promoted to busy and the win is announced to the
// coordinator's subscription.
func (s *Service) Accept(ctx context.Context, tripID, partnerID types.ID) error {
	if partnerID == "" {
		return ErrBadRequest
	}
	err := s.trips.UpdateTx(ctx, tripID, func(t *Trip) error {
		if t.AssignedPartner != "" {
			return ErrAlreadyAssigned
		}
		if t.Status != StatusDispatching {
			return ErrInvalidState
		}
		t.AssignedPartner = partnerID
		t.ConfirmedAt = time.Now()
		return nil
	})
	if err != nil {
		return err
	}

	// Promote the reservation. A conflict here means the partner left the
	// requested state through a legitimate path after winning; the row is
	// already consistent.
	err = s.partners.UpdateTx(ctx, partnerID, func(p *partner.Partner) error {
		if p.Status != partner.StatusRequested || p.CurrentClientUID != tripID {
			return partner.ErrConflict
		}
		p.Status = partner.StatusBusy
		return nil
	})
	if err != nil && !errors.Is(err, partner.ErrConflict) {
		return err
	}

	if err := s.trips.AnnounceAssignment(ctx, tripID, partnerID); err != nil {
		// The coordinator's deadline still closes the round; losing the
		// push only delays compensation of the other reservations.
		log.Printf("trip %s: assignment announce failed: %v", tripID, err)
	}
	return nil
}

// Decline releases a partner's reservation without closing the round;
// the coordinator keeps cascading through the remaining candidates.
func (s *Service) Decline(ctx context.Context, tripID, partnerID types.ID) error {
	err := s.partners.UpdateTx(ctx, partnerID, func(p *partner.Partner) error {
		if p.Status != partner.StatusRequested || p.CurrentClientUID != tripID {
			return partner.ErrConflict
		}
		p.Status = partner.StatusAvailable
		p.CurrentClientUID = ""
		return nil
	})
	if errors.Is(err, partner.ErrConflict) {
		// Already released or re-assigned; nothing to undo.
		return nil
	}
	return err
}

// Cancel lets the rider withdraw a trip that has not been assigned yet.
func (s *Service) Cancel(ctx context.Context, tripID types.ID) error {
	return s.trips.UpdateTx(ctx, tripID, func(t *Trip) error {
		if t.AssignedPartner != "" || !CanTransition(t.Status, StatusCancelled) {
			return ErrInvalidState
		}
		t.Status = StatusCancelled
		return nil
	})
}
