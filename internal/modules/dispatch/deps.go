// README: Collaborator contracts the coordinator depends on.
package dispatch

import (
	"context"
	"time"

	"ryde/internal/maps"
	"ryde/internal/modules/partner"
	"ryde/internal/modules/trip"
	"ryde/internal/types"
)

// PartnerStore is the slice of the partner store the dispatcher uses.
// UpdateTx must apply fn under record-level optimistic concurrency and
// return partner.ErrConflict when fn aborts on a stale precondition.
type PartnerStore interface {
	ListByStatus(ctx context.Context, status partner.Status) ([]partner.Partner, error)
	UpdateTx(ctx context.Context, id types.ID, fn func(*partner.Partner) error) error
}

// TripStore is the slice of the trip store the dispatcher uses.
// WatchAssignment must confirm the subscription before returning so a
// watcher opened ahead of the first offer cannot miss the win.
type TripStore interface {
	Get(ctx context.Context, id types.ID) (*trip.Trip, error)
	UpdateTx(ctx context.Context, id types.ID, fn func(*trip.Trip) error) error
	WatchAssignment(ctx context.Context, id types.ID) (<-chan types.ID, func(), error)
}

// Router resolves real travel distances for a batch of candidates.
type Router interface {
	Distances(ctx context.Context, origin types.Point, dests []types.Point) ([]maps.Leg, error)
}

// Notifier pushes a fresh offer to a partner device. Best effort.
type Notifier interface {
	OfferCreated(ctx context.Context, deviceToken string, t *trip.Trip) error
}

// Clock abstracts time so round timing is injectable.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall-clock implementation used outside tests.
var SystemClock Clock = systemClock{}
