// README: Trip request aggregate and status state machine.
package trip

import (
	"time"

	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

type Status string

const (
	StatusRequested   Status = "requested"
	StatusDispatching Status = "dispatching"
	StatusAssigned    Status = "assigned"
	StatusNoDrivers   Status = "no_drivers"
	StatusFailed      Status = "failed"
	StatusCancelled   Status = "cancelled"
)

type PaymentMethod string

const (
	PayCash PaymentMethod = "cash"
	PayCard PaymentMethod = "card"
)

// Trip is mutated only through the store's compare-and-set update. The
// AssignedPartner field is the arbitration point of a dispatch round:
// it moves from empty to a partner id exactly once and is never
// overwritten.
type Trip struct {
	ID          types.ID
	RiderID     types.ID
	Origin      types.Point
	Destination types.Point
	OriginZone  zone.Code
	Payment     PaymentMethod
	Status      Status
	// AssignedPartner stays empty until a partner wins the round.
	AssignedPartner types.ID
	RequestedAt     time.Time
	ConfirmedAt     time.Time
	// Version backs optimistic concurrency in the store.
	Version int
}

// AllowedTransitions represents the trip state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:   {StatusDispatching, StatusCancelled, StatusNoDrivers, StatusFailed},
	StatusDispatching: {StatusAssigned, StatusNoDrivers, StatusFailed, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
