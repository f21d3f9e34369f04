// README: Partner (driver) aggregate and status definitions.
package partner

import (
	"time"

	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusRequested   Status = "requested"
	StatusBusy        Status = "busy"
	StatusUnavailable Status = "unavailable"
	StatusOffline     Status = "offline"
)

// Partner is owned by the driver's device; every mutation goes through
// the store's compare-and-set update so concurrent dispatch rounds and
// the device itself never clobber each other.
type Partner struct {
	ID types.ID
	// Position is nil until the device reports a fix.
	Position *types.Point
	Zone     zone.Code
	Status   Status
	// CurrentClientUID is the trip currently holding this partner, empty
	// when unassigned.
	CurrentClientUID types.ID
	// IdleSince marks the start of the current idle stretch; it feeds the
	// idle component of the dispatch score.
	IdleSince   time.Time
	Rating      float64
	Approved    bool
	AcceptsCard bool
	DeviceToken string
	// Version backs optimistic concurrency in the store.
	Version int
}
