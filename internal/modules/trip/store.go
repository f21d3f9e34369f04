// README: Trip store backed by PostgreSQL, with assignment notifications over Redis pub/sub.
package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

var (
	ErrNotFound = errors.New("trip: not found")
	// ErrConflict reports a compare-and-set precondition that no longer
	// holds; see partner.ErrConflict for the same contract.
	ErrConflict = errors.New("trip: concurrent modification")
)

const updateRetries = 3

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

const tripColumns = `
	id, rider_id, origin_lat, origin_lng, dest_lat, dest_lng,
	origin_zone, payment, status, assigned_partner,
	requested_at, confirmed_at, version`

func (s *Store) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, rider_id, origin_lat, origin_lng, dest_lat, dest_lng,
			origin_zone, payment, status, assigned_partner,
			requested_at, confirmed_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		string(t.ID), string(t.RiderID),
		t.Origin.Lat, t.Origin.Lng, t.Destination.Lat, t.Destination.Lng,
		string(t.OriginZone), string(t.Payment), string(t.Status),
		string(t.AssignedPartner), t.RequestedAt, t.ConfirmedAt, t.Version,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, string(id))

	var t Trip
	var z, payment, status, assigned string
	err := row.Scan(
		&t.ID, &t.RiderID,
		&t.Origin.Lat, &t.Origin.Lng, &t.Destination.Lat, &t.Destination.Lng,
		&z, &payment, &status, &assigned,
		&t.RequestedAt, &t.ConfirmedAt, &t.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.OriginZone = zone.Code(z)
	t.Payment = PaymentMethod(payment)
	t.Status = Status(status)
	t.AssignedPartner = types.ID(assigned)
	return &t, nil
}

// UpdateTx reads the trip, applies fn, and writes the result back with a
// versioned conditional UPDATE, retrying lost version races. fn returning
// an error aborts the update.
func (s *Store) UpdateTx(ctx context.Context, id types.ID, fn func(*Trip) error) error {
	for i := 0; i < updateRetries; i++ {
		t, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		tag, err := s.db.Exec(ctx, `
			UPDATE trips
			SET status = $1, assigned_partner = $2, confirmed_at = $3,
			    version = version + 1
			WHERE id = $4 AND version = $5`,
			string(t.Status), string(t.AssignedPartner), t.ConfirmedAt,
			string(id), t.Version,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return ErrConflict
}

func assignmentChannel(id types.ID) string {
	return fmt.Sprintf("trip:%s:assigned", string(id))
}

// AnnounceAssignment publishes the winning partner id on the trip's
// notification channel. Called by the accept path after its
// compare-and-set on AssignedPartner succeeds.
func (s *Store) AnnounceAssignment(ctx context.Context, id, partnerID types.ID) error {
	return s.redis.Publish(ctx, assignmentChannel(id), string(partnerID)).Err()
}

// WatchAssignment subscribes to the trip's assignment channel. The
// returned channel delivers the winning partner id; the stop function
// tears the subscription down. Subscription is confirmed before this
// returns, so a watcher opened before any offer goes out cannot miss
// the announcement.
func (s *Store) WatchAssignment(ctx context.Context, id types.ID) (<-chan types.ID, func(), error) {
	sub := s.redis.Subscribe(ctx, assignmentChannel(id))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan types.ID, 1)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- types.ID(msg.Payload):
			default:
			}
		}
	}()
	return out, func() { _ = sub.Close() }, nil
}
