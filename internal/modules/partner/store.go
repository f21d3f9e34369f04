// README: Partner store backed by PostgreSQL with a Redis GEO mirror.
package partner

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ryde/internal/modules/zone"
	"ryde/internal/types"
)

var (
	ErrNotFound = errors.New("partner: not found")
	// ErrConflict reports a compare-and-set precondition that no longer
	// holds. Mutator callbacks return it to abort; version races inside
	// UpdateTx are retried and only surface as ErrConflict once retries
	// run out.
	ErrConflict = errors.New("partner: concurrent modification")
)

const geoKey = "partners:geo"

// updateRetries bounds re-reads on version races. Contention on a single
// partner row is short-lived, so a small number suffices.
const updateRetries = 3

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

const partnerColumns = `
	id, lat, lng, zone, status, current_client_uid,
	idle_since, rating, approved, accepts_card, device_token, version`

func (s *Store) Create(ctx context.Context, p *Partner) error {
	var lat, lng *float64
	if p.Position != nil {
		lat, lng = &p.Position.Lat, &p.Position.Lng
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO partners (
			id, lat, lng, zone, status, current_client_uid,
			idle_since, rating, approved, accepts_card, device_token, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(p.ID), lat, lng, string(p.Zone), string(p.Status),
		string(p.CurrentClientUID), p.IdleSince, p.Rating,
		p.Approved, p.AcceptsCard, p.DeviceToken, p.Version,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Partner, error) {
	row := s.db.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, string(id))
	return scanPartner(row)
}

// ListByStatus returns every partner currently in the given status.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]Partner, error) {
	rows, err := s.db.Query(ctx, `SELECT `+partnerColumns+` FROM partners WHERE status = $1`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateTx reads the partner, applies fn, and writes the result back with
// a versioned conditional UPDATE. A lost version race re-reads and
// retries; fn returning an error (ErrConflict for a stale precondition)
// aborts immediately.
func (s *Store) UpdateTx(ctx context.Context, id types.ID, fn func(*Partner) error) error {
	for i := 0; i < updateRetries; i++ {
		p, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		var lat, lng *float64
		if p.Position != nil {
			lat, lng = &p.Position.Lat, &p.Position.Lng
		}
		tag, err := s.db.Exec(ctx, `
			UPDATE partners
			SET lat = $1, lng = $2, zone = $3, status = $4,
			    current_client_uid = $5, idle_since = $6, rating = $7,
			    approved = $8, accepts_card = $9, device_token = $10,
			    version = version + 1
			WHERE id = $11 AND version = $12`,
			lat, lng, string(p.Zone), string(p.Status),
			string(p.CurrentClientUID), p.IdleSince, p.Rating,
			p.Approved, p.AcceptsCard, p.DeviceToken,
			string(id), p.Version,
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

// SetGeo mirrors a partner position into the Redis GEO set used for
// map views and supply dashboards.
func (s *Store) SetGeo(ctx context.Context, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *Store) RemoveGeo(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, geoKey, string(id)).Err()
}

// CountAvailableByZone returns the number of available partners per zone.
func (s *Store) CountAvailableByZone(ctx context.Context) (map[zone.Code]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT zone, COUNT(*)
		FROM partners
		WHERE status = $1
		GROUP BY zone`, string(StatusAvailable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[zone.Code]int)
	for rows.Next() {
		var z string
		var n int
		if err := rows.Scan(&z, &n); err != nil {
			return nil, err
		}
		counts[zone.Code(z)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(row rowScanner) (*Partner, error) {
	var p Partner
	var lat, lng sql.NullFloat64
	var z, status, clientUID string

	err := row.Scan(
		&p.ID, &lat, &lng, &z, &status, &clientUID,
		&p.IdleSince, &p.Rating, &p.Approved, &p.AcceptsCard,
		&p.DeviceToken, &p.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		p.Position = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	p.Zone = zone.Code(z)
	p.Status = Status(status)
	p.CurrentClientUID = types.ID(clientUID)
	return &p, nil
}
