package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const reservationColumns = `
	id, club_id, club_name,
	field_id, field_name, field_indoor, field_price_cents,
	club_lat, club_lon,
	start_at, end_at, reserved_by, price_cents,
	status, payment_status, players, result, created_at`

func (r *ReservationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Get"

	db := r.handle()

	row := db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)

	res, err := scanReservation(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// UpdateStatus moves a reservation to a new (status, payment) pair and
// returns the updated document.
func (r *ReservationRepo) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ReservationStatus,
	payment domain.PaymentStatus,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.UpdateStatus"

	db := r.handle()

	row := db.QueryRow(ctx,
		`UPDATE reservations SET status = $2, payment_status = $3
      	 WHERE id = $1
     	 RETURNING `+reservationColumns,
		id, status, payment,
	)

	res, err := scanReservation(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// AddPlayer appends the user to the roster in a single conditional UPDATE.
// The statement itself enforces the roster cap and rejects a duplicate email,
// so two concurrent joins can never push the roster past the cap. Zero
// updated rows means one of the guards failed and reports
// repository.ErrConflict; the caller re-reads to tell the cases apart.
func (r *ReservationRepo) AddPlayer(
	ctx context.Context,
	id uuid.UUID,
	u domain.User,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.AddPlayer"

	db := r.handle()

	entry, err := json.Marshal([]domain.User{u})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	row := db.QueryRow(ctx,
		`UPDATE reservations SET players = players || $2::jsonb
      	 WHERE id = $1
        	AND jsonb_array_length(players) < $3
        	AND NOT EXISTS (
          	 SELECT 1 FROM jsonb_array_elements(players) e
          	 WHERE e->>'Email' = $4)
     	 RETURNING `+reservationColumns,
		id, entry, domain.MaxPlayers, u.Email,
	)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s:%w", op, repository.ErrConflict)
		}
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// RemovePlayer drops the email from the roster. The filter runs inside the
// UPDATE so a concurrent join is never overwritten. Removing an absent email
// is a no-op that still returns the current document.
func (r *ReservationRepo) RemovePlayer(
	ctx context.Context,
	id uuid.UUID,
	email string,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.RemovePlayer"

	db := r.handle()

	row := db.QueryRow(ctx,
		`UPDATE reservations
        	SET players = COALESCE(
          	 (SELECT jsonb_agg(e) FROM jsonb_array_elements(players) e
          	  WHERE e->>'Email' <> $2), '[]'::jsonb)
      	 WHERE id = $1
     	 RETURNING `+reservationColumns,
		id, email,
	)

	res, err := scanReservation(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// UpdateResult replaces the match result and leaves the roster column alone.
func (r *ReservationRepo) UpdateResult(
	ctx context.Context,
	id uuid.UUID,
	result domain.MatchResult,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.UpdateResult"

	db := r.handle()

	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	row := db.QueryRow(ctx,
		`UPDATE reservations SET result = $2
      	 WHERE id = $1
     	 RETURNING `+reservationColumns,
		id, b,
	)

	res, err := scanReservation(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// ListNear returns reservations whose club snapshot lies within radiusKm of
// loc. When availableOn names a day, only reservations at clubs that still
// have availability on that day are returned. The SQL predicate is a
// bounding box; the exact distance cut runs on the result.
func (r *ReservationRepo) ListNear(
	ctx context.Context,
	loc domain.Location,
	radiusKm float64,
	availableOn string,
) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListNear"

	db := r.handle()

	latDelta := radiusKm / 111.0
	lonDelta := radiusKm / (111.0 * math.Max(math.Cos(loc.Lat*math.Pi/180), 0.01))

	query := `SELECT ` + reservationColumns + `
       	 FROM reservations
      	 WHERE club_lat BETWEEN $1 AND $2
        	AND club_lon BETWEEN $3 AND $4`
	args := []any{
		loc.Lat - latDelta, loc.Lat + latDelta,
		loc.Lon - lonDelta, loc.Lon + lonDelta,
	}

	if availableOn != "" {
		query += `
        	AND EXISTS (
          	 SELECT 1 FROM availability a
          	 WHERE a.club_id = reservations.club_id
            	AND a.start_at >= $5::date
            	AND a.start_at < $5::date + INTERVAL '1 day')`
		args = append(args, availableOn)
	}

	query += ` ORDER BY start_at`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		if haversineKm(loc, res.Club.Location) <= radiusKm {
			out = append(out, *res)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateClubSnapshots rewrites the denormalized club identity on every
// reservation of the club. Fan-out path: runs after the authoritative club
// update, behind the retry helper.
func (r *ReservationRepo) UpdateClubSnapshots(
	ctx context.Context,
	clubID uuid.UUID,
	name string,
	loc domain.Location,
) error {
	const op = "postgres.ReservationRepo.UpdateClubSnapshots"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`UPDATE reservations SET club_name = $2, club_lat = $3, club_lon = $4
      	 WHERE club_id = $1`,
		clubID, name, loc.Lat, loc.Lon,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// UpdateFieldSnapshots rewrites the denormalized field attributes on every
// reservation booked on that field. Fan-out path, same as above.
func (r *ReservationRepo) UpdateFieldSnapshots(
	ctx context.Context,
	clubID uuid.UUID,
	f domain.Field,
) error {
	const op = "postgres.ReservationRepo.UpdateFieldSnapshots"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`UPDATE reservations
        	SET field_name = $3, field_indoor = $4, field_price_cents = $5
      	 WHERE club_id = $1 AND field_id = $2`,
		clubID, f.ID, f.Name, f.Indoor, f.PriceCents,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		res     domain.Reservation
		players []byte
		result  []byte
	)

	err := row.Scan(
		&res.ID, &res.Club.ClubID, &res.Club.ClubName,
		&res.Club.Field.ID, &res.Club.Field.Name,
		&res.Club.Field.Indoor, &res.Club.Field.PriceCents,
		&res.Club.Location.Lat, &res.Club.Location.Lon,
		&res.Start, &res.End, &res.ReservedBy, &res.PriceCents,
		&res.Status, &res.Payment, &players, &result, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(players, &res.Match.Players); err != nil {
		return nil, err
	}

	if len(result) > 0 {
		res.Match.Result = &domain.MatchResult{}
		if err := json.Unmarshal(result, res.Match.Result); err != nil {
			return nil, err
		}
	}

	return &res, nil
}

func haversineKm(a, b domain.Location) float64 {
	const earthRadiusKm = 6371.0

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
