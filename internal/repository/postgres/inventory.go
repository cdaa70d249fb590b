package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
)

// InventoryRepo is the only code that changes whether a slot is bookable.
// Consuming a slot and creating its reservation happen in one serializable
// transaction: the conditional DELETE is the compare-and-delete that decides
// the race, and a zero row count aborts the whole thing.
type InventoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *InventoryRepo) With(db DB) *InventoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

type CreateReservationParams struct {
	Owner   string // owner's email
	ClubID  uuid.UUID
	FieldID uuid.UUID
	Start   time.Time
	End     time.Time
	Players []domain.User
}

// CreateReservation atomically removes the requested availability entry and
// inserts a pending reservation carrying a snapshot of the club's current
// name, field and location.
//
// Returns:
//   - *domain.Reservation: the created reservation.
//   - error: repository.ErrNotFound if the club does not own the field.
//   - error: repository.ErrSlotNotFree if the slot was already consumed.
func (r *InventoryRepo) CreateReservation(
	ctx context.Context,
	p CreateReservationParams,
) (*domain.Reservation, error) {
	const op = "postgres.InventoryRepo.CreateReservation"

	if r.db != nil {
		res, err := r.createReservationCore(ctx, r.db, p)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		return res, nil
	}

	// Serializable transactions can abort with a serialization failure under
	// contention; those get a couple of fresh attempts before giving up.
	var (
		res *domain.Reservation
		err error
	)
	for attempt := 0; attempt < 3; attempt++ {
		res, err = r.createReservationTx(ctx, p)
		if err == nil || !IsRetryable(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return res, nil
}

func (r *InventoryRepo) createReservationTx(
	ctx context.Context,
	p CreateReservationParams,
) (*domain.Reservation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, err
	}

	defer tx.Rollback(ctx)

	res, err := r.createReservationCore(ctx, tx, p)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return res, nil
}

// RestoreAvailability re-inserts the availability entry a canceled
// reservation had consumed. The entry carries the reservation's own slot and
// price; a concurrent restore of the same slot hits the primary key and
// reports repository.ErrConflict.
func (r *InventoryRepo) RestoreAvailability(
	ctx context.Context,
	clubID uuid.UUID,
	slot domain.FieldAvailability,
) error {
	const op = "postgres.InventoryRepo.RestoreAvailability"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO availability(club_id, field_id, start_at, end_at, price_cents)
       	 VALUES ($1, $2, $3, $4, $5)`,
		clubID, slot.Field.ID, slot.Start, slot.End, slot.PriceCents,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

func (r *InventoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *InventoryRepo) createReservationCore(
	ctx context.Context,
	db DB,
	p CreateReservationParams,
) (*domain.Reservation, error) {
	var (
		clubName string
		loc      domain.Location
		field    domain.Field
	)

	// Snapshot the club identity inside the transaction so the reservation
	// reflects the club as it was at booking time.
	err := db.QueryRow(ctx,
		`SELECT c.name, c.lat, c.lon, f.id, f.name, f.indoor, f.price_cents
       	 FROM clubs c
       	 JOIN fields f ON f.club_id = c.id
      	 WHERE c.id = $1 AND f.id = $2`,
		p.ClubID, p.FieldID,
	).Scan(&clubName, &loc.Lat, &loc.Lon,
		&field.ID, &field.Name, &field.Indoor, &field.PriceCents)
	if err != nil {
		return nil, err
	}

	// The consumed row's price is the reservation's price. A cancel later
	// restores exactly this entry, so the ledger's published price survives a
	// book+cancel round trip untouched.
	var slotPrice int
	err = db.QueryRow(ctx,
		`DELETE FROM availability
      	 WHERE club_id = $1 AND field_id = $2 AND start_at = $3 AND end_at = $4
     	 RETURNING price_cents`,
		p.ClubID, p.FieldID, p.Start, p.End,
	).Scan(&slotPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSlotNotFree
		}
		return nil, err
	}

	res := &domain.Reservation{
		ID: uuid.New(),
		Match: domain.Match{
			Players: p.Players,
		},
		Club: domain.ClubSnapshot{
			ClubID:   p.ClubID,
			ClubName: clubName,
			Field:    field,
			Location: loc,
		},
		Start:      p.Start,
		End:        p.End,
		ReservedBy: p.Owner,
		PriceCents: slotPrice,
		Status:     domain.ReservationPending,
		Payment:    domain.PaymentPending,
		CreatedAt:  time.Now().UTC(),
	}

	players, err := json.Marshal(res.Match.Players)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO reservations(
          	id, club_id, club_name,
          	field_id, field_name, field_indoor, field_price_cents,
          	club_lat, club_lon,
          	start_at, end_at, reserved_by, price_cents,
          	status, payment_status, players, created_at)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
       	         $10, $11, $12, $13, $14, $15, $16, $17)`,
		res.ID, res.Club.ClubID, res.Club.ClubName,
		field.ID, field.Name, field.Indoor, field.PriceCents,
		loc.Lat, loc.Lon,
		res.Start, res.End, res.ReservedBy, res.PriceCents,
		res.Status, res.Payment, players, res.CreatedAt,
	); err != nil {
		return nil, err
	}

	return res, nil
}
