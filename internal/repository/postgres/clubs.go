package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
)

type ClubRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ClubRepo) With(db DB) *ClubRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ClubRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts the club, its fields and its availability ledger. Meant to
// run inside a transaction; the caller validates the ledger beforehand.
func (r *ClubRepo) Create(ctx context.Context, c *domain.Club) (uuid.UUID, error) {
	const op = "postgres.ClubRepo.Create"

	db := r.handle()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO clubs(id, name, address, lat, lon, avg_price_cents, phone, email)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Address, c.Location.Lat, c.Location.Lon,
		c.AvgPriceCents, c.Contacts.Phone, c.Contacts.Email,
	); err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	batch := &pgx.Batch{}
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		batch.Queue(
			`INSERT INTO fields(id, club_id, name, indoor, price_cents)
         	 VALUES ($1, $2, $3, $4, $5)`,
			f.ID, c.ID, f.Name, f.Indoor, f.PriceCents,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	if err := r.insertAvailability(ctx, db, c.ID, c.Availability); err != nil {
		return uuid.Nil, wrapDBErr(op, err)
	}

	return c.ID, nil
}

// Get assembles the club with its fields and availability ledger.
func (r *ClubRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	const op = "postgres.ClubRepo.Get"

	db := r.handle()

	var c domain.Club
	err := db.QueryRow(ctx,
		`SELECT id, name, address, lat, lon, avg_price_cents, phone, email
       	 FROM clubs WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Address, &c.Location.Lat, &c.Location.Lon,
		&c.AvgPriceCents, &c.Contacts.Phone, &c.Contacts.Email)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT id, name, indoor, price_cents
       	 FROM fields WHERE club_id = $1`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	fieldsByID := make(map[uuid.UUID]domain.Field)
	for rows.Next() {
		var f domain.Field
		if err := rows.Scan(&f.ID, &f.Name, &f.Indoor, &f.PriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		c.Fields = append(c.Fields, f)
		fieldsByID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	av, err := r.loadAvailability(ctx, db, id, fieldsByID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	c.Availability = av

	return &c, nil
}

func (r *ClubRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	const op = "postgres.ClubRepo.UpdateName"

	db := r.handle()

	ct, err := db.Exec(ctx, `UPDATE clubs SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *ClubRepo) UpdateAddress(
	ctx context.Context,
	id uuid.UUID,
	address string,
	loc domain.Location,
) error {
	const op = "postgres.ClubRepo.UpdateAddress"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`UPDATE clubs SET address = $2, lat = $3, lon = $4 WHERE id = $1`,
		id, address, loc.Lat, loc.Lon,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *ClubRepo) UpdateField(ctx context.Context, clubID uuid.UUID, f domain.Field) error {
	const op = "postgres.ClubRepo.UpdateField"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`UPDATE fields SET name = $3, indoor = $4, price_cents = $5
      	 WHERE id = $1 AND club_id = $2`,
		f.ID, clubID, f.Name, f.Indoor, f.PriceCents,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// ReplaceAvailability swaps the club's whole ledger. The two statements must
// run inside one transaction; pass a tx via With.
func (r *ClubRepo) ReplaceAvailability(
	ctx context.Context,
	clubID uuid.UUID,
	av domain.Availability,
) error {
	const op = "postgres.ClubRepo.ReplaceAvailability"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`DELETE FROM availability WHERE club_id = $1`, clubID,
	); err != nil {
		return wrapDBErr(op, err)
	}

	if err := r.insertAvailability(ctx, db, clubID, av); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *ClubRepo) insertAvailability(
	ctx context.Context,
	db DB,
	clubID uuid.UUID,
	av domain.Availability,
) error {
	batch := &pgx.Batch{}
	n := 0
	for _, slots := range av {
		for _, s := range slots {
			batch.Queue(
				`INSERT INTO availability(club_id, field_id, start_at, end_at, price_cents)
             	 VALUES ($1, $2, $3, $4, $5)`,
				clubID, s.Field.ID, s.Start, s.End, s.PriceCents,
			)
			n++
		}
	}

	if n == 0 {
		return nil
	}

	return db.SendBatch(ctx, batch).Close()
}

func (r *ClubRepo) loadAvailability(
	ctx context.Context,
	db DB,
	clubID uuid.UUID,
	fieldsByID map[uuid.UUID]domain.Field,
) (domain.Availability, error) {
	rows, err := db.Query(ctx,
		`SELECT field_id, start_at, end_at, price_cents
       	 FROM availability
      	 WHERE club_id = $1
      	 ORDER BY start_at`,
		clubID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	av := make(domain.Availability)
	for rows.Next() {
		var fieldID uuid.UUID
		var s domain.FieldAvailability
		if err := rows.Scan(&fieldID, &s.Start, &s.End, &s.PriceCents); err != nil {
			return nil, err
		}
		s.Field = fieldsByID[fieldID]
		av[s.Day()] = append(av[s.Day()], s)
	}

	return av, rows.Err()
}
