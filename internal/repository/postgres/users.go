package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
)

// UserRepo is the user directory. It is keyed by email so it can sit behind
// the cache-aside decorator unchanged.
type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Get resolves a user by email.
func (r *UserRepo) Get(ctx context.Context, email string) (domain.User, error) {
	const op = "postgres.UserRepo.Get"

	db := r.handle()

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, email, name
       	 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name)
	if err != nil {
		return domain.User{}, wrapDBErr(op, err)
	}

	return u, nil
}

func (r *UserRepo) Put(ctx context.Context, email string, u domain.User) error {
	const op = "postgres.UserRepo.Put"

	db := r.handle()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO users(id, email, name)
       	 VALUES ($1, $2, $3)
     	 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name`,
		u.ID, email, u.Name,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, email string) error {
	const op = "postgres.UserRepo.Delete"

	db := r.handle()

	ct, err := db.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
