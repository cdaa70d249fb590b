package club

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
	postgresrepo "github.com/matchpoint-app/matchpoint/internal/repository/postgres"
	redisrepo "github.com/matchpoint-app/matchpoint/internal/repository/redis"
	"github.com/matchpoint-app/matchpoint/internal/retry"
	"github.com/matchpoint-app/matchpoint/internal/uow"
)

type Config struct {
	ClubTTL time.Duration
}

// Service owns authoritative club state. Every mutation that touches the
// identity a reservation snapshots (name, address, field attributes)
// schedules a best-effort fan-out rewriting the stale snapshots after the
// commit; the fan-out may lag and is never on the caller's path.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	tasks *retry.Runner
	uow   *uow.UoW
	cfg   Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	tasks *retry.Runner,
	cfg Config,
) *Service {
	if cfg.ClubTTL <= 0 {
		cfg.ClubTTL = 60 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		tasks: tasks,
		uow:   uow.NewUoW(store),
		cfg:   cfg,
	}
}

// CreateClub validates the availability ledger against the declared fields
// and persists club, fields and ledger in one transaction. A ledger that
// violates its invariants never reaches the store.
func (s *Service) CreateClub(
	ctx context.Context,
	name, address string,
	location domain.Location,
	fields []domain.Field,
	availability domain.Availability,
	avgPriceCents int,
	contacts domain.Contacts,
) (uuid.UUID, error) {
	const op = "service.club.CreateClub"

	for i := range fields {
		if fields[i].ID == uuid.Nil {
			fields[i].ID = uuid.New()
		}
	}

	c, err := domain.NewClub(name, address, location, fields, availability, avgPriceCents, contacts)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s:%w", op, err)
	}

	var id uuid.UUID
	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Clubs().With(tx).Create(ctx, c)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrClubConflict)
			}
			return fmt.Errorf("%s:%w", op, err)
		}
		return nil
	})

	return id, err
}

// GetClub reads through the cache.
func (s *Service) GetClub(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	const op = "service.club.GetClub"

	c, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyClub(id),
		s.cfg.ClubTTL,
		func(ctx context.Context) (domain.Club, error) {
			c, err := s.store.Clubs().Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Club{}, ErrClubNotFound
				}
				return domain.Club{}, err
			}
			return *c, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &c, nil
}

// UpdateName renames the club and fans the new name out to reservation
// snapshots.
func (s *Service) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	const op = "service.club.UpdateName"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Clubs().With(tx).UpdateName(ctx, id, name); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrClubNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		c, err := s.store.Clubs().With(tx).Get(ctx, id)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateClub(ctx, id)
			s.fanOutClub(ctx, id, c.Name, c.Location)
		})

		return nil
	})
}

// UpdateAddress moves the club and fans the new location out.
func (s *Service) UpdateAddress(
	ctx context.Context,
	id uuid.UUID,
	address string,
	location domain.Location,
) error {
	const op = "service.club.UpdateAddress"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Clubs().With(tx).UpdateAddress(ctx, id, address, location); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrClubNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		c, err := s.store.Clubs().With(tx).Get(ctx, id)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateClub(ctx, id)
			s.fanOutClub(ctx, id, c.Name, c.Location)
		})

		return nil
	})
}

// UpdateField changes a field's attributes and fans them out to the
// reservations booked on it.
func (s *Service) UpdateField(ctx context.Context, clubID uuid.UUID, f domain.Field) error {
	const op = "service.club.UpdateField"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Clubs().With(tx).UpdateField(ctx, clubID, f); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrFieldNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateClub(ctx, clubID)
			s.tasks.Go(ctx, "field snapshot fan-out "+clubID.String(), func(ctx context.Context) error {
				return s.store.Reservations().UpdateFieldSnapshots(ctx, clubID, f)
			})
		})

		return nil
	})
}

// ReplaceAvailability swaps the club's whole ledger after validating it
// against the club's declared fields.
func (s *Service) ReplaceAvailability(
	ctx context.Context,
	clubID uuid.UUID,
	availability domain.Availability,
) error {
	const op = "service.club.ReplaceAvailability"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		c, err := s.store.Clubs().With(tx).Get(ctx, clubID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrClubNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := availability.Validate(c.Fields); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Clubs().With(tx).ReplaceAvailability(ctx, clubID, availability); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateClub(ctx, clubID)
		})

		return nil
	})
}

func (s *Service) fanOutClub(ctx context.Context, id uuid.UUID, name string, loc domain.Location) {
	s.tasks.Go(ctx, "club snapshot fan-out "+id.String(), func(ctx context.Context) error {
		return s.store.Reservations().UpdateClubSnapshots(ctx, id, name, loc)
	})
}
