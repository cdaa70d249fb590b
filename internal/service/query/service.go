package query

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
)

type Config struct {
	ReservationTTL  time.Duration
	DefaultRadiusKm float64
	MaxRadiusKm     float64
}

// Service serves the read side: single reservations through the cache and
// the nearby listing straight from the store.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = 30 * time.Second
	}

	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = 10
	}

	if cfg.MaxRadiusKm <= 0 {
		cfg.MaxRadiusKm = 100
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetReservation retrieves a reservation by ID, read-through cached.
//
// Returns:
//   - *domain.Reservation: the reservation, or nil if not found.
//   - error: query.ErrReservationNotFound if the reservation is not found.
func (s *Service) GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.query.GetReservation"

	res, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyReservation(id),
		s.cfg.ReservationTTL,
		func(ctx context.Context) (domain.Reservation, error) {
			r, err := s.store.Reservations().Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Reservation{}, ErrReservationNotFound
				}
				return domain.Reservation{}, err
			}
			return *r, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &res, nil
}

// ListReservationsNear lists reservations around a point, optionally only
// those at clubs that still have availability on the given day
// (availableOn in YYYY-MM-DD, empty to skip the filter).
func (s *Service) ListReservationsNear(
	ctx context.Context,
	loc domain.Location,
	radiusKm float64,
	availableOn string,
) ([]domain.Reservation, error) {
	const op = "service.query.ListReservationsNear"

	if radiusKm <= 0 {
		radiusKm = s.cfg.DefaultRadiusKm
	}

	if radiusKm > s.cfg.MaxRadiusKm {
		radiusKm = s.cfg.MaxRadiusKm
	}

	if availableOn != "" {
		if _, err := time.Parse(domain.DayFormat, availableOn); err != nil {
			return nil, fmt.Errorf("%s: invalid day %q", op, availableOn)
		}
	}

	out, err := s.store.Reservations().ListNear(ctx, loc, radiusKm, availableOn)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
