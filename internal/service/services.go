package service

import (
	"context"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository/cached"
	postgresrepo "github.com/matchpoint-app/matchpoint/internal/repository/postgres"
	redisrepo "github.com/matchpoint-app/matchpoint/internal/repository/redis"
	"github.com/matchpoint-app/matchpoint/internal/retry"
	"github.com/matchpoint-app/matchpoint/internal/service/booking"
	"github.com/matchpoint-app/matchpoint/internal/service/club"
	"github.com/matchpoint-app/matchpoint/internal/service/query"
	"github.com/matchpoint-app/matchpoint/internal/service/users"
)

type Services struct {
	Booking *booking.Service
	Club    *club.Service
	Query   *query.Service
	Users   *users.Service
}

type Config struct {
	Club    club.Config
	Query   query.Config
	UserTTL time.Duration
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.ReservationsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	tasks *retry.Runner,
	cfg Config,
) *Services {
	if cfg.UserTTL <= 0 {
		cfg.UserTTL = 5 * time.Minute
	}

	cachedUsers := cached.New[string, domain.User](
		store.Users(),
		cache,
		redisrepo.KeyUserByEmail,
		cfg.UserTTL,
		tasks,
	)

	ann := &announcer{cache: cache, pubsub: pubsub}

	return &Services{
		Booking: booking.New(
			cachedUsers,
			store.Clubs(),
			store.Inventory(),
			store.Reservations(),
			tasks,
			ann,
			limiter,
		),
		Club:  club.New(store, cache, tasks, cfg.Club),
		Query: query.New(store, cache, cfg.Query),
		Users: users.New(cachedUsers),
	}
}

// announcer pushes a committed reservation change into the cache and the
// reservations-changed channel. Runs behind the retry runner.
type announcer struct {
	cache  *redisrepo.Cache
	pubsub *redisrepo.ReservationsPubSub
}

func (a *announcer) ReservationChanged(ctx context.Context, res *domain.Reservation) error {
	if err := a.cache.InvalidateReservation(ctx, res.ID); err != nil {
		return err
	}

	return a.pubsub.PublishReservationChanged(ctx, res.ID, res.Club.ClubID)
}
