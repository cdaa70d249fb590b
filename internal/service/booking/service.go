package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
	postgresrepo "github.com/matchpoint-app/matchpoint/internal/repository/postgres"
	"github.com/matchpoint-app/matchpoint/internal/retry"
)

// UserDirectory resolves players. Backed by the user repo, usually behind
// the cache-aside decorator.
type UserDirectory interface {
	Get(ctx context.Context, email string) (domain.User, error)
}

// ClubDirectory reads clubs. Club mutations live in the club service.
type ClubDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Club, error)
}

// Inventory is the transaction coordinator: the only way bookability
// changes. CreateReservation is atomic; RestoreAvailability is the
// cancellation inverse.
type Inventory interface {
	CreateReservation(
		ctx context.Context,
		p postgresrepo.CreateReservationParams,
	) (*domain.Reservation, error)
	RestoreAvailability(
		ctx context.Context,
		clubID uuid.UUID,
		slot domain.FieldAvailability,
	) error
}

// ReservationStore covers the single-document reservation writes that need
// no cross-document transaction. The roster operations are atomic in the
// store: AddPlayer enforces the cap and the no-duplicates rule itself and
// reports repository.ErrConflict when either guard fails.
type ReservationStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		status domain.ReservationStatus,
		payment domain.PaymentStatus,
	) (*domain.Reservation, error)
	AddPlayer(ctx context.Context, id uuid.UUID, u domain.User) (*domain.Reservation, error)
	RemovePlayer(ctx context.Context, id uuid.UUID, email string) (*domain.Reservation, error)
	UpdateResult(
		ctx context.Context,
		id uuid.UUID,
		result domain.MatchResult,
	) (*domain.Reservation, error)
}

// Announcer propagates a committed change to caches and subscribers.
// Always called off the request path; failures are the retry runner's
// problem, never the caller's.
type Announcer interface {
	ReservationChanged(ctx context.Context, res *domain.Reservation) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int64, time.Duration, error)
}

// RosterChange is a closed set of match roster edits.
type RosterChange interface {
	isRosterChange()
}

type Add struct{ Email string }

type Remove struct{ Email string }

func (Add) isRosterChange()    {}
func (Remove) isRosterChange() {}

// Service drives the reservation lifecycle: create, cancel, roster edits
// and result recording.
type Service struct {
	users        UserDirectory
	clubs        ClubDirectory
	inventory    Inventory
	reservations ReservationStore
	tasks        *retry.Runner
	announcer    Announcer
	limiter      RateLimiter
	now          func() time.Time
}

func New(
	users UserDirectory,
	clubs ClubDirectory,
	inventory Inventory,
	reservations ReservationStore,
	tasks *retry.Runner,
	announcer Announcer,
	limiter RateLimiter,
) *Service {
	return &Service{
		users:        users,
		clubs:        clubs,
		inventory:    inventory,
		reservations: reservations,
		tasks:        tasks,
		announcer:    announcer,
		limiter:      limiter,
		now:          time.Now,
	}
}

// Create books a slot for a match. Owner and every named player must
// resolve; the club must own the field. The consume-inventory plus
// insert-reservation step is delegated to the coordinator and is atomic:
// of two concurrent calls for the same slot exactly one wins, the other
// gets ErrSlotTaken.
func (s *Service) Create(
	ctx context.Context,
	owner string,
	clubID, fieldID uuid.UUID,
	start, end time.Time,
	playerEmails []string,
	rlKey string,
) (*domain.Reservation, error) {
	const op = "service.booking.Create"

	if s.limiter != nil && rlKey != "" {
		ok, _, retryIn, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w, retry in %s", op, ErrRateLimited, retryIn)
		}
	}

	ownerUser, err := s.users.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	players := []domain.User{ownerUser}
	for _, email := range playerEmails {
		if email == owner {
			continue
		}
		u, err := s.users.Get(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
			}
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		players = append(players, u)
	}

	if _, err := domain.NewMatch(players); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	club, err := s.clubs.Get(ctx, clubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrClubNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if !club.HasField(fieldID) {
		return nil, fmt.Errorf("%s:%w", op, ErrFieldNotFound)
	}

	res, err := s.inventory.CreateReservation(ctx, postgresrepo.CreateReservationParams{
		Owner:   owner,
		ClubID:  clubID,
		FieldID: fieldID,
		Start:   start,
		End:     end,
		Players: players,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFree) {
			return nil, fmt.Errorf("%s:%w", op, ErrSlotTaken)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrFieldNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.announce(ctx, res)

	return res, nil
}

// Cancel turns the reservation into Canceled and restores its availability
// entry. Canceling an already-canceled reservation, or one whose start time
// has passed, is client misuse and rejected. A Confirmed and Payed
// reservation becomes ToBeRefunded; every other payment status is kept.
// The restore is best-effort and never blocks the status change.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.booking.Cancel"

	res, err := s.reservations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if res.Status == domain.ReservationCanceled {
		return nil, fmt.Errorf("%s:%w", op, ErrAlreadyCanceled)
	}

	if s.now().After(res.Start) {
		return nil, fmt.Errorf("%s:%w", op, ErrMatchStarted)
	}

	payment := res.Payment
	if res.Status == domain.ReservationConfirmed && res.Payment == domain.PaymentPayed {
		payment = domain.PaymentToBeRefunded
	}

	updated, err := s.reservations.UpdateStatus(ctx, id, domain.ReservationCanceled, payment)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	clubID := res.Club.ClubID
	slot := res.Slot()
	s.tasks.Go(ctx, "restore availability "+id.String(), func(ctx context.Context) error {
		return s.inventory.RestoreAvailability(ctx, clubID, slot)
	})

	s.announce(ctx, updated)

	return updated, nil
}

// EditRoster applies an Add or Remove to the match. Adding a present player
// and removing an absent one are no-ops returning the unchanged reservation
// without a store write. The owner may never leave; they cancel instead.
func (s *Service) EditRoster(
	ctx context.Context,
	id uuid.UUID,
	change RosterChange,
) (*domain.Reservation, error) {
	const op = "service.booking.EditRoster"

	res, err := s.reservations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var updated *domain.Reservation

	switch ch := change.(type) {
	case Add:
		if res.Match.HasPlayer(ch.Email) {
			return res, nil
		}

		if len(res.Match.Players) >= domain.MaxPlayers {
			return nil, fmt.Errorf("%s:%w", op, ErrMatchFull)
		}

		u, err := s.users.Get(ctx, ch.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
			}
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		updated, err = s.reservations.AddPlayer(ctx, id, u)
		if err != nil {
			// The store's guards lost a race. Re-read to tell which one: a
			// concurrent join of the same email is a no-op, a full roster is
			// the caller's problem.
			if errors.Is(err, repository.ErrConflict) {
				cur, gerr := s.reservations.Get(ctx, id)
				if gerr != nil {
					return nil, fmt.Errorf("%s:%w", op, gerr)
				}
				if cur.Match.HasPlayer(ch.Email) {
					return cur, nil
				}
				return nil, fmt.Errorf("%s:%w", op, ErrMatchFull)
			}
			return nil, fmt.Errorf("%s:%w", op, err)
		}

	case Remove:
		if ch.Email == res.ReservedBy {
			return nil, fmt.Errorf("%s:%w", op, ErrOwnerCannotLeave)
		}

		if !res.Match.HasPlayer(ch.Email) {
			return res, nil
		}

		var err error
		updated, err = s.reservations.RemovePlayer(ctx, id, ch.Email)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

	default:
		return nil, fmt.Errorf("%s: unknown roster change %T", op, change)
	}

	s.announce(ctx, updated)

	return updated, nil
}

// RecordResult replaces the match result.
func (s *Service) RecordResult(
	ctx context.Context,
	id uuid.UUID,
	result domain.MatchResult,
) (*domain.Reservation, error) {
	const op = "service.booking.RecordResult"

	updated, err := s.reservations.UpdateResult(ctx, id, result)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.announce(ctx, updated)

	return updated, nil
}

// Confirm moves a pending reservation to Confirmed, optionally marking it
// payed. Used by the payment callback surface.
func (s *Service) Confirm(
	ctx context.Context,
	id uuid.UUID,
	payed bool,
) (*domain.Reservation, error) {
	const op = "service.booking.Confirm"

	res, err := s.reservations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if res.Status == domain.ReservationCanceled {
		return nil, fmt.Errorf("%s:%w", op, ErrAlreadyCanceled)
	}

	payment := res.Payment
	if payed {
		payment = domain.PaymentPayed
	}

	updated, err := s.reservations.UpdateStatus(ctx, id, domain.ReservationConfirmed, payment)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.announce(ctx, updated)

	return updated, nil
}

func (s *Service) announce(ctx context.Context, res *domain.Reservation) {
	if s.announcer == nil {
		return
	}

	s.tasks.Go(ctx, "announce reservation "+res.ID.String(), func(ctx context.Context) error {
		return s.announcer.ReservationChanged(ctx, res)
	})
}
