package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
	"github.com/matchpoint-app/matchpoint/internal/repository/cached"
)

// Service is the user directory surface. It sits on the cache-aside
// decorator, so reads are cached and writes go through to the store with a
// best-effort cache refresh behind them.
type Service struct {
	repo *cached.Repository[string, domain.User]
}

func New(repo *cached.Repository[string, domain.User]) *Service {
	return &Service{repo: repo}
}

// Register creates or updates the user under their email.
func (s *Service) Register(ctx context.Context, email, name string) (domain.User, error) {
	const op = "service.users.Register"

	u := domain.User{ID: uuid.New(), Email: email, Name: name}
	if err := s.repo.Put(ctx, email, u); err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}

// Get resolves a user by email.
func (s *Service) Get(ctx context.Context, email string) (domain.User, error) {
	const op = "service.users.Get"

	u, err := s.repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}

// Delete removes the user and invalidates their cache entry.
func (s *Service) Delete(ctx context.Context, email string) error {
	const op = "service.users.Delete"

	if err := s.repo.Delete(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
