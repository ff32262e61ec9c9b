package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// UserService exposes back-office account management.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns all accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return users, nil
}

// GetUser fetches one account.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return user, nil
}

// CountUsers returns the number of accounts.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.users.CountAll(ctx)
	if err != nil {
		return 0, apperrors.NewUpstreamFailure(err)
	}
	return count, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	deleted, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		return apperrors.NewUpstreamFailure(err)
	}
	if !deleted {
		return apperrors.NewNotFound("user", nil)
	}
	return nil
}
