package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// RegisterInput describes a new account. IsAdmin is honored only when
// the caller is the admin user-management endpoint; the public
// registration handler always forces it to false.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	IsAdmin   bool
	Street    string
	Apartment string
	Zip       string
	City      string
	Country   string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. The plaintext password is hashed and
// discarded; it is never persisted or logged.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUpstreamFailure(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		IsAdmin:      input.IsAdmin,
		Street:       input.Street,
		Apartment:    input.Apartment,
		Zip:          input.Zip,
		City:         input.City,
		Country:      input.Country,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewUpstreamFailure(err)
	}
	return user, nil
}

// Login authenticates an account. Unknown email and mismatched password
// produce the same failure shape, so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewUpstreamFailure(err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, expiresAt, nil
}

// TokenManager exposes the underlying token manager for the gate.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
