package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.User{}
	}
	user.ID = "user-" + strconv.Itoa(len(f.byEmail)+1)
	cpy := *user
	f.byEmail[user.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			cpy := *user
			return &cpy, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cpy := *user
	return &cpy, nil
}

func (f *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	_, err := f.GetByID(context.Background(), id)
	return err == nil, nil
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.byEmail {
		result = append(result, *user)
	}
	return result, nil
}

func (f *fakeUsers) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.byEmail)), nil
}

func (f *fakeUsers) DeleteByID(_ context.Context, id string) (bool, error) {
	for email, user := range f.byEmail {
		if user.ID == id {
			delete(f.byEmail, email)
			return true, nil
		}
	}
	return false, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()
	users := &fakeUsers{byEmail: map[string]*domain.User{}}
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "auth-service-test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4, // bcrypt.MinCost, keeps the suite fast
	}, users)
	return svc, users
}

func TestRegister_HashesPassword(t *testing.T) {
	t.Parallel()

	svc, users := newAuthFixture(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	stored := users.byEmail["ada@example.com"]
	require.NotNil(t, stored)
	require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$2"), "expected a bcrypt hash")
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Name: "Imposter", Email: "ada@example.com", Password: "other-pass",
	})
	require.Error(t, err)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestLogin_IssuesTokenWithIdentityClaims(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass", IsAdmin: true,
	})
	require.NoError(t, err)

	user, token, expiresAt, err := svc.Login(context.Background(), "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.False(t, expiresAt.IsZero())

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.SubjectID)
	require.Equal(t, "ada@example.com", claims.Email)
	require.True(t, claims.IsAdmin)
}

func TestLogin_FailureIsIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, _, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, unknownErr)

	_, _, _, wrongErr := svc.Login(context.Background(), "ada@example.com", "wrong-pass")
	require.Error(t, wrongErr)

	unknown := apperrors.ToDomainError(unknownErr)
	wrong := apperrors.ToDomainError(wrongErr)
	require.Equal(t, "UNAUTHENTICATED", unknown.Code)
	require.Equal(t, unknown.Code, wrong.Code)
	require.Equal(t, unknown.Message, wrong.Message,
		"unknown email and bad password must look identical to the caller")
	require.Equal(t, unknown.HTTPStatus, wrong.HTTPStatus)
}
