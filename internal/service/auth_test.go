package service_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/service"
)

var testSecret = []byte("test-secret")

func TestAuthService_SignUp_OK(t *testing.T) {
	var captured domain.User
	users := &mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			captured = u
			u.ID = uuid.New()
			return u, nil
		},
	}
	svc := service.NewAuthService(users, testSecret)

	user, err := svc.SignUp(context.Background(), "  Ada@Example.COM ", "hunter22", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, captured.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("hunter22")))
}

func TestAuthService_SignUp_PasswordMismatch(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, testSecret)

	_, err := svc.SignUp(context.Background(), "ada@example.com", "hunter22", "hunter23")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_SignUp_MissingFields(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, testSecret)

	_, err := svc.SignUp(context.Background(), "", "hunter22", "hunter22")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SignUp(context.Background(), "ada@example.com", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		create: func(_ context.Context, _ domain.User) (domain.User, error) {
			return domain.User{}, domain.ErrAlreadyExists
		},
	}
	svc := service.NewAuthService(users, testSecret)

	_, err := svc.SignUp(context.Background(), "ada@example.com", "hunter22", "hunter22")

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAuthService_Login_IssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := domain.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			assert.Equal(t, "ada@example.com", email)
			return stored, nil
		},
	}
	svc := service.NewAuthService(users, testSecret)

	user, token, err := svc.Login(context.Background(), "ada@example.com", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return testSecret, nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, stored.ID.String(), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "ada@example.com", claims["email"])
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{ID: uuid.New(), PasswordHash: string(hash)}, nil
		},
	}
	svc := service.NewAuthService(users, testSecret)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewAuthService(users, testSecret)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "hunter22")

	// Unknown email and wrong password must be indistinguishable.
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
