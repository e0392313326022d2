package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/repo"
)

// tokenTTL is how long issued access tokens stay valid.
const tokenTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned by Login for a wrong email or password.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService registers accounts and issues JWT access tokens. The signing
// secret is explicit configuration passed at construction, never read from
// process environment at call time.
type AuthService struct {
	users  repo.UserRepo
	secret []byte
}

// NewAuthService constructs an AuthService backed by the provided user repo.
func NewAuthService(users repo.UserRepo, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// SignUp registers a new account. Returns domain.ErrValidation for a blank
// email/password or mismatched confirmation, and domain.ErrAlreadyExists for
// an email that is already registered.
func (s *AuthService) SignUp(ctx context.Context, email, password, confirmPassword string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if password != confirmPassword {
		return domain.User{}, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.SignUp: hash: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns the user with a signed JWT.
// Returns ErrInvalidCredentials for an unknown email or a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}

// issueToken signs a JWT carrying the user's identity and role.
func (s *AuthService) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
