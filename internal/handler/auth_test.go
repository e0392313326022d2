package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/service"
)

func TestSignUp_Returns201(t *testing.T) {
	auth := &mockAuthServicer{
		signUp: func(_ context.Context, email, password, confirm string) (domain.User, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "hunter22", password)
			assert.Equal(t, "hunter22", confirm)
			return domain.User{ID: uuid.New(), Email: email, Role: domain.RoleUser}, nil
		},
	}
	ts := newTestServer(t, deps{auth: auth})

	body := `{"email":"ada@example.com","password":"hunter22","confirm_password":"hunter22"}`
	resp, raw := doRequest(t, ts, http.MethodPost, "/auth/signup", "", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, raw, "ada@example.com")
	assert.NotContains(t, raw, "password", "hash never serializes")
}

func TestSignUp_DuplicateEmailReturns409(t *testing.T) {
	auth := &mockAuthServicer{
		signUp: func(_ context.Context, _, _, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrAlreadyExists
		},
	}
	ts := newTestServer(t, deps{auth: auth})

	body := `{"email":"ada@example.com","password":"hunter22","confirm_password":"hunter22"}`
	resp, raw := doRequest(t, ts, http.MethodPost, "/auth/signup", "", strings.NewReader(body))

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, raw, `"code":"already_exists"`)
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	userID := uuid.New()
	auth := &mockAuthServicer{
		login: func(_ context.Context, email, password string) (domain.User, string, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "hunter22", password)
			return domain.User{ID: userID, Email: email}, "signed-token", nil
		},
	}
	ts := newTestServer(t, deps{auth: auth})

	body := `{"email":"ada@example.com","password":"hunter22"}`
	resp, raw := doRequest(t, ts, http.MethodPost, "/auth/login", "", strings.NewReader(body))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, raw, `"token":"signed-token"`)
	assert.Contains(t, raw, userID.String())
}

func TestLogin_BadCredentialsReturn401(t *testing.T) {
	auth := &mockAuthServicer{
		login: func(_ context.Context, _, _ string) (domain.User, string, error) {
			return domain.User{}, "", service.ErrInvalidCredentials
		},
	}
	ts := newTestServer(t, deps{auth: auth})

	body := `{"email":"ada@example.com","password":"wrong"}`
	resp, raw := doRequest(t, ts, http.MethodPost, "/auth/login", "", strings.NewReader(body))

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"code":"invalid_credentials","message":"invalid email or password"}}`, raw)
}

func TestLogin_MalformedBodyReturns422(t *testing.T) {
	ts := newTestServer(t, deps{})

	resp, _ := doRequest(t, ts, http.MethodPost, "/auth/login", "", strings.NewReader(`{"email":`))

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
