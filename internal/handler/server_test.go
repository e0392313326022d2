package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/handler"
	"github.com/pmichel/itinera/internal/service"
)

var testSecret = []byte("handler-test-secret")

// ---- mock servicers ----------------------------------------------------------

// mockTripServicer is a hand-written test double for handler.TripServicer.
// Set only the method fields your test needs; calling an unset method panics,
// which is the desired failure for an unexpected call.
type mockTripServicer struct {
	create         func(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	list           func(ctx context.Context, callerID uuid.UUID) ([]domain.Trip, error)
	get            func(ctx context.Context, callerID, tripID uuid.UUID) (domain.TripView, error)
	delete         func(ctx context.Context, callerID, tripID uuid.UUID) error
	addItem        func(ctx context.Context, callerID, tripID, dayID uuid.UUID, item domain.Item) (domain.Trip, error)
	removeItem     func(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error)
	toggleBooked   func(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error)
	reorderDay     func(ctx context.Context, callerID, tripID, dayID uuid.UUID, itemIDs []uuid.UUID) (domain.Trip, error)
	share          func(ctx context.Context, callerID, tripID uuid.UUID, email string) (domain.TripView, error)
	addExpense     func(ctx context.Context, callerID, tripID uuid.UUID, expense domain.Expense) (domain.Trip, error)
	removeExpense  func(ctx context.Context, callerID, tripID, expenseID uuid.UUID) (domain.Trip, error)
	expenseSummary func(ctx context.Context, callerID, tripID uuid.UUID) (domain.ExpenseSummary, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) List(ctx context.Context, callerID uuid.UUID) ([]domain.Trip, error) {
	return m.list(ctx, callerID)
}
func (m *mockTripServicer) Get(ctx context.Context, callerID, tripID uuid.UUID) (domain.TripView, error) {
	return m.get(ctx, callerID, tripID)
}
func (m *mockTripServicer) Delete(ctx context.Context, callerID, tripID uuid.UUID) error {
	return m.delete(ctx, callerID, tripID)
}
func (m *mockTripServicer) AddItem(ctx context.Context, callerID, tripID, dayID uuid.UUID, item domain.Item) (domain.Trip, error) {
	return m.addItem(ctx, callerID, tripID, dayID, item)
}
func (m *mockTripServicer) RemoveItem(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error) {
	return m.removeItem(ctx, callerID, tripID, dayID, itemID)
}
func (m *mockTripServicer) ToggleBooked(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error) {
	return m.toggleBooked(ctx, callerID, tripID, dayID, itemID)
}
func (m *mockTripServicer) ReorderDay(ctx context.Context, callerID, tripID, dayID uuid.UUID, itemIDs []uuid.UUID) (domain.Trip, error) {
	return m.reorderDay(ctx, callerID, tripID, dayID, itemIDs)
}
func (m *mockTripServicer) Share(ctx context.Context, callerID, tripID uuid.UUID, email string) (domain.TripView, error) {
	return m.share(ctx, callerID, tripID, email)
}
func (m *mockTripServicer) AddExpense(ctx context.Context, callerID, tripID uuid.UUID, expense domain.Expense) (domain.Trip, error) {
	return m.addExpense(ctx, callerID, tripID, expense)
}
func (m *mockTripServicer) RemoveExpense(ctx context.Context, callerID, tripID, expenseID uuid.UUID) (domain.Trip, error) {
	return m.removeExpense(ctx, callerID, tripID, expenseID)
}
func (m *mockTripServicer) ExpenseSummary(ctx context.Context, callerID, tripID uuid.UUID) (domain.ExpenseSummary, error) {
	return m.expenseSummary(ctx, callerID, tripID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockAuthServicer struct {
	signUp func(ctx context.Context, email, password, confirm string) (domain.User, error)
	login  func(ctx context.Context, email, password string) (domain.User, string, error)
}

func (m *mockAuthServicer) SignUp(ctx context.Context, email, password, confirm string) (domain.User, error) {
	return m.signUp(ctx, email, password, confirm)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockSearchServicer struct {
	flights func(ctx context.Context, from, to string) ([]domain.Offer, error)
	hotels  func(ctx context.Context, location string) ([]domain.Offer, error)
}

func (m *mockSearchServicer) Flights(ctx context.Context, from, to string) ([]domain.Offer, error) {
	return m.flights(ctx, from, to)
}
func (m *mockSearchServicer) Hotels(ctx context.Context, location string) ([]domain.Offer, error) {
	return m.hotels(ctx, location)
}

var _ handler.SearchServicer = (*mockSearchServicer)(nil)

type mockWeatherServicer struct {
	forecast func(ctx context.Context, city string) (domain.Forecast, error)
}

func (m *mockWeatherServicer) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	return m.forecast(ctx, city)
}

var _ handler.WeatherServicer = (*mockWeatherServicer)(nil)

type mockAdminServicer struct {
	stats func(ctx context.Context) (domain.AdminStats, error)
}

func (m *mockAdminServicer) Stats(ctx context.Context) (domain.AdminStats, error) {
	return m.stats(ctx)
}

var _ handler.AdminServicer = (*mockAdminServicer)(nil)

// ---- test harness --------------------------------------------------------------

// deps bundles optional mock servicers; nil fields get a zero-value mock.
type deps struct {
	trips   *mockTripServicer
	auth    *mockAuthServicer
	search  *mockSearchServicer
	weather *mockWeatherServicer
	admin   *mockAdminServicer
}

// newTestServer mounts the full router, so tests exercise routing and auth
// middleware exactly as production does.
func newTestServer(t *testing.T, d deps) *httptest.Server {
	t.Helper()
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.auth == nil {
		d.auth = &mockAuthServicer{}
	}
	if d.search == nil {
		d.search = &mockSearchServicer{}
	}
	if d.weather == nil {
		d.weather = &mockWeatherServicer{}
	}
	if d.admin == nil {
		d.admin = &mockAdminServicer{}
	}
	srv := handler.NewServer(d.trips, d.auth, d.search, d.weather, d.admin)
	ts := httptest.NewServer(srv.Routes(testSecret))
	t.Cleanup(ts.Close)
	return ts
}

// tokenFor issues a token the auth middleware accepts.
func tokenFor(t *testing.T, userID uuid.UUID, role domain.Role) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

// doRequest performs an HTTP request against the test server, optionally
// authenticated, and returns the response with its body read.
func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(raw)
}
