// Package handler implements the HTTP handlers for the itinera API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, auth.go, etc.) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/middleware"
	"github.com/pmichel/itinera/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	List(ctx context.Context, callerID uuid.UUID) ([]domain.Trip, error)
	Get(ctx context.Context, callerID, tripID uuid.UUID) (domain.TripView, error)
	Delete(ctx context.Context, callerID, tripID uuid.UUID) error
	AddItem(ctx context.Context, callerID, tripID, dayID uuid.UUID, item domain.Item) (domain.Trip, error)
	RemoveItem(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error)
	ToggleBooked(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error)
	ReorderDay(ctx context.Context, callerID, tripID, dayID uuid.UUID, itemIDs []uuid.UUID) (domain.Trip, error)
	Share(ctx context.Context, callerID, tripID uuid.UUID, email string) (domain.TripView, error)
	AddExpense(ctx context.Context, callerID, tripID uuid.UUID, expense domain.Expense) (domain.Trip, error)
	RemoveExpense(ctx context.Context, callerID, tripID, expenseID uuid.UUID) (domain.Trip, error)
	ExpenseSummary(ctx context.Context, callerID, tripID uuid.UUID) (domain.ExpenseSummary, error)
}

// AuthServicer defines the account operations the auth handlers depend on.
type AuthServicer interface {
	SignUp(ctx context.Context, email, password, confirmPassword string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
}

// SearchServicer defines the flight and hotel lookups the search handlers
// depend on.
type SearchServicer interface {
	Flights(ctx context.Context, from, to string) ([]domain.Offer, error)
	Hotels(ctx context.Context, location string) ([]domain.Offer, error)
}

// WeatherServicer defines the forecast lookup the weather handler depends on.
type WeatherServicer interface {
	Forecast(ctx context.Context, city string) (domain.Forecast, error)
}

// AdminServicer defines the dashboard report the admin handler depends on.
type AdminServicer interface {
	Stats(ctx context.Context) (domain.AdminStats, error)
}

// Server holds the service dependencies for all API endpoints.
type Server struct {
	trips   TripServicer
	auth    AuthServicer
	search  SearchServicer
	weather WeatherServicer
	admin   AdminServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, auth AuthServicer, search SearchServicer, weather WeatherServicer, admin AdminServicer) *Server {
	return &Server{trips: trips, auth: auth, search: search, weather: weather, admin: admin}
}

// Routes returns the chi router for the full API surface. Everything except
// the health check, the embedded spec, and the auth endpoints requires a
// bearer token signed with jwtSecret; /admin additionally requires the admin
// role.
func (s *Server) Routes(jwtSecret []byte) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)
	r.Post("/auth/signup", s.handleSignUp)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthenticator(jwtSecret))

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.handleListTrips)
			r.Post("/", s.handleCreateTrip)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.handleGetTrip)
				r.Delete("/", s.handleDeleteTrip)
				r.Post("/share", s.handleShareTrip)
				r.Get("/expenses/summary", s.handleExpenseSummary)
				r.Post("/expenses", s.handleAddExpense)
				r.Delete("/expenses/{expenseID}", s.handleRemoveExpense)
				r.Route("/days/{dayID}", func(r chi.Router) {
					r.Post("/items", s.handleAddItem)
					r.Put("/items/order", s.handleReorderDay)
					r.Delete("/items/{itemID}", s.handleRemoveItem)
					r.Patch("/items/{itemID}/booked", s.handleToggleBooked)
				})
			})
		})

		r.Get("/search/flights", s.handleSearchFlights)
		r.Get("/search/hotels", s.handleSearchHotels)
		r.Get("/weather", s.handleWeather)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/admin/stats", s.handleAdminStats)
		})
	})

	return r
}

// caller extracts the authenticated identity the auth middleware placed in
// context. Handlers behind the authenticator can rely on it being present;
// the false branch only triggers on a wiring mistake.
func caller(r *http.Request) (middleware.Caller, bool) {
	return middleware.CallerFromContext(r.Context())
}

// pathID parses a UUID route parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
