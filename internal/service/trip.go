// Package service contains the business logic for the itinera API.
// Services enforce access control, orchestrate repo calls, and apply
// in-aggregate mutations through the domain engine. No SQL lives here —
// services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/repo"
)

// TripService implements the trip operation set: ownership rules, sharing,
// and the read-modify-write cycle over the full aggregate. Every mutation
// loads the stored aggregate, applies one structural change in memory, and
// saves the whole document back; a failed mutation never persists anything.
type TripService struct {
	trips repo.TripRepo
	users repo.UserRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, users repo.UserRepo) *TripService {
	return &TripService{trips: trips, users: users}
}

// CreateTripInput carries the caller-supplied fields for a new trip.
// Itinerary is optional: when empty, one empty day is generated per calendar
// day in [StartDate, EndDate].
type CreateTripInput struct {
	OwnerID     uuid.UUID
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Notes       string
	Itinerary   []domain.Day
}

// Create validates and persists a new trip owned by the caller.
// Returns domain.ErrValidation for a blank destination or an end date before
// the start date.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (domain.Trip, error) {
	if strings.TrimSpace(in.Destination) == "" {
		return domain.Trip{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	var itinerary []domain.Day
	if len(in.Itinerary) > 0 {
		itinerary = domain.NormalizeItinerary(in.Itinerary)
	} else {
		days, err := domain.NewItinerary(in.StartDate, in.EndDate)
		if err != nil {
			return domain.Trip{}, err
		}
		itinerary = days
	}

	trip := domain.Trip{
		OwnerID:     in.OwnerID,
		SharedWith:  []uuid.UUID{},
		Destination: strings.TrimSpace(in.Destination),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Notes:       in.Notes,
		Itinerary:   itinerary,
		Expenses:    []domain.Expense{},
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// List returns all trips the caller owns or participates in, ordered by
// start date ascending. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context, callerID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListVisibleTo(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Get returns a single trip with participants resolved to display identity.
// Callers who are neither owner nor participant receive domain.ErrNotFound —
// never domain.ErrForbidden — so the trip's existence is not revealed.
func (s *TripService) Get(ctx context.Context, callerID, tripID uuid.UUID) (domain.TripView, error) {
	trip, err := s.loadVisible(ctx, callerID, tripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	view, err := s.resolveParticipants(ctx, trip)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return view, nil
}

// Delete removes a trip and, by cascade, every day, item, and expense it
// owns. Owner-only.
func (s *TripService) Delete(ctx context.Context, callerID, tripID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, callerID, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddItem appends an item to a day of the trip's itinerary. Owner-only:
// shared participants receive domain.ErrForbidden.
func (s *TripService) AddItem(ctx context.Context, callerID, tripID, dayID uuid.UUID, item domain.Item) (domain.Trip, error) {
	trip, err := s.loadOwned(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddItem: %w", err)
	}
	if _, err := trip.AddItem(dayID, item); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddItem: %w", err)
	}
	return s.save(ctx, "AddItem", trip)
}

// RemoveItem deletes an item from a day of the trip's itinerary. Owner-only.
func (s *TripService) RemoveItem(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error) {
	trip, err := s.loadOwned(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RemoveItem: %w", err)
	}
	if err := trip.RemoveItem(dayID, itemID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RemoveItem: %w", err)
	}
	return s.save(ctx, "RemoveItem", trip)
}

// ToggleBooked flips an item's booked flag. Owner-only.
func (s *TripService) ToggleBooked(ctx context.Context, callerID, tripID, dayID, itemID uuid.UUID) (domain.Trip, error) {
	trip, err := s.loadOwned(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ToggleBooked: %w", err)
	}
	if _, err := trip.ToggleBooked(dayID, itemID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ToggleBooked: %w", err)
	}
	return s.save(ctx, "ToggleBooked", trip)
}

// ReorderDay rearranges a day's items into the supplied permutation of item
// IDs. Owner-only.
func (s *TripService) ReorderDay(ctx context.Context, callerID, tripID, dayID uuid.UUID, itemIDs []uuid.UUID) (domain.Trip, error) {
	trip, err := s.loadOwned(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ReorderDay: %w", err)
	}
	if err := trip.ReorderDay(dayID, itemIDs); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.ReorderDay: %w", err)
	}
	return s.save(ctx, "ReorderDay", trip)
}

// Share grants participant access to the user registered under email and
// returns the trip with participants resolved. Owner-only. An unknown email
// fails with domain.ErrNotFound; a duplicate share with domain.ErrAlreadyExists.
func (s *TripService) Share(ctx context.Context, callerID, tripID uuid.UUID, email string) (domain.TripView, error) {
	trip, err := s.loadOwned(ctx, callerID, tripID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Share: %w", err)
	}

	buddy, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Share: participant: %w", err)
	}

	if err := trip.Share(buddy.ID); err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Share: %w", err)
	}

	saved, err := s.save(ctx, "Share", trip)
	if err != nil {
		return domain.TripView{}, err
	}
	view, err := s.resolveParticipants(ctx, saved)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Share: %w", err)
	}
	return view, nil
}

// AddExpense appends an expense to the trip. Expenses are collaboratively
// editable: both the owner and shared participants may add them. Callers
// with no access at all receive domain.ErrForbidden (the expense paths load
// the trip unscoped, so existence is already established).
func (s *TripService) AddExpense(ctx context.Context, callerID, tripID uuid.UUID, expense domain.Expense) (domain.Trip, error) {
	trip, err := s.loadForExpenses(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddExpense: %w", err)
	}
	if _, err := trip.AddExpense(expense, time.Now().UTC()); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddExpense: %w", err)
	}
	return s.save(ctx, "AddExpense", trip)
}

// RemoveExpense deletes an expense by ID. Owner and shared participants only.
func (s *TripService) RemoveExpense(ctx context.Context, callerID, tripID, expenseID uuid.UUID) (domain.Trip, error) {
	trip, err := s.loadForExpenses(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RemoveExpense: %w", err)
	}
	if err := trip.RemoveExpense(expenseID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RemoveExpense: %w", err)
	}
	return s.save(ctx, "RemoveExpense", trip)
}

// ExpenseSummary returns the trip's expense totals, overall and per category.
// Read path: visible to owner and participants, not-found to everyone else.
func (s *TripService) ExpenseSummary(ctx context.Context, callerID, tripID uuid.UUID) (domain.ExpenseSummary, error) {
	trip, err := s.loadVisible(ctx, callerID, tripID)
	if err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("service.TripService.ExpenseSummary: %w", err)
	}
	return trip.ExpenseSummary(), nil
}

// ---- access-control loaders -------------------------------------------------

// loadVisible fetches the trip for a read. Unauthorized callers get
// ErrNotFound so existence is never leaked on read paths.
func (s *TripService) loadVisible(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !trip.VisibleTo(callerID) {
		return domain.Trip{}, domain.ErrNotFound
	}
	return trip, nil
}

// loadOwned fetches the trip for an itinerary-structure mutation or a share.
// Shared participants can see the trip but lack owner rights, so they get
// ErrForbidden; callers with no access get ErrNotFound.
func (s *TripService) loadOwned(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.loadVisible(ctx, callerID, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !trip.IsOwnedBy(callerID) {
		return domain.Trip{}, fmt.Errorf("%w: only the trip owner may do this", domain.ErrForbidden)
	}
	return trip, nil
}

// loadForExpenses fetches the trip for an expense mutation. Expenses are the
// one collaboratively-writable part of the aggregate: owner and shared
// participants both pass, anyone else gets ErrForbidden.
func (s *TripService) loadForExpenses(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !trip.VisibleTo(callerID) {
		return domain.Trip{}, fmt.Errorf("%w: not a member of this trip", domain.ErrForbidden)
	}
	return trip, nil
}

// save persists the whole mutated aggregate back to the store.
func (s *TripService) save(ctx context.Context, op string, trip domain.Trip) (domain.Trip, error) {
	saved, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	return saved, nil
}

// resolveParticipants replaces the trip's participant IDs with display
// identities for read responses.
func (s *TripService) resolveParticipants(ctx context.Context, trip domain.Trip) (domain.TripView, error) {
	users, err := s.users.GetByIDs(ctx, trip.SharedWith)
	if err != nil {
		return domain.TripView{}, err
	}
	participants := make([]domain.Participant, 0, len(users))
	for _, u := range users {
		participants = append(participants, domain.Participant{ID: u.ID, Email: u.Email})
	}
	return domain.TripView{Trip: trip, Participants: participants}, nil
}
