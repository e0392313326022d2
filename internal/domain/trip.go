// Package domain contains the core data types and the in-aggregate mutation
// logic for the itinera trip planner. This package has no transport or
// storage dependencies and is imported by every other internal package
// (repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemType classifies an itinerary item. The enumeration is closed: values
// outside this set are rejected at the engine boundary.
type ItemType string

const (
	ItemActivity  ItemType = "activity"
	ItemHotel     ItemType = "hotel"
	ItemFlight    ItemType = "flight"
	ItemTransport ItemType = "transport"
)

// Valid reports whether t is one of the four known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemActivity, ItemHotel, ItemFlight, ItemTransport:
		return true
	}
	return false
}

// Item is a single bookable or plannable unit within a Day.
// StartTime and EndTime are free-form time-of-day text ("14:00", "after
// lunch") and are deliberately not validated as structured times.
// Booked is meaningful for flights and hotels but stored uniformly.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Type        ItemType  `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Cost        float64   `json:"cost,omitempty"`
	Booked      bool      `json:"booked"`
}

// Day is one calendar day of a trip's itinerary. DayNumber is the 1-based
// position assigned at trip creation from the date range; days are never
// added, removed, or renumbered afterwards. Item order is semantically
// meaningful (timeline display and drag-reorder).
type Day struct {
	ID        uuid.UUID `json:"id"`
	DayNumber int       `json:"day_number"`
	Date      time.Time `json:"date"`
	Items     []Item    `json:"items"`
}

// Trip is the aggregate root representing one planned journey. It owns its
// days, items, and expenses exclusively: deleting a trip destroys all of
// them, and no child is ever shared across trips.
//
// SharedWith is the set of user IDs granted participant access. It never
// contains the owner, and a given user appears at most once.
//
// Version is the optimistic concurrency counter maintained by the trip
// store. Every successful full-aggregate save increments it; a save against
// a stale version fails with ErrConflict.
type Trip struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	SharedWith  []uuid.UUID `json:"shared_with"`
	Destination string      `json:"destination"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Notes       string      `json:"notes,omitempty"`
	Itinerary   []Day       `json:"itinerary"`
	Expenses    []Expense   `json:"expenses"`
	Version     int64       `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the trip's owner.
func (t *Trip) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}

// IsSharedWith reports whether userID is a shared participant on the trip.
func (t *Trip) IsSharedWith(userID uuid.UUID) bool {
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether userID may read the trip (owner or participant).
func (t *Trip) VisibleTo(userID uuid.UUID) bool {
	return t.IsOwnedBy(userID) || t.IsSharedWith(userID)
}

// Share grants userID participant access.
// Returns ErrValidation when userID is the owner (the owner is never a
// participant) and ErrAlreadyExists when the trip is already shared with
// that user.
func (t *Trip) Share(userID uuid.UUID) error {
	if t.IsOwnedBy(userID) {
		return fmt.Errorf("%w: trip cannot be shared with its owner", ErrValidation)
	}
	if t.IsSharedWith(userID) {
		return fmt.Errorf("%w: trip is already shared with this user", ErrAlreadyExists)
	}
	t.SharedWith = append(t.SharedWith, userID)
	return nil
}
