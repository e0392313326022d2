package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewItinerary builds the day sequence for a trip covering [start, end]
// inclusive: one empty Day per calendar day, numbered from 1, each dated
// start plus its offset. Returns ErrValidation when end is before start.
//
// Times-of-day on the inputs are ignored; only the calendar date matters.
func NewItinerary(start, end time.Time) ([]Day, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}

	dayCount := int(end.Sub(start).Hours()/24) + 1
	days := make([]Day, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		days = append(days, Day{
			ID:        uuid.New(),
			DayNumber: i + 1,
			Date:      start.AddDate(0, 0, i),
			Items:     []Item{},
		})
	}
	return days, nil
}

// NormalizeItinerary assigns fresh IDs to any caller-supplied days or items
// that arrived without one, and replaces nil item slices with empty ones.
// Day numbering and ordering are taken as given: a caller supplying its own
// itinerary is trusted to provide well-formed day structures.
func NormalizeItinerary(days []Day) []Day {
	for i := range days {
		if days[i].ID == uuid.Nil {
			days[i].ID = uuid.New()
		}
		if days[i].Items == nil {
			days[i].Items = []Item{}
		}
		for j := range days[i].Items {
			if days[i].Items[j].ID == uuid.Nil {
				days[i].Items[j].ID = uuid.New()
			}
		}
	}
	return days
}

// AddItem appends a new item to the day identified by dayID, assigning it a
// fresh ID. Insertion order is caller-determined: items are never sorted by
// time, even when visually out of chronological order.
// Returns ErrNotFound when the day is absent and ErrValidation when the item
// type is unknown or the title is blank.
func (t *Trip) AddItem(dayID uuid.UUID, item Item) (Item, error) {
	if !item.Type.Valid() {
		return Item{}, fmt.Errorf("%w: item type must be one of activity, hotel, flight, transport", ErrValidation)
	}
	if strings.TrimSpace(item.Title) == "" {
		return Item{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	day := t.day(dayID)
	if day == nil {
		return Item{}, fmt.Errorf("add item: day: %w", ErrNotFound)
	}

	item.ID = uuid.New()
	item.Booked = false
	day.Items = append(day.Items, item)
	return item, nil
}

// RemoveItem deletes exactly the item identified by itemID from the day
// identified by dayID, preserving the order of the remaining items.
// Returns ErrNotFound when either the day or the item is absent.
func (t *Trip) RemoveItem(dayID, itemID uuid.UUID) error {
	day := t.day(dayID)
	if day == nil {
		return fmt.Errorf("remove item: day: %w", ErrNotFound)
	}
	for i := range day.Items {
		if day.Items[i].ID == itemID {
			day.Items = append(day.Items[:i], day.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove item: item: %w", ErrNotFound)
}

// ToggleBooked flips the booked flag of the item identified by dayID/itemID
// and returns the new value. The toggle is symmetric, not a one-way confirm:
// applying it twice restores the original state.
// Returns ErrNotFound when either the day or the item is absent.
func (t *Trip) ToggleBooked(dayID, itemID uuid.UUID) (bool, error) {
	day := t.day(dayID)
	if day == nil {
		return false, fmt.Errorf("toggle booked: day: %w", ErrNotFound)
	}
	for i := range day.Items {
		if day.Items[i].ID == itemID {
			day.Items[i].Booked = !day.Items[i].Booked
			return day.Items[i].Booked, nil
		}
	}
	return false, fmt.Errorf("toggle booked: item: %w", ErrNotFound)
}

// ReorderDay rearranges the items of the day identified by dayID into the
// order given by itemIDs. The new order must be an exact permutation of the
// day's current item IDs — same count, same identities — so a reorder can
// never inject, drop, or duplicate items. Item data is never resent by the
// caller; items keep their identity and fields and only change position.
// Returns ErrNotFound when the day is absent and ErrValidation when itemIDs
// is not a permutation of the existing items.
func (t *Trip) ReorderDay(dayID uuid.UUID, itemIDs []uuid.UUID) error {
	day := t.day(dayID)
	if day == nil {
		return fmt.Errorf("reorder day: day: %w", ErrNotFound)
	}
	if len(itemIDs) != len(day.Items) {
		return fmt.Errorf("%w: reorder must list each of the day's %d items exactly once", ErrValidation, len(day.Items))
	}

	byID := make(map[uuid.UUID]Item, len(day.Items))
	for _, item := range day.Items {
		byID[item.ID] = item
	}

	reordered := make([]Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or duplicate item id %s in reorder", ErrValidation, id)
		}
		delete(byID, id)
		reordered = append(reordered, item)
	}

	day.Items = reordered
	return nil
}

// day returns a pointer to the day with the given ID, or nil when absent.
// Days are located by stable ID, never by slice position, so removals and
// reorders elsewhere in the aggregate cannot perturb identity.
func (t *Trip) day(dayID uuid.UUID) *Day {
	for i := range t.Itinerary {
		if t.Itinerary[i].ID == dayID {
			return &t.Itinerary[i]
		}
	}
	return nil
}

// truncateToDay strips the time-of-day portion, keeping the calendar date in UTC.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
