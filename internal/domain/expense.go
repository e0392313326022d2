package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory classifies a trip expense. The enumeration is closed.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryActivity      ExpenseCategory = "activity"
	CategoryOther         ExpenseCategory = "other"
)

// CategoryOrder is the canonical rendering order for expense categories,
// used for deterministic breakdowns (the frontend pie chart draws arcs in
// this order).
var CategoryOrder = []ExpenseCategory{
	CategoryFood,
	CategoryTransport,
	CategoryAccommodation,
	CategoryActivity,
	CategoryOther,
}

// Valid reports whether c is one of the five known categories.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryAccommodation, CategoryActivity, CategoryOther:
		return true
	}
	return false
}

// Expense is a flat, trip-level financial record independent of the day
// structure. Amount is stored as given: sign and range are deliberately not
// validated. Insertion order is meaningful for chronological display.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Date        time.Time       `json:"date"`
}

// AddExpense appends a new expense with a fresh ID to the trip's expense
// list and returns it. An empty category defaults to "other"; an unknown
// category fails with ErrValidation. A zero date defaults to now.
func (t *Trip) AddExpense(e Expense, now time.Time) (Expense, error) {
	if strings.TrimSpace(e.Description) == "" {
		return Expense{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if !e.Category.Valid() {
		return Expense{}, fmt.Errorf("%w: category must be one of food, transport, accommodation, activity, other", ErrValidation)
	}
	if e.Date.IsZero() {
		e.Date = now
	}

	e.ID = uuid.New()
	t.Expenses = append(t.Expenses, e)
	return e, nil
}

// RemoveExpense deletes the expense identified by expenseID, preserving the
// order of the remaining expenses. Returns ErrNotFound when absent.
func (t *Trip) RemoveExpense(expenseID uuid.UUID) error {
	for i := range t.Expenses {
		if t.Expenses[i].ID == expenseID {
			t.Expenses = append(t.Expenses[:i], t.Expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove expense: %w", ErrNotFound)
}

// ExpenseSummary is the read-side aggregation of a trip's expenses.
// ByCategory holds only categories with at least one expense present.
type ExpenseSummary struct {
	Total      float64                     `json:"total"`
	ByCategory map[ExpenseCategory]float64 `json:"by_category"`
}

// CategoryAmount is one slice of an expense breakdown.
type CategoryAmount struct {
	Category ExpenseCategory `json:"category"`
	Amount   float64         `json:"amount"`
}

// ExpenseSummary sums the trip's expenses overall and per category.
func (t *Trip) ExpenseSummary() ExpenseSummary {
	s := ExpenseSummary{ByCategory: make(map[ExpenseCategory]float64)}
	for _, e := range t.Expenses {
		s.Total += e.Amount
		s.ByCategory[e.Category] += e.Amount
	}
	return s
}

// Breakdown returns the per-category totals in canonical category order,
// skipping categories with no expenses.
func (s ExpenseSummary) Breakdown() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(s.ByCategory))
	for _, c := range CategoryOrder {
		if amount, ok := s.ByCategory[c]; ok {
			out = append(out, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return out
}
