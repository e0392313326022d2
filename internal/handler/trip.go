package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/service"
)

// createTripRequest is the POST /trips body. Itinerary is optional: when
// omitted, one empty day is generated per calendar day of the date range.
type createTripRequest struct {
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Notes       string             `json:"notes,omitempty"`
	Itinerary   []domain.Day       `json:"itinerary,omitempty"`
}

type shareTripRequest struct {
	Email string `json:"email"`
}

type reorderDayRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

// tripResponse is the wire shape of a trip. Calendar dates are rendered as
// plain YYYY-MM-DD, not RFC3339 timestamps.
type tripResponse struct {
	ID          uuid.UUID          `json:"id"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	SharedWith  []uuid.UUID        `json:"shared_with"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Notes       string             `json:"notes,omitempty"`
	Itinerary   []domain.Day       `json:"itinerary"`
	Expenses    []domain.Expense   `json:"expenses"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// tripViewResponse is a trip with resolved participant identities, returned
// by single-trip reads and by sharing.
type tripViewResponse struct {
	tripResponse
	Participants []domain.Participant `json:"participants"`
}

type expenseSummaryResponse struct {
	Total      float64                            `json:"total"`
	ByCategory map[domain.ExpenseCategory]float64 `json:"by_category"`
	Breakdown  []domain.CategoryAmount            `json:"breakdown"`
}

// handleCreateTrip handles POST /trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), service.CreateTripInput{
		OwnerID:     c.ID,
		Destination: req.Destination,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		Notes:       req.Notes,
		Itinerary:   req.Itinerary,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// handleListTrips handles GET /trips. The list covers trips the caller owns
// or participates in, ordered by start date.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	trips, err := s.trips.List(r.Context(), c.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// handleGetTrip handles GET /trips/{tripID}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}

	view, err := s.trips.Get(r.Context(), c.ID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// handleDeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}

	if err := s.trips.Delete(r.Context(), c.ID, tripID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleShareTrip handles POST /trips/{tripID}/share.
func (s *Server) handleShareTrip(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}

	var req shareTripRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}
	if req.Email == "" {
		requestError(w, "email is required")
		return
	}

	view, err := s.trips.Share(r.Context(), c.ID, tripID, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// handleAddItem handles POST /trips/{tripID}/days/{dayID}/items.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}
	dayID, err := pathID(r, "dayID")
	if err != nil {
		requestError(w, "invalid day id")
		return
	}

	var item domain.Item
	if err := decodeJSON(r, &item); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	trip, err := s.trips.AddItem(r.Context(), c.ID, tripID, dayID, item)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// handleRemoveItem handles DELETE /trips/{tripID}/days/{dayID}/items/{itemID}.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, dayID, itemID, ok2 := itemPath(w, r)
	if !ok2 {
		return
	}

	trip, err := s.trips.RemoveItem(r.Context(), c.ID, tripID, dayID, itemID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// handleToggleBooked handles PATCH /trips/{tripID}/days/{dayID}/items/{itemID}/booked.
func (s *Server) handleToggleBooked(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, dayID, itemID, ok2 := itemPath(w, r)
	if !ok2 {
		return
	}

	trip, err := s.trips.ToggleBooked(r.Context(), c.ID, tripID, dayID, itemID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// handleReorderDay handles PUT /trips/{tripID}/days/{dayID}/items/order.
// The body must list every item ID of the day exactly once.
func (s *Server) handleReorderDay(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}
	dayID, err := pathID(r, "dayID")
	if err != nil {
		requestError(w, "invalid day id")
		return
	}

	var req reorderDayRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	trip, err := s.trips.ReorderDay(r.Context(), c.ID, tripID, dayID, req.ItemIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// handleAddExpense handles POST /trips/{tripID}/expenses.
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}

	var expense domain.Expense
	if err := decodeJSON(r, &expense); err != nil {
		requestError(w, "invalid request body: "+err.Error())
		return
	}

	trip, err := s.trips.AddExpense(r.Context(), c.ID, tripID, expense)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// handleRemoveExpense handles DELETE /trips/{tripID}/expenses/{expenseID}.
func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		requestError(w, "invalid expense id")
		return
	}

	trip, err := s.trips.RemoveExpense(r.Context(), c.ID, tripID, expenseID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// handleExpenseSummary handles GET /trips/{tripID}/expenses/summary.
func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		requestError(w, "invalid trip id")
		return
	}

	summary, err := s.trips.ExpenseSummary(r.Context(), c.ID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseSummaryResponse{
		Total:      summary.Total,
		ByCategory: summary.ByCategory,
		Breakdown:  summary.Breakdown(),
	})
}

// --- mapping helpers ---------------------------------------------------------

// itemPath parses the three-level trip/day/item route parameters, writing the
// 422 itself on failure.
func itemPath(w http.ResponseWriter, r *http.Request) (tripID, dayID, itemID uuid.UUID, ok bool) {
	var err error
	if tripID, err = pathID(r, "tripID"); err != nil {
		requestError(w, "invalid trip id")
		return
	}
	if dayID, err = pathID(r, "dayID"); err != nil {
		requestError(w, "invalid day id")
		return
	}
	if itemID, err = pathID(r, "itemID"); err != nil {
		requestError(w, "invalid item id")
		return
	}
	return tripID, dayID, itemID, true
}

// tripToResponse converts a domain.Trip into its wire shape.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		SharedWith:  t.SharedWith,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Notes:       t.Notes,
		Itinerary:   t.Itinerary,
		Expenses:    t.Expenses,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// viewToResponse converts a domain.TripView, keeping participants non-nil so
// the JSON field is always an array.
func viewToResponse(v domain.TripView) tripViewResponse {
	participants := v.Participants
	if participants == nil {
		participants = []domain.Participant{}
	}
	return tripViewResponse{
		tripResponse: tripToResponse(v.Trip),
		Participants: participants,
	}
}
