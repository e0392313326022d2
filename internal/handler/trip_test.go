package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmichel/itinera/internal/domain"
	"github.com/pmichel/itinera/internal/service"
)

func sampleTrip(ownerID uuid.UUID) domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	dayID := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	return domain.Trip{
		ID:          uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"),
		OwnerID:     ownerID,
		SharedWith:  []uuid.UUID{},
		Destination: "Lisbon",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		Itinerary: []domain.Day{
			{ID: dayID, DayNumber: 1, Date: start, Items: []domain.Item{}},
		},
		Expenses: []domain.Expense{},
	}
}

func TestCreateTrip_Returns201(t *testing.T) {
	userID := uuid.New()
	trips := &mockTripServicer{
		create: func(_ context.Context, in service.CreateTripInput) (domain.Trip, error) {
			assert.Equal(t, userID, in.OwnerID, "owner comes from the token, not the body")
			assert.Equal(t, "Lisbon", in.Destination)
			assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), in.StartDate)
			return sampleTrip(userID), nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	body := `{"destination":"Lisbon","start_date":"2025-06-01","end_date":"2025-06-03"}`
	resp, raw := doRequest(t, ts, http.MethodPost, "/trips", tokenFor(t, userID, domain.RoleUser), strings.NewReader(body))

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, "Lisbon", got["destination"])
	assert.Equal(t, "2025-06-01", got["start_date"], "dates render as YYYY-MM-DD")
}

func TestCreateTrip_ValidationErrorReturns422(t *testing.T) {
	trips := &mockTripServicer{
		create: func(_ context.Context, _ service.CreateTripInput) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: destination is required", domain.ErrValidation)
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	body := `{"destination":"","start_date":"2025-06-01","end_date":"2025-06-03"}`
	resp, raw := doRequest(t, ts, http.MethodPost, "/trips", tokenFor(t, uuid.New(), domain.RoleUser), strings.NewReader(body))

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"code":"validation_error","message":"destination is required"}}`, raw)
}

func TestTrips_RequireAuthentication(t *testing.T) {
	ts := newTestServer(t, deps{})

	resp, _ := doRequest(t, ts, http.MethodGet, "/trips", "", nil)

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListTrips_WrapsDataEnvelope(t *testing.T) {
	userID := uuid.New()
	trips := &mockTripServicer{
		list: func(_ context.Context, callerID uuid.UUID) ([]domain.Trip, error) {
			assert.Equal(t, userID, callerID)
			return []domain.Trip{sampleTrip(userID)}, nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	resp, raw := doRequest(t, ts, http.MethodGet, "/trips", tokenFor(t, userID, domain.RoleUser), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Len(t, got.Data, 1)
}

func TestGetTrip_NotFoundReturns404(t *testing.T) {
	trips := &mockTripServicer{
		get: func(_ context.Context, _, _ uuid.UUID) (domain.TripView, error) {
			return domain.TripView{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	resp, raw := doRequest(t, ts, http.MethodGet, "/trips/"+uuid.NewString(), tokenFor(t, uuid.New(), domain.RoleUser), nil)

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, raw, `"code":"not_found"`)
}

func TestGetTrip_IncludesParticipants(t *testing.T) {
	userID := uuid.New()
	buddy := domain.Participant{ID: uuid.New(), Email: "buddy@example.com"}
	trips := &mockTripServicer{
		get: func(_ context.Context, _, _ uuid.UUID) (domain.TripView, error) {
			return domain.TripView{Trip: sampleTrip(userID), Participants: []domain.Participant{buddy}}, nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	resp, raw := doRequest(t, ts, http.MethodGet, "/trips/"+uuid.NewString(), tokenFor(t, userID, domain.RoleUser), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, raw, "buddy@example.com")
}

func TestGetTrip_InvalidIDReturns422(t *testing.T) {
	ts := newTestServer(t, deps{})

	resp, _ := doRequest(t, ts, http.MethodGet, "/trips/not-a-uuid", tokenFor(t, uuid.New(), domain.RoleUser), nil)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteTrip_Returns204(t *testing.T) {
	trips := &mockTripServicer{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
	ts := newTestServer(t, deps{trips: trips})

	resp, _ := doRequest(t, ts, http.MethodDelete, "/trips/"+uuid.NewString(), tokenFor(t, uuid.New(), domain.RoleUser), nil)

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAddItem_ForbiddenReturns403(t *testing.T) {
	trips := &mockTripServicer{
		addItem: func(_ context.Context, _, _, _ uuid.UUID, _ domain.Item) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.AddItem: %w: only the trip owner may do this", domain.ErrForbidden)
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/days/" + uuid.NewString() + "/items"
	body := `{"type":"activity","title":"Museum"}`
	resp, raw := doRequest(t, ts, http.MethodPost, path, tokenFor(t, uuid.New(), domain.RoleUser), strings.NewReader(body))

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"code":"forbidden","message":"only the trip owner may do this"}}`, raw)
}

func TestAddItem_PassesDecodedItem(t *testing.T) {
	userID := uuid.New()
	trips := &mockTripServicer{
		addItem: func(_ context.Context, callerID, _, _ uuid.UUID, item domain.Item) (domain.Trip, error) {
			assert.Equal(t, userID, callerID)
			assert.Equal(t, domain.ItemHotel, item.Type)
			assert.Equal(t, "Hotel check-in", item.Title)
			return sampleTrip(userID), nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/days/" + uuid.NewString() + "/items"
	body := `{"type":"hotel","title":"Hotel check-in","start_time":"14:00"}`
	resp, _ := doRequest(t, ts, http.MethodPost, path, tokenFor(t, userID, domain.RoleUser), strings.NewReader(body))

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestToggleBooked_VersionConflictReturns409(t *testing.T) {
	trips := &mockTripServicer{
		toggleBooked: func(_ context.Context, _, _, _, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.ToggleBooked: %w", domain.ErrConflict)
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/days/" + uuid.NewString() + "/items/" + uuid.NewString() + "/booked"
	resp, raw := doRequest(t, ts, http.MethodPatch, path, tokenFor(t, uuid.New(), domain.RoleUser), nil)

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, raw, `"code":"conflict"`)
}

func TestReorderDay_PassesItemIDs(t *testing.T) {
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()
	trips := &mockTripServicer{
		reorderDay: func(_ context.Context, _, _, _ uuid.UUID, itemIDs []uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, []uuid.UUID{second, first}, itemIDs)
			return sampleTrip(userID), nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/days/" + uuid.NewString() + "/items/order"
	body := fmt.Sprintf(`{"item_ids":["%s","%s"]}`, second, first)
	resp, _ := doRequest(t, ts, http.MethodPut, path, tokenFor(t, userID, domain.RoleUser), strings.NewReader(body))

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShareTrip_DuplicateReturns409(t *testing.T) {
	trips := &mockTripServicer{
		share: func(_ context.Context, _, _ uuid.UUID, _ string) (domain.TripView, error) {
			return domain.TripView{}, fmt.Errorf("service.TripService.Share: %w: trip is already shared with this user", domain.ErrAlreadyExists)
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/share"
	resp, raw := doRequest(t, ts, http.MethodPost, path, tokenFor(t, uuid.New(), domain.RoleUser), strings.NewReader(`{"email":"buddy@example.com"}`))

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, raw, `"code":"already_exists"`)
}

func TestShareTrip_MissingEmailReturns422(t *testing.T) {
	ts := newTestServer(t, deps{})

	path := "/trips/" + uuid.NewString() + "/share"
	resp, _ := doRequest(t, ts, http.MethodPost, path, tokenFor(t, uuid.New(), domain.RoleUser), strings.NewReader(`{}`))

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddExpense_Returns201(t *testing.T) {
	userID := uuid.New()
	trips := &mockTripServicer{
		addExpense: func(_ context.Context, _, _ uuid.UUID, expense domain.Expense) (domain.Trip, error) {
			assert.Equal(t, "tacos", expense.Description)
			assert.Equal(t, 12.5, expense.Amount)
			assert.Equal(t, domain.CategoryFood, expense.Category)
			return sampleTrip(userID), nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/expenses"
	body := `{"description":"tacos","amount":12.5,"category":"food"}`
	resp, _ := doRequest(t, ts, http.MethodPost, path, tokenFor(t, userID, domain.RoleUser), strings.NewReader(body))

	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestExpenseSummary_IncludesBreakdown(t *testing.T) {
	trips := &mockTripServicer{
		expenseSummary: func(_ context.Context, _, _ uuid.UUID) (domain.ExpenseSummary, error) {
			return domain.ExpenseSummary{
				Total: 35,
				ByCategory: map[domain.ExpenseCategory]float64{
					domain.CategoryFood:      15,
					domain.CategoryTransport: 20,
				},
			}, nil
		},
	}
	ts := newTestServer(t, deps{trips: trips})

	path := "/trips/" + uuid.NewString() + "/expenses/summary"
	resp, raw := doRequest(t, ts, http.MethodGet, path, tokenFor(t, uuid.New(), domain.RoleUser), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"total": 35,
		"by_category": {"food": 15, "transport": 20},
		"breakdown": [
			{"category": "food", "amount": 15},
			{"category": "transport", "amount": 20}
		]
	}`, raw)
}
