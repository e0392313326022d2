package handler

import (
	"net/http"

	"github.com/pmichel/itinera/internal/domain"
)

type offersResponse struct {
	Data []domain.Offer `json:"data"`
}

// handleSearchFlights handles GET /search/flights?from=LIS&to=JFK.
func (s *Server) handleSearchFlights(w http.ResponseWriter, r *http.Request) {
	offers, err := s.search.Flights(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offersResponse{Data: offers})
}

// handleSearchHotels handles GET /search/hotels?location=Paris.
func (s *Server) handleSearchHotels(w http.ResponseWriter, r *http.Request) {
	offers, err := s.search.Hotels(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offersResponse{Data: offers})
}
