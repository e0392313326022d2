package handler

import "net/http"

// handleWeather handles GET /weather?city=Lisbon.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	forecast, err := s.weather.Forecast(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}
