package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eru038/Weather-BGM-Player/internal/db"
)

// CurrentWeather returns the current conditions for the configured city
// (GET /api/weather).
func (h *Handlers) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	current, err := h.weather.Current(r.Context())
	if err != nil {
		h.logger.Error("fetching weather", "err", err)
		writeJSONError(w, http.StatusInternalServerError, "weather_failed")
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// AddWeatherPlaylist records a weather-playlist association
// (POST /api/weather-playlist/add).
func (h *Handlers) AddWeatherPlaylist(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UID     string `json:"uid"`
		Weather string `json:"weather"`
		PID     string `json:"pid"`
		Title   string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if payload.UID == "" || payload.Weather == "" || payload.PID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	inserted, err := h.store.Register(r.Context(), &db.WeatherPlaylist{
		UserID:     payload.UID,
		Weather:    payload.Weather,
		PlaylistID: payload.PID,
		Title:      payload.Title,
	})
	if err != nil {
		h.logger.Error("registering weather playlist", "err", err)
		writeJSONError(w, http.StatusInternalServerError, "store_failed")
		return
	}

	message := "registered"
	if !inserted {
		message = "already registered"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"skipped": !inserted,
		"message": message,
	})
}

// RandomWeatherPlaylist picks one of the user's playlists for a weather
// category (GET /api/weather-playlist/random?uid=&weather=).
func (h *Handlers) RandomWeatherPlaylist(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	weatherName := r.URL.Query().Get("weather")
	if uid == "" || weatherName == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	wp, err := h.store.PickRandom(r.Context(), uid, weatherName)
	if errors.Is(err, db.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	if err != nil {
		h.logger.Error("picking weather playlist", "err", err)
		writeJSONError(w, http.StatusInternalServerError, "store_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"found": true,
		"playlist": map[string]string{
			"playlist_id": wp.PlaylistID,
			"title":       wp.Title,
		},
	})
}
