package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eru038/Weather-BGM-Player/internal/spotify"
)

// forwardProviderError translates an upstream failure: provider 4xx/5xx pass
// through with the provider's body, transport failures become a generic 500.
func (h *Handlers) forwardProviderError(w http.ResponseWriter, op string, err error) {
	var pe *spotify.ProviderError
	if errors.As(err, &pe) {
		writeRawJSON(w, pe.StatusCode, pe.Body)
		return
	}
	h.logger.Error("provider call failed", "op", op, "err", err)
	writeJSONError(w, http.StatusInternalServerError, op+"_failed")
}

// Me proxies the user profile (GET /me).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	body, err := h.music.Me(r.Context(), accessTokenFrom(r.Context()))
	if err != nil {
		h.forwardProviderError(w, "me", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// Devices proxies the playback device list (GET /devices).
func (h *Handlers) Devices(w http.ResponseWriter, r *http.Request) {
	body, err := h.music.Devices(r.Context(), accessTokenFrom(r.Context()))
	if err != nil {
		h.forwardProviderError(w, "devices", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// Transfer moves playback to a device (PUT /transfer {device_id}).
func (h *Handlers) Transfer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DeviceID string `json:"device_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.DeviceID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing device_id")
		return
	}

	if err := h.music.Transfer(r.Context(), accessTokenFrom(r.Context()), payload.DeviceID); err != nil {
		h.forwardProviderError(w, "transfer", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Play forwards a playback request verbatim (PUT /play).
func (h *Handlers) Play(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "unreadable_body")
		return
	}

	if err := h.music.Play(r.Context(), accessTokenFrom(r.Context()), body); err != nil {
		h.forwardProviderError(w, "play", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Playlists lists the user's playlists, projected (GET /playlists).
func (h *Handlers) Playlists(w http.ResponseWriter, r *http.Request) {
	items, err := h.music.Playlists(r.Context(), accessTokenFrom(r.Context()))
	if err != nil {
		h.forwardProviderError(w, "playlists", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]spotify.Playlist{"items": items})
}

// PlaylistTracks lists a playlist's tracks, projected
// (GET /playlist/{id}/tracks?limit=).
func (h *Handlers) PlaylistTracks(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.music.PlaylistTracks(r.Context(), accessTokenFrom(r.Context()), playlistID, limit)
	if err != nil {
		h.forwardProviderError(w, "playlist_tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]spotify.Track{"items": items})
}
