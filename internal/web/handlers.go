package web

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// Handlers contains the HTTP handlers for the web application.
type Handlers struct {
	auth        TokenResolver
	music       MusicClient
	sessions    SessionStore
	store       AssociationStore
	users       UserStore
	weather     WeatherService
	tables      TableLister
	templates   *Templates
	frontendURI string
	logger      *log.Logger
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes the standard {error: tag} payload.
func writeJSONError(w http.ResponseWriter, status int, tag string) {
	writeJSON(w, status, map[string]string{"error": tag})
}

// writeRawJSON forwards an upstream JSON body unchanged.
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Home renders the player page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		PageData: PageData{
			Title:       "Weather BGM Player",
			CurrentPath: r.URL.Path,
		},
		Authenticated: !h.sessions.FromRequest(r).Anonymous(),
		From:          r.URL.Query().Get("from"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		h.logger.Error("rendering home", "err", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// Ping is the health check (GET /ping).
func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DBView lists the public database tables (GET /db-view).
func (h *Handlers) DBView(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		h.logger.Error("listing tables", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "tables": tables})
}
