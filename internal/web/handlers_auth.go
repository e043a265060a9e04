package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/eru038/Weather-BGM-Player/internal/auth"
	"github.com/eru038/Weather-BGM-Player/internal/db"
)

const stateCookieName = "oauth_state"

// ctxKey is the private type for request context keys.
type ctxKey int

const accessTokenKey ctxKey = iota

// accessTokenFrom returns the resolved access token stored by withAccessToken.
func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// Login initiates the Spotify OAuth flow (GET /login?from=<page>).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	nonce, state := auth.EncodeState(r.URL.Query().Get("from"))

	// The nonce round-trips through a short-lived cookie for CSRF
	// validation on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    nonce,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the OAuth flow (GET /callback?code=&state=).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errMsg := query.Get("error"); errMsg != "" {
		h.logger.Warn("authorization denied", "err", errMsg)
		writeJSONError(w, http.StatusBadRequest, "authorization_denied")
		return
	}

	code := query.Get("code")
	if code == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_code")
		return
	}

	nonce, from := auth.DecodeState(query.Get("state"))
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || nonce == "" || stateCookie.Value != nonce {
		writeJSONError(w, http.StatusBadRequest, "state_mismatch")
		return
	}

	// Clear the state cookie; it has served its purpose.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	token, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("code exchange failed", "err", err)
		writeJSONError(w, http.StatusInternalServerError, "auth_exchange_failed")
		return
	}

	h.sessions.Write(w, token.AccessToken, token.ExpiresIn, token.RefreshToken)

	// Best effort: record who logged in. A profile hiccup must not break
	// the login flow.
	if profile, err := h.music.Profile(r.Context(), token.AccessToken); err != nil {
		h.logger.Warn("fetching profile after login", "err", err)
	} else if err := h.users.Upsert(r.Context(), &db.User{ID: profile.ID, Name: profile.DisplayName}); err != nil {
		h.logger.Warn("upserting user", "err", err)
	}

	http.Redirect(w, r, h.frontendURI+"?from="+url.QueryEscape(from), http.StatusFound)
}

// Token returns a usable access token for the page's Web Playback SDK
// (GET /token), refreshing silently when only the refresh cookie survives.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.FromRequest(r)

	if sess.AccessToken != "" {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": sess.AccessToken})
		return
	}
	if sess.RefreshToken == "" {
		writeJSONError(w, http.StatusUnauthorized, "not_logged_in")
		return
	}

	accessToken, refreshed, err := h.auth.Resolve(r.Context(), sess)
	if err != nil {
		h.logger.Warn("token refresh failed", "err", err)
		writeJSONError(w, http.StatusUnauthorized, "refresh_failed")
		return
	}
	if refreshed != nil {
		h.sessions.Write(w, refreshed.AccessToken, refreshed.ExpiresIn, refreshed.RefreshToken)
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

// LogoutRedirect clears the session and sends the browser home (GET /logout).
func (h *Handlers) LogoutRedirect(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, h.frontendURI, http.StatusFound)
}

// LogoutJSON clears the session for script callers (POST /logout).
func (h *Handlers) LogoutJSON(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// withAccessToken resolves a valid access token before a proxy handler runs,
// refreshing silently when needed. Without a usable session the request ends
// here with a 401.
func (h *Handlers) withAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := h.sessions.FromRequest(r)

		accessToken, refreshed, err := h.auth.Resolve(r.Context(), sess)
		switch {
		case errors.Is(err, auth.ErrNotLoggedIn):
			writeJSONError(w, http.StatusUnauthorized, "not_logged_in")
			return
		case err != nil:
			h.logger.Warn("silent refresh failed", "err", err)
			writeJSONError(w, http.StatusUnauthorized, "auth_failed")
			return
		}

		if refreshed != nil {
			// Rotate the access cookie; last writer wins across
			// concurrent requests, every issued token is valid.
			h.sessions.Write(w, refreshed.AccessToken, refreshed.ExpiresIn, refreshed.RefreshToken)
		}

		ctx := context.WithValue(r.Context(), accessTokenKey, accessToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
