// Package session stores the Spotify token pair as HTTP-only cookies and
// hides the storage behind a small Store interface so the token lifecycle
// logic never touches cookies directly.
package session

import (
	"net/http"
	"time"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// accessSafetyMargin shortens the access cookie relative to the
	// provider-declared expiry so the cookie dies slightly before Spotify
	// would start rejecting the token.
	accessSafetyMargin = 30 * time.Second

	// refreshTTL is the refresh cookie lifetime. Spotify may revoke the
	// token server-side earlier; that surfaces as a failed refresh.
	refreshTTL = 30 * 24 * time.Hour
)

// Session is the token pair extracted from a request. A zero Session means
// the caller is unauthenticated.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Anonymous reports whether neither token is present.
func (s Session) Anonymous() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Store reads and writes sessions on HTTP requests and responses.
type Store interface {
	// FromRequest extracts the session from request cookies. An expired or
	// absent cookie simply yields an empty field.
	FromRequest(r *http.Request) Session

	// Write sets the access-token cookie for expiresIn seconds (minus the
	// safety margin, floored at one second). A non-empty refresh token also
	// sets the long-lived refresh cookie; an empty one leaves the existing
	// refresh cookie untouched, which is what a silent refresh needs.
	Write(w http.ResponseWriter, accessToken string, expiresIn int, refreshToken string)

	// Clear deletes both cookies. Idempotent.
	Clear(w http.ResponseWriter)
}

// CookieStore is the production Store: two HTTP-only SameSite=Lax cookies.
type CookieStore struct {
	// Secure marks cookies as HTTPS-only. Off for local development,
	// matching the plain-HTTP loopback redirect URI Spotify requires there.
	Secure bool
}

// NewCookieStore creates a CookieStore.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{Secure: secure}
}

// FromRequest extracts the token pair from the request cookies.
func (cs *CookieStore) FromRequest(r *http.Request) Session {
	var s Session
	if c, err := r.Cookie(accessCookieName); err == nil {
		s.AccessToken = c.Value
	}
	if c, err := r.Cookie(refreshCookieName); err == nil {
		s.RefreshToken = c.Value
	}
	return s
}

// Write sets the auth cookies on the response.
func (cs *CookieStore) Write(w http.ResponseWriter, accessToken string, expiresIn int, refreshToken string) {
	maxAge := expiresIn - int(accessSafetyMargin.Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   cs.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})

	if refreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshCookieName,
			Value:    refreshToken,
			Path:     "/",
			HttpOnly: true,
			Secure:   cs.Secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(refreshTTL.Seconds()),
		})
	}
}

// Clear deletes both cookies.
func (cs *CookieStore) Clear(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}

var _ Store = (*CookieStore)(nil)
