package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eru038/Weather-BGM-Player/internal/auth"
	"github.com/eru038/Weather-BGM-Player/internal/spotify"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/login?from=settings", nil)
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, env.auth.authURL) {
		t.Errorf("Location = %q, want prefix %q", location, env.auth.authURL)
	}
	if !strings.Contains(location, "settings") {
		t.Errorf("Location %q should carry the from page", location)
	}

	state := responseCookie(t, rec.Result().Cookies(), stateCookieName)
	if state.Value == "" {
		t.Error("state cookie is empty")
	}
	if !strings.Contains(location, state.Value) {
		t.Errorf("Location %q should embed the state nonce %q", location, state.Value)
	}
}

func TestCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.exchangeTok = &auth.Token{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    3600,
		}
		env.music.profile = &spotify.Profile{ID: "user-1", DisplayName: "User One"}

		req := httptest.NewRequest(http.MethodGet, "/callback?code=code-1&state=nonce-1:settings", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "nonce-1"})
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusFound, rec.Body)
		}
		if got := rec.Header().Get("Location"); got != "http://127.0.0.1:3000/?from=settings" {
			t.Errorf("Location = %q", got)
		}
		if env.auth.exchangedCode != "code-1" {
			t.Errorf("exchanged code = %q, want code-1", env.auth.exchangedCode)
		}

		cookies := rec.Result().Cookies()
		if c := responseCookie(t, cookies, "access_token"); c.Value != "access-1" {
			t.Errorf("access cookie = %q", c.Value)
		}
		if c := responseCookie(t, cookies, "refresh_token"); c.Value != "refresh-1" {
			t.Errorf("refresh cookie = %q", c.Value)
		}

		if env.users.upserted == nil || env.users.upserted.ID != "user-1" {
			t.Errorf("upserted user = %+v, want ID user-1", env.users.upserted)
		}
	})

	t.Run("profile failure does not break login", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.exchangeTok = &auth.Token{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}
		env.music.profileErr = errors.New("spotify down")

		req := httptest.NewRequest(http.MethodGet, "/callback?code=c&state=n:home", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "n"})
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
		}
	})

	t.Run("failures", func(t *testing.T) {
		tests := []struct {
			name        string
			target      string
			stateCookie string
			exchangeErr error
			wantStatus  int
			wantTag     string
		}{
			{
				name:       "authorization denied",
				target:     "/callback?error=access_denied",
				wantStatus: http.StatusBadRequest,
				wantTag:    "authorization_denied",
			},
			{
				name:       "missing code",
				target:     "/callback?state=n:home",
				wantStatus: http.StatusBadRequest,
				wantTag:    "missing_code",
			},
			{
				name:        "state mismatch",
				target:      "/callback?code=c&state=other:home",
				stateCookie: "n",
				wantStatus:  http.StatusBadRequest,
				wantTag:     "state_mismatch",
			},
			{
				name:       "missing state cookie",
				target:     "/callback?code=c&state=n:home",
				wantStatus: http.StatusBadRequest,
				wantTag:    "state_mismatch",
			},
			{
				name:        "exchange failure",
				target:      "/callback?code=c&state=n:home",
				stateCookie: "n",
				exchangeErr: errors.New("boom"),
				wantStatus:  http.StatusInternalServerError,
				wantTag:     "auth_exchange_failed",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env := newTestEnv(t)
				env.auth.exchangeErr = tt.exchangeErr

				req := httptest.NewRequest(http.MethodGet, tt.target, nil)
				if tt.stateCookie != "" {
					req.AddCookie(&http.Cookie{Name: stateCookieName, Value: tt.stateCookie})
				}
				rec := httptest.NewRecorder()
				env.server.Router().ServeHTTP(rec, req)

				if rec.Code != tt.wantStatus {
					t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
				}
				if got := decodeBody(t, rec.Body)["error"]; got != tt.wantTag {
					t.Errorf("error = %v, want %q", got, tt.wantTag)
				}
			})
		}
	})
}

func TestToken(t *testing.T) {
	t.Run("live access token", func(t *testing.T) {
		env := newTestEnv(t)

		req := withSession(httptest.NewRequest(http.MethodGet, "/token", nil), "live-token", "")
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got := decodeBody(t, rec.Body)["access_token"]; got != "live-token" {
			t.Errorf("access_token = %v, want live-token", got)
		}
	})

	t.Run("silent refresh rotates the cookie", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.resolveTok = "fresh-token"
		env.auth.refreshedTok = &auth.Token{AccessToken: "fresh-token", ExpiresIn: 3600}

		req := withSession(httptest.NewRequest(http.MethodGet, "/token", nil), "", "refresh-1")
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got := decodeBody(t, rec.Body)["access_token"]; got != "fresh-token" {
			t.Errorf("access_token = %v, want fresh-token", got)
		}
		if c := responseCookie(t, rec.Result().Cookies(), "access_token"); c.Value != "fresh-token" {
			t.Errorf("access cookie = %q, want fresh-token", c.Value)
		}
	})

	t.Run("no session", func(t *testing.T) {
		env := newTestEnv(t)

		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, rec.Body)["error"]; got != "not_logged_in" {
			t.Errorf("error = %v, want not_logged_in", got)
		}
	})

	t.Run("refresh rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.resolveErr = auth.ErrRefreshFailed

		req := withSession(httptest.NewRequest(http.MethodGet, "/token", nil), "", "revoked")
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if got := decodeBody(t, rec.Body)["error"]; got != "refresh_failed" {
			t.Errorf("error = %v, want refresh_failed", got)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("redirect", func(t *testing.T) {
		env := newTestEnv(t)

		req := withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), "a", "r")
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
		}
		for _, name := range []string{"access_token", "refresh_token"} {
			if c := responseCookie(t, rec.Result().Cookies(), name); c.MaxAge != -1 {
				t.Errorf("%s MaxAge = %d, want -1", name, c.MaxAge)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		env := newTestEnv(t)

		req := withSession(httptest.NewRequest(http.MethodPost, "/logout", nil), "a", "r")
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got := decodeBody(t, rec.Body)["ok"]; got != true {
			t.Errorf("ok = %v, want true", got)
		}
	})
}
