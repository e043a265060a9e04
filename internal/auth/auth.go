// Package auth owns the Spotify OAuth token lifecycle: building the
// authorization URL, exchanging the authorization code, and silently
// refreshing access tokens from the session's refresh token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/eru038/Weather-BGM-Player/internal/session"
)

// defaultExpiresIn is assumed when the provider response carries no usable
// expiry. Spotify access tokens live one hour.
const defaultExpiresIn = 3600

// Sentinel errors for the session states a caller must distinguish.
var (
	// ErrNotLoggedIn means the session holds no token at all; no network
	// call was attempted.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrRefreshFailed means the refresh grant was rejected; the user has
	// to restart the login flow.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// Token is an issued token pair. RefreshToken is empty on a silent refresh,
// signaling that the existing refresh cookie stays as-is.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Config holds the Spotify application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Authenticator performs the OAuth flows against Spotify's account service.
type Authenticator struct {
	cfg *oauth2.Config
}

// New creates an Authenticator with the fixed scope set the player needs:
// profile, streaming, playback control and playlist access.
func New(cfg Config) *Authenticator {
	return &Authenticator{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes: []string{
				spotifyauth.ScopeUserReadEmail,
				spotifyauth.ScopeUserReadPrivate,
				spotifyauth.ScopeStreaming,
				spotifyauth.ScopeUserModifyPlaybackState,
				spotifyauth.ScopeUserReadPlaybackState,
				spotifyauth.ScopePlaylistReadPrivate,
				spotifyauth.ScopePlaylistModifyPrivate,
				spotifyauth.ScopePlaylistModifyPublic,
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
	}
}

// AuthCodeURL builds the provider authorization URL for the given state.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token pair.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return fromOAuth2(tok), nil
}

// Refresh obtains a fresh access token using a refresh token. The returned
// Token usually has an empty RefreshToken: Spotify does not rotate refresh
// tokens on this grant.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := a.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	t := fromOAuth2(tok)
	if t.RefreshToken == refreshToken {
		// Unchanged; don't rewrite the refresh cookie.
		t.RefreshToken = ""
	}
	return t, nil
}

// Resolve returns a currently valid access token for the session. A live
// access token is returned as-is with zero network calls. Otherwise a
// present refresh token triggers exactly one refresh; the non-nil refreshed
// Token tells the caller to rotate the session's access cookie. With no
// tokens at all it fails with ErrNotLoggedIn without touching the network.
func (a *Authenticator) Resolve(ctx context.Context, s session.Session) (accessToken string, refreshed *Token, err error) {
	if s.AccessToken != "" {
		return s.AccessToken, nil, nil
	}
	if s.RefreshToken == "" {
		return "", nil, ErrNotLoggedIn
	}

	t, err := a.Refresh(ctx, s.RefreshToken)
	if err != nil {
		return "", nil, err
	}
	return t.AccessToken, t, nil
}

// fromOAuth2 converts an oauth2 token, deriving the remaining lifetime in
// whole seconds from its expiry.
func fromOAuth2(tok *oauth2.Token) *Token {
	expiresIn := defaultExpiresIn
	if !tok.Expiry.IsZero() {
		if secs := int(time.Until(tok.Expiry).Seconds()); secs > 0 {
			expiresIn = secs
		}
	}
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}

// EncodeState packs a CSRF nonce and the caller's return page into the
// opaque OAuth state parameter.
func EncodeState(from string) (nonce, state string) {
	if from == "" {
		from = "home"
	}
	nonce = uuid.NewString()
	return nonce, nonce + ":" + from
}

// DecodeState splits a state parameter back into its nonce and return page.
// A malformed state yields an empty nonce, which never matches a real one.
func DecodeState(state string) (nonce, from string) {
	nonce, from, ok := strings.Cut(state, ":")
	if !ok {
		return "", "home"
	}
	if from == "" {
		from = "home"
	}
	return nonce, from
}
