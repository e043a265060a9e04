package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eru038/Weather-BGM-Player/internal/auth"
	"github.com/eru038/Weather-BGM-Player/internal/db"
	"github.com/eru038/Weather-BGM-Player/internal/session"
	"github.com/eru038/Weather-BGM-Player/internal/spotify"
	"github.com/eru038/Weather-BGM-Player/internal/weather"
)

// The handler collaborators are interfaces so tests can substitute fakes.

// TokenResolver is the OAuth token lifecycle (implemented by auth.Authenticator).
type TokenResolver interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.Token, error)
	Resolve(ctx context.Context, s session.Session) (accessToken string, refreshed *auth.Token, err error)
}

// SessionStore reads and writes the cookie session (session.CookieStore).
type SessionStore interface {
	FromRequest(r *http.Request) session.Session
	Write(w http.ResponseWriter, accessToken string, expiresIn int, refreshToken string)
	Clear(w http.ResponseWriter)
}

// MusicClient is the Spotify resource surface the proxy endpoints forward to
// (implemented by spotify.Client).
type MusicClient interface {
	Me(ctx context.Context, accessToken string) (json.RawMessage, error)
	Profile(ctx context.Context, accessToken string) (*spotify.Profile, error)
	Devices(ctx context.Context, accessToken string) (json.RawMessage, error)
	Transfer(ctx context.Context, accessToken, deviceID string) error
	Play(ctx context.Context, accessToken string, body []byte) error
	Playlists(ctx context.Context, accessToken string) ([]spotify.Playlist, error)
	PlaylistTracks(ctx context.Context, accessToken, playlistID string, limit int) ([]spotify.Track, error)
}

// AssociationStore persists weather-playlist associations
// (db.WeatherPlaylistRepository).
type AssociationStore interface {
	Register(ctx context.Context, wp *db.WeatherPlaylist) (inserted bool, err error)
	PickRandom(ctx context.Context, userID, weatherName string) (*db.WeatherPlaylist, error)
}

// UserStore reconciles user records (db.UserRepository).
type UserStore interface {
	Upsert(ctx context.Context, user *db.User) error
}

// WeatherService provides current conditions (weather.Client).
type WeatherService interface {
	Current(ctx context.Context) (*weather.Current, error)
}

// TableLister serves the admin table listing (db.DB).
type TableLister interface {
	ListTables(ctx context.Context) ([]string, error)
}
