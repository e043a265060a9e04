package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/eru038/Weather-BGM-Player/internal/auth"
	"github.com/eru038/Weather-BGM-Player/internal/db"
	"github.com/eru038/Weather-BGM-Player/internal/session"
	"github.com/eru038/Weather-BGM-Player/internal/spotify"
	"github.com/eru038/Weather-BGM-Player/internal/weather"
)

// testTemplates is the minimal template tree the server needs to boot.
var testTemplates = fstest.MapFS{
	"layouts/base.html": &fstest.MapFile{
		Data: []byte(`{{define "base"}}<html>{{template "content" .}}</html>{{end}}`),
	},
	"pages/home.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}auth={{.Authenticated}}{{end}}`),
	},
}

type fakeAuth struct {
	authURL      string
	exchangeTok  *auth.Token
	exchangeErr  error
	resolveTok   string
	refreshedTok *auth.Token
	resolveErr   error

	exchangedCode string
	resolvedSess  session.Session
}

func (f *fakeAuth) AuthCodeURL(state string) string {
	return f.authURL + "?state=" + state
}

func (f *fakeAuth) Exchange(_ context.Context, code string) (*auth.Token, error) {
	f.exchangedCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeTok, nil
}

func (f *fakeAuth) Resolve(_ context.Context, s session.Session) (string, *auth.Token, error) {
	f.resolvedSess = s
	if f.resolveErr != nil {
		return "", nil, f.resolveErr
	}
	return f.resolveTok, f.refreshedTok, nil
}

type fakeMusic struct {
	meBody      json.RawMessage
	meErr       error
	profile     *spotify.Profile
	profileErr  error
	devicesBody json.RawMessage
	devicesErr  error
	transferErr error
	playErr     error
	playlists    []spotify.Playlist
	playlistsErr error
	tracks       []spotify.Track
	tracksErr    error

	gotToken    string
	gotDeviceID string
	gotPlayBody []byte
	gotPlaylist string
	gotLimit    int
}

func (f *fakeMusic) Me(_ context.Context, token string) (json.RawMessage, error) {
	f.gotToken = token
	return f.meBody, f.meErr
}

func (f *fakeMusic) Profile(_ context.Context, token string) (*spotify.Profile, error) {
	f.gotToken = token
	return f.profile, f.profileErr
}

func (f *fakeMusic) Devices(_ context.Context, token string) (json.RawMessage, error) {
	f.gotToken = token
	return f.devicesBody, f.devicesErr
}

func (f *fakeMusic) Transfer(_ context.Context, token, deviceID string) error {
	f.gotToken = token
	f.gotDeviceID = deviceID
	return f.transferErr
}

func (f *fakeMusic) Play(_ context.Context, token string, body []byte) error {
	f.gotToken = token
	f.gotPlayBody = body
	return f.playErr
}

func (f *fakeMusic) Playlists(_ context.Context, token string) ([]spotify.Playlist, error) {
	f.gotToken = token
	return f.playlists, f.playlistsErr
}

func (f *fakeMusic) PlaylistTracks(_ context.Context, token, playlistID string, limit int) ([]spotify.Track, error) {
	f.gotToken = token
	f.gotPlaylist = playlistID
	f.gotLimit = limit
	return f.tracks, f.tracksErr
}

type fakeStore struct {
	inserted    bool
	registerErr error
	picked      *db.WeatherPlaylist
	pickErr     error

	registered *db.WeatherPlaylist
}

func (f *fakeStore) Register(_ context.Context, wp *db.WeatherPlaylist) (bool, error) {
	f.registered = wp
	return f.inserted, f.registerErr
}

func (f *fakeStore) PickRandom(_ context.Context, _, _ string) (*db.WeatherPlaylist, error) {
	if f.pickErr != nil {
		return nil, f.pickErr
	}
	return f.picked, nil
}

type fakeUsers struct {
	upserted  *db.User
	upsertErr error
}

func (f *fakeUsers) Upsert(_ context.Context, u *db.User) error {
	f.upserted = u
	return f.upsertErr
}

type fakeWeather struct {
	current *weather.Current
	err     error
}

func (f *fakeWeather) Current(context.Context) (*weather.Current, error) {
	return f.current, f.err
}

type fakeTables struct {
	tables []string
	err    error
}

func (f *fakeTables) ListTables(context.Context) ([]string, error) {
	return f.tables, f.err
}

// testEnv bundles a server wired to fakes plus the fakes themselves.
type testEnv struct {
	server  *Server
	auth    *fakeAuth
	music   *fakeMusic
	store   *fakeStore
	users   *fakeUsers
	weather *fakeWeather
	tables  *fakeTables
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		auth:    &fakeAuth{authURL: "https://accounts.example.com/authorize"},
		music:   &fakeMusic{},
		store:   &fakeStore{},
		users:   &fakeUsers{},
		weather: &fakeWeather{},
		tables:  &fakeTables{},
	}

	srv, err := NewServer(ServerConfig{
		Addr:        ":0",
		FrontendURI: "http://127.0.0.1:3000/",
		TemplatesFS: testTemplates,
		Logger:      log.New(io.Discard),
		Auth:        env.auth,
		Music:       env.music,
		Sessions:    session.NewCookieStore(false),
		Store:       env.store,
		Users:       env.users,
		Weather:     env.weather,
		Tables:      env.tables,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	env.server = srv
	return env
}

// withSession attaches session cookies to a request.
func withSession(r *http.Request, accessToken, refreshToken string) *http.Request {
	if accessToken != "" {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
	}
	if refreshToken != "" {
		r.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshToken})
	}
	return r
}

// decodeBody decodes a JSON response body into a map.
func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return m
}

// responseCookie finds a named cookie in a recorded response.
func responseCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
