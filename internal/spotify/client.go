// Package spotify is a thin client for the Spotify Web API resources the
// player proxies: profile, devices, playback and playlists. It deliberately
// surfaces provider failures verbatim (status code plus body) so handlers
// can pass them through to the page unchanged.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	userAgent      = "weather-bgm-player/1.0"

	// trackFields trims the playlist-tracks payload to what the UI renders.
	trackFields = "items(track(name,uri,external_urls,artists(name),album(images)))"

	maxTrackLimit = 100
)

// ProviderError is a non-2xx response from Spotify. Handlers forward the
// status and body to the caller as-is.
type ProviderError struct {
	StatusCode int
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("spotify API status %d: %s", e.StatusCode, e.Body)
}

// Client calls the Spotify Web API with a caller-supplied access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Spotify API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

// Me returns the current user's profile as raw JSON.
func (c *Client) Me(ctx context.Context, accessToken string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/me", accessToken, nil)
}

// Profile returns the fields of the current user's profile the server needs
// for the user record.
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	body, err := c.Me(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if p.DisplayName == "" {
		p.DisplayName = p.ID
	}
	return &p, nil
}

// Devices returns the user's available playback devices as raw JSON.
func (c *Client) Devices(ctx context.Context, accessToken string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/me/player/devices", accessToken, nil)
}

// Transfer moves playback to the given device without starting playback.
func (c *Client) Transfer(ctx context.Context, accessToken, deviceID string) error {
	payload, err := json.Marshal(map[string]any{
		"device_ids": []string{deviceID},
		"play":       false,
	})
	if err != nil {
		return fmt.Errorf("encoding transfer payload: %w", err)
	}

	_, err = c.do(ctx, http.MethodPut, "/me/player", accessToken, payload)
	return err
}

// Play forwards a playback request body verbatim to the player endpoint.
func (c *Client) Play(ctx context.Context, accessToken string, body []byte) error {
	_, err := c.do(ctx, http.MethodPut, "/me/player/play", accessToken, body)
	return err
}

// Playlists returns the user's playlists projected down to the fields the
// UI needs. Missing images and owners default rather than being trusted.
func (c *Client) Playlists(ctx context.Context, accessToken string) ([]Playlist, error) {
	body, err := c.do(ctx, http.MethodGet, "/me/playlists?limit=50", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var resp playlistsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing playlists: %w", err)
	}

	items := make([]Playlist, 0, len(resp.Items))
	for _, p := range resp.Items {
		pl := Playlist{
			ID:          p.ID,
			Name:        p.Name,
			URI:         p.URI,
			TracksTotal: p.Tracks.Total,
			ExternalURL: p.ExternalURLs.Spotify,
			Owner:       p.Owner.DisplayName,
		}
		if len(p.Images) > 0 {
			pl.Image = p.Images[0].URL
		}
		if pl.Owner == "" {
			pl.Owner = p.Owner.ID
		}
		items = append(items, pl)
	}
	return items, nil
}

// PlaylistTracks returns up to limit tracks of a playlist, projected for the
// UI. The limit is clamped to 1..100, defaulting to 100.
func (c *Client) PlaylistTracks(ctx context.Context, accessToken, playlistID string, limit int) ([]Track, error) {
	if limit <= 0 || limit > maxTrackLimit {
		limit = maxTrackLimit
	}

	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks" +
		"?limit=" + strconv.Itoa(limit) + "&fields=" + url.QueryEscape(trackFields)

	body, err := c.do(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var resp playlistTracksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing playlist tracks: %w", err)
	}

	items := make([]Track, 0, len(resp.Items))
	for _, it := range resp.Items {
		t := Track{
			Name:        it.Track.Name,
			URI:         it.Track.URI,
			ExternalURL: it.Track.ExternalURLs.Spotify,
			Artists:     make([]string, 0, len(it.Track.Artists)),
		}
		for _, a := range it.Track.Artists {
			t.Artists = append(t.Artists, a.Name)
		}
		if len(it.Track.Album.Images) > 0 {
			t.Image = it.Track.Album.Images[0].URL
		}
		items = append(items, t)
	}
	return items, nil
}

// do performs one API request. No retries: a failed provider call is
// surfaced immediately.
func (c *Client) do(ctx context.Context, method, path, accessToken string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
