package spotify

// Profile is the slice of the /me payload the server keeps.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist is the projection of a playlist served to the UI.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	TracksTotal int    `json:"tracks_total"`
	Image       string `json:"image"`
	ExternalURL string `json:"external_url"`
	Owner       string `json:"owner"`
}

// Track is the projection of a playlist track served to the UI.
type Track struct {
	Name        string   `json:"name"`
	URI         string   `json:"uri"`
	ExternalURL string   `json:"external_url"`
	Artists     []string `json:"artists"`
	Image       string   `json:"image"`
}

// Raw provider payload shapes. Only the projected fields are declared;
// everything else in the verbose responses is dropped.

type playlistsResponse struct {
	Items []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		URI    string `json:"uri"`
		Tracks struct {
			Total int `json:"total"`
		} `json:"tracks"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
		Owner struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"owner"`
	} `json:"items"`
}

type playlistTracksResponse struct {
	Items []struct {
		Track struct {
			Name         string `json:"name"`
			URI          string `json:"uri"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"track"`
	} `json:"items"`
}
