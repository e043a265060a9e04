package db

import "time"

// User is the minimal Spotify identity record referenced by associations.
type User struct {
	ID   string
	Name string
}

// WeatherPlaylist links a user and a weather category to a chosen playlist.
// The tuple (UserID, Weather, PlaylistID) is unique; rows are inserted once
// and never updated in place.
type WeatherPlaylist struct {
	ID         int
	UserID     string
	Weather    string
	PlaylistID string
	Title      string
	AddedAt    time.Time
}
