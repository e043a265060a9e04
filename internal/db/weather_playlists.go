package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WeatherPlaylistRepository handles weather-playlist association operations.
type WeatherPlaylistRepository struct {
	pool *pgxpool.Pool
}

// Register associates a playlist with a weather category for a user. The
// registration is idempotent: an existing (user, weather, playlist) tuple
// reports inserted=false without mutation. The existence pre-check only makes
// the duplicate answer friendly; the unique constraint on the table is what
// actually prevents duplicate rows when concurrent registrations race.
func (r *WeatherPlaylistRepository) Register(ctx context.Context, wp *WeatherPlaylist) (inserted bool, err error) {
	checkQuery := `
		SELECT id
		FROM weather_playlists
		WHERE user_id = $1 AND weather = $2 AND playlist_id = $3
	`
	var existingID int
	err = r.pool.QueryRow(ctx, checkQuery, wp.UserID, wp.Weather, wp.PlaylistID).Scan(&existingID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("checking existing association: %w", err)
	}

	insertQuery := `
		INSERT INTO weather_playlists (user_id, weather, playlist_id, title)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, weather, playlist_id) DO NOTHING
		RETURNING id, added_at
	`
	err = r.pool.QueryRow(ctx, insertQuery, wp.UserID, wp.Weather, wp.PlaylistID, wp.Title).
		Scan(&wp.ID, &wp.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race with a concurrent identical registration.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inserting association: %w", err)
	}
	return true, nil
}

// PickRandom returns one uniformly-selected association for (userID,
// weather), or ErrNotFound when none exist.
func (r *WeatherPlaylistRepository) PickRandom(ctx context.Context, userID, weather string) (*WeatherPlaylist, error) {
	query := `
		SELECT id, user_id, weather, playlist_id, title, added_at
		FROM weather_playlists
		WHERE user_id = $1 AND weather = $2
		ORDER BY RANDOM()
		LIMIT 1
	`
	var wp WeatherPlaylist
	err := r.pool.QueryRow(ctx, query, userID, weather).Scan(
		&wp.ID,
		&wp.UserID,
		&wp.Weather,
		&wp.PlaylistID,
		&wp.Title,
		&wp.AddedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying random association: %w", err)
	}
	return &wp, nil
}

// ListForUser retrieves all of a user's associations, newest first.
func (r *WeatherPlaylistRepository) ListForUser(ctx context.Context, userID string) ([]WeatherPlaylist, error) {
	query := `
		SELECT id, user_id, weather, playlist_id, title, added_at
		FROM weather_playlists
		WHERE user_id = $1
		ORDER BY added_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user associations: %w", err)
	}
	defer rows.Close()

	var wps []WeatherPlaylist
	for rows.Next() {
		var wp WeatherPlaylist
		if err := rows.Scan(
			&wp.ID,
			&wp.UserID,
			&wp.Weather,
			&wp.PlaylistID,
			&wp.Title,
			&wp.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning association: %w", err)
		}
		wps = append(wps, wp)
	}
	return wps, rows.Err()
}
