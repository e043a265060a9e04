package db

import (
	"context"
	"fmt"
)

// migrations are idempotent bootstrap statements run at startup and by the
// migrate subcommand. The unique index on (user_id, weather, playlist_id) is
// load-bearing: Register's concurrency guarantee depends on it.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS weather_playlists (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		weather TEXT NOT NULL,
		playlist_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_weather_playlist
		ON weather_playlists (user_id, weather, playlist_id)`,
}

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}

// ListTables returns the names of all public tables. Serves the admin
// /db-view endpoint.
func (db *DB) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT tablename
		FROM pg_catalog.pg_tables
		WHERE schemaname = 'public'
	`
	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
