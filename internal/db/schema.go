package db

import (
	"context"
	"fmt"
)

// Column defaults mirrored by the zero-value handling in the insert helpers.
const (
	DefaultFillColor    = "rgba(0, 113, 227, 0.2)"
	DefaultStrokeColor  = "#0071e3"
	DefaultStrokeWeight = 4.0
	DefaultTagColor     = "#0071e3"
)

// schema is valid for both SQLite and Postgres
var schema = []string{
	`CREATE TABLE IF NOT EXISTS map_locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		longitude DOUBLE PRECISION NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		location_type TEXT NOT NULL DEFAULT 'point',
		visit_date TEXT,
		icon_url TEXT,
		icon_color TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS map_areas (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL REFERENCES map_locations(id) ON DELETE CASCADE,
		area_type TEXT NOT NULL,
		coordinates TEXT NOT NULL,
		radius DOUBLE PRECISION,
		fill_color TEXT NOT NULL DEFAULT 'rgba(0, 113, 227, 0.2)',
		stroke_color TEXT NOT NULL DEFAULT '#0071e3',
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS map_trajectories (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL REFERENCES map_locations(id) ON DELETE CASCADE,
		path_coordinates TEXT NOT NULL,
		stroke_color TEXT NOT NULL DEFAULT '#0071e3',
		stroke_weight DOUBLE PRECISION NOT NULL DEFAULT 4,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS map_media (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL REFERENCES map_locations(id) ON DELETE CASCADE,
		media_type TEXT NOT NULL,
		url TEXT NOT NULL,
		caption TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		position INTEGER,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS map_tags (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '#0071e3',
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS map_location_tags (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL REFERENCES map_locations(id) ON DELETE CASCADE,
		tag_id TEXT NOT NULL REFERENCES map_tags(id) ON DELETE CASCADE,
		created_at BIGINT NOT NULL,
		UNIQUE (location_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS map_admin (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_map_areas_location ON map_areas(location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_map_trajectories_location ON map_trajectories(location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_map_media_location ON map_media(location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_map_location_tags_location ON map_location_tags(location_id)`,
}

// Migrate creates the journal tables if they do not exist
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}
