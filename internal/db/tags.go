package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// AllTags returns all tags by name
func (d *DB) AllTags(ctx context.Context) ([]Tag, error) {
	rows, err := d.query(ctx, `SELECT id, name, color, created_at FROM map_tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// AllLocationTags returns every join row with its tag embedded. A join row whose
// tag is missing comes back with a nil Tag.
func (d *DB) AllLocationTags(ctx context.Context) ([]LocationTag, error) {
	rows, err := d.query(ctx, `
		SELECT lt.location_id, t.id, t.name, t.color, t.created_at
		FROM map_location_tags lt
		LEFT JOIN map_tags t ON t.id = lt.tag_id
		ORDER BY lt.created_at, lt.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []LocationTag{}
	for rows.Next() {
		var (
			lt        LocationTag
			id        sql.NullString
			name      sql.NullString
			color     sql.NullString
			createdAt sql.NullInt64
		)
		if err := rows.Scan(&lt.LocationID, &id, &name, &color, &createdAt); err != nil {
			return nil, err
		}
		if id.Valid {
			lt.Tag = &Tag{ID: id.String, Name: name.String, Color: color.String, CreatedAt: createdAt.Int64}
		}
		links = append(links, lt)
	}
	return links, rows.Err()
}

// InsertTag creates a tag. An empty color takes the column default.
func (d *DB) InsertTag(ctx context.Context, name, color string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("inserting tag: name is required")
	}
	cols := []string{"name", "created_at"}
	args := []any{name, nowMillis()}
	if color != "" {
		cols = append(cols, "color")
		args = append(args, color)
	}
	return d.insert(ctx, "map_tags", cols, args)
}

// AttachTag links a tag to a location
func (d *DB) AttachTag(ctx context.Context, locationID, tagID string) error {
	_, err := d.insert(ctx, "map_location_tags",
		[]string{"location_id", "tag_id", "created_at"},
		[]any{locationID, tagID, nowMillis()},
	)
	return err
}

// DetachTag removes the link between a tag and a location. The tag itself stays.
func (d *DB) DetachTag(ctx context.Context, locationID, tagID string) error {
	res, err := d.exec(ctx, `DELETE FROM map_location_tags WHERE location_id = ? AND tag_id = ?`, locationID, tagID)
	if err != nil {
		return fmt.Errorf("detaching tag %s from %s: %w", tagID, locationID, err)
	}
	return expectOneRow(res, "map_location_tags", locationID+"/"+tagID)
}
