package db

import "context"

// scanMedia scans a row into a Media. The row must have all 8 columns in standard order.
func scanMedia(scanner interface{ Scan(dest ...any) error }) (Media, error) {
	var m Media
	err := scanner.Scan(
		&m.ID, &m.LocationID, &m.MediaType, &m.URL, &m.Caption,
		&m.SortOrder, &m.Position, &m.CreatedAt,
	)
	return m, err
}

// AllMedia returns all media ordered by position ascending, rows without a position last
func (d *DB) AllMedia(ctx context.Context) ([]Media, error) {
	rows, err := d.query(ctx, `
		SELECT id, location_id, media_type, url, caption, sort_order, position, created_at
		FROM map_media
		ORDER BY (position IS NULL), position, sort_order, created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// InsertMedia inserts a media row. A nil Position is stored as 0.
func (d *DB) InsertMedia(ctx context.Context, in MediaInput) (string, error) {
	position := 0
	if in.Position != nil {
		position = *in.Position
	}
	return d.insert(ctx, "map_media",
		[]string{"location_id", "media_type", "url", "caption", "sort_order", "position", "created_at"},
		[]any{in.LocationID, in.MediaType, in.URL, in.Caption, in.SortOrder, position, nowMillis()},
	)
}

// UpdateMedia applies a partial update to a media row
func (d *DB) UpdateMedia(ctx context.Context, id string, p MediaPatch) error {
	var s setList
	s.addNullable("caption", p.Caption)
	if p.Position != nil {
		s.add("position", *p.Position)
	}
	if p.SortOrder != nil {
		s.add("sort_order", *p.SortOrder)
	}
	if len(s.cols) == 0 {
		return nil
	}
	return d.update(ctx, "map_media", id, s)
}

// DeleteMedia deletes a media row
func (d *DB) DeleteMedia(ctx context.Context, id string) error {
	return d.delete(ctx, "map_media", id)
}
