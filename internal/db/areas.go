package db

import "context"

// scanArea scans a row into an Area. The row must have all 8 columns in standard order.
func scanArea(scanner interface{ Scan(dest ...any) error }) (Area, error) {
	var a Area
	err := scanner.Scan(
		&a.ID, &a.LocationID, &a.AreaType, &a.Coordinates, &a.Radius,
		&a.FillColor, &a.StrokeColor, &a.CreatedAt,
	)
	return a, err
}

// AllAreas returns all areas in insertion order
func (d *DB) AllAreas(ctx context.Context) ([]Area, error) {
	rows, err := d.query(ctx, `
		SELECT id, location_id, area_type, coordinates, radius,
		       fill_color, stroke_color, created_at
		FROM map_areas ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []Area{}
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// InsertArea inserts an area row. Empty colors fall back to the column defaults.
func (d *DB) InsertArea(ctx context.Context, in AreaInput) (string, error) {
	cols := []string{"location_id", "area_type", "coordinates", "radius", "created_at"}
	args := []any{in.LocationID, in.AreaType, in.Coordinates, in.Radius, nowMillis()}
	if in.FillColor != "" {
		cols = append(cols, "fill_color")
		args = append(args, in.FillColor)
	}
	if in.StrokeColor != "" {
		cols = append(cols, "stroke_color")
		args = append(args, in.StrokeColor)
	}
	return d.insert(ctx, "map_areas", cols, args)
}

// DeleteArea deletes an area row
func (d *DB) DeleteArea(ctx context.Context, id string) error {
	return d.delete(ctx, "map_areas", id)
}
