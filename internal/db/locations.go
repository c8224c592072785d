package db

import (
	"context"
	"fmt"
)

const locationColumns = `id, name, description, longitude, latitude, location_type,
		       visit_date, icon_url, icon_color, created_at, updated_at`

// scanLocation scans a row into a Location. The row must have all 11 columns in standard order.
func scanLocation(scanner interface{ Scan(dest ...any) error }) (Location, error) {
	var l Location
	err := scanner.Scan(
		&l.ID, &l.Name, &l.Description, &l.Longitude, &l.Latitude, &l.LocationType,
		&l.VisitDate, &l.IconURL, &l.IconColor, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// AllLocations returns all locations by visit_date descending, undated first
func (d *DB) AllLocations(ctx context.Context) ([]Location, error) {
	rows, err := d.query(ctx, `
		SELECT `+locationColumns+`
		FROM map_locations
		ORDER BY (visit_date IS NULL) DESC, visit_date DESC, created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// InsertLocation inserts a location and returns its generated ID
func (d *DB) InsertLocation(ctx context.Context, in LocationInput) (string, error) {
	if in.Name == "" {
		return "", fmt.Errorf("inserting location: name is required")
	}
	locationType := in.LocationType
	if locationType == "" {
		locationType = "point"
	}
	now := nowMillis()
	return d.insert(ctx, "map_locations",
		[]string{"name", "description", "longitude", "latitude", "location_type",
			"visit_date", "icon_url", "icon_color", "created_at", "updated_at"},
		[]any{in.Name, in.Description, in.Longitude, in.Latitude, locationType,
			in.VisitDate, in.IconURL, in.IconColor, now, now},
	)
}

// UpdateLocation applies a partial update and bumps updated_at
func (d *DB) UpdateLocation(ctx context.Context, id string, p LocationPatch) error {
	var s setList
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	s.addNullable("description", p.Description)
	if p.Longitude != nil {
		s.add("longitude", *p.Longitude)
	}
	if p.Latitude != nil {
		s.add("latitude", *p.Latitude)
	}
	s.addNullable("visit_date", p.VisitDate)
	s.addNullable("icon_url", p.IconURL)
	s.addNullable("icon_color", p.IconColor)
	s.add("updated_at", nowMillis())
	return d.update(ctx, "map_locations", id, s)
}

// DeleteLocation deletes a location. Areas, trajectories, media and tag links
// are removed by the foreign key cascade, not here.
func (d *DB) DeleteLocation(ctx context.Context, id string) error {
	return d.delete(ctx, "map_locations", id)
}
