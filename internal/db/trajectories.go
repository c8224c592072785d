package db

import "context"

// scanTrajectory scans a row into a Trajectory. The row must have all 6 columns in standard order.
func scanTrajectory(scanner interface{ Scan(dest ...any) error }) (Trajectory, error) {
	var t Trajectory
	err := scanner.Scan(
		&t.ID, &t.LocationID, &t.PathCoordinates, &t.StrokeColor, &t.StrokeWeight, &t.CreatedAt,
	)
	return t, err
}

// AllTrajectories returns all trajectories in insertion order
func (d *DB) AllTrajectories(ctx context.Context) ([]Trajectory, error) {
	rows, err := d.query(ctx, `
		SELECT id, location_id, path_coordinates, stroke_color, stroke_weight, created_at
		FROM map_trajectories ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trajectories := []Trajectory{}
	for rows.Next() {
		t, err := scanTrajectory(rows)
		if err != nil {
			return nil, err
		}
		trajectories = append(trajectories, t)
	}
	return trajectories, rows.Err()
}

// InsertTrajectory inserts a trajectory row
func (d *DB) InsertTrajectory(ctx context.Context, in TrajectoryInput) (string, error) {
	cols := []string{"location_id", "path_coordinates", "created_at"}
	args := []any{in.LocationID, in.PathCoordinates, nowMillis()}
	if in.StrokeColor != "" {
		cols = append(cols, "stroke_color")
		args = append(args, in.StrokeColor)
	}
	if in.StrokeWeight > 0 {
		cols = append(cols, "stroke_weight")
		args = append(args, in.StrokeWeight)
	}
	return d.insert(ctx, "map_trajectories", cols, args)
}
