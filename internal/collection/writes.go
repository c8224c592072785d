package collection

import (
	"context"
	"errors"

	"geojournal/internal/db"
)

// write runs one store write. On success it reloads; on failure it logs and
// records a WriteError. The reload result is left in Err and does not change
// the returned value.
func (c *Collection) write(ctx context.Context, op, table, id string, fn func() error) bool {
	if err := fn(); err != nil {
		c.fail(&WriteError{Op: op, Table: table, ID: id, Err: err})
		return false
	}
	_ = c.Load(ctx)
	return true
}

func (c *Collection) fail(werr *WriteError) {
	c.mu.Lock()
	c.writeErr = werr
	c.mu.Unlock()
	c.log.Error("write failed", "op", werr.Op, "table", werr.Table, "id", werr.ID, "error", werr.Err)
}

// CreateLocation inserts a location and reloads. It returns the new id, or
// false when the insert failed.
func (c *Collection) CreateLocation(ctx context.Context, in db.LocationInput) (string, bool) {
	var id string
	ok := c.write(ctx, "insert", "map_locations", "", func() (err error) {
		id, err = c.remote.InsertLocation(ctx, in)
		return err
	})
	if !ok {
		return "", false
	}
	return id, true
}

// UpdateLocation applies a partial update and reloads
func (c *Collection) UpdateLocation(ctx context.Context, id string, p db.LocationPatch) bool {
	return c.write(ctx, "update", "map_locations", id, func() error {
		return c.remote.UpdateLocation(ctx, id, p)
	})
}

// DeleteLocation deletes a location and reloads. Dependent rows go with it
// through the store's cascade rules.
func (c *Collection) DeleteLocation(ctx context.Context, id string) bool {
	return c.write(ctx, "delete", "map_locations", id, func() error {
		return c.remote.DeleteLocation(ctx, id)
	})
}

// CreateArea attaches an area to an existing location and reloads
func (c *Collection) CreateArea(ctx context.Context, in db.AreaInput) bool {
	return c.write(ctx, "insert", "map_areas", "", func() error {
		_, err := c.remote.InsertArea(ctx, in)
		return err
	})
}

// DeleteArea deletes one area and reloads. The location it belonged to stays.
func (c *Collection) DeleteArea(ctx context.Context, id string) bool {
	return c.write(ctx, "delete", "map_areas", id, func() error {
		return c.remote.DeleteArea(ctx, id)
	})
}

// ReplaceArea deletes every held area of in.LocationID, inserts in and reloads.
// It repairs area locations whose area write failed. If the insert fails the
// location is left with no area.
func (c *Collection) ReplaceArea(ctx context.Context, in db.AreaInput) bool {
	var old []string
	if a, ok := c.Get(in.LocationID); ok {
		for _, ar := range a.Areas {
			old = append(old, ar.ID)
		}
	}
	return c.write(ctx, "replace", "map_areas", in.LocationID, func() error {
		for _, id := range old {
			if err := c.remote.DeleteArea(ctx, id); err != nil && !errors.Is(err, db.ErrNotFound) {
				return err
			}
		}
		_, err := c.remote.InsertArea(ctx, in)
		return err
	})
}

// CreateTrajectory attaches a path to an existing location and reloads
func (c *Collection) CreateTrajectory(ctx context.Context, in db.TrajectoryInput) bool {
	return c.write(ctx, "insert", "map_trajectories", "", func() error {
		_, err := c.remote.InsertTrajectory(ctx, in)
		return err
	})
}

// CreateMedia inserts a media item and reloads
func (c *Collection) CreateMedia(ctx context.Context, in db.MediaInput) bool {
	return c.write(ctx, "insert", "map_media", "", func() error {
		_, err := c.remote.InsertMedia(ctx, in)
		return err
	})
}

// UpdateMedia applies a partial media update and reloads
func (c *Collection) UpdateMedia(ctx context.Context, id string, p db.MediaPatch) bool {
	return c.write(ctx, "update", "map_media", id, func() error {
		return c.remote.UpdateMedia(ctx, id, p)
	})
}

// CreateTag inserts a tag and reloads. It returns the new id.
func (c *Collection) CreateTag(ctx context.Context, name, color string) (string, bool) {
	var id string
	ok := c.write(ctx, "insert", "map_tags", "", func() (err error) {
		id, err = c.remote.InsertTag(ctx, name, color)
		return err
	})
	if !ok {
		return "", false
	}
	return id, true
}

// TagLocation links a tag to a location and reloads
func (c *Collection) TagLocation(ctx context.Context, locationID, tagID string) bool {
	return c.write(ctx, "attach", "map_location_tags", locationID+"/"+tagID, func() error {
		return c.remote.AttachTag(ctx, locationID, tagID)
	})
}

// UntagLocation removes a tag link and reloads. The tag itself is kept.
func (c *Collection) UntagLocation(ctx context.Context, locationID, tagID string) bool {
	return c.write(ctx, "detach", "map_location_tags", locationID+"/"+tagID, func() error {
		return c.remote.DetachTag(ctx, locationID, tagID)
	})
}
