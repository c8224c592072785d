package collection

import (
	"context"
	"fmt"

	"geojournal/internal/db"
)

// MediaDeletion is the outcome of the two phases of DeleteMedia.
//
// A local removal is never rolled back. LocallyRemoved with RemoteConfirmed
// false means the held list no longer shows an item the store still has until
// the next successful Load.
type MediaDeletion struct {
	LocationID      string
	LocallyRemoved  bool // phase one: the item was dropped from the held list
	RemoteConfirmed bool // phase two: the store delete succeeded
	Reconciled      bool // a reload after the store delete succeeded
	Err             error
}

// Diverged reports whether the held list and the store disagree about the item
func (d MediaDeletion) Diverged() bool {
	return d.LocallyRemoved && !d.RemoteConfirmed
}

// DeleteMedia removes the media item from the held list at once, then deletes
// it from the store and reloads. The local removal is visible to readers before
// the store call starts and is kept when the store call fails.
func (c *Collection) DeleteMedia(ctx context.Context, mediaID string) MediaDeletion {
	var res MediaDeletion
	if owner, ok := c.ownerOf(mediaID); ok {
		res.LocationID = owner
		res.LocallyRemoved = c.RemoveMediaLocal(owner, mediaID)
	}

	if err := c.remote.DeleteMedia(ctx, mediaID); err != nil {
		werr := &WriteError{Op: "delete", Table: "map_media", ID: mediaID, Err: err}
		c.fail(werr)
		res.Err = werr
		if res.LocallyRemoved {
			c.log.Warn("media removed locally but not from the store", "id", mediaID, "location", res.LocationID)
		}
		return res
	}
	res.RemoteConfirmed = true

	if err := c.Load(ctx); err != nil {
		res.Err = err
		return res
	}
	res.Reconciled = true
	return res
}

// Direction moves a media item one step in its location's media order
type Direction int

const (
	Up Direction = iota + 1
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection maps "up" or "down" onto a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown direction %q, want up or down", s)
	}
}

// MoveMedia swaps a media item with its neighbour in the location's media
// order. Both rows take each other's position, and sort_order is rewritten so
// items at the same position still swap. Moving past either end is a no-op that
// reports false without writing.
func (c *Collection) MoveMedia(ctx context.Context, locationID, mediaID string, dir Direction) bool {
	agg, ok := c.Get(locationID)
	if !ok {
		c.log.Warn("move media: location not held", "location", locationID)
		return false
	}
	index := -1
	for i, m := range agg.Media {
		if m.ID == mediaID {
			index = i
			break
		}
	}
	if index < 0 {
		c.log.Warn("move media: media not held", "location", locationID, "id", mediaID)
		return false
	}
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if target < 0 || target >= len(agg.Media) {
		return false
	}

	moving, neighbour := agg.Media[index], agg.Media[target]
	movingOrder, neighbourOrder := target, index
	movingPatch := db.MediaPatch{Position: neighbour.Position, SortOrder: &movingOrder}
	neighbourPatch := db.MediaPatch{Position: moving.Position, SortOrder: &neighbourOrder}

	if err := c.remote.UpdateMedia(ctx, moving.ID, movingPatch); err != nil {
		c.fail(&WriteError{Op: "update", Table: "map_media", ID: moving.ID, Err: err})
		return false
	}
	if err := c.remote.UpdateMedia(ctx, neighbour.ID, neighbourPatch); err != nil {
		c.fail(&WriteError{Op: "update", Table: "map_media", ID: neighbour.ID, Err: err})
		// the first write landed; show what the store now holds
		_ = c.Load(ctx)
		return false
	}
	_ = c.Load(ctx)
	return true
}
