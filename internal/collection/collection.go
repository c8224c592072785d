// Package collection holds the in-memory list of location aggregates and keeps
// it in step with the store.
//
// Every mutating operation writes to the store and then reloads all tables,
// replacing the held list in one swap. Media deletion is the exception: the
// media item is removed from the held list first and the store is written after.
// Store failures never escape as errors from the mutating operations. They are
// logged and reported as false (or as a MediaDeletion with Err set).
package collection

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"geojournal/internal/db"
	"geojournal/internal/journal"
	"geojournal/internal/logging"
)

// Remote is the store the collection reads from and writes to
type Remote interface {
	AllLocations(ctx context.Context) ([]db.Location, error)
	AllAreas(ctx context.Context) ([]db.Area, error)
	AllTrajectories(ctx context.Context) ([]db.Trajectory, error)
	AllMedia(ctx context.Context) ([]db.Media, error)
	AllLocationTags(ctx context.Context) ([]db.LocationTag, error)

	InsertLocation(ctx context.Context, in db.LocationInput) (string, error)
	UpdateLocation(ctx context.Context, id string, p db.LocationPatch) error
	DeleteLocation(ctx context.Context, id string) error
	InsertArea(ctx context.Context, in db.AreaInput) (string, error)
	DeleteArea(ctx context.Context, id string) error
	InsertTrajectory(ctx context.Context, in db.TrajectoryInput) (string, error)
	InsertMedia(ctx context.Context, in db.MediaInput) (string, error)
	UpdateMedia(ctx context.Context, id string, p db.MediaPatch) error
	DeleteMedia(ctx context.Context, id string) error
	InsertTag(ctx context.Context, name, color string) (string, error)
	AttachTag(ctx context.Context, locationID, tagID string) error
	DetachTag(ctx context.Context, locationID, tagID string) error
}

var _ Remote = (*db.DB)(nil)

// Collection is the held list of aggregates. It is safe for concurrent use, but
// concurrent mutations are not serialized: the held list reflects whichever
// reload finished last.
type Collection struct {
	remote Remote
	log    *slog.Logger

	mu       sync.RWMutex
	aggs     []journal.Aggregate
	loading  int
	err      error
	writeErr error
}

// New returns an empty collection over remote. Call Load to fill it.
func New(remote Remote, logger *slog.Logger) *Collection {
	return &Collection{
		remote: remote,
		log:    logging.ForModule(logger, "collection"),
		aggs:   []journal.Aggregate{},
	}
}

// Locations returns the held list. The slice is shared and must not be modified;
// later operations swap in a new slice rather than writing into this one.
func (c *Collection) Locations() []journal.Aggregate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aggs
}

// Get returns the aggregate with the given id
func (c *Collection) Get(id string) (journal.Aggregate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.aggs {
		if a.ID == id {
			return a, true
		}
	}
	return journal.Aggregate{}, false
}

// Loading reports whether a Load is in flight
func (c *Collection) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading > 0
}

// Err returns the error of the last Load, nil if it succeeded
func (c *Collection) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// WriteErr returns the last failed write, nil if none has failed
func (c *Collection) WriteErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writeErr
}

// Load fetches every table, rebuilds the aggregates and replaces the held list.
// On failure the held list is left as it was and the error is kept in Err.
func (c *Collection) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading++
	c.err = nil
	c.mu.Unlock()

	rows, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.err = err
		c.log.Error("load failed", "error", err)
		return err
	}
	c.aggs = journal.Build(rows)
	c.log.Debug("loaded", "locations", len(c.aggs))
	return nil
}

func (c *Collection) fetch(ctx context.Context) (journal.Rows, error) {
	var rows journal.Rows
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rows.Locations, err = c.remote.AllLocations(ctx)
		return wrapFetch("map_locations", err)
	})
	g.Go(func() (err error) {
		rows.Areas, err = c.remote.AllAreas(ctx)
		return wrapFetch("map_areas", err)
	})
	g.Go(func() (err error) {
		rows.Trajectories, err = c.remote.AllTrajectories(ctx)
		return wrapFetch("map_trajectories", err)
	})
	g.Go(func() (err error) {
		rows.Media, err = c.remote.AllMedia(ctx)
		return wrapFetch("map_media", err)
	})
	g.Go(func() (err error) {
		rows.LocationTags, err = c.remote.AllLocationTags(ctx)
		return wrapFetch("map_location_tags", err)
	})
	if err := g.Wait(); err != nil {
		return journal.Rows{}, err
	}
	return rows, nil
}

// swap replaces the held list with the result of fn applied to it. fn must not
// modify its argument.
func (c *Collection) swap(fn func([]journal.Aggregate) []journal.Aggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aggs = fn(c.aggs)
}

// UpdateLocationLocal replaces the held aggregate with id by fn(copy of it)
// without touching the store. It reports whether the aggregate was found.
func (c *Collection) UpdateLocationLocal(id string, fn func(journal.Aggregate) journal.Aggregate) bool {
	found := false
	c.swap(func(in []journal.Aggregate) []journal.Aggregate {
		out := make([]journal.Aggregate, len(in))
		for i, a := range in {
			if a.ID == id {
				found = true
				out[i] = fn(a.Clone())
				continue
			}
			out[i] = a
		}
		return out
	})
	return found
}

// RemoveMediaLocal drops a media item from the held aggregate without touching
// the store. It reports whether the item was found.
func (c *Collection) RemoveMediaLocal(locationID, mediaID string) bool {
	removed := false
	c.UpdateLocationLocal(locationID, func(a journal.Aggregate) journal.Aggregate {
		kept := a.Media[:0]
		for _, m := range a.Media {
			if m.ID == mediaID {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		a.Media = kept
		return a
	})
	return removed
}

// ownerOf returns the id of the aggregate holding mediaID
func (c *Collection) ownerOf(mediaID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.aggs {
		for _, m := range a.Media {
			if m.ID == mediaID {
				return a.ID, true
			}
		}
	}
	return "", false
}
