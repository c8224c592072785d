package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"geojournal/internal/db"
)

var errInjected = errors.New("injected failure")

// fakeRemote is an in-memory Remote. Fields named fail* make the matching call fail.
type fakeRemote struct {
	mu sync.Mutex

	locations    []db.Location
	areas        []db.Area
	trajectories []db.Trajectory
	media        []db.Media
	links        []db.LocationTag
	tags         []db.Tag
	nextID       int

	failFetch     string // table name
	failInsert    string // table name
	failUpdate    bool
	failDelete    bool
	loads         int
	mediaUpdates  []string
	deleteEntered chan struct{} // closed when DeleteMedia starts
	deleteRelease chan struct{} // DeleteMedia blocks until this is closed
}

func (f *fakeRemote) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeRemote) fetch(table string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if table == "map_locations" {
		f.loads++
	}
	if f.failFetch == table {
		return errInjected
	}
	return nil
}

func (f *fakeRemote) AllLocations(ctx context.Context) ([]db.Location, error) {
	if err := f.fetch("map_locations"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]db.Location(nil), f.locations...), nil
}

func (f *fakeRemote) AllAreas(ctx context.Context) ([]db.Area, error) {
	if err := f.fetch("map_areas"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]db.Area(nil), f.areas...), nil
}

func (f *fakeRemote) AllTrajectories(ctx context.Context) ([]db.Trajectory, error) {
	if err := f.fetch("map_trajectories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]db.Trajectory(nil), f.trajectories...), nil
}

func (f *fakeRemote) AllMedia(ctx context.Context) ([]db.Media, error) {
	if err := f.fetch("map_media"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]db.Media(nil), f.media...), nil
}

func (f *fakeRemote) AllLocationTags(ctx context.Context) ([]db.LocationTag, error) {
	if err := f.fetch("map_location_tags"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]db.LocationTag(nil), f.links...), nil
}

func (f *fakeRemote) InsertLocation(ctx context.Context, in db.LocationInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert == "map_locations" {
		return "", errInjected
	}
	l := db.Location{
		ID: f.id("loc"), Name: in.Name, Description: in.Description,
		Longitude: in.Longitude, Latitude: in.Latitude, LocationType: in.LocationType,
		VisitDate: in.VisitDate,
	}
	f.locations = append(f.locations, l)
	return l.ID, nil
}

func (f *fakeRemote) UpdateLocation(ctx context.Context, id string, p db.LocationPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errInjected
	}
	for i := range f.locations {
		if f.locations[i].ID == id {
			if p.Name != nil {
				f.locations[i].Name = *p.Name
			}
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) DeleteLocation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errInjected
	}
	for i := range f.locations {
		if f.locations[i].ID == id {
			f.locations = append(f.locations[:i], f.locations[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) InsertArea(ctx context.Context, in db.AreaInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert == "map_areas" {
		return "", errInjected
	}
	a := db.Area{ID: f.id("area"), LocationID: in.LocationID, AreaType: in.AreaType, Coordinates: in.Coordinates, Radius: in.Radius}
	f.areas = append(f.areas, a)
	return a.ID, nil
}

func (f *fakeRemote) DeleteArea(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errInjected
	}
	for i := range f.areas {
		if f.areas[i].ID == id {
			f.areas = append(f.areas[:i], f.areas[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) InsertTrajectory(ctx context.Context, in db.TrajectoryInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert == "map_trajectories" {
		return "", errInjected
	}
	t := db.Trajectory{ID: f.id("traj"), LocationID: in.LocationID, PathCoordinates: in.PathCoordinates}
	f.trajectories = append(f.trajectories, t)
	return t.ID, nil
}

func (f *fakeRemote) InsertMedia(ctx context.Context, in db.MediaInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert == "map_media" {
		return "", errInjected
	}
	m := db.Media{ID: f.id("media"), LocationID: in.LocationID, MediaType: in.MediaType, URL: in.URL, Position: in.Position}
	f.media = append(f.media, m)
	return m.ID, nil
}

func (f *fakeRemote) UpdateMedia(ctx context.Context, id string, p db.MediaPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errInjected
	}
	for i := range f.media {
		if f.media[i].ID == id {
			if p.Position != nil {
				v := *p.Position
				f.media[i].Position = &v
			}
			if p.SortOrder != nil {
				f.media[i].SortOrder = *p.SortOrder
			}
			f.mediaUpdates = append(f.mediaUpdates, id)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) DeleteMedia(ctx context.Context, id string) error {
	if f.deleteEntered != nil {
		close(f.deleteEntered)
	}
	if f.deleteRelease != nil {
		<-f.deleteRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errInjected
	}
	for i := range f.media {
		if f.media[i].ID == id {
			f.media = append(f.media[:i], f.media[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) InsertTag(ctx context.Context, name, color string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert == "map_tags" {
		return "", errInjected
	}
	t := db.Tag{ID: f.id("tag"), Name: name, Color: color}
	f.tags = append(f.tags, t)
	return t.ID, nil
}

func (f *fakeRemote) AttachTag(ctx context.Context, locationID, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tags {
		if t.ID == tagID {
			tag := t
			f.links = append(f.links, db.LocationTag{LocationID: locationID, Tag: &tag})
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) DetachTag(ctx context.Context, locationID, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.links {
		if l.LocationID == locationID && l.Tag != nil && l.Tag.ID == tagID {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeRemote) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}
