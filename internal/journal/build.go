package journal

import "geojournal/internal/db"

// Rows is one fetch of every table an aggregate is built from
type Rows struct {
	Locations    []db.Location
	Areas        []db.Area
	Trajectories []db.Trajectory
	Media        []db.Media // ordered by position
	LocationTags []db.LocationTag
}

// Build joins the dependent rows onto their locations. The result keeps the
// order of rows.Locations, and within each location the order of the dependent
// row sets. Join rows with a nil tag are dropped. Rows pointing at a location
// that is not in rows.Locations are ignored.
func Build(rows Rows) []Aggregate {
	areas := make(map[string][]db.Area, len(rows.Locations))
	for _, a := range rows.Areas {
		areas[a.LocationID] = append(areas[a.LocationID], a)
	}
	trajectories := make(map[string][]db.Trajectory, len(rows.Locations))
	for _, t := range rows.Trajectories {
		trajectories[t.LocationID] = append(trajectories[t.LocationID], t)
	}
	media := make(map[string][]db.Media, len(rows.Locations))
	for _, m := range rows.Media {
		media[m.LocationID] = append(media[m.LocationID], m)
	}
	tags := make(map[string][]db.Tag, len(rows.Locations))
	for _, lt := range rows.LocationTags {
		if lt.Tag == nil {
			continue
		}
		tags[lt.LocationID] = append(tags[lt.LocationID], *lt.Tag)
	}

	out := make([]Aggregate, 0, len(rows.Locations))
	for _, l := range rows.Locations {
		out = append(out, Aggregate{
			Location:     l,
			Areas:        orEmpty(areas[l.ID]),
			Trajectories: orEmpty(trajectories[l.ID]),
			Media:        orEmpty(media[l.ID]),
			Tags:         orEmpty(tags[l.ID]),
		})
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
