package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"geojournal/internal/collection"
	"geojournal/internal/content"
	"geojournal/internal/db"
	"geojournal/internal/geometry"
	"geojournal/internal/journal"
)

// journalFile is the YAML layout read by `import` and written by `export yaml`
type journalFile struct {
	Locations []entry `yaml:"locations"`
}

type entry struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type,omitempty"`
	At          []float64   `yaml:"at,omitempty"`
	Description string      `yaml:"description,omitempty"`
	VisitDate   string      `yaml:"visit_date,omitempty"`
	IconColor   string      `yaml:"icon_color,omitempty"`
	IconURL     string      `yaml:"icon_url,omitempty"`
	Polygon     [][]float64 `yaml:"polygon,omitempty"`
	Circle      *circle     `yaml:"circle,omitempty"`
	Path        [][]float64 `yaml:"path,omitempty"`
	Tags        []string    `yaml:"tags,omitempty"`
	Media       []mediaItem `yaml:"media,omitempty"`
}

type circle struct {
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
}

type mediaItem struct {
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Caption  string `yaml:"caption,omitempty"`
	Position *int   `yaml:"position,omitempty"`
}

func toPoint(pair []float64) (geometry.Point, error) {
	if len(pair) != 2 {
		return geometry.Point{}, fmt.Errorf("coordinate %v: want [lng, lat]", pair)
	}
	return geometry.Point{Lng: pair[0], Lat: pair[1]}, nil
}

func toPoints(pairs [][]float64) ([]geometry.Point, error) {
	out := make([]geometry.Point, 0, len(pairs))
	for _, pair := range pairs {
		p, err := toPoint(pair)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func fromPoints(points []geometry.Point) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = []float64{p.Lng, p.Lat}
	}
	return out
}

// plan encodes the entry's geometry and fills in its location fields
func (e entry) plan() (db.LocationInput, *db.AreaInput, *db.TrajectoryInput, error) {
	if strings.TrimSpace(e.Name) == "" {
		return db.LocationInput{}, nil, nil, errors.New("name is required")
	}

	kind := "point"
	var anchor *geometry.Point
	var area *db.AreaInput
	var path *db.TrajectoryInput

	switch {
	case len(e.Polygon) > 0:
		vertices, err := toPoints(e.Polygon)
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		encoded, err := geometry.EncodePolygon(geometry.Polygon{Vertices: vertices})
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		c := geometry.Centroid(vertices)
		kind, anchor = "area", &c
		area = &db.AreaInput{AreaType: "polygon", Coordinates: encoded}
	case e.Circle != nil:
		center, err := toPoint(e.Circle.Center)
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		encoded, err := geometry.EncodeCircle(geometry.Circle{Center: center, Radius: e.Circle.Radius})
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		radius := e.Circle.Radius
		kind, anchor = "area", &center
		area = &db.AreaInput{AreaType: "circle", Coordinates: encoded, Radius: &radius}
	case e.Path != nil || e.Type == "trajectory":
		points, err := toPoints(e.Path)
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		encoded, err := geometry.EncodePath(geometry.Path{Points: points})
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		kind = "trajectory"
		if len(points) > 0 {
			anchor = &points[0]
		}
		path = &db.TrajectoryInput{PathCoordinates: encoded}
	}
	if e.Type != "" && e.Type != kind {
		return db.LocationInput{}, nil, nil, fmt.Errorf("type %s does not match the geometry given (%s)", e.Type, kind)
	}
	for j, m := range e.Media {
		if err := content.CheckMediaType(m.Type); err != nil {
			return db.LocationInput{}, nil, nil, fmt.Errorf("media %d: %w", j+1, err)
		}
	}

	var at geometry.Point
	switch {
	case e.At != nil:
		p, err := toPoint(e.At)
		if err != nil {
			return db.LocationInput{}, nil, nil, err
		}
		at = p
	case anchor != nil:
		at = *anchor
	default:
		return db.LocationInput{}, nil, nil, errors.New("at is required for a point")
	}

	in := db.LocationInput{Name: e.Name, LocationType: kind, Longitude: at.Lng, Latitude: at.Lat}
	if e.Description != "" {
		in.Description = &e.Description
	}
	if e.VisitDate != "" {
		in.VisitDate = &e.VisitDate
	}
	if e.IconColor != "" {
		in.IconColor = &e.IconColor
	}
	if e.IconURL != "" {
		in.IconURL = &e.IconURL
	}
	return in, area, path, nil
}

// importResult counts what an import stored
type importResult struct {
	Locations int
	Media     int
	Tags      int
}

// importEntries stores every entry through the collection. A failing entry is
// reported and the rest are still imported.
func importEntries(ctx context.Context, c *collection.Collection, tags []db.Tag, entries []entry) (importResult, error) {
	var res importResult
	var errs []error

	byName := make(map[string]string, len(tags))
	for _, t := range tags {
		byName[strings.ToLower(t.Name)] = t.ID
	}

	for i, e := range entries {
		fail := func(err error) {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, e.Name, err))
		}

		in, area, path, err := e.plan()
		if err != nil {
			fail(err)
			continue
		}
		id, ok := c.CreateLocation(ctx, in)
		if !ok {
			fail(c.WriteErr())
			continue
		}
		res.Locations++

		if area != nil {
			area.LocationID = id
			if !c.CreateArea(ctx, *area) {
				fail(c.WriteErr())
			}
		}
		if path != nil {
			path.LocationID = id
			if !c.CreateTrajectory(ctx, *path) {
				fail(c.WriteErr())
			}
		}

		for order, m := range e.Media {
			mi := db.MediaInput{LocationID: id, MediaType: m.Type, URL: m.URL, Position: m.Position, SortOrder: order}
			if m.Caption != "" {
				caption := m.Caption
				mi.Caption = &caption
			}
			if !c.CreateMedia(ctx, mi) {
				fail(c.WriteErr())
				continue
			}
			res.Media++
		}

		for _, name := range e.Tags {
			name = strings.TrimPrefix(strings.TrimSpace(name), "#")
			tagID, known := byName[strings.ToLower(name)]
			if !known {
				tagID, ok = c.CreateTag(ctx, name, "")
				if !ok {
					fail(c.WriteErr())
					continue
				}
				byName[strings.ToLower(name)] = tagID
				res.Tags++
			}
			if !c.TagLocation(ctx, id, tagID) {
				fail(c.WriteErr())
			}
		}
	}
	return res, errors.Join(errs...)
}

// exportEntries is the inverse of importEntries. Locations whose geometry does
// not resolve are exported with their coordinate only and reported.
func exportEntries(aggs []journal.Aggregate) (journalFile, []error) {
	out := journalFile{Locations: make([]entry, 0, len(aggs))}
	var errs []error
	for _, a := range aggs {
		e := entry{
			Name: a.Name,
			Type: a.LocationType,
			At:   []float64{a.Longitude, a.Latitude},
		}
		if a.Description != nil {
			e.Description = *a.Description
		}
		if a.VisitDate != nil {
			e.VisitDate = *a.VisitDate
		}
		if a.IconColor != nil {
			e.IconColor = *a.IconColor
		}
		if a.IconURL != nil {
			e.IconURL = *a.IconURL
		}
		for _, t := range a.Tags {
			e.Tags = append(e.Tags, t.Name)
		}
		for _, m := range a.Media {
			item := mediaItem{Type: m.MediaType, URL: m.URL, Position: m.Position}
			if m.Caption != nil {
				item.Caption = *m.Caption
			}
			e.Media = append(e.Media, item)
		}

		g, err := journal.Resolve(a)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
			e.Type = ""
			out.Locations = append(out.Locations, e)
			continue
		}
		switch g := g.(type) {
		case journal.AreaGeometry:
			switch shape := g.Shape.(type) {
			case geometry.Polygon:
				e.Polygon = fromPoints(shape.Vertices)
			case geometry.Circle:
				e.Circle = &circle{Center: []float64{shape.Center.Lng, shape.Center.Lat}, Radius: shape.Radius}
			}
		case journal.TrajectoryGeometry:
			e.Path = fromPoints(g.Path.Points)
		}
		out.Locations = append(out.Locations, e)
	}
	return out, errs
}
