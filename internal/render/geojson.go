package render

import (
	"geojournal/internal/geometry"
	"geojournal/internal/journal"
)

// FeatureCollection is a GeoJSON FeatureCollection
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON Feature
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON geometry object
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Position is a GeoJSON [longitude, latitude] pair
type Position [2]float64

func position(p geometry.Point) Position { return Position{p.Lng, p.Lat} }

func positions(points []geometry.Point) []Position {
	out := make([]Position, len(points))
	for i, p := range points {
		out[i] = position(p)
	}
	return out
}

// GeoJSON exports one feature per location. Polygons become closed rings,
// circles become points carrying radius_m, trajectories with fewer than two
// points fall back to their location coordinate. Locations whose geometry does
// not resolve are returned as failures and left out.
func GeoJSON(aggs []journal.Aggregate) (*FeatureCollection, []Failure) {
	fc := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(aggs))}
	var failures []Failure

	for _, a := range aggs {
		g, err := journal.Resolve(a)
		if err != nil {
			failures = append(failures, Failure{LocationID: a.ID, Name: a.Name, Err: err, Reason: err.Error()})
			continue
		}
		props := properties(a)

		var geom Geometry
		switch g := g.(type) {
		case journal.PointGeometry:
			geom = Geometry{Type: "Point", Coordinates: position(g.At)}
		case journal.AreaGeometry:
			props["area_type"] = g.Kind.String()
			props["fill_color"] = g.Row.FillColor
			props["stroke_color"] = g.Row.StrokeColor
			switch shape := g.Shape.(type) {
			case geometry.Polygon:
				geom = Geometry{Type: "Polygon", Coordinates: [][]Position{closedRing(shape.Vertices)}}
			case geometry.Circle:
				props["radius_m"] = shape.Radius
				geom = Geometry{Type: "Point", Coordinates: position(shape.Center)}
			}
		case journal.TrajectoryGeometry:
			props["stroke_color"] = g.Row.StrokeColor
			props["stroke_weight"] = g.Row.StrokeWeight
			props["point_count"] = len(g.Path.Points)
			if len(g.Path.Points) < 2 {
				geom = Geometry{Type: "Point", Coordinates: position(a.Position())}
			} else {
				geom = Geometry{Type: "LineString", Coordinates: positions(g.Path.Points)}
			}
		}

		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			ID:         a.ID,
			Geometry:   geom,
			Properties: props,
		})
	}
	return fc, failures
}

func properties(a journal.Aggregate) map[string]any {
	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, t.Name)
	}
	props := map[string]any{
		"name":          a.Name,
		"location_type": a.LocationType,
		"media_count":   len(a.Media),
		"tags":          tags,
	}
	if a.Description != nil {
		props["description"] = *a.Description
	}
	if a.VisitDate != nil {
		props["visit_date"] = *a.VisitDate
	}
	if a.IconColor != nil {
		props["icon_color"] = *a.IconColor
	}
	return props
}

func closedRing(vertices []geometry.Point) []Position {
	ring := positions(vertices)
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}
