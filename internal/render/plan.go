package render

import (
	"context"
	"errors"
	"fmt"

	"geojournal/internal/geometry"
	"geojournal/internal/journal"
)

// FocusZoom is the zoom level used when centring on a selected location
const FocusZoom = 12

// Failure is a location left off the map
type Failure struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
	Err        error  `json:"-"`
	Reason     string `json:"reason"`
}

// Plan is the full overlay set for one render
type Plan struct {
	Overlays []Overlay `json:"overlays"`
	Failures []Failure `json:"failures"`
}

// BuildPlan resolves every aggregate into overlays. selectedID enlarges the
// markers of that location.
func BuildPlan(aggs []journal.Aggregate, selectedID string) Plan {
	p := Plan{Overlays: []Overlay{}, Failures: []Failure{}}
	for _, a := range aggs {
		overlays, err := Overlays(a, a.ID == selectedID)
		if err != nil {
			p.Failures = append(p.Failures, Failure{LocationID: a.ID, Name: a.Name, Err: err, Reason: err.Error()})
			continue
		}
		p.Overlays = append(p.Overlays, overlays...)
	}
	return p
}

// Overlays resolves one aggregate
func Overlays(a journal.Aggregate, selected bool) ([]Overlay, error) {
	g, err := journal.Resolve(a)
	if err != nil {
		return nil, err
	}
	size := MarkerSize
	if selected {
		size = SelectedMarkerSize
	}
	marker := newMarker(a, a.Position(), size)

	switch g := g.(type) {
	case journal.PointGeometry:
		marker.At = g.At
		return []Overlay{marker}, nil
	case journal.AreaGeometry:
		style := areaStyle(g.Row)
		switch shape := g.Shape.(type) {
		case geometry.Polygon:
			return []Overlay{PolygonOverlay{LocationID: a.ID, Vertices: shape.Vertices, Style: style}, marker}, nil
		case geometry.Circle:
			return []Overlay{CircleOverlay{LocationID: a.ID, Center: shape.Center, Radius: shape.Radius, Style: style}, marker}, nil
		default:
			return nil, fmt.Errorf("location %s: unexpected area shape %T", a.ID, shape)
		}
	case journal.TrajectoryGeometry:
		out := []Overlay{Polyline{LocationID: a.ID, Path: g.Path.Points, Style: pathStyle(g.Row)}}
		if len(g.Path.Points) > 0 {
			start := newMarker(a, g.Path.Points[0], StartMarkerSize)
			start.Title = a.Name + " - start"
			out = append(out, start)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("location %s: unexpected geometry %T", a.ID, g)
	}
}

func newMarker(a journal.Aggregate, at geometry.Point, size int) Marker {
	m := Marker{LocationID: a.ID, At: at, Title: a.Name, Size: size}
	if a.IconURL != nil && *a.IconURL != "" {
		m.IconURL = *a.IconURL
	} else {
		m.IconColor = DefaultIconColor
		if a.IconColor != nil && *a.IconColor != "" {
			m.IconColor = *a.IconColor
		}
	}
	return m
}

// Handle identifies an overlay placed on a Map
type Handle string

// Map is the widget overlays are drawn on
type Map interface {
	Add(ctx context.Context, o Overlay) (Handle, error)
	Remove(ctx context.Context, h Handle) error
	Center(ctx context.Context, at geometry.Point, zoom int) error
}

// Apply removes the overlays in previous and adds every overlay in p. It
// returns the handles of what was added. An overlay that fails to add is
// skipped and reported in the joined error.
func Apply(ctx context.Context, m Map, previous []Handle, p Plan) ([]Handle, error) {
	var errs []error
	for _, h := range previous {
		if err := m.Remove(ctx, h); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", h, err))
		}
	}
	handles := make([]Handle, 0, len(p.Overlays))
	for _, o := range p.Overlays {
		if err := ctx.Err(); err != nil {
			return handles, errors.Join(append(errs, err)...)
		}
		h, err := m.Add(ctx, o)
		if err != nil {
			errs = append(errs, fmt.Errorf("adding %s for %s: %w", o.Kind(), o.Location(), err))
			continue
		}
		handles = append(handles, h)
	}
	return handles, errors.Join(errs...)
}

// Focus centres the map on a location
func Focus(ctx context.Context, m Map, a journal.Aggregate) error {
	return m.Center(ctx, a.Position(), FocusZoom)
}
