package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geojournal/internal/db"
	"geojournal/internal/geometry"
	"geojournal/internal/journal"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func fixture() []journal.Aggregate {
	return journal.Build(journal.Rows{
		Locations: []db.Location{
			{ID: "p", Name: "Cafe", LocationType: "point", Longitude: 1, Latitude: 2, IconColor: strPtr("#ff0000")},
			{ID: "poly", Name: "Park", LocationType: "area", Longitude: 0.5, Latitude: 0.5},
			{ID: "circ", Name: "Lake", LocationType: "area", Longitude: 121.47, Latitude: 31.23, IconURL: strPtr("https://icons/lake.png")},
			{ID: "walk", Name: "Walk", LocationType: "trajectory", Longitude: 9, Latitude: 9},
			{ID: "bad", Name: "Broken", LocationType: "area"},
			{ID: "bare", Name: "Bare", LocationType: "trajectory"},
		},
		Areas: []db.Area{
			{ID: "a1", LocationID: "poly", AreaType: "polygon", Coordinates: "[[0,0],[1,0],[1,1]]"},
			{ID: "a2", LocationID: "poly", AreaType: "circle", Coordinates: "[5,5]", Radius: f64Ptr(1)},
			{ID: "a3", LocationID: "circ", AreaType: "circle", Coordinates: "[121.47,31.23]", Radius: f64Ptr(500), FillColor: "#00ff0033", StrokeColor: "#00ff00"},
			{ID: "a4", LocationID: "bad", AreaType: "polygon", Coordinates: "not json"},
		},
		Trajectories: []db.Trajectory{
			{ID: "t1", LocationID: "walk", PathCoordinates: "[[3,4],[5,6]]", StrokeColor: "#123456", StrokeWeight: 6},
		},
	})
}

func TestBuildPlan(t *testing.T) {
	p := BuildPlan(fixture(), "circ")

	var kinds []string
	for _, o := range p.Overlays {
		kinds = append(kinds, o.Kind()+":"+o.Location())
	}
	assert.Equal(t, []string{
		"marker:p",
		"polygon:poly", "marker:poly",
		"circle:circ", "marker:circ",
		"polyline:walk", "marker:walk",
	}, kinds)

	require.Len(t, p.Failures, 2)
	assert.Equal(t, "bad", p.Failures[0].LocationID)
	var de *geometry.DecodeError
	assert.True(t, errors.As(p.Failures[0].Err, &de))
	assert.Equal(t, "bare", p.Failures[1].LocationID)
	assert.True(t, errors.Is(p.Failures[1].Err, journal.ErrMissingGeometry))
}

func TestBuildPlan_Styling(t *testing.T) {
	p := BuildPlan(fixture(), "circ")

	point := p.Overlays[0].(Marker)
	assert.Equal(t, MarkerSize, point.Size)
	assert.Equal(t, "#ff0000", point.IconColor)
	assert.Equal(t, geometry.Point{Lng: 1, Lat: 2}, point.At)

	poly := p.Overlays[1].(PolygonOverlay)
	assert.Len(t, poly.Vertices, 3, "only the first area is drawn")
	assert.Equal(t, db.DefaultStrokeColor, poly.StrokeColor)
	assert.Equal(t, db.DefaultFillColor, poly.FillColor)
	assert.Equal(t, AreaStrokeWeight, poly.StrokeWeight)
	assert.Equal(t, FillOpacity, poly.FillOpacity)
	assert.Equal(t, DefaultIconColor, p.Overlays[2].(Marker).IconColor)

	circle := p.Overlays[3].(CircleOverlay)
	assert.Equal(t, 500.0, circle.Radius)
	assert.Equal(t, "#00ff00", circle.StrokeColor)
	selected := p.Overlays[4].(Marker)
	assert.Equal(t, SelectedMarkerSize, selected.Size)
	assert.Equal(t, "https://icons/lake.png", selected.IconURL)
	assert.Empty(t, selected.IconColor)

	line := p.Overlays[5].(Polyline)
	assert.Equal(t, 6.0, line.StrokeWeight)
	assert.Equal(t, StrokeOpacity, line.StrokeOpacity)
	start := p.Overlays[6].(Marker)
	assert.Equal(t, StartMarkerSize, start.Size)
	assert.Equal(t, geometry.Point{Lng: 3, Lat: 4}, start.At)
}

func TestOverlays_EmptyPathHasNoStartMarker(t *testing.T) {
	a := journal.Build(journal.Rows{
		Locations:    []db.Location{{ID: "w", LocationType: "trajectory"}},
		Trajectories: []db.Trajectory{{LocationID: "w", PathCoordinates: "[]"}},
	})[0]
	out, err := Overlays(a, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, db.DefaultStrokeWeight, out[0].(Polyline).StrokeWeight)
}

func TestPlan_JSON(t *testing.T) {
	b, err := json.Marshal(BuildPlan(fixture()[:3], ""))
	require.NoError(t, err)

	var decoded struct {
		Overlays []map[string]any `json:"overlays"`
		Failures []map[string]any `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.Overlays, 5)
	assert.Equal(t, "marker", decoded.Overlays[0]["type"])
	assert.Equal(t, []any{1.0, 2.0}, decoded.Overlays[0]["at"])
	assert.Equal(t, "polygon", decoded.Overlays[1]["type"])
	assert.Equal(t, 0.8, decoded.Overlays[1]["stroke_opacity"])
	assert.Equal(t, "circle", decoded.Overlays[3]["type"])
	assert.Empty(t, decoded.Failures)
}

type fakeMap struct {
	added   []Overlay
	removed []Handle
	center  *geometry.Point
	zoom    int
	failOn  string
}

func (m *fakeMap) Add(ctx context.Context, o Overlay) (Handle, error) {
	if o.Kind() == m.failOn {
		return "", errors.New("widget refused")
	}
	m.added = append(m.added, o)
	return Handle(o.Kind() + "@" + o.Location()), nil
}

func (m *fakeMap) Remove(ctx context.Context, h Handle) error {
	m.removed = append(m.removed, h)
	return nil
}

func (m *fakeMap) Center(ctx context.Context, at geometry.Point, zoom int) error {
	m.center = &at
	m.zoom = zoom
	return nil
}

func TestApply(t *testing.T) {
	m := &fakeMap{}
	ctx := context.Background()
	handles, err := Apply(ctx, m, nil, BuildPlan(fixture(), ""))
	require.NoError(t, err)
	assert.Len(t, handles, 7)

	m.failOn = "circle"
	next, err := Apply(ctx, m, handles, BuildPlan(fixture(), ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circ")
	assert.Len(t, next, 6)
	assert.Equal(t, handles, m.removed)
}

func TestApply_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handles, err := Apply(ctx, &fakeMap{}, nil, BuildPlan(fixture(), ""))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, handles)
}

func TestFocus(t *testing.T) {
	m := &fakeMap{}
	require.NoError(t, Focus(context.Background(), m, fixture()[2]))
	require.NotNil(t, m.center)
	assert.Equal(t, geometry.Point{Lng: 121.47, Lat: 31.23}, *m.center)
	assert.Equal(t, FocusZoom, m.zoom)
}

func TestTextMap(t *testing.T) {
	var buf bytes.Buffer
	tm := NewTextMap(&buf)
	ctx := context.Background()
	handles, err := Apply(ctx, tm, nil, BuildPlan(fixture()[:1], "p"))
	require.NoError(t, err)
	require.NoError(t, Focus(ctx, tm, fixture()[0]))
	_, err = Apply(ctx, tm, handles, Plan{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `+ marker-1`)
	assert.Contains(t, out, `"Cafe" at (1, 2) size 36 icon #ff0000`)
	assert.Contains(t, out, "@ (1, 2) zoom 12")
	assert.Contains(t, out, "- marker-1")
}

func TestGeoJSON(t *testing.T) {
	fc, failures := GeoJSON(fixture())
	assert.Len(t, failures, 2)
	require.Len(t, fc.Features, 4)
	assert.Equal(t, "FeatureCollection", fc.Type)

	byID := map[string]Feature{}
	for _, f := range fc.Features {
		byID[f.ID] = f
	}

	assert.Equal(t, "Point", byID["p"].Geometry.Type)
	assert.Equal(t, Position{1, 2}, byID["p"].Geometry.Coordinates)

	poly := byID["poly"].Geometry
	assert.Equal(t, "Polygon", poly.Type)
	ring := poly.Coordinates.([][]Position)[0]
	assert.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[3], "ring is closed")

	circ := byID["circ"]
	assert.Equal(t, "Point", circ.Geometry.Type)
	assert.Equal(t, 500.0, circ.Properties["radius_m"])
	assert.Equal(t, "circle", circ.Properties["area_type"])

	walk := byID["walk"]
	assert.Equal(t, "LineString", walk.Geometry.Type)
	assert.Equal(t, 2, walk.Properties["point_count"])

	b, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"FeatureCollection"`)
}
