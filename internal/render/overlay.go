// Package render turns aggregates into map overlays and exports.
//
// A location draws as one of:
//
//	point       marker
//	polygon     polygon + marker at the location coordinate
//	circle      circle + marker at the location coordinate
//	trajectory  polyline + smaller marker at the first path point
//
// Only the first area or trajectory row of a location is drawn. A location
// whose geometry cannot be resolved is reported in Plan.Failures and the rest
// still draw.
package render

import (
	"encoding/json"

	"geojournal/internal/db"
	"geojournal/internal/geometry"
)

// Marker sizes in pixels
const (
	MarkerSize         = 28
	SelectedMarkerSize = 36
	StartMarkerSize    = 24
)

// Area and path styling
const (
	AreaStrokeWeight = 2.0
	StrokeOpacity    = 0.8
	FillOpacity      = 0.3
	DefaultIconColor = "#1d1d1f"
)

// Overlay is one drawable: Marker, PolygonOverlay, CircleOverlay or Polyline
type Overlay interface {
	Kind() string
	Location() string
	overlay()
}

// Style is the stroke and fill of a shape overlay
type Style struct {
	StrokeColor   string  `json:"stroke_color"`
	StrokeWeight  float64 `json:"stroke_weight"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	FillColor     string  `json:"fill_color,omitempty"`
	FillOpacity   float64 `json:"fill_opacity,omitempty"`
}

// Marker is an icon pinned at a coordinate. IconURL wins over IconColor.
type Marker struct {
	LocationID string         `json:"location_id"`
	At         geometry.Point `json:"at"`
	Title      string         `json:"title"`
	Size       int            `json:"size"`
	IconURL    string         `json:"icon_url,omitempty"`
	IconColor  string         `json:"icon_color,omitempty"`
}

// PolygonOverlay is a filled polygon
type PolygonOverlay struct {
	LocationID string           `json:"location_id"`
	Vertices   []geometry.Point `json:"vertices"`
	Style
}

// CircleOverlay is a filled circle, radius in meters
type CircleOverlay struct {
	LocationID string         `json:"location_id"`
	Center     geometry.Point `json:"center"`
	Radius     float64        `json:"radius"`
	Style
}

// Polyline is a path drawn in travel order
type Polyline struct {
	LocationID string           `json:"location_id"`
	Path       []geometry.Point `json:"path"`
	Style
}

func (Marker) overlay()         {}
func (PolygonOverlay) overlay() {}
func (CircleOverlay) overlay()  {}
func (Polyline) overlay()       {}

func (Marker) Kind() string         { return "marker" }
func (PolygonOverlay) Kind() string { return "polygon" }
func (CircleOverlay) Kind() string  { return "circle" }
func (Polyline) Kind() string       { return "polyline" }

func (o Marker) Location() string         { return o.LocationID }
func (o PolygonOverlay) Location() string { return o.LocationID }
func (o CircleOverlay) Location() string  { return o.LocationID }
func (o Polyline) Location() string       { return o.LocationID }

// MarshalJSON adds the overlay kind as "type"
func (o Marker) MarshalJSON() ([]byte, error) {
	type alias Marker
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{o.Kind(), alias(o)})
}

// MarshalJSON adds the overlay kind as "type"
func (o PolygonOverlay) MarshalJSON() ([]byte, error) {
	type alias PolygonOverlay
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{o.Kind(), alias(o)})
}

// MarshalJSON adds the overlay kind as "type"
func (o CircleOverlay) MarshalJSON() ([]byte, error) {
	type alias CircleOverlay
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{o.Kind(), alias(o)})
}

// MarshalJSON adds the overlay kind as "type"
func (o Polyline) MarshalJSON() ([]byte, error) {
	type alias Polyline
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{o.Kind(), alias(o)})
}

func areaStyle(row db.Area) Style {
	return Style{
		StrokeColor:   orDefault(row.StrokeColor, db.DefaultStrokeColor),
		StrokeWeight:  AreaStrokeWeight,
		StrokeOpacity: StrokeOpacity,
		FillColor:     orDefault(row.FillColor, db.DefaultFillColor),
		FillOpacity:   FillOpacity,
	}
}

func pathStyle(row db.Trajectory) Style {
	weight := row.StrokeWeight
	if weight <= 0 {
		weight = db.DefaultStrokeWeight
	}
	return Style{
		StrokeColor:   orDefault(row.StrokeColor, db.DefaultStrokeColor),
		StrokeWeight:  weight,
		StrokeOpacity: StrokeOpacity,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
