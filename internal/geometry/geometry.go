package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a WGS84 coordinate. On the wire it is a [lng, lat] pair.
type Point struct {
	Lng float64
	Lat float64
}

// MarshalJSON encodes the point as [lng, lat]
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lng, p.Lat})
}

// UnmarshalJSON decodes a [lng, lat] pair. Any other arity is rejected.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate pair has %d values, want 2", len(pair))
	}
	p.Lng, p.Lat = pair[0], pair[1]
	return nil
}

func (p Point) valid() bool {
	return !math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

// Shape is one of Polygon, Circle or Path.
type Shape interface {
	shape()
}

// Polygon is a closed area; vertices are kept in drawing order without a repeated first vertex.
type Polygon struct {
	Vertices []Point
}

// Circle is a centre plus a radius in meters. Only the centre travels in the
// coordinates string; the radius lives in its own column.
type Circle struct {
	Center Point
	Radius float64
}

// Path is an ordered travel line.
type Path struct {
	Points []Point
}

func (Polygon) shape() {}
func (Circle) shape()  {}
func (Path) shape()    {}

// MinPolygonVertices is the smallest vertex count a stored polygon may decode to.
const MinPolygonVertices = 3

// Centroid returns the arithmetic mean of the points. It returns the zero
// Point for an empty slice.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumLng, sumLat float64
	for _, p := range points {
		sumLng += p.Lng
		sumLat += p.Lat
	}
	n := float64(len(points))
	return Point{Lng: sumLng / n, Lat: sumLat / n}
}
