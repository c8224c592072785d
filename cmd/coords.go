package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"geojournal/internal/geometry"
)

// parsePoint reads "lng,lat"
func parsePoint(s string) (geometry.Point, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("coordinate %q: want lng,lat", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("coordinate %q: longitude: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("coordinate %q: latitude: %w", s, err)
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return geometry.Point{}, fmt.Errorf("coordinate %q: out of range", s)
	}
	return geometry.Point{Lng: lng, Lat: lat}, nil
}

// parsePoints reads "lng,lat;lng,lat;..." (spaces also separate pairs)
func parsePoints(s string) ([]geometry.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ' ' })
	points := make([]geometry.Point, 0, len(fields))
	for _, f := range fields {
		p, err := parsePoint(f)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
