package session

import (
	"fmt"

	"geojournal/internal/db"
	"geojournal/internal/geometry"
	"geojournal/internal/journal"
)

// PointClicked turns a map click into a point draft. The point tool stays active.
func (s *Session) PointClicked(at geometry.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(DrawingPoint); err != nil {
		return err
	}
	d := s.newDraft(s.defaults.PointName, journal.KindPoint, at)
	s.setDraft(d)
	return nil
}

// PolygonClosed turns a closed polygon into an area draft centred on the
// vertex mean and returns to Idle.
func (s *Session) PolygonClosed(vertices []geometry.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(DrawingPolygon); err != nil {
		return err
	}
	coords, err := geometry.EncodePolygon(geometry.Polygon{Vertices: vertices})
	if err != nil {
		return fmt.Errorf("polygon gesture: %w", err)
	}
	d := s.newDraft(s.defaults.AreaName, journal.KindArea, geometry.Centroid(vertices))
	d.Area = &db.AreaInput{
		AreaType:    journal.AreaPolygon.String(),
		Coordinates: coords,
		FillColor:   s.defaults.FillColor,
		StrokeColor: s.defaults.StrokeColor,
	}
	s.setDraft(d)
	s.mode = Idle
	return nil
}

// CircleDrawn turns a drawn circle into an area draft at its centre and
// returns to Idle. The radius travels beside the encoded centre.
func (s *Session) CircleDrawn(center geometry.Point, radius float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(DrawingCircle); err != nil {
		return err
	}
	coords, err := geometry.EncodeCircle(geometry.Circle{Center: center, Radius: radius})
	if err != nil {
		return fmt.Errorf("circle gesture: %w", err)
	}
	d := s.newDraft(s.defaults.AreaName, journal.KindArea, center)
	d.Area = &db.AreaInput{
		AreaType:    journal.AreaCircle.String(),
		Coordinates: coords,
		Radius:      &radius,
		FillColor:   s.defaults.FillColor,
		StrokeColor: s.defaults.StrokeColor,
	}
	s.setDraft(d)
	s.mode = Idle
	return nil
}

// expect checks the editor is drawing with tool m; s.mu must be held
func (s *Session) expect(m Mode) error {
	if !s.editing {
		return ErrNotEditing
	}
	if s.mode != m {
		return fmt.Errorf("%w: in %s mode, got a %s gesture", ErrWrongMode, s.mode, m)
	}
	return nil
}

func (s *Session) newDraft(name string, kind journal.Kind, at geometry.Point) Draft {
	visited := s.now().Format("2006-01-02")
	color := s.defaults.IconColor
	loc := db.LocationInput{
		Name:         name,
		Longitude:    at.Lng,
		Latitude:     at.Lat,
		LocationType: kind.String(),
		VisitDate:    &visited,
	}
	if color != "" {
		loc.IconColor = &color
	}
	return Draft{Location: loc}
}

// setDraft stores d and clears the selection; s.mu must be held
func (s *Session) setDraft(d Draft) {
	s.draft = &d
	s.selected = ""
}
