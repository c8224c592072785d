package journal

import (
	"errors"
	"fmt"

	"geojournal/internal/db"
	"geojournal/internal/geometry"
)

var (
	// ErrUnknownKind is returned for a type discriminator outside the known set
	ErrUnknownKind = errors.New("unknown type")
	// ErrMissingGeometry is returned for an area or trajectory location with no geometry row
	ErrMissingGeometry = errors.New("missing geometry")
)

// Aggregate is a location with every row that belongs to it. The slices are
// never nil. Aggregates are treated as values: code that changes one builds a
// new slice rather than writing into a shared one.
type Aggregate struct {
	db.Location
	Areas        []db.Area       `json:"areas"`
	Trajectories []db.Trajectory `json:"trajectories"`
	Media        []db.Media      `json:"media"`
	Tags         []db.Tag        `json:"tags"`
}

// Kind parses the location's type discriminator
func (a Aggregate) Kind() (Kind, error) {
	return ParseKind(a.LocationType)
}

// Position returns the location's anchor coordinate
func (a Aggregate) Position() geometry.Point {
	return geometry.Point{Lng: a.Longitude, Lat: a.Latitude}
}

// Geometry is the resolved shape of a location: PointGeometry, AreaGeometry or TrajectoryGeometry.
type Geometry interface {
	geometryKind() Kind
}

// PointGeometry is a bare marker
type PointGeometry struct {
	At geometry.Point
}

// AreaGeometry is the first area of an area location, decoded
type AreaGeometry struct {
	Kind  AreaKind
	Shape geometry.Shape // geometry.Polygon or geometry.Circle
	Row   db.Area
}

// TrajectoryGeometry is the first trajectory of a trajectory location, decoded
type TrajectoryGeometry struct {
	Path geometry.Path
	Row  db.Trajectory
}

func (PointGeometry) geometryKind() Kind      { return KindPoint }
func (AreaGeometry) geometryKind() Kind       { return KindArea }
func (TrajectoryGeometry) geometryKind() Kind { return KindTrajectory }

// Resolve decodes the geometry a location is drawn with. Only the first area or
// trajectory row is used. Decode failures come back as *geometry.DecodeError.
func Resolve(a Aggregate) (Geometry, error) {
	kind, err := a.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindPoint:
		return PointGeometry{At: a.Position()}, nil
	case KindArea:
		if len(a.Areas) == 0 {
			return nil, fmt.Errorf("location %s: %w: no area row", a.ID, ErrMissingGeometry)
		}
		return DecodeArea(a.Areas[0])
	case KindTrajectory:
		if len(a.Trajectories) == 0 {
			return nil, fmt.Errorf("location %s: %w: no trajectory row", a.ID, ErrMissingGeometry)
		}
		row := a.Trajectories[0]
		path, err := geometry.DecodePath(row.PathCoordinates)
		if err != nil {
			return nil, err
		}
		return TrajectoryGeometry{Path: path, Row: row}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// DecodeArea decodes one area row into its shape
func DecodeArea(row db.Area) (AreaGeometry, error) {
	kind, err := ParseAreaKind(row.AreaType)
	if err != nil {
		return AreaGeometry{}, err
	}
	switch kind {
	case AreaPolygon:
		p, err := geometry.DecodePolygon(row.Coordinates)
		if err != nil {
			return AreaGeometry{}, err
		}
		return AreaGeometry{Kind: kind, Shape: p, Row: row}, nil
	case AreaCircle:
		c, err := geometry.DecodeCircle(row.Coordinates, row.Radius)
		if err != nil {
			return AreaGeometry{}, err
		}
		return AreaGeometry{Kind: kind, Shape: c, Row: row}, nil
	default:
		return AreaGeometry{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// Clone returns a copy whose slices do not alias the receiver's
func (a Aggregate) Clone() Aggregate {
	out := a
	out.Areas = append([]db.Area{}, a.Areas...)
	out.Trajectories = append([]db.Trajectory{}, a.Trajectories...)
	out.Media = append([]db.Media{}, a.Media...)
	out.Tags = append([]db.Tag{}, a.Tags...)
	return out
}
