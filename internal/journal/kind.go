package journal

import "fmt"

// Kind is the geometry family of a location
type Kind int

const (
	KindPoint Kind = iota + 1
	KindArea
	KindTrajectory
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindArea:
		return "area"
	case KindTrajectory:
		return "trajectory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a stored location_type onto a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "point":
		return KindPoint, nil
	case "area":
		return KindArea, nil
	case "trajectory":
		return KindTrajectory, nil
	default:
		return 0, fmt.Errorf("%w: location type %q", ErrUnknownKind, s)
	}
}

// AreaKind is the shape family of an area row
type AreaKind int

const (
	AreaPolygon AreaKind = iota + 1
	AreaCircle
)

func (k AreaKind) String() string {
	switch k {
	case AreaPolygon:
		return "polygon"
	case AreaCircle:
		return "circle"
	default:
		return fmt.Sprintf("area_kind(%d)", int(k))
	}
}

// ParseAreaKind maps a stored area_type onto an AreaKind
func ParseAreaKind(s string) (AreaKind, error) {
	switch s {
	case "polygon":
		return AreaPolygon, nil
	case "circle":
		return AreaCircle, nil
	default:
		return 0, fmt.Errorf("%w: area type %q", ErrUnknownKind, s)
	}
}
