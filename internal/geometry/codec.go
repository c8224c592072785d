package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeError reports a stored coordinates string that does not decode to a
// well-formed shape.
type DecodeError struct {
	Shape  string // "polygon", "circle", "path"
	Input  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	input := e.Input
	if len(input) > 64 {
		input = input[:64] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("decoding %s coordinates %q: %s: %v", e.Shape, input, e.Reason, e.Err)
	}
	return fmt.Sprintf("decoding %s coordinates %q: %s", e.Shape, input, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrInvalidShape is returned when encoding a shape that could not be decoded back.
var ErrInvalidShape = errors.New("invalid shape")

// EncodePolygon encodes the vertices as a JSON array of [lng, lat] pairs.
func EncodePolygon(p Polygon) (string, error) {
	if len(p.Vertices) < MinPolygonVertices {
		return "", fmt.Errorf("%w: polygon has %d vertices, need at least %d", ErrInvalidShape, len(p.Vertices), MinPolygonVertices)
	}
	return encodePoints(p.Vertices)
}

// DecodePolygon is the inverse of EncodePolygon.
func DecodePolygon(s string) (Polygon, error) {
	points, err := decodePoints("polygon", s)
	if err != nil {
		return Polygon{}, err
	}
	if len(points) < MinPolygonVertices {
		return Polygon{}, &DecodeError{
			Shape:  "polygon",
			Input:  s,
			Reason: fmt.Sprintf("%d vertices, need at least %d", len(points), MinPolygonVertices),
		}
	}
	return Polygon{Vertices: points}, nil
}

// EncodeCircle encodes only the centre pair. The radius is stored separately.
func EncodeCircle(c Circle) (string, error) {
	if !c.Center.valid() {
		return "", fmt.Errorf("%w: circle centre is not finite", ErrInvalidShape)
	}
	if !(c.Radius > 0) {
		return "", fmt.Errorf("%w: circle radius %v must be positive", ErrInvalidShape, c.Radius)
	}
	b, err := json.Marshal(c.Center)
	if err != nil {
		return "", fmt.Errorf("encoding circle centre: %w", err)
	}
	return string(b), nil
}

// DecodeCircle decodes a centre pair and joins it with the separately stored radius.
// A missing or non-positive radius is a decode failure.
func DecodeCircle(s string, radius *float64) (Circle, error) {
	var center Point
	if err := json.Unmarshal([]byte(s), &center); err != nil {
		return Circle{}, &DecodeError{Shape: "circle", Input: s, Reason: "bad centre", Err: err}
	}
	if !center.valid() {
		return Circle{}, &DecodeError{Shape: "circle", Input: s, Reason: "centre is not finite"}
	}
	if radius == nil {
		return Circle{}, &DecodeError{Shape: "circle", Input: s, Reason: "missing radius"}
	}
	if !(*radius > 0) {
		return Circle{}, &DecodeError{Shape: "circle", Input: s, Reason: fmt.Sprintf("radius %v is not positive", *radius)}
	}
	return Circle{Center: center, Radius: *radius}, nil
}

// EncodePath encodes a trajectory in travel order.
func EncodePath(p Path) (string, error) {
	return encodePoints(p.Points)
}

// DecodePath is the inverse of EncodePath. An empty array is a valid, empty path.
func DecodePath(s string) (Path, error) {
	points, err := decodePoints("path", s)
	if err != nil {
		return Path{}, err
	}
	return Path{Points: points}, nil
}

func encodePoints(points []Point) (string, error) {
	for i, p := range points {
		if !p.valid() {
			return "", fmt.Errorf("%w: point %d is not finite", ErrInvalidShape, i)
		}
	}
	if points == nil {
		points = []Point{}
	}
	b, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("encoding points: %w", err)
	}
	return string(b), nil
}

func decodePoints(shape, s string) ([]Point, error) {
	var points []Point
	if err := json.Unmarshal([]byte(s), &points); err != nil {
		return nil, &DecodeError{Shape: shape, Input: s, Reason: "not a list of [lng, lat] pairs", Err: err}
	}
	if points == nil {
		// JSON null
		return nil, &DecodeError{Shape: shape, Input: s, Reason: "null coordinates"}
	}
	for i, p := range points {
		if !p.valid() {
			return nil, &DecodeError{Shape: shape, Input: s, Reason: fmt.Sprintf("point %d is not finite", i)}
		}
	}
	return points, nil
}
