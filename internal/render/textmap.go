package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"geojournal/internal/geometry"
)

// TextMap is a Map that writes each operation as a line of text
type TextMap struct {
	mu   sync.Mutex
	w    io.Writer
	next int
}

// NewTextMap returns a TextMap writing to w
func NewTextMap(w io.Writer) *TextMap {
	return &TextMap{w: w}
}

// Add writes one overlay line
func (t *TextMap) Add(ctx context.Context, o Overlay) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := Handle(fmt.Sprintf("%s-%d", o.Kind(), t.next))
	_, err := fmt.Fprintf(t.w, "+ %-14s %s\n", h, describe(o))
	return h, err
}

// Remove writes one removal line
func (t *TextMap) Remove(ctx context.Context, h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "- %s\n", h)
	return err
}

// Center writes the new view
func (t *TextMap) Center(ctx context.Context, at geometry.Point, zoom int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "@ %s zoom %d\n", fmtPoint(at), zoom)
	return err
}

func describe(o Overlay) string {
	switch o := o.(type) {
	case Marker:
		icon := o.IconColor
		if o.IconURL != "" {
			icon = o.IconURL
		}
		return fmt.Sprintf("%q at %s size %d icon %s", o.Title, fmtPoint(o.At), o.Size, icon)
	case PolygonOverlay:
		return fmt.Sprintf("%d vertices stroke %s fill %s", len(o.Vertices), o.StrokeColor, o.FillColor)
	case CircleOverlay:
		return fmt.Sprintf("centre %s radius %gm stroke %s fill %s", fmtPoint(o.Center), o.Radius, o.StrokeColor, o.FillColor)
	case Polyline:
		pts := make([]string, 0, len(o.Path))
		for _, p := range o.Path {
			pts = append(pts, fmtPoint(p))
		}
		return fmt.Sprintf("path %s stroke %s weight %g", strings.Join(pts, " > "), o.StrokeColor, o.StrokeWeight)
	default:
		return o.Kind()
	}
}

func fmtPoint(p geometry.Point) string {
	return fmt.Sprintf("(%g, %g)", p.Lng, p.Lat)
}
