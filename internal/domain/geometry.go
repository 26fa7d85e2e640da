package domain

import (
	"fmt"
	"strings"
)

// Point is a 2D coordinate in some spatial reference system. Which system is
// tracked by the surrounding context (BoundingBox, Ring), not the point.
type Point struct {
	X float64
	Y float64
}

// Ring is an ordered sequence of points describing one polygon boundary
// (outer or inner). A ring is closed iff its first and last point are equal.
type Ring []Point

// Closed reports whether the ring's first and last vertices coincide.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Close returns the ring with the first vertex appended if it is not already
// closed. The receiver is not mutated.
func (r Ring) Close() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	out := make(Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

// DistinctVertices counts vertices ignoring the closing duplicate and any
// consecutive repeats.
func (r Ring) DistinctVertices() int {
	seen := make(map[Point]struct{}, len(r))
	for _, p := range r {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// Centroid returns the vertex average of the ring. For a closed ring the
// duplicated end vertex is excluded so it does not skew the result.
func (r Ring) Centroid() Point {
	pts := r
	if r.Closed() {
		pts = r[:len(r)-1]
	}
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}
}

// BoundingBox is an axis-aligned rectangle in a given spatial reference
// system. Invariant: MinX < MaxX and MinY < MaxY. Immutable once constructed.
type BoundingBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
	SR   SpatialReference
}

// NewBoundingBox validates the rectangle invariant and returns the box.
func NewBoundingBox(minX, minY, maxX, maxY float64, sr SpatialReference) (BoundingBox, error) {
	if minX >= maxX || minY >= maxY {
		return BoundingBox{}, &OpError{
			Op:   "domain.bbox",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("degenerate extent (%g,%g,%g,%g): need xmin < xmax and ymin < ymax", minX, minY, maxX, maxY),
		}
	}
	return BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, SR: sr}, nil
}

// Zone selects the Ohio State Plane zone of the output drawing.
type Zone string

const (
	ZoneNorth Zone = "north"
	ZoneSouth Zone = "south"
)

// ParseZone maps user input to a Zone.
func ParseZone(s string) (Zone, error) {
	switch Zone(strings.ToLower(strings.TrimSpace(s))) {
	case ZoneNorth:
		return ZoneNorth, nil
	case ZoneSouth:
		return ZoneSouth, nil
	default:
		return "", &OpError{
			Op:   "domain.zone",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("unknown zone %q (expected north|south)", s),
		}
	}
}

// Attributes holds the requested attribute fields of one feature.
type Attributes map[string]any

// String renders an attribute as text, with missing or nil values becoming
// the empty string rather than an error.
func (a Attributes) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// RawFeature is one record as returned by the feature service: ring
// geometry in the service's spatial reference plus requested attributes.
type RawFeature struct {
	Rings      []Ring
	Attributes Attributes
}

// ParcelPolygon is one assembled parcel: closed rings in the regional
// spatial reference plus the feature's attributes. Never mutated after
// assembly.
type ParcelPolygon struct {
	Rings      []Ring
	Attributes Attributes
}
