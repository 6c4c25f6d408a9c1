// Package path defines the canonical route representation consumed by the
// corridor engine: an immutable, ordered sequence of 2-D points.
package path

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
)

// ErrInvalidPath reports a point sequence that cannot form a path:
// fewer than two points, non-finite coordinates, or consecutive
// duplicate vertices.
var ErrInvalidPath = errors.New("invalid path")

// Path is an ordered sequence of at least two points. Insertion order is
// semantically meaningful: it defines segment order and direction.
// A Path is immutable once constructed; all accessors return copies.
type Path struct {
	points []geom.Point
}

// Segment is the directed line between two consecutive path vertices.
// Segments are derived on demand, never stored.
type Segment struct {
	A, B geom.Point
}

// Length returns the planar length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.B.X-s.A.X, s.B.Y-s.A.Y)
}

// New validates pts and returns a Path backed by a private copy.
func New(pts []geom.Point) (*Path, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidPath, len(pts))
	}
	cp := make([]geom.Point, len(pts))
	copy(cp, pts)
	for i, p := range cp {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return nil, fmt.Errorf("%w: non-finite coordinate at index %d (%g, %g)",
				ErrInvalidPath, i, p.X, p.Y)
		}
		if i > 0 && p.Equals(cp[i-1]) {
			return nil, fmt.Errorf("%w: consecutive duplicate point at index %d (%g, %g)",
				ErrInvalidPath, i, p.X, p.Y)
		}
	}
	return &Path{points: cp}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Len returns the number of vertices.
func (p *Path) Len() int { return len(p.points) }

// At returns the vertex at index i.
func (p *Path) At(i int) geom.Point { return p.points[i] }

// Start returns the first vertex.
func (p *Path) Start() geom.Point { return p.points[0] }

// End returns the last vertex.
func (p *Path) End() geom.Point { return p.points[len(p.points)-1] }

// Points returns a copy of the vertex sequence.
func (p *Path) Points() []geom.Point {
	cp := make([]geom.Point, len(p.points))
	copy(cp, p.points)
	return cp
}

// LineString returns the path as a geom.LineString copy.
func (p *Path) LineString() geom.LineString {
	return geom.LineString(p.Points())
}

// Segments returns the derived segment sequence, length Len()-1.
func (p *Path) Segments() []Segment {
	segs := make([]Segment, len(p.points)-1)
	for i := range segs {
		segs[i] = Segment{A: p.points[i], B: p.points[i+1]}
	}
	return segs
}

// Length returns the total planar length of the path.
func (p *Path) Length() float64 {
	length := 0.
	for i := 0; i < len(p.points)-1; i++ {
		length += math.Hypot(p.points[i+1].X-p.points[i].X, p.points[i+1].Y-p.points[i].Y)
	}
	return length
}

// Bounds returns the rectangular extent of the path.
func (p *Path) Bounds() *geom.Bounds {
	return p.LineString().Bounds()
}

// Equal reports whether p and o have the same vertex count and every
// vertex pair coincides within tol.
func (p *Path) Equal(o *Path, tol float64) bool {
	if o == nil || len(p.points) != len(o.points) {
		return false
	}
	for i, pt := range p.points {
		if math.Abs(pt.X-o.points[i].X) > tol || math.Abs(pt.Y-o.points[i].Y) > tol {
			return false
		}
	}
	return true
}

// Geometry returns the path as a GeoJSON LineString geometry, for the
// serialization collaborator to wrap into a Feature.
func (p *Path) Geometry() (*geojson.Geometry, error) {
	return geojson.ToGeoJSON(p.LineString())
}

func (p *Path) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path[%d vertices, length %.4f", len(p.points), p.Length())
	fmt.Fprintf(&b, ", %v -> %v]", p.Start(), p.End())
	return b.String()
}
