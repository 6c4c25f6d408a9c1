// Package corridor builds smoothed buffer polygons around paths.
//
// A corridor is the union of a disk at every path vertex and a
// rectangular strip along every segment. Vertex disks overlap the
// segment strips, so joins between segments come out rounded without
// mitering artifacts at sharp turns. The union is resolved with the
// polygon clipping operations from github.com/ctessum/geom.
package corridor

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"

	"github.com/kass/go-corridor/pkg/path"
)

var (
	// ErrDegenerateBuffer reports a non-positive width or resolution.
	ErrDegenerateBuffer = errors.New("degenerate buffer")

	// ErrInvalidGeometry reports that the union of buffer pieces did not
	// produce a single simple outer ring covering the whole path. Highly
	// folded paths can enclose holes or collapse the union to the enclosed
	// hole; the builder reports this instead of repairing it, so the
	// caller can decide to simplify the path first.
	ErrInvalidGeometry = errors.New("invalid corridor geometry")
)

// Config holds the corridor construction parameters. There is no
// package-level default; callers pass an explicit Config.
type Config struct {
	// Width is the buffer half-width, in the path's coordinate units.
	Width float64
	// Resolution is the number of arc samples per quarter circle used to
	// approximate the rounded caps and joins. 1 gives square caps, 16 is
	// visually smooth.
	Resolution int
}

// Validate checks the construction parameters.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be > 0, got %g", ErrDegenerateBuffer, c.Width)
	}
	if c.Resolution < 1 {
		return fmt.Errorf("%w: resolution must be >= 1, got %d", ErrDegenerateBuffer, c.Resolution)
	}
	return nil
}

// Corridor is the closed buffer polygon around a path. It is a pure
// function of (path, config): rebuilding with the same inputs yields the
// same geometry, and nothing is cached across path mutations because
// paths are immutable.
type Corridor struct {
	source  *path.Path
	cfg     Config
	polygon geom.Polygon // exactly one outer ring, no holes
}

// Build constructs the corridor for p with the given configuration.
func Build(p *path.Path, cfg Config) (*Corridor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pts := p.Points()

	var union geom.Polygonal = vertexDisk(pts[0], cfg)
	for _, pt := range pts[1:] {
		union = union.Union(vertexDisk(pt, cfg))
	}
	for i := 0; i < len(pts)-1; i++ {
		union = union.Union(segmentStrip(pts[i], pts[i+1], cfg.Width))
	}

	polys := union.Polygons()
	rings := 0
	for _, poly := range polys {
		rings += len(poly)
	}
	if len(polys) != 1 || rings != 1 {
		return nil, fmt.Errorf("%w: union of %d vertices produced %d rings, want 1",
			ErrInvalidGeometry, len(pts), rings)
	}
	poly := polys[0]
	if poly.Area() <= 0 {
		return nil, fmt.Errorf("%w: corridor area is not positive", ErrInvalidGeometry)
	}
	// A folded loop can make the clipper return the enclosed hole as the
	// only ring; the source vertices expose that case.
	for i, pt := range pts {
		if pt.Within(poly) == geom.Outside {
			return nil, fmt.Errorf("%w: source vertex %d (%g, %g) is outside the corridor",
				ErrInvalidGeometry, i, pt.X, pt.Y)
		}
	}
	return &Corridor{source: p, cfg: cfg, polygon: poly}, nil
}

// vertexDisk approximates a disk of radius cfg.Width centered on pt with
// 4*cfg.Resolution samples. Sampling starts at angle zero, so the four
// axis-aligned extreme points of the circle are always exact.
func vertexDisk(pt geom.Point, cfg Config) geom.Polygon {
	n := 4 * cfg.Resolution
	ring := make([]geom.Point, n)
	for k := 0; k < n; k++ {
		a := 2 * math.Pi * float64(k) / float64(n)
		ring[k] = geom.Point{
			X: pt.X + cfg.Width*math.Cos(a),
			Y: pt.Y + cfg.Width*math.Sin(a),
		}
	}
	return geom.Polygon{ring}
}

// segmentStrip is the rectangle of half-width w along the segment a-b,
// offset along the segment's unit normal.
func segmentStrip(a, b geom.Point, w float64) geom.Polygon {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	nx, ny := -dy/length*w, dx/length*w
	return geom.Polygon{{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}}
}

// Source returns the path the corridor was built from.
func (c *Corridor) Source() *path.Path { return c.source }

// Config returns the construction parameters.
func (c *Corridor) Config() Config { return c.cfg }

// Area returns the corridor area in squared path coordinate units.
func (c *Corridor) Area() float64 { return c.polygon.Area() }

// ScaledArea returns the corridor area multiplied by an external scale
// factor, e.g. a degrees²-to-km² conversion chosen by the caller. The
// engine itself has no opinion about real-world units.
func (c *Corridor) ScaledArea(factor float64) float64 { return c.Area() * factor }

// Perimeter returns the length of the boundary ring.
func (c *Corridor) Perimeter() float64 {
	ring := c.polygon[0]
	length := 0.
	for i := 0; i < len(ring)-1; i++ {
		length += math.Hypot(ring[i+1].X-ring[i].X, ring[i+1].Y-ring[i].Y)
	}
	return length
}

// Ring returns a copy of the closed boundary ring, ordered, with the
// first point repeated at the end. This is the shape handed to rendering
// and serialization collaborators.
func (c *Corridor) Ring() []geom.Point {
	ring := make([]geom.Point, len(c.polygon[0]))
	copy(ring, c.polygon[0])
	return ring
}

// Polygon returns a copy of the corridor as a geom.Polygon.
func (c *Corridor) Polygon() geom.Polygon {
	return geom.Polygon{c.Ring()}
}

// Bounds returns the rectangular extent of the corridor.
func (c *Corridor) Bounds() *geom.Bounds { return c.polygon.Bounds() }

// Centroid returns the centroid of the corridor polygon.
func (c *Corridor) Centroid() geom.Point { return c.polygon.Centroid() }

// Contains reports whether pt lies inside the corridor. Points exactly
// on the boundary count as contained (closed-set semantics).
func (c *Corridor) Contains(pt geom.Point) bool {
	return pt.Within(c.polygon) != geom.Outside
}

// BoundaryDistance returns the minimum distance from pt to the corridor
// boundary ring. It is zero for points exactly on the boundary and
// positive on both sides of it.
func (c *Corridor) BoundaryDistance(pt geom.Point) float64 {
	ring := c.polygon[0]
	min := math.Inf(1)
	for i := 0; i < len(ring)-1; i++ {
		if d := distPointToSegment(pt, ring[i], ring[i+1]); d < min {
			min = d
		}
	}
	return min
}

// Geometry returns the corridor as a GeoJSON Polygon geometry, for the
// serialization collaborator to wrap into a Feature.
func (c *Corridor) Geometry() (*geojson.Geometry, error) {
	return geojson.ToGeoJSON(c.polygon)
}

func distPointToSegment(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
