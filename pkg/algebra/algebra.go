// Package algebra provides pure operations that combine, reduce, and
// compare paths and their corridors. Inputs are never modified; every
// operation returns a new value.
package algebra

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kass/go-corridor/pkg/corridor"
	"github.com/kass/go-corridor/pkg/path"
)

var (
	// ErrEmptyResult reports an operation whose output keeps too few
	// vertices to form a path.
	ErrEmptyResult = errors.New("empty result")

	// ErrPointNotOnPath reports a split target farther from the path than
	// the allowed tolerance.
	ErrPointNotOnPath = errors.New("point not on path")
)

// Combine concatenates a and b into one path, in order. If a's end
// coincides with b's start within tol, the joint vertex is kept once.
// Vertices are never reordered.
func Combine(a, b *path.Path, tol float64) (*path.Path, error) {
	pts := a.Points()
	bpts := b.Points()
	if near(a.End(), b.Start(), tol) {
		bpts = bpts[1:]
	}
	return path.New(append(pts, bpts...))
}

// Difference removes from a every vertex that coincides with a vertex of
// b within tol, preserving the order of the survivors. It fails with
// ErrEmptyResult when fewer than two vertices survive.
func Difference(a, b *path.Path, tol float64) (*path.Path, error) {
	bpts := b.Points()
	var kept []geom.Point
	for _, p := range a.Points() {
		drop := false
		for _, q := range bpts {
			if near(p, q, tol) {
				drop = true
				break
			}
		}
		if drop {
			continue
		}
		// Removing interior vertices can bring two equal vertices of a
		// (e.g. a loop closure) next to each other; collapse them.
		if len(kept) > 0 && p.Equals(kept[len(kept)-1]) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) < 2 {
		return nil, fmt.Errorf("%w: difference keeps %d of %d vertices", ErrEmptyResult, len(kept), a.Len())
	}
	return path.New(kept)
}

// Comparison is the structural diff of two paths.
type Comparison struct {
	VertexDelta int     // a.Len() - b.Len()
	LengthDelta float64 // a.Length() - b.Length()

	// NearestDistances[i] is the distance from a's vertex i to the
	// nearest vertex of b.
	NearestDistances []float64
	MinNearest       float64
	MaxNearest       float64
	MeanNearest      float64

	SameEndpoints bool
}

// Compare reports the structural differences between two paths.
func Compare(a, b *path.Path) Comparison {
	apts, bpts := a.Points(), b.Points()
	dists := make([]float64, len(apts))
	for i, p := range apts {
		dists[i] = nearestVertexDistance(p, bpts)
	}
	return Comparison{
		VertexDelta:      a.Len() - b.Len(),
		LengthDelta:      a.Length() - b.Length(),
		NearestDistances: dists,
		MinNearest:       floats.Min(dists),
		MaxNearest:       floats.Max(dists),
		MeanNearest:      stat.Mean(dists, nil),
		SameEndpoints:    a.Start().Equals(b.Start()) && a.End().Equals(b.End()),
	}
}

// DetailedComparison extends Comparison with corridor-level geometry.
type DetailedComparison struct {
	Comparison

	// Areas of the boolean combinations of the two corridors built with
	// the same configuration.
	SymmetricDifferenceArea float64
	IntersectionArea        float64
	UnionArea               float64
	Jaccard                 float64 // intersection over union, 0 when disjoint

	// Hausdorff is the discrete Hausdorff distance between the two
	// vertex sets.
	Hausdorff float64
}

// CompareDetailed builds a corridor around each path with cfg and adds
// the area-level diff to the structural comparison.
func CompareDetailed(a, b *path.Path, cfg corridor.Config) (DetailedComparison, error) {
	ca, err := corridor.Build(a, cfg)
	if err != nil {
		return DetailedComparison{}, fmt.Errorf("compare: corridor for first path: %w", err)
	}
	cb, err := corridor.Build(b, cfg)
	if err != nil {
		return DetailedComparison{}, fmt.Errorf("compare: corridor for second path: %w", err)
	}
	pa, pb := ca.Polygon(), cb.Polygon()
	inter := pa.Intersection(pb).Area()
	union := pa.Union(pb).Area()
	out := DetailedComparison{
		Comparison: Compare(a, b),
		// The clipper short-circuits XOR to an empty polygon when the
		// bounding boxes are disjoint, so the symmetric difference is
		// derived from the union and intersection areas instead.
		SymmetricDifferenceArea: union - inter,
		IntersectionArea:        inter,
		UnionArea:               union,
		Hausdorff:               hausdorff(a.Points(), b.Points()),
	}
	if union > 0 {
		out.Jaccard = inter / union
	}
	return out, nil
}

// Simplify removes vertices whose deviation from the simplified line is
// below tol. The result is a subsequence of the original vertices, never
// fewer than two points, and never introduces new points. Simplifying an
// already simplified path with the same tolerance is a no-op.
func Simplify(p *path.Path, tol float64) (*path.Path, error) {
	if p.Len() == 2 {
		return path.New(p.Points())
	}
	ls := p.LineString().Simplify(tol).(geom.LineString)
	return path.New(ls)
}

// SplitAtPoint finds the position on the path nearest to at (projecting
// onto the nearest segment) and splits the path there. Both halves share
// the split vertex. It fails with ErrPointNotOnPath when the nearest
// distance exceeds tol.
func SplitAtPoint(p *path.Path, at geom.Point, tol float64) (*path.Path, *path.Path, error) {
	pts := p.Points()
	bestDist := math.Inf(1)
	bestSeg := -1
	var bestPt geom.Point
	for i := 0; i < len(pts)-1; i++ {
		proj, d := projectOnSegment(at, pts[i], pts[i+1])
		if d < bestDist {
			bestDist, bestSeg, bestPt = d, i, proj
		}
	}
	if bestDist > tol {
		return nil, nil, fmt.Errorf("%w: nearest distance %g exceeds tolerance %g",
			ErrPointNotOnPath, bestDist, tol)
	}

	var firstPts, secondPts []geom.Point
	switch {
	case bestPt.Equals(pts[bestSeg]):
		firstPts = append(firstPts, pts[:bestSeg+1]...)
		secondPts = append(secondPts, pts[bestSeg:]...)
	case bestPt.Equals(pts[bestSeg+1]):
		firstPts = append(firstPts, pts[:bestSeg+2]...)
		secondPts = append(secondPts, pts[bestSeg+1:]...)
	default:
		firstPts = append(append(firstPts, pts[:bestSeg+1]...), bestPt)
		secondPts = append(append(secondPts, bestPt), pts[bestSeg+1:]...)
	}

	first, err := path.New(firstPts)
	if err != nil {
		return nil, nil, fmt.Errorf("split at (%g, %g): first half: %w", at.X, at.Y, err)
	}
	second, err := path.New(secondPts)
	if err != nil {
		return nil, nil, fmt.Errorf("split at (%g, %g): second half: %w", at.X, at.Y, err)
	}
	return first, second, nil
}

// Interpolate resamples the path at n positions evenly spaced by arc
// length. The first and last points equal the path's endpoints exactly.
func Interpolate(p *path.Path, n int) (*path.Path, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", path.ErrInvalidPath, n)
	}
	pts := p.Points()
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	total := cum[len(cum)-1]

	out := make([]geom.Point, n)
	out[0] = pts[0]
	out[n-1] = pts[len(pts)-1]
	seg := 0
	for k := 1; k < n-1; k++ {
		target := total * float64(k) / float64(n-1)
		for seg < len(pts)-2 && cum[seg+1] < target {
			seg++
		}
		span := cum[seg+1] - cum[seg]
		t := (target - cum[seg]) / span
		out[k] = geom.Point{
			X: pts[seg].X + t*(pts[seg+1].X-pts[seg].X),
			Y: pts[seg].Y + t*(pts[seg+1].Y-pts[seg].Y),
		}
	}
	return path.New(out)
}

func near(a, b geom.Point, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}

func nearestVertexDistance(p geom.Point, pts []geom.Point) float64 {
	min := math.Inf(1)
	for _, q := range pts {
		if d := math.Hypot(p.X-q.X, p.Y-q.Y); d < min {
			min = d
		}
	}
	return min
}

// hausdorff is the discrete Hausdorff distance between two vertex sets:
// the larger of the two directed nearest-neighbor maxima.
func hausdorff(a, b []geom.Point) float64 {
	directed := func(from, to []geom.Point) float64 {
		max := 0.
		for _, p := range from {
			if d := nearestVertexDistance(p, to); d > max {
				max = d
			}
		}
		return max
	}
	return math.Max(directed(a, b), directed(b, a))
}

func projectOnSegment(p, a, b geom.Point) (geom.Point, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return a, math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := geom.Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return proj, math.Hypot(p.X-proj.X, p.Y-proj.Y)
}
