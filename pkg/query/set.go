package query

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kass/go-corridor/pkg/corridor"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2

	// pointExtent inflates the degenerate rectangle built around a query
	// point, as rtreego rejects zero-extent rectangles.
	pointExtent = 1e-9
)

// spatialCorridor wraps a corridor index for R-tree lookup by bounding box.
type spatialCorridor struct {
	idx  int
	rect *rtreego.Rect
}

func (sc *spatialCorridor) Bounds() *rtreego.Rect { return sc.rect }

// Set is an immutable collection of corridors with an R-tree over their
// bounding boxes. The tree prunes the points x corridors grid: a point
// whose location misses a corridor's bounds is recorded as not contained
// without running the point-in-polygon test. Build once, then query from
// any number of goroutines.
type Set struct {
	corridors []*corridor.Corridor
	tree      *rtreego.Rtree
}

// NewSet indexes the given corridors. Corridor order is preserved in all
// result shapes.
func NewSet(corridors []*corridor.Corridor) (*Set, error) {
	if len(corridors) == 0 {
		return nil, fmt.Errorf("query: set needs at least one corridor")
	}
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	for i, c := range corridors {
		b := c.Bounds()
		rect, err := rtreego.NewRect(
			rtreego.Point{b.Min.X, b.Min.Y},
			[]float64{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y},
		)
		if err != nil {
			return nil, fmt.Errorf("query: corridor %d bounds: %w", i, err)
		}
		tree.Insert(&spatialCorridor{idx: i, rect: rect})
	}
	return &Set{corridors: corridors, tree: tree}, nil
}

// Len returns the number of corridors in the set.
func (s *Set) Len() int { return len(s.corridors) }

// Corridor returns the corridor at index i.
func (s *Set) Corridor(i int) *corridor.Corridor { return s.corridors[i] }

// candidates returns the indices of corridors whose bounds contain pt.
func (s *Set) candidates(pt geom.Point) []int {
	rect := rtreego.Point{pt.X, pt.Y}.ToRect(pointExtent)
	hits := s.tree.SearchIntersect(rect)
	idx := make([]int, 0, len(hits))
	for _, h := range hits {
		idx = append(idx, h.(*spatialCorridor).idx)
	}
	return idx
}

// Matrix returns the points x corridors containment grid. Row order
// matches the input point order; column order matches the set order.
func (s *Set) Matrix(pts []geom.Point) [][]bool {
	grid := make([][]bool, len(pts))
	forEachPoint(len(pts), func(i int) {
		row := make([]bool, len(s.corridors))
		for _, j := range s.candidates(pts[i]) {
			if s.corridors[j].Contains(pts[i]) {
				row[j] = true
			}
		}
		grid[i] = row
	})
	return grid
}

// Summary aggregates a containment matrix into per-corridor counts plus
// global in-any / in-none counts.
type Summary struct {
	TotalPoints    int
	TotalCorridors int
	PerCorridor    []int // contained point count per corridor, set order
	InAny          int   // points contained by at least one corridor
	InNone         int   // points contained by no corridor
}

// Summary evaluates pts against every corridor and aggregates the grid.
func (s *Set) Summary(pts []geom.Point) Summary {
	grid := s.Matrix(pts)
	sum := Summary{
		TotalPoints:    len(pts),
		TotalCorridors: len(s.corridors),
		PerCorridor:    make([]int, len(s.corridors)),
	}
	for _, row := range grid {
		any := false
		for j, in := range row {
			if in {
				sum.PerCorridor[j]++
				any = true
			}
		}
		if any {
			sum.InAny++
		} else {
			sum.InNone++
		}
	}
	return sum
}

// PointReport is the per-point breakdown of a multi-corridor query.
type PointReport struct {
	Index int
	Point geom.Point
	In    []int // indices of corridors containing the point, ascending
	InAll bool

	// Boundary distance aggregates across all corridors in the set.
	MinDistance  float64
	MaxDistance  float64
	MeanDistance float64
}

// ByPoint evaluates pts against every corridor and reports per point.
func (s *Set) ByPoint(pts []geom.Point) []PointReport {
	reports := make([]PointReport, len(pts))
	forEachPoint(len(pts), func(i int) {
		r := PointReport{Index: i, Point: pts[i]}
		dists := make([]float64, len(s.corridors))
		for j, c := range s.corridors {
			if c.Contains(pts[i]) {
				r.In = append(r.In, j)
			}
			dists[j] = c.BoundaryDistance(pts[i])
		}
		r.InAll = len(r.In) == len(s.corridors)
		r.MinDistance = floats.Min(dists)
		r.MaxDistance = floats.Max(dists)
		r.MeanDistance = stat.Mean(dists, nil)
		reports[i] = r
	})
	return reports
}

// CorridorReport is the per-corridor breakdown of a multi-corridor query.
type CorridorReport struct {
	Index       int
	Contained   []int // indices of contained points, ascending
	Count       int
	ContainsAll bool

	MinDistance  float64
	MaxDistance  float64
	MeanDistance float64
}

// ByCorridor evaluates pts against every corridor and reports per corridor.
func (s *Set) ByCorridor(pts []geom.Point) []CorridorReport {
	reports := make([]CorridorReport, len(s.corridors))
	for j, c := range s.corridors {
		r := CorridorReport{Index: j}
		dists := make([]float64, len(pts))
		for i, pt := range pts {
			if c.Contains(pt) {
				r.Contained = append(r.Contained, i)
			}
			dists[i] = c.BoundaryDistance(pt)
		}
		r.Count = len(r.Contained)
		r.ContainsAll = r.Count == len(pts)
		if len(dists) > 0 {
			r.MinDistance = floats.Min(dists)
			r.MaxDistance = floats.Max(dists)
			r.MeanDistance = stat.Mean(dists, nil)
		}
		reports[j] = r
	}
	return reports
}

// CheckPoint evaluates a single point against every corridor in the set
// using the single-batch aggregation modes: the boolean vector is
// per-corridor rather than per-point.
func (s *Set) CheckPoint(pt geom.Point, mode Mode) (Result, error) {
	flags := make([]bool, len(s.corridors))
	for _, j := range s.candidates(pt) {
		flags[j] = s.corridors[j].Contains(pt)
	}
	switch mode {
	case ModeContains:
		return Result{Mode: mode, Contains: flags}, nil
	case ModeAny:
		return Result{Mode: mode, Flag: countTrue(flags) > 0}, nil
	case ModeAll:
		return Result{Mode: mode, Flag: countTrue(flags) == len(flags)}, nil
	case ModeCount:
		return Result{Mode: mode, Count: countTrue(flags)}, nil
	case ModeWhich:
		return Result{Mode: mode, Indices: trueIndices(flags)}, nil
	case ModeDetails:
		d := &Details{
			Total:     len(s.corridors),
			Count:     countTrue(flags),
			Indices:   trueIndices(flags),
			Contains:  flags,
			Distances: make([]float64, len(s.corridors)),
		}
		for j, c := range s.corridors {
			d.Distances[j] = c.BoundaryDistance(pt)
		}
		d.MinDistance = floats.Min(d.Distances)
		d.MaxDistance = floats.Max(d.Distances)
		d.MeanDistance = stat.Mean(d.Distances, nil)
		return Result{Mode: mode, Details: d}, nil
	case ModeMatrix, ModeSummary:
		return Result{}, fmt.Errorf("%w: %v is a point-batch mode, use CheckPointsInBuffers", ErrUnknownMode, mode)
	default:
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// MultiResult is the tagged output of CheckPointsInBuffers.
type MultiResult struct {
	Mode    Mode
	Matrix  [][]bool // ModeMatrix
	Summary *Summary // ModeSummary
}

// CheckPointsInBuffers evaluates a point batch against a corridor batch.
// ModeMatrix yields the full grid, ModeSummary the aggregated counts.
func CheckPointsInBuffers(pts []geom.Point, corridors []*corridor.Corridor, mode Mode) (MultiResult, error) {
	set, err := NewSet(corridors)
	if err != nil {
		return MultiResult{}, err
	}
	switch mode {
	case ModeMatrix:
		return MultiResult{Mode: mode, Matrix: set.Matrix(pts)}, nil
	case ModeSummary:
		sum := set.Summary(pts)
		return MultiResult{Mode: mode, Summary: &sum}, nil
	case ModeContains, ModeAny, ModeAll, ModeCount, ModeWhich, ModeDetails:
		return MultiResult{}, fmt.Errorf("%w: %v is a single-corridor mode, use Check or Set.CheckPoint", ErrUnknownMode, mode)
	default:
		return MultiResult{}, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}
