// Package query evaluates containment of point batches against one or
// many corridors, with selectable aggregation modes.
package query

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kass/go-corridor/pkg/corridor"
)

// ErrUnknownMode reports a mode name or value the engine does not know.
var ErrUnknownMode = errors.New("unknown query mode")

// Mode selects the shape of a containment result. The enumeration is
// closed: every dispatch switch in this package is exhaustive, so adding
// a mode is a compile-time-visible change.
type Mode int

const (
	// ModeContains yields a boolean per point, input order preserved.
	ModeContains Mode = iota
	// ModeAny yields true iff at least one point is contained.
	ModeAny
	// ModeAll yields true iff every point is contained.
	ModeAll
	// ModeCount yields the number of contained points.
	ModeCount
	// ModeWhich yields the ascending indices of contained points.
	ModeWhich
	// ModeDetails yields a Details record.
	ModeDetails
	// ModeMatrix (multi-corridor) yields a points x corridors grid.
	ModeMatrix
	// ModeSummary (multi-corridor) yields per-corridor and global counts.
	ModeSummary
)

var modeNames = map[Mode]string{
	ModeContains: "contains",
	ModeAny:      "any",
	ModeAll:      "all",
	ModeCount:    "count",
	ModeWhich:    "which",
	ModeDetails:  "details",
	ModeMatrix:   "matrix",
	ModeSummary:  "summary",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode name as used on the command line.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Result is the tagged output of Check. Only the fields belonging to its
// Mode are populated.
type Result struct {
	Mode     Mode
	Contains []bool   // ModeContains
	Flag     bool     // ModeAny, ModeAll
	Count    int      // ModeCount
	Indices  []int    // ModeWhich
	Details  *Details // ModeDetails
}

// Details is the structured per-batch record produced by ModeDetails.
type Details struct {
	Total     int
	Count     int
	Indices   []int
	Contains  []bool
	Distances []float64 // distance to the corridor boundary, input order

	MinDistance  float64
	MaxDistance  float64
	MeanDistance float64
}

// Check evaluates pts against a single corridor in the given mode.
// Points exactly on the corridor boundary count as contained.
func Check(c *corridor.Corridor, pts []geom.Point, mode Mode) (Result, error) {
	flags := Contains(c, pts)
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
		return Result{Mode: mode, Details: details(c, pts, flags)}, nil
	case ModeMatrix, ModeSummary:
		return Result{}, fmt.Errorf("%w: %v requires multiple corridors, use CheckPointsInBuffers", ErrUnknownMode, mode)
	default:
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// Contains returns a boolean per point, input order preserved.
func Contains(c *corridor.Corridor, pts []geom.Point) []bool {
	flags := make([]bool, len(pts))
	forEachPoint(len(pts), func(i int) {
		flags[i] = c.Contains(pts[i])
	})
	return flags
}

// Any reports whether at least one point is contained.
func Any(c *corridor.Corridor, pts []geom.Point) bool {
	return countTrue(Contains(c, pts)) > 0
}

// All reports whether every point is contained.
func All(c *corridor.Corridor, pts []geom.Point) bool {
	flags := Contains(c, pts)
	return countTrue(flags) == len(flags)
}

// Count returns the number of contained points.
func Count(c *corridor.Corridor, pts []geom.Point) int {
	return countTrue(Contains(c, pts))
}

// Which returns the ascending indices of contained points.
func Which(c *corridor.Corridor, pts []geom.Point) []int {
	return trueIndices(Contains(c, pts))
}

func details(c *corridor.Corridor, pts []geom.Point, flags []bool) *Details {
	d := &Details{
		Total:     len(pts),
		Count:     countTrue(flags),
		Indices:   trueIndices(flags),
		Contains:  flags,
		Distances: make([]float64, len(pts)),
	}
	forEachPoint(len(pts), func(i int) {
		d.Distances[i] = c.BoundaryDistance(pts[i])
	})
	if len(d.Distances) > 0 {
		d.MinDistance = floats.Min(d.Distances)
		d.MaxDistance = floats.Max(d.Distances)
		d.MeanDistance = stat.Mean(d.Distances, nil)
	}
	return d
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func trueIndices(flags []bool) []int {
	idx := make([]int, 0, len(flags))
	for i, f := range flags {
		if f {
			idx = append(idx, i)
		}
	}
	return idx
}

// forEachPoint runs fn for every index, partitioning large batches
// across worker goroutines. Results land in pre-sized slices keyed by
// index, so input order is always preserved.
func forEachPoint(n int, fn func(i int)) {
	workers := runtime.NumCPU()
	if n < 2*workers {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	batch := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
