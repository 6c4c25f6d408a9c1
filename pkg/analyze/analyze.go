// Package analyze derives scalar statistics from paths and corridors.
// Everything here is a pure function of its inputs.
package analyze

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/kass/go-corridor/pkg/corridor"
	"github.com/kass/go-corridor/pkg/path"
)

// Stats summarizes a path together with its corridor.
type Stats struct {
	Length      float64 // path length, coordinate units
	Area        float64 // corridor area, squared coordinate units
	Perimeter   float64 // corridor boundary length
	VertexCount int
	Bounds      *geom.Bounds // corridor extent
	Centroid    geom.Point   // corridor centroid
}

// Statistics computes the summary for a path/corridor pair.
func Statistics(p *path.Path, c *corridor.Corridor) Stats {
	return Stats{
		Length:      p.Length(),
		Area:        c.Area(),
		Perimeter:   c.Perimeter(),
		VertexCount: p.Len(),
		Bounds:      c.Bounds(),
		Centroid:    c.Centroid(),
	}
}

// Gradient returns the per-segment slope dy/dx, length Len()-1.
// Vertical segments yield +Inf or -Inf depending on direction.
func Gradient(p *path.Path) []float64 {
	segs := p.Segments()
	out := make([]float64, len(segs))
	for i, s := range segs {
		dx := s.B.X - s.A.X
		dy := s.B.Y - s.A.Y
		if dx == 0 {
			out[i] = math.Inf(sign(dy))
			continue
		}
		out[i] = dy / dx
	}
	return out
}

// Bearing returns the per-segment compass bearing in degrees, measured
// clockwise from north (+Y), in [0, 360). Length is Len()-1.
func Bearing(p *path.Path) []float64 {
	segs := p.Segments()
	out := make([]float64, len(segs))
	for i, s := range segs {
		deg := math.Atan2(s.B.X-s.A.X, s.B.Y-s.A.Y) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		out[i] = deg
	}
	return out
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}
